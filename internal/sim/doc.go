// Package sim drives the shaping filters and pickers over a stream of
// detector traces.
//
// A Pipeline couples a Reader with up to three stages:
//   - slow: energy filter and picker
//   - fast: trigger filter and picker, giving the timestamp
//   - cfd: constant-fraction filter and picker, giving the fine time
//
// RunFlag selects the stages of a run. BuildSweep expands the parameter
// ranges of a config.Config into one Pipeline per combination and RunSweep
// executes them on a bounded number of goroutines. Every job owns clones of
// the reader, filters and pickers, so jobs never share state.
package sim
