// Package shaping provides the recursive pulse-shaping filters used to
// extract energy and timing from digitized detector traces.
//
// Every filter maps a trace of N samples to an output of N samples in O(N)
// using running sums: moving-window deconvolution ([MWD]) and the
// exponential-pole sliding-sum filter ([SlidingSum]) for energy, the
// trapezoidal [Fast] filter for timing, and a constant-fraction
// discriminator ([CFD]) built on top of Fast. [Identity] passes the trace
// through and stands for a disabled stage.
//
// Filter parameters are sample counts: l is the rise (integration) length
// and m the rise plus gap. The FromTimes constructors convert physical
// times with truncating division, see [core.Lengths]. Traces must hold at
// least l+m+1 samples; this is not checked.
//
// The returned slice is owned by the filter and overwritten by the next
// call to Filter on the same instance. A filter is not safe for concurrent
// use; use Clone to obtain an independent instance per goroutine.
package shaping
