// Package config loads and watches the pulsesim run configuration
// (pulsesim.yaml).
//
// Top-level types:
//   - Config{Trace, Run, Slow, Fast, CFD, Output}: full config tree
//   - TraceConfig: source (function|wav), path, sampling_rate, points, seed,
//     noise and the pulse shape sampled by the function source
//   - RunConfig: stage switches, entries, zero_point, threads, noise_points
//   - SlowConfig, FastConfig, CFDConfig: filter and picker type per stage
//     plus the parameter ranges swept by the driver
//   - Range: [min, max, step] or a single value
//
// Load(path) reads the YAML file, applies defaults, then validates stage
// types and ranges. Watch(ctx, path, log, onChange) reloads the file on
// every write.
package config
