// Package pick reduces a filtered trace to one scalar: an amplitude, a
// time in (fractional) samples, or a baseline.
//
// Energy pickers ([Max], [Base], [TopBase], [TrapezoidTop]) return raw
// amplitude units. Timing pickers ([LeadingEdge], [ZeroCross],
// [DigitalFraction]) return sample indices, with sub-sample resolution from
// linear interpolation or a cubic fit around the crossing (see
// [interp.CubicRoot]). Timing pickers return -1 when nothing is found.
//
// Only the averaging pickers validate their window and report a
// [*RangeError]; every other out-of-range access is a caller error. Pickers
// hold no per-call state but are cloned with their filter for each parallel
// pipeline.
package pick
