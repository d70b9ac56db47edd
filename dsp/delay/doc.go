// Package delay provides a fixed-size circular sample line.
//
// [Line] keeps an explicit write head. Read(k) looks k slots back from the
// head, so after a full cycle of writes Read(1) is the newest sample and
// Read(0) is the oldest one, the slot the next Write overwrites. The
// recursive shaping filters use it as the rolling-sum ring of their
// moving windows.
package delay
