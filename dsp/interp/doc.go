// Package interp provides interpolation and sub-sample root finding
// primitives used by the pickers.
//
// Available methods:
//
//   - [Linear2]:    2-point linear interpolation
//   - [Lagrange4]:  4-point cubic Lagrange through x = -1, 0, 1, 2
//   - [LinearRoot]: zero of the line through two samples
//   - [CubicRoot]:  zero of the 4-point Lagrange cubic on [0, 1], by bisection
//
// The 4-point functions take samples y0..y3 at x = -1, 0, 1, 2 and work on
// the central interval between y1 and y2.
package interp
