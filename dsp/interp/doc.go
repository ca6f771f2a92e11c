// Package interp provides the fractional-sample interpolation kernels used by
// the delay lines.
//
//   - [Linear2]:  2-point linear interpolation
//   - [Hermite4]: 4-point cubic Hermite with Catmull-Rom tangents (default)
package interp
