// Package equation defines the coefficient vector of a chaos equation.
//
// A [Params] holds 18 ternary coefficients for the pair of quadratic forms
//
//	x' = c0·x² + c1·y² + c2·t² + c3·xy + c4·xt + c5·yt + c6·x + c7·y + c8·t
//	y' = c9·x² + ...                                              + c17·t
//
// Each coefficient is -1, 0 or +1. The package provides random generation,
// the six character base-27 code used to identify an equation, and the
// human-readable rendering shown next to the trail.
package equation
