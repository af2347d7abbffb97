package equation

import "errors"

var (
	// ErrLength indicates a coefficient slice that is not NumParams long.
	ErrLength = errors.New("equation: wrong number of coefficients")

	// ErrCoefficient indicates a coefficient outside {-1, 0, 1}.
	ErrCoefficient = errors.New("equation: coefficient must be -1, 0 or 1")
)
