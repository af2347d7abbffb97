package equation

import (
	"fmt"
	"strings"
)

const (
	// NumTerms is the number of monomials in each quadratic form.
	NumTerms = 9
	// NumParams is the total coefficient count for both forms.
	NumParams = 2 * NumTerms
	// CodeLen is the length of an encoded equation.
	CodeLen = NumParams / 3

	base27 = "_ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// TermLabels names the monomials in coefficient order.
var TermLabels = [NumTerms]string{"x²", "y²", "t²", "xy", "xt", "yt", "x", "y", "t"}

// Params is an immutable set of recurrence coefficients.
type Params [NumParams]float64

// Intner is the random source used by Generate. *rand.Rand satisfies it.
type Intner interface {
	Intn(n int) int
}

// Generate draws each coefficient from {1, -1, 0, 0}, so zero is twice as
// likely as either sign.
func Generate(rng Intner) Params {
	var p Params
	for i := range p {
		switch rng.Intn(4) {
		case 0:
			p[i] = 1
		case 1:
			p[i] = -1
		default:
			p[i] = 0
		}
	}
	return p
}

// New validates coeffs and copies them into a Params.
func New(coeffs []float64) (Params, error) {
	var p Params
	if len(coeffs) != NumParams {
		return p, fmt.Errorf("%w: got %d, want %d", ErrLength, len(coeffs), NumParams)
	}
	for i, c := range coeffs {
		if c != -1 && c != 0 && c != 1 {
			return p, fmt.Errorf("%w: index %d is %v", ErrCoefficient, i, c)
		}
		p[i] = c
	}
	return p, nil
}

// MustNew is like New but panics on invalid input.
func MustNew(coeffs []float64) Params {
	p, err := New(coeffs)
	if err != nil {
		panic(err)
	}
	return p
}

// Encode packs each group of three coefficients into one base-27 symbol.
func (p Params) Encode() string {
	var b strings.Builder
	b.Grow(CodeLen)
	a, n := 0, 0
	for _, c := range p {
		a = a*3 + int(c) + 1
		n++
		if n == 3 {
			b.WriteByte(base27[a])
			a, n = 0, 0
		}
	}
	return b.String()
}

// Describe renders the x and y forms as signed sums of their nonzero terms.
// An all-zero form renders as the empty string.
func (p Params) Describe() (x, y string) {
	return describe(p[:NumTerms]), describe(p[NumTerms:])
}

func describe(coeffs []float64) string {
	var b strings.Builder
	first := true
	for i, c := range coeffs {
		if c == 0 {
			continue
		}
		switch {
		case first && c < 0:
			b.WriteByte('-')
		case !first && c < 0:
			b.WriteString(" - ")
		case !first:
			b.WriteString(" + ")
		}
		b.WriteString(TermLabels[i])
		first = false
	}
	return b.String()
}

// Label is the overlay text shown by the renderers.
func (p Params) Label() string {
	x, y := p.Describe()
	return "x' = " + x + "\ny' = " + y + "\nCode: " + p.Encode()
}

// IsZero reports whether every coefficient is zero.
func (p Params) IsZero() bool {
	return p == Params{}
}

// Step applies the recurrence once.
func (p Params) Step(x, y, t float64) (float64, float64) {
	xx, yy, tt := x*x, y*y, t*t
	xy, xt, yt := x*y, x*t, y*t
	nx := xx*p[0] + yy*p[1] + tt*p[2] + xy*p[3] + xt*p[4] + yt*p[5] + x*p[6] + y*p[7] + t*p[8]
	ny := xx*p[9] + yy*p[10] + tt*p[11] + xy*p[12] + xt*p[13] + yt*p[14] + x*p[15] + y*p[16] + t*p[17]
	return nx, ny
}

func (p Params) String() string {
	return p.Encode()
}
