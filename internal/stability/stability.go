// Package stability covers the dashboard's stability tab: the safety
// coefficient with its rating, the load-deformation curve and the
// moment–axial interaction curve.
package stability

import (
	"errors"
	"math"
)

var ErrInvalidInput = errors.New("invalid input")

// Rating buckets for the safety coefficient.
type Rating string

const (
	RatingExcellent    Rating = "excellent"
	RatingGood         Rating = "good"
	RatingInsufficient Rating = "insufficient"
)

const (
	excellentThreshold = 2.0
	goodThreshold      = 1.5
)

// SafetyCoefficient is ultimate capacity over applied load. A zero applied
// load yields +Inf rather than an error: with nothing applied the structure
// is arbitrarily safe.
func SafetyCoefficient(ultimateKN, appliedKN float64) (float64, error) {
	if ultimateKN <= 0 || appliedKN < 0 {
		return 0, ErrInvalidInput
	}
	if appliedKN == 0 {
		return math.Inf(1), nil
	}
	return ultimateKN / appliedKN, nil
}

// Classify maps a safety coefficient onto its rating.
func Classify(coefficient float64) Rating {
	switch {
	case coefficient >= excellentThreshold:
		return RatingExcellent
	case coefficient >= goodThreshold:
		return RatingGood
	}
	return RatingInsufficient
}

// CurvePoint is one sample of a 2-D stability plot.
type CurvePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LoadDeformationCurve samples the quadratic load-deformation visualization:
// deformation = 0.1·(P/Pu)² for P in [0, Pu]. Deformation in m, load in kN.
func LoadDeformationCurve(ultimateKN float64, samples int) ([]CurvePoint, error) {
	if ultimateKN <= 0 || samples < 2 {
		return nil, ErrInvalidInput
	}
	pts := make([]CurvePoint, samples)
	for i := range pts {
		p := ultimateKN * float64(i) / float64(samples-1)
		ratio := p / ultimateKN
		pts[i] = CurvePoint{X: 0.1 * ratio * ratio, Y: p}
	}
	return pts, nil
}

// InteractionCurve samples M(N) = M0·(1 − (N/N0)²) over the symmetric range
// N in [−N0, N0]. The curve is decorative: smooth, symmetric, zero moment at
// both axial extremes.
func InteractionCurve(m0KNM, n0KN float64, samples int) ([]CurvePoint, error) {
	if m0KNM <= 0 || n0KN <= 0 || samples < 2 {
		return nil, ErrInvalidInput
	}
	pts := make([]CurvePoint, samples)
	for i := range pts {
		n := -n0KN + 2*n0KN*float64(i)/float64(samples-1)
		ratio := n / n0KN
		pts[i] = CurvePoint{X: m0KNM * (1 - ratio*ratio), Y: n}
	}
	return pts, nil
}
