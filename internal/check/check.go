// Package check verifies the register's aggregates against material limits:
// bending stress versus allowable stress and deflection versus the span/500
// limit.
package check

import (
	"errors"
	"math"

	"Girder/internal/material"
	"Girder/internal/register"
)

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrDivisionByZero = errors.New("division by zero")
)

// Deflection inertia fallback when no section is supplied: the 0.3 m x 0.5 m
// rectangle the original dashboard assumed.
const defaultInertiaM4 = 0.3 * 0.5 * 0.5 * 0.5 / 12

const deflectionLimitRatio = 500.0

// StressResult compares peak bending stress against the material limit.
type StressResult struct {
	StressPa    float64 `json:"stress_pa"`
	AllowablePa float64 `json:"allowable_pa"`
	OK          bool    `json:"ok"`
}

// BendingStress evaluates sigma = M / W. The moment arrives in kN·m from the
// register and is converted to N·m here, at the unit boundary.
func BendingStress(totalMomentKNM, modulusM3 float64) (float64, error) {
	if modulusM3 == 0 {
		return 0, ErrDivisionByZero
	}
	return totalMomentKNM * 1000 / modulusM3, nil
}

// Stress runs the full stress verdict for a register total and a material.
func Stress(totalMomentKNM, modulusM3 float64, m material.Material) (StressResult, error) {
	sigma, err := BendingStress(totalMomentKNM, modulusM3)
	if err != nil {
		return StressResult{}, err
	}
	adm, err := m.AllowableStress()
	if err != nil {
		return StressResult{}, err
	}
	return StressResult{
		StressPa:    sigma,
		AllowablePa: adm,
		OK:          sigma <= adm,
	}, nil
}

// DeflectionResult compares the superposed midspan deflection against
// span/500.
type DeflectionResult struct {
	DeflectionM float64 `json:"deflection_m"`
	AllowableM  float64 `json:"allowable_m"`
	OK          bool    `json:"ok"`
	Note        string  `json:"note"`
}

// CenterPointDeflection is the midspan deflection of a simply supported beam
// under a central point load: f = P·L³ / (48·E·I). Force in N, span in m,
// E in Pa, I in m⁴.
func CenterPointDeflection(forceN, spanM, ePa, inertiaM4 float64) (float64, error) {
	if spanM <= 0 || ePa <= 0 || inertiaM4 <= 0 {
		return 0, ErrInvalidInput
	}
	return forceN * math.Pow(spanM, 3) / (48 * ePa * inertiaM4), nil
}

// AllowableDeflection is the span/500 serviceability limit.
func AllowableDeflection(spanM float64) float64 {
	return spanM / deflectionLimitRatio
}

// ShapePoint is one sample of the plotted deformed shape.
type ShapePoint struct {
	PositionM   float64 `json:"position_m"`
	DeflectionM float64 `json:"deflection_m"`
}

// DeformedShape samples the illustrative half-sine deformed shape drawn
// next to the deflection check: w(x) = a·sin(π·x/L). It is a plotting aid
// with a fixed amplitude, not the integrated elastic curve.
func DeformedShape(spanM, amplitudeM float64, samples int) ([]ShapePoint, error) {
	if spanM <= 0 || samples < 2 {
		return nil, ErrInvalidInput
	}
	if amplitudeM <= 0 {
		amplitudeM = 0.01
	}
	pts := make([]ShapePoint, samples)
	for i := range pts {
		x := spanM * float64(i) / float64(samples-1)
		pts[i] = ShapePoint{
			PositionM:   x,
			DeflectionM: amplitudeM * math.Sin(math.Pi*x/spanM),
		}
	}
	return pts, nil
}

// Deflection superposes the center-load formula over the register's point
// loads. Distributed loads do not contribute; the note in the result records
// that limitation. A non-positive inertia falls back to the assumed default
// section.
func Deflection(r *register.Register, spanM, ePa, inertiaM4 float64) (DeflectionResult, error) {
	if spanM <= 0 || ePa <= 0 {
		return DeflectionResult{}, ErrInvalidInput
	}
	if inertiaM4 <= 0 {
		inertiaM4 = defaultInertiaM4
	}
	var total float64
	for _, l := range r.PointLoads() {
		f, err := CenterPointDeflection(l.MagnitudeKN*1000, spanM, ePa, inertiaM4)
		if err != nil {
			return DeflectionResult{}, err
		}
		total += f
	}
	limit := AllowableDeflection(spanM)
	return DeflectionResult{
		DeflectionM: total,
		AllowableM:  limit,
		OK:          total <= limit,
		Note:        "Center-load superposition over point loads; distributed loads are not included.",
	}, nil
}
