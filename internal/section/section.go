// Package section computes cross-section properties for the three shapes
// the dashboard offers.
package section

import (
	"errors"
	"math"
)

var ErrInvalidInput = errors.New("invalid input")

type Shape string

const (
	ShapeRectangular Shape = "rectangular"
	ShapeCircular    Shape = "circular"
	ShapeIBeam       Shape = "ibeam"
)

// Properties are the derived quantities of a cross-section, SI units
// (m², m⁴, m³).
type Properties struct {
	AreaM2    float64 `json:"area_m2"`
	InertiaM4 float64 `json:"inertia_m4"`
	ModulusM3 float64 `json:"modulus_m3"`
}

// Calculate returns area, moment of inertia and section modulus.
//
// For the circular shape width is the diameter and height is accepted but
// unused: a circle needs only one dimension. The I-beam variant is a coarse
// 0.8/0.7 scaling of the rectangle, not a flange/web decomposition.
func Calculate(shape Shape, widthM, heightM float64) (Properties, error) {
	if widthM <= 0 || heightM <= 0 {
		return Properties{}, ErrInvalidInput
	}
	switch shape {
	case ShapeRectangular:
		inertia := widthM * math.Pow(heightM, 3) / 12
		return Properties{
			AreaM2:    widthM * heightM,
			InertiaM4: inertia,
			ModulusM3: inertia / (heightM / 2),
		}, nil
	case ShapeCircular:
		d := widthM
		inertia := math.Pi * math.Pow(d, 4) / 64
		return Properties{
			AreaM2:    math.Pi * d * d / 4,
			InertiaM4: inertia,
			ModulusM3: inertia / (d / 2),
		}, nil
	case ShapeIBeam:
		inertia := 0.7 * widthM * math.Pow(heightM, 3) / 12
		return Properties{
			AreaM2:    0.8 * widthM * heightM,
			InertiaM4: inertia,
			ModulusM3: inertia / (heightM / 2),
		}, nil
	}
	return Properties{}, ErrInvalidInput
}

// Point is a vertex of the section outline in the plot plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Outline returns a closed vertex loop for drawing the cross-section.
// Rectangles (and the I-beam placeholder) are their four corners; circles
// are approximated by a polygon with `segments` vertices.
func Outline(shape Shape, widthM, heightM float64, segments int) ([]Point, error) {
	if widthM <= 0 || heightM <= 0 {
		return nil, ErrInvalidInput
	}
	if segments < 8 {
		segments = 64
	}
	switch shape {
	case ShapeRectangular, ShapeIBeam:
		return []Point{
			{0, 0},
			{widthM, 0},
			{widthM, heightM},
			{0, heightM},
			{0, 0},
		}, nil
	case ShapeCircular:
		pts := make([]Point, segments+1)
		cx, cy := widthM/2, heightM/2
		for i := 0; i <= segments; i++ {
			theta := 2 * math.Pi * float64(i) / float64(segments)
			pts[i] = Point{
				X: cx + widthM/2*math.Cos(theta),
				Y: cy + heightM/2*math.Sin(theta),
			}
		}
		return pts, nil
	}
	return nil, ErrInvalidInput
}
