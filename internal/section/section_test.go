package section

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate_Rectangular(t *testing.T) {
	p, err := Calculate(ShapeRectangular, 0.3, 0.5)
	require.NoError(t, err)

	assert.InDelta(t, 0.15, p.AreaM2, 1e-12)
	assert.InDelta(t, 0.3*0.125/12, p.InertiaM4, 1e-12)
	assert.InDelta(t, 0.0125, p.ModulusM3, 1e-9)
}

func TestCalculate_RectangularScalingLaws(t *testing.T) {
	base, err := Calculate(ShapeRectangular, 0.3, 0.5)
	require.NoError(t, err)
	tall, err := Calculate(ShapeRectangular, 0.3, 1.0)
	require.NoError(t, err)

	// doubling height: area x2, inertia x8
	assert.InDelta(t, 2.0, tall.AreaM2/base.AreaM2, 1e-9)
	assert.InDelta(t, 8.0, tall.InertiaM4/base.InertiaM4, 1e-9)
}

func TestCalculate_Circular(t *testing.T) {
	d := 0.4
	p, err := Calculate(ShapeCircular, d, 123.0) // height irrelevant for circles
	require.NoError(t, err)

	assert.InDelta(t, math.Pi*d*d/4, p.AreaM2, 1e-12)
	assert.InDelta(t, math.Pi*math.Pow(d, 4)/64, p.InertiaM4, 1e-12)
	// area/inertia must equal 16/d^2
	assert.InDelta(t, 16/(d*d), p.AreaM2/p.InertiaM4, 1e-6)
}

func TestCalculate_IBeamApproximation(t *testing.T) {
	rect, err := Calculate(ShapeRectangular, 0.2, 0.4)
	require.NoError(t, err)
	ibeam, err := Calculate(ShapeIBeam, 0.2, 0.4)
	require.NoError(t, err)

	assert.InDelta(t, 0.8, ibeam.AreaM2/rect.AreaM2, 1e-9)
	assert.InDelta(t, 0.7, ibeam.InertiaM4/rect.InertiaM4, 1e-9)
}

func TestCalculate_Invalid(t *testing.T) {
	_, err := Calculate(ShapeRectangular, 0, 0.5)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = Calculate(ShapeRectangular, 0.3, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = Calculate(Shape("hexagonal"), 0.3, 0.5)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOutline_RectangleClosed(t *testing.T) {
	pts, err := Outline(ShapeRectangular, 0.3, 0.5, 0)
	require.NoError(t, err)
	require.Len(t, pts, 5)
	assert.Equal(t, pts[0], pts[len(pts)-1])
	assert.Equal(t, Point{0.3, 0.5}, pts[2])
}

func TestOutline_CircleClosed(t *testing.T) {
	pts, err := Outline(ShapeCircular, 0.4, 0.4, 32)
	require.NoError(t, err)
	require.Len(t, pts, 33)
	assert.InDelta(t, pts[0].X, pts[32].X, 1e-9)
	assert.InDelta(t, pts[0].Y, pts[32].Y, 1e-9)

	// every vertex lies on the circle
	for _, p := range pts {
		r := math.Hypot(p.X-0.2, p.Y-0.2)
		assert.InDelta(t, 0.2, r, 1e-9)
	}
}
