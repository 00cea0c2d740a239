// Package register holds the per-session load register and evaluates the
// aggregate quantities the dashboard reports: resultant moment, resultant
// force and the moment-vs-position diagram.
//
// Unit contract: every stored and returned quantity is in kN, kN/m and
// kN·m. Callers that need N·m (the stress check) convert at their own
// boundary.
package register

import (
	"errors"
	"math"
)

var ErrInvalidInput = errors.New("invalid input")

// Kind discriminates the two load variants.
type Kind int

const (
	KindPoint Kind = iota
	KindDistributed
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindDistributed:
		return "distributed"
	}
	return "unknown"
}

// Load is one immutable register entry. Exactly one variant's fields are
// meaningful, selected by Kind; derived fields are filled on append.
type Load struct {
	Kind Kind `json:"kind"`

	// Point load
	MagnitudeKN float64 `json:"magnitude_kn,omitempty"`
	DistanceM   float64 `json:"distance_m,omitempty"`
	AngleDeg    float64 `json:"angle_deg,omitempty"`
	PerpForceKN float64 `json:"perp_force_kn,omitempty"`
	MomentKNM   float64 `json:"moment_knm,omitempty"`

	// Distributed load
	IntensityKNM   float64 `json:"intensity_kn_m,omitempty"`
	StartM         float64 `json:"start_m,omitempty"`
	EndM           float64 `json:"end_m,omitempty"`
	LengthM        float64 `json:"length_m,omitempty"`
	EquivForceKN   float64 `json:"equiv_force_kn,omitempty"`
	EquivMomentKNM float64 `json:"equiv_moment_knm,omitempty"`
}

// Register is an append-only, insertion-ordered sequence of loads. It is
// owned by a single session and is not safe for concurrent use; the session
// store serializes access.
type Register struct {
	loads []Load
}

func New() *Register {
	return &Register{}
}

// AddPointLoad appends a concentrated force. The moment is taken about the
// origin: M = F·sin(θ)·d.
func (r *Register) AddPointLoad(magnitudeKN, distanceM, angleDeg float64) (Load, error) {
	if magnitudeKN <= 0 || distanceM < 0 || angleDeg < 0 || angleDeg > 180 {
		return Load{}, ErrInvalidInput
	}
	perp := magnitudeKN * math.Sin(angleDeg*math.Pi/180)
	l := Load{
		Kind:        KindPoint,
		MagnitudeKN: magnitudeKN,
		DistanceM:   distanceM,
		AngleDeg:    angleDeg,
		PerpForceKN: perp,
		MomentKNM:   perp * distanceM,
	}
	r.loads = append(r.loads, l)
	return l, nil
}

// AddDistributedLoad appends a uniform load over [start, end]. The entry
// carries its resultant placed at the centroid: F = q·L, M = F·(start+L/2).
func (r *Register) AddDistributedLoad(intensityKNM, startM, endM float64) (Load, error) {
	if intensityKNM <= 0 || startM < 0 || endM <= startM {
		return Load{}, ErrInvalidInput
	}
	length := endM - startM
	force := intensityKNM * length
	l := Load{
		Kind:           KindDistributed,
		IntensityKNM:   intensityKNM,
		StartM:         startM,
		EndM:           endM,
		LengthM:        length,
		EquivForceKN:   force,
		EquivMomentKNM: force * (startM + length/2),
	}
	r.loads = append(r.loads, l)
	return l, nil
}

// Loads returns a copy of the entries in insertion order.
func (r *Register) Loads() []Load {
	out := make([]Load, len(r.loads))
	copy(out, r.loads)
	return out
}

func (r *Register) Len() int { return len(r.loads) }

// TotalMoment sums every entry's moment contribution in kN·m.
func (r *Register) TotalMoment() float64 {
	var total float64
	for _, l := range r.loads {
		switch l.Kind {
		case KindPoint:
			total += l.MomentKNM
		case KindDistributed:
			total += l.EquivMomentKNM
		}
	}
	return total
}

// TotalForce sums perpendicular point forces and distributed resultants in kN.
func (r *Register) TotalForce() float64 {
	var total float64
	for _, l := range r.loads {
		switch l.Kind {
		case KindPoint:
			total += l.PerpForceKN
		case KindDistributed:
			total += l.EquivForceKN
		}
	}
	return total
}

// AppliedLoad sums the raw entered values (kN for point loads, kN/m for
// distributed), the aggregate the stability check divides the ultimate load
// by.
func (r *Register) AppliedLoad() float64 {
	var total float64
	for _, l := range r.loads {
		switch l.Kind {
		case KindPoint:
			total += l.MagnitudeKN
		case KindDistributed:
			total += l.IntensityKNM
		}
	}
	return total
}

// DiagramPoint is one sample of the moment diagram.
type DiagramPoint struct {
	PositionM float64 `json:"position_m"`
	MomentKNM float64 `json:"moment_knm"`
}

// MomentDiagram samples the cumulative-step moment curve at `samples` evenly
// spaced positions over [0, span].
//
// A point load at d contributes its full moment to every x >= d. A
// distributed load ramps as q·(x−start)²/2 inside its interval and holds its
// equivalent moment past the end. This is a visualization aid, not a
// statically balanced bending-moment diagram: support reactions are not
// modeled.
func (r *Register) MomentDiagram(spanM float64, samples int) ([]DiagramPoint, error) {
	if spanM <= 0 || samples < 2 {
		return nil, ErrInvalidInput
	}
	pts := make([]DiagramPoint, samples)
	step := spanM / float64(samples-1)
	for i := range pts {
		x := float64(i) * step
		var m float64
		for _, l := range r.loads {
			switch l.Kind {
			case KindPoint:
				if x >= l.DistanceM {
					m += l.MomentKNM
				}
			case KindDistributed:
				if x >= l.StartM {
					if x <= l.EndM {
						m += l.IntensityKNM * (x - l.StartM) * (x - l.StartM) / 2
					} else {
						m += l.EquivMomentKNM
					}
				}
			}
		}
		pts[i] = DiagramPoint{PositionM: x, MomentKNM: m}
	}
	return pts, nil
}

// PointLoads returns only the point-load entries, for the deflection
// superposition which ignores distributed loads.
func (r *Register) PointLoads() []Load {
	var out []Load
	for _, l := range r.loads {
		if l.Kind == KindPoint {
			out = append(out, l)
		}
	}
	return out
}

// Restore replaces the register contents with a saved snapshot. Used when a
// project is loaded back into a session.
func (r *Register) Restore(loads []Load) {
	r.loads = make([]Load, len(loads))
	copy(r.loads, loads)
}
