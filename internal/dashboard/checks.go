package dashboard

import (
	"errors"
	"net/http"

	"Girder/internal/check"
	"Girder/internal/material"
	"Girder/internal/register"
	"Girder/internal/section"
	"Girder/internal/session"
)

// ChecksHandler verifies the session's register against section and
// material limits.
type ChecksHandler struct {
	Sessions *session.Store
	Catalog  *material.Catalog
}

type stressRequest struct {
	Shape    section.Shape `json:"shape"`
	WidthM   float64       `json:"width_m"`
	HeightM  float64       `json:"height_m"`
	Material string        `json:"material"`
}

type stressResponse struct {
	check.StressResult
	TotalMomentKNM float64            `json:"total_moment_knm"`
	Section        section.Properties `json:"section"`
}

func (h *ChecksHandler) Stress(w http.ResponseWriter, r *http.Request) {
	var req stressRequest
	if !readJSON(w, r, &req) {
		return
	}
	props, err := section.Calculate(req.Shape, req.WidthM, req.HeightM)
	if err != nil {
		http.Error(w, "Invalid section parameters", http.StatusBadRequest)
		return
	}
	m, err := h.Catalog.Get(req.Material)
	if err != nil {
		http.Error(w, "Unknown material", http.StatusBadRequest)
		return
	}

	id := openSession(w, r, h.Sessions)
	_, moment, _, _ := snapshot(h.Sessions, id)

	res, err := check.Stress(moment, props.ModulusM3, m)
	if err != nil {
		switch {
		case errors.Is(err, material.ErrUnsupportedMaterial):
			http.Error(w, "Material has no allowable-stress rule", http.StatusUnprocessableEntity)
		case errors.Is(err, check.ErrDivisionByZero):
			http.Error(w, "Section modulus is zero", http.StatusBadRequest)
		default:
			http.Error(w, "Calculation error", http.StatusBadRequest)
		}
		return
	}
	writeJSON(w, http.StatusOK, stressResponse{
		StressResult:   res,
		TotalMomentKNM: moment,
		Section:        props,
	})
}

type deflectionRequest struct {
	SpanM    float64       `json:"span_m"`
	Material string        `json:"material"`
	Shape    section.Shape `json:"shape"`
	WidthM   float64       `json:"width_m"`
	HeightM  float64       `json:"height_m"`
}

func (h *ChecksHandler) Deflection(w http.ResponseWriter, r *http.Request) {
	var req deflectionRequest
	if !readJSON(w, r, &req) {
		return
	}
	m, err := h.Catalog.Get(req.Material)
	if err != nil {
		http.Error(w, "Unknown material", http.StatusBadRequest)
		return
	}

	// Section is optional: without one the assumed default inertia applies.
	var inertia float64
	if req.WidthM > 0 && req.HeightM > 0 {
		props, err := section.Calculate(req.Shape, req.WidthM, req.HeightM)
		if err != nil {
			http.Error(w, "Invalid section parameters", http.StatusBadRequest)
			return
		}
		inertia = props.InertiaM4
	}

	id := openSession(w, r, h.Sessions)
	var res check.DeflectionResult
	h.Sessions.Do(id, func(reg *register.Register) {
		res, err = check.Deflection(reg, req.SpanM, m.EPa, inertia)
	})
	if err != nil {
		http.Error(w, "Invalid deflection parameters", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type deformationRequest struct {
	SpanM      float64 `json:"span_m"`
	AmplitudeM float64 `json:"amplitude_m"`
	Samples    int     `json:"samples"`
}

// Deformation serves the illustrative deformed-shape curve.
func (h *ChecksHandler) Deformation(w http.ResponseWriter, r *http.Request) {
	var req deformationRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Samples == 0 {
		req.Samples = 50
	}
	pts, err := check.DeformedShape(req.SpanM, req.AmplitudeM, req.Samples)
	if err != nil {
		http.Error(w, "Invalid deformation parameters", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, pts)
}
