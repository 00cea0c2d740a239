package dashboard

import (
	"math"
	"net/http"

	"Girder/internal/session"
	"Girder/internal/stability"
)

// StabilityHandler serves the safety coefficient and the two stability
// curves for the session's register.
type StabilityHandler struct {
	Sessions *session.Store
}

type stabilityRequest struct {
	UltimateLoadKN float64 `json:"ultimate_load_kn"`
	AxialLoadKN    float64 `json:"axial_load_kn"`
	Samples        int     `json:"samples"`
}

type stabilityResponse struct {
	SafetyCoefficient float64                `json:"safety_coefficient"`
	Unbounded         bool                   `json:"unbounded"`
	Rating            stability.Rating       `json:"rating"`
	AppliedLoadKN     float64                `json:"applied_load_kn"`
	LoadDeformation   []stability.CurvePoint `json:"load_deformation"`
	Interaction       []stability.CurvePoint `json:"interaction"`
	DesignPoint       stability.CurvePoint   `json:"design_point"`
}

// The interaction plot's fixed envelope, matching the dashboard's
// visualization range: M0 = 500 kN·m, N0 = 1000 kN.
const (
	interactionM0 = 500.0
	interactionN0 = 1000.0
)

// Default axial ordinate of the plotted design point when the request gives
// none. The dashboard never derives axial force from the register.
const defaultAxialKN = 200.0

func (h *StabilityHandler) Calc(w http.ResponseWriter, r *http.Request) {
	var req stabilityRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Samples == 0 {
		req.Samples = 50
	}

	id := openSession(w, r, h.Sessions)
	_, moment, _, applied := snapshot(h.Sessions, id)

	coeff, err := stability.SafetyCoefficient(req.UltimateLoadKN, applied)
	if err != nil {
		http.Error(w, "Invalid stability parameters", http.StatusBadRequest)
		return
	}
	deformation, err := stability.LoadDeformationCurve(req.UltimateLoadKN, req.Samples)
	if err != nil {
		http.Error(w, "Invalid stability parameters", http.StatusBadRequest)
		return
	}
	interaction, err := stability.InteractionCurve(interactionM0, interactionN0, req.Samples)
	if err != nil {
		http.Error(w, "Invalid stability parameters", http.StatusBadRequest)
		return
	}

	axial := req.AxialLoadKN
	if axial == 0 {
		axial = defaultAxialKN
	}

	resp := stabilityResponse{
		SafetyCoefficient: coeff,
		Rating:            stability.Classify(coeff),
		AppliedLoadKN:     applied,
		LoadDeformation:   deformation,
		Interaction:       interaction,
		DesignPoint:       stability.CurvePoint{X: moment, Y: axial},
	}
	if math.IsInf(coeff, 1) {
		// JSON has no Inf; flag it and clamp the number.
		resp.Unbounded = true
		resp.SafetyCoefficient = 0
	}
	writeJSON(w, http.StatusOK, resp)
}
