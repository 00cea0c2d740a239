package dashboard

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"Girder/internal/diagram"
	"Girder/internal/register"
	"Girder/internal/session"
)

// LoadsHandler serves the load register tools: entry, listing, totals and
// the moment diagram in its three renderings.
type LoadsHandler struct {
	Sessions *session.Store
	Log      zerolog.Logger
}

type pointLoadRequest struct {
	MagnitudeKN float64  `json:"magnitude_kn"`
	DistanceM   float64  `json:"distance_m"`
	AngleDeg    *float64 `json:"angle_deg"`
}

type distributedLoadRequest struct {
	IntensityKNM float64 `json:"intensity_kn_m"`
	StartM       float64 `json:"start_m"`
	EndM         float64 `json:"end_m"`
}

type diagramRequest struct {
	SpanM   float64 `json:"span_m"`
	Samples int     `json:"samples"`
}

type summaryResponse struct {
	Count          int     `json:"count"`
	TotalMomentKNM float64 `json:"total_moment_knm"`
	TotalForceKN   float64 `json:"total_force_kn"`
	AppliedLoadKN  float64 `json:"applied_load_kn"`
}

func (h *LoadsHandler) AddPoint(w http.ResponseWriter, r *http.Request) {
	var req pointLoadRequest
	if !readJSON(w, r, &req) {
		return
	}
	angle := 90.0
	if req.AngleDeg != nil {
		angle = *req.AngleDeg
	}

	id := openSession(w, r, h.Sessions)
	var added register.Load
	var err error
	h.Sessions.Do(id, func(reg *register.Register) {
		added, err = reg.AddPointLoad(req.MagnitudeKN, req.DistanceM, angle)
	})
	if err != nil {
		http.Error(w, "Invalid load parameters", http.StatusBadRequest)
		return
	}
	h.Log.Debug().Str("session", id).Float64("moment_knm", added.MomentKNM).Msg("point load added")
	writeJSON(w, http.StatusCreated, added)
}

func (h *LoadsHandler) AddDistributed(w http.ResponseWriter, r *http.Request) {
	var req distributedLoadRequest
	if !readJSON(w, r, &req) {
		return
	}

	id := openSession(w, r, h.Sessions)
	var added register.Load
	var err error
	h.Sessions.Do(id, func(reg *register.Register) {
		added, err = reg.AddDistributedLoad(req.IntensityKNM, req.StartM, req.EndM)
	})
	if err != nil {
		http.Error(w, "Invalid load parameters", http.StatusBadRequest)
		return
	}
	h.Log.Debug().Str("session", id).Float64("equiv_force_kn", added.EquivForceKN).Msg("distributed load added")
	writeJSON(w, http.StatusCreated, added)
}

func (h *LoadsHandler) List(w http.ResponseWriter, r *http.Request) {
	id := openSession(w, r, h.Sessions)
	loads, _, _, _ := snapshot(h.Sessions, id)
	if loads == nil {
		loads = []register.Load{}
	}
	writeJSON(w, http.StatusOK, loads)
}

func (h *LoadsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	id := openSession(w, r, h.Sessions)
	loads, moment, force, applied := snapshot(h.Sessions, id)
	writeJSON(w, http.StatusOK, summaryResponse{
		Count:          len(loads),
		TotalMomentKNM: moment,
		TotalForceKN:   force,
		AppliedLoadKN:  applied,
	})
}

func (h *LoadsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	id := openSession(w, r, h.Sessions)
	h.Sessions.Reset(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *LoadsHandler) diagramPoints(w http.ResponseWriter, r *http.Request) ([]register.DiagramPoint, bool) {
	var req diagramRequest
	if !readJSON(w, r, &req) {
		return nil, false
	}
	if req.Samples == 0 {
		req.Samples = 100
	}
	id := openSession(w, r, h.Sessions)
	var pts []register.DiagramPoint
	var err error
	h.Sessions.Do(id, func(reg *register.Register) {
		pts, err = reg.MomentDiagram(req.SpanM, req.Samples)
	})
	if err != nil {
		if errors.Is(err, register.ErrInvalidInput) {
			http.Error(w, "Invalid diagram parameters", http.StatusBadRequest)
		} else {
			http.Error(w, "Calculation error", http.StatusBadRequest)
		}
		return nil, false
	}
	return pts, true
}

func (h *LoadsHandler) Diagram(w http.ResponseWriter, r *http.Request) {
	pts, ok := h.diagramPoints(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, pts)
}

func (h *LoadsHandler) DiagramPNG(w http.ResponseWriter, r *http.Request) {
	pts, ok := h.diagramPoints(w, r)
	if !ok {
		return
	}
	png, err := diagram.MomentPNG(pts)
	if err != nil {
		http.Error(w, "Rendering error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

func (h *LoadsHandler) DiagramASCII(w http.ResponseWriter, r *http.Request) {
	pts, ok := h.diagramPoints(w, r)
	if !ok {
		return
	}
	txt, err := diagram.MomentASCII(pts)
	if err != nil {
		http.Error(w, "Rendering error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(txt))
}
