package dashboard

import (
	"net/http"

	"Girder/internal/check"
	"Girder/internal/material"
	"Girder/internal/register"
	"Girder/internal/report"
	"Girder/internal/section"
	"Girder/internal/session"
	"Girder/internal/stability"
)

// ReportHandler assembles the PDF analysis report from the session register
// and the request's section, material and stability parameters.
type ReportHandler struct {
	Sessions *session.Store
	Catalog  *material.Catalog
}

type reportRequest struct {
	Project string `json:"project"`
	Author  string `json:"author"`
	Title   string `json:"title"`
	Notes   string `json:"notes"`

	Material string        `json:"material"`
	Shape    section.Shape `json:"shape"`
	WidthM   float64       `json:"width_m"`
	HeightM  float64       `json:"height_m"`
	SpanM    float64       `json:"span_m"`

	UltimateLoadKN float64 `json:"ultimate_load_kn"`
}

func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if !readJSON(w, r, &req) {
		return
	}

	id := openSession(w, r, h.Sessions)
	loads, moment, force, applied := snapshot(h.Sessions, id)

	in := report.Input{
		Project:        req.Project,
		Author:         req.Author,
		Title:          req.Title,
		Notes:          req.Notes,
		Material:       req.Material,
		Loads:          loads,
		TotalMomentKNM: moment,
		TotalForceKN:   force,
	}

	// The check sections are best-effort: a report without a material or
	// section still carries the load table and totals.
	if req.Material != "" && req.WidthM > 0 && req.HeightM > 0 {
		if m, err := h.Catalog.Get(req.Material); err == nil {
			if props, err := section.Calculate(req.Shape, req.WidthM, req.HeightM); err == nil {
				if res, err := check.Stress(moment, props.ModulusM3, m); err == nil {
					in.Stress = &res
				}
				if req.SpanM > 0 {
					var defl check.DeflectionResult
					var derr error
					h.Sessions.Do(id, func(reg *register.Register) {
						defl, derr = check.Deflection(reg, req.SpanM, m.EPa, props.InertiaM4)
					})
					if derr == nil {
						in.Deflection = &defl
					}
				}
			}
		}
	}

	if req.UltimateLoadKN > 0 {
		if coeff, err := stability.SafetyCoefficient(req.UltimateLoadKN, applied); err == nil {
			in.SafetyCoefficient = coeff
			in.SafetyRating = stability.Classify(coeff)
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"analysis.pdf\"")
	if err := report.Generate(w, in); err != nil {
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
}
