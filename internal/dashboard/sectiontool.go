package dashboard

import (
	"net/http"

	"Girder/internal/diagram"
	"Girder/internal/section"
)

// SectionHandler computes cross-section properties and draws the outline.
type SectionHandler struct{}

type sectionRequest struct {
	Shape    section.Shape `json:"shape"`
	WidthM   float64       `json:"width_m"`
	HeightM  float64       `json:"height_m"`
	Segments int           `json:"segments"`
}

type sectionResponse struct {
	section.Properties
	Outline []section.Point `json:"outline"`
}

func (h *SectionHandler) Calc(w http.ResponseWriter, r *http.Request) {
	var req sectionRequest
	if !readJSON(w, r, &req) {
		return
	}
	props, err := section.Calculate(req.Shape, req.WidthM, req.HeightM)
	if err != nil {
		http.Error(w, "Invalid section parameters", http.StatusBadRequest)
		return
	}
	outline, err := section.Outline(req.Shape, req.WidthM, req.HeightM, req.Segments)
	if err != nil {
		http.Error(w, "Invalid section parameters", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, sectionResponse{Properties: props, Outline: outline})
}

func (h *SectionHandler) PNG(w http.ResponseWriter, r *http.Request) {
	var req sectionRequest
	if !readJSON(w, r, &req) {
		return
	}
	outline, err := section.Outline(req.Shape, req.WidthM, req.HeightM, req.Segments)
	if err != nil {
		http.Error(w, "Invalid section parameters", http.StatusBadRequest)
		return
	}
	png, err := diagram.SectionPNG(outline, "Cross-section")
	if err != nil {
		http.Error(w, "Rendering error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
