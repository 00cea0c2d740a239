package dashboard

import (
	"net/http"

	"github.com/rs/zerolog"

	"Girder/internal/export"
	"Girder/internal/register"
	"Girder/internal/session"
)

const maxImportSize = 10 << 20 // 10MB

// ExportHandler moves the session register in and out of CSV and XLSX.
type ExportHandler struct {
	Sessions *session.Store
	Log      zerolog.Logger
}

func (h *ExportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	id := openSession(w, r, h.Sessions)
	var b []byte
	var err error
	h.Sessions.Do(id, func(reg *register.Register) {
		b, err = reg.WriteCSV()
	})
	if err != nil {
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=\"loads.csv\"")
	w.Write(b)
}

func (h *ExportHandler) XLSX(w http.ResponseWriter, r *http.Request) {
	id := openSession(w, r, h.Sessions)
	var b []byte
	var err error
	h.Sessions.Do(id, func(reg *register.Register) {
		b, err = export.WriteXLSX(reg)
	})
	if err != nil {
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=\"loads.xlsx\"")
	w.Write(b)
}

func (h *ExportHandler) ImportXLSX(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	id := openSession(w, r, h.Sessions)
	var res export.ImportResult
	h.Sessions.Do(id, func(reg *register.Register) {
		res, err = export.ReadXLSX(file, reg)
	})
	if err != nil {
		http.Error(w, "Invalid file", http.StatusBadRequest)
		return
	}
	h.Log.Info().Str("session", id).Int("added", res.Added).Int("skipped", res.Skipped).Msg("loads imported")
	writeJSON(w, http.StatusOK, res)
}
