package dashboard

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"Girder/internal/auth"
	"Girder/internal/register"
	"Girder/internal/repo"
	"Girder/internal/session"
)

// ProjectsHandler persists named register snapshots per user and loads them
// back into the caller's session.
type ProjectsHandler struct {
	Sessions *session.Store
	Repo     repo.Repository
	Log      zerolog.Logger
}

type saveProjectRequest struct {
	Name string `json:"name"`
}

type saveProjectResponse struct {
	ID int `json:"id"`
}

func (h *ProjectsHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	var req saveProjectRequest
	if !readJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		http.Error(w, "Project name required", http.StatusBadRequest)
		return
	}

	id := openSession(w, r, h.Sessions)
	loads, _, _, _ := snapshot(h.Sessions, id)
	if len(loads) == 0 {
		http.Error(w, "Nothing to save: register is empty", http.StatusBadRequest)
		return
	}

	projectID, err := h.Repo.SaveProject(r.Context(), userID, req.Name, loads)
	if err != nil {
		h.Log.Error().Err(err).Int("user", userID).Msg("save project")
		http.Error(w, "Storage error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, saveProjectResponse{ID: projectID})
}

func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	projects, err := h.Repo.ListProjects(r.Context(), userID)
	if err != nil {
		h.Log.Error().Err(err).Int("user", userID).Msg("list projects")
		http.Error(w, "Storage error", http.StatusInternalServerError)
		return
	}
	if projects == nil {
		projects = []repo.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

// Load restores a saved snapshot into the caller's session register,
// replacing its current contents.
func (h *ProjectsHandler) Load(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	projectID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid project id", http.StatusBadRequest)
		return
	}

	p, err := h.Repo.GetProject(r.Context(), userID, projectID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			http.Error(w, "Project not found", http.StatusNotFound)
			return
		}
		h.Log.Error().Err(err).Int("user", userID).Int("project", projectID).Msg("get project")
		http.Error(w, "Storage error", http.StatusInternalServerError)
		return
	}

	id := openSession(w, r, h.Sessions)
	h.Sessions.Do(id, func(reg *register.Register) {
		reg.Restore(p.Loads)
	})
	writeJSON(w, http.StatusOK, p)
}
