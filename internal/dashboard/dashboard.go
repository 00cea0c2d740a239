// Package dashboard exposes the calculator tools over HTTP. One handler
// struct per concern, all sharing the session store so every request works
// on its own session's load register.
package dashboard

import (
	"encoding/json"
	"net/http"

	"Girder/internal/register"
	"Girder/internal/session"
)

const sessionCookie = "register_session"

// openSession resolves the caller's register session from the cookie,
// creating one (and setting the cookie) on first contact.
func openSession(w http.ResponseWriter, r *http.Request, s *session.Store) string {
	var current string
	if c, err := r.Cookie(sessionCookie); err == nil {
		current = c.Value
	}
	id, _ := s.Open(current)
	if id != current {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return id
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return false
	}
	return true
}

// snapshot copies the register state under the store lock.
func snapshot(s *session.Store, id string) ([]register.Load, float64, float64, float64) {
	var loads []register.Load
	var moment, force, applied float64
	s.Do(id, func(r *register.Register) {
		loads = r.Loads()
		moment = r.TotalMoment()
		force = r.TotalForce()
		applied = r.AppliedLoad()
	})
	return loads, moment, force, applied
}
