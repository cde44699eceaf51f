package api

import (
	"net/http"

	"github.com/vytor/timestables/internal/errors"
	"github.com/vytor/timestables/internal/rewards"
)

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	view, err := s.ProgressService.GetProgress(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newProgressResponse(view))
}

// handleGetStats returns the aggregates last computed by the stats worker;
// they can lag behind the most recent challenge.
func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.ProgressService.GetStats(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

// handleBadgeCatalog lists a theme's level badges. Without query
// parameters the selected profile's theme and gender are used.
func (s *Server) handleBadgeCatalog(w http.ResponseWriter, r *http.Request) {
	theme := s.DefaultTheme
	gender := rewards.GenderUnspecified
	if p := profileFromContext(r.Context()); p != nil {
		if t, ok := rewards.ParseTheme(p.Theme); ok {
			theme = t
		}
		gender = rewards.ParseGender(p.Gender)
	}

	q := r.URL.Query()
	if raw := q.Get("theme"); raw != "" {
		t, ok := rewards.ParseTheme(raw)
		if !ok {
			handleError(w, r, errors.NewValidationError("theme", "must be one of: space, heroes, animals"))
			return
		}
		theme = t
	}
	if raw := q.Get("gender"); raw != "" {
		gender = rewards.ParseGender(raw)
	}

	writeJSON(w, r, http.StatusOK, newBadgeCatalog(theme, gender))
}

func (s *Server) handleAchievementCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string][]rewards.AchievementDefinition{
		"achievements": rewards.Achievements(),
	})
}
