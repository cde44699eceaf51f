package api

import (
	"net/http"

	"github.com/vytor/timestables/internal/logger"
	"github.com/vytor/timestables/internal/models"
)

type createProfileRequest struct {
	Name   string `json:"name" validate:"required,max=40"`
	Theme  string `json:"theme" validate:"omitempty,oneof=space heroes animals"`
	Gender string `json:"gender" validate:"omitempty,oneof=boy girl male female"`
}

type updateProfileRequest struct {
	Theme  string `json:"theme" validate:"omitempty,oneof=space heroes animals"`
	Gender string `json:"gender" validate:"omitempty,oneof=boy girl male female"`
}

type profileListResponse struct {
	Profiles []models.Profile `json:"profiles"`
	Current  *models.Profile  `json:"current"`
}

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.ProfileService.ListProfiles(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}
	writeJSON(w, r, http.StatusOK, profileListResponse{
		Profiles: profiles,
		Current:  profileFromContext(r.Context()),
	})
}

// handleCreateProfile creates a profile and selects it.
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	profile, err := s.ProfileService.CreateProfile(r.Context(), req.Name, req.Theme, req.Gender)
	if err != nil {
		handleError(w, r, err)
		return
	}

	setProfileCookie(w, profile.ID)
	writeJSON(w, r, http.StatusCreated, profile)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	profile, err := s.ProfileService.GetProfile(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	profile, err := s.ProfileService.UpdateSettings(r.Context(), id, req.Theme, req.Gender)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, profile)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.ProfileService.DeleteProfile(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}

	if current := profileFromContext(r.Context()); current != nil && current.ID == id {
		clearProfileCookie(w)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelectProfile(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	profile, err := s.ProfileService.GetProfile(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Info("profile selected: id=%d", profile.ID)
	setProfileCookie(w, profile.ID)
	writeJSON(w, r, http.StatusOK, profile)
}

// handleDeselectProfile switches back to anonymous play.
func (s *Server) handleDeselectProfile(w http.ResponseWriter, r *http.Request) {
	clearProfileCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
