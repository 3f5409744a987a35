package api

import (
	"net/http"

	"github.com/vytor/menuflash/internal/logger"
	"github.com/vytor/menuflash/internal/models"
	"github.com/vytor/menuflash/internal/xp"
)

type profileResponse struct {
	models.UserProfile
	CurrentLevelXP int `json:"current_level_xp"`
}

func newProfileResponse(p models.UserProfile) profileResponse {
	return profileResponse{UserProfile: p, CurrentLevelXP: xp.LevelFromXP(p.XP).CurrentLevelXP}
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.Profiles.GetProfile(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newProfileResponse(profile))
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch models.SettingsPatch
	if err := decodeJSON(r, &patch, false); err != nil {
		handleError(w, r, err)
		return
	}
	profile, err := s.Profiles.UpdateSettings(r.Context(), patch)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, newProfileResponse(profile))
}

func (s *Server) handleResetProgress(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Warn("progress reset requested")

	if err := s.Profiles.ResetProgress(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	list, err := s.Achievements.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"achievements": list})
}

func (s *Server) handlePracticeTests(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 20)
	if err != nil {
		handleError(w, r, err)
		return
	}
	tests, err := s.Profiles.PracticeTests(r.Context(), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if tests == nil {
		tests = []models.PracticeTest{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"practice_tests": tests})
}
