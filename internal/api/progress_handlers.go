package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/menuflash/internal/models"
)

func (s *Server) handleListProgress(w http.ResponseWriter, r *http.Request) {
	filter := models.ProgressFilter{Status: models.Status(r.URL.Query().Get("status"))}

	var err error
	if filter.Bookmarked, err = queryBool(r, "bookmarked"); err != nil {
		handleError(w, r, err)
		return
	}
	if filter.NeedsReview, err = queryBool(r, "needs_review"); err != nil {
		handleError(w, r, err)
		return
	}
	if filter.Limit, err = queryInt(r, "limit", 0); err != nil {
		handleError(w, r, err)
		return
	}
	if filter.Offset, err = queryInt(r, "offset", 0); err != nil {
		handleError(w, r, err)
		return
	}

	list, err := s.Progress.ListProgress(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if list == nil {
		list = []*models.ItemProgress{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"progress": list})
}

func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	p, err := s.Progress.GetProgress(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

func (s *Server) handleDueItems(w http.ResponseWriter, r *http.Request) {
	due, err := s.Progress.DueItems(r.Context(), s.now())
	if err != nil {
		handleError(w, r, err)
		return
	}
	if due == nil {
		due = []models.MenuItem{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"items": due})
}

type flagRequest struct {
	Value bool `json:"value"`
}

func (s *Server) handleSetBookmark(w http.ResponseWriter, r *http.Request) {
	var req flagRequest
	if err := decodeJSON(r, &req, false); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Progress.SetBookmarked(r.Context(), chi.URLParam(r, "itemID"), req.Value); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetNeedsReview(w http.ResponseWriter, r *http.Request) {
	var req flagRequest
	if err := decodeJSON(r, &req, false); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Progress.SetNeedsReview(r.Context(), chi.URLParam(r, "itemID"), req.Value); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
