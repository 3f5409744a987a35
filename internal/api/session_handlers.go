package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/menuflash/internal/services"
)

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req services.StartRequest
	if err := decodeJSON(r, &req, false); err != nil {
		handleError(w, r, err)
		return
	}
	session, err := s.Study.Start(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/sessions/"+session.ID)
	writeJSON(w, r, http.StatusCreated, session)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.Study.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, session)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req services.AnswerRequest
	if err := decodeJSON(r, &req, false); err != nil {
		handleError(w, r, err)
		return
	}
	s.writeAnswer(w, r)(s.Study.SubmitAnswer(r.Context(), chi.URLParam(r, "id"), req))
}

type choiceRequest struct {
	Index          *int `json:"index"`
	ResponseTimeMs *int `json:"response_time_ms"`
}

func (s *Server) handleChoice(w http.ResponseWriter, r *http.Request) {
	var req choiceRequest
	if err := decodeJSON(r, &req, false); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Index == nil {
		handleError(w, r, errBadField("index"))
		return
	}
	s.writeAnswer(w, r)(s.Study.SubmitChoice(r.Context(), chi.URLParam(r, "id"), *req.Index, req.ResponseTimeMs))
}

type flashcardRequest struct {
	Knew           *bool `json:"knew"`
	ResponseTimeMs *int  `json:"response_time_ms"`
}

func (s *Server) handleFlashcard(w http.ResponseWriter, r *http.Request) {
	var req flashcardRequest
	if err := decodeJSON(r, &req, false); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Knew == nil {
		handleError(w, r, errBadField("knew"))
		return
	}
	s.writeAnswer(w, r)(s.Study.SubmitFlashcard(r.Context(), chi.URLParam(r, "id"), *req.Knew, req.ResponseTimeMs))
}

func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	s.writeAnswer(w, r)(s.Study.Skip(r.Context(), chi.URLParam(r, "id")))
}

type advanceRequest struct {
	FromIndex *int `json:"from_index"`
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	var req advanceRequest
	if err := decodeJSON(r, &req, false); err != nil {
		handleError(w, r, err)
		return
	}
	if req.FromIndex == nil {
		handleError(w, r, errBadField("from_index"))
		return
	}
	s.writeUpdate(w, r)(s.Study.Advance(r.Context(), chi.URLParam(r, "id"), *req.FromIndex))
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	s.writeUpdate(w, r)(s.Study.End(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) writeAnswer(w http.ResponseWriter, r *http.Request) func(*services.AnswerResult, error) {
	return func(res *services.AnswerResult, err error) {
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, res)
	}
}

func (s *Server) writeUpdate(w http.ResponseWriter, r *http.Request) func(*services.SessionUpdate, error) {
	return func(res *services.SessionUpdate, err error) {
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, res)
	}
}
