package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/menuflash/internal/errors"
	"github.com/vytor/menuflash/internal/grading"
	"github.com/vytor/menuflash/internal/logger"
	"github.com/vytor/menuflash/internal/models"
	"github.com/vytor/menuflash/internal/services"
)

type Server struct {
	Menu         services.MenuService
	Progress     services.ProgressService
	Profiles     services.ProfileService
	Achievements services.AchievementService
	Study        services.StudyService
	DB           Pinger

	RateLimitRPS   int
	RateLimitBurst int
	// Now is the clock for due-review listings; nil means time.Now.
	Now func() time.Time
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{"categories": s.Menu.Categories(r.Context())})
}

func (s *Server) handleCustomerCategories(w http.ResponseWriter, r *http.Request) {
	categories := s.Menu.CustomerCategories(r.Context())
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"categories": categories})
}

// handleItems lists menu items, narrowed by category or a fuzzy name query.
func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	category := r.URL.Query().Get("category")

	var items []models.MenuItem
	if query != "" {
		for _, item := range s.Menu.Search(ctx, query) {
			if category == "" || strings.EqualFold(item.Category, category) {
				items = append(items, item)
			}
		}
	} else {
		items = s.Menu.Items(ctx, category)
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.Menu.Item(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, item)
}

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	questions := s.Menu.Questions(r.Context(), r.URL.Query().Get("category"))
	if questions == nil {
		questions = []models.Question{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"questions": questions})
}

type gradeRequest struct {
	Answer        string   `json:"answer"`
	CorrectAnswer string   `json:"correct_answer"`
	Alternatives  []string `json:"alternatives"`
}

// handleGrade validates an answer without touching any stored state.
func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	var req gradeRequest
	if err := decodeJSON(r, &req, false); err != nil {
		handleError(w, r, err)
		return
	}
	if strings.TrimSpace(req.CorrectAnswer) == "" {
		handleError(w, r, errors.NewValidationError("correct_answer", "cannot be empty"))
		return
	}

	result := grading.Validate(req.Answer, req.CorrectAnswer, req.Alternatives)
	logger.FromContext(r.Context()).Debug("graded answer: match=%s", result.MatchKind)
	writeJSON(w, r, http.StatusOK, result)
}

type importRequest struct {
	Path string `json:"path"`
}

func (s *Server) handleQueueImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decodeJSON(r, &req, false); err != nil {
		handleError(w, r, err)
		return
	}
	status, err := s.Menu.QueueImport(r.Context(), req.Path)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusAccepted, status)
}

func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.Menu.ImportStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, status)
}
