package services

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vytor/menuflash/internal/content"
	"github.com/vytor/menuflash/internal/errors"
	"github.com/vytor/menuflash/internal/grading"
	"github.com/vytor/menuflash/internal/logger"
	"github.com/vytor/menuflash/internal/models"
	"github.com/vytor/menuflash/internal/worker"
)

// MenuService exposes the live catalog and reloads it in the background
type MenuService interface {
	Categories(ctx context.Context) []string
	Items(ctx context.Context, category string) []models.MenuItem
	Item(ctx context.Context, id string) (models.MenuItem, error)
	Questions(ctx context.Context, category string) []models.Question
	CustomerCategories(ctx context.Context) []string
	// Search returns item names close to query, best first.
	Search(ctx context.Context, query string) []models.MenuItem
	QueueImport(ctx context.Context, path string) (models.ImportStatus, error)
	ImportStatus(ctx context.Context, id string) (models.ImportStatus, error)
	worker.MenuLoader
}

type menuService struct {
	source *content.Source
	pool   *worker.Pool
	load   func(path string) (*content.Catalog, error)
	now    func() time.Time

	mu      sync.Mutex
	imports map[string]*models.ImportStatus
}

// NewMenuService creates a new MenuService. Imports run on pool.
func NewMenuService(source *content.Source, pool *worker.Pool) MenuService {
	return &menuService{
		source:  source,
		pool:    pool,
		load:    content.LoadFile,
		now:     time.Now,
		imports: map[string]*models.ImportStatus{},
	}
}

func (s *menuService) Categories(ctx context.Context) []string {
	return s.source.Catalog().Categories()
}

func (s *menuService) CustomerCategories(ctx context.Context) []string {
	return s.source.Catalog().CustomerCategories()
}

func (s *menuService) Items(ctx context.Context, category string) []models.MenuItem {
	items := s.source.Catalog().Items()
	if category == "" {
		return items
	}
	var out []models.MenuItem
	for _, item := range items {
		if strings.EqualFold(item.Category, category) {
			out = append(out, item)
		}
	}
	return out
}

func (s *menuService) Item(ctx context.Context, id string) (models.MenuItem, error) {
	item, ok := s.source.Catalog().Item(id)
	if !ok {
		return models.MenuItem{}, errors.NewNotFoundError("menu item", id)
	}
	return item, nil
}

func (s *menuService) Questions(ctx context.Context, category string) []models.Question {
	return s.source.Catalog().Questions(category)
}

func (s *menuService) Search(ctx context.Context, query string) []models.MenuItem {
	catalog := s.source.Catalog()
	items := catalog.Items()

	names := make([]string, 0, len(items))
	byName := make(map[string]models.MenuItem, len(items))
	for _, item := range items {
		if _, dup := byName[item.Name]; dup {
			continue
		}
		names = append(names, item.Name)
		byName[item.Name] = item
	}

	var out []models.MenuItem
	for _, name := range grading.Suggest(query, names) {
		out = append(out, byName[name])
	}
	logger.FromContext(ctx).Debug("search %q matched %d items", query, len(out))
	return out
}

func (s *menuService) QueueImport(ctx context.Context, path string) (models.ImportStatus, error) {
	log := logger.FromContext(ctx)

	path = strings.TrimSpace(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".xlsx":
	default:
		return models.ImportStatus{}, errors.NewValidationError("path", "must be a .json or .xlsx file")
	}

	status := &models.ImportStatus{
		ID:       uuid.NewString(),
		Path:     path,
		State:    models.ImportQueued,
		QueuedAt: s.now(),
	}

	s.mu.Lock()
	s.imports[status.ID] = status
	s.mu.Unlock()

	log.Info("queueing menu import: id=%s, path=%s", status.ID, path)
	if err := s.pool.Submit(&worker.ImportMenuJob{Loader: s, JobID: status.ID, Path: path}); err != nil {
		s.mu.Lock()
		delete(s.imports, status.ID)
		s.mu.Unlock()

		log.Warn("failed to queue menu import: %v", err)
		if stderrors.Is(err, worker.ErrQueueFull) {
			return models.ImportStatus{}, errors.NewConflictError("too many imports in progress")
		}
		return models.ImportStatus{}, errors.NewInternalError(err)
	}
	return *status, nil
}

func (s *menuService) ImportStatus(ctx context.Context, id string) (models.ImportStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status, ok := s.imports[id]
	if !ok {
		return models.ImportStatus{}, errors.NewNotFoundError("import", id)
	}
	out := *status
	out.Problems = append([]string(nil), status.Problems...)
	return out, nil
}

// Apply loads path and swaps it in as the live catalog. A dataset that fails
// validation leaves the current catalog in place.
func (s *menuService) Apply(ctx context.Context, jobID, path string) error {
	log := logger.FromContext(ctx)

	s.setState(jobID, func(st *models.ImportStatus) { st.State = models.ImportRunning })

	catalog, err := s.load(path)
	if err != nil {
		log.Error("menu import failed: %v", err)
		s.setState(jobID, func(st *models.ImportStatus) {
			st.State = models.ImportFailed
			st.Error = err.Error()
			var verr *content.ValidationError
			if stderrors.As(err, &verr) {
				st.Problems = verr.Problems
			}
			finished := s.now()
			st.FinishedAt = &finished
		})
		return err
	}

	previous := s.source.Replace(catalog)
	log.Info("menu replaced: %d items (was %d)", len(catalog.Items()), len(previous.Items()))

	s.setState(jobID, func(st *models.ImportStatus) {
		st.State = models.ImportSucceeded
		st.Items = len(catalog.Items())
		finished := s.now()
		st.FinishedAt = &finished
	})
	return nil
}

func (s *menuService) setState(id string, fn func(*models.ImportStatus)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.imports[id]; ok {
		fn(st)
	}
}
