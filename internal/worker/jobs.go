package worker

import (
	"context"

	"github.com/vytor/menuflash/internal/logger"
)

// MenuLoader loads a menu dataset and makes it the live catalog.
type MenuLoader interface {
	Apply(ctx context.Context, jobID, path string) error
}

// ImportMenuJob reloads the menu from a JSON or XLSX file.
type ImportMenuJob struct {
	Loader MenuLoader
	JobID  string
	Path   string
}

func (j *ImportMenuJob) Name() string { return "import_menu" }

func (j *ImportMenuJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"import_id": j.JobID,
		"path":      j.Path,
	})
	log.Info("starting menu import")
	return j.Loader.Apply(logger.NewContext(ctx, log), j.JobID, j.Path)
}
