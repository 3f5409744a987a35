package services_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/menuflash/internal/errors"
	"github.com/vytor/menuflash/internal/models"
	"github.com/vytor/menuflash/internal/services"
	"github.com/vytor/menuflash/internal/worker"
)

const dessertMenu = `{"menu_items": [
  {"id": "mochi", "name": "Mochi Ice Cream", "category": "Desserts",
   "description_lines": [{"full_text": "green tea", "context": "Flavor",
     "individual_blanks": [{"answer": "green tea", "alternatives": ["matcha"]}]}]}
]}`

func startedPool(t *testing.T) *worker.Pool {
	pool := worker.NewPool(1, 2)
	pool.Start(context.Background())
	t.Cleanup(pool.Stop)
	return pool
}

func waitForImport(t *testing.T, svc services.MenuService, id string) models.ImportStatus {
	t.Helper()
	var status models.ImportStatus
	require.Eventually(t, func() bool {
		var err error
		status, err = svc.ImportStatus(context.Background(), id)
		return err == nil && (status.State == models.ImportSucceeded || status.State == models.ImportFailed)
	}, 2*time.Second, 10*time.Millisecond)
	return status
}

func TestMenuService_Browse(t *testing.T) {
	ctx := context.Background()
	svc := services.NewMenuService(testMenu(t), startedPool(t))

	assert.Equal(t, []string{"Soups & Salads", "Sushi"}, svc.Categories(ctx))
	assert.Len(t, svc.Items(ctx, ""), 3)
	assert.Len(t, svc.Items(ctx, "sushi"), 2)
	assert.Len(t, svc.Questions(ctx, "Sushi"), 2)
	assert.Equal(t, []string{"Dietary", "Flavor"}, svc.CustomerCategories(ctx))

	item, err := svc.Item(ctx, "miso")
	require.NoError(t, err)
	assert.Equal(t, "Miso Soup", item.Name)

	_, err = svc.Item(ctx, "pizza")
	assert.True(t, errors.IsNotFound(err))
}

func TestMenuService_Search(t *testing.T) {
	svc := services.NewMenuService(testMenu(t), startedPool(t))

	found := svc.Search(context.Background(), "spicy tuna")
	require.NotEmpty(t, found)
	assert.Equal(t, "tuna", found[0].ID)
	assert.Empty(t, svc.Search(context.Background(), "zzzzzzzz"))
}

func TestMenuService_ImportReplacesCatalog(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "desserts.json")
	require.NoError(t, os.WriteFile(path, []byte(dessertMenu), 0o644))

	menu := testMenu(t)
	svc := services.NewMenuService(menu, startedPool(t))

	queued, err := svc.QueueImport(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, models.ImportQueued, queued.State)

	status := waitForImport(t, svc, queued.ID)
	assert.Equal(t, models.ImportSucceeded, status.State)
	assert.Equal(t, 1, status.Items)
	assert.NotNil(t, status.FinishedAt)
	assert.Equal(t, []string{"Desserts"}, svc.Categories(ctx))
}

func TestMenuService_FailedImportKeepsCatalog(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"menu_items": [{"id": "", "name": "", "category": ""}]}`), 0o644))

	svc := services.NewMenuService(testMenu(t), startedPool(t))
	queued, err := svc.QueueImport(ctx, path)
	require.NoError(t, err)

	status := waitForImport(t, svc, queued.ID)
	assert.Equal(t, models.ImportFailed, status.State)
	assert.NotEmpty(t, status.Problems)
	assert.Equal(t, []string{"Soups & Salads", "Sushi"}, svc.Categories(ctx))
}

func TestMenuService_QueueImport_Validation(t *testing.T) {
	ctx := context.Background()
	svc := services.NewMenuService(testMenu(t), startedPool(t))

	_, err := svc.QueueImport(ctx, "menu.csv")
	assert.Equal(t, errors.ErrCodeValidation, errors.AsAppError(err).Code)

	_, err = svc.ImportStatus(ctx, "nope")
	assert.True(t, errors.IsNotFound(err))
}

func TestMenuService_QueueImport_Full(t *testing.T) {
	ctx := context.Background()
	// Never started, so the single slot stays taken.
	svc := services.NewMenuService(testMenu(t), worker.NewPool(1, 1))

	_, err := svc.QueueImport(ctx, "a.json")
	require.NoError(t, err)
	_, err = svc.QueueImport(ctx, "b.json")
	assert.Equal(t, errors.ErrCodeConflict, errors.AsAppError(err).Code)
}
