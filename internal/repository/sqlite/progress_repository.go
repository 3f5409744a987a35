package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/menuflash/internal/logger"
	"github.com/vytor/menuflash/internal/models"
	"github.com/vytor/menuflash/internal/repository"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Get(ctx context.Context, itemID string) (*models.ItemProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("getting progress: item_id=%s", itemID)

	p, err := loadProgress(ctx, r.db, itemID)
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, err
	}
	if p == nil {
		log.Debug("no progress yet: item_id=%s", itemID)
		return nil, nil
	}
	log.Debug("progress found: status=%s, components=%d", p.Status, len(p.Components))
	return p, nil
}

func loadProgress(ctx context.Context, q queryer, itemID string) (*models.ItemProgress, error) {
	p := models.ItemProgress{ItemID: itemID, Components: map[string]*models.ComponentProgress{}}
	err := q.QueryRowContext(ctx, `
SELECT status, overall_accuracy, needs_review, bookmarked, updated_at
FROM item_progress
WHERE item_id = ?
`, itemID).Scan(&p.Status, &p.OverallAccuracy, &p.NeedsReview, &p.Bookmarked, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, `
SELECT component_id, attempts, correct, last_seen
FROM component_progress
WHERE item_id = ?
`, itemID)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var id string
		c := &models.ComponentProgress{}
		if err := rows.Scan(&id, &c.Attempts, &c.Correct, &c.LastSeen); err != nil {
			rows.Close()
			return nil, err
		}
		p.Components[id] = c
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = q.QueryContext(ctx, `
SELECT component_id, attempted_at, correct, response_time_ms
FROM attempt_history
WHERE item_id = ?
ORDER BY id
`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var a models.AttemptRecord
		if err := rows.Scan(&id, &a.Timestamp, &a.Correct, &a.ResponseTimeMs); err != nil {
			return nil, err
		}
		if c, ok := p.Components[id]; ok {
			c.History = append(c.History, a)
		}
	}
	return &p, rows.Err()
}

func (r *progressRepository) Save(ctx context.Context, p *models.ItemProgress) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("saving progress: item_id=%s, status=%s, components=%d", p.ItemID, p.Status, len(p.Components))

	componentIDs := make([]string, 0, len(p.Components))
	for id, c := range p.Components {
		if c == nil {
			continue
		}
		componentIDs = append(componentIDs, id)
	}
	sort.Strings(componentIDs)

	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO item_progress (item_id, status, overall_accuracy, needs_review, bookmarked, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(item_id) DO UPDATE SET
    status = excluded.status,
    overall_accuracy = excluded.overall_accuracy,
    needs_review = excluded.needs_review,
    bookmarked = excluded.bookmarked,
    updated_at = excluded.updated_at
`, p.ItemID, p.Status, p.OverallAccuracy, p.NeedsReview, p.Bookmarked, p.UpdatedAt.UTC()); err != nil {
			return err
		}

		stale, args, err := sqlBuilder.Delete("component_progress").
			Where(squirrel.Eq{"item_id": p.ItemID}).
			Where(squirrel.NotEq{"component_id": componentIDs}).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, stale, args...); err != nil {
			return err
		}

		for _, id := range componentIDs {
			if err := saveComponent(ctx, tx, p.ItemID, id, p.Components[id]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to save progress: %v", err)
		return err
	}
	return nil
}

func saveComponent(ctx context.Context, tx *sql.Tx, itemID, componentID string, c *models.ComponentProgress) error {
	if _, err := tx.ExecContext(ctx, `
INSERT INTO component_progress (item_id, component_id, attempts, correct, last_seen)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(item_id, component_id) DO UPDATE SET
    attempts = excluded.attempts,
    correct = excluded.correct,
    last_seen = excluded.last_seen
`, itemID, componentID, c.Attempts, c.Correct, c.LastSeen.UTC()); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM attempt_history WHERE item_id = ? AND component_id = ?`, itemID, componentID); err != nil {
		return err
	}

	history := c.History
	if over := len(history) - models.MaxHistory; over > 0 {
		history = history[over:]
	}
	if len(history) == 0 {
		return nil
	}

	insert := sqlBuilder.Insert("attempt_history").Columns("item_id", "component_id", "attempted_at", "correct", "response_time_ms")
	for _, a := range history {
		insert = insert.Values(itemID, componentID, a.Timestamp.UTC(), a.Correct, a.ResponseTimeMs)
	}
	query, args, err := insert.ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

func (r *progressRepository) List(ctx context.Context, filter models.ProgressFilter) ([]*models.ItemProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("listing progress with filter: status=%s, items=%d, limit=%d, offset=%d",
		filter.Status, len(filter.ItemIDs), filter.Limit, filter.Offset)

	query := sqlBuilder.Select("item_id").From("item_progress")
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.Bookmarked != nil {
		query = query.Where(squirrel.Eq{"bookmarked": *filter.Bookmarked})
	}
	if filter.NeedsReview != nil {
		query = query.Where(squirrel.Eq{"needs_review": *filter.NeedsReview})
	}
	if filter.ItemIDs != nil {
		query = query.Where(squirrel.Eq{"item_id": filter.ItemIDs})
	}
	query = paginate(query.OrderBy("item_id"), filter.Limit, filter.Offset)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list progress: %v", err)
		return nil, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			log.Error("failed to scan progress row: %v", err)
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*models.ItemProgress, 0, len(ids))
	for _, id := range ids {
		p, err := loadProgress(ctx, r.db, id)
		if err != nil {
			log.Error("failed to load progress %s: %v", id, err)
			return nil, err
		}
		if p != nil {
			out = append(out, p)
		}
	}
	log.Debug("found %d progress records", len(out))
	return out, nil
}

func (r *progressRepository) SetBookmarked(ctx context.Context, itemID string, bookmarked bool) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("setting bookmark: item_id=%s, bookmarked=%v", itemID, bookmarked)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO item_progress (item_id, bookmarked, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(item_id) DO UPDATE SET bookmarked = excluded.bookmarked, updated_at = excluded.updated_at
`, itemID, bookmarked, time.Now().UTC())
	if err != nil {
		log.Error("failed to set bookmark: %v", err)
	}
	return err
}

func (r *progressRepository) SetNeedsReview(ctx context.Context, itemID string, needsReview bool) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("setting review flag: item_id=%s, needs_review=%v", itemID, needsReview)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO item_progress (item_id, needs_review, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(item_id) DO UPDATE SET needs_review = excluded.needs_review, updated_at = excluded.updated_at
`, itemID, needsReview, time.Now().UTC())
	if err != nil {
		log.Error("failed to set review flag: %v", err)
	}
	return err
}

func (r *progressRepository) DeleteAll(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Info("deleting all progress")

	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		for _, table := range []string{"attempt_history", "component_progress", "item_progress"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to delete progress: %v", err)
	}
	return err
}
