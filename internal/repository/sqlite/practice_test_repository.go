package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/vytor/menuflash/internal/logger"
	"github.com/vytor/menuflash/internal/models"
	"github.com/vytor/menuflash/internal/repository"
)

type practiceTestRepository struct {
	db *sql.DB
}

// NewPracticeTestRepository creates a new PracticeTestRepository implementation
func NewPracticeTestRepository(db *sql.DB) repository.PracticeTestRepository {
	return &practiceTestRepository{db: db}
}

func (r *practiceTestRepository) Insert(ctx context.Context, t models.PracticeTest) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("practice_test_repo")
	log.Debug("inserting practice test: score=%d, total=%d", t.Score, t.TotalQuestions)

	weakAreas := t.WeakAreas
	if weakAreas == nil {
		weakAreas = []string{}
	}
	encoded, err := json.Marshal(weakAreas)
	if err != nil {
		return 0, fmt.Errorf("encode weak areas: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO practice_tests (taken_at, score, total_questions, correct_answers, time_ms, weak_areas)
VALUES (?, ?, ?, ?, ?, ?)
`, t.TakenAt.UTC(), t.Score, t.TotalQuestions, t.CorrectAnswers, t.TimeMs, string(encoded))
	if err != nil {
		log.Error("failed to insert practice test: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get practice test id: %v", err)
		return 0, err
	}
	log.Debug("practice test inserted: id=%d", id)
	return id, nil
}

func (r *practiceTestRepository) List(ctx context.Context, limit int) ([]models.PracticeTest, error) {
	log := logger.FromContext(ctx).WithPrefix("practice_test_repo")
	log.Debug("listing practice tests: limit=%d", limit)

	query := sqlBuilder.Select("id", "taken_at", "score", "total_questions", "correct_answers", "time_ms", "weak_areas").
		From("practice_tests").
		OrderBy("taken_at DESC", "id DESC")
	query = paginate(query, limit, 0)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list practice tests: %v", err)
		return nil, err
	}
	defer rows.Close()

	var tests []models.PracticeTest
	for rows.Next() {
		var t models.PracticeTest
		var weakAreas string
		if err := rows.Scan(&t.ID, &t.TakenAt, &t.Score, &t.TotalQuestions, &t.CorrectAnswers, &t.TimeMs, &weakAreas); err != nil {
			log.Error("failed to scan practice test row: %v", err)
			return nil, err
		}
		if err := json.Unmarshal([]byte(weakAreas), &t.WeakAreas); err != nil {
			log.Error("corrupt weak areas for practice test %d: %v", t.ID, err)
			return nil, fmt.Errorf("decode weak areas of practice test %d: %w", t.ID, err)
		}
		tests = append(tests, t)
	}
	log.Debug("found %d practice tests", len(tests))
	return tests, rows.Err()
}

func (r *practiceTestRepository) DeleteAll(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("practice_test_repo")
	log.Info("deleting all practice tests")

	if _, err := r.db.ExecContext(ctx, `DELETE FROM practice_tests`); err != nil {
		log.Error("failed to delete practice tests: %v", err)
		return err
	}
	return nil
}
