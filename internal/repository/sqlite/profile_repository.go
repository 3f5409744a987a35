package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/menuflash/internal/logger"
	"github.com/vytor/menuflash/internal/models"
	"github.com/vytor/menuflash/internal/repository"
)

// profileRowID is the only row of the profile table.
const profileRowID = 1

type profileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository implementation
func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Get(ctx context.Context) (*models.UserProfile, error) {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("getting profile")

	var p models.UserProfile
	err := r.db.QueryRowContext(ctx, `
SELECT level, xp, xp_to_next_level, streak_days, last_study_date, current_session_streak, best_ever_streak,
       total_questions_answered, dark_mode, sound_effects, auto_advance, timer_enabled, hint_level,
       total_study_time_ms, sessions_completed, average_session_time_ms, updated_at
FROM profile
WHERE id = ?
`, profileRowID).Scan(&p.Level, &p.XP, &p.XPToNextLevel, &p.StreakDays, &p.LastStudyDate, &p.CurrentSessionStreak, &p.BestEverStreak,
		&p.TotalQuestionsAnswered, &p.Settings.DarkMode, &p.Settings.SoundEffects, &p.Settings.AutoAdvance, &p.Settings.TimerEnabled, &p.Settings.HintLevel,
		&p.Stats.TotalStudyTimeMs, &p.Stats.SessionsCompleted, &p.Stats.AverageSessionTimeMs, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("profile not created yet")
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT achievement_id FROM achievements ORDER BY seq`)
	if err != nil {
		log.Error("failed to list achievements: %v", err)
		return nil, err
	}
	defer rows.Close()
	p.Achievements = []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			log.Error("failed to scan achievement row: %v", err)
			return nil, err
		}
		p.Achievements = append(p.Achievements, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Debug("profile found: level=%d, xp=%d, achievements=%d", p.Level, p.XP, len(p.Achievements))
	return &p, nil
}

func (r *profileRepository) Save(ctx context.Context, p models.UserProfile) error {
	log := logger.FromContext(ctx).WithPrefix("profile_repo")
	log.Debug("saving profile: level=%d, xp=%d, achievements=%d", p.Level, p.XP, len(p.Achievements))

	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO profile (id, level, xp, xp_to_next_level, streak_days, last_study_date, current_session_streak, best_ever_streak,
                     total_questions_answered, dark_mode, sound_effects, auto_advance, timer_enabled, hint_level,
                     total_study_time_ms, sessions_completed, average_session_time_ms, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    level = excluded.level,
    xp = excluded.xp,
    xp_to_next_level = excluded.xp_to_next_level,
    streak_days = excluded.streak_days,
    last_study_date = excluded.last_study_date,
    current_session_streak = excluded.current_session_streak,
    best_ever_streak = excluded.best_ever_streak,
    total_questions_answered = excluded.total_questions_answered,
    dark_mode = excluded.dark_mode,
    sound_effects = excluded.sound_effects,
    auto_advance = excluded.auto_advance,
    timer_enabled = excluded.timer_enabled,
    hint_level = excluded.hint_level,
    total_study_time_ms = excluded.total_study_time_ms,
    sessions_completed = excluded.sessions_completed,
    average_session_time_ms = excluded.average_session_time_ms,
    updated_at = excluded.updated_at
`, profileRowID, p.Level, p.XP, p.XPToNextLevel, p.StreakDays, p.LastStudyDate, p.CurrentSessionStreak, p.BestEverStreak,
			p.TotalQuestionsAnswered, p.Settings.DarkMode, p.Settings.SoundEffects, p.Settings.AutoAdvance, p.Settings.TimerEnabled, p.Settings.HintLevel,
			p.Stats.TotalStudyTimeMs, p.Stats.SessionsCompleted, p.Stats.AverageSessionTimeMs, p.UpdatedAt.UTC()); err != nil {
			return err
		}

		achievements := p.Achievements
		if achievements == nil {
			achievements = []string{}
		}
		stale, args, err := sqlBuilder.Delete("achievements").Where(squirrel.NotEq{"achievement_id": achievements}).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, stale, args...); err != nil {
			return err
		}

		for _, id := range achievements {
			if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO achievements (achievement_id, unlocked_at) VALUES (?, ?)`, id, p.UpdatedAt.UTC()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to save profile: %v", err)
		return err
	}
	return nil
}
