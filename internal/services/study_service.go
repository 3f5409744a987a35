package services

import (
	"context"
	stderrors "errors"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/vytor/menuflash/internal/achievements"
	"github.com/vytor/menuflash/internal/content"
	"github.com/vytor/menuflash/internal/errors"
	"github.com/vytor/menuflash/internal/logger"
	"github.com/vytor/menuflash/internal/models"
	"github.com/vytor/menuflash/internal/review"
	"github.com/vytor/menuflash/internal/state"
	"github.com/vytor/menuflash/internal/study"
	"github.com/vytor/menuflash/internal/xp"
)

// Rand orders questions and multiple choice options.
type Rand interface {
	review.Rand
	content.Shuffler
}

// globalRand uses the goroutine-safe top-level functions of math/rand/v2.
type globalRand struct{}

func (globalRand) Float64() float64                   { return rand.Float64() }
func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

type StartRequest struct {
	Mode     models.StudyMode `json:"mode"`
	Category string           `json:"category"`
	Count    int              `json:"count"`
}

// AnswerRequest is a typed answer. Practice tests send one answer per blank.
type AnswerRequest struct {
	Answer         string   `json:"answer"`
	Blanks         []string `json:"blanks"`
	ResponseTimeMs *int     `json:"response_time_ms"`
}

// SessionUpdate is the session after a change, with the profile and any
// achievements the change produced.
type SessionUpdate struct {
	Session         *models.StudySession       `json:"session"`
	Profile         *models.UserProfile        `json:"profile,omitempty"`
	NewAchievements []achievements.Achievement `json:"new_achievements,omitempty"`
}

type AnswerResult struct {
	SessionUpdate
	Outcome  models.AnswerOutcome `json:"outcome"`
	Progress *models.ItemProgress `json:"progress,omitempty"`
	// AutoAdvanceMs is the delay before the session moves on by itself, 0 when
	// no advance was scheduled.
	AutoAdvanceMs int64 `json:"auto_advance_ms"`
}

// StudyService runs study sessions
type StudyService interface {
	Start(ctx context.Context, req StartRequest) (*models.StudySession, error)
	Get(ctx context.Context, id string) (*models.StudySession, error)
	SubmitAnswer(ctx context.Context, id string, req AnswerRequest) (*AnswerResult, error)
	SubmitChoice(ctx context.Context, id string, index int, responseTimeMs *int) (*AnswerResult, error)
	SubmitFlashcard(ctx context.Context, id string, knew bool, responseTimeMs *int) (*AnswerResult, error)
	Skip(ctx context.Context, id string) (*AnswerResult, error)
	// Advance moves past the answered question at fromIndex. Advancing from
	// any other index is a no-op, so repeated calls are safe.
	Advance(ctx context.Context, id string, fromIndex int) (*SessionUpdate, error)
	End(ctx context.Context, id string) (*SessionUpdate, error)
	SweepExpired(ctx context.Context, now time.Time) []string
}

type StudyOption func(*studyService)

func WithClock(now func() time.Time) StudyOption {
	return func(s *studyService) { s.now = now }
}

func WithRand(rng Rand) StudyOption {
	return func(s *studyService) { s.rng = rng }
}

type studyService struct {
	store        *study.Store
	advancer     *study.AutoAdvancer
	menu         *content.Source
	progress     ProgressService
	profiles     ProfileService
	achievements AchievementService
	now          func() time.Time
	rng          Rand
}

// NewStudyService creates a new StudyService
func NewStudyService(store *study.Store, advancer *study.AutoAdvancer, menu *content.Source, progress ProgressService, profiles ProfileService, achievementSvc AchievementService, opts ...StudyOption) StudyService {
	s := &studyService{
		store:        store,
		advancer:     advancer,
		menu:         menu,
		progress:     progress,
		profiles:     profiles,
		achievements: achievementSvc,
		now:          time.Now,
		rng:          globalRand{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func sessionError(err error, id string) error {
	if stderrors.Is(err, study.ErrSessionNotFound) {
		return errors.NewNotFoundError("study session", id)
	}
	return err
}

func (s *studyService) Start(ctx context.Context, req StartRequest) (*models.StudySession, error) {
	log := logger.FromContext(ctx)
	log.Debug("starting session: mode=%s, category=%q, count=%d", req.Mode, req.Category, req.Count)

	if !req.Mode.Valid() {
		return nil, errors.NewValidationError("mode", "must be one of quick-fire, flashcard, fill-blank, multiple-choice, practice-test, customer-questions")
	}
	if req.Count < 0 {
		return nil, errors.NewValidationError("count", "cannot be negative")
	}

	catalog := s.menu.Catalog()
	categories := catalog.Categories()
	if req.Mode == models.ModeCustomerQuestions {
		categories = catalog.CustomerCategories()
	}
	category := ""
	if req.Category != "" {
		idx := slices.IndexFunc(categories, func(c string) bool { return strings.EqualFold(c, req.Category) })
		if idx < 0 {
			return nil, errors.NewNotFoundError("category", req.Category)
		}
		category = categories[idx]
	}

	now := s.now()
	selected, err := s.selectQuestions(ctx, catalog, req.Mode, category, req.Count, now)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, errors.NewValidationError("category", "no active questions to study")
	}

	profile, err := s.profiles.Update(ctx, func(p models.UserProfile) models.UserProfile {
		return state.ResetSessionStreak(state.CheckDailyStreak(p, now))
	})
	if err != nil {
		return nil, err
	}

	session := &models.StudySession{
		Mode:          req.Mode,
		Category:      category,
		Questions:     study.BuildQuestions(req.Mode, selected, catalog.Questions(""), s.rng, profile.Settings.HintLevel),
		Outcomes:      []models.AnswerOutcome{},
		MasteredItems: []string{},
		StartedAt:     now,
		QuestionAt:    now,
		LastActivity:  now,
	}
	id := s.store.Create(session)

	log.Info("session started: id=%s, mode=%s, questions=%d", id, req.Mode, len(session.Questions))
	return s.store.Get(id)
}

// selectQuestions orders menu questions by review weight. Customer questions
// have no progress, so they are shuffled uniformly.
func (s *studyService) selectQuestions(ctx context.Context, catalog *content.Catalog, mode models.StudyMode, category string, count int, now time.Time) ([]models.Question, error) {
	if mode == models.ModeCustomerQuestions {
		qs := catalog.CustomerQuestions(category)
		s.rng.Shuffle(len(qs), func(i, j int) { qs[i], qs[j] = qs[j], qs[i] })
		if count > 0 && count < len(qs) {
			qs = qs[:count]
		}
		return qs, nil
	}

	progress, err := s.progress.ProgressMap(ctx)
	if err != nil {
		return nil, err
	}
	return review.SelectQuestions(catalog.Questions(category), catalog.ItemMap(), progress,
		review.SelectOptions{Category: category, Count: count}, now, s.rng), nil
}

func (s *studyService) Get(ctx context.Context, id string) (*models.StudySession, error) {
	logger.FromContext(ctx).Debug("getting session: id=%s", id)
	session, err := s.store.Get(id)
	return session, sessionError(err, id)
}

// answerable rejects answers the session cannot take right now.
func answerable(session *models.StudySession, modes ...models.StudyMode) error {
	if session.Finished() {
		return errors.NewConflictError("session has ended")
	}
	if session.Current() == nil {
		return errors.NewConflictError("no current question")
	}
	if session.Answered() {
		return errors.NewConflictError("question already answered")
	}
	if !slices.Contains(modes, session.Mode) {
		return errors.NewBadRequestError("this answer type does not fit a " + string(session.Mode) + " session")
	}
	return nil
}

func (s *studyService) responseTime(session *models.StudySession, given *int, now time.Time) (int, error) {
	if given != nil {
		if *given < 0 {
			return 0, errors.NewValidationError("response_time_ms", "cannot be negative")
		}
		return *given, nil
	}
	return int(max(now.Sub(session.QuestionAt).Milliseconds(), 0)), nil
}

type grade struct {
	correct      bool
	validation   *models.ValidationResult
	blankResults []models.ValidationResult
	// flashcard self-grades earn flat XP and leave the streak alone
	selfGraded bool
}

func (s *studyService) SubmitAnswer(ctx context.Context, id string, req AnswerRequest) (*AnswerResult, error) {
	return s.answer(ctx, id, req.ResponseTimeMs, []models.StudyMode{models.ModeQuickFire, models.ModeFillBlank, models.ModePracticeTest, models.ModeCustomerQuestions},
		func(session *models.StudySession) (grade, error) {
			q := session.Current().Question
			if session.Mode == models.ModePracticeTest {
				correct, results := study.GradeBlanks(q, req.Blanks)
				return grade{correct: correct, blankResults: results}, nil
			}
			result := study.GradeTyped(q, req.Answer)
			return grade{correct: result.IsCorrect, validation: &result}, nil
		})
}

func (s *studyService) SubmitChoice(ctx context.Context, id string, index int, responseTimeMs *int) (*AnswerResult, error) {
	return s.answer(ctx, id, responseTimeMs, []models.StudyMode{models.ModeMultipleChoice},
		func(session *models.StudySession) (grade, error) {
			q := session.Current()
			if index < 0 || index >= len(q.Options) {
				return grade{}, errors.NewValidationError("option", "index out of range")
			}
			return grade{correct: study.GradeChoice(*q, index)}, nil
		})
}

func (s *studyService) SubmitFlashcard(ctx context.Context, id string, knew bool, responseTimeMs *int) (*AnswerResult, error) {
	return s.answer(ctx, id, responseTimeMs, []models.StudyMode{models.ModeFlashcard},
		func(*models.StudySession) (grade, error) {
			return grade{correct: knew, selfGraded: true}, nil
		})
}

func (s *studyService) answer(ctx context.Context, id string, responseTimeMs *int, modes []models.StudyMode, grader func(*models.StudySession) (grade, error)) (*AnswerResult, error) {
	log := logger.FromContext(ctx).WithField("session_id", id)
	now := s.now()

	var result *AnswerResult
	err := s.store.With(id, func(session *models.StudySession) error {
		if err := answerable(session, modes...); err != nil {
			return err
		}
		ms, err := s.responseTime(session, responseTimeMs, now)
		if err != nil {
			return err
		}
		g, err := grader(session)
		if err != nil {
			return err
		}

		q := session.Current()
		awarded := answerXP(session.Mode, g, session.Streak, ms)
		log.Debug("graded question %d: correct=%v, xp=%d", session.CurrentIndex, g.correct, awarded)

		tracked := session.Mode.TracksProgress()
		var attempt AttemptResult
		if tracked {
			if attempt, err = s.progress.RecordAttempt(ctx, q.ItemID, q.ComponentID, g.correct, ms, now); err != nil {
				return err
			}
		}

		profile, err := s.profiles.Update(ctx, func(p models.UserProfile) models.UserProfile {
			p = state.AddXP(p, awarded)
			if !g.selfGraded {
				if g.correct {
					p = state.IncrementStreak(p)
				} else {
					p = state.ResetSessionStreak(p)
				}
			}
			if tracked {
				p = state.CountQuestion(p)
			}
			return p
		})
		if err != nil {
			return err
		}

		outcome := models.AnswerOutcome{
			QuestionIndex:  session.CurrentIndex,
			ItemID:         q.ItemID,
			Category:       q.Category,
			Correct:        g.correct,
			ResponseTimeMs: ms,
			XPAwarded:      awarded,
			Validation:     g.validation,
			BlankResults:   g.blankResults,
		}
		session.Outcomes = append(session.Outcomes, outcome)
		if g.correct {
			session.Score++
		}
		if !g.selfGraded {
			if g.correct {
				session.Streak++
			} else {
				session.Streak = 0
			}
		}
		if attempt.Mastered() && !slices.Contains(session.MasteredItems, q.ItemID) {
			session.MasteredItems = append(session.MasteredItems, q.ItemID)
		}
		session.LastActivity = now

		result = &AnswerResult{
			SessionUpdate: SessionUpdate{Profile: &profile},
			Outcome:       outcome,
			Progress:      attempt.Progress,
		}

		// The answer is already recorded; a failed evaluation is retried on the next one.
		result.NewAchievements = s.evaluateAchievements(ctx, session, now, &profile)

		if g.correct && profile.Settings.AutoAdvance {
			s.scheduleAdvance(session.ID, session.CurrentIndex)
			result.AutoAdvanceMs = s.advancer.Delay().Milliseconds()
		}
		result.Session = study.Clone(session)
		return nil
	})
	if err != nil {
		return nil, sessionError(err, id)
	}
	return result, nil
}

// answerXP rewards one graded answer. streak is the session streak before it.
func answerXP(mode models.StudyMode, g grade, streak, responseTimeMs int) int {
	switch {
	case g.selfGraded && g.correct:
		return xp.FlashcardKnownXP
	case g.selfGraded:
		return 0
	case mode == models.ModePracticeTest:
		return xp.PracticeTestReward(g.correct, streak, responseTimeMs)
	default:
		return xp.RewardForAnswer(g.correct, streak, responseTimeMs)
	}
}

func (s *studyService) scheduleAdvance(sessionID string, fromIndex int) {
	s.advancer.Schedule(sessionID, fromIndex, func(from int) {
		log := logger.Default().WithFields(map[string]any{"session_id": sessionID, "from_index": from})
		ctx := logger.NewContext(context.Background(), log)
		if _, err := s.Advance(ctx, sessionID, from); err != nil {
			log.Warn("auto-advance failed: %v", err)
		}
	})
}

// Skip records an incorrect outcome without touching progress or XP.
func (s *studyService) Skip(ctx context.Context, id string) (*AnswerResult, error) {
	log := logger.FromContext(ctx).WithField("session_id", id)
	now := s.now()

	var result *AnswerResult
	err := s.store.With(id, func(session *models.StudySession) error {
		if err := answerable(session, session.Mode); err != nil {
			return err
		}
		profile, err := s.profiles.Update(ctx, state.ResetSessionStreak)
		if err != nil {
			return err
		}

		q := session.Current()
		outcome := models.AnswerOutcome{
			QuestionIndex:  session.CurrentIndex,
			ItemID:         q.ItemID,
			Category:       q.Category,
			Skipped:        true,
			ResponseTimeMs: int(max(now.Sub(session.QuestionAt).Milliseconds(), 0)),
		}
		session.Outcomes = append(session.Outcomes, outcome)
		session.Streak = 0
		session.LastActivity = now
		log.Debug("skipped question %d", session.CurrentIndex)

		result = &AnswerResult{
			SessionUpdate: SessionUpdate{Session: study.Clone(session), Profile: &profile},
			Outcome:       outcome,
		}
		return nil
	})
	if err != nil {
		return nil, sessionError(err, id)
	}
	return result, nil
}

func (s *studyService) Advance(ctx context.Context, id string, fromIndex int) (*SessionUpdate, error) {
	log := logger.FromContext(ctx).WithField("session_id", id)
	now := s.now()

	var update *SessionUpdate
	err := s.store.With(id, func(session *models.StudySession) error {
		if session.Finished() || fromIndex != session.CurrentIndex {
			log.Debug("advance from %d ignored at index %d", fromIndex, session.CurrentIndex)
			update = &SessionUpdate{Session: study.Clone(session)}
			return nil
		}
		if !session.Answered() {
			return errors.NewConflictError("current question has not been answered")
		}
		s.advancer.Cancel(session.ID)

		session.CurrentIndex++
		session.QuestionAt = now
		session.LastActivity = now
		if session.CurrentIndex < len(session.Questions) {
			update = &SessionUpdate{Session: study.Clone(session)}
			return nil
		}

		var err error
		update, err = s.finish(ctx, session, now, true)
		return err
	})
	if err != nil {
		return nil, sessionError(err, id)
	}
	return update, nil
}

// End stops the session early. Ending a finished session returns it as is.
func (s *studyService) End(ctx context.Context, id string) (*SessionUpdate, error) {
	now := s.now()

	var update *SessionUpdate
	err := s.store.With(id, func(session *models.StudySession) error {
		if session.Finished() {
			update = &SessionUpdate{Session: study.Clone(session)}
			return nil
		}
		var err error
		update, err = s.finish(ctx, session, now, false)
		return err
	})
	if err != nil {
		return nil, sessionError(err, id)
	}
	return update, nil
}

// finish closes the session. Only completed sessions earn the completion
// bonus and store a practice test result.
func (s *studyService) finish(ctx context.Context, session *models.StudySession, now time.Time, completed bool) (*SessionUpdate, error) {
	log := logger.FromContext(ctx).WithField("session_id", session.ID)
	s.advancer.Cancel(session.ID)

	bonus := 0
	if completed {
		bonus = xp.CompletionBonus(session.Mode)
	}
	duration := now.Sub(session.StartedAt)

	profile, err := s.profiles.Update(ctx, func(p models.UserProfile) models.UserProfile {
		p.Stats = state.EndSession(p.Stats, duration)
		return state.AddXP(p, bonus)
	})
	if err != nil {
		return nil, err
	}

	session.EndedAt = &now
	session.Completed = completed
	session.BonusXP = bonus
	session.LastActivity = now

	if completed && session.Mode == models.ModePracticeTest {
		test, err := s.profiles.RecordPracticeTest(ctx, study.PracticeTestResult(session, now))
		if err != nil {
			return nil, err
		}
		session.PracticeTest = &test
	}

	log.Info("session ended: completed=%v, score=%d/%d, xp=%d", completed, session.Score, len(session.Questions), session.XPEarned())

	unlocked := s.evaluateAchievements(ctx, session, now, &profile)
	return &SessionUpdate{Session: study.Clone(session), Profile: &profile, NewAchievements: unlocked}, nil
}

// evaluateAchievements unlocks what the session earned and refreshes profile
// when anything was unlocked.
func (s *studyService) evaluateAchievements(ctx context.Context, session *models.StudySession, now time.Time, profile *models.UserProfile) []achievements.Achievement {
	log := logger.FromContext(ctx)

	unlocked, err := s.achievements.Evaluate(ctx, session, now)
	if err != nil {
		log.Warn("achievement evaluation failed: %v", err)
		return nil
	}
	if len(unlocked) == 0 {
		return nil
	}
	if fresh, err := s.profiles.GetProfile(ctx); err == nil {
		*profile = fresh
	}
	return unlocked
}

func (s *studyService) SweepExpired(ctx context.Context, now time.Time) []string {
	expired := s.store.Sweep(now)
	for _, id := range expired {
		s.advancer.Cancel(id)
	}
	if len(expired) > 0 {
		logger.FromContext(ctx).Info("swept %d expired sessions", len(expired))
	}
	return expired
}
