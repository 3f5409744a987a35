package services_test

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/menuflash/internal/achievements"
	"github.com/vytor/menuflash/internal/errors"
	"github.com/vytor/menuflash/internal/models"
	"github.com/vytor/menuflash/internal/repository/sqlite"
	"github.com/vytor/menuflash/internal/services"
	"github.com/vytor/menuflash/internal/study"
	"github.com/vytor/menuflash/internal/testutil"
)

type fakeTimer struct {
	fn      func()
	stopped bool
}

func (f *fakeTimer) Stop() bool {
	was := !f.stopped
	f.stopped = true
	return was
}

type StudyServiceSuite struct {
	suite.Suite
	ctx      context.Context
	clock    time.Time
	timers   []*fakeTimer
	store    *study.Store
	svc      services.StudyService
	profiles services.ProfileService
	progress services.ProgressService
}

func (s *StudyServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	s.timers = nil

	db := testutil.NewTestDB(s.T())
	s.T().Cleanup(func() { testutil.MustClose(s.T(), db) })

	progressRepo := sqlite.NewProgressRepository(db)
	profileRepo := sqlite.NewProfileRepository(db)
	testRepo := sqlite.NewPracticeTestRepository(db)
	menu := testMenu(s.T())

	s.progress = services.NewProgressService(progressRepo, menu)
	s.profiles = services.NewProfileService(profileRepo, progressRepo, testRepo)
	achievementSvc := services.NewAchievementService(s.profiles, progressRepo, testRepo, menu)

	advancer := study.NewAutoAdvancer(2 * time.Second).WithAfterFunc(func(_ time.Duration, f func()) study.Timer {
		t := &fakeTimer{fn: f}
		s.timers = append(s.timers, t)
		return t
	})
	s.store = study.NewStore(time.Hour)
	s.svc = services.NewStudyService(s.store, advancer, menu, s.progress, s.profiles, achievementSvc,
		services.WithClock(func() time.Time { return s.clock }),
		services.WithRand(rand.New(rand.NewPCG(1, 2))),
	)
}

func TestStudyServiceSuite(t *testing.T) {
	suite.Run(t, new(StudyServiceSuite))
}

func (s *StudyServiceSuite) tick(d time.Duration) {
	s.clock = s.clock.Add(d)
}

func (s *StudyServiceSuite) lastTimer() *fakeTimer {
	s.Require().NotEmpty(s.timers)
	return s.timers[len(s.timers)-1]
}

func (s *StudyServiceSuite) profile() models.UserProfile {
	p, err := s.profiles.GetProfile(s.ctx)
	s.Require().NoError(err)
	return p
}

func achievementIDs(list []achievements.Achievement) []string {
	ids := make([]string, len(list))
	for i, a := range list {
		ids[i] = a.ID
	}
	return ids
}

func (s *StudyServiceSuite) TestQuickFire_FullRound() {
	session, err := s.svc.Start(s.ctx, services.StartRequest{Mode: models.ModeQuickFire, Category: "sushi"})
	s.Require().NoError(err)
	s.Equal("Sushi", session.Category)
	s.Len(session.Questions, 2, "inactive items are never selected")
	s.Equal(1, s.profile().StreakDays)

	s.tick(1500 * time.Millisecond)
	res, err := s.svc.SubmitAnswer(s.ctx, session.ID, services.AnswerRequest{Answer: session.Questions[0].ExpectedAnswer()})
	s.Require().NoError(err)
	s.True(res.Outcome.Correct)
	s.Equal(1500, res.Outcome.ResponseTimeMs)
	s.Equal(12, res.Outcome.XPAwarded)
	s.Equal(12, res.Profile.XP)
	s.Equal(1, res.Profile.CurrentSessionStreak)
	s.Equal(1, res.Profile.TotalQuestionsAnswered)
	s.Equal(int64(2000), res.AutoAdvanceMs)
	s.Subset(achievementIDs(res.NewAchievements), []string{achievements.FirstBlood, achievements.SpeedDemon})
	s.True(res.Profile.HasAchievement(achievements.FirstBlood))
	s.Require().NotNil(res.Progress)
	s.Equal(models.StatusLearning, res.Progress.Status)

	_, err = s.svc.SubmitAnswer(s.ctx, session.ID, services.AnswerRequest{Answer: "again"})
	s.Equal(errors.ErrCodeConflict, errors.AsAppError(err).Code)

	// Manual advance cancels the pending auto-advance; repeating it is a no-op.
	first := s.lastTimer()
	update, err := s.svc.Advance(s.ctx, session.ID, 0)
	s.Require().NoError(err)
	s.Equal(1, update.Session.CurrentIndex)
	s.True(first.stopped)

	update, err = s.svc.Advance(s.ctx, session.ID, 0)
	s.Require().NoError(err)
	s.Equal(1, update.Session.CurrentIndex)

	res, err = s.svc.SubmitAnswer(s.ctx, session.ID, services.AnswerRequest{Answer: session.Questions[1].ExpectedAnswer(), ResponseTimeMs: ptr(6000)})
	s.Require().NoError(err)
	s.Equal(10, res.Outcome.XPAwarded, "no speed bonus at 6s and no streak bonus below 3")

	// Firing the auto-advance past the last question completes the session.
	s.lastTimer().fn()
	got, err := s.svc.Get(s.ctx, session.ID)
	s.Require().NoError(err)
	s.True(got.Finished())
	s.True(got.Completed)
	s.Zero(got.BonusXP, "quick-fire has no completion bonus")
	s.Equal(22, got.XPEarned())

	p := s.profile()
	s.Equal(22, p.XP)
	s.Equal(1, p.Stats.SessionsCompleted)
	s.Equal(2, p.BestEverStreak)
}

func (s *StudyServiceSuite) TestWrongAnswerResetsStreak() {
	session, err := s.svc.Start(s.ctx, services.StartRequest{Mode: models.ModeFillBlank, Category: "Sushi", Count: 1})
	s.Require().NoError(err)
	s.Len(session.Questions, 1)

	res, err := s.svc.SubmitAnswer(s.ctx, session.ID, services.AnswerRequest{Answer: "chocolate cake", ResponseTimeMs: ptr(800)})
	s.Require().NoError(err)
	s.False(res.Outcome.Correct)
	s.Zero(res.Outcome.XPAwarded)
	s.Zero(res.Profile.CurrentSessionStreak)
	s.Zero(res.AutoAdvanceMs)
	s.Empty(s.timers)
	s.Require().NotNil(res.Outcome.Validation)
	s.Equal(models.MatchNone, res.Outcome.Validation.MatchKind)
}

func (s *StudyServiceSuite) TestPracticeTest_StoresResult() {
	session, err := s.svc.Start(s.ctx, services.StartRequest{Mode: models.ModePracticeTest, Category: "Soups & Salads"})
	s.Require().NoError(err)
	s.Require().Len(session.Questions, 1)

	res, err := s.svc.SubmitAnswer(s.ctx, session.ID, services.AnswerRequest{Blanks: []string{"Tofu"}, ResponseTimeMs: ptr(2000)})
	s.Require().NoError(err)
	s.True(res.Outcome.Correct)
	s.Len(res.Outcome.BlankResults, 1)
	s.Equal(15, res.Outcome.XPAwarded, "base 10 plus the 5 XP speed bonus")

	s.tick(time.Minute)
	update, err := s.svc.Advance(s.ctx, session.ID, 0)
	s.Require().NoError(err)
	s.True(update.Session.Completed)
	s.Zero(update.Session.BonusXP)
	s.Require().NotNil(update.Session.PracticeTest)
	s.Equal(100, update.Session.PracticeTest.Score)
	s.Equal(time.Minute.Milliseconds(), update.Session.PracticeTest.TimeMs)
	s.Empty(update.Session.PracticeTest.WeakAreas)
	s.Contains(achievementIDs(update.NewAchievements), achievements.Perfectionist)

	tests, err := s.profiles.PracticeTests(s.ctx, 0)
	s.Require().NoError(err)
	s.Len(tests, 1)
}

func (s *StudyServiceSuite) TestPracticeTest_MissingBlankIsWrong() {
	session, err := s.svc.Start(s.ctx, services.StartRequest{Mode: models.ModePracticeTest, Category: "Sushi", Count: 2})
	s.Require().NoError(err)

	res, err := s.svc.SubmitAnswer(s.ctx, session.ID, services.AnswerRequest{Blanks: nil, ResponseTimeMs: ptr(6000)})
	s.Require().NoError(err)
	s.False(res.Outcome.Correct)
	s.Equal(5, res.Outcome.XPAwarded, "wrong practice answers still earn the base")
	s.Equal(5, res.Profile.XP)
	s.Zero(res.Profile.CurrentSessionStreak)
}

func (s *StudyServiceSuite) TestPracticeTest_StreakScalesReward() {
	session, err := s.svc.Start(s.ctx, services.StartRequest{Mode: models.ModePracticeTest, Category: "Sushi", Count: 2})
	s.Require().NoError(err)
	s.Require().Len(session.Questions, 2)

	answers := func(q models.SessionQuestion) []string {
		out := make([]string, len(q.Blanks))
		for i, b := range q.Blanks {
			out[i] = b.Answer
		}
		return out
	}

	res, err := s.svc.SubmitAnswer(s.ctx, session.ID, services.AnswerRequest{Blanks: answers(session.Questions[0]), ResponseTimeMs: ptr(6000)})
	s.Require().NoError(err)
	s.Equal(10, res.Outcome.XPAwarded)

	_, err = s.svc.Advance(s.ctx, session.ID, 0)
	s.Require().NoError(err)

	res, err = s.svc.SubmitAnswer(s.ctx, session.ID, services.AnswerRequest{Blanks: []string{"nope"}, ResponseTimeMs: ptr(1000)})
	s.Require().NoError(err)
	s.False(res.Outcome.Correct)
	s.Equal(5+2+5, res.Outcome.XPAwarded, "the streak before a wrong answer still counts")
}

func (s *StudyServiceSuite) TestCustomerQuestions_StreakXPWithoutProgress() {
	session, err := s.svc.Start(s.ctx, services.StartRequest{Mode: models.ModeCustomerQuestions, Category: "dietary"})
	s.Require().NoError(err)
	s.Equal("Dietary", session.Category)
	s.Require().Len(session.Questions, 1)
	q := session.Questions[0]
	s.Equal("Is the miso soup vegetarian?", q.Prompt)
	s.Equal("miso", q.ItemID)
	s.Empty(q.Hints)

	res, err := s.svc.SubmitAnswer(s.ctx, session.ID, services.AnswerRequest{Answer: "Nope", ResponseTimeMs: ptr(1000)})
	s.Require().NoError(err)
	s.True(res.Outcome.Correct)
	s.Equal(12, res.Outcome.XPAwarded)
	s.Equal(1, res.Profile.CurrentSessionStreak)
	s.Zero(res.Profile.TotalQuestionsAnswered, "customer answers are not counted")
	s.Nil(res.Progress)

	p, err := s.progress.GetProgress(s.ctx, "miso")
	s.Require().NoError(err)
	s.Equal(models.StatusNew, p.Status)

	s.lastTimer().fn()
	got, err := s.svc.Get(s.ctx, session.ID)
	s.Require().NoError(err)
	s.True(got.Completed)
	s.Equal(50, got.BonusXP)
	s.Equal(62, s.profile().XP)
}

func (s *StudyServiceSuite) TestCustomerQuestions_UnknownCategory() {
	_, err := s.svc.Start(s.ctx, services.StartRequest{Mode: models.ModeCustomerQuestions, Category: "Sushi"})
	s.True(errors.IsNotFound(err))

	session, err := s.svc.Start(s.ctx, services.StartRequest{Mode: models.ModeCustomerQuestions, Count: 1})
	s.Require().NoError(err)
	s.Len(session.Questions, 1)
}

func (s *StudyServiceSuite) TestHints_FollowProfileLevel() {
	session, err := s.svc.Start(s.ctx, services.StartRequest{Mode: models.ModeQuickFire, Category: "Soups & Salads"})
	s.Require().NoError(err)
	s.Equal([]string{"What garnish?"}, session.Questions[0].Hints)

	_, err = s.profiles.UpdateSettings(s.ctx, models.SettingsPatch{HintLevel: ptr(models.HintNone)})
	s.Require().NoError(err)

	session, err = s.svc.Start(s.ctx, services.StartRequest{Mode: models.ModeQuickFire, Category: "Soups & Salads"})
	s.Require().NoError(err)
	s.Empty(session.Questions[0].Hints)
}

func (s *StudyServiceSuite) TestFlashcard_FlatXPWithoutStreak() {
	session, err := s.svc.Start(s.ctx, services.StartRequest{Mode: models.ModeFlashcard, Category: "Soups & Salads"})
	s.Require().NoError(err)

	res, err := s.svc.SubmitFlashcard(s.ctx, session.ID, true, ptr(500))
	s.Require().NoError(err)
	s.Equal(8, res.Outcome.XPAwarded)
	s.Zero(res.Profile.CurrentSessionStreak)
	s.Zero(res.Session.Streak)
	s.Equal(1, res.Session.Score)
}

func (s *StudyServiceSuite) TestMultipleChoice() {
	session, err := s.svc.Start(s.ctx, services.StartRequest{Mode: models.ModeMultipleChoice, Category: "Sushi", Count: 1})
	s.Require().NoError(err)
	q := session.Questions[0]
	s.Contains(q.Options, q.ExpectedAnswer())

	_, err = s.svc.SubmitChoice(s.ctx, session.ID, len(q.Options), nil)
	s.Equal(errors.ErrCodeValidation, errors.AsAppError(err).Code)

	_, err = s.svc.SubmitAnswer(s.ctx, session.ID, services.AnswerRequest{Answer: "tuna"})
	s.Equal(errors.ErrCodeBadRequest, errors.AsAppError(err).Code)

	correct := -1
	for i, opt := range q.Options {
		if opt == q.ExpectedAnswer() {
			correct = i
		}
	}
	res, err := s.svc.SubmitChoice(s.ctx, session.ID, correct, ptr(1000))
	s.Require().NoError(err)
	s.True(res.Outcome.Correct)
}

func (s *StudyServiceSuite) TestSkip_RecordsNothing() {
	session, err := s.svc.Start(s.ctx, services.StartRequest{Mode: models.ModeQuickFire, Category: "Soups & Salads"})
	s.Require().NoError(err)

	res, err := s.svc.Skip(s.ctx, session.ID)
	s.Require().NoError(err)
	s.True(res.Outcome.Skipped)
	s.False(res.Outcome.Correct)
	s.Zero(res.Outcome.XPAwarded)
	s.Nil(res.Progress)

	p, err := s.progress.GetProgress(s.ctx, "miso")
	s.Require().NoError(err)
	s.Equal(models.StatusNew, p.Status)
	s.Zero(s.profile().TotalQuestionsAnswered)

	_, err = s.svc.Skip(s.ctx, session.ID)
	s.Equal(errors.ErrCodeConflict, errors.AsAppError(err).Code)
}

func (s *StudyServiceSuite) TestAdvanceRequiresAnswer() {
	session, err := s.svc.Start(s.ctx, services.StartRequest{Mode: models.ModeQuickFire})
	s.Require().NoError(err)

	_, err = s.svc.Advance(s.ctx, session.ID, 0)
	s.Equal(errors.ErrCodeConflict, errors.AsAppError(err).Code)
}

func (s *StudyServiceSuite) TestEndEarly_NoBonus() {
	session, err := s.svc.Start(s.ctx, services.StartRequest{Mode: models.ModeQuickFire})
	s.Require().NoError(err)
	s.Len(session.Questions, 3)

	s.tick(30 * time.Second)
	update, err := s.svc.End(s.ctx, session.ID)
	s.Require().NoError(err)
	s.False(update.Session.Completed)
	s.Zero(update.Session.BonusXP)
	s.Equal(1, update.Profile.Stats.SessionsCompleted)
	s.Equal(int64(30000), update.Profile.Stats.TotalStudyTimeMs)

	again, err := s.svc.End(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(update.Session.EndedAt, again.Session.EndedAt)
	s.Equal(1, s.profile().Stats.SessionsCompleted)

	_, err = s.svc.SubmitAnswer(s.ctx, session.ID, services.AnswerRequest{Answer: "tofu"})
	s.Equal(errors.ErrCodeConflict, errors.AsAppError(err).Code)
}

func (s *StudyServiceSuite) TestStart_Validation() {
	_, err := s.svc.Start(s.ctx, services.StartRequest{Mode: "speed-run"})
	s.Equal(errors.ErrCodeValidation, errors.AsAppError(err).Code)

	_, err = s.svc.Start(s.ctx, services.StartRequest{Mode: models.ModeQuickFire, Count: -1})
	s.Equal(errors.ErrCodeValidation, errors.AsAppError(err).Code)

	_, err = s.svc.Start(s.ctx, services.StartRequest{Mode: models.ModeQuickFire, Category: "Desserts"})
	s.True(errors.IsNotFound(err))
}

func (s *StudyServiceSuite) TestUnknownSession() {
	_, err := s.svc.Get(s.ctx, "missing")
	s.True(errors.IsNotFound(err))

	_, err = s.svc.SubmitFlashcard(s.ctx, "missing", true, nil)
	s.True(errors.IsNotFound(err))
}

func (s *StudyServiceSuite) TestSweepExpired() {
	session, err := s.svc.Start(s.ctx, services.StartRequest{Mode: models.ModeQuickFire})
	s.Require().NoError(err)

	s.Empty(s.svc.SweepExpired(s.ctx, s.clock.Add(30*time.Minute)))
	s.Equal([]string{session.ID}, s.svc.SweepExpired(s.ctx, s.clock.Add(2*time.Hour)))

	_, err = s.svc.Get(s.ctx, session.ID)
	s.True(errors.IsNotFound(err))
}
