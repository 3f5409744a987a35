// Package achievements defines the unlockable badges and decides which ones a
// progress snapshot has earned.
package achievements

import (
	"slices"
	"strings"
	"time"

	"github.com/vytor/menuflash/internal/models"
)

type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Target      int    `json:"target"`
	// Category is set for mastery badges tied to one menu category.
	Category string `json:"category,omitempty"`
}

const (
	FirstBlood      = "first_blood"
	HotStreak       = "hot_streak"
	SpeedDemon      = "speed_demon"
	SushiMaster     = "sushi_master"
	SaladExpert     = "salad_expert"
	SauceSpecialist = "sauce_specialist"
	MenuMaster      = "menu_master"
	LightningRound  = "lightning_round"
	WeekWarrior     = "week_warrior"
	Dedicated       = "dedicated"
	Perfectionist   = "perfectionist"
	Scholar         = "scholar"
	Legend          = "legend"
	Century         = "century"
	QuickLearner    = "quick_learner"
)

const (
	speedDemonMs       = 5000
	lightningQuestions = 20
	lightningWindow    = 3 * time.Minute
)

var catalog = []Achievement{
	{ID: FirstBlood, Name: "First Blood", Description: "Answer your first question correctly", Icon: "🎯", Target: 1},
	{ID: HotStreak, Name: "Hot Streak", Description: "Get 5 correct answers in a row", Icon: "🔥", Target: 5},
	{ID: SpeedDemon, Name: "Speed Demon", Description: "Answer a question in under 5 seconds", Icon: "⚡", Target: 1},
	{ID: SushiMaster, Name: "Sushi Master", Description: "Achieve 100% mastery in Sushi category", Icon: "🍣", Target: 100, Category: "Sushi"},
	{ID: SaladExpert, Name: "Salad Expert", Description: "Achieve 100% mastery in Soups & Salads", Icon: "🥗", Target: 100, Category: "Soups & Salads"},
	{ID: SauceSpecialist, Name: "Sauce Specialist", Description: "Achieve 100% mastery in Sauces & Dressings", Icon: "🧂", Target: 100, Category: "Sauces & Dressings"},
	{ID: MenuMaster, Name: "Menu Master", Description: "Achieve 100% mastery across all items", Icon: "📚", Target: 100},
	{ID: LightningRound, Name: "Lightning Round", Description: "Complete 20 questions in under 3 minutes", Icon: "⚡", Target: 1},
	{ID: WeekWarrior, Name: "Week Warrior", Description: "Maintain a 7-day study streak", Icon: "🗓️", Target: 7},
	{ID: Dedicated, Name: "Dedicated Scholar", Description: "Maintain a 30-day study streak", Icon: "📖", Target: 30},
	{ID: Perfectionist, Name: "Perfectionist", Description: "Score 100% on a practice test", Icon: "💯", Target: 100},
	{ID: Scholar, Name: "Scholar", Description: "Answer 500 questions total", Icon: "🎓", Target: 500},
	{ID: Legend, Name: "Legend", Description: "Reach Level 20", Icon: "🏅", Target: 20},
	{ID: Century, Name: "Century Club", Description: "Complete 100 study sessions", Icon: "💪", Target: 100},
	{ID: QuickLearner, Name: "Quick Learner", Description: "Master 10 items in a single session", Icon: "🧠", Target: 10},
}

// All returns a copy of the catalog in display order.
func All() []Achievement {
	return slices.Clone(catalog)
}

func Lookup(id string) (Achievement, bool) {
	for _, a := range catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// Snapshot is everything the badges are judged on.
type Snapshot struct {
	Profile models.UserProfile

	// CategoryMastery and MenuMastery are percentages of active items mastered.
	CategoryMastery map[string]int
	MenuMastery     int

	SessionCorrect    int
	FastestCorrectMs  int
	SessionAnswered   int
	SessionElapsed    time.Duration
	MasteredInSession int
	// BestTestScore is the best practice test percentage, -1 when none was taken.
	BestTestScore int
}

// Progress returns how far snap is toward achievement id, in the units of its Target.
func Progress(id string, snap Snapshot) int {
	p := snap.Profile
	switch id {
	case FirstBlood:
		if p.BestEverStreak > 0 {
			return 1
		}
	case HotStreak:
		return p.BestEverStreak
	case SpeedDemon:
		if snap.SessionCorrect > 0 && snap.FastestCorrectMs < speedDemonMs {
			return 1
		}
	case SushiMaster, SaladExpert, SauceSpecialist:
		a, _ := Lookup(id)
		return categoryMastery(snap.CategoryMastery, a.Category)
	case MenuMaster:
		return snap.MenuMastery
	case LightningRound:
		if snap.SessionAnswered >= lightningQuestions && snap.SessionElapsed < lightningWindow {
			return 1
		}
	case WeekWarrior, Dedicated:
		return p.StreakDays
	case Perfectionist:
		return max(snap.BestTestScore, 0)
	case Scholar:
		return p.TotalQuestionsAnswered
	case Legend:
		return p.Level
	case Century:
		return p.Stats.SessionsCompleted
	case QuickLearner:
		return snap.MasteredInSession
	}
	return 0
}

func categoryMastery(byCategory map[string]int, category string) int {
	for name, pct := range byCategory {
		if strings.EqualFold(name, category) {
			return pct
		}
	}
	return 0
}

// Evaluate returns the ids snap has earned that are not already unlocked,
// in catalog order.
func Evaluate(snap Snapshot, unlocked []string) []string {
	var earned []string
	for _, a := range catalog {
		if slices.Contains(unlocked, a.ID) {
			continue
		}
		if Progress(a.ID, snap) >= a.Target {
			earned = append(earned, a.ID)
		}
	}
	return earned
}

// MasteryPercent reports the share of active items whose status is mastered,
// per category and across the whole menu. Percentages are floored.
func MasteryPercent(items []models.MenuItem, progress map[string]*models.ItemProgress) (map[string]int, int) {
	type tally struct{ mastered, total int }
	byCategory := map[string]*tally{}
	var all tally

	for _, item := range items {
		if !item.Active() {
			continue
		}
		t, ok := byCategory[item.Category]
		if !ok {
			t = &tally{}
			byCategory[item.Category] = t
		}
		t.total++
		all.total++
		if p := progress[item.ID]; p != nil && p.Status == models.StatusMastered {
			t.mastered++
			all.mastered++
		}
	}

	percent := func(t tally) int {
		if t.total == 0 {
			return 0
		}
		return t.mastered * 100 / t.total
	}

	out := make(map[string]int, len(byCategory))
	for name, t := range byCategory {
		out[name] = percent(*t)
	}
	return out, percent(all)
}
