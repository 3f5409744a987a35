// Package study holds in-memory study sessions and the per-mode rules that
// grade answers and summarize finished rounds.
package study

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vytor/menuflash/internal/models"
)

var ErrSessionNotFound = errors.New("study session not found")

type entry struct {
	mu      sync.Mutex
	session *models.StudySession
}

// Store keeps live sessions in memory. Each session has its own lock so
// answers to different sessions never wait on each other.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
}

func NewStore(ttl time.Duration) *Store {
	return &Store{sessions: map[string]*entry{}, ttl: ttl}
}

// Create assigns a new id to s and stores it.
func (st *Store) Create(s *models.StudySession) string {
	s.ID = uuid.NewString()

	st.mu.Lock()
	st.sessions[s.ID] = &entry{session: s}
	st.mu.Unlock()
	return s.ID
}

func (st *Store) lookup(id string) (*entry, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.sessions[id]
	return e, ok
}

// With runs fn with exclusive access to the session.
func (st *Store) With(id string, fn func(*models.StudySession) error) error {
	e, ok := st.lookup(id)
	if !ok {
		return ErrSessionNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	// Swept while we waited for the lock.
	if _, ok := st.lookup(id); !ok {
		return ErrSessionNotFound
	}
	return fn(e.session)
}

// Get returns a copy of the session.
func (st *Store) Get(id string) (*models.StudySession, error) {
	var out *models.StudySession
	err := st.With(id, func(s *models.StudySession) error {
		out = Clone(s)
		return nil
	})
	return out, err
}

func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Sweep drops sessions idle for longer than the TTL and returns their ids.
func (st *Store) Sweep(now time.Time) []string {
	st.mu.Lock()
	defer st.mu.Unlock()

	var expired []string
	for id, e := range st.sessions {
		if !e.mu.TryLock() {
			continue // busy, so not idle
		}
		if now.Sub(e.session.LastActivity) > st.ttl {
			expired = append(expired, id)
			delete(st.sessions, id)
		}
		e.mu.Unlock()
	}
	slices.Sort(expired)
	return expired
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Clone copies the mutable parts of a session. Questions are shared because
// they never change after the session starts.
func Clone(s *models.StudySession) *models.StudySession {
	out := *s
	out.Outcomes = slices.Clone(s.Outcomes)
	out.MasteredItems = slices.Clone(s.MasteredItems)
	if s.EndedAt != nil {
		t := *s.EndedAt
		out.EndedAt = &t
	}
	if s.PracticeTest != nil {
		pt := *s.PracticeTest
		pt.WeakAreas = slices.Clone(s.PracticeTest.WeakAreas)
		out.PracticeTest = &pt
	}
	return &out
}
