package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MohammadSabeti/K2/backend/models"
)

// WeekDraft is the transient, per-session week in progress: the confirmed
// range plus the activities added so far. Nothing here touches storage
// until the draft is submitted.
type WeekDraft struct {
	ID         string            `json:"id"`
	Username   string            `json:"username"`
	WeekStart  string            `json:"week_start"`
	WeekEnd    string            `json:"week_end"`
	Activities []models.Activity `json:"activities"`
	CreatedAt  time.Time         `json:"created_at"`
}

// SessionManager owns the in-flight drafts. Drafts are created when a
// week range is confirmed and dropped on submit or logout; they are never
// shared between users.
type SessionManager struct {
	mu     sync.Mutex
	drafts map[string]*WeekDraft
}

func NewSessionManager() *SessionManager {
	return &SessionManager{drafts: make(map[string]*WeekDraft)}
}

func (m *SessionManager) Start(username, weekStart, weekEnd string) *WeekDraft {
	m.mu.Lock()
	defer m.mu.Unlock()

	draft := &WeekDraft{
		ID:        uuid.NewString(),
		Username:  username,
		WeekStart: weekStart,
		WeekEnd:   weekEnd,
		CreatedAt: time.Now(),
	}
	m.drafts[draft.ID] = draft
	return draft
}

// Get returns a snapshot of the draft, so callers can read it without
// holding the manager lock.
func (m *SessionManager) Get(id string) (WeekDraft, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	draft, ok := m.drafts[id]
	if !ok {
		return WeekDraft{}, false
	}
	snapshot := *draft
	snapshot.Activities = append([]models.Activity(nil), draft.Activities...)
	return snapshot, true
}

func (m *SessionManager) Append(id string, activity models.Activity) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	draft, ok := m.drafts[id]
	if !ok {
		return false
	}
	draft.Activities = append(draft.Activities, activity)
	return true
}

func (m *SessionManager) Drop(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.drafts, id)
}

// DropByUser clears every draft a user owns, used on logout.
func (m *SessionManager) DropByUser(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, draft := range m.drafts {
		if draft.Username == username {
			delete(m.drafts, id)
		}
	}
}
