package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/MohammadSabeti/K2/backend/models"
	"github.com/MohammadSabeti/K2/backend/report"
)

// MemoryStore is a mutex-guarded in-memory Store used by tests and as a
// development fallback. It mirrors the GormStore constraints, including
// the unique (username, week_start, week_end) guard.
type MemoryStore struct {
	mu         sync.Mutex
	nextUserID uint
	users      map[string]*models.User
	logins     []models.LoginHistory
	weeks      map[string]*models.WeekReport
	activities []models.Activity
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]*models.User),
		weeks: make(map[string]*models.WeekReport),
	}
}

func weekKey(username, start, end string) string {
	return username + "|" + start + "|" + end
}

func (s *MemoryStore) CreateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Username]; exists {
		return fmt.Errorf("username %q taken: %w", user.Username, report.ErrConstraintViolation)
	}
	s.nextUserID++
	user.ID = s.nextUserID
	user.CreatedAt = time.Now()
	clone := *user
	s.users[user.Username] = &clone
	return nil
}

func (s *MemoryStore) UserByName(username string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (s *MemoryStore) UpdatePassword(username, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[username]
	if !ok {
		return fmt.Errorf("no such user %q: %w", username, report.ErrConstraintViolation)
	}
	user.PasswordHash = passwordHash
	return nil
}

func (s *MemoryStore) RecordLogin(userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logins = append(s.logins, models.LoginHistory{UserID: userID, LoginTime: time.Now()})
	return nil
}

func (s *MemoryStore) SaveWeek(week *models.WeekReport, activities []models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := weekKey(week.Username, week.WeekStart, week.WeekEnd)
	if _, exists := s.weeks[key]; exists {
		return fmt.Errorf("%s to %s for %s: %w",
			week.WeekStart, week.WeekEnd, week.Username, report.ErrDuplicateWeek)
	}
	clone := *week
	s.weeks[key] = &clone
	s.activities = append(s.activities, activities...)
	return nil
}

func (s *MemoryStore) HistoryByUser(username string) ([]models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []models.Activity
	for _, row := range s.activities {
		if row.Username == username {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (s *MemoryStore) AllHistory() ([]models.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]models.Activity, len(s.activities))
	copy(rows, s.activities)
	return rows, nil
}

func (s *MemoryStore) HasWeek(username, weekStart, weekEnd string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.weeks[weekKey(username, weekStart, weekEnd)]
	return exists, nil
}
