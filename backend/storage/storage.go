// Package storage is the persistence collaborator for users and weekly
// history. History is append-only: no update or delete of activity rows.
package storage

import "github.com/MohammadSabeti/K2/backend/models"

// Store is implemented by GormStore for Postgres and by MemoryStore for
// tests. Lookup misses return (nil, nil) or (false, nil); errors are
// wrapped in the report package sentinels.
type Store interface {
	CreateUser(user *models.User) error
	UserByName(username string) (*models.User, error)
	UpdatePassword(username, passwordHash string) error
	RecordLogin(userID uint) error

	// SaveWeek persists one week report and all of its activity rows
	// atomically. A duplicate (username, week_start, week_end) fails
	// with report.ErrDuplicateWeek and persists nothing.
	SaveWeek(week *models.WeekReport, activities []models.Activity) error

	HistoryByUser(username string) ([]models.Activity, error)
	AllHistory() ([]models.Activity, error)
	HasWeek(username, weekStart, weekEnd string) (bool, error)
}
