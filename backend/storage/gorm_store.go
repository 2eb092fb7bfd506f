package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/MohammadSabeti/K2/backend/models"
	"github.com/MohammadSabeti/K2/backend/report"
)

// GormStore persists to Postgres through GORM. The DB must be opened with
// TranslateError so unique-key violations surface as gorm.ErrDuplicatedKey.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// AutoMigrate creates or updates the schema for all persisted models.
func (s *GormStore) AutoMigrate() error {
	return s.DB.AutoMigrate(
		&models.User{},
		&models.LoginHistory{},
		&models.WeekReport{},
		&models.Activity{},
	)
}

func (s *GormStore) CreateUser(user *models.User) error {
	if err := s.DB.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("username %q taken: %w", user.Username, report.ErrConstraintViolation)
		}
		return fmt.Errorf("create user: %w", report.ErrStorageUnavailable)
	}
	return nil
}

func (s *GormStore) UserByName(username string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user: %w", report.ErrStorageUnavailable)
	}
	return &user, nil
}

func (s *GormStore) UpdatePassword(username, passwordHash string) error {
	res := s.DB.Model(&models.User{}).
		Where("username = ?", username).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		return fmt.Errorf("update password: %w", report.ErrStorageUnavailable)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("no such user %q: %w", username, report.ErrConstraintViolation)
	}
	return nil
}

func (s *GormStore) RecordLogin(userID uint) error {
	entry := models.LoginHistory{UserID: userID, LoginTime: time.Now()}
	if err := s.DB.Create(&entry).Error; err != nil {
		return fmt.Errorf("record login: %w", report.ErrStorageUnavailable)
	}
	return nil
}

// SaveWeek writes the week report and its rows in a single transaction,
// so a week is never half persisted. The unique index on week_reports is
// the real duplicate guard; callers' pre-checks are only UX.
func (s *GormStore) SaveWeek(week *models.WeekReport, activities []models.Activity) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(week).Error; err != nil {
			return err
		}
		for i := range activities {
			if err := tx.Create(&activities[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%s to %s for %s: %w",
				week.WeekStart, week.WeekEnd, week.Username, report.ErrDuplicateWeek)
		}
		return fmt.Errorf("save week: %w", report.ErrStorageUnavailable)
	}
	return nil
}

func (s *GormStore) HistoryByUser(username string) ([]models.Activity, error) {
	var rows []models.Activity
	if err := s.DB.Where("username = ?", username).Order("saved_at asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load history: %w", report.ErrStorageUnavailable)
	}
	return rows, nil
}

func (s *GormStore) AllHistory() ([]models.Activity, error) {
	var rows []models.Activity
	if err := s.DB.Order("saved_at desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load history: %w", report.ErrStorageUnavailable)
	}
	return rows, nil
}

func (s *GormStore) HasWeek(username, weekStart, weekEnd string) (bool, error) {
	var count int64
	err := s.DB.Model(&models.WeekReport{}).
		Where("username = ? AND week_start = ? AND week_end = ?", username, weekStart, weekEnd).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check week: %w", report.ErrStorageUnavailable)
	}
	return count > 0, nil
}
