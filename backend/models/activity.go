package models

import (
	"time"

	"gorm.io/gorm"
)

// WeekReport is one submitted week for one user. The composite unique
// index is the storage-level guard against duplicate week ranges: two
// concurrent submissions for the same range can both pass the pre-check,
// but only one insert survives.
type WeekReport struct {
	gorm.Model
	Username     string `gorm:"not null;uniqueIndex:idx_user_week"`
	WeekStart    string `gorm:"not null;uniqueIndex:idx_user_week"` // Jalali YYYY/MM/DD
	WeekEnd      string `gorm:"not null;uniqueIndex:idx_user_week"`
	Feedback     string
	TotalScore   int
	ProgressDiff int
}

// Activity is one logged activity row. Week-level fields (feedback, total
// score, progress diff) are replicated on every row of the week, matching
// the original user_activities table.
type Activity struct {
	gorm.Model
	Username       string `gorm:"not null;index"`
	WeekStart      string `gorm:"not null"`
	WeekEnd        string `gorm:"not null"`
	Name           string `gorm:"not null"`
	Target         int    `gorm:"not null"`
	Done           int    `gorm:"not null"`
	Percent        int    `gorm:"not null"`
	Note           string
	SavedAt        time.Time `gorm:"not null"`
	WeekFeedback   string
	WeekTotalScore int `gorm:"not null"`
	ProgressDiff   int `gorm:"default:0"`
}

type ActivityInput struct {
	Name   string `json:"name"`
	Target int    `json:"target"`
	Done   int    `json:"done"`
	Note   string `json:"note"`
}
