// Package report holds the weekly scoring and history grouping logic.
// Everything here is pure; fetching history is the caller's job.
package report

import (
	"fmt"
	"math"
	"sort"

	"github.com/MohammadSabeti/K2/backend/jalali"
	"github.com/MohammadSabeti/K2/backend/models"
)

// WeekGroup is one submitted week reconstructed from its activity rows.
type WeekGroup struct {
	Username     string            `json:"username"`
	WeekStart    string            `json:"week_start"`
	WeekEnd      string            `json:"week_end"`
	Feedback     string            `json:"week_feedback"`
	TotalScore   int               `json:"week_total_score"`
	ProgressDiff int               `json:"progress_diff"`
	Activities   []models.Activity `json:"activities"`
}

// ComputePercent derives the completion percent of one activity:
// round(done/target*100) clamped to 100. A zero target makes the ratio
// undefined, so it is rejected as a constraint violation rather than
// given an invented meaning; negative counts are rejected the same way.
func ComputePercent(done, target int) (int, error) {
	if target <= 0 {
		return 0, fmt.Errorf("target must be positive, got %d: %w", target, ErrConstraintViolation)
	}
	if done < 0 {
		return 0, fmt.Errorf("done must be non-negative, got %d: %w", done, ErrConstraintViolation)
	}
	percent := int(math.Round(float64(done) / float64(target) * 100))
	if percent > 100 {
		percent = 100
	}
	return percent, nil
}

// ComputeWeekScore is the unweighted mean of the percents, rounded to the
// nearest integer. An empty week scores 0.
func ComputeWeekScore(percents []int) int {
	if len(percents) == 0 {
		return 0
	}
	sum := 0
	for _, p := range percents {
		sum += p
	}
	return int(math.Round(float64(sum) / float64(len(percents))))
}

// ComputeProgressDiff returns currentScore minus the total score of the
// chronologically latest week in hist whose start is strictly before
// weekStart, or 0 when no earlier week exists. Ordering uses the
// converted Gregorian key, never the raw Jalali string, so weeks compare
// correctly across year boundaries and unpadded input.
func ComputeProgressDiff(hist []models.Activity, weekStart string, currentScore int) int {
	currentKey := jalali.SortKey(weekStart)

	bestKey := ""
	bestScore := 0
	found := false
	for _, g := range GroupByWeek(hist) {
		key := jalali.SortKey(g.WeekStart)
		if key >= currentKey {
			continue
		}
		if !found || key > bestKey {
			bestKey = key
			bestScore = g.TotalScore
			found = true
		}
	}
	if !found {
		return 0
	}
	return currentScore - bestScore
}

// IsDuplicateWeek reports whether hist already contains a row with
// exactly this week range. A match on only one bound is not a duplicate.
func IsDuplicateWeek(hist []models.Activity, weekStart, weekEnd string) bool {
	for _, row := range hist {
		if row.WeekStart == weekStart && row.WeekEnd == weekEnd {
			return true
		}
	}
	return false
}

// GroupByWeek reconstructs the per-week view from flat activity rows.
// Groups are ordered by converted week start descending (newest first),
// breaking ties by week end; rows within a group are ordered by save
// time descending.
func GroupByWeek(rows []models.Activity) []WeekGroup {
	type weekKey struct {
		username, start, end string
	}

	groups := make(map[weekKey]*WeekGroup)
	order := make([]weekKey, 0)
	for _, row := range rows {
		key := weekKey{row.Username, row.WeekStart, row.WeekEnd}
		g, ok := groups[key]
		if !ok {
			g = &WeekGroup{
				Username:     row.Username,
				WeekStart:    row.WeekStart,
				WeekEnd:      row.WeekEnd,
				Feedback:     row.WeekFeedback,
				TotalScore:   row.WeekTotalScore,
				ProgressDiff: row.ProgressDiff,
			}
			groups[key] = g
			order = append(order, key)
		}
		g.Activities = append(g.Activities, row)
	}

	result := make([]WeekGroup, 0, len(order))
	for _, key := range order {
		g := groups[key]
		sort.SliceStable(g.Activities, func(i, j int) bool {
			return g.Activities[i].SavedAt.After(g.Activities[j].SavedAt)
		})
		result = append(result, *g)
	}

	sort.SliceStable(result, func(i, j int) bool {
		ki, kj := jalali.SortKey(result[i].WeekStart), jalali.SortKey(result[j].WeekStart)
		if ki != kj {
			return ki > kj
		}
		return jalali.SortKey(result[i].WeekEnd) > jalali.SortKey(result[j].WeekEnd)
	})
	return result
}
