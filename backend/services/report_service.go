package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MohammadSabeti/K2/backend/jalali"
	"github.com/MohammadSabeti/K2/backend/models"
	"github.com/MohammadSabeti/K2/backend/report"
	"github.com/MohammadSabeti/K2/backend/storage"
)

// ErrDraftNotFound means the draft id is unknown or was already
// submitted or dropped.
var ErrDraftNotFound = errors.New("week draft not found")

const maxFeedbackLen = 500

// SubmittedWeek is the result of a successful week submission.
type SubmittedWeek struct {
	WeekStart    string `json:"week_start"`
	WeekEnd      string `json:"week_end"`
	TotalScore   int    `json:"week_total_score"`
	ProgressDiff int    `json:"progress_diff"`
	Activities   int    `json:"activities"`
	Message      string `json:"message"`
}

// HistoryFilter narrows the grouped history view. WeekStart matches a
// week range exactly; Query is a substring match on activity name or note.
type HistoryFilter struct {
	WeekStart string
	Query     string
}

// ReportService orchestrates the scoring core against the store and the
// session drafts.
type ReportService struct {
	store    storage.Store
	sessions *SessionManager
}

func NewReportService(store storage.Store, sessions *SessionManager) *ReportService {
	return &ReportService{store: store, sessions: sessions}
}

// StartWeek validates the range and opens a draft. The duplicate check
// here is a UX shortcut; the unique index in storage is what actually
// closes the race at submit time.
func (s *ReportService) StartWeek(username, weekStart, weekEnd string) (*WeekDraft, error) {
	weekStart = strings.TrimSpace(weekStart)
	weekEnd = strings.TrimSpace(weekEnd)
	if !jalali.Valid(weekStart) || !jalali.Valid(weekEnd) {
		return nil, fmt.Errorf("%s to %s: %w", weekStart, weekEnd, report.ErrInvalidDate)
	}

	exists, err := s.store.HasWeek(username, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%s to %s for %s: %w", weekStart, weekEnd, username, report.ErrDuplicateWeek)
	}

	draft := s.sessions.Start(username, weekStart, weekEnd)
	return draft, nil
}

// AddActivity computes the completion percent and appends the activity to
// the draft. Blank names get a positional placeholder.
func (s *ReportService) AddActivity(draftID, username string, input models.ActivityInput) (*models.Activity, error) {
	draft, ok := s.sessions.Get(draftID)
	if !ok || draft.Username != username {
		return nil, ErrDraftNotFound
	}

	percent, err := report.ComputePercent(input.Done, input.Target)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = fmt.Sprintf("Activity %d", len(draft.Activities)+1)
	}

	activity := models.Activity{
		Username:  username,
		WeekStart: draft.WeekStart,
		WeekEnd:   draft.WeekEnd,
		Name:      name,
		Target:    input.Target,
		Done:      input.Done,
		Percent:   percent,
		Note:      strings.TrimSpace(input.Note),
		SavedAt:   time.Now().UTC(),
	}
	if !s.sessions.Append(draftID, activity) {
		return nil, ErrDraftNotFound
	}
	return &activity, nil
}

// Draft returns the draft with its running score.
func (s *ReportService) Draft(draftID, username string) (WeekDraft, int, error) {
	draft, ok := s.sessions.Get(draftID)
	if !ok || draft.Username != username {
		return WeekDraft{}, 0, ErrDraftNotFound
	}
	return draft, report.ComputeWeekScore(percents(draft.Activities)), nil
}

// SubmitWeek scores the draft, computes the progress diff against the
// user's history and persists the week atomically. The draft is dropped
// only after the store accepts it.
func (s *ReportService) SubmitWeek(draftID, username, feedback string) (*SubmittedWeek, error) {
	draft, ok := s.sessions.Get(draftID)
	if !ok || draft.Username != username {
		return nil, ErrDraftNotFound
	}
	if len(draft.Activities) == 0 {
		return nil, fmt.Errorf("week has no activities: %w", report.ErrConstraintViolation)
	}
	feedback = strings.TrimSpace(feedback)
	if len([]rune(feedback)) > maxFeedbackLen {
		return nil, fmt.Errorf("feedback longer than %d characters: %w", maxFeedbackLen, report.ErrConstraintViolation)
	}

	totalScore := report.ComputeWeekScore(percents(draft.Activities))

	hist, err := s.store.HistoryByUser(username)
	if err != nil {
		return nil, err
	}
	diff := report.ComputeProgressDiff(hist, draft.WeekStart, totalScore)

	week := &models.WeekReport{
		Username:     username,
		WeekStart:    draft.WeekStart,
		WeekEnd:      draft.WeekEnd,
		Feedback:     feedback,
		TotalScore:   totalScore,
		ProgressDiff: diff,
	}
	rows := make([]models.Activity, len(draft.Activities))
	for i, act := range draft.Activities {
		act.WeekFeedback = feedback
		act.WeekTotalScore = totalScore
		act.ProgressDiff = diff
		rows[i] = act
	}

	if err := s.store.SaveWeek(week, rows); err != nil {
		return nil, err
	}
	s.sessions.Drop(draftID)

	return &SubmittedWeek{
		WeekStart:    week.WeekStart,
		WeekEnd:      week.WeekEnd,
		TotalScore:   totalScore,
		ProgressDiff: diff,
		Activities:   len(rows),
		Message:      report.MotivationalMessage(totalScore),
	}, nil
}

// History returns the user's submitted weeks, newest first.
func (s *ReportService) History(username string, filter HistoryFilter) ([]report.WeekGroup, error) {
	rows, err := s.store.HistoryByUser(username)
	if err != nil {
		return nil, err
	}
	return report.GroupByWeek(applyFilter(rows, filter)), nil
}

// AllHistory is the administrative view across every user.
func (s *ReportService) AllHistory(filter HistoryFilter) ([]report.WeekGroup, error) {
	rows, err := s.store.AllHistory()
	if err != nil {
		return nil, err
	}
	return report.GroupByWeek(applyFilter(rows, filter)), nil
}

func applyFilter(rows []models.Activity, filter HistoryFilter) []models.Activity {
	if filter.WeekStart == "" && filter.Query == "" {
		return rows
	}
	query := strings.ToLower(filter.Query)
	var out []models.Activity
	for _, row := range rows {
		if filter.WeekStart != "" && row.WeekStart != filter.WeekStart {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(row.Name), query) &&
			!strings.Contains(strings.ToLower(row.Note), query) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func percents(activities []models.Activity) []int {
	out := make([]int, len(activities))
	for i, act := range activities {
		out[i] = act.Percent
	}
	return out
}
