package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/MohammadSabeti/K2/backend/config"
	"github.com/MohammadSabeti/K2/backend/middleware"
	"github.com/MohammadSabeti/K2/backend/models"
	"github.com/MohammadSabeti/K2/backend/report"
	"github.com/MohammadSabeti/K2/backend/services"
	"github.com/MohammadSabeti/K2/backend/utils"
)

type WeekController struct {
	Reports *services.ReportService
	Cfg     *config.Config
}

func NewWeekController(reports *services.ReportService, cfg *config.Config) *WeekController {
	return &WeekController{Reports: reports, Cfg: cfg}
}

func weekError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrDraftNotFound):
		return utils.NotFound(c, "Week draft not found")
	case errors.Is(err, report.ErrInvalidDate):
		return utils.BadRequest(c, "Invalid Jalali date, expected YYYY/MM/DD")
	case errors.Is(err, report.ErrDuplicateWeek):
		return utils.Conflict(c, "This week range is already recorded")
	case errors.Is(err, report.ErrConstraintViolation):
		return utils.UnprocessableEntity(c, err.Error())
	case errors.Is(err, report.ErrStorageUnavailable):
		return utils.ServiceUnavailable(c, "Storage unavailable")
	default:
		return utils.InternalServerError(c, "Unexpected error")
	}
}

// StartWeek validates the Jalali range and opens a draft for the caller.
func (wc *WeekController) StartWeek(c *fiber.Ctx) error {
	type WeekInput struct {
		WeekStart string `json:"week_start"`
		WeekEnd   string `json:"week_end"`
	}

	var input WeekInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	draft, err := wc.Reports.StartWeek(middleware.Username(c), input.WeekStart, input.WeekEnd)
	if err != nil {
		return weekError(c, err)
	}
	return utils.Created(c, draft)
}

// AddActivity appends one activity to the draft and returns it with its
// computed percent and a motivational line.
func (wc *WeekController) AddActivity(c *fiber.Ctx) error {
	var input models.ActivityInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	activity, err := wc.Reports.AddActivity(c.Params("draftId"), middleware.Username(c), input)
	if err != nil {
		return weekError(c, err)
	}

	return utils.Created(c, fiber.Map{
		"activity": activity,
		"message":  report.MotivationalMessage(activity.Percent),
	})
}

// GetDraft returns the draft with its running score.
func (wc *WeekController) GetDraft(c *fiber.Ctx) error {
	draft, score, err := wc.Reports.Draft(c.Params("draftId"), middleware.Username(c))
	if err != nil {
		return weekError(c, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"draft":         draft,
		"running_score": score,
	})
}

// SubmitWeek persists the draft with its feedback and reports the score
// and the progress diff against the previous week.
func (wc *WeekController) SubmitWeek(c *fiber.Ctx) error {
	type SubmitInput struct {
		Feedback string `json:"week_feedback"`
	}

	var input SubmitInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	submitted, err := wc.Reports.SubmitWeek(c.Params("draftId"), middleware.Username(c), input.Feedback)
	if err != nil {
		return weekError(c, err)
	}
	return utils.Created(c, submitted)
}
