package delivery

import (
	"time"

	"fichai/domain"
	"fichai/middleware"

	"github.com/gofiber/fiber/v2"
)

type scheduleHandler struct {
	uc            domain.ScheduleUseCase
	institutionUC domain.InstitutionUseCase
}

func NewScheduleHandler(app *fiber.App, uc domain.ScheduleUseCase, institutionUC domain.InstitutionUseCase) {
	handler := &scheduleHandler{
		uc:            uc,
		institutionUC: institutionUC,
	}

	route := app.Group("/schedule", middleware.AuthRequired())
	route.Get("/week", handler.GetWeek)
	route.Get("/employee/:employee_id", middleware.RoleRequired(domain.RoleAdmin), handler.GetScheduleByEmployee)
	route.Put("/employee/:employee_id", middleware.RoleRequired(domain.RoleAdmin), handler.ReplaceSchedule)
}

func (sh *scheduleHandler) GetScheduleByEmployee(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	id, err := paramID(c, "employee_id")
	if err != nil {
		return badRequest(c, &userToken.Username, "GetScheduleByEmployee", err.Error())
	}

	entries, err := sh.uc.GetScheduleByEmployee(c.UserContext(), userToken.InstitutionID, id)
	if err != nil {
		return fail(c, &userToken.Username, "GetScheduleByEmployee", "Failed to get schedule", err)
	}

	return ok(c, fiber.StatusOK, &userToken.Username, "GetScheduleByEmployee", "Successfully retrieved schedule", entries)
}

func (sh *scheduleHandler) ReplaceSchedule(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	id, err := paramID(c, "employee_id")
	if err != nil {
		return badRequest(c, &userToken.Username, "ReplaceSchedule", err.Error())
	}

	var payload []domain.ScheduleEntryPayload
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, &userToken.Username, "ReplaceSchedule", err.Error())
	}
	for i := range payload {
		if errs := validate(&payload[i]); errs != nil {
			return badRequest(c, &userToken.Username, "ReplaceSchedule", errs)
		}
	}

	entries, err := sh.uc.ReplaceSchedule(c.UserContext(), userToken.InstitutionID, id, &payload)
	if err != nil {
		return fail(c, &userToken.Username, "ReplaceSchedule", "Failed to save schedule", err)
	}

	return ok(c, fiber.StatusOK, &userToken.Username, "ReplaceSchedule", "Schedule saved", entries)
}

// GetWeek returns the caller's schedule for the ISO week containing ?date=
// (default today in the institution timezone).
func (sh *scheduleHandler) GetWeek(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	inst, err := sh.institutionUC.GetInstitution(c.UserContext(), userToken.InstitutionID)
	if err != nil {
		return fail(c, &userToken.Username, "GetWeek", "Failed to get weekly schedule", err)
	}

	date := time.Now().In(inst.Location())
	requested, err := queryDate(c, "date", inst.Location())
	if err != nil {
		return badRequest(c, &userToken.Username, "GetWeek", err.Error())
	}
	if requested != nil {
		date = *requested
	}

	week, err := sh.uc.GetWeek(c.UserContext(), userToken.UserID, date)
	if err != nil {
		return fail(c, &userToken.Username, "GetWeek", "Failed to get weekly schedule", err)
	}

	return ok(c, fiber.StatusOK, &userToken.Username, "GetWeek", "Successfully retrieved weekly schedule", week)
}
