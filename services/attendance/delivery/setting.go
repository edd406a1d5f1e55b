package delivery

import (
	"fichai/domain"
	"fichai/middleware"

	"github.com/gofiber/fiber/v2"
)

type settingHandler struct {
	uc domain.SettingUseCase
}

func NewSettingHandler(app *fiber.App, uc domain.SettingUseCase) {
	handler := &settingHandler{
		uc: uc,
	}

	route := app.Group("/setting", middleware.AuthRequired(), middleware.RoleRequired(domain.RoleAdmin))
	route.Get("/", handler.GetSettings)
	route.Put("/", handler.UpdateSettings)
}

func (sh *settingHandler) GetSettings(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	settings, err := sh.uc.GetSettings(c.UserContext(), userToken.InstitutionID)
	if err != nil {
		return fail(c, &userToken.Username, "GetSettings", "Failed to get settings", err)
	}

	return ok(c, fiber.StatusOK, &userToken.Username, "GetSettings", "Successfully retrieved settings", settings)
}

func (sh *settingHandler) UpdateSettings(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	var values map[string]int
	if err := c.BodyParser(&values); err != nil {
		return badRequest(c, &userToken.Username, "UpdateSettings", "settings must be a map of non-negative integers")
	}
	if len(values) == 0 {
		return badRequest(c, &userToken.Username, "UpdateSettings", "no settings given")
	}

	settings, err := sh.uc.UpdateSettings(c.UserContext(), userToken.InstitutionID, values)
	if err != nil {
		return fail(c, &userToken.Username, "UpdateSettings", "Failed to update settings", err)
	}

	return ok(c, fiber.StatusOK, &userToken.Username, "UpdateSettings", "Settings updated", settings)
}
