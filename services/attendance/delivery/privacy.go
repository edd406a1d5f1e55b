package delivery

import (
	"fichai/domain"
	"fichai/middleware"

	"github.com/gofiber/fiber/v2"
)

type privacyHandler struct {
	uc domain.PrivacyUseCase
}

func NewPrivacyHandler(app *fiber.App, uc domain.PrivacyUseCase) {
	handler := &privacyHandler{
		uc: uc,
	}

	route := app.Group("/privacy", middleware.AuthRequired())
	route.Post("/", handler.FileRequest)
	route.Get("/mine", handler.GetMyRequests)
	route.Get("/", middleware.RoleRequired(domain.RoleAdmin), handler.GetAllRequests)
	route.Put("/:request_id/status", middleware.RoleRequired(domain.RoleAdmin), handler.UpdateStatus)
}

func (ph *privacyHandler) FileRequest(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	var payload domain.PrivacyRequestPayload
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, &userToken.Username, "FileRequest", err.Error())
	}
	if errs := validate(&payload); errs != nil {
		return badRequest(c, &userToken.Username, "FileRequest", errs)
	}

	req, err := ph.uc.FileRequest(c.UserContext(), userToken.UserID, &payload)
	if err != nil {
		return fail(c, &userToken.Username, "FileRequest", "Failed to file privacy request", err)
	}

	return ok(c, fiber.StatusCreated, &userToken.Username, "FileRequest", "Privacy request filed", req)
}

func (ph *privacyHandler) GetMyRequests(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	list, err := ph.uc.GetMyRequests(c.UserContext(), userToken.UserID)
	if err != nil {
		return fail(c, &userToken.Username, "GetMyRequests", "Failed to get privacy requests", err)
	}

	return ok(c, fiber.StatusOK, &userToken.Username, "GetMyRequests", "Successfully retrieved privacy requests", list)
}

func (ph *privacyHandler) GetAllRequests(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	list, err := ph.uc.GetAllRequests(c.UserContext(), userToken.InstitutionID)
	if err != nil {
		return fail(c, &userToken.Username, "GetAllRequests", "Failed to get privacy requests", err)
	}

	return ok(c, fiber.StatusOK, &userToken.Username, "GetAllRequests", "Successfully retrieved privacy requests", list)
}

func (ph *privacyHandler) UpdateStatus(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	id, err := paramID(c, "request_id")
	if err != nil {
		return badRequest(c, &userToken.Username, "UpdateStatus", err.Error())
	}

	var payload domain.PrivacyStatusPayload
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, &userToken.Username, "UpdateStatus", err.Error())
	}
	if errs := validate(&payload); errs != nil {
		return badRequest(c, &userToken.Username, "UpdateStatus", errs)
	}

	req, err := ph.uc.UpdateStatus(c.UserContext(), userToken.InstitutionID, id, userToken.UserID, &payload)
	if err != nil {
		return fail(c, &userToken.Username, "UpdateStatus", "Failed to update privacy request", err)
	}

	return ok(c, fiber.StatusOK, &userToken.Username, "UpdateStatus", "Privacy request updated", req)
}
