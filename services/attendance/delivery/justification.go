package delivery

import (
	"fichai/domain"
	"fichai/middleware"

	"github.com/gofiber/fiber/v2"
)

type justificationHandler struct {
	uc domain.JustificationUseCase
}

func NewJustificationHandler(app *fiber.App, uc domain.JustificationUseCase) {
	handler := &justificationHandler{
		uc: uc,
	}

	route := app.Group("/justification", middleware.AuthRequired())
	route.Post("/", handler.SubmitJustification)
	route.Get("/", middleware.RoleRequired(domain.RoleAdmin), handler.GetAllJustifications)
	route.Post("/:justification_id/approve", middleware.RoleRequired(domain.RoleAdmin), handler.ApproveJustification)
	route.Post("/:justification_id/reject", middleware.RoleRequired(domain.RoleAdmin), handler.RejectJustification)
}

func (jh *justificationHandler) SubmitJustification(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	var req domain.JustificationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, &userToken.Username, "SubmitJustification", err.Error())
	}
	if errs := validate(&req); errs != nil {
		return badRequest(c, &userToken.Username, "SubmitJustification", errs)
	}

	j, err := jh.uc.SubmitJustification(c.UserContext(), userToken.UserID, &req)
	if err != nil {
		return fail(c, &userToken.Username, "SubmitJustification", "Failed to submit justification", err)
	}

	return ok(c, fiber.StatusCreated, &userToken.Username, "SubmitJustification", "Justification submitted", j)
}

func (jh *justificationHandler) GetAllJustifications(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	var status *domain.JustificationStatus
	switch raw := domain.JustificationStatus(c.Query("status")); raw {
	case "":
	case domain.JustificationPending, domain.JustificationApproved, domain.JustificationRejected:
		status = &raw
	default:
		return badRequest(c, &userToken.Username, "GetAllJustifications", "invalid status")
	}

	list, err := jh.uc.GetAllJustifications(c.UserContext(), userToken.InstitutionID, status)
	if err != nil {
		return fail(c, &userToken.Username, "GetAllJustifications", "Failed to get justifications", err)
	}

	return ok(c, fiber.StatusOK, &userToken.Username, "GetAllJustifications", "Successfully retrieved justifications", list)
}

func (jh *justificationHandler) ApproveJustification(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	id, err := paramID(c, "justification_id")
	if err != nil {
		return badRequest(c, &userToken.Username, "ApproveJustification", err.Error())
	}

	if err := jh.uc.ApproveJustification(c.UserContext(), userToken.InstitutionID, id, userToken.UserID); err != nil {
		return fail(c, &userToken.Username, "ApproveJustification", "Failed to approve justification", err)
	}

	return ok(c, fiber.StatusOK, &userToken.Username, "ApproveJustification", "Justification approved", nil)
}

func (jh *justificationHandler) RejectJustification(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	id, err := paramID(c, "justification_id")
	if err != nil {
		return badRequest(c, &userToken.Username, "RejectJustification", err.Error())
	}

	if err := jh.uc.RejectJustification(c.UserContext(), userToken.InstitutionID, id, userToken.UserID); err != nil {
		return fail(c, &userToken.Username, "RejectJustification", "Failed to reject justification", err)
	}

	return ok(c, fiber.StatusOK, &userToken.Username, "RejectJustification", "Justification rejected", nil)
}
