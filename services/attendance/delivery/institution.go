package delivery

import (
	"encoding/base64"

	"fichai/domain"
	"fichai/middleware"

	"github.com/gofiber/fiber/v2"
)

type institutionHandler struct {
	uc domain.InstitutionUseCase
}

func NewInstitutionHandler(app *fiber.App, uc domain.InstitutionUseCase) {
	handler := &institutionHandler{
		uc: uc,
	}

	route := app.Group("/institution", middleware.AuthRequired())
	route.Get("/", handler.GetInstitution)
	route.Post("/kiosk", middleware.RoleRequired(domain.RoleAdmin), handler.RotateKioskSecret)
}

func (ih *institutionHandler) GetInstitution(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	inst, err := ih.uc.GetInstitution(c.UserContext(), userToken.InstitutionID)
	if err != nil {
		return fail(c, &userToken.Username, "GetInstitution", "Failed to get institution", err)
	}

	return ok(c, fiber.StatusOK, &userToken.Username, "GetInstitution", "Successfully retrieved institution", inst)
}

// RotateKioskSecret answers with the otpauth URL and its QR code as a base64 PNG.
func (ih *institutionHandler) RotateKioskSecret(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	enrollment, err := ih.uc.RotateKioskSecret(c.UserContext(), userToken.InstitutionID)
	if err != nil {
		return fail(c, &userToken.Username, "RotateKioskSecret", "Failed to rotate kiosk secret", err)
	}

	return ok(c, fiber.StatusOK, &userToken.Username, "RotateKioskSecret", "Kiosk secret rotated", fiber.Map{
		"otpauth_url": enrollment.URL,
		"qr_png":      base64.StdEncoding.EncodeToString(enrollment.PNG),
	})
}
