package delivery

import (
	"fichai/config"
	"fichai/domain"
	"fichai/middleware"

	"github.com/gofiber/fiber/v2"
)

type authHandler struct {
	uc domain.AuthUseCase
}

func NewAuthHandler(app *fiber.App, uc domain.AuthUseCase) {
	handler := &authHandler{
		uc: uc,
	}

	app.Post("/login", middleware.LoginRateLimiter(config.GetLoginRateLimit()), handler.Login)
}

func (ah *authHandler) Login(c *fiber.Ctx) error {
	var req domain.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, nil, "Login", err.Error())
	}
	if errs := validate(&req); errs != nil {
		return badRequest(c, &req.Username, "Login", errs)
	}

	res, err := ah.uc.Login(c.UserContext(), &req)
	if err != nil {
		return fail(c, &req.Username, "Login", "Login failed", err)
	}

	return ok(c, fiber.StatusOK, &req.Username, "Login", "Login successful", res)
}
