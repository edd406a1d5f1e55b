package delivery

import (
	"fichai/config"
	"fichai/domain"
	"fichai/middleware"

	"github.com/gofiber/fiber/v2"
)

type notifHandler struct {
	uc domain.NotificationUseCase
}

func NewNotificationHandler(app *fiber.App, uc domain.NotificationUseCase) {
	handler := &notifHandler{
		uc: uc,
	}

	group := app.Group("/notification")
	group.Get("/history", middleware.AuthRequired(), middleware.RoleRequired(domain.RoleAdmin), handler.GetAllNotificationHistory)
}

func (nh *notifHandler) GetAllNotificationHistory(c *fiber.Ctx) error {
	userToken := c.Locals("user").(*domain.Claims)

	datas, err := nh.uc.GetAllNotificationHistory(c.UserContext(), userToken.InstitutionID)
	if err != nil {
		config.PrintLogInfo(&userToken.Username, fiber.StatusInternalServerError, "GetAllNotificationHistory")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to get notification history",
			"error":   err.Error(),
		})
	}

	config.PrintLogInfo(&userToken.Username, fiber.StatusOK, "GetAllNotificationHistory")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Successfully retrieved notification history",
		"data":    datas,
	})
}
