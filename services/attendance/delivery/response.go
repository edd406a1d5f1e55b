package delivery

import (
	"errors"
	"strconv"
	"time"

	"fichai/config"
	"fichai/domain"

	"github.com/asaskevich/govalidator"
	"github.com/gofiber/fiber/v2"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrQRTokenInvalid),
		errors.Is(err, domain.ErrQRTokenExpired),
		errors.Is(err, domain.ErrInvalidKioskCode):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrInactiveEmployee),
		errors.Is(err, domain.ErrKioskNotProvisioned):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrDuplicateAttendance),
		errors.Is(err, domain.ErrQRTokenReused),
		errors.Is(err, domain.ErrAlertNotActive),
		errors.Is(err, domain.ErrInvalidStatusTransition):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrInvalidSetting),
		errors.Is(err, domain.ErrInvalidSchedule),
		errors.Is(err, domain.ErrInvalidTimestamp),
		errors.Is(err, domain.ErrInvalidAttendanceType),
		errors.Is(err, domain.ErrInvalidDate):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, username *string, functionName, message string, err error) error {
	status := statusFor(err)
	config.PrintLogInfo(username, status, functionName)
	if status == fiber.StatusInternalServerError {
		config.GetLogrusInstance().WithError(err).WithField("function", functionName).Error(message)
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
		"error":   err.Error(),
	})
}

func badRequest(c *fiber.Ctx, username *string, functionName string, errs interface{}) error {
	config.PrintLogInfo(username, fiber.StatusBadRequest, functionName)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Invalid request body",
		"error":   errs,
	})
}

func ok(c *fiber.Ctx, status int, username *string, functionName, message string, data interface{}) error {
	config.PrintLogInfo(username, status, functionName)
	body := fiber.Map{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	return c.Status(status).JSON(body)
}

// validate runs govalidator and returns the field messages, or nil.
func validate(payload interface{}) []string {
	if _, err := govalidator.ValidateStruct(payload); err != nil {
		var validatorResponse []string
		for _, msg := range govalidator.ErrorsByField(err) {
			validatorResponse = append(validatorResponse, msg)
		}
		return validatorResponse
	}
	return nil
}

func claimsOf(c *fiber.Ctx) *domain.Claims {
	claims, _ := c.Locals("user").(*domain.Claims)
	return claims
}

func paramID(c *fiber.Ctx, name string) (int, error) {
	id, err := strconv.Atoi(c.Params(name))
	if err != nil || id <= 0 {
		return 0, errors.New("invalid " + name)
	}
	return id, nil
}

func queryInt(c *fiber.Ctx, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, errors.New("invalid " + name)
	}
	return &v, nil
}

func queryDate(c *fiber.Ctx, name string, loc *time.Location) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, loc)
	if err != nil {
		return nil, errors.New("invalid " + name + ", expected YYYY-MM-DD")
	}
	return &t, nil
}
