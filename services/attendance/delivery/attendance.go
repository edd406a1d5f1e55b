package delivery

import (
	"context"
	"fmt"
	"time"

	"fichai/domain"
	"fichai/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/skip2/go-qrcode"
)

type attendanceHandler struct {
	uc            domain.AttendanceUseCase
	institutionUC domain.InstitutionUseCase
}

func NewAttendanceHandler(app *fiber.App, uc domain.AttendanceUseCase, institutionUC domain.InstitutionUseCase) {
	handler := &attendanceHandler{
		uc:            uc,
		institutionUC: institutionUC,
	}

	route := app.Group("/attendance", middleware.AuthRequired())
	route.Get("/today", handler.GetToday)
	route.Post("/check-in", handler.CheckIn)
	route.Post("/check-out", handler.CheckOut)
	route.Post("/quick", handler.Quick)
	route.Get("/history", handler.GetHistory)
	route.Get("/qr", handler.GetQRCode)
	route.Post("/manual", middleware.RoleRequired(domain.RoleAdmin), handler.ManualEntry)

	kiosk := app.Group("/kiosk", middleware.KioskRateLimiter())
	kiosk.Post("/:institution_id/scan", handler.ScanQRCode)
}

func (ah *attendanceHandler) GetToday(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	today, err := ah.uc.GetToday(c.UserContext(), userToken.UserID)
	if err != nil {
		return fail(c, &userToken.Username, "GetToday", "Failed to get today's attendance", err)
	}

	return ok(c, fiber.StatusOK, &userToken.Username, "GetToday", "Successfully retrieved today's attendance", today)
}

func (ah *attendanceHandler) CheckIn(c *fiber.Ctx) error {
	return ah.recordAttendance(c, "CheckIn", ah.uc.CheckIn)
}

func (ah *attendanceHandler) CheckOut(c *fiber.Ctx) error {
	return ah.recordAttendance(c, "CheckOut", ah.uc.CheckOut)
}

func (ah *attendanceHandler) Quick(c *fiber.Ctx) error {
	return ah.recordAttendance(c, "Quick", ah.uc.Quick)
}

type recordFunc func(ctx context.Context, employeeID int, req *domain.AttendanceRequest) (*domain.AttendanceResult, error)

func (ah *attendanceHandler) recordAttendance(c *fiber.Ctx, functionName string, record recordFunc) error {
	userToken := claimsOf(c)

	var req domain.AttendanceRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, &userToken.Username, functionName, err.Error())
		}
	}

	result, err := record(c.UserContext(), userToken.UserID, &req)
	if err != nil {
		return fail(c, &userToken.Username, functionName, "Failed to record attendance", err)
	}

	return ok(c, fiber.StatusCreated, &userToken.Username, functionName, "Attendance recorded", result)
}

func (ah *attendanceHandler) ManualEntry(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	var req domain.ManualAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, &userToken.Username, "ManualEntry", err.Error())
	}
	if errs := validate(&req); errs != nil {
		return badRequest(c, &userToken.Username, "ManualEntry", errs)
	}

	result, err := ah.uc.ManualEntry(c.UserContext(), userToken.InstitutionID, &req)
	if err != nil {
		return fail(c, &userToken.Username, "ManualEntry", "Failed to record attendance", err)
	}

	return ok(c, fiber.StatusCreated, &userToken.Username, "ManualEntry", "Attendance recorded", result)
}

// GetHistory lists records in [from, to]; both are calendar dates in the
// institution timezone and default to the last 30 days. Employees only see
// their own records.
func (ah *attendanceHandler) GetHistory(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	inst, err := ah.institutionUC.GetInstitution(c.UserContext(), userToken.InstitutionID)
	if err != nil {
		return fail(c, &userToken.Username, "GetHistory", "Failed to get attendance history", err)
	}
	loc := inst.Location()

	employeeID := userToken.UserID
	if userToken.Role == domain.RoleAdmin {
		requested, err := queryInt(c, "employee_id")
		if err != nil {
			return badRequest(c, &userToken.Username, "GetHistory", err.Error())
		}
		if requested != nil {
			employeeID = *requested
		}
	}

	from, err := queryDate(c, "from", loc)
	if err != nil {
		return badRequest(c, &userToken.Username, "GetHistory", err.Error())
	}
	to, err := queryDate(c, "to", loc)
	if err != nil {
		return badRequest(c, &userToken.Username, "GetHistory", err.Error())
	}

	now := time.Now().In(loc)
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	if to != nil {
		end = to.AddDate(0, 0, 1)
	}
	start := end.AddDate(0, 0, -30)
	if from != nil {
		start = *from
	}

	records, err := ah.uc.GetHistory(c.UserContext(), userToken.InstitutionID, employeeID, start, end)
	if err != nil {
		return fail(c, &userToken.Username, "GetHistory", "Failed to get attendance history", err)
	}

	return ok(c, fiber.StatusOK, &userToken.Username, "GetHistory", "Successfully retrieved attendance history", records)
}

// GetQRCode returns a PNG by default, or the raw token with ?format=text.
func (ah *attendanceHandler) GetQRCode(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	token, err := ah.uc.IssueQRToken(c.UserContext(), userToken.UserID)
	if err != nil {
		return fail(c, &userToken.Username, "GetQRCode", "Failed to issue QR code", err)
	}

	if c.Query("format") == "text" {
		return ok(c, fiber.StatusOK, &userToken.Username, "GetQRCode", "QR token issued", token)
	}

	png, err := qrcode.Encode(token.Token, qrcode.Medium, 256)
	if err != nil {
		return fail(c, &userToken.Username, "GetQRCode", "Failed to render QR code", err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Set("X-QR-Expires-At", token.ExpiresAt.UTC().Format(time.RFC3339))
	return c.Status(fiber.StatusOK).Send(png)
}

func (ah *attendanceHandler) ScanQRCode(c *fiber.Ctx) error {
	institutionID, err := paramID(c, "institution_id")
	if err != nil {
		return badRequest(c, nil, "ScanQRCode", err.Error())
	}

	var req domain.QRScanRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, nil, "ScanQRCode", err.Error())
	}
	if errs := validate(&req); errs != nil {
		return badRequest(c, nil, "ScanQRCode", errs)
	}

	kioskCode := c.Get("X-Kiosk-Code")
	if kioskCode == "" {
		return fail(c, nil, "ScanQRCode", "Kiosk code is required", domain.ErrInvalidKioskCode)
	}

	result, err := ah.uc.ScanQRToken(c.UserContext(), institutionID, kioskCode, req.Token)
	if err != nil {
		return fail(c, nil, "ScanQRCode", "Failed to record attendance", err)
	}

	username := fmt.Sprintf("employee:%d", result.Record.EmployeeID)
	return ok(c, fiber.StatusCreated, &username, "ScanQRCode", "Attendance recorded", result)
}
