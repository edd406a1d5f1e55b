package delivery

import (
	"fmt"
	"time"

	"fichai/domain"
	"fichai/middleware"

	"github.com/gofiber/fiber/v2"
)

type reportHandler struct {
	uc domain.ReportUseCase
}

func NewReportHandler(app *fiber.App, uc domain.ReportUseCase) {
	handler := &reportHandler{
		uc: uc,
	}

	route := app.Group("/report", middleware.AuthRequired(), middleware.RoleRequired(domain.RoleAdmin))
	route.Get("/monthly", handler.GetMonthlyReport)
}

// GetMonthlyReport answers JSON without ?format, or a download for xlsx and csv.
func (rh *reportHandler) GetMonthlyReport(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	month := c.Query("month", time.Now().Format("2006-01"))
	format := c.Query("format")

	switch format {
	case "":
		report, err := rh.uc.GetMonthlyReport(c.UserContext(), userToken.InstitutionID, month)
		if err != nil {
			return fail(c, &userToken.Username, "GetMonthlyReport", "Failed to build report", err)
		}
		return ok(c, fiber.StatusOK, &userToken.Username, "GetMonthlyReport", "Successfully built report", report)

	case domain.ReportFormatXLSX, domain.ReportFormatCSV:
		data, err := rh.uc.ExportMonthlyReport(c.UserContext(), userToken.InstitutionID, month, format)
		if err != nil {
			return fail(c, &userToken.Username, "GetMonthlyReport", "Failed to export report", err)
		}

		contentType := "text/csv; charset=utf-8"
		if format == domain.ReportFormatXLSX {
			contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		}
		c.Set(fiber.HeaderContentType, contentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="attendance-%s.%s"`, month, format))
		return c.Status(fiber.StatusOK).Send(data)

	default:
		return badRequest(c, &userToken.Username, "GetMonthlyReport", "format must be xlsx or csv")
	}
}
