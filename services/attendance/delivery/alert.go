package delivery

import (
	"fichai/domain"
	"fichai/middleware"

	"github.com/gofiber/fiber/v2"
)

type alertHandler struct {
	uc            domain.AlertUseCase
	institutionUC domain.InstitutionUseCase
	employeeUC    domain.EmployeeUseCase
}

func NewAlertHandler(app *fiber.App, uc domain.AlertUseCase, institutionUC domain.InstitutionUseCase, employeeUC domain.EmployeeUseCase) {
	handler := &alertHandler{
		uc:            uc,
		institutionUC: institutionUC,
		employeeUC:    employeeUC,
	}

	route := app.Group("/alert", middleware.AuthRequired(), middleware.RoleRequired(domain.RoleAdmin))
	route.Get("/", handler.GetAllAlerts)
	route.Post("/", handler.CreateAlert)
	route.Get("/:alert_id", handler.GetAlertByID)
	route.Post("/:alert_id/resolve", handler.ResolveAlert)
	route.Post("/:alert_id/dismiss", handler.DismissAlert)
}

// GetAllAlerts accepts ?status=&type=&employee_id=&from=&to= filters.
func (ah *alertHandler) GetAllAlerts(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	var filter domain.AlertFilter
	if raw := c.Query("status"); raw != "" {
		status := domain.AlertStatus(raw)
		if !status.Valid() {
			return badRequest(c, &userToken.Username, "GetAllAlerts", "invalid status")
		}
		filter.Status = &status
	}
	if raw := c.Query("type"); raw != "" {
		alertType := domain.AlertType(raw)
		if !alertType.Valid() {
			return badRequest(c, &userToken.Username, "GetAllAlerts", "invalid type")
		}
		filter.Type = &alertType
	}
	employeeID, err := queryInt(c, "employee_id")
	if err != nil {
		return badRequest(c, &userToken.Username, "GetAllAlerts", err.Error())
	}
	filter.EmployeeID = employeeID

	if c.Query("from") != "" || c.Query("to") != "" {
		inst, err := ah.institutionUC.GetInstitution(c.UserContext(), userToken.InstitutionID)
		if err != nil {
			return fail(c, &userToken.Username, "GetAllAlerts", "Failed to get alerts", err)
		}
		if filter.From, err = queryDate(c, "from", inst.Location()); err != nil {
			return badRequest(c, &userToken.Username, "GetAllAlerts", err.Error())
		}
		to, err := queryDate(c, "to", inst.Location())
		if err != nil {
			return badRequest(c, &userToken.Username, "GetAllAlerts", err.Error())
		}
		if to != nil {
			end := to.AddDate(0, 0, 1)
			filter.To = &end
		}
	}

	alerts, err := ah.uc.GetAllAlerts(c.UserContext(), userToken.InstitutionID, filter)
	if err != nil {
		return fail(c, &userToken.Username, "GetAllAlerts", "Failed to get alerts", err)
	}

	return ok(c, fiber.StatusOK, &userToken.Username, "GetAllAlerts", "Successfully retrieved alerts", alerts)
}

func (ah *alertHandler) GetAlertByID(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	id, err := paramID(c, "alert_id")
	if err != nil {
		return badRequest(c, &userToken.Username, "GetAlertByID", err.Error())
	}

	alert, err := ah.uc.GetAlertByID(c.UserContext(), userToken.InstitutionID, id)
	if err != nil {
		return fail(c, &userToken.Username, "GetAlertByID", "Failed to get alert", err)
	}

	return ok(c, fiber.StatusOK, &userToken.Username, "GetAlertByID", "Successfully retrieved alert", alert)
}

// CreateAlert lets an admin raise an alert by hand, typically substitute_needed.
func (ah *alertHandler) CreateAlert(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	var req domain.CreateAlertRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, &userToken.Username, "CreateAlert", err.Error())
	}
	if errs := validate(&req); errs != nil {
		return badRequest(c, &userToken.Username, "CreateAlert", errs)
	}

	// the employee must belong to the caller's institution
	if _, err := ah.employeeUC.GetEmployeeByID(c.UserContext(), userToken.InstitutionID, req.EmployeeID); err != nil {
		return fail(c, &userToken.Username, "CreateAlert", "Failed to create alert", err)
	}

	alert, err := ah.uc.CreateAlert(c.UserContext(), req.EmployeeID, domain.AlertType(req.Type), req.Title, req.Description,
		map[string]interface{}{"created_by": userToken.UserID})
	if err != nil {
		return fail(c, &userToken.Username, "CreateAlert", "Failed to create alert", err)
	}

	return ok(c, fiber.StatusCreated, &userToken.Username, "CreateAlert", "Alert created", alert)
}

func (ah *alertHandler) ResolveAlert(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	id, err := paramID(c, "alert_id")
	if err != nil {
		return badRequest(c, &userToken.Username, "ResolveAlert", err.Error())
	}

	if err := ah.uc.ResolveAlert(c.UserContext(), userToken.InstitutionID, id, userToken.UserID); err != nil {
		return fail(c, &userToken.Username, "ResolveAlert", "Failed to resolve alert", err)
	}

	return ok(c, fiber.StatusOK, &userToken.Username, "ResolveAlert", "Alert resolved", nil)
}

func (ah *alertHandler) DismissAlert(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	id, err := paramID(c, "alert_id")
	if err != nil {
		return badRequest(c, &userToken.Username, "DismissAlert", err.Error())
	}

	if err := ah.uc.DismissAlert(c.UserContext(), userToken.InstitutionID, id, userToken.UserID); err != nil {
		return fail(c, &userToken.Username, "DismissAlert", "Failed to dismiss alert", err)
	}

	return ok(c, fiber.StatusOK, &userToken.Username, "DismissAlert", "Alert dismissed", nil)
}
