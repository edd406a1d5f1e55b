package delivery

import (
	"fichai/domain"
	"fichai/middleware"

	"github.com/gofiber/fiber/v2"
)

type employeeHandler struct {
	uc domain.EmployeeUseCase
}

func NewEmployeeHandler(app *fiber.App, uc domain.EmployeeUseCase) {
	handler := &employeeHandler{
		uc: uc,
	}

	route := app.Group("/employee", middleware.AuthRequired(), middleware.RoleRequired(domain.RoleAdmin))
	route.Post("/", handler.CreateEmployee)
	route.Get("/", handler.GetAllEmployees)
	route.Get("/:employee_id", handler.GetEmployeeByID)
	route.Put("/:employee_id", handler.UpdateEmployee)
	route.Delete("/:employee_id", handler.DeactivateEmployee)
}

func (eh *employeeHandler) CreateEmployee(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	var req domain.CreateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, &userToken.Username, "CreateEmployee", err.Error())
	}
	if errs := validate(&req); errs != nil {
		return badRequest(c, &userToken.Username, "CreateEmployee", errs)
	}

	emp, err := eh.uc.CreateEmployee(c.UserContext(), userToken.InstitutionID, &req)
	if err != nil {
		return fail(c, &userToken.Username, "CreateEmployee", "Failed to create employee", err)
	}

	return ok(c, fiber.StatusCreated, &userToken.Username, "CreateEmployee", "Employee created", emp)
}

func (eh *employeeHandler) GetAllEmployees(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	employees, err := eh.uc.GetAllEmployees(c.UserContext(), userToken.InstitutionID)
	if err != nil {
		return fail(c, &userToken.Username, "GetAllEmployees", "Failed to get employees", err)
	}

	return ok(c, fiber.StatusOK, &userToken.Username, "GetAllEmployees", "Successfully retrieved employees", employees)
}

func (eh *employeeHandler) GetEmployeeByID(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	id, err := paramID(c, "employee_id")
	if err != nil {
		return badRequest(c, &userToken.Username, "GetEmployeeByID", err.Error())
	}

	emp, err := eh.uc.GetEmployeeByID(c.UserContext(), userToken.InstitutionID, id)
	if err != nil {
		return fail(c, &userToken.Username, "GetEmployeeByID", "Failed to get employee", err)
	}

	return ok(c, fiber.StatusOK, &userToken.Username, "GetEmployeeByID", "Successfully retrieved employee", emp)
}

func (eh *employeeHandler) UpdateEmployee(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	id, err := paramID(c, "employee_id")
	if err != nil {
		return badRequest(c, &userToken.Username, "UpdateEmployee", err.Error())
	}

	var req domain.UpdateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, &userToken.Username, "UpdateEmployee", err.Error())
	}
	if errs := validate(&req); errs != nil {
		return badRequest(c, &userToken.Username, "UpdateEmployee", errs)
	}

	emp, err := eh.uc.UpdateEmployee(c.UserContext(), userToken.InstitutionID, id, &req)
	if err != nil {
		return fail(c, &userToken.Username, "UpdateEmployee", "Failed to update employee", err)
	}

	return ok(c, fiber.StatusOK, &userToken.Username, "UpdateEmployee", "Employee updated", emp)
}

func (eh *employeeHandler) DeactivateEmployee(c *fiber.Ctx) error {
	userToken := claimsOf(c)

	id, err := paramID(c, "employee_id")
	if err != nil {
		return badRequest(c, &userToken.Username, "DeactivateEmployee", err.Error())
	}
	if id == userToken.UserID {
		return badRequest(c, &userToken.Username, "DeactivateEmployee", "cannot deactivate your own account")
	}

	if err := eh.uc.DeactivateEmployee(c.UserContext(), userToken.InstitutionID, id); err != nil {
		return fail(c, &userToken.Username, "DeactivateEmployee", "Failed to deactivate employee", err)
	}

	return ok(c, fiber.StatusOK, &userToken.Username, "DeactivateEmployee", "Employee deactivated", nil)
}
