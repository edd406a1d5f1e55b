package domain

import "context"

type MonthlyReportRow struct {
	EmployeeID       int    `json:"employee_id"`
	Name             string `json:"name"`
	Username         string `json:"username"`
	DaysPresent      int    `json:"days_present"`
	WorkedMinutes    int    `json:"worked_minutes"`
	LateArrivals     int    `json:"late_arrivals"`
	MissingCheckouts int    `json:"missing_checkouts"`
}

type MonthlyReport struct {
	InstitutionID int                `json:"institution_id"`
	Month         string             `json:"month"`
	Rows          []MonthlyReportRow `json:"rows"`
}

const (
	ReportFormatXLSX = "xlsx"
	ReportFormatCSV  = "csv"
)

type ReportUseCase interface {
	GetMonthlyReport(ctx context.Context, institutionID int, month string) (*MonthlyReport, error)
	ExportMonthlyReport(ctx context.Context, institutionID int, month, format string) ([]byte, error)
}
