package payroll

import (
	"time"

	"github.com/rocjay1/payroll-analyzer/internal/models"
	"github.com/shopspring/decimal"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func amount(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func salary(id int64, userID string, value string, paid time.Time) models.Transaction {
	return models.Transaction{
		ID:          id,
		UserID:      userID,
		Type:        models.TypeSalary,
		Amount:      amount(value),
		PaymentDate: paid,
	}
}

func recurring(id int64, userID string, freq models.Frequency, start time.Time) models.Transaction {
	return models.Transaction{
		ID:          id,
		UserID:      userID,
		Type:        models.TypeSalary,
		Amount:      amount("100"),
		PaymentDate: start,
		IsRecurring: true,
		Frequency:   freq,
	}
}

func teacher(id, wallet string) models.StaffMember {
	return models.StaffMember{ID: id, Name: id, Role: models.RoleTeacher, Wallet: amount(wallet), Salary: decimal.Zero}
}

func assistant(id, pay string) models.StaffMember {
	return models.StaffMember{ID: id, Name: id, Role: models.RoleAssistant, Wallet: decimal.Zero, Salary: amount(pay)}
}
