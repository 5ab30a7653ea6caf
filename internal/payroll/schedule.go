package payroll

import (
	"github.com/rocjay1/payroll-analyzer/internal/models"
)

// ShouldShowForPeriod reports whether a recurring transaction falls due in
// p. Non-recurring transactions are never due, and neither is anything
// whose schedule starts after p.
func ShouldShowForPeriod(t models.Transaction, p models.Period) bool {
	if !t.IsRecurring {
		return false
	}
	start, ok := t.StartPeriod()
	if !ok {
		return false
	}
	diff := p.MonthsSince(start)
	if diff < 0 {
		return false
	}
	return diff%t.Frequency.IntervalMonths() == 0
}

// Recurring returns the recurring transactions of all, keeping their order.
func Recurring(all []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, 0, len(all))
	for _, t := range all {
		if t.IsRecurring {
			out = append(out, t)
		}
	}
	return out
}
