package payroll

import (
	"strings"

	"github.com/rocjay1/payroll-analyzer/internal/models"
	"github.com/shopspring/decimal"
)

// Subject is who or what a payment is made to: a staff member for salary,
// wallet and payment entries, or an expense category.
type Subject interface {
	matches(t models.Transaction) bool
}

// StaffSubject is a staff member paid through transactions of Type.
type StaffSubject struct {
	Member models.StaffMember
	Type   models.TransactionType
}

func (s StaffSubject) matches(t models.Transaction) bool {
	return t.UserID != "" && t.UserID == s.Member.ID && t.Type == s.Type
}

// ExpenseSubject is an expense category.
type ExpenseSubject struct {
	Category string
}

func (s ExpenseSubject) matches(t models.Transaction) bool {
	return t.IsExpense() && strings.EqualFold(strings.TrimSpace(t.Category), strings.TrimSpace(s.Category))
}

// missingStaff stands in for a user id absent from the population. It
// matches nothing, so the subject resolves to unpaid with zero amounts.
type missingStaff struct {
	UserID string
}

func (missingStaff) matches(models.Transaction) bool { return false }

// StatusQuery selects the subject and period to resolve. ExcludeID leaves
// out the transaction currently being edited; zero excludes nothing.
type StatusQuery struct {
	Subject   Subject
	Period    models.Period
	ExcludeID int64
}

// StatusResult is the resolved payment state of a subject in a period.
type StatusResult struct {
	Status      models.PaymentStatus `json:"status"`
	Warning     models.Warning       `json:"warning,omitempty"`
	TotalPaid   decimal.Decimal      `json:"total_paid"`
	FullAmount  decimal.Decimal      `json:"full_amount"`
	Remaining   decimal.Decimal      `json:"remaining"`
	Payments    int                  `json:"payments"`
	LastPayment *models.Transaction  `json:"last_payment,omitempty"`
}

// Classify turns a paid total and the full amount owed into a status. A
// full amount of zero or less never counts as paid.
func Classify(totalPaid, fullAmount decimal.Decimal) models.PaymentStatus {
	switch {
	case fullAmount.IsPositive() && totalPaid.GreaterThanOrEqual(fullAmount):
		return models.StatusPaid
	case totalPaid.IsPositive() && totalPaid.LessThan(fullAmount):
		return models.StatusPartial
	default:
		return models.StatusUnpaid
	}
}

// Resolve sums the payments made to q.Subject during q.Period and
// classifies them.
func Resolve(all []models.Transaction, q StatusQuery) StatusResult {
	res := StatusResult{
		Status:     models.StatusUnpaid,
		TotalPaid:  decimal.Zero,
		FullAmount: decimal.Zero,
		Remaining:  decimal.Zero,
	}
	if q.Subject == nil {
		return res
	}

	for i := range all {
		t := all[i]
		if q.ExcludeID != 0 && t.ID == q.ExcludeID {
			continue
		}
		if !q.Period.Contains(t.PaymentDate) || !q.Subject.matches(t) {
			continue
		}
		res.Payments++
		res.TotalPaid = res.TotalPaid.Add(t.Amount)
		if res.LastPayment == nil || t.PaymentDate.After(res.LastPayment.PaymentDate) {
			res.LastPayment = &t
		}
	}

	switch s := q.Subject.(type) {
	case ExpenseSubject:
		// Any earlier payment in the category this month is enough to warn.
		if res.Payments > 0 {
			res.Status = models.StatusPaid
			res.Warning = models.WarningAlreadyPaid
		}
	case StaffSubject:
		res.FullAmount = s.Member.DueAmount()
		res.Status = Classify(res.TotalPaid, res.FullAmount)
		switch res.Status {
		case models.StatusPaid:
			res.Warning = models.WarningAlreadyPaid
		case models.StatusPartial:
			res.Warning = models.WarningPartiallyPaid
			res.Remaining = res.FullAmount.Sub(res.TotalPaid)
		case models.StatusUnpaid:
			if res.FullAmount.IsPositive() {
				res.Remaining = res.FullAmount
			}
		}
	}
	return res
}
