package payroll

import (
	"github.com/rocjay1/payroll-analyzer/internal/models"
	"github.com/shopspring/decimal"
)

// alreadyProcessedRatio is the share of a group that must be fully paid
// before a month counts as processed.
var alreadyProcessedRatio = decimal.RequireFromString("0.60")

// Notice is the banner shown above the batch payment form.
type Notice string

const (
	NoticeNone                  Notice = ""
	NoticeMonthAlreadyProcessed Notice = "month_already_processed"
	NoticeSomePaymentsProcessed Notice = "some_payments_processed"
)

// GroupSummary counts salary payment states within one role group.
type GroupSummary struct {
	Population    int             `json:"population"`
	FullyPaid     int             `json:"fully_paid"`
	PartiallyPaid int             `json:"partially_paid"`
	Unpaid        int             `json:"unpaid"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
}

// FullyPaidRatio is FullyPaid / Population, or zero for an empty group.
func (g GroupSummary) FullyPaidRatio() decimal.Decimal {
	if g.Population == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(g.FullyPaid)).Div(decimal.NewFromInt(int64(g.Population)))
}

func (g *GroupSummary) add(status models.PaymentStatus, paid decimal.Decimal) {
	g.Population++
	g.TotalPaid = g.TotalPaid.Add(paid)
	switch status {
	case models.StatusPaid:
		g.FullyPaid++
	case models.StatusPartial:
		g.PartiallyPaid++
	default:
		g.Unpaid++
	}
}

// BatchSummary is the salary payment state of the whole population for a
// period, split into teachers and everyone else.
type BatchSummary struct {
	Period   models.Period `json:"period"`
	Teachers GroupSummary  `json:"teachers"`
	Staff    GroupSummary  `json:"staff"`
	Notice   Notice        `json:"notice,omitempty"`
}

// Summarize classifies every member of population by the salary
// transactions paid to them in p. Transactions for users outside the
// population are ignored.
func Summarize(all []models.Transaction, p models.Period, population []models.StaffMember) BatchSummary {
	paid := make(map[string]decimal.Decimal)
	for _, t := range all {
		if t.Type != models.TypeSalary || t.UserID == "" || !p.Contains(t.PaymentDate) {
			continue
		}
		paid[t.UserID] = paid[t.UserID].Add(t.Amount)
	}

	s := BatchSummary{
		Period:   p,
		Teachers: GroupSummary{TotalPaid: decimal.Zero},
		Staff:    GroupSummary{TotalPaid: decimal.Zero},
	}
	seen := make(map[string]bool, len(population))
	anyPaid := false
	for _, m := range population {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true

		total, ok := paid[m.ID]
		if !ok {
			total = decimal.Zero
		}
		if total.IsPositive() {
			anyPaid = true
		}

		group := &s.Staff
		if m.IsTeacher() {
			group = &s.Teachers
		}
		group.add(Classify(total, m.DueAmount()), total)
	}

	switch {
	case s.Teachers.FullyPaidRatio().GreaterThan(alreadyProcessedRatio),
		s.Staff.FullyPaidRatio().GreaterThan(alreadyProcessedRatio):
		s.Notice = NoticeMonthAlreadyProcessed
	case anyPaid:
		s.Notice = NoticeSomePaymentsProcessed
	}
	return s
}
