package payroll

import (
	"github.com/rocjay1/payroll-analyzer/internal/models"
)

// Row is one line of the recurring transactions table.
type Row struct {
	Transaction models.Transaction `json:"transaction"`
	// Period is the month Status was resolved against.
	Period models.Period `json:"period"`
	Due    bool          `json:"due"`
	Status StatusResult  `json:"status"`
}

// Filter picks the rows of transactions to show for period p, resolving
// each against the ledger. Input order is kept.
//
// With a nil period every transaction is listed and its status is taken
// from the month of its own payment date. Otherwise a transaction is listed
// when it falls due in p, or when it is recurring and still not paid in p.
// unpaidOnly then drops anything already paid.
func Filter(l *Ledger, transactions []models.Transaction, p *models.Period, unpaidOnly bool) []Row {
	rows := make([]Row, 0, len(transactions))
	for _, t := range transactions {
		var target models.Period
		if p != nil {
			target = *p
		} else if last, ok := t.StartPeriod(); ok {
			target = last
		}

		status := l.StatusOf(t, target)
		due := p != nil && ShouldShowForPeriod(t, *p)

		if p != nil && !due && !(t.IsRecurring && !status.Status.IsPaid()) {
			continue
		}
		if unpaidOnly && status.Status.IsPaid() {
			continue
		}
		rows = append(rows, Row{
			Transaction: t,
			Period:      target,
			Due:         due,
			Status:      status,
		})
	}
	return rows
}

