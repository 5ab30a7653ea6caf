package handler

import (
	"log/slog"
	"net/http"

	"github.com/rocjay1/payroll-analyzer/internal/models"
	"github.com/rocjay1/payroll-analyzer/internal/payroll"
)

type recurringResponse struct {
	Period     *models.Period            `json:"period"`
	UnpaidOnly bool                      `json:"unpaid_only"`
	Rows       []payroll.Row             `json:"rows"`
	States     map[int64]payroll.RowState `json:"states"`
}

// HandleRecurring lists recurring transactions with their payment status.
// Query: month (optional, YYYY-MM) and unpaid_only (optional bool).
func (d *Dependencies) HandleRecurring(w http.ResponseWriter, r *http.Request) {
	p, err := periodParam(r, "month", false)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	unpaidOnly, err := boolParam(r, "unpaid_only")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	l, err := d.loadLedger(r.Context())
	if err != nil {
		slog.Error("failed to load ledger", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to load transactions: "+err.Error())
		return
	}

	rows := payroll.Filter(l, payroll.Recurring(l.Transactions()), p, unpaidOnly)

	view := payroll.NewViewState()
	if p != nil {
		view = view.Apply(payroll.PeriodSelected{Period: *p})
	}
	if unpaidOnly {
		view = view.Apply(payroll.UnpaidOnlyToggled{})
	}
	view = view.Apply(payroll.Refreshed{Rows: rows})

	slog.Info("listed recurring transactions", "period", p, "unpaid_only", unpaidOnly, "count", len(rows))
	WriteJSON(w, http.StatusOK, recurringResponse{
		Period:     view.Period(),
		UnpaidOnly: view.UnpaidOnly(),
		Rows:       rows,
		States:     view.Rows(),
	})
}
