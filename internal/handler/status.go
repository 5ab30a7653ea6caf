package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/rocjay1/payroll-analyzer/internal/models"
	"github.com/rocjay1/payroll-analyzer/internal/payroll"
)

type statusResponse struct {
	Period models.Period `json:"period"`
	payroll.StatusResult
}

// HandlePaymentStatus resolves whether a staff member or an expense category
// has already been paid in a month, for the payment form.
//
// Query: month (required), then either user_id and type, or category.
// exclude_id leaves out the transaction being edited.
func (d *Dependencies) HandlePaymentStatus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	p, err := periodParam(r, "month", true)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	excludeID, err := int64Param(r, "exclude_id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := strings.TrimSpace(q.Get("user_id"))
	category := strings.TrimSpace(q.Get("category"))
	if (userID == "") == (category == "") {
		WriteError(w, http.StatusBadRequest, "exactly one of user_id or category is required")
		return
	}

	var typ models.TransactionType
	if userID != "" {
		var ok bool
		typ, ok = models.ParseTransactionType(q.Get("type"))
		if !ok || typ == models.TypeExpense {
			WriteError(w, http.StatusBadRequest, "type must be one of salary, wallet, payment")
			return
		}
	}

	l, err := d.loadPeriodLedger(r.Context(), *p)
	if err != nil {
		slog.Error("failed to load ledger", "period", p, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to load transactions: "+err.Error())
		return
	}

	var subject payroll.Subject = payroll.ExpenseSubject{Category: category}
	if userID != "" {
		if _, ok := l.Member(userID); !ok {
			slog.Warn("payment status requested for unknown user", "user_id", userID)
		}
		subject = l.StaffSubject(userID, typ)
	}

	res := l.Resolve(payroll.StatusQuery{Subject: subject, Period: *p, ExcludeID: excludeID})
	WriteJSON(w, http.StatusOK, statusResponse{Period: *p, StatusResult: res})
}
