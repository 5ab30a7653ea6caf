package handler

import (
	"log/slog"
	"net/http"
)

// HandleSummary returns the batch salary summary for a month.
func (d *Dependencies) HandleSummary(w http.ResponseWriter, r *http.Request) {
	p, err := periodParam(r, "month", true)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	l, err := d.loadPeriodLedger(r.Context(), *p)
	if err != nil {
		slog.Error("failed to load ledger", "period", p, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to load transactions: "+err.Error())
		return
	}

	s := l.Summarize(*p)
	slog.Info("computed batch summary", "period", p, "notice", s.Notice,
		"teachers_paid", s.Teachers.FullyPaid, "staff_paid", s.Staff.FullyPaid)
	WriteJSON(w, http.StatusOK, s)
}
