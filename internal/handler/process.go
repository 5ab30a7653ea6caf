package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rocjay1/payroll-analyzer/internal/models"
	"github.com/rocjay1/payroll-analyzer/internal/payroll"
)

type processRequest struct {
	Mode   string  `json:"mode" validate:"required,oneof=single selected due period"`
	IDs    []int64 `json:"ids" validate:"omitempty,dive,gt=0"`
	Period string  `json:"period" validate:"required,period"`
}

// PaymentRequest is the message put on the payment queue for the executor.
type PaymentRequest struct {
	RequestID   string              `json:"request_id"`
	Mode        payroll.ProcessMode `json:"mode"`
	Period      models.Period       `json:"period"`
	IDs         []int64             `json:"ids,omitempty"`
	RequestedAt time.Time           `json:"requested_at"`
}

type processResponse struct {
	Queued    bool                       `json:"queued"`
	RequestID string                     `json:"request_id,omitempty"`
	Plan      payroll.ProcessPlan        `json:"plan"`
	States    map[int64]payroll.RowState `json:"states"`
	Error     string                     `json:"error,omitempty"`
}

// HandleProcess plans a process action and hands it to the payment executor
// through the payment queue. Payments themselves are never executed here.
func (d *Dependencies) HandleProcess(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("invalid process request body", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		WriteValidationError(w, err)
		return
	}
	p, err := models.ParsePeriod(req.Period)
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

	plan, err := payroll.PlanProcess(l, payroll.ProcessMode(req.Mode), req.IDs, p)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	view := payroll.NewViewState().
		Apply(payroll.PeriodSelected{Period: p}).
		Apply(payroll.Refreshed{Rows: payroll.Filter(l, payroll.Recurring(l.Transactions()), &p, false)})

	if plan.Empty() {
		slog.Info("nothing to process", "mode", plan.Mode, "period", p, "skipped", len(plan.Skipped))
		WriteJSON(w, http.StatusOK, processResponse{Plan: plan, States: view.Rows()})
		return
	}

	msg := PaymentRequest{
		RequestID:   uuid.NewString(),
		Mode:        plan.Mode,
		Period:      plan.Period,
		IDs:         plan.IDs,
		RequestedAt: d.now(),
	}
	view = view.Apply(payroll.ProcessStarted{IDs: plan.IDs})

	if err := d.Queue.EnqueueMessage(r.Context(), d.Settings.PaymentQueue, msg); err != nil {
		slog.Error("failed to enqueue payment request", "request_id", msg.RequestID, "queue", d.Settings.PaymentQueue, "error", err)
		view = view.Apply(payroll.ProcessFailed{IDs: plan.IDs, Err: "Failed to submit payment request"})
		WriteJSON(w, http.StatusBadGateway, processResponse{
			Plan:   plan,
			States: view.Rows(),
			Error:  view.Error(),
		})
		return
	}

	slog.Info("payment request queued",
		"request_id", msg.RequestID,
		"mode", plan.Mode,
		"period", p,
		"ids", len(plan.IDs),
		"skipped", len(plan.Skipped),
	)
	WriteJSON(w, http.StatusAccepted, processResponse{
		Queued:    true,
		RequestID: msg.RequestID,
		Plan:      plan,
		States:    view.Rows(),
	})
}
