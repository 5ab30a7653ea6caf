package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rocjay1/payroll-analyzer/internal/csvparse"
	"github.com/rocjay1/payroll-analyzer/internal/models"
	"github.com/rocjay1/payroll-analyzer/internal/payroll"
)

type nightlyResult struct {
	Period       models.Period  `json:"period"`
	DaysLeft     int            `json:"days_left"`
	Due          int            `json:"due"`
	Notice       payroll.Notice `json:"notice,omitempty"`
	ReminderSent bool           `json:"reminder_sent"`
	Archived     string         `json:"archived,omitempty"`
}

// HandleNightlyTrigger archives the current month's batch summary and, when
// the month is ReminderLeadDays from its end, emails the unpaid payments
// still due to the admin address.
func (d *Dependencies) HandleNightlyTrigger(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := d.now()
	p := models.PeriodOf(now)
	res := nightlyResult{Period: p, DaysLeft: p.LastDay() - now.Day()}

	slog.Info("starting nightly trigger processing", "period", p, "days_left", res.DaysLeft)

	l, err := d.loadLedger(ctx)
	if err != nil {
		slog.Error("failed to load ledger", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to load transactions")
		return
	}

	summary := l.Summarize(p)
	res.Notice = summary.Notice

	report, err := csvparse.FormatSummary(summary)
	if err != nil {
		slog.Error("failed to format summary", "period", p, "error", err)
	} else {
		blobName := fmt.Sprintf("summaries/%s.csv", p)
		if err := d.Blob.UploadText(ctx, d.Settings.ReportsContainer, blobName, report); err != nil {
			// The reminder still goes out when archiving fails.
			slog.Error("failed to archive summary", "blob_name", blobName, "error", err)
		} else {
			res.Archived = blobName
		}
	}

	var due []payroll.Row
	for _, row := range payroll.Filter(l, payroll.Recurring(l.Transactions()), &p, true) {
		if row.Due {
			due = append(due, row)
		}
	}
	res.Due = len(due)

	switch {
	case res.DaysLeft != d.Settings.ReminderLeadDays:
		slog.Info("not a reminder day", "days_left", res.DaysLeft, "lead_days", d.Settings.ReminderLeadDays)
	case len(due) == 0:
		slog.Info("no unpaid payments due", "period", p)
	case d.Email == nil || d.Settings.AdminEmail == "":
		slog.Warn("ADMIN_EMAIL is not set; skipping due reminder", "due", len(due))
	default:
		to := []string{d.Settings.AdminEmail}
		if err := d.Email.SendDueReminder(ctx, to, p, due, summary); err != nil {
			slog.Error("failed to send due reminder", "email", d.Settings.AdminEmail, "error", err)
		} else {
			res.ReminderSent = true
			slog.Info("due reminder sent", "email", d.Settings.AdminEmail, "due", len(due))
		}
	}

	slog.Info("nightly trigger processing complete", "period", p, "due", res.Due, "reminder_sent", res.ReminderSent)
	WriteJSON(w, http.StatusOK, res)
}
