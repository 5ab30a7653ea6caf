package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rocjay1/payroll-analyzer/internal/config"
	"github.com/rocjay1/payroll-analyzer/internal/models"
	"github.com/rocjay1/payroll-analyzer/internal/payroll"
	"github.com/spf13/viper"
)

// Settings are the names and knobs handlers need from configuration.
type Settings struct {
	UploadsContainer string
	ReportsContainer string
	PaymentQueue     string
	ImportQueue      string
	AdminEmail       string
	ReminderLeadDays int
	Location         *time.Location
}

// DefaultSettings matches the configuration defaults.
func DefaultSettings() Settings {
	return Settings{
		UploadsContainer: "uploads",
		ReportsContainer: "reports",
		PaymentQueue:     "payment-requests",
		ImportQueue:      "csv-import",
		ReminderLeadDays: 3,
		Location:         time.UTC,
	}
}

// SettingsFromConfig reads Settings from conf.
func SettingsFromConfig(conf *viper.Viper) (Settings, error) {
	loc, err := time.LoadLocation(conf.GetString(config.TimeZone))
	if err != nil {
		return Settings{}, fmt.Errorf("failed to load time zone %q: %w", conf.GetString(config.TimeZone), err)
	}
	return Settings{
		UploadsContainer: conf.GetString(config.UploadsContainer),
		ReportsContainer: conf.GetString(config.ReportsContainer),
		PaymentQueue:     conf.GetString(config.PaymentQueue),
		ImportQueue:      conf.GetString(config.ImportQueue),
		AdminEmail:       conf.GetString(config.AdminEmail),
		ReminderLeadDays: conf.GetInt(config.ReminderLeadDays),
		Location:         loc,
	}, nil
}

// Dependencies holds the services required by the handlers.
type Dependencies struct {
	Database DatabaseClient
	Blob     BlobClient
	Queue    QueueClient
	Email    EmailClient
	Settings Settings
	// Now overrides the clock in tests.
	Now func() time.Time
}

func (d *Dependencies) now() time.Time {
	now := time.Now()
	if d.Now != nil {
		now = d.Now()
	}
	if d.Settings.Location != nil {
		now = now.In(d.Settings.Location)
	}
	return now
}

// loadLedger reads every transaction and the staff population.
func (d *Dependencies) loadLedger(ctx context.Context) (*payroll.Ledger, error) {
	txs, err := d.Database.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	staff, err := d.Database.ListStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return payroll.NewLedger(txs, staff), nil
}

// loadPeriodLedger reads the transactions of one month and the staff population.
func (d *Dependencies) loadPeriodLedger(ctx context.Context, p models.Period) (*payroll.Ledger, error) {
	txs, err := d.Database.ListTransactionsInPeriod(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for %s: %w", p, err)
	}
	staff, err := d.Database.ListStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return payroll.NewLedger(txs, staff), nil
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// WriteError writes an error response.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteValidationError writes a 400 listing the offending fields by JSON name.
func WriteValidationError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Translate(translator)
	}
	WriteJSON(w, http.StatusBadRequest, map[string]any{
		"error":  "validation failed",
		"fields": fields,
	})
}

// periodParam reads a YYYY-MM query parameter. A missing optional value returns nil.
func periodParam(r *http.Request, name string, required bool) (*models.Period, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		if required {
			return nil, fmt.Errorf("missing %s", name)
		}
		return nil, nil
	}
	p, err := models.ParsePeriod(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: expected YYYY-MM", name)
	}
	return &p, nil
}

func boolParam(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: expected true or false", name)
	}
	return v, nil
}

func int64Param(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return v, nil
}
