package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/rocjay1/payroll-analyzer/internal/csvparse"
)

// invokeRequest is the payload the Functions host posts to a custom handler.
type invokeRequest struct {
	Data     map[string]json.RawMessage `json:"Data"`
	Metadata map[string]any             `json:"Metadata"`
}

// decodeQueueItem reads the import message from a queue trigger payload. The
// host passes JSON messages either as a string or already decoded.
func decodeQueueItem(body []byte) (importMessage, error) {
	var msg importMessage

	var invokeReq invokeRequest
	if err := json.Unmarshal(body, &invokeReq); err != nil {
		return msg, fmt.Errorf("failed to unmarshal request: %w", err)
	}

	raw, ok := invokeReq.Data["queueItem"]
	if !ok {
		raw, ok = invokeReq.Data["queueitem"]
	}
	if !ok {
		return msg, fmt.Errorf("missing queueItem in Data")
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		raw = json.RawMessage(s)
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		return msg, fmt.Errorf("invalid queueItem JSON: %w", err)
	}
	if msg.BlobName == "" {
		return msg, fmt.Errorf("missing blob_name")
	}
	return msg, nil
}

// ProcessQueue handles the import queue trigger: it downloads an uploaded CSV,
// parses it, and stores the transactions not seen before.
func (d *Dependencies) ProcessQueue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("failed to read queue request body", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	msg, err := decodeQueueItem(body)
	if err != nil {
		slog.Warn("rejected queue item", "error", err)
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	container := d.Settings.UploadsContainer
	slog.Info("processing import", "blob_name", msg.BlobName, "container", container)

	content, err := d.Blob.DownloadText(ctx, container, msg.BlobName)
	if err != nil {
		slog.Error("failed to download CSV from blob", "blob_name", msg.BlobName, "error", err)
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to download CSV: %v", err))
		return
	}

	transactions, errs := csvparse.ParseCSV(content)
	slog.Info("parsed CSV content", "blob_name", msg.BlobName, "transactions_count", len(transactions), "errors_count", len(errs))

	if len(errs) > 0 {
		d.reportImportErrors(r, msg.BlobName, errs)
	}
	if len(transactions) == 0 {
		// Consume the message so it doesn't retry forever.
		w.WriteHeader(http.StatusOK)
		return
	}

	saved, err := d.Database.SaveTransactions(ctx, transactions)
	if err != nil {
		slog.Error("failed to save transactions", "total_count", len(transactions), "error", err)
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to save transactions: %v", err))
		return
	}

	slog.Info("import complete", "blob_name", msg.BlobName, "new_count", len(saved), "duplicate_count", len(transactions)-len(saved))
	w.WriteHeader(http.StatusOK)
}

func (d *Dependencies) reportImportErrors(r *http.Request, blobName string, errs []string) {
	admin := d.Settings.AdminEmail
	if d.Email == nil || admin == "" {
		slog.Warn("import errors not emailed; no admin email configured", "blob_name", blobName, "errors_count", len(errs))
		return
	}
	if err := d.Email.SendImportErrors(r.Context(), []string{admin}, blobName, errs); err != nil {
		slog.Error("failed to send import error email", "blob_name", blobName, "error", err)
	}
}
