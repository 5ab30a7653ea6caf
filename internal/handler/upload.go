package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
)

const maxUploadBytes = 10 << 20

// importMessage is the import queue payload.
type importMessage struct {
	BlobName string `json:"blob_name"`
	Filename string `json:"filename"`
}

// HandleUpload stores an uploaded transactions CSV and queues it for import.
func (d *Dependencies) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		slog.Warn("upload attempt with invalid method", "method", r.Method, "path", r.URL.Path)
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		slog.Warn("failed to parse multipart form", "error", err, "max_size_mb", maxUploadBytes>>20)
		WriteError(w, http.StatusBadRequest, "File too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		slog.Warn("failed to get file from form", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to get file")
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		WriteError(w, http.StatusBadRequest, "Only .csv files are accepted")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("failed to read uploaded file", "filename", filename, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}
	slog.Info("received file upload", "filename", filename, "size_bytes", len(data))

	container := d.Settings.UploadsContainer
	blobName := fmt.Sprintf("imports/%s-%s", d.now().Format("20060102-150405"), filename)
	if err := d.Blob.UploadText(r.Context(), container, blobName, string(data)); err != nil {
		slog.Error("failed to upload blob", "blob_name", blobName, "container", container, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to upload blob: "+err.Error())
		return
	}

	msg := importMessage{BlobName: blobName, Filename: filename}
	if err := d.Queue.EnqueueMessage(r.Context(), d.Settings.ImportQueue, msg); err != nil {
		slog.Error("failed to enqueue import", "queue", d.Settings.ImportQueue, "blob_name", blobName, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to enqueue message: "+err.Error())
		return
	}
	slog.Info("queued import", "queue", d.Settings.ImportQueue, "blob_name", blobName)

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "success",
		"blob_name": blobName,
	})
}
