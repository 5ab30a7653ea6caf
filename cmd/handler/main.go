package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rocjay1/payroll-analyzer/internal/config"
	"github.com/rocjay1/payroll-analyzer/internal/handler"
	"github.com/rocjay1/payroll-analyzer/internal/services"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

func main() {
	conf, err := config.New()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	settings, err := handler.SettingsFromConfig(conf)
	if err != nil {
		slog.Error("Failed to load settings", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Initialize Services
	dbService, err := services.NewDatabaseService(ctx, conf)
	if err != nil {
		slog.Error("Failed to init DatabaseService", "error", err)
		os.Exit(1)
	}

	blobService, err := services.NewBlobService(conf)
	if err != nil {
		slog.Error("Failed to init BlobService", "error", err)
		os.Exit(1)
	}

	queueService, err := services.NewQueueService(conf)
	if err != nil {
		slog.Error("Failed to init QueueService", "error", err)
		os.Exit(1)
	}

	deps := &handler.Dependencies{
		Database: dbService,
		Blob:     blobService,
		Queue:    queueService,
		Settings: settings,
	}

	emailService, err := services.NewEmailService(conf, nil)
	if err != nil {
		slog.Warn("Failed to init EmailService (continuing anyway)", "error", err)
	} else {
		deps.Email = emailService
	}

	// Router
	mux := http.NewServeMux()

	// API Routes
	mux.HandleFunc("GET /api/transactions/recurring", deps.HandleRecurring)
	mux.HandleFunc("POST /api/transactions/process", deps.HandleProcess)
	mux.HandleFunc("GET /api/payments/status", deps.HandlePaymentStatus)
	mux.HandleFunc("GET /api/payroll/summary", deps.HandleSummary)

	mux.HandleFunc("GET /api/staff", deps.HandleStaff)
	mux.HandleFunc("POST /api/staff", deps.HandleStaff)
	mux.HandleFunc("DELETE /api/staff", deps.HandleStaff)

	mux.HandleFunc("POST /api/upload", deps.HandleUpload)

	// Adapter for HTTP Trigger (since enableForwardingHttpRequest is false)
	mux.HandleFunc("/HttpTrigger", deps.HandleHttpTrigger(mux))

	mux.HandleFunc("/ProcessQueue", deps.ProcessQueue)
	mux.HandleFunc("/NightlyTrigger", deps.HandleNightlyTrigger)

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Catch-all handler for unmatched requests to debug what the Host is sending
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		headers := make(map[string]string)
		for k, v := range r.Header {
			headers[k] = strings.Join(v, ", ")
		}
		slog.Warn("UNMATCHED REQUEST",
			"method", r.Method,
			"path", r.URL.Path,
			"headers", headers,
			"content_length", r.ContentLength,
		)
		http.NotFound(w, r)
	})

	port := conf.GetString(config.Port)

	slog.Info("Starting server", "port", port, "timezone", settings.Location.String())
	if err := http.ListenAndServe(":"+port, loggingMiddleware(mux)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

const maxBodyPreview = 512

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Read body for logging (and restore it)
		var bodyBytes []byte
		if r.Body != nil {
			bodyBytes, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}
		preview := bodyBytes
		if len(preview) > maxBodyPreview {
			preview = preview[:maxBodyPreview]
		}

		slog.Info("incoming request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_type", r.Header.Get("Content-Type"),
			"content_length", r.ContentLength,
			"body_preview", string(preview),
		)

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		slog.Info("request completed", "method", r.Method, "path", r.URL.Path, "status", rw.status, "duration", time.Since(start))
	})
}
