package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rocjay1/payroll-analyzer/internal/models"
	"github.com/rocjay1/payroll-analyzer/internal/services"
)

// HandleStaff handles GET, POST, and DELETE requests for the staff population.
func (d *Dependencies) HandleStaff(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		staff, err := d.Database.ListStaff(r.Context())
		if err != nil {
			slog.Error("failed to list staff", "error", err)
			WriteError(w, http.StatusInternalServerError, "Failed to list staff: "+err.Error())
			return
		}
		slog.Info("listed staff", "count", len(staff))
		WriteJSON(w, http.StatusOK, staff)

	case http.MethodPost:
		var m models.StaffMember
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			slog.Warn("invalid staff request body", "error", err)
			WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		m.Name = strings.TrimSpace(m.Name)
		m.Role = models.Role(strings.ToLower(strings.TrimSpace(string(m.Role))))
		if err := validate.Struct(m); err != nil {
			WriteValidationError(w, err)
			return
		}
		if m.ID == "" {
			m.ID = uuid.NewString()
		}

		if err := d.Database.SaveStaffMember(r.Context(), m); err != nil {
			slog.Error("failed to save staff member", "id", m.ID, "error", err)
			WriteError(w, http.StatusInternalServerError, "Failed to save staff member: "+err.Error())
			return
		}
		slog.Info("saved staff member", "id", m.ID, "role", m.Role)
		WriteJSON(w, http.StatusOK, m)

	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			WriteError(w, http.StatusBadRequest, "Missing staff ID")
			return
		}

		if err := d.Database.DeleteStaffMember(r.Context(), id); err != nil {
			if errors.Is(err, services.ErrNotFound) {
				WriteError(w, http.StatusNotFound, "Staff member not found")
				return
			}
			slog.Error("failed to delete staff member", "id", id, "error", err)
			WriteError(w, http.StatusInternalServerError, "Failed to delete staff member: "+err.Error())
			return
		}
		slog.Info("deleted staff member", "id", id)
		WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
