package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rocjay1/payroll-analyzer/internal/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleSummary(t *testing.T) {
	deps, _, _, _, _ := newTestDeps()

	w := httptest.NewRecorder()
	deps.HandleSummary(w, httptest.NewRequest(http.MethodGet, "/api/payroll/summary?month=2024-03", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var s payroll.BatchSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))

	assert.Equal(t, march(), s.Period)
	assert.Equal(t, 0, s.Teachers.Population)
	assert.Equal(t, 5, s.Staff.Population)
	assert.Equal(t, 1, s.Staff.FullyPaid)
	assert.Equal(t, 1, s.Staff.PartiallyPaid)
	assert.Equal(t, 3, s.Staff.Unpaid)
	assert.Equal(t, payroll.NoticeSomePaymentsProcessed, s.Notice)
}

func TestHandleSummary_RequiresMonth(t *testing.T) {
	deps, _, _, _, _ := newTestDeps()

	w := httptest.NewRecorder()
	deps.HandleSummary(w, httptest.NewRequest(http.MethodGet, "/api/payroll/summary", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing month")
}
