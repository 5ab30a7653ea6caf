package payroll

import (
	"testing"
	"time"

	"github.com/rocjay1/payroll-analyzer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanProcess_SingleSkipsPaid(t *testing.T) {
	txs, population := fiveRecurring()
	l := NewLedger(txs, population)
	march := models.NewPeriod(2024, time.March)

	plan, err := PlanProcess(l, ProcessSingle, []int64{2}, march)
	require.NoError(t, err)
	assert.Empty(t, plan.IDs)
	assert.True(t, plan.Empty())
	assert.Equal(t, []SkippedID{{ID: 2, Reason: SkipUserAlreadyPaid}}, plan.Skipped)

	plan, err = PlanProcess(l, ProcessSingle, []int64{3}, march)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, plan.IDs)
	assert.Empty(t, plan.Skipped)
}

func TestPlanProcess_SingleNeedsOneID(t *testing.T) {
	l := NewLedger(nil, nil)

	_, err := PlanProcess(l, ProcessSingle, nil, jan2024)
	assert.ErrorIs(t, err, ErrSingleID)

	_, err = PlanProcess(l, ProcessSingle, []int64{1, 2}, jan2024)
	assert.ErrorIs(t, err, ErrSingleID)
}

func TestPlanProcess_Selected(t *testing.T) {
	txs, population := fiveRecurring()
	l := NewLedger(txs, population)
	march := models.NewPeriod(2024, time.March)

	plan, err := PlanProcess(l, ProcessSelected, []int64{5, 4, 1, 99, 5}, march)

	require.NoError(t, err)
	assert.Equal(t, []int64{5, 1}, plan.IDs)
	assert.Equal(t, []SkippedID{
		{ID: 4, Reason: SkipUserAlreadyPaid},
		{ID: 99, Reason: SkipNotFound},
	}, plan.Skipped)

	_, err = PlanProcess(l, ProcessSelected, nil, march)
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestPlanProcess_Due(t *testing.T) {
	txs, population := fiveRecurring()
	txs = append(txs, recurring(6, "u1", models.FrequencyQuarterly, day(2024, time.February, 1)))
	l := NewLedger(txs, population)
	march := models.NewPeriod(2024, time.March)

	plan, err := PlanProcess(l, ProcessDue, nil, march)

	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3, 5}, plan.IDs, "quarterly from February is not due in March")

	_, err = PlanProcess(l, ProcessDue, []int64{1}, march)
	assert.ErrorIs(t, err, ErrIDsNotAllowed)
}

func TestPlanProcess_Period(t *testing.T) {
	l := NewLedger(nil, nil)

	plan, err := PlanProcess(l, ProcessPeriod, nil, jan2024)

	require.NoError(t, err)
	assert.False(t, plan.Empty())
	assert.Empty(t, plan.IDs)
	assert.Equal(t, jan2024, plan.Period)
}

func TestPlanProcess_UnknownMode(t *testing.T) {
	_, err := PlanProcess(NewLedger(nil, nil), ProcessMode("everything"), nil, jan2024)

	assert.ErrorIs(t, err, ErrUnknownMode)
}
