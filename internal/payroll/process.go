package payroll

import (
	"errors"
	"fmt"

	"github.com/rocjay1/payroll-analyzer/internal/models"
)

// ProcessMode selects which transactions a process request covers.
type ProcessMode string

const (
	// ProcessSingle processes exactly one transaction.
	ProcessSingle ProcessMode = "single"
	// ProcessSelected processes the ids the user ticked.
	ProcessSelected ProcessMode = "selected"
	// ProcessDue processes every recurring transaction due and unpaid in the period.
	ProcessDue ProcessMode = "due"
	// ProcessPeriod hands the whole period to the executor without ids.
	ProcessPeriod ProcessMode = "period"
)

var (
	ErrUnknownMode   = errors.New("unknown process mode")
	ErrSingleID      = errors.New("single mode takes exactly one id")
	ErrNoSelection   = errors.New("no transactions selected")
	ErrIDsNotAllowed = errors.New("ids are not accepted in this mode")
)

// Skip reasons reported for ids left out of a plan.
const (
	SkipNotFound        = "not_found"
	SkipUserAlreadyPaid = string(models.StatusUserAlreadyPaid)
)

// SkippedID is a requested id left out of the plan.
type SkippedID struct {
	ID     int64  `json:"id"`
	Reason string `json:"reason"`
}

// ProcessPlan is what gets handed to the payment executor. The executor
// is the authority on double payment; the plan only avoids resubmitting
// rows that already look paid.
type ProcessPlan struct {
	Mode    ProcessMode   `json:"mode"`
	Period  models.Period `json:"period"`
	IDs     []int64       `json:"ids"`
	Skipped []SkippedID   `json:"skipped,omitempty"`
}

// Empty reports whether the plan has nothing for the executor to do.
// Period plans always carry work.
func (p ProcessPlan) Empty() bool {
	return p.Mode != ProcessPeriod && len(p.IDs) == 0
}

// PlanProcess decides which transaction ids a process action submits.
func PlanProcess(l *Ledger, mode ProcessMode, ids []int64, p models.Period) (ProcessPlan, error) {
	plan := ProcessPlan{Mode: mode, Period: p, IDs: []int64{}}

	switch mode {
	case ProcessSingle:
		if len(ids) != 1 {
			return ProcessPlan{}, ErrSingleID
		}
		planIDs(l, &plan, ids)
	case ProcessSelected:
		if len(ids) == 0 {
			return ProcessPlan{}, ErrNoSelection
		}
		planIDs(l, &plan, ids)
	case ProcessDue:
		if len(ids) > 0 {
			return ProcessPlan{}, fmt.Errorf("%w: %s", ErrIDsNotAllowed, mode)
		}
		for _, t := range l.Transactions() {
			if !ShouldShowForPeriod(t, p) {
				continue
			}
			if l.StatusOf(t, p).Status.IsPaid() {
				continue
			}
			plan.IDs = append(plan.IDs, t.ID)
		}
	case ProcessPeriod:
		if len(ids) > 0 {
			return ProcessPlan{}, fmt.Errorf("%w: %s", ErrIDsNotAllowed, mode)
		}
	default:
		return ProcessPlan{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	return plan, nil
}

func planIDs(l *Ledger, plan *ProcessPlan, ids []int64) {
	byID := make(map[int64]models.Transaction, len(l.Transactions()))
	for _, t := range l.Transactions() {
		byID[t.ID] = t
	}

	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		t, ok := byID[id]
		if !ok {
			plan.Skipped = append(plan.Skipped, SkippedID{ID: id, Reason: SkipNotFound})
			continue
		}
		if l.StatusOf(t, plan.Period).Status.IsPaid() {
			plan.Skipped = append(plan.Skipped, SkippedID{ID: id, Reason: SkipUserAlreadyPaid})
			continue
		}
		plan.IDs = append(plan.IDs, id)
	}
}
