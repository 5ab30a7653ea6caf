package payroll

import (
	"maps"
	"slices"

	"github.com/rocjay1/payroll-analyzer/internal/models"
)

// RowState is where a row is in the process cycle:
// unpaid -> processing -> paid, or back to unpaid with an error.
type RowState string

const (
	RowUnpaid     RowState = "unpaid"
	RowProcessing RowState = "processing"
	RowPaid       RowState = "paid"
)

// ViewState is the filter, selection and per-row progress of the recurring
// transactions table. Values are immutable: Apply returns a new state and
// leaves the receiver untouched.
type ViewState struct {
	period     *models.Period
	unpaidOnly bool
	selected   map[int64]bool
	rows       map[int64]RowState
	rowErrors  map[int64]string
	lastError  string
}

// NewViewState returns an empty state with no period selected.
func NewViewState() ViewState {
	return ViewState{
		selected:  map[int64]bool{},
		rows:      map[int64]RowState{},
		rowErrors: map[int64]string{},
	}
}

// Event is a user action or server response that moves the view along.
type Event interface {
	apply(s *ViewState)
}

// Apply returns the state after e.
func (s ViewState) Apply(e Event) ViewState {
	next := s.clone()
	e.apply(&next)
	return next
}

func (s ViewState) clone() ViewState {
	next := s
	if s.period != nil {
		p := *s.period
		next.period = &p
	}
	next.selected = maps.Clone(s.selected)
	next.rows = maps.Clone(s.rows)
	next.rowErrors = maps.Clone(s.rowErrors)
	if next.selected == nil {
		next.selected = map[int64]bool{}
	}
	if next.rows == nil {
		next.rows = map[int64]RowState{}
	}
	if next.rowErrors == nil {
		next.rowErrors = map[int64]string{}
	}
	return next
}

// Period is the selected period, or nil for "all months".
func (s ViewState) Period() *models.Period {
	if s.period == nil {
		return nil
	}
	p := *s.period
	return &p
}

// UnpaidOnly reports whether paid rows are hidden.
func (s ViewState) UnpaidOnly() bool { return s.unpaidOnly }

// Error is the dismissible message from the last failed process call.
func (s ViewState) Error() string { return s.lastError }

// Selected returns the selected ids in ascending order.
func (s ViewState) Selected() []int64 {
	return slices.Sorted(maps.Keys(s.selected))
}

// IsSelected reports whether id is ticked.
func (s ViewState) IsSelected(id int64) bool { return s.selected[id] }

// Row returns the state of a row. Rows the view has not seen are unpaid.
func (s ViewState) Row(id int64) RowState {
	if st, ok := s.rows[id]; ok {
		return st
	}
	return RowUnpaid
}

// RowError returns the error left on a row by a failed process call.
func (s ViewState) RowError(id int64) string { return s.rowErrors[id] }

// Rows returns a copy of every tracked row state.
func (s ViewState) Rows() map[int64]RowState { return maps.Clone(s.rows) }

// CanProcess reports whether the row's process button is enabled.
func (s ViewState) CanProcess(id int64) bool { return s.Row(id) == RowUnpaid }

// PeriodSelected picks a month and clears the selection.
type PeriodSelected struct{ Period models.Period }

func (e PeriodSelected) apply(s *ViewState) {
	p := e.Period
	s.period = &p
	clear(s.selected)
}

// PeriodCleared shows all months.
type PeriodCleared struct{}

func (PeriodCleared) apply(s *ViewState) {
	s.period = nil
	clear(s.selected)
}

// UnpaidOnlyToggled flips the unpaid-only filter.
type UnpaidOnlyToggled struct{}

func (UnpaidOnlyToggled) apply(s *ViewState) { s.unpaidOnly = !s.unpaidOnly }

// RowToggled ticks or unticks one row. Rows that cannot be processed stay
// unticked.
type RowToggled struct{ ID int64 }

func (e RowToggled) apply(s *ViewState) {
	if s.selected[e.ID] {
		delete(s.selected, e.ID)
		return
	}
	if s.Row(e.ID) == RowUnpaid {
		s.selected[e.ID] = true
	}
}

// AllToggled ticks every processable row among IDs, or unticks them all
// when they are already ticked.
type AllToggled struct{ IDs []int64 }

func (e AllToggled) apply(s *ViewState) {
	all := true
	for _, id := range e.IDs {
		if s.Row(id) == RowUnpaid && !s.selected[id] {
			all = false
			break
		}
	}
	if all {
		clear(s.selected)
		return
	}
	for _, id := range e.IDs {
		if s.Row(id) == RowUnpaid {
			s.selected[id] = true
		}
	}
}

// Refreshed replaces the view's rows with a freshly resolved list. Rows
// still in flight keep their processing state, and selections for rows
// that disappeared or became paid are dropped.
type Refreshed struct{ Rows []Row }

func (e Refreshed) apply(s *ViewState) {
	rows := make(map[int64]RowState, len(e.Rows))
	for _, r := range e.Rows {
		id := r.Transaction.ID
		switch {
		case s.rows[id] == RowProcessing:
			rows[id] = RowProcessing
		case r.Status.Status.IsPaid():
			rows[id] = RowPaid
		default:
			rows[id] = RowUnpaid
		}
	}
	s.rows = rows
	for id := range s.selected {
		if rows[id] != RowUnpaid {
			delete(s.selected, id)
		}
	}
	for id := range s.rowErrors {
		if _, ok := rows[id]; !ok {
			delete(s.rowErrors, id)
		}
	}
}

// ProcessStarted marks rows as submitted to the executor.
type ProcessStarted struct{ IDs []int64 }

func (e ProcessStarted) apply(s *ViewState) {
	for _, id := range e.IDs {
		if s.Row(id) == RowUnpaid {
			s.rows[id] = RowProcessing
			delete(s.rowErrors, id)
		}
	}
}

// ProcessSucceeded marks rows as paid and unticks them.
type ProcessSucceeded struct{ IDs []int64 }

func (e ProcessSucceeded) apply(s *ViewState) {
	for _, id := range e.IDs {
		s.rows[id] = RowPaid
		delete(s.selected, id)
		delete(s.rowErrors, id)
	}
}

// ProcessFailed returns rows to unpaid and records the error so the user
// can retry.
type ProcessFailed struct {
	IDs []int64
	Err string
}

func (e ProcessFailed) apply(s *ViewState) {
	for _, id := range e.IDs {
		if s.Row(id) == RowProcessing {
			s.rows[id] = RowUnpaid
		}
		s.rowErrors[id] = e.Err
	}
	s.lastError = e.Err
}

// ErrorDismissed clears the banner message. Row errors stay until the row
// is processed again.
type ErrorDismissed struct{}

func (ErrorDismissed) apply(s *ViewState) { s.lastError = "" }
