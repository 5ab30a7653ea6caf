package payroll

import (
	"github.com/rocjay1/payroll-analyzer/internal/models"
)

// Ledger is a read-only snapshot of the transaction history and staff
// population, taken once per request. It is safe to share between
// goroutines as long as nobody mutates the slices it was built from.
type Ledger struct {
	transactions []models.Transaction
	population   []models.StaffMember
	staff        map[string]models.StaffMember
}

// NewLedger indexes the population by id. Later duplicates of an id win.
func NewLedger(transactions []models.Transaction, population []models.StaffMember) *Ledger {
	staff := make(map[string]models.StaffMember, len(population))
	for _, m := range population {
		staff[m.ID] = m
	}
	return &Ledger{
		transactions: transactions,
		population:   population,
		staff:        staff,
	}
}

// Transactions returns the snapshot's transactions.
func (l *Ledger) Transactions() []models.Transaction {
	return l.transactions
}

// Population returns the snapshot's staff members.
func (l *Ledger) Population() []models.StaffMember {
	return l.population
}

// Member looks up a staff member by id.
func (l *Ledger) Member(id string) (models.StaffMember, bool) {
	m, ok := l.staff[id]
	return m, ok
}

// StaffSubject returns the subject for userID paid through transactions of
// type typ. Unknown users resolve to a subject that never matches.
func (l *Ledger) StaffSubject(userID string, typ models.TransactionType) Subject {
	m, ok := l.staff[userID]
	if !ok {
		return missingStaff{UserID: userID}
	}
	return StaffSubject{Member: m, Type: typ}
}

// SubjectOf returns the subject a transaction pays.
func (l *Ledger) SubjectOf(t models.Transaction) Subject {
	if t.IsExpense() {
		return ExpenseSubject{Category: t.Category}
	}
	return l.StaffSubject(t.UserID, t.Type)
}

// Resolve runs Resolve against the snapshot's transactions.
func (l *Ledger) Resolve(q StatusQuery) StatusResult {
	return Resolve(l.transactions, q)
}

// StatusOf resolves the status of the subject a transaction pays, in p.
func (l *Ledger) StatusOf(t models.Transaction, p models.Period) StatusResult {
	return l.Resolve(StatusQuery{Subject: l.SubjectOf(t), Period: p})
}

// Summarize runs Summarize against the snapshot.
func (l *Ledger) Summarize(p models.Period) BatchSummary {
	return Summarize(l.transactions, p, l.population)
}
