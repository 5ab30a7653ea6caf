package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of ledger entry a transaction records.
type TransactionType string

const (
	TypeSalary  TransactionType = "salary"
	TypeWallet  TransactionType = "wallet"
	TypePayment TransactionType = "payment"
	TypeExpense TransactionType = "expense"
)

// ParseTransactionType maps a raw value onto a known TransactionType.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch t := TransactionType(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeSalary, TypeWallet, TypePayment, TypeExpense:
		return t, true
	}
	return "", false
}

// Frequency is how often a recurring transaction repeats.
type Frequency string

const (
	FrequencyDaily        Frequency = "daily"
	FrequencyWeekly       Frequency = "weekly"
	FrequencyBiweekly     Frequency = "biweekly"
	FrequencyMonthly      Frequency = "monthly"
	FrequencyQuarterly    Frequency = "quarterly"
	FrequencyTermly       Frequency = "termly"
	FrequencySemester     Frequency = "semester"
	FrequencySemiannually Frequency = "semiannually"
	FrequencyBiannually   Frequency = "biannually"
	FrequencyAnnually     Frequency = "annually"
	FrequencyYearly       Frequency = "yearly"
)

// IntervalMonths returns how many calendar months separate two occurrences.
// Sub-monthly frequencies show up every month, and anything unrecognised is
// treated as monthly.
func (f Frequency) IntervalMonths() int {
	switch Frequency(strings.ToLower(strings.TrimSpace(string(f)))) {
	case FrequencyQuarterly:
		return 3
	case FrequencyTermly:
		return 4
	case FrequencySemester, FrequencySemiannually, FrequencyBiannually:
		return 6
	case FrequencyAnnually, FrequencyYearly:
		return 12
	default:
		return 1
	}
}

// Known reports whether f is one of the recognised frequency values.
func (f Frequency) Known() bool {
	switch Frequency(strings.ToLower(strings.TrimSpace(string(f)))) {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly,
		FrequencyQuarterly, FrequencyTermly, FrequencySemester, FrequencySemiannually,
		FrequencyBiannually, FrequencyAnnually, FrequencyYearly:
		return true
	}
	return false
}

// Transaction is a single payroll or expense entry recorded by the server.
// Expense entries carry a Category and no UserID; the other types are tied
// to a staff member.
type Transaction struct {
	ID              int64           `json:"id"`
	UserID          string          `json:"user_id,omitempty"`
	Type            TransactionType `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentDate     time.Time       `json:"payment_date"`
	IsRecurring     bool            `json:"is_recurring"`
	Frequency       Frequency       `json:"frequency,omitempty"`
	NextPaymentDate *time.Time      `json:"next_payment_date,omitempty"`
	Category        string          `json:"category,omitempty"`
	Description     string          `json:"description,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// IsExpense reports whether the transaction is an expense rather than a
// payment to a staff member.
func (t Transaction) IsExpense() bool {
	return t.Type == TypeExpense
}

// StartPeriod returns the month the transaction's schedule is anchored on:
// the payment date when present, otherwise the creation timestamp.
func (t Transaction) StartPeriod() (Period, bool) {
	switch {
	case !t.PaymentDate.IsZero():
		return PeriodOf(t.PaymentDate), true
	case !t.CreatedAt.IsZero():
		return PeriodOf(t.CreatedAt), true
	}
	return Period{}, false
}
