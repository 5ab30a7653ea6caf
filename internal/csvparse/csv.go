package csvparse

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rocjay1/payroll-analyzer/internal/models"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Column headers of an import file. Matching is case-insensitive.
const (
	colID          = "id"
	colDate        = "date"
	colUserID      = "user id"
	colType        = "type"
	colAmount      = "amount"
	colRecurring   = "recurring"
	colFrequency   = "frequency"
	colNextPayment = "next payment date"
	colCategory    = "category"
	colDescription = "description"
)

var requiredColumns = []string{colID, colDate, colType, colAmount}

// ParseCSV parses historical transactions from an export of the payments ledger.
// It returns the valid transactions and one message per rejected row.
func ParseCSV(content string) ([]models.Transaction, []string) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, []string{fmt.Sprintf("Failed to read CSV: %v", err)}
	}
	if len(records) < 2 {
		return []models.Transaction{}, nil
	}

	headers := parseHeaders(records[0])
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := headers[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, []string{fmt.Sprintf("Missing columns: %s", strings.Join(missing, ", "))}
	}

	transactions := []models.Transaction{}
	var errors []string
	for i, record := range records[1:] {
		rowNum := i + 2
		if isBlank(record) {
			continue
		}
		row := func(col string) string {
			if j, ok := headers[col]; ok && j < len(record) {
				return strings.TrimSpace(record[j])
			}
			return ""
		}

		t, err := toTransaction(row)
		if err != nil {
			errors = append(errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		transactions = append(transactions, t)
	}

	return transactions, errors
}

func parseHeaders(row []string) map[string]int {
	headers := make(map[string]int, len(row))
	for i, h := range row {
		headers[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return headers
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "false", "no", "n", "0":
		return false, nil
	case "true", "yes", "y", "1":
		return true, nil
	}
	return false, fmt.Errorf("invalid Recurring: %s", s)
}

func toTransaction(row func(string) string) (models.Transaction, error) {
	var t models.Transaction

	id, err := strconv.ParseInt(row(colID), 10, 64)
	if err != nil || id <= 0 {
		return t, fmt.Errorf("invalid ID: %q", row(colID))
	}

	dateStr := row(colDate)
	if dateStr == "" {
		return t, fmt.Errorf("missing Date")
	}
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return t, fmt.Errorf("invalid Date format: %s", dateStr)
	}

	typ, ok := models.ParseTransactionType(row(colType))
	if !ok {
		return t, fmt.Errorf("invalid Type: %q", row(colType))
	}

	amountStr := row(colAmount)
	if amountStr == "" {
		return t, fmt.Errorf("missing Amount")
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return t, fmt.Errorf("invalid Amount: %s", amountStr)
	}
	if !amount.IsPositive() {
		return t, fmt.Errorf("amount must be positive: %s", amountStr)
	}

	recurring, err := parseBool(row(colRecurring))
	if err != nil {
		return t, err
	}

	t = models.Transaction{
		ID:          id,
		UserID:      row(colUserID),
		Type:        typ,
		Amount:      amount,
		PaymentDate: date,
		IsRecurring: recurring,
		Category:    row(colCategory),
		Description: row(colDescription),
		CreatedAt:   date,
	}

	if t.IsExpense() {
		if t.Category == "" {
			return t, fmt.Errorf("missing Category for expense")
		}
	} else if t.UserID == "" {
		return t, fmt.Errorf("missing User ID for %s", typ)
	}

	if recurring {
		t.Frequency = models.Frequency(strings.ToLower(row(colFrequency)))
		if t.Frequency == "" {
			t.Frequency = models.FrequencyMonthly
		}
	}

	if next := row(colNextPayment); next != "" {
		d, err := time.Parse(dateLayout, next)
		if err != nil {
			return t, fmt.Errorf("invalid Next Payment Date format: %s", next)
		}
		t.NextPaymentDate = &d
	}

	return t, nil
}
