package csvparse

import (
	"strings"
	"testing"
	"time"

	"github.com/rocjay1/payroll-analyzer/internal/models"
	"github.com/rocjay1/payroll-analyzer/internal/payroll"
	"github.com/shopspring/decimal"
)

func TestParseCSV_Valid(t *testing.T) {
	content := `ID,Date,User ID,Type,Amount,Recurring,Frequency,Next Payment Date,Category,Description
1,2024-01-05,u1,salary,1200.50,yes,Quarterly,2024-04-05,,January salary
2,2024-01-09,,expense,42.5,,,,Repairs,Door handle`

	transactions, errors := ParseCSV(content)

	if len(errors) != 0 {
		t.Fatalf("Expected no errors, got: %v", errors)
	}
	if len(transactions) != 2 {
		t.Fatalf("Expected 2 transactions, got %d", len(transactions))
	}

	t1 := transactions[0]
	if t1.ID != 1 || t1.UserID != "u1" || t1.Type != models.TypeSalary {
		t.Errorf("Unexpected transaction %+v", t1)
	}
	if !t1.Amount.Equal(decimal.RequireFromString("1200.50")) {
		t.Errorf("Expected Amount 1200.50, got %s", t1.Amount)
	}
	if !t1.IsRecurring || t1.Frequency != models.FrequencyQuarterly {
		t.Errorf("Expected recurring quarterly, got %v %q", t1.IsRecurring, t1.Frequency)
	}
	if t1.NextPaymentDate == nil || t1.NextPaymentDate.Month() != time.April {
		t.Errorf("Expected next payment in April, got %v", t1.NextPaymentDate)
	}
	if !t1.CreatedAt.Equal(t1.PaymentDate) {
		t.Errorf("Expected CreatedAt to default to the payment date")
	}

	t2 := transactions[1]
	if !t2.IsExpense() || t2.Category != "Repairs" {
		t.Errorf("Expected Repairs expense, got %+v", t2)
	}
	if t2.IsRecurring || t2.Frequency != "" {
		t.Errorf("Expected one-off expense without frequency, got %q", t2.Frequency)
	}
}

func TestParseCSV_HeadersAnyCaseAndOrder(t *testing.T) {
	content := ` amount , TYPE , date , id , user id , recurring
 300 , wallet , 2024-02-01 , 9 , t1 , true `

	transactions, errors := ParseCSV(content)

	if len(errors) != 0 {
		t.Fatalf("Expected no errors, got: %v", errors)
	}
	if len(transactions) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(transactions))
	}
	if transactions[0].Frequency != models.FrequencyMonthly {
		t.Errorf("Expected recurring without frequency to default to monthly, got %q", transactions[0].Frequency)
	}
}

func TestParseCSV_Errors(t *testing.T) {
	content := `ID,Date,User ID,Type,Amount,Recurring,Category
1,2024-01-05,u1,salary,100,,
x,2024-01-05,u1,salary,100,,
2,05/01/2024,u1,salary,100,,
3,2024-01-05,u1,bonus,100,,
4,2024-01-05,u1,salary,-5,,
5,2024-01-05,,salary,100,,
6,2024-01-05,,expense,100,,
7,2024-01-05,u1,salary,100,maybe,
,,,,,,`

	transactions, errors := ParseCSV(content)

	if len(transactions) != 1 {
		t.Errorf("Expected 1 valid transaction, got %d", len(transactions))
	}
	want := []string{
		`Row 3: invalid ID: "x"`,
		"Row 4: invalid Date format: 05/01/2024",
		`Row 5: invalid Type: "bonus"`,
		"Row 6: amount must be positive: -5",
		"Row 7: missing User ID for salary",
		"Row 8: missing Category for expense",
		"Row 9: invalid Recurring: maybe",
	}
	if len(errors) != len(want) {
		t.Fatalf("Expected %d errors, got %d: %v", len(want), len(errors), errors)
	}
	for i := range want {
		if errors[i] != want[i] {
			t.Errorf("Error %d: expected %q, got %q", i, want[i], errors[i])
		}
	}
}

func TestParseCSV_MissingColumns(t *testing.T) {
	transactions, errors := ParseCSV("ID,Date,User ID\n1,2024-01-01,u1")

	if transactions != nil {
		t.Errorf("Expected no transactions, got %v", transactions)
	}
	if len(errors) != 1 || errors[0] != "Missing columns: type, amount" {
		t.Errorf("Unexpected errors: %v", errors)
	}
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	transactions, errors := ParseCSV("ID,Date,Type,Amount")

	if len(transactions) != 0 || len(errors) != 0 {
		t.Errorf("Expected empty result, got %v %v", transactions, errors)
	}
}

func TestFormatSummary(t *testing.T) {
	s := payroll.BatchSummary{
		Period:   models.NewPeriod(2024, time.March),
		Teachers: payroll.GroupSummary{Population: 10, FullyPaid: 7, Unpaid: 3, TotalPaid: decimal.NewFromInt(5600)},
		Staff:    payroll.GroupSummary{Population: 2, PartiallyPaid: 1, Unpaid: 1, TotalPaid: decimal.NewFromInt(150)},
		Notice:   payroll.NoticeMonthAlreadyProcessed,
	}

	out, err := FormatSummary(s)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}
	if lines[1] != "2024-03,teachers,10,7,0,3,5600.00,month_already_processed" {
		t.Errorf("Unexpected teachers line %q", lines[1])
	}
	if lines[2] != "2024-03,staff,2,0,1,1,150.00,month_already_processed" {
		t.Errorf("Unexpected staff line %q", lines[2])
	}
}
