package payroll

import (
	"testing"
	"time"

	"github.com/rocjay1/payroll-analyzer/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jan2024 = models.NewPeriod(2024, time.January)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		paid string
		full string
		want models.PaymentStatus
	}{
		{"nothing paid", "0", "1000", models.StatusUnpaid},
		{"partial", "500", "1000", models.StatusPartial},
		{"exact boundary", "1000", "1000", models.StatusPaid},
		{"overpaid", "1200", "1000", models.StatusPaid},
		{"zero due and nothing paid", "0", "0", models.StatusUnpaid},
		{"zero due with payments", "300", "0", models.StatusUnpaid},
		{"negative due", "10", "-5", models.StatusUnpaid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(amount(tc.paid), amount(tc.full)))
		})
	}
}

func TestResolve_PartialSum(t *testing.T) {
	member := assistant("a1", "1000")
	all := []models.Transaction{
		salary(1, "a1", "300", day(2024, time.January, 5)),
		salary(2, "a1", "200", day(2024, time.January, 20)),
		salary(3, "a1", "999", day(2024, time.February, 1)),
		salary(4, "other", "999", day(2024, time.January, 1)),
	}

	res := Resolve(all, StatusQuery{Subject: StaffSubject{Member: member, Type: models.TypeSalary}, Period: jan2024})

	assert.Equal(t, models.StatusPartial, res.Status)
	assert.Equal(t, models.WarningPartiallyPaid, res.Warning)
	assert.True(t, res.TotalPaid.Equal(amount("500")), "total paid %s", res.TotalPaid)
	assert.True(t, res.Remaining.Equal(amount("500")), "remaining %s", res.Remaining)
	assert.Equal(t, 2, res.Payments)
	require.NotNil(t, res.LastPayment)
	assert.Equal(t, int64(2), res.LastPayment.ID)
}

func TestResolve_FullPaymentBoundary(t *testing.T) {
	member := assistant("a1", "1000")
	all := []models.Transaction{salary(1, "a1", "1000", day(2024, time.January, 31))}

	res := Resolve(all, StatusQuery{Subject: StaffSubject{Member: member, Type: models.TypeSalary}, Period: jan2024})

	assert.Equal(t, models.StatusPaid, res.Status)
	assert.Equal(t, models.WarningAlreadyPaid, res.Warning)
	assert.True(t, res.Remaining.IsZero())
}

func TestResolve_TeacherUsesWallet(t *testing.T) {
	member := teacher("t1", "400")
	member.Salary = amount("5000")
	all := []models.Transaction{
		{ID: 1, UserID: "t1", Type: models.TypeWallet, Amount: amount("400"), PaymentDate: day(2024, time.January, 2)},
	}

	res := Resolve(all, StatusQuery{Subject: StaffSubject{Member: member, Type: models.TypeWallet}, Period: jan2024})

	assert.Equal(t, models.StatusPaid, res.Status)
	assert.True(t, res.FullAmount.Equal(amount("400")))
}

func TestResolve_TeacherEmptyWalletNeverPaid(t *testing.T) {
	member := teacher("t1", "0")
	all := []models.Transaction{
		{ID: 1, UserID: "t1", Type: models.TypeWallet, Amount: amount("50"), PaymentDate: day(2024, time.January, 2)},
	}

	res := Resolve(all, StatusQuery{Subject: StaffSubject{Member: member, Type: models.TypeWallet}, Period: jan2024})

	assert.Equal(t, models.StatusUnpaid, res.Status)
	assert.Equal(t, models.WarningNone, res.Warning)
}

func TestResolve_ZeroSalaryGuard(t *testing.T) {
	member := assistant("a1", "0")

	res := Resolve(nil, StatusQuery{Subject: StaffSubject{Member: member, Type: models.TypeSalary}, Period: jan2024})
	assert.Equal(t, models.StatusUnpaid, res.Status)

	all := []models.Transaction{salary(1, "a1", "250", day(2024, time.January, 2))}
	res = Resolve(all, StatusQuery{Subject: StaffSubject{Member: member, Type: models.TypeSalary}, Period: jan2024})
	assert.Equal(t, models.StatusUnpaid, res.Status)
	assert.True(t, res.TotalPaid.Equal(amount("250")))
}

func TestResolve_TypeMustMatch(t *testing.T) {
	member := assistant("a1", "100")
	all := []models.Transaction{
		{ID: 1, UserID: "a1", Type: models.TypePayment, Amount: amount("100"), PaymentDate: day(2024, time.January, 2)},
	}

	res := Resolve(all, StatusQuery{Subject: StaffSubject{Member: member, Type: models.TypeSalary}, Period: jan2024})

	assert.Equal(t, models.StatusUnpaid, res.Status)
	assert.Zero(t, res.Payments)
}

func TestResolve_ExcludesEditedTransaction(t *testing.T) {
	member := assistant("a1", "1000")
	all := []models.Transaction{
		salary(1, "a1", "600", day(2024, time.January, 5)),
		salary(2, "a1", "400", day(2024, time.January, 6)),
	}
	subject := StaffSubject{Member: member, Type: models.TypeSalary}

	assert.Equal(t, models.StatusPaid, Resolve(all, StatusQuery{Subject: subject, Period: jan2024}).Status)

	res := Resolve(all, StatusQuery{Subject: subject, Period: jan2024, ExcludeID: 2})
	assert.Equal(t, models.StatusPartial, res.Status)
	assert.True(t, res.TotalPaid.Equal(amount("600")))
}

func TestResolve_ExpenseCategory(t *testing.T) {
	all := []models.Transaction{
		{ID: 1, Type: models.TypeExpense, Category: "Utilities", Amount: amount("1"), PaymentDate: day(2024, time.January, 9)},
		{ID: 2, Type: models.TypeExpense, Category: "Stationery", Amount: amount("80"), PaymentDate: day(2024, time.February, 9)},
	}

	res := Resolve(all, StatusQuery{Subject: ExpenseSubject{Category: "utilities"}, Period: jan2024})
	assert.Equal(t, models.StatusPaid, res.Status)
	assert.Equal(t, models.WarningAlreadyPaid, res.Warning)
	require.NotNil(t, res.LastPayment)
	assert.Equal(t, int64(1), res.LastPayment.ID)

	res = Resolve(all, StatusQuery{Subject: ExpenseSubject{Category: "Stationery"}, Period: jan2024})
	assert.Equal(t, models.StatusUnpaid, res.Status)
	assert.Nil(t, res.LastPayment)
}

func TestResolve_UnknownUserIsUnpaidWithZeroAmounts(t *testing.T) {
	l := NewLedger([]models.Transaction{salary(1, "ghost", "500", day(2024, time.January, 1))}, nil)

	res := l.Resolve(StatusQuery{Subject: l.StaffSubject("ghost", models.TypeSalary), Period: jan2024})

	assert.Equal(t, models.StatusUnpaid, res.Status)
	assert.True(t, res.TotalPaid.IsZero())
	assert.True(t, res.FullAmount.IsZero())
	assert.Zero(t, res.Payments)
}

func TestResolve_Idempotent(t *testing.T) {
	member := assistant("a1", "1000")
	all := []models.Transaction{
		salary(1, "a1", "300", day(2024, time.January, 5)),
		salary(2, "a1", "200", day(2024, time.January, 20)),
	}
	q := StatusQuery{Subject: StaffSubject{Member: member, Type: models.TypeSalary}, Period: jan2024}

	first := Resolve(all, q)
	second := Resolve(all, q)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), all[0].ID, "input must not be reordered")
}

func TestResolve_NilSubject(t *testing.T) {
	res := Resolve([]models.Transaction{salary(1, "a1", "1", day(2024, time.January, 1))}, StatusQuery{Period: jan2024})

	assert.Equal(t, models.StatusUnpaid, res.Status)
	assert.True(t, res.TotalPaid.Equal(decimal.Zero))
}
