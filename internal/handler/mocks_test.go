package handler

import (
	"context"
	"time"

	"github.com/rocjay1/payroll-analyzer/internal/models"
	"github.com/rocjay1/payroll-analyzer/internal/payroll"
	"github.com/shopspring/decimal"
)

// MockDatabaseClient is a mock implementation of DatabaseClient
type MockDatabaseClient struct {
	ListTransactionsFunc         func(ctx context.Context) ([]models.Transaction, error)
	ListTransactionsInPeriodFunc func(ctx context.Context, p models.Period) ([]models.Transaction, error)
	SaveTransactionsFunc         func(ctx context.Context, transactions []models.Transaction) ([]models.Transaction, error)
	ListStaffFunc                func(ctx context.Context) ([]models.StaffMember, error)
	SaveStaffMemberFunc          func(ctx context.Context, m models.StaffMember) error
	DeleteStaffMemberFunc        func(ctx context.Context, id string) error
}

func (m *MockDatabaseClient) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	if m.ListTransactionsFunc != nil {
		return m.ListTransactionsFunc(ctx)
	}
	return nil, nil
}

func (m *MockDatabaseClient) ListTransactionsInPeriod(ctx context.Context, p models.Period) ([]models.Transaction, error) {
	if m.ListTransactionsInPeriodFunc != nil {
		return m.ListTransactionsInPeriodFunc(ctx, p)
	}
	return nil, nil
}

func (m *MockDatabaseClient) SaveTransactions(ctx context.Context, transactions []models.Transaction) ([]models.Transaction, error) {
	if m.SaveTransactionsFunc != nil {
		return m.SaveTransactionsFunc(ctx, transactions)
	}
	return transactions, nil
}

func (m *MockDatabaseClient) ListStaff(ctx context.Context) ([]models.StaffMember, error) {
	if m.ListStaffFunc != nil {
		return m.ListStaffFunc(ctx)
	}
	return nil, nil
}

func (m *MockDatabaseClient) SaveStaffMember(ctx context.Context, sm models.StaffMember) error {
	if m.SaveStaffMemberFunc != nil {
		return m.SaveStaffMemberFunc(ctx, sm)
	}
	return nil
}

func (m *MockDatabaseClient) DeleteStaffMember(ctx context.Context, id string) error {
	if m.DeleteStaffMemberFunc != nil {
		return m.DeleteStaffMemberFunc(ctx, id)
	}
	return nil
}

// MockBlobClient is a mock implementation of BlobClient
type MockBlobClient struct {
	UploadTextFunc   func(ctx context.Context, containerName, blobName, content string) error
	DownloadTextFunc func(ctx context.Context, containerName, blobName string) (string, error)
}

func (m *MockBlobClient) UploadText(ctx context.Context, containerName, blobName, content string) error {
	if m.UploadTextFunc != nil {
		return m.UploadTextFunc(ctx, containerName, blobName, content)
	}
	return nil
}

func (m *MockBlobClient) DownloadText(ctx context.Context, containerName, blobName string) (string, error) {
	if m.DownloadTextFunc != nil {
		return m.DownloadTextFunc(ctx, containerName, blobName)
	}
	return "", nil
}

// MockQueueClient is a mock implementation of QueueClient
type MockQueueClient struct {
	EnqueueMessageFunc func(ctx context.Context, queueName string, message any) error
}

func (m *MockQueueClient) EnqueueMessage(ctx context.Context, queueName string, message any) error {
	if m.EnqueueMessageFunc != nil {
		return m.EnqueueMessageFunc(ctx, queueName, message)
	}
	return nil
}

// MockEmailClient is a mock implementation of EmailClient
type MockEmailClient struct {
	SendEmailFunc        func(ctx context.Context, to []string, subject, body string) error
	SendDueReminderFunc  func(ctx context.Context, to []string, p models.Period, rows []payroll.Row, summary payroll.BatchSummary) error
	SendImportErrorsFunc func(ctx context.Context, to []string, blobName string, errs []string) error
}

func (m *MockEmailClient) SendEmail(ctx context.Context, to []string, subject, body string) error {
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, to, subject, body)
	}
	return nil
}

func (m *MockEmailClient) SendDueReminder(ctx context.Context, to []string, p models.Period, rows []payroll.Row, summary payroll.BatchSummary) error {
	if m.SendDueReminderFunc != nil {
		return m.SendDueReminderFunc(ctx, to, p, rows, summary)
	}
	return nil
}

func (m *MockEmailClient) SendImportErrors(ctx context.Context, to []string, blobName string, errs []string) error {
	if m.SendImportErrorsFunc != nil {
		return m.SendImportErrorsFunc(ctx, to, blobName, errs)
	}
	return nil
}

// fixedNow is 2024-03-28 10:00 UTC, three days before the end of March.
func fixedNow() time.Time {
	return time.Date(2024, time.March, 28, 10, 0, 0, 0, time.UTC)
}

func march() models.Period {
	return models.NewPeriod(2024, time.March)
}

// testLedger is five monthly salaries starting January 2024 for assistants
// u1..u5 at 100 each, with u2 fully paid in March and u4 paid 60 of 100.
func testLedger() ([]models.Transaction, []models.StaffMember) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	var txs []models.Transaction
	var staff []models.StaffMember
	for i, id := range []string{"u1", "u2", "u3", "u4", "u5"} {
		staff = append(staff, models.StaffMember{ID: id, Name: id, Role: models.RoleAssistant, Salary: decimal.NewFromInt(100)})
		txs = append(txs, models.Transaction{
			ID:          int64(i + 1),
			UserID:      id,
			Type:        models.TypeSalary,
			Amount:      decimal.NewFromInt(100),
			PaymentDate: start,
			IsRecurring: true,
			Frequency:   models.FrequencyMonthly,
		})
	}
	paidOn := time.Date(2024, time.March, 25, 0, 0, 0, 0, time.UTC)
	txs = append(txs,
		models.Transaction{ID: 10, UserID: "u2", Type: models.TypeSalary, Amount: decimal.NewFromInt(100), PaymentDate: paidOn},
		models.Transaction{ID: 11, UserID: "u4", Type: models.TypeSalary, Amount: decimal.NewFromInt(60), PaymentDate: paidOn},
	)
	return txs, staff
}

func newTestDeps() (*Dependencies, *MockDatabaseClient, *MockBlobClient, *MockQueueClient, *MockEmailClient) {
	txs, staff := testLedger()
	db := &MockDatabaseClient{
		ListTransactionsFunc: func(ctx context.Context) ([]models.Transaction, error) { return txs, nil },
		ListTransactionsInPeriodFunc: func(ctx context.Context, p models.Period) ([]models.Transaction, error) {
			var out []models.Transaction
			for _, t := range txs {
				if p.Contains(t.PaymentDate) {
					out = append(out, t)
				}
			}
			return out, nil
		},
		ListStaffFunc: func(ctx context.Context) ([]models.StaffMember, error) { return staff, nil },
	}
	blob := &MockBlobClient{}
	queue := &MockQueueClient{}
	email := &MockEmailClient{}
	deps := &Dependencies{
		Database: db,
		Blob:     blob,
		Queue:    queue,
		Email:    email,
		Settings: DefaultSettings(),
		Now:      fixedNow,
	}
	return deps, db, blob, queue, email
}
