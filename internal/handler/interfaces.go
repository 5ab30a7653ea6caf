package handler

import (
	"context"

	"github.com/rocjay1/payroll-analyzer/internal/models"
	"github.com/rocjay1/payroll-analyzer/internal/payroll"
)

// DatabaseClient defines the storage operations used by handlers.
type DatabaseClient interface {
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	ListTransactionsInPeriod(ctx context.Context, p models.Period) ([]models.Transaction, error)
	SaveTransactions(ctx context.Context, transactions []models.Transaction) ([]models.Transaction, error)

	ListStaff(ctx context.Context) ([]models.StaffMember, error)
	SaveStaffMember(ctx context.Context, m models.StaffMember) error
	DeleteStaffMember(ctx context.Context, id string) error
}

// BlobClient defines the blob storage operations used by handlers.
type BlobClient interface {
	UploadText(ctx context.Context, containerName, blobName, content string) error
	DownloadText(ctx context.Context, containerName, blobName string) (string, error)
}

// QueueClient defines the queue operations used by handlers.
type QueueClient interface {
	EnqueueMessage(ctx context.Context, queueName string, message any) error
}

// EmailClient defines the email operations used by handlers.
type EmailClient interface {
	SendEmail(ctx context.Context, to []string, subject, body string) error
	SendDueReminder(ctx context.Context, to []string, p models.Period, rows []payroll.Row, summary payroll.BatchSummary) error
	SendImportErrors(ctx context.Context, to []string, blobName string, errs []string) error
}
