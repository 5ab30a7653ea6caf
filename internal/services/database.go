package services

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/rocjay1/payroll-analyzer/internal/config"
	"github.com/rocjay1/payroll-analyzer/internal/models"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	staffPartition       = "STAFF"
	unknownPartition     = "payroll_unknown"
	transactionBatchSize = 100
)

// ErrNotFound is returned when an entity does not exist.
var ErrNotFound = errors.New("not found")

// DatabaseService stores transactions and the staff population in Azure Table Storage.
// Transactions are partitioned by the month of their payment date.
type DatabaseService struct {
	serviceClient     *aztables.ServiceClient
	transactionsTable string
	staffTable        string
}

// NewDatabaseService creates a DatabaseService and makes sure its tables exist.
func NewDatabaseService(ctx context.Context, conf *viper.Viper) (*DatabaseService, error) {
	tableURL, err := config.Require(conf, config.TableServiceURL)
	if err != nil {
		return nil, err
	}

	client, err := storageAuth("table", tableURL,
		func(url, name, key string) (*aztables.ServiceClient, error) {
			cred, err := aztables.NewSharedKeyCredential(name, key)
			if err != nil {
				return nil, fmt.Errorf("failed to create shared key credential: %w", err)
			}
			return aztables.NewServiceClientWithSharedKey(url, cred, nil)
		},
		func(url string, cred azcore.TokenCredential) (*aztables.ServiceClient, error) {
			return aztables.NewServiceClient(url, cred, nil)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create table service client: %w", err)
	}

	svc := &DatabaseService{
		serviceClient:     client,
		transactionsTable: conf.GetString(config.TransactionsTable),
		staffTable:        conf.GetString(config.StaffTable),
	}
	if err := svc.CreateTables(ctx); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	slog.Info("database service initialized successfully",
		"table_url", tableURL,
		"transactions_table", svc.transactionsTable,
		"staff_table", svc.staffTable,
	)
	return svc, nil
}

// CreateTables ensures all required tables exist.
func (s *DatabaseService) CreateTables(ctx context.Context) error {
	for _, tableName := range []string{s.transactionsTable, s.staffTable} {
		_, err := s.serviceClient.CreateTable(ctx, tableName, nil)
		if err != nil {
			var azErr *azcore.ResponseError
			if errors.As(err, &azErr) && azErr.ErrorCode == "TableAlreadyExists" {
				continue
			}
			return fmt.Errorf("failed to create table %s: %w", tableName, err)
		}
	}
	return nil
}

func (s *DatabaseService) getClient(tableName string) *aztables.Client {
	return s.serviceClient.NewClient(tableName)
}

// transactionEntity is the table row for a models.Transaction. Money is kept
// as a decimal string and dates as RFC 3339 so nothing is rounded on the way
// through the table service.
type transactionEntity struct {
	PartitionKey    string
	RowKey          string
	UserID          string `json:",omitempty"`
	Type            string
	Amount          string
	PaymentDate     string `json:",omitempty"`
	IsRecurring     bool
	Frequency       string `json:",omitempty"`
	NextPaymentDate string `json:",omitempty"`
	Category        string `json:",omitempty"`
	Description     string `json:",omitempty"`
	CreatedAt       string `json:",omitempty"`
	ImportedAt      string `json:",omitempty"`
}

// TransactionPartition returns the partition key a transaction is stored under.
func TransactionPartition(t models.Transaction) string {
	if p, ok := t.StartPeriod(); ok {
		return periodPartition(p)
	}
	return unknownPartition
}

func periodPartition(p models.Period) string {
	return "payroll_" + p.String()
}

// transactionRowKey zero-pads the id so lexical order in the table matches numeric order.
func transactionRowKey(id int64) string {
	return fmt.Sprintf("%019d", id)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

func toTransactionEntity(t models.Transaction, importedAt time.Time) transactionEntity {
	e := transactionEntity{
		PartitionKey: TransactionPartition(t),
		RowKey:       transactionRowKey(t.ID),
		UserID:       t.UserID,
		Type:         string(t.Type),
		Amount:       t.Amount.String(),
		PaymentDate:  formatTime(t.PaymentDate),
		IsRecurring:  t.IsRecurring,
		Frequency:    string(t.Frequency),
		Category:     t.Category,
		Description:  t.Description,
		CreatedAt:    formatTime(t.CreatedAt),
		ImportedAt:   formatTime(importedAt),
	}
	if t.NextPaymentDate != nil {
		e.NextPaymentDate = formatTime(*t.NextPaymentDate)
	}
	return e
}

func (e transactionEntity) toModel() (models.Transaction, error) {
	id, err := strconv.ParseInt(e.RowKey, 10, 64)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid row key %q: %w", e.RowKey, err)
	}
	amount, err := decimal.NewFromString(e.Amount)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("transaction %d: invalid amount %q: %w", id, e.Amount, err)
	}
	paymentDate, err := parseTime(e.PaymentDate)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("transaction %d: invalid payment date: %w", id, err)
	}
	createdAt, err := parseTime(e.CreatedAt)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("transaction %d: invalid created at: %w", id, err)
	}

	t := models.Transaction{
		ID:          id,
		UserID:      e.UserID,
		Type:        models.TransactionType(e.Type),
		Amount:      amount,
		PaymentDate: paymentDate,
		IsRecurring: e.IsRecurring,
		Frequency:   models.Frequency(e.Frequency),
		Category:    e.Category,
		Description: e.Description,
		CreatedAt:   createdAt,
	}
	if e.NextPaymentDate != "" {
		next, err := parseTime(e.NextPaymentDate)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("transaction %d: invalid next payment date: %w", id, err)
		}
		t.NextPaymentDate = &next
	}
	return t, nil
}

// listTransactions pages through the transactions table. Rows that cannot be
// decoded are logged and skipped so one bad row does not hide the rest.
func (s *DatabaseService) listTransactions(ctx context.Context, filter *string) ([]models.Transaction, error) {
	pager := s.getClient(s.transactionsTable).NewListEntitiesPager(&aztables.ListEntitiesOptions{
		Filter: filter,
	})

	var out []models.Transaction
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list transactions: %w", err)
		}
		for _, raw := range resp.Entities {
			var e transactionEntity
			if err := json.Unmarshal(raw, &e); err != nil {
				slog.Warn("skipping undecodable transaction entity", "error", err)
				continue
			}
			t, err := e.toModel()
			if err != nil {
				slog.Warn("skipping invalid transaction entity", "partition", e.PartitionKey, "error", err)
				continue
			}
			out = append(out, t)
		}
	}

	slices.SortStableFunc(out, func(a, b models.Transaction) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// ListTransactions returns every stored transaction ordered by id.
func (s *DatabaseService) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	return s.listTransactions(ctx, nil)
}

// ListTransactionsInPeriod returns the transactions whose payment date falls in p.
func (s *DatabaseService) ListTransactionsInPeriod(ctx context.Context, p models.Period) ([]models.Transaction, error) {
	filter := fmt.Sprintf("PartitionKey eq '%s'", periodPartition(p))
	return s.listTransactions(ctx, &filter)
}

// existingRowKeys returns the row keys already stored in partition pk.
func (s *DatabaseService) existingRowKeys(ctx context.Context, client *aztables.Client, pk string) (map[string]bool, error) {
	filter := fmt.Sprintf("PartitionKey eq '%s'", pk)
	selectFields := "RowKey"
	pager := client.NewListEntitiesPager(&aztables.ListEntitiesOptions{
		Filter: &filter,
		Select: &selectFields,
	})

	keys := make(map[string]bool)
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list existing transactions: %w", err)
		}
		for _, raw := range resp.Entities {
			var e struct{ RowKey string }
			if err := json.Unmarshal(raw, &e); err == nil && e.RowKey != "" {
				keys[e.RowKey] = true
			}
		}
	}
	return keys, nil
}

// SaveTransactions inserts transactions whose id is not already stored and
// returns the ones that were new. Duplicate ids within the input keep the
// first occurrence.
func (s *DatabaseService) SaveTransactions(ctx context.Context, transactions []models.Transaction) ([]models.Transaction, error) {
	if len(transactions) == 0 {
		return []models.Transaction{}, nil
	}

	client := s.getClient(s.transactionsTable)

	partitions := make(map[string][]models.Transaction)
	var order []string
	for _, t := range transactions {
		pk := TransactionPartition(t)
		if _, ok := partitions[pk]; !ok {
			order = append(order, pk)
		}
		partitions[pk] = append(partitions[pk], t)
	}

	importedAt := time.Now()
	newTransactions := []models.Transaction{}
	seen := make(map[int64]bool)

	for _, pk := range order {
		existing, err := s.existingRowKeys(ctx, client, pk)
		if err != nil {
			return nil, err
		}

		var batch []aztables.TransactionAction
		for _, t := range partitions[pk] {
			rk := transactionRowKey(t.ID)
			if existing[rk] || seen[t.ID] {
				continue
			}
			seen[t.ID] = true

			entityJSON, err := json.Marshal(toTransactionEntity(t, importedAt))
			if err != nil {
				return nil, fmt.Errorf("failed to marshal transaction %d: %w", t.ID, err)
			}
			batch = append(batch, aztables.TransactionAction{
				ActionType: aztables.TransactionTypeInsertReplace,
				Entity:     entityJSON,
			})
			newTransactions = append(newTransactions, t)
		}

		// Entity group transactions are limited to 100 operations on one partition.
		for i := 0; i < len(batch); i += transactionBatchSize {
			end := min(i+transactionBatchSize, len(batch))
			if _, err := client.SubmitTransaction(ctx, batch[i:end], nil); err != nil {
				return nil, fmt.Errorf("failed to submit transaction batch %s %d-%d: %w", pk, i, end, err)
			}
		}
	}

	slog.Info("saved transactions", "received", len(transactions), "new", len(newTransactions))
	return newTransactions, nil
}

type staffEntity struct {
	PartitionKey string
	RowKey       string
	Name         string
	Role         string
	Wallet       string
	Salary       string
}

func toStaffEntity(m models.StaffMember) staffEntity {
	return staffEntity{
		PartitionKey: staffPartition,
		RowKey:       m.ID,
		Name:         m.Name,
		Role:         string(m.Role),
		Wallet:       m.Wallet.String(),
		Salary:       m.Salary.String(),
	}
}

// parseAmount reads a stored amount. Blank values are zero.
func parseAmount(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func (e staffEntity) toModel() (models.StaffMember, error) {
	wallet, err := parseAmount(e.Wallet)
	if err != nil {
		return models.StaffMember{}, fmt.Errorf("staff %s: invalid wallet %q: %w", e.RowKey, e.Wallet, err)
	}
	salary, err := parseAmount(e.Salary)
	if err != nil {
		return models.StaffMember{}, fmt.Errorf("staff %s: invalid salary %q: %w", e.RowKey, e.Salary, err)
	}
	return models.StaffMember{
		ID:     e.RowKey,
		Name:   e.Name,
		Role:   models.Role(e.Role),
		Wallet: wallet,
		Salary: salary,
	}, nil
}

// ListStaff returns the staff population ordered by id.
func (s *DatabaseService) ListStaff(ctx context.Context) ([]models.StaffMember, error) {
	filter := fmt.Sprintf("PartitionKey eq '%s'", staffPartition)
	pager := s.getClient(s.staffTable).NewListEntitiesPager(&aztables.ListEntitiesOptions{
		Filter: &filter,
	})

	staff := []models.StaffMember{}
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list staff: %w", err)
		}
		for _, raw := range resp.Entities {
			var e staffEntity
			if err := json.Unmarshal(raw, &e); err != nil {
				slog.Warn("skipping undecodable staff entity", "error", err)
				continue
			}
			m, err := e.toModel()
			if err != nil {
				slog.Warn("skipping invalid staff entity", "error", err)
				continue
			}
			staff = append(staff, m)
		}
	}
	return staff, nil
}

// SaveStaffMember upserts a staff member.
func (s *DatabaseService) SaveStaffMember(ctx context.Context, m models.StaffMember) error {
	entityJSON, err := json.Marshal(toStaffEntity(m))
	if err != nil {
		return fmt.Errorf("failed to marshal staff member: %w", err)
	}
	if _, err := s.getClient(s.staffTable).UpsertEntity(ctx, entityJSON, nil); err != nil {
		return fmt.Errorf("failed to save staff member %s: %w", m.ID, err)
	}
	return nil
}

// DeleteStaffMember removes a staff member. Deleting an unknown id returns ErrNotFound.
func (s *DatabaseService) DeleteStaffMember(ctx context.Context, id string) error {
	_, err := s.getClient(s.staffTable).DeleteEntity(ctx, staffPartition, id, nil)
	if err != nil {
		var azErr *azcore.ResponseError
		if errors.As(err, &azErr) && azErr.ErrorCode == "ResourceNotFound" {
			return fmt.Errorf("staff member %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to delete staff member %s: %w", id, err)
	}
	return nil
}
