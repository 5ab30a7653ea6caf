package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Keys read by the services and handlers.
const (
	TableServiceURL               = "table_service_url"
	TransactionsTable             = "transactions_table"
	StaffTable                    = "staff_table"
	BlobServiceURL                = "blob_service_url"
	UploadsContainer              = "uploads_container"
	ReportsContainer              = "reports_container"
	QueueServiceURL               = "queue_service_url"
	PaymentQueue                  = "payment_queue"
	ImportQueue                   = "import_queue"
	CommunicationServicesEndpoint = "communication_services_endpoint"
	SenderEmail                   = "sender_email"
	AdminEmail                    = "admin_email"
	Port                          = "functions_customhandler_port"
	TimeZone                      = "time_zone"
	ReminderLeadDays              = "reminder_lead_days"
)

// New builds a viper instance with defaults and environment overrides.
// A dotenv file named by ENV_FILE (default ".env") is loaded first when present.
func New() (*viper.Viper, error) {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err == nil {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		slog.Info("loaded dotenv file", "path", path)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault(TransactionsTable, "transactions")
	v.SetDefault(StaffTable, "staff")
	v.SetDefault(UploadsContainer, "uploads")
	v.SetDefault(ReportsContainer, "reports")
	v.SetDefault(PaymentQueue, "payment-requests")
	v.SetDefault(ImportQueue, "csv-import")
	v.SetDefault(Port, "8080")
	v.SetDefault(TimeZone, "UTC")
	v.SetDefault(ReminderLeadDays, 3)
	for _, key := range []string{
		TableServiceURL, BlobServiceURL, QueueServiceURL,
		CommunicationServicesEndpoint, SenderEmail, AdminEmail,
	} {
		v.SetDefault(key, "")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v, nil
}

// Require returns the value of key or an error naming its environment variable.
func Require(v *viper.Viper, key string) (string, error) {
	val := strings.TrimSpace(v.GetString(key))
	if val == "" {
		return "", fmt.Errorf("%s environment variable is required", strings.ToUpper(key))
	}
	return val, nil
}
