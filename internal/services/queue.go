package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue/queueerror"
	"github.com/rocjay1/payroll-analyzer/internal/config"
	"github.com/spf13/viper"
)

// QueueService publishes payment requests and import jobs to Azure Queue Storage.
type QueueService struct {
	serviceClient *azqueue.ServiceClient
	queues        sync.Map // queue name -> struct{}
}

// NewQueueService creates a QueueService for the configured account.
func NewQueueService(conf *viper.Viper) (*QueueService, error) {
	queueURL, err := config.Require(conf, config.QueueServiceURL)
	if err != nil {
		return nil, err
	}

	slog.Info("initializing queue service", "queue_url", queueURL)
	client, err := storageAuth("queue", queueURL,
		func(url, name, key string) (*azqueue.ServiceClient, error) {
			cred, err := azqueue.NewSharedKeyCredential(name, key)
			if err != nil {
				return nil, fmt.Errorf("failed to create shared key credential: %w", err)
			}
			return azqueue.NewServiceClientWithSharedKeyCredential(url, cred, nil)
		},
		func(url string, cred azcore.TokenCredential) (*azqueue.ServiceClient, error) {
			return azqueue.NewServiceClient(url, cred, nil)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create queue service client: %w", err)
	}

	slog.Info("queue service initialized successfully")
	return &QueueService{serviceClient: client}, nil
}

// EnqueueMessage serialises message as JSON and adds it to queueName.
// The payload is base64 encoded because the Functions host expects that by default.
func (s *QueueService) EnqueueMessage(ctx context.Context, queueName string, message any) error {
	queueClient := s.serviceClient.NewQueueClient(queueName)

	if _, ok := s.queues.Load(queueName); !ok {
		_, err := queueClient.Create(ctx, nil)
		if err != nil && !queueerror.HasCode(err, queueerror.QueueAlreadyExists) {
			return fmt.Errorf("failed to create queue %s: %w", queueName, err)
		}
		s.queues.Store(queueName, struct{}{})
	}

	msgBytes, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(msgBytes)
	if _, err := queueClient.EnqueueMessage(ctx, encoded, nil); err != nil {
		slog.Error("failed to enqueue message", "queue", queueName, "error", err)
		return fmt.Errorf("failed to enqueue message to %s: %w", queueName, err)
	}

	slog.Info("enqueued message", "queue", queueName, "size_bytes", len(msgBytes))
	return nil
}
