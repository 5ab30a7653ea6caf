package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/rocjay1/payroll-analyzer/internal/config"
	"github.com/spf13/viper"
)

// BlobService stores uploaded CSV files and archived monthly summaries.
type BlobService struct {
	client     *azblob.Client
	containers sync.Map // container name -> struct{}
}

// NewBlobService creates a BlobService for the configured account.
func NewBlobService(conf *viper.Viper) (*BlobService, error) {
	blobURL, err := config.Require(conf, config.BlobServiceURL)
	if err != nil {
		return nil, err
	}

	slog.Info("initializing blob service", "blob_url", blobURL)
	client, err := storageAuth("blob", blobURL,
		func(url, name, key string) (*azblob.Client, error) {
			cred, err := azblob.NewSharedKeyCredential(name, key)
			if err != nil {
				return nil, fmt.Errorf("failed to create shared key credential: %w", err)
			}
			return azblob.NewClientWithSharedKeyCredential(url, cred, nil)
		},
		func(url string, cred azcore.TokenCredential) (*azblob.Client, error) {
			return azblob.NewClient(url, cred, nil)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	slog.Info("blob service initialized successfully")
	return &BlobService{client: client}, nil
}

// ensureContainer creates the container the first time this process writes to it.
func (s *BlobService) ensureContainer(ctx context.Context, containerName string) error {
	if _, ok := s.containers.Load(containerName); ok {
		return nil
	}
	_, err := s.client.CreateContainer(ctx, containerName, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return fmt.Errorf("failed to create container %s: %w", containerName, err)
	}
	s.containers.Store(containerName, struct{}{})
	return nil
}

// UploadText writes text to containerName/blobName, replacing any existing blob.
func (s *BlobService) UploadText(ctx context.Context, containerName, blobName, text string) error {
	slog.Info("uploading blob", "container", containerName, "blob_name", blobName, "size_bytes", len(text))
	if err := s.ensureContainer(ctx, containerName); err != nil {
		return err
	}

	if _, err := s.client.UploadBuffer(ctx, containerName, blobName, []byte(text), nil); err != nil {
		slog.Error("failed to upload blob", "container", containerName, "blob_name", blobName, "error", err)
		return fmt.Errorf("failed to upload blob %s/%s: %w", containerName, blobName, err)
	}
	return nil
}

// DownloadText returns the contents of containerName/blobName.
func (s *BlobService) DownloadText(ctx context.Context, containerName, blobName string) (string, error) {
	slog.Info("downloading blob", "container", containerName, "blob_name", blobName)
	resp, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return "", fmt.Errorf("failed to download blob %s/%s: %w", containerName, blobName, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read blob content: %w", err)
	}

	slog.Info("downloaded blob", "container", containerName, "blob_name", blobName, "size_bytes", len(data))
	return string(data), nil
}
