package services

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

const (
	// Well-known Azurite development account.
	azuriteAccountName = "devstoreaccount1"
	azuriteAccountKey  = "Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw=="
)

// isLocal reports whether serviceURL points at the storage emulator.
// Managed storage endpoints are always https.
func isLocal(serviceURL string) bool {
	return strings.HasPrefix(serviceURL, "http://")
}

// storageAuth picks the credential for a storage endpoint. Exactly one of the
// two constructors is called: shared key against Azurite, managed identity
// everywhere else.
func storageAuth[C any](
	service, serviceURL string,
	sharedKey func(url, name, key string) (C, error),
	identity func(url string, cred azcore.TokenCredential) (C, error),
) (C, error) {
	if isLocal(serviceURL) {
		slog.Info("using Azurite shared key credentials", "service", service)
		return sharedKey(serviceURL, azuriteAccountName, azuriteAccountKey)
	}

	var zero C
	cred, err := newDefaultAzureCredential()
	if err != nil {
		return zero, fmt.Errorf("failed to create default azure credential: %w", err)
	}
	return identity(serviceURL, cred)
}

func newDefaultAzureCredential() (azcore.TokenCredential, error) {
	slog.Info("using default Azure credentials")
	return azidentity.NewDefaultAzureCredential(nil)
}
