package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/rocjay1/payroll-analyzer/internal/config"
	"github.com/rocjay1/payroll-analyzer/internal/models"
	"github.com/rocjay1/payroll-analyzer/internal/payroll"
	"github.com/spf13/viper"
)

const communicationScope = "https://communication.azure.com//.default"

// EmailService sends mail through the Azure Communication Services REST API.
type EmailService struct {
	endpoint   string
	sender     string
	cred       azcore.TokenCredential
	httpClient *http.Client
}

// NewEmailService creates an EmailService. A nil cred falls back to DefaultAzureCredential.
func NewEmailService(conf *viper.Viper, cred azcore.TokenCredential) (*EmailService, error) {
	endpoint, err := config.Require(conf, config.CommunicationServicesEndpoint)
	if err != nil {
		return nil, err
	}
	sender, err := config.Require(conf, config.SenderEmail)
	if err != nil {
		return nil, err
	}

	if cred == nil {
		cred, err = newDefaultAzureCredential()
		if err != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", err)
		}
	}

	return &EmailService{
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		sender:     sender,
		cred:       cred,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type emailAddress struct {
	Address string `json:"address"`
}

type emailRecipients struct {
	To []emailAddress `json:"to"`
}

type emailContent struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type emailRequest struct {
	SenderAddress string          `json:"senderAddress"`
	Content       emailContent    `json:"content"`
	Recipients    emailRecipients `json:"recipients"`
}

// SendEmail sends an HTML message to the given recipients.
func (s *EmailService) SendEmail(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients for %q", subject)
	}

	token, err := s.cred.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{communicationScope},
	})
	if err != nil {
		return fmt.Errorf("failed to get access token: %w", err)
	}

	recipients := make([]emailAddress, len(to))
	for i, addr := range to {
		recipients[i] = emailAddress{Address: addr}
	}

	jsonBody, err := json.Marshal(emailRequest{
		SenderAddress: s.sender,
		Content:       emailContent{Subject: subject, HTML: body},
		Recipients:    emailRecipients{To: recipients},
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	url := s.endpoint + "/emails:send?api-version=2023-03-31"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token.Token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("email request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	slog.Info("email sent", "recipients", to, "subject", subject)
	return nil
}

// SendDueReminder mails the unpaid recurring payments still due in p.
func (s *EmailService) SendDueReminder(ctx context.Context, to []string, p models.Period, rows []payroll.Row, summary payroll.BatchSummary) error {
	subject := fmt.Sprintf("Payroll - %d payments still due for %s", len(rows), p)
	return s.SendEmail(ctx, to, subject, RenderReminderBody(p, rows, summary))
}

// SendImportErrors mails the problems found in an uploaded CSV.
func (s *EmailService) SendImportErrors(ctx context.Context, to []string, blobName string, errs []string) error {
	return s.SendEmail(ctx, to, "Payroll - Import Failed", RenderImportErrorBody(blobName, errs))
}
