package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"gatekeeper-bot/internal/logger"
)

type sendGridEmailService struct {
	apiKey     string
	fromEmail  string
	fromName   string
	adminEmail string
}

func NewSendGridEmailService(apiKey, fromEmail, fromName, adminEmail string) EmailService {
	return &sendGridEmailService{
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		fromName:   fromName,
		adminEmail: adminEmail,
	}
}

func (s *sendGridEmailService) SendSweepSummary(ctx context.Context, subject, body string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail("", s.adminEmail)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	logger.ExternalServiceCall("sendgrid", "send", "to", s.adminEmail)
	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	logger.ExternalServiceResult("sendgrid", "send", err)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}
