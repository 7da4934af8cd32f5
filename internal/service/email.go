package service

import (
	"context"
	"fmt"

	"vehicle-rental-backend/internal/domain"
	"vehicle-rental-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const bookingDateLayout = "02/01/2006 15:04"

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// NewEmailService sends through SendGrid. With an empty apiKey messages are logged instead.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) SendBookingExpiredNotification(ctx context.Context, email, name string, b *domain.Booking) error {
	subject := "Your booking request has expired"
	plain := fmt.Sprintf("Hello %s,\n\nYour booking request %s for %s was not confirmed before its start time and has expired. No charge was made.\n\nThe Vehicle Rental Team",
		name, b.ID, b.StartDate.Format(bookingDateLayout))
	html := fmt.Sprintf(`<p>Hello %s,</p><p>Your booking request <strong>%s</strong> for %s was not confirmed before its start time and has expired. No charge was made.</p><p>The Vehicle Rental Team</p>`,
		name, b.ID, b.StartDate.Format(bookingDateLayout))
	return s.send(ctx, email, name, subject, plain, html)
}

func (s *emailService) SendTripReminder(ctx context.Context, email, name string, b *domain.Booking) error {
	subject := "Your trip starts soon"
	pickup := b.OriginCity
	if pickup == "" {
		pickup = "the agreed pickup location"
	}
	plain := fmt.Sprintf("Hello %s,\n\nReminder: your booking %s starts at %s. Pick up the vehicle at %s.\nSecurity deposit: %s\n\nThe Vehicle Rental Team",
		name, b.ID, b.StartDate.Format(bookingDateLayout), pickup, formatCents(b.SecurityDepositCents))
	html := fmt.Sprintf(`<p>Hello %s,</p><p>Reminder: your booking <strong>%s</strong> starts at %s. Pick up the vehicle at %s.</p><p>Security deposit: %s</p><p>The Vehicle Rental Team</p>`,
		name, b.ID, b.StartDate.Format(bookingDateLayout), pickup, formatCents(b.SecurityDepositCents))
	return s.send(ctx, email, name, subject, plain, html)
}

func (s *emailService) send(ctx context.Context, to, toName, subject, plain, html string) error {
	if s.apiKey == "" {
		logger.InfoContext(ctx, "email delivery disabled, skipping", "to", to, "subject", subject)
		return nil
	}

	message := mail.NewSingleEmail(mail.NewEmail(s.fromName, s.fromEmail), subject, mail.NewEmail(toName, to), plain, html)

	logger.ExternalServiceCall("sendgrid", "Send", "to", to, "subject", subject)
	response, err := sendgrid.NewSendClient(s.apiKey).SendWithContext(ctx, message)
	if err != nil {
		err = fmt.Errorf("failed to send email: %w", err)
		logger.ExternalServiceResult("sendgrid", "Send", err, "to", to)
		return err
	}
	if response.StatusCode >= 400 {
		err := fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "Send", err, "to", to)
		return err
	}
	logger.ExternalServiceResult("sendgrid", "Send", nil, "to", to, "status", response.StatusCode)
	return nil
}

func formatCents(c int64) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s%d.%02d", sign, c/100, c%100)
}
