package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &emailService{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *emailService) SendBookingConfirmation(ctx context.Context, email, name, toolTitle string, totalCents int32) error {
	subject := fmt.Sprintf("Booking confirmed: %s", toolTitle)
	plainText := fmt.Sprintf(
		"Hello %s,\n\nYour booking for %s is confirmed. Total charged: $%.2f.\n\nBest regards,\nThe ToolShare Team",
		name, toolTitle, float64(totalCents)/100)
	return s.send(email, name, subject, plainText)
}

func (s *emailService) SendBookingNotice(ctx context.Context, ownerEmail, renterName, toolTitle string) error {
	subject := fmt.Sprintf("New booking for your %s", toolTitle)
	plainText := fmt.Sprintf(
		"Hello,\n\n%s has booked your %s. Check your dashboard for the pickup details.\n\nBest regards,\nThe ToolShare Team",
		renterName, toolTitle)
	return s.send(ownerEmail, "", subject, plainText)
}

func (s *emailService) SendPickupReminder(ctx context.Context, email, name, toolTitle string, startDate time.Time, pickupHour int32) error {
	subject := fmt.Sprintf("Pickup reminder: %s", toolTitle)
	plainText := fmt.Sprintf(
		"Hello %s,\n\nReminder: your rental of %s starts on %s at %02d:00.\n\nBest regards,\nThe ToolShare Team",
		name, toolTitle, startDate.Format("Monday, January 2"), pickupHour)
	return s.send(email, name, subject, plainText)
}

func (s *emailService) send(to, toName, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)

	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}
