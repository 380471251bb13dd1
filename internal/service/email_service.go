package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

// EmailService отправляет транзакционные письма игрокам лиги.
type EmailService interface {
	// SendPickReplacedNotice уведомляет игрока, что его пик выбыл и был
	// автоматически заменён следующим участником из его рейтинга.
	// replacementName пустой, если очередь замен исчерпана и команда сократилась.
	SendPickReplacedNotice(ctx context.Context, toEmail, eliminatedName, replacementName, idempotencyKey string) error
	// SendDraftDeadlineReminder напоминает игроку о приближающемся дедлайне драфта.
	SendDraftDeadlineReminder(ctx context.Context, toEmail, seasonName string, deadline time.Time) error
}

// NoopEmailService используется, когда отправка писем выключена в конфигурации.
type NoopEmailService struct{}

func (s *NoopEmailService) SendPickReplacedNotice(ctx context.Context, toEmail, eliminatedName, replacementName, idempotencyKey string) error {
	log.Printf("[EmailService] noop pick replaced notice to=%s eliminated=%s replacement=%s", toEmail, eliminatedName, replacementName)
	return nil
}

func (s *NoopEmailService) SendDraftDeadlineReminder(ctx context.Context, toEmail, seasonName string, deadline time.Time) error {
	log.Printf("[EmailService] noop draft deadline reminder to=%s season=%s", toEmail, seasonName)
	return nil
}

// ResendEmailService отправляет письма через REST API Resend.
type ResendEmailService struct {
	from   string
	client *resend.Client
}

func NewResendEmailService(apiKey, from string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendEmailService{
		from:   from,
		client: resend.NewClient(apiKey),
	}, nil
}

func (s *ResendEmailService) SendPickReplacedNotice(ctx context.Context, toEmail, eliminatedName, replacementName, idempotencyKey string) error {
	if toEmail == "" || eliminatedName == "" {
		return fmt.Errorf("toEmail and eliminatedName are required")
	}

	var text, html string
	if replacementName != "" {
		text = fmt.Sprintf("%s has been eliminated. %s from your ranking takes the open spot on your team.", eliminatedName, replacementName)
		html = fmt.Sprintf("<p><strong>%s</strong> has been eliminated.</p><p><strong>%s</strong> from your ranking takes the open spot on your team.</p>", eliminatedName, replacementName)
	} else {
		text = fmt.Sprintf("%s has been eliminated. No contestants remain in your ranking, so your team plays short.", eliminatedName)
		html = fmt.Sprintf("<p><strong>%s</strong> has been eliminated.</p><p>No contestants remain in your ranking, so your team plays short.</p>", eliminatedName)
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: "Your team has changed",
		Text:    text,
		Html:    html,
	}

	options := &resend.SendEmailOptions{}
	if strings.TrimSpace(idempotencyKey) != "" {
		options.IdempotencyKey = strings.TrimSpace(idempotencyKey)
	}

	return s.sendWithRetry(ctx, params, options)
}

func (s *ResendEmailService) SendDraftDeadlineReminder(ctx context.Context, toEmail, seasonName string, deadline time.Time) error {
	if toEmail == "" {
		return fmt.Errorf("toEmail is required")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: fmt.Sprintf("Draft closes soon: %s", seasonName),
		Text:    fmt.Sprintf("The draft for %s locks at %s. Adjust your ranking before then.", seasonName, deadline.Format(time.RFC1123)),
		Html:    fmt.Sprintf("<p>The draft for <strong>%s</strong> locks at %s.</p><p>Adjust your ranking before then.</p>", seasonName, deadline.Format(time.RFC1123)),
	}

	return s.sendWithRetry(ctx, params, &resend.SendEmailOptions{})
}

func (s *ResendEmailService) sendWithRetry(ctx context.Context, params *resend.SendEmailRequest, options *resend.SendEmailOptions) error {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		_, err := s.client.Emails.SendWithOptions(ctx, params, options)
		if err == nil {
			return nil
		}
		lastErr = err

		if wait, ok := resendRetryDelay(err, attempt); ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		return fmt.Errorf("resend send failed: %w", err)
	}

	return fmt.Errorf("resend send failed after retries: %w", lastErr)
}

func resendRetryDelay(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		if seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter)); convErr == nil && seconds > 0 {
			if seconds > 30 {
				seconds = 30
			}
			return time.Duration(seconds) * time.Second, true
		}
		return time.Duration(attempt+1) * time.Second, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && (netErr.Timeout() || netErr.Temporary()) {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "temporar") {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	return 0, false
}
