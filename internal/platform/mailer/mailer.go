// Copyright (c) 2026 AccountHub. All rights reserved.

/*
Package mailer delivers transactional notifications to account holders.

The current implementation writes messages to the structured log instead of
an SMTP relay. Callers depend on the [Sender] interface, so swapping in a
real provider later touches only the composition root.
*/
package mailer

import (
	"context"
	"log/slog"
)

// Sender delivers account-lifecycle notifications.
type Sender interface {
	// SendPasswordReset delivers the recovery token for a password reset.
	SendPasswordReset(ctx context.Context, email, token string) error

	// SendPasswordChanged notifies the holder that their password was replaced.
	SendPasswordChanged(ctx context.Context, email string) error

	// SendVerification delivers the email ownership verification token.
	SendVerification(ctx context.Context, email, token string) error
}

// LogSender is a [Sender] that emits each message as a log record.
//
// Useful for development and test environments where no mail relay exists.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a log-backed mail sender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// SendPasswordReset logs the recovery token for the given address.
func (s *LogSender) SendPasswordReset(ctx context.Context, email, token string) error {
	s.logger.InfoContext(ctx, "mail_password_reset",
		slog.String("to", email),
		slog.String("reset_token", token),
	)
	return nil
}

// SendPasswordChanged logs a password-change notification.
func (s *LogSender) SendPasswordChanged(ctx context.Context, email string) error {
	s.logger.InfoContext(ctx, "mail_password_changed",
		slog.String("to", email),
	)
	return nil
}

// SendVerification logs the email verification token.
func (s *LogSender) SendVerification(ctx context.Context, email, token string) error {
	s.logger.InfoContext(ctx, "mail_verification",
		slog.String("to", email),
		slog.String("verify_token", token),
	)
	return nil
}
