package usecase

import (
	"context"
	"log/slog"

	"github.com/keyfold/keyfold/internal/pkg/mail"
)

const otpRequestedSubject = "Your verification code"

const otpRequestedBody = `<p>Hello,</p>
<p>Your {{.app_name}} verification code is:</p>
<p style="font-size:24px;font-weight:bold;letter-spacing:4px;">{{.code}}</p>
<p>The code expires at {{.expires_at}}. If you did not request it, you can ignore this email.</p>
<p>&copy; {{.year}} {{.app_name}}</p>`

type ConsumeOtpRequestedInput struct {
	Email     string `validate:"required,email"`
	Code      string `validate:"required,len=6,number"`
	ExpiresAt string `validate:"required"`
}

func (s *Usecase) ConsumeOtpRequested(ctx context.Context, in ConsumeOtpRequestedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOtpRequested")
	defer span.End()

	// Malformed payloads are dropped, not requeued; redelivery cannot fix them.
	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "invalid otp requested payload", "error", err)
		return nil
	}

	data := s.baseEmailTemplateData()
	data["code"] = in.Code
	data["expires_at"] = in.ExpiresAt

	body, err := s.renderTemplate("otp_requested", otpRequestedBody, data)
	if err != nil {
		slog.ErrorContext(ctx, "failed to render otp email body", "email", in.Email, "error", err)
		return nil
	}

	if err := s.sendEmail(ctx, mail.Message{
		To:       []string{in.Email},
		Subject:  otpRequestedSubject,
		HTMLBody: body,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send otp email", "email", in.Email, "error", err)
		return err
	}

	return nil
}
