package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/keyfold/keyfold/internal/identity/entity"
	"github.com/keyfold/keyfold/internal/pkg/goerror"
)

type OtpRequestInput struct {
	Email string `validate:"required,email"`
}

func (s *Usecase) OtpRequest(ctx context.Context, in OtpRequestInput) error {
	ctx, span := s.startSpan(ctx, "OtpRequest")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	secret, err := s.totp.Generate(in.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp secret", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	now := s.clock.Now()
	code, err := s.totp.GenerateCode(secret, now)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	expiresAt := now.Add(s.otpWindow())

	// Cache TTL outruns the logical deadline so an expired challenge can be
	// distinguished from one that was never requested.
	if err := s.repoCache.SaveChallenge(ctx, entity.OtpChallenge{
		Email:      in.Email,
		Secret:     secret,
		IssuedCode: code,
		IssuedAt:   now,
		ExpiresAt:  expiresAt,
	}, s.otpWindow()*2); err != nil {
		slog.ErrorContext(ctx, "failed to save otp challenge", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	// The code only reaches the user through this event, so a publish
	// failure is a request failure.
	if err := s.repoMessaging.PublishOtpRequested(ctx, OtpRequestedEvent{
		Email:     in.Email,
		Code:      code,
		ExpiresAt: expiresAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish otp requested", "email", in.Email, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
