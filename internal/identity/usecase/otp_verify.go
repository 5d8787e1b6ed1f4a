package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/keyfold/keyfold/internal/pkg/goerror"
	"github.com/keyfold/keyfold/internal/pkg/jwt"
)

type OtpVerifyInput struct {
	Email string `validate:"required,email"`
	Code  string `validate:"required,len=6,number"`
}

type OtpVerifyOutput struct {
	// OtpToken proves this email was verified; it is consumed by Register.
	OtpToken string
}

func (s *Usecase) OtpVerify(ctx context.Context, in OtpVerifyInput) (*OtpVerifyOutput, error) {
	ctx, span := s.startSpan(ctx, "OtpVerify")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ch, err := s.repoCache.GetChallenge(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "otp verify without outstanding challenge", "email", in.Email)
		return nil, goerror.NewBusiness("no verification code was requested", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get otp challenge", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	if now.After(ch.ExpiresAt) {
		slog.WarnContext(ctx, "otp challenge expired", "email", in.Email)
		return nil, goerror.NewBusiness("verification code has expired", goerror.CodeExpired)
	}

	if !s.totp.Validate(in.Code, ch.Secret, now) {
		slog.WarnContext(ctx, "otp code mismatch", "email", in.Email)
		return nil, goerror.NewBusiness("invalid verification code", goerror.CodeUnauthorized)
	}

	// The challenge is single-use; no proof is handed out unless it is retired.
	if err := s.repoCache.DeleteChallenge(ctx, in.Email); err != nil {
		slog.ErrorContext(ctx, "failed to delete otp challenge", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	// No account exists yet at this point, so the subject is zero; the email
	// claim is what Register checks against.
	token, err := s.jwt.Generate(0, in.Email, jwt.PurposeOtpProof)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp proof token", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &OtpVerifyOutput{OtpToken: token}, nil
}
