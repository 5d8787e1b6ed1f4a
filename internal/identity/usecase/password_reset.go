package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/keyfold/keyfold/internal/pkg/goerror"
	"github.com/keyfold/keyfold/internal/pkg/jwt"
)

type PasswordResetInput struct {
	ResetToken  string `validate:"required"`
	NewPassword string `validate:"required,password"`
}

// PasswordReset redeems a reset-proof token and replaces the account password.
// The token must match the fingerprint stored on the account, so issuing a new
// token invalidates all earlier ones, and a redeemed token cannot be replayed.
func (s *Usecase) PasswordReset(ctx context.Context, in PasswordResetInput) error {
	ctx, span := s.startSpan(ctx, "PasswordReset")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	claims, err := s.jwt.Verify(in.ResetToken, jwt.PurposeResetProof)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return goerror.NewBusiness("reset token has expired", goerror.CodeExpired)
	}
	if err != nil {
		slog.WarnContext(ctx, "invalid reset token", "error", err)
		return goerror.NewBusiness("reset token is invalid", goerror.CodeUnauthorized)
	}

	identity, err := s.repoDB.GetIdentityByID(ctx, claims.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "reset token for missing identity", "user_id", claims.UserID)
		return goerror.NewBusiness("account not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get identity by id", "user_id", claims.UserID, "error", err)
		return goerror.NewServer(err)
	}

	if identity.ResetTokenHash == "" || !s.hmac.Verify(identity.ResetTokenHash, in.ResetToken) {
		slog.WarnContext(ctx, "reset token fingerprint mismatch", "user_id", identity.ID)
		return goerror.NewBusiness("reset token is invalid", goerror.CodeUnauthorized)
	}

	if s.clock.Now().After(identity.ResetTokenExpiry) {
		return goerror.NewBusiness("reset token has expired", goerror.CodeExpired)
	}

	hashed, err := s.password.Hash(in.NewPassword)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.ResetPassword(ctx, identity.ID, string(hashed)); err != nil {
		slog.ErrorContext(ctx, "failed to reset password", "user_id", identity.ID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
