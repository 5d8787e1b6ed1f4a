package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/keyfold/keyfold/internal/pkg/goerror"
	"github.com/keyfold/keyfold/internal/pkg/jwt"
)

type PasswordForgotInput struct {
	Email string `validate:"required,email"`
}

type PasswordForgotOutput struct {
	// ResetToken is delivered to the user out of band; the HTTP layer never
	// echoes it back in the response.
	ResetToken string
}

// PasswordForgot issues a reset-proof token for an account. An unknown email
// returns the same success as a known one so the endpoint cannot be used to
// probe which addresses are registered.
func (s *Usecase) PasswordForgot(ctx context.Context, in PasswordForgotInput) (*PasswordForgotOutput, error) {
	ctx, span := s.startSpan(ctx, "PasswordForgot")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	identity, err := s.repoDB.GetIdentityByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "password forgot for unknown email", "email", in.Email)
		return &PasswordForgotOutput{}, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get identity by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	token, err := s.jwt.Generate(identity.ID, identity.Email, jwt.PurposeResetProof)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate reset proof token", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	fingerprint, err := s.hmac.Hash(token)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fingerprint reset token", "error", err)
		return nil, goerror.NewServer(err)
	}

	// Writing the fingerprint supersedes any earlier reset token for this
	// account; only the most recently issued one can redeem.
	expiry := s.clock.Now().Add(s.resetWindow())
	if err := s.repoDB.SetResetToken(ctx, identity.ID, string(fingerprint), expiry); err != nil {
		slog.ErrorContext(ctx, "failed to store reset token fingerprint", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishPasswordForgot(ctx, PasswordForgotEvent{
		UserID:     identity.ID,
		Email:      identity.Email,
		ResetToken: token,
	}); err != nil {
		// The token is already persisted; the user can retry the flow, so
		// delivery failure does not fail the request.
		slog.ErrorContext(ctx, "failed to publish password forgot event", "email", in.Email, "error", err)
	}

	return &PasswordForgotOutput{ResetToken: token}, nil
}

func (s *Usecase) resetWindow() time.Duration {
	if d := s.cfg.GetMinute("modules.identity.reset_ttl_minutes"); d > 0 {
		return d
	}
	return 60 * time.Minute
}
