package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/keyfold/keyfold/internal/identity/entity"
	"github.com/keyfold/keyfold/internal/pkg/goerror"
	"github.com/keyfold/keyfold/internal/pkg/jwt"
)

type RegisterInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,password"`
	OtpToken string `validate:"required"`
}

type RegisterOutput struct {
	UserID      int64
	Email       string
	AccessToken string
}

// Register creates an account for an email that already passed OTP
// verification. The OTP proof token is bound to a single email, so a token
// obtained for one address cannot register another.
func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	claims, err := s.jwt.Verify(in.OtpToken, jwt.PurposeOtpProof)
	if err != nil {
		slog.WarnContext(ctx, "invalid otp proof token", "email", in.Email, "error", err)
		return nil, goerror.NewBusiness("email verification is invalid or has expired", goerror.CodeUnauthorized)
	}

	if claims.UserEmail != in.Email {
		slog.WarnContext(ctx, "otp proof token email mismatch", "email", in.Email)
		return nil, goerror.NewBusiness("email verification is invalid or has expired", goerror.CodeUnauthorized)
	}

	hashed, err := s.password.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	identity := entity.Identity{
		ID:           s.uid.Generate(),
		Email:        in.Email,
		PasswordHash: string(hashed),
		IsVerified:   true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repoDB.CreateIdentity(ctx, identity); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return nil, goerror.NewBusiness("email is already registered", goerror.CodeConflict)
		}

		slog.ErrorContext(ctx, "failed to create identity", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	token, err := s.jwt.Generate(identity.ID, identity.Email, jwt.PurposeSession)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate session token", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &RegisterOutput{UserID: identity.ID, Email: identity.Email, AccessToken: token}, nil
}
