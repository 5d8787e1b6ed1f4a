package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/keyfold/keyfold/internal/pkg/goerror"
	"github.com/keyfold/keyfold/internal/pkg/jwt"
)

type LoginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type LoginOutput struct {
	UserID      int64
	Email       string
	AccessToken string
}

func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	identity, err := s.repoDB.GetIdentityByEmail(ctx, in.Email)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("account not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get identity by email", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	if !s.password.Verify(identity.PasswordHash, in.Password) {
		slog.WarnContext(ctx, "login with wrong password", "email", in.Email)
		return nil, goerror.NewBusiness("invalid email or password", goerror.CodeUnauthorized)
	}

	token, err := s.jwt.Generate(identity.ID, identity.Email, jwt.PurposeSession)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate session token", "email", in.Email, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &LoginOutput{UserID: identity.ID, Email: identity.Email, AccessToken: token}, nil
}
