package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/keyfold/keyfold/internal/pkg/goerror"
	"github.com/keyfold/keyfold/internal/pkg/jwt"
)

type ProfileOutput struct {
	UserID     int64
	Email      string
	IsVerified bool
	CreatedAt  time.Time
}

func (s *Usecase) Profile(ctx context.Context) (*ProfileOutput, error) {
	ctx, span := s.startSpan(ctx, "Profile")
	defer span.End()

	claims := jwt.GetAuth(ctx)
	if claims == nil {
		return nil, goerror.NewBusiness("not authenticated", goerror.CodeUnauthorized)
	}

	identity, err := s.repoDB.GetIdentityByID(ctx, claims.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("account not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get identity by id", "user_id", claims.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &ProfileOutput{
		UserID:     identity.ID,
		Email:      identity.Email,
		IsVerified: identity.IsVerified,
		CreatedAt:  identity.CreatedAt,
	}, nil
}
