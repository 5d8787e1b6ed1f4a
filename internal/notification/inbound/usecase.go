package inbound

import (
	"context"

	"github.com/keyfold/keyfold/internal/notification/usecase"
)

type uc interface {
	ConsumeOtpRequested(ctx context.Context, in usecase.ConsumeOtpRequestedInput) error
	ConsumePasswordForgot(ctx context.Context, in usecase.ConsumePasswordForgotInput) error
}
