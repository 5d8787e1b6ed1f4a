package usecase

import (
	"context"
	"time"

	"github.com/keyfold/keyfold/internal/identity/entity"
	"github.com/keyfold/keyfold/internal/pkg/clock"
	"github.com/keyfold/keyfold/internal/pkg/config"
	"github.com/keyfold/keyfold/internal/pkg/hash"
	"github.com/keyfold/keyfold/internal/pkg/instrument"
	"github.com/keyfold/keyfold/internal/pkg/jwt"
	"github.com/keyfold/keyfold/internal/pkg/otp"
	"github.com/keyfold/keyfold/internal/pkg/uid"
	"github.com/keyfold/keyfold/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

// OtpRequestedEvent is published when an OTP code is issued for an email.
type OtpRequestedEvent struct {
	Email     string
	Code      string
	ExpiresAt time.Time
}

// PasswordForgotEvent is published when a password reset token is issued.
type PasswordForgotEvent struct {
	UserID     int64
	Email      string
	ResetToken string
}

type repoMessaging interface {
	PublishOtpRequested(ctx context.Context, msg OtpRequestedEvent) error
	PublishPasswordForgot(ctx context.Context, msg PasswordForgotEvent) error
}

type repoDB interface {
	GetIdentityByEmail(ctx context.Context, email string) (*entity.Identity, error)
	GetIdentityByID(ctx context.Context, id int64) (*entity.Identity, error)
	CreateIdentity(ctx context.Context, in entity.Identity) error
	SetResetToken(ctx context.Context, id int64, fingerprint string, expiry time.Time) error
	ResetPassword(ctx context.Context, id int64, passwordHash string) error
}

type repoCache interface {
	SaveChallenge(ctx context.Context, ch entity.OtpChallenge, ttl time.Duration) error
	GetChallenge(ctx context.Context, email string) (*entity.OtpChallenge, error)
	DeleteChallenge(ctx context.Context, email string) error
}

type Usecase struct {
	repoDB        repoDB
	repoCache     repoCache
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	hmac          hash.Hash
	password      hash.Hash
	uid           uid.NumberID
	totp          otp.OTP
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation
}

type Dependency struct {
	RepoDB        repoDB
	RepoCache     repoCache
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	HMAC          hash.Hash
	Password      hash.Hash
	UID           uid.NumberID
	Totp          otp.OTP
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoCache:     dep.RepoCache,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		hmac:          dep.HMAC,
		password:      dep.Password,
		uid:           dep.UID,
		totp:          dep.Totp,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}

func (s *Usecase) otpWindow() time.Duration {
	if d := s.cfg.GetHour("modules.identity.otp_ttl_hours"); d > 0 {
		return d
	}
	return time.Hour
}
