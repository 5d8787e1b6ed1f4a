package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/keyfold/keyfold/internal/identity/entity"
	"github.com/keyfold/keyfold/internal/pkg/goerror"
	"github.com/keyfold/keyfold/internal/pkg/instrument"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const challengeKeyPrefix = "identity:otp:"

// Cache stores outstanding OTP challenges in Redis, keyed by email. The
// Redis TTL only bounds storage; the logical deadline lives inside the
// payload so expiry and absence remain distinguishable.
type Cache struct {
	client *redis.Client
	ins    instrument.Instrumentation
}

func NewCache(client *redis.Client, ins instrument.Instrumentation) *Cache {
	return &Cache{
		client: client,
		ins:    ins,
	}
}

func (s *Cache) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.outbound.cache").Start(ctx, name)
}

func (s *Cache) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *Cache) SaveChallenge(ctx context.Context, ch entity.OtpChallenge, ttl time.Duration) (err error) {
	ctx, span := s.startSpan(ctx, "SaveChallenge")
	defer func() { s.endSpan(span, err) }()

	payload, err := json.Marshal(ch)
	if err != nil {
		return err
	}

	err = s.client.Set(ctx, challengeKeyPrefix+ch.Email, payload, ttl).Err()
	return err
}

func (s *Cache) GetChallenge(ctx context.Context, email string) (out *entity.OtpChallenge, err error) {
	ctx, span := s.startSpan(ctx, "GetChallenge")
	defer func() { s.endSpan(span, err) }()

	payload, err := s.client.Get(ctx, challengeKeyPrefix+email).Bytes()
	if errors.Is(err, redis.Nil) {
		err = goerror.ErrNotFound
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	var ch entity.OtpChallenge
	if err = json.Unmarshal(payload, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

func (s *Cache) DeleteChallenge(ctx context.Context, email string) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteChallenge")
	defer func() { s.endSpan(span, err) }()

	err = s.client.Del(ctx, challengeKeyPrefix+email).Err()
	return err
}
