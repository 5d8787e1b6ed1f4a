package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/keyfold/keyfold/internal/identity/entity"
	"github.com/keyfold/keyfold/internal/pkg/goerror"
	"github.com/keyfold/keyfold/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type DB struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{
		conn: conn,
		ins:  ins,
	}
}

// - 23505 unique violation → goerror.ErrConflict
// - no rows → goerror.ErrNotFound
func (s *DB) mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return goerror.ErrConflict
	}

	return err
}

func (s *DB) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.outbound.db").Start(ctx, name)
}

func (s *DB) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) && !errors.Is(err, goerror.ErrConflict) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

const identityColumns = `id, email, password_hash, is_verified,
	COALESCE(reset_token_hash, ''), COALESCE(reset_token_expiry, 'epoch'::timestamptz),
	created_at, updated_at`

func (s *DB) scanIdentity(row pgx.Row) (*entity.Identity, error) {
	var out entity.Identity
	err := row.Scan(
		&out.ID,
		&out.Email,
		&out.PasswordHash,
		&out.IsVerified,
		&out.ResetTokenHash,
		&out.ResetTokenExpiry,
		&out.CreatedAt,
		&out.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *DB) GetIdentityByEmail(ctx context.Context, email string) (out *entity.Identity, err error) {
	ctx, span := s.startSpan(ctx, "GetIdentityByEmail")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE email = $1`, email)

	out, err = s.scanIdentity(row)
	if err != nil {
		return nil, s.mapError(err)
	}
	return out, nil
}

func (s *DB) GetIdentityByID(ctx context.Context, id int64) (out *entity.Identity, err error) {
	ctx, span := s.startSpan(ctx, "GetIdentityByID")
	defer func() { s.endSpan(span, err) }()

	row := s.conn.QueryRow(ctx,
		`SELECT `+identityColumns+` FROM identities WHERE id = $1`, id)

	out, err = s.scanIdentity(row)
	if err != nil {
		return nil, s.mapError(err)
	}
	return out, nil
}

func (s *DB) CreateIdentity(ctx context.Context, in entity.Identity) (err error) {
	ctx, span := s.startSpan(ctx, "CreateIdentity")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`INSERT INTO identities (id, email, password_hash, is_verified, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		in.ID, in.Email, in.PasswordHash, in.IsVerified, in.CreatedAt, in.UpdatedAt)

	err = s.mapError(err)
	return err
}

func (s *DB) SetResetToken(ctx context.Context, id int64, fingerprint string, expiry time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "SetResetToken")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`UPDATE identities
		 SET reset_token_hash = $2, reset_token_expiry = $3, updated_at = now()
		 WHERE id = $1`,
		id, fingerprint, expiry)
	if err != nil {
		err = s.mapError(err)
		return err
	}
	if tag.RowsAffected() == 0 {
		err = goerror.ErrNotFound
		return err
	}
	return nil
}

func (s *DB) ResetPassword(ctx context.Context, id int64, passwordHash string) (err error) {
	ctx, span := s.startSpan(ctx, "ResetPassword")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`UPDATE identities
		 SET password_hash = $2, reset_token_hash = NULL, reset_token_expiry = NULL, updated_at = now()
		 WHERE id = $1`,
		id, passwordHash)
	if err != nil {
		err = s.mapError(err)
		return err
	}
	if tag.RowsAffected() == 0 {
		err = goerror.ErrNotFound
		return err
	}
	return nil
}
