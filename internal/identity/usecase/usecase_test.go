package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/keyfold/keyfold/internal/identity/entity"
	"github.com/keyfold/keyfold/internal/pkg/config"
	"github.com/keyfold/keyfold/internal/pkg/goerror"
	"github.com/keyfold/keyfold/internal/pkg/hash"
	"github.com/keyfold/keyfold/internal/pkg/instrument"
	"github.com/keyfold/keyfold/internal/pkg/jwt"
	"github.com/keyfold/keyfold/internal/pkg/otp"
	"github.com/keyfold/keyfold/internal/pkg/validator"
	pqotp "github.com/pquerna/otp"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeNumberID struct{ next int64 }

func (f *fakeNumberID) Generate() int64 {
	f.next++
	return f.next
}

type fakeStringID struct{ next int64 }

func (f *fakeStringID) Generate() string {
	f.next++
	return fmt.Sprintf("jti-%d", f.next)
}

type fakeDB struct {
	mu      sync.Mutex
	byEmail map[string]*entity.Identity
	byID    map[int64]*entity.Identity

	createErr error
}

func newFakeDB() *fakeDB {
	return &fakeDB{
		byEmail: make(map[string]*entity.Identity),
		byID:    make(map[int64]*entity.Identity),
	}
}

func (f *fakeDB) GetIdentityByEmail(_ context.Context, email string) (*entity.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.byEmail[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeDB) GetIdentityByID(_ context.Context, id int64) (*entity.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.byID[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (f *fakeDB) CreateIdentity(_ context.Context, in entity.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[in.Email]; ok {
		return goerror.ErrConflict
	}
	row := in
	f.byEmail[in.Email] = &row
	f.byID[in.ID] = &row
	return nil
}

func (f *fakeDB) SetResetToken(_ context.Context, id int64, fingerprint string, expiry time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.byID[id]
	if !ok {
		return goerror.ErrNotFound
	}
	row.ResetTokenHash = fingerprint
	row.ResetTokenExpiry = expiry
	return nil
}

func (f *fakeDB) ResetPassword(_ context.Context, id int64, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	row, ok := f.byID[id]
	if !ok {
		return goerror.ErrNotFound
	}
	row.PasswordHash = passwordHash
	row.ResetTokenHash = ""
	row.ResetTokenExpiry = time.Time{}
	return nil
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]entity.OtpChallenge

	saveErr error
	delErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]entity.OtpChallenge)}
}

func (f *fakeCache) SaveChallenge(_ context.Context, ch entity.OtpChallenge, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.saveErr != nil {
		return f.saveErr
	}
	f.entries[ch.Email] = ch
	return nil
}

func (f *fakeCache) GetChallenge(_ context.Context, email string) (*entity.OtpChallenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch, ok := f.entries[email]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	return &ch, nil
}

func (f *fakeCache) DeleteChallenge(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.delErr != nil {
		return f.delErr
	}
	delete(f.entries, email)
	return nil
}

type fakeMessaging struct {
	mu            sync.Mutex
	otpRequested  []OtpRequestedEvent
	forgotEvents  []PasswordForgotEvent
	otpPublishErr error
}

func (f *fakeMessaging) PublishOtpRequested(_ context.Context, msg OtpRequestedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.otpPublishErr != nil {
		return f.otpPublishErr
	}
	f.otpRequested = append(f.otpRequested, msg)
	return nil
}

func (f *fakeMessaging) PublishPasswordForgot(_ context.Context, msg PasswordForgotEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.forgotEvents = append(f.forgotEvents, msg)
	return nil
}

type fixture struct {
	uc    *Usecase
	db    *fakeDB
	cache *fakeCache
	mq    *fakeMessaging
	clock *fakeClock
	totp  *otp.TOTP
	jwt   jwt.JWT
	hmac  hash.Hash
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clk := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}

	cfg, err := config.NewViperFromBytes("yaml", []byte(
		"modules:\n  identity:\n    otp_ttl_hours: 1\n    reset_ttl_minutes: 60\n"))
	if err != nil {
		t.Fatalf("NewViperFromBytes() error = %v", err)
	}
	t.Cleanup(func() { _ = cfg.Close() })

	jwtSvc, err := jwt.NewHS512(jwt.Config{
		Secret:    bytes.Repeat([]byte("k"), 64),
		Issuer:    "keyfold",
		Audiences: []string{"keyfold"},
		TTL:       60 * time.Minute,
		Clock:     clk,
		UUID:      &fakeStringID{},
	})
	if err != nil {
		t.Fatalf("jwt.NewHS512() error = %v", err)
	}

	db := newFakeDB()
	cache := newFakeCache()
	mq := &fakeMessaging{}
	totp := otp.NewTOTP("keyfold", 0, 0, pqotp.DigitsSix)
	hmacHash := hash.NewHMACSHA256("fingerprint-secret")

	uc := New(Dependency{
		RepoDB:        db,
		RepoCache:     cache,
		RepoMessaging: mq,
		Validator:     v10,
		Config:        cfg,
		HMAC:          hmacHash,
		Password:      hash.NewBcrypt(4, ""),
		UID:           &fakeNumberID{},
		Totp:          totp,
		Clock:         clk,
		JWT:           jwtSvc,
		Instrument:    instrument.NewNoop(),
	})

	return &fixture{uc: uc, db: db, cache: cache, mq: mq, clock: clk, totp: totp, jwt: jwtSvc, hmac: hmacHash}
}

func asBusiness(t *testing.T, err error, code goerror.Code) {
	t.Helper()

	var ge *goerror.Error
	if !errors.As(err, &ge) {
		t.Fatalf("error = %v, want *goerror.Error", err)
	}
	if ge.Code() != code {
		t.Fatalf("error code = %v, want %v", ge.Code(), code)
	}
}

// register walks the full verification flow and returns the created account.
func (f *fixture) register(t *testing.T, email, password string) *RegisterOutput {
	t.Helper()

	ctx := context.Background()
	if err := f.uc.OtpRequest(ctx, OtpRequestInput{Email: email}); err != nil {
		t.Fatalf("OtpRequest() error = %v", err)
	}

	f.mq.mu.Lock()
	code := f.mq.otpRequested[len(f.mq.otpRequested)-1].Code
	f.mq.mu.Unlock()

	verified, err := f.uc.OtpVerify(ctx, OtpVerifyInput{Email: email, Code: code})
	if err != nil {
		t.Fatalf("OtpVerify() error = %v", err)
	}

	out, err := f.uc.Register(ctx, RegisterInput{Email: email, Password: password, OtpToken: verified.OtpToken})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	return out
}

func TestUsecaseOtpRequest(t *testing.T) {
	t.Run("SuccessPublishesCodeAndStoresChallenge", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		err := f.uc.OtpRequest(context.Background(), OtpRequestInput{Email: " User@Example.COM "})

		// Assert
		if err != nil {
			t.Fatalf("OtpRequest() error = %v", err)
		}
		ch, err := f.cache.GetChallenge(context.Background(), "user@example.com")
		if err != nil {
			t.Fatalf("GetChallenge() error = %v", err)
		}
		if got := len(f.mq.otpRequested); got != 1 {
			t.Fatalf("published events = %d, want 1", got)
		}
		ev := f.mq.otpRequested[0]
		if ev.Email != "user@example.com" {
			t.Fatalf("event email = %q, want %q", ev.Email, "user@example.com")
		}
		if len(ev.Code) != 6 {
			t.Fatalf("code length = %d, want 6", len(ev.Code))
		}
		if !f.totp.Validate(ev.Code, ch.Secret, f.clock.Now()) {
			t.Fatalf("published code does not validate against stored secret")
		}
		if want := f.clock.Now().Add(time.Hour); !ch.ExpiresAt.Equal(want) {
			t.Fatalf("challenge ExpiresAt = %v, want %v", ch.ExpiresAt, want)
		}
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		err := f.uc.OtpRequest(context.Background(), OtpRequestInput{Email: "not-an-email"})

		// Assert
		asBusiness(t, err, goerror.CodeInvalidInput)
	})

	t.Run("PublishFailureFailsRequest", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.mq.otpPublishErr = errors.New("broker down")

		// Act
		err := f.uc.OtpRequest(context.Background(), OtpRequestInput{Email: "user@example.com"})

		// Assert
		if err == nil {
			t.Fatalf("OtpRequest() error = nil, want publish failure surfaced")
		}
	})
}

func TestUsecaseOtpVerify(t *testing.T) {
	request := func(t *testing.T, f *fixture, email string) string {
		t.Helper()
		if err := f.uc.OtpRequest(context.Background(), OtpRequestInput{Email: email}); err != nil {
			t.Fatalf("OtpRequest() error = %v", err)
		}
		return f.mq.otpRequested[len(f.mq.otpRequested)-1].Code
	}

	t.Run("SuccessIssuesProofAndConsumesChallenge", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		code := request(t, f, "user@example.com")

		// Act
		out, err := f.uc.OtpVerify(context.Background(), OtpVerifyInput{Email: "user@example.com", Code: code})

		// Assert
		if err != nil {
			t.Fatalf("OtpVerify() error = %v", err)
		}
		claims, err := f.jwt.Verify(out.OtpToken, jwt.PurposeOtpProof)
		if err != nil {
			t.Fatalf("Verify(otp token) error = %v", err)
		}
		if claims.UserEmail != "user@example.com" {
			t.Fatalf("claims email = %q, want %q", claims.UserEmail, "user@example.com")
		}
		if _, err := f.cache.GetChallenge(context.Background(), "user@example.com"); !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("challenge still present after verify, err = %v", err)
		}
	})

	t.Run("CodeValidWithinSkew", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		code := request(t, f, "user@example.com")
		f.clock.Advance(time.Hour) // window edge, one step back but inside skew

		// Act
		_, err := f.uc.OtpVerify(context.Background(), OtpVerifyInput{Email: "user@example.com", Code: code})

		// Assert
		if err != nil {
			t.Fatalf("OtpVerify() at skew edge error = %v", err)
		}
	})

	t.Run("WrongCode", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		code := request(t, f, "user@example.com")
		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}

		// Act
		_, err := f.uc.OtpVerify(context.Background(), OtpVerifyInput{Email: "user@example.com", Code: wrong})

		// Assert
		asBusiness(t, err, goerror.CodeUnauthorized)
	})

	t.Run("ExpiredChallenge", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		code := request(t, f, "user@example.com")
		f.clock.Advance(time.Hour + time.Second)

		// Act
		_, err := f.uc.OtpVerify(context.Background(), OtpVerifyInput{Email: "user@example.com", Code: code})

		// Assert
		asBusiness(t, err, goerror.CodeExpired)
	})

	t.Run("StaleChallengeRejectedDespiteSkew", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		code := request(t, f, "user@example.com")
		f.clock.Advance(2 * time.Hour) // code still within step skew, window long gone

		// Act
		_, err := f.uc.OtpVerify(context.Background(), OtpVerifyInput{Email: "user@example.com", Code: code})

		// Assert
		asBusiness(t, err, goerror.CodeExpired)
	})

	t.Run("SupersededChallengeRejected", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		first := request(t, f, "user@example.com")
		second := request(t, f, "user@example.com")

		// Act
		_, err := f.uc.OtpVerify(context.Background(), OtpVerifyInput{Email: "user@example.com", Code: first})

		// Assert
		asBusiness(t, err, goerror.CodeUnauthorized)
		if _, err := f.uc.OtpVerify(context.Background(), OtpVerifyInput{Email: "user@example.com", Code: second}); err != nil {
			t.Fatalf("OtpVerify() with latest code error = %v", err)
		}
	})

	t.Run("DeleteFailureWithholdsProof", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		code := request(t, f, "user@example.com")
		f.cache.delErr = errors.New("cache unavailable")

		// Act
		_, err := f.uc.OtpVerify(context.Background(), OtpVerifyInput{Email: "user@example.com", Code: code})

		// Assert
		asBusiness(t, err, goerror.CodeInternal)
		f.cache.delErr = nil
		if _, err := f.uc.OtpVerify(context.Background(), OtpVerifyInput{Email: "user@example.com", Code: code}); err != nil {
			t.Fatalf("OtpVerify() after cache recovery error = %v", err)
		}
	})

	t.Run("NoChallenge", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		_, err := f.uc.OtpVerify(context.Background(), OtpVerifyInput{Email: "user@example.com", Code: "123456"})

		// Assert
		asBusiness(t, err, goerror.CodeNotFound)
	})
}

func TestUsecaseRegister(t *testing.T) {
	t.Run("FullFlow", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		out := f.register(t, "user@example.com", "s3cret-password")

		// Assert
		claims, err := f.jwt.Verify(out.AccessToken, jwt.PurposeSession)
		if err != nil {
			t.Fatalf("Verify(session token) error = %v", err)
		}
		if claims.UserID != out.UserID {
			t.Fatalf("claims user id = %d, want %d", claims.UserID, out.UserID)
		}
		row, err := f.db.GetIdentityByEmail(context.Background(), "user@example.com")
		if err != nil {
			t.Fatalf("GetIdentityByEmail() error = %v", err)
		}
		if !row.IsVerified {
			t.Fatalf("identity not marked verified")
		}
		if row.PasswordHash == "s3cret-password" {
			t.Fatalf("password stored in plaintext")
		}
	})

	t.Run("ProofForOtherEmailRejected", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		token, err := f.jwt.Generate(0, "other@example.com", jwt.PurposeOtpProof)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		// Act
		_, err = f.uc.Register(context.Background(), RegisterInput{
			Email: "user@example.com", Password: "s3cret-password", OtpToken: token,
		})

		// Assert
		asBusiness(t, err, goerror.CodeUnauthorized)
	})

	t.Run("SessionTokenNotAcceptedAsProof", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		token, err := f.jwt.Generate(0, "user@example.com", jwt.PurposeSession)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		// Act
		_, err = f.uc.Register(context.Background(), RegisterInput{
			Email: "user@example.com", Password: "s3cret-password", OtpToken: token,
		})

		// Assert
		asBusiness(t, err, goerror.CodeUnauthorized)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.register(t, "user@example.com", "s3cret-password")
		token, err := f.jwt.Generate(0, "user@example.com", jwt.PurposeOtpProof)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		// Act
		_, err = f.uc.Register(context.Background(), RegisterInput{
			Email: "user@example.com", Password: "another-password", OtpToken: token,
		})

		// Assert
		asBusiness(t, err, goerror.CodeConflict)
	})

	t.Run("ShortPassword", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		token, err := f.jwt.Generate(0, "user@example.com", jwt.PurposeOtpProof)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		// Act
		_, err = f.uc.Register(context.Background(), RegisterInput{
			Email: "user@example.com", Password: "short", OtpToken: token,
		})

		// Assert
		asBusiness(t, err, goerror.CodeInvalidInput)
	})
}

func TestUsecaseLogin(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.register(t, "user@example.com", "s3cret-password")

		// Act
		out, err := f.uc.Login(context.Background(), LoginInput{Email: "User@Example.com", Password: "s3cret-password"})

		// Assert
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if _, err := f.jwt.Verify(out.AccessToken, jwt.PurposeSession); err != nil {
			t.Fatalf("Verify(session token) error = %v", err)
		}
	})

	t.Run("Argon2idHasher", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.uc.password = hash.NewArgon2id("")
		reg := f.register(t, "user@example.com", "s3cret-password")

		// Act
		_, err := f.uc.Login(context.Background(), LoginInput{Email: "user@example.com", Password: "s3cret-password"})

		// Assert
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		row, err := f.db.GetIdentityByID(context.Background(), reg.UserID)
		if err != nil {
			t.Fatalf("GetIdentityByID() error = %v", err)
		}
		if !strings.HasPrefix(row.PasswordHash, "$argon2id$") {
			t.Fatalf("password hash = %q, want argon2id encoding", row.PasswordHash)
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.register(t, "user@example.com", "s3cret-password")

		// Act
		_, err := f.uc.Login(context.Background(), LoginInput{Email: "user@example.com", Password: "wrong-password"})

		// Assert
		asBusiness(t, err, goerror.CodeUnauthorized)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		_, err := f.uc.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "whatever1"})

		// Assert
		asBusiness(t, err, goerror.CodeNotFound)
	})
}

func TestUsecasePasswordForgot(t *testing.T) {
	t.Run("UnknownEmailLooksLikeSuccess", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		out, err := f.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: "ghost@example.com"})

		// Assert
		if err != nil {
			t.Fatalf("PasswordForgot() error = %v", err)
		}
		if out.ResetToken != "" {
			t.Fatalf("reset token issued for unknown email")
		}
		if len(f.mq.forgotEvents) != 0 {
			t.Fatalf("event published for unknown email")
		}
	})

	t.Run("KnownEmailStoresFingerprintAndPublishes", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		reg := f.register(t, "user@example.com", "s3cret-password")

		// Act
		out, err := f.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: "user@example.com"})

		// Assert
		if err != nil {
			t.Fatalf("PasswordForgot() error = %v", err)
		}
		row, err := f.db.GetIdentityByID(context.Background(), reg.UserID)
		if err != nil {
			t.Fatalf("GetIdentityByID() error = %v", err)
		}
		if !f.hmac.Verify(row.ResetTokenHash, out.ResetToken) {
			t.Fatalf("stored fingerprint does not match issued token")
		}
		if strings.Contains(row.ResetTokenHash, out.ResetToken) {
			t.Fatalf("raw token persisted")
		}
		if len(f.mq.forgotEvents) != 1 || f.mq.forgotEvents[0].ResetToken != out.ResetToken {
			t.Fatalf("forgot event not published with token")
		}
	})
}

func TestUsecasePasswordReset(t *testing.T) {
	forgot := func(t *testing.T, f *fixture, email string) string {
		t.Helper()
		out, err := f.uc.PasswordForgot(context.Background(), PasswordForgotInput{Email: email})
		if err != nil {
			t.Fatalf("PasswordForgot() error = %v", err)
		}
		return out.ResetToken
	}

	t.Run("SuccessChangesPassword", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.register(t, "user@example.com", "s3cret-password")
		token := forgot(t, f, "user@example.com")

		// Act
		err := f.uc.PasswordReset(context.Background(), PasswordResetInput{ResetToken: token, NewPassword: "brand-new-pass"})

		// Assert
		if err != nil {
			t.Fatalf("PasswordReset() error = %v", err)
		}
		if _, err := f.uc.Login(context.Background(), LoginInput{Email: "user@example.com", Password: "brand-new-pass"}); err != nil {
			t.Fatalf("Login() with new password error = %v", err)
		}
		_, err = f.uc.Login(context.Background(), LoginInput{Email: "user@example.com", Password: "s3cret-password"})
		asBusiness(t, err, goerror.CodeUnauthorized)
	})

	t.Run("ReplayRejected", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.register(t, "user@example.com", "s3cret-password")
		token := forgot(t, f, "user@example.com")
		if err := f.uc.PasswordReset(context.Background(), PasswordResetInput{ResetToken: token, NewPassword: "brand-new-pass"}); err != nil {
			t.Fatalf("PasswordReset() error = %v", err)
		}

		// Act
		err := f.uc.PasswordReset(context.Background(), PasswordResetInput{ResetToken: token, NewPassword: "yet-another-pass"})

		// Assert
		asBusiness(t, err, goerror.CodeUnauthorized)
	})

	t.Run("SupersededTokenRejected", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.register(t, "user@example.com", "s3cret-password")
		first := forgot(t, f, "user@example.com")
		f.clock.Advance(time.Second) // distinct iat so the second token differs
		second := forgot(t, f, "user@example.com")

		// Act
		err := f.uc.PasswordReset(context.Background(), PasswordResetInput{ResetToken: first, NewPassword: "brand-new-pass"})

		// Assert
		asBusiness(t, err, goerror.CodeUnauthorized)
		if err := f.uc.PasswordReset(context.Background(), PasswordResetInput{ResetToken: second, NewPassword: "brand-new-pass"}); err != nil {
			t.Fatalf("PasswordReset() with latest token error = %v", err)
		}
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		f.register(t, "user@example.com", "s3cret-password")
		token := forgot(t, f, "user@example.com")
		f.clock.Advance(61 * time.Minute)

		// Act
		err := f.uc.PasswordReset(context.Background(), PasswordResetInput{ResetToken: token, NewPassword: "brand-new-pass"})

		// Assert
		asBusiness(t, err, goerror.CodeExpired)
	})

	t.Run("MissingIdentityNotFound", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		reg := f.register(t, "user@example.com", "s3cret-password")
		token := forgot(t, f, "user@example.com")
		f.db.mu.Lock()
		delete(f.db.byID, reg.UserID)
		delete(f.db.byEmail, "user@example.com")
		f.db.mu.Unlock()

		// Act
		err := f.uc.PasswordReset(context.Background(), PasswordResetInput{ResetToken: token, NewPassword: "brand-new-pass"})

		// Assert
		asBusiness(t, err, goerror.CodeNotFound)
	})

	t.Run("SessionTokenNotAccepted", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		reg := f.register(t, "user@example.com", "s3cret-password")
		token, err := f.jwt.Generate(reg.UserID, "user@example.com", jwt.PurposeSession)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		// Act
		err = f.uc.PasswordReset(context.Background(), PasswordResetInput{ResetToken: token, NewPassword: "brand-new-pass"})

		// Assert
		asBusiness(t, err, goerror.CodeUnauthorized)
	})
}

func TestUsecaseProfile(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		reg := f.register(t, "user@example.com", "s3cret-password")
		claims, err := f.jwt.Verify(reg.AccessToken, jwt.PurposeSession)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		ctx := jwt.SetAuth(context.Background(), claims)

		// Act
		out, err := f.uc.Profile(ctx)

		// Assert
		if err != nil {
			t.Fatalf("Profile() error = %v", err)
		}
		if out.Email != "user@example.com" || out.UserID != reg.UserID || !out.IsVerified {
			t.Fatalf("Profile() = %+v, unexpected", out)
		}
	})

	t.Run("NoClaims", func(t *testing.T) {
		// Arrange
		f := newFixture(t)

		// Act
		_, err := f.uc.Profile(context.Background())

		// Assert
		asBusiness(t, err, goerror.CodeUnauthorized)
	})
}
