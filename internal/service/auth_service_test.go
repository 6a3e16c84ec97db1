package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

type mockUserRepo struct {
	createFn           func(ctx context.Context, user *domain.User) error
	getByEmailFn       func(ctx context.Context, email string) (*domain.User, error)
	getActiveByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	getByIDFn          func(ctx context.Context, id string) (*domain.User, error)
	updatePasswordFn   func(ctx context.Context, id, hash string) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = "3c7f54b0-24df-4fd4-9c73-2c7bfb40d0d0"
	return nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) GetActiveByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getActiveByEmailFn != nil {
		return m.getActiveByEmailFn(ctx, email)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, id, hash)
	}
	return nil
}

type mockResetRepo struct {
	createFn     func(ctx context.Context, token *repository.PasswordResetToken) error
	getByTokenFn func(ctx context.Context, token string) (*repository.PasswordResetToken, error)
	markUsedFn   func(ctx context.Context, id string) error
}

func (m *mockResetRepo) Create(ctx context.Context, token *repository.PasswordResetToken) error {
	if m.createFn != nil {
		return m.createFn(ctx, token)
	}
	token.ID = "0b7cb9b9-019c-4a9d-a79f-06f2038f2b6b"
	return nil
}

func (m *mockResetRepo) GetByToken(ctx context.Context, token string) (*repository.PasswordResetToken, error) {
	if m.getByTokenFn != nil {
		return m.getByTokenFn(ctx, token)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockResetRepo) MarkUsed(ctx context.Context, id string) error {
	if m.markUsedFn != nil {
		return m.markUsedFn(ctx, id)
	}
	return nil
}

type fakeThrottle struct {
	allowed  bool
	failures []string
	resets   []string
}

func (f *fakeThrottle) Allow(_ context.Context, _ string) bool { return f.allowed }
func (f *fakeThrottle) RecordFailure(_ context.Context, email string) {
	f.failures = append(f.failures, email)
}
func (f *fakeThrottle) Reset(_ context.Context, email string) {
	f.resets = append(f.resets, email)
}

// captureDispatcher funnels published events into a channel because services
// publish from detached goroutines.
type captureDispatcher struct {
	events chan events.Event
}

func newCaptureDispatcher() *captureDispatcher {
	return &captureDispatcher{events: make(chan events.Event, 8)}
}

func (d *captureDispatcher) Publish(_ context.Context, event events.Event) error {
	d.events <- event
	return nil
}

func (d *captureDispatcher) Subscribe(_ events.EventType, _ events.EventHandler) {}

func (d *captureDispatcher) wait(t *testing.T) events.Event {
	t.Helper()
	select {
	case event := <-d.events:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return events.Event{}
	}
}

func (d *captureDispatcher) expectNone(t *testing.T) {
	t.Helper()
	select {
	case event := <-d.events:
		t.Fatalf("unexpected event published: %s", event.Type)
	case <-time.After(100 * time.Millisecond):
	}
}

func testAuthConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret",
			SessionTTLDays:          7,
			PasswordResetTTLMinutes: 30,
			BcryptCost:              bcrypt.MinCost,
		},
	}
}

func newAuthService(users *mockUserRepo, resets *mockResetRepo, throttle LoginThrottle, dispatcher events.Dispatcher) *AuthService {
	return NewAuthService(testAuthConfig(), AuthDependencies{
		UserRepo:          users,
		PasswordResetRepo: resets,
		Throttle:          throttle,
		Dispatcher:        dispatcher,
	})
}

func TestRegisterIssuesTokenMatchingStoredUser(t *testing.T) {
	var created *domain.User
	users := &mockUserRepo{
		createFn: func(_ context.Context, user *domain.User) error {
			user.ID = "3c7f54b0-24df-4fd4-9c73-2c7bfb40d0d0"
			created = user
			return nil
		},
	}
	svc := newAuthService(users, &mockResetRepo{}, &fakeThrottle{allowed: true}, nil)

	user, token, expiresAt, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ann",
		Email:    "ann@x.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.True(t, created.IsActive)
	assert.Equal(t, domain.RoleUser, created.Role)
	assert.NoError(t, auth.ComparePassword(created.PasswordHash, "secret1"))
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), expiresAt, time.Minute)

	claims, err := svc.TokenManager().Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Role, claims.Role)
	assert.Equal(t, user.Name, claims.Name)
}

func TestRegisterDuplicateEmailFails(t *testing.T) {
	users := &mockUserRepo{
		getByEmailFn: func(_ context.Context, _ string) (*domain.User, error) {
			return &domain.User{ID: "existing"}, nil
		},
	}
	svc := newAuthService(users, &mockResetRepo{}, &fakeThrottle{allowed: true}, nil)

	_, _, _, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ann",
		Email:    "ann@x.com",
		Password: "secret1",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestRegisterHonorsExplicitRole(t *testing.T) {
	var created *domain.User
	users := &mockUserRepo{
		createFn: func(_ context.Context, user *domain.User) error {
			user.ID = "3c7f54b0-24df-4fd4-9c73-2c7bfb40d0d0"
			created = user
			return nil
		},
	}
	svc := newAuthService(users, &mockResetRepo{}, &fakeThrottle{allowed: true}, nil)

	_, _, _, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Root",
		Email:    "root@x.com",
		Password: "secret1",
		Role:     domain.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, created.Role)
}

// Unknown emails and wrong passwords must be externally indistinguishable.
func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	hash, err := auth.HashPassword("correct-password", bcrypt.MinCost)
	require.NoError(t, err)

	users := &mockUserRepo{
		getActiveByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			if email == "ann@x.com" {
				return &domain.User{
					ID:           "3c7f54b0-24df-4fd4-9c73-2c7bfb40d0d0",
					Email:        email,
					PasswordHash: hash,
					Role:         domain.RoleUser,
					IsActive:     true,
				}, nil
			}
			return nil, pgx.ErrNoRows
		},
	}
	throttle := &fakeThrottle{allowed: true}
	svc := newAuthService(users, &mockResetRepo{}, throttle, nil)

	_, _, _, wrongPassErr := svc.Login(context.Background(), "ann@x.com", "wrong-password")
	_, _, _, unknownErr := svc.Login(context.Background(), "nobody@x.com", "whatever")

	require.Error(t, wrongPassErr)
	require.Error(t, unknownErr)
	wrongDE := apperrors.ToDomainError(wrongPassErr)
	unknownDE := apperrors.ToDomainError(unknownErr)
	assert.Equal(t, wrongDE.Message, unknownDE.Message)
	assert.Equal(t, wrongDE.HTTPStatus, unknownDE.HTTPStatus)
	assert.Equal(t, 401, wrongDE.HTTPStatus)
	assert.Len(t, throttle.failures, 2)
}

func TestLoginSuccessResetsThrottle(t *testing.T) {
	hash, err := auth.HashPassword("secret1", bcrypt.MinCost)
	require.NoError(t, err)

	users := &mockUserRepo{
		getActiveByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return &domain.User{
				ID:           "3c7f54b0-24df-4fd4-9c73-2c7bfb40d0d0",
				Name:         "Ann",
				Email:        email,
				PasswordHash: hash,
				Role:         domain.RoleUser,
				IsActive:     true,
			}, nil
		},
	}
	throttle := &fakeThrottle{allowed: true}
	svc := newAuthService(users, &mockResetRepo{}, throttle, nil)

	user, token, _, err := svc.Login(context.Background(), "ann@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, []string{"ann@x.com"}, throttle.resets)

	claims, err := svc.TokenManager().Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.Role, claims.Role)
	assert.Equal(t, user.Name, claims.Name)
}

func TestLoginThrottled(t *testing.T) {
	svc := newAuthService(&mockUserRepo{}, &mockResetRepo{}, &fakeThrottle{allowed: false}, nil)

	_, _, _, err := svc.Login(context.Background(), "ann@x.com", "secret1")
	require.Error(t, err)
	assert.Equal(t, 429, apperrors.ToDomainError(err).HTTPStatus)
}

func TestRequestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	createCalled := false
	resets := &mockResetRepo{
		createFn: func(_ context.Context, _ *repository.PasswordResetToken) error {
			createCalled = true
			return nil
		},
	}
	dispatcher := newCaptureDispatcher()
	svc := newAuthService(&mockUserRepo{}, resets, &fakeThrottle{allowed: true}, dispatcher)

	err := svc.RequestPasswordReset(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	assert.False(t, createCalled)
	dispatcher.expectNone(t)
}

func TestRequestPasswordResetEmitsEvent(t *testing.T) {
	users := &mockUserRepo{
		getActiveByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return &domain.User{
				ID:       "3c7f54b0-24df-4fd4-9c73-2c7bfb40d0d0",
				Name:     "Ann",
				Email:    email,
				IsActive: true,
			}, nil
		},
	}
	var stored *repository.PasswordResetToken
	resets := &mockResetRepo{
		createFn: func(_ context.Context, token *repository.PasswordResetToken) error {
			token.ID = "0b7cb9b9-019c-4a9d-a79f-06f2038f2b6b"
			stored = token
			return nil
		},
	}
	dispatcher := newCaptureDispatcher()
	svc := newAuthService(users, resets, &fakeThrottle{allowed: true}, dispatcher)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ann@x.com"))

	event := dispatcher.wait(t)
	assert.Equal(t, events.EventPasswordResetRequested, event.Type)
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	require.True(t, ok)
	require.NotNil(t, stored)
	assert.Equal(t, stored.Token, payload.Token)
	assert.Equal(t, "ann@x.com", payload.UserEmail)
}

func TestConfirmPasswordResetHappyPath(t *testing.T) {
	var newHash string
	markedUsed := ""
	users := &mockUserRepo{
		updatePasswordFn: func(_ context.Context, id, hash string) error {
			newHash = hash
			return nil
		},
	}
	resets := &mockResetRepo{
		getByTokenFn: func(_ context.Context, _ string) (*repository.PasswordResetToken, error) {
			return &repository.PasswordResetToken{
				ID:        "0b7cb9b9-019c-4a9d-a79f-06f2038f2b6b",
				UserID:    "3c7f54b0-24df-4fd4-9c73-2c7bfb40d0d0",
				Token:     "reset-token",
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		},
		markUsedFn: func(_ context.Context, id string) error {
			markedUsed = id
			return nil
		},
	}
	svc := newAuthService(users, resets, &fakeThrottle{allowed: true}, nil)

	require.NoError(t, svc.ConfirmPasswordReset(context.Background(), "reset-token", "newsecret"))
	assert.NoError(t, auth.ComparePassword(newHash, "newsecret"))
	assert.Equal(t, "0b7cb9b9-019c-4a9d-a79f-06f2038f2b6b", markedUsed)
}

func TestConfirmPasswordResetRejectsExpiredAndUsed(t *testing.T) {
	used := time.Now().Add(-time.Minute)
	cases := map[string]*repository.PasswordResetToken{
		"expired": {ExpiresAt: time.Now().Add(-time.Hour)},
		"used":    {ExpiresAt: time.Now().Add(time.Hour), UsedAt: &used},
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			resets := &mockResetRepo{
				getByTokenFn: func(_ context.Context, _ string) (*repository.PasswordResetToken, error) {
					return token, nil
				},
			}
			svc := newAuthService(&mockUserRepo{}, resets, &fakeThrottle{allowed: true}, nil)

			err := svc.ConfirmPasswordReset(context.Background(), "whatever", "newsecret")
			require.Error(t, err)
			assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
		})
	}
}

func TestConfirmPasswordResetUnknownToken(t *testing.T) {
	svc := newAuthService(&mockUserRepo{}, &mockResetRepo{}, &fakeThrottle{allowed: true}, nil)

	err := svc.ConfirmPasswordReset(context.Background(), "missing", "newsecret")
	require.Error(t, err)
	assert.Equal(t, 400, apperrors.ToDomainError(err).HTTPStatus)
}
