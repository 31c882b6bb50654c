package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gramly/internal/middleware"
	"gramly/internal/models"
	"gramly/internal/otp"
	"gramly/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

func testSessionStore(t *testing.T) *session.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return session.NewStore(rdb, time.Hour)
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Firstname:       "Alice",
		Lastname:        "Walker",
		Username:        "alice_w",
		Email:           "alice@example.com",
		Mobile:          "+15551234567",
		Password:        "swordfish9",
		ConfirmPassword: "swordfish9",
		Gender:          "female",
	}
}

func TestIdentityRegisterAccumulatesErrors(t *testing.T) {
	repo := noopUserRepo()
	repo.existsByEmailFn = func(context.Context, string) (bool, error) { return true, nil }
	repo.existsByUsernameFn = func(context.Context, string) (bool, error) { return true, nil }
	created := false
	repo.createFn = func(context.Context, *models.User) error {
		created = true
		return nil
	}

	svc := NewIdentityService(repo, testSessionStore(t), otp.NewIssuer(), newMailStub())

	in := validRegisterInput()
	in.ConfirmPassword = "different"
	in.Mobile = "not-a-number"

	_, err := svc.Register(context.Background(), in)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	var verrs *models.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %#v", err)
	}
	for _, field := range []string{"password", "email", "mobile", "username"} {
		if _, ok := verrs.Fields[field]; !ok {
			t.Errorf("expected a violation for %q, got %v", field, verrs.Fields)
		}
	}
	if created {
		t.Error("no user should be created when validation fails")
	}
}

func TestIdentityRegisterCreatesUnverifiedUserAndSendsCode(t *testing.T) {
	repo := noopUserRepo()
	var saved *models.User
	repo.createFn = func(_ context.Context, u *models.User) error {
		u.ID = 7
		saved = u
		return nil
	}
	mail := newMailStub()

	svc := NewIdentityService(repo, testSessionStore(t), otp.NewIssuer(), mail)

	user, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.ID != 7 || saved == nil {
		t.Fatal("user was not persisted")
	}
	if user.Verified {
		t.Error("new accounts must start unverified")
	}
	if user.OTP < 100000 || user.OTP > 999999 {
		t.Errorf("verification code out of range: %d", user.OTP)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("swordfish9")); err != nil {
		t.Error("stored password is not the bcrypt hash of the input")
	}

	select {
	case code := <-mail.delivered:
		if code != user.OTP {
			t.Errorf("mailed code %d does not match stored code %d", code, user.OTP)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("verification code was never sent")
	}
}

// The sender goroutine outlives the HTTP handler, so it must not hold the
// request context itself; only the log fields travel with it.
func TestIdentitySendCodeDetachesFromRequestContext(t *testing.T) {
	repo := noopUserRepo()
	repo.createFn = func(_ context.Context, u *models.User) error {
		u.ID = 7
		return nil
	}
	mail := newMailStub()
	svc := NewIdentityService(repo, testSessionStore(t), otp.NewIssuer(), mail)

	reqCtx, cancel := context.WithCancel(context.Background())
	reqCtx = context.WithValue(reqCtx, middleware.RequestIDKey, "req-123")
	reqCtx = context.WithValue(reqCtx, middleware.UserIDKey, uint(5))

	if _, err := svc.Register(reqCtx, validRegisterInput()); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	cancel()

	select {
	case ctx := <-mail.ctxs:
		if got, _ := ctx.Value(middleware.RequestIDKey).(string); got != "req-123" {
			t.Errorf("request id not carried over: %q", got)
		}
		if got, _ := ctx.Value(middleware.UserIDKey).(uint); got != 5 {
			t.Errorf("user id not carried over: %d", got)
		}
		if err := ctx.Err(); err != nil {
			t.Errorf("mail context died with the request: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("verification code was never sent")
	}
}

func TestIdentityVerifyCodeMatch(t *testing.T) {
	repo := noopUserRepo()
	account := &models.User{ID: 3, OTP: 482913}
	repo.getByIDFn = func(context.Context, uint) (*models.User, error) { return account, nil }
	updated := false
	repo.updateFn = func(_ context.Context, u *models.User) error {
		updated = true
		return nil
	}

	svc := NewIdentityService(repo, testSessionStore(t), otp.NewIssuer(), newMailStub())

	user, err := svc.VerifyCode(context.Background(), 3, 482913)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !user.Verified {
		t.Error("account should be verified after a matching code")
	}
	if user.OTP != 0 {
		t.Error("code must be cleared after use")
	}
	if !updated {
		t.Error("verification must be persisted")
	}
}

func TestIdentityVerifyCodeMismatch(t *testing.T) {
	repo := noopUserRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.User, error) {
		return &models.User{ID: 3, OTP: 482913}, nil
	}
	repo.updateFn = func(context.Context, *models.User) error {
		t.Fatal("a mismatch must not persist anything")
		return nil
	}

	svc := NewIdentityService(repo, testSessionStore(t), otp.NewIssuer(), newMailStub())

	_, err := svc.VerifyCode(context.Background(), 3, 111111)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected validation error, got %#v", err)
	}
}

func TestIdentityVerifyAlreadyVerified(t *testing.T) {
	repo := noopUserRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.User, error) {
		return &models.User{ID: 3, Verified: true}, nil
	}

	svc := NewIdentityService(repo, testSessionStore(t), otp.NewIssuer(), newMailStub())

	user, err := svc.VerifyCode(context.Background(), 3, 999999)
	if err != nil {
		t.Fatalf("verifying a verified account should succeed, got %v", err)
	}
	if !user.Verified {
		t.Error("account should stay verified")
	}
}

func TestIdentityResendReplacesCode(t *testing.T) {
	repo := noopUserRepo()
	account := &models.User{ID: 4, OTP: 100001}
	repo.getByIDFn = func(context.Context, uint) (*models.User, error) { return account, nil }

	mail := newMailStub()
	svc := NewIdentityService(repo, testSessionStore(t), otp.NewIssuer(), mail)

	if err := svc.ResendCode(context.Background(), 4); err != nil {
		t.Fatalf("resend failed: %v", err)
	}
	if account.OTP < 100000 || account.OTP > 999999 {
		t.Errorf("replacement code out of range: %d", account.OTP)
	}

	select {
	case code := <-mail.delivered:
		if code != account.OTP {
			t.Errorf("mailed code %d does not match stored code %d", code, account.OTP)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("replacement code was never sent")
	}
}

func TestIdentityResendRejectedForVerified(t *testing.T) {
	repo := noopUserRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.User, error) {
		return &models.User{ID: 4, Verified: true}, nil
	}

	svc := NewIdentityService(repo, testSessionStore(t), otp.NewIssuer(), newMailStub())

	err := svc.ResendCode(context.Background(), 4)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected validation error, got %#v", err)
	}
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(h)
}

func TestIdentityLoginUnknownUsername(t *testing.T) {
	svc := NewIdentityService(noopUserRepo(), testSessionStore(t), otp.NewIssuer(), newMailStub())

	_, _, err := svc.Login(context.Background(), "nobody", "whatever")
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "UNAUTHORIZED" {
		t.Fatalf("expected unauthorized error, got %#v", err)
	}
}

func TestIdentityLoginWrongPassword(t *testing.T) {
	repo := noopUserRepo()
	repo.getByUsernameFn = func(context.Context, string) (*models.User, error) {
		return &models.User{ID: 5, Verified: true, Password: hashOf(t, "correct-horse")}, nil
	}

	svc := NewIdentityService(repo, testSessionStore(t), otp.NewIssuer(), newMailStub())

	_, _, err := svc.Login(context.Background(), "eve", "wrong-horse")
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "UNAUTHORIZED" {
		t.Fatalf("expected unauthorized error, got %#v", err)
	}
	if appErr.Message != "Invalid credentials" {
		t.Errorf("wrong password must be indistinguishable from unknown user, got %q", appErr.Message)
	}
}

func TestIdentityLoginUnverifiedReissuesCode(t *testing.T) {
	repo := noopUserRepo()
	account := &models.User{ID: 6, Password: hashOf(t, "correct-horse")}
	repo.getByUsernameFn = func(context.Context, string) (*models.User, error) { return account, nil }

	mail := newMailStub()
	svc := NewIdentityService(repo, testSessionStore(t), otp.NewIssuer(), mail)

	_, sessionID, err := svc.Login(context.Background(), "pat", "correct-horse")
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "VERIFICATION_REQUIRED" {
		t.Fatalf("expected verification-required error, got %#v", err)
	}
	if appErr.UserID != 6 {
		t.Errorf("error must carry the pending user id, got %d", appErr.UserID)
	}
	if sessionID != "" {
		t.Error("no session may be opened for an unverified account")
	}
	if account.OTP < 100000 || account.OTP > 999999 {
		t.Errorf("a fresh code should have been issued, got %d", account.OTP)
	}

	select {
	case <-mail.delivered:
	case <-time.After(2 * time.Second):
		t.Fatal("fresh code was never sent")
	}
}

func TestIdentityLoginVerifiedOpensSession(t *testing.T) {
	repo := noopUserRepo()
	repo.getByUsernameFn = func(context.Context, string) (*models.User, error) {
		return &models.User{ID: 9, Verified: true, Password: hashOf(t, "correct-horse")}, nil
	}

	sessions := testSessionStore(t)
	svc := NewIdentityService(repo, sessions, otp.NewIssuer(), newMailStub())

	user, sessionID, err := svc.Login(context.Background(), "alice", "correct-horse")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != 9 {
		t.Fatalf("unexpected user: %+v", user)
	}
	if sessionID == "" {
		t.Fatal("expected a session id")
	}

	resolved, err := sessions.Get(context.Background(), sessionID)
	if err != nil {
		t.Fatalf("session does not resolve: %v", err)
	}
	if resolved != 9 {
		t.Errorf("session resolves to %d, want 9", resolved)
	}
}

func TestIdentityLogoutIdempotent(t *testing.T) {
	sessions := testSessionStore(t)
	svc := NewIdentityService(noopUserRepo(), sessions, otp.NewIssuer(), newMailStub())

	id, err := sessions.Create(context.Background(), 12)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if err := svc.Logout(context.Background(), id); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := sessions.Get(context.Background(), id); !errors.Is(err, session.ErrNotFound) {
		t.Error("session should be gone after logout")
	}

	// Logging out again, or with garbage, still succeeds.
	if err := svc.Logout(context.Background(), id); err != nil {
		t.Errorf("second logout should be a no-op, got %v", err)
	}
	if err := svc.Logout(context.Background(), ""); err != nil {
		t.Errorf("empty session logout should be a no-op, got %v", err)
	}
}
