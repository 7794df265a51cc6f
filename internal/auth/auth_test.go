package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/passgate/passgate/internal/store"
	"github.com/passgate/passgate/internal/store/sqlite"

	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewService(st, bcrypt.MinCost)
}

func TestSignupAndLogin(t *testing.T) {
	svc := newTestService(t)

	account, err := svc.Signup(context.Background(), "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if account.ID == 0 {
		t.Fatalf("expected account id")
	}
	if account.CredentialHash == "pw1" {
		t.Fatalf("credential hash equals plaintext password")
	}

	_, token, err := svc.Login(context.Background(), "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token")
	}

	// Repeated logins never rotate the token.
	_, again, err := svc.Login(context.Background(), "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if again != token {
		t.Fatalf("token rotated: %s != %s", again, token)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Signup(context.Background(), "a@x.com", "pw1"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	_, err := svc.Signup(context.Background(), "a@x.com", "pw2")
	if !errors.Is(err, store.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Signup(context.Background(), "a@x.com", "password"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	// Wrong password and unknown email must be indistinguishable.
	_, _, err := svc.Login(context.Background(), "a@x.com", "Password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	_, _, err = svc.Login(context.Background(), "nobody@x.com", "password")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestLoginRejectsSingleCharVariants(t *testing.T) {
	svc := newTestService(t)

	const password = "s3cretpw"
	if _, err := svc.Signup(context.Background(), "a@x.com", password); err != nil {
		t.Fatalf("signup: %v", err)
	}

	for i := 0; i < len(password); i++ {
		variant := []byte(password)
		variant[i] ^= 1
		_, _, err := svc.Login(context.Background(), "a@x.com", string(variant))
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("variant %q accepted: %v", variant, err)
		}
	}
}

func TestValidate(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Signup(context.Background(), "a@x.com", "pw1"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	_, token, err := svc.Login(context.Background(), "a@x.com", "pw1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	account, err := svc.Validate(context.Background(), token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if account.Email != "a@x.com" {
		t.Fatalf("unexpected email: %s", account.Email)
	}

	_, err = svc.Validate(context.Background(), "garbage")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestMissingFields(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Signup(context.Background(), "", "pw"); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if _, err := svc.Signup(context.Background(), "a@x.com", ""); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "", ""); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
	if _, err := svc.Validate(context.Background(), ""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestRandomTokenLength(t *testing.T) {
	tok, err := randomToken(32)
	if err != nil {
		t.Fatalf("random token: %v", err)
	}
	// 32 bytes base64url without padding.
	if len(tok) != 43 {
		t.Fatalf("unexpected token length: %d", len(tok))
	}
	other, err := randomToken(32)
	if err != nil {
		t.Fatalf("random token: %v", err)
	}
	if tok == other {
		t.Fatalf("two tokens collided")
	}
}
