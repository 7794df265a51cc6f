package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/passgate/passgate/internal/model"
	"github.com/passgate/passgate/internal/store"
)

func TestTokenAssignment(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	account := model.Account{Email: "a@x.com", CredentialHash: "h", CreatedAt: time.Now()}
	id, err := st.CreateAccount(context.Background(), &account)
	if err != nil {
		t.Fatalf("create account: %v", err)
	}

	won, err := st.SetAccountToken(context.Background(), id, "token-one")
	if err != nil {
		t.Fatalf("set token: %v", err)
	}
	if !won {
		t.Fatalf("expected first assignment to win")
	}

	// A second writer must lose and leave the stored token untouched.
	won, err = st.SetAccountToken(context.Background(), id, "token-two")
	if err != nil {
		t.Fatalf("set token again: %v", err)
	}
	if won {
		t.Fatalf("expected second assignment to lose")
	}

	got, err := st.GetAccountByToken(context.Background(), "token-one")
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got.ID != id {
		t.Fatalf("unexpected account: %d", got.ID)
	}

	_, err = st.GetAccountByToken(context.Background(), "token-two")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected losing token to be absent, got %v", err)
	}
}

func TestGetAccountByTokenNotFound(t *testing.T) {
	st := newTestStore(t)
	defer st.Close()

	_, err := st.GetAccountByToken(context.Background(), "garbage")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
