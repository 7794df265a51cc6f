package store

import (
	"context"
	"errors"

	"github.com/passgate/passgate/internal/model"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("duplicate email")
)

// Store is the durable credential store. Email uniqueness is enforced by
// CreateAccount itself, not by callers pre-checking: under concurrent signups
// for the same email the store guarantees at most one insert succeeds and the
// losers get ErrDuplicateEmail with nothing written.
type Store interface {
	// CreateAccount inserts a new account and returns its assigned id.
	// Returns ErrDuplicateEmail if the email is already registered.
	CreateAccount(ctx context.Context, account *model.Account) (int64, error)

	// GetAccountByEmail is an exact, case-sensitive lookup.
	GetAccountByEmail(ctx context.Context, email string) (model.Account, error)

	// GetAccountByToken is an exact lookup by bearer token.
	GetAccountByToken(ctx context.Context, token string) (model.Account, error)

	// SetAccountToken assigns a token to an account that has none yet.
	// It reports false without modifying anything when the account already
	// carries a token, so concurrent first logins converge on one value.
	SetAccountToken(ctx context.Context, accountID int64, token string) (bool, error)

	GetStats(ctx context.Context) (model.ServiceStats, error)
	Close() error
}
