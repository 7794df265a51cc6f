package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/passgate/passgate/internal/model"
	"github.com/passgate/passgate/internal/store"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrMissingFields means email or password was absent or empty.
	ErrMissingFields = errors.New("missing email or password")
	// ErrMissingToken means no token was supplied to Validate.
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// callers cannot probe which emails are registered.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken means the token matches no account.
	ErrInvalidToken = errors.New("invalid token")
)

type Service struct {
	store store.Store
	cost  int
}

func NewService(store store.Store, bcryptCost int) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{store: store, cost: bcryptCost}
}

// Signup hashes the password and inserts a new account with no token. The
// store's unique email index is the only duplicate check; a lost race
// surfaces as store.ErrDuplicateEmail just like an ordinary duplicate.
func (s *Service) Signup(ctx context.Context, email, password string) (model.Account, error) {
	if email == "" || password == "" {
		return model.Account{}, ErrMissingFields
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return model.Account{}, fmt.Errorf("hash password: %w", err)
	}
	account := model.Account{
		Email:          email,
		CredentialHash: string(hash),
		CreatedAt:      time.Now(),
	}
	id, err := s.store.CreateAccount(ctx, &account)
	if err != nil {
		return model.Account{}, err
	}
	account.ID = id
	return account, nil
}

// Login verifies the password and returns the account's bearer token, minting
// one on the first successful login. Repeated logins return the same token.
func (s *Service) Login(ctx context.Context, email, password string) (model.Account, string, error) {
	if email == "" || password == "" {
		return model.Account{}, "", ErrMissingFields
	}
	account, err := s.store.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Account{}, "", ErrInvalidCredentials
		}
		return model.Account{}, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.CredentialHash), []byte(password)) != nil {
		return model.Account{}, "", ErrInvalidCredentials
	}

	if account.Token != nil {
		return account, *account.Token, nil
	}

	token, err := randomToken(32)
	if err != nil {
		return model.Account{}, "", err
	}
	won, err := s.store.SetAccountToken(ctx, account.ID, token)
	if err != nil {
		return model.Account{}, "", err
	}
	if !won {
		// A concurrent login assigned the token first; return the stored one.
		account, err = s.store.GetAccountByEmail(ctx, email)
		if err != nil {
			return model.Account{}, "", err
		}
		if account.Token == nil {
			return model.Account{}, "", errors.New("token assignment lost without winner")
		}
		return account, *account.Token, nil
	}
	account.Token = &token
	return account, token, nil
}

// Validate resolves a bearer token to its account. Pure read.
func (s *Service) Validate(ctx context.Context, token string) (model.Account, error) {
	if token == "" {
		return model.Account{}, ErrMissingToken
	}
	account, err := s.store.GetAccountByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Account{}, ErrInvalidToken
		}
		return model.Account{}, err
	}
	return account, nil
}

func randomToken(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
