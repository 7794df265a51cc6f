package model

import "time"

// Account is a stored credential record. Token is nil until the account's
// first successful login and is never rotated afterwards.
type Account struct {
	ID             int64
	Email          string
	CredentialHash string `json:"-"`
	Token          *string
	CreatedAt      time.Time
}

type ServiceStats struct {
	Accounts     int64
	TokensIssued int64
}
