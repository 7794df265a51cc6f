package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/passgate/passgate/internal/model"
	"github.com/passgate/passgate/internal/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// migrations is an ordered list of SQL migrations.
// Each migration runs exactly once, tracked by the schema_version table.
var migrations = []string{
	// Migration 1: Initial schema
	`
CREATE TABLE IF NOT EXISTS accounts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL,
	credential_hash TEXT NOT NULL,
	token TEXT,
	created_at INTEGER NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_email ON accounts(email);
CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_token ON accounts(token) WHERE token IS NOT NULL;
`,
	// Future migrations go here:
	// Migration 2: `ALTER TABLE ...`,
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		)
	`); err != nil {
		return err
	}

	var currentVersion int
	row := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`)
	if err := row.Scan(&currentVersion); err != nil {
		return err
	}

	for i := currentVersion; i < len(migrations); i++ {
		if _, err := db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
		if _, err := db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, i+1); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", i+1, err)
		}
	}

	return nil
}

func (s *Store) CreateAccount(ctx context.Context, account *model.Account) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO accounts (email, credential_hash, token, created_at)
VALUES (?, ?, NULL, ?)
`, account.Email, account.CredentialHash, account.CreatedAt.Unix())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, store.ErrDuplicateEmail
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetAccountByEmail(ctx context.Context, email string) (model.Account, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, email, credential_hash, token, created_at
FROM accounts
WHERE email = ?
LIMIT 1
`, email)
	return scanAccount(row)
}

func (s *Store) GetAccountByToken(ctx context.Context, token string) (model.Account, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, email, credential_hash, token, created_at
FROM accounts
WHERE token = ?
LIMIT 1
`, token)
	return scanAccount(row)
}

// SetAccountToken is a compare-and-swap: the UPDATE only matches when token is
// still NULL, so the first writer wins and later writers see zero rows.
func (s *Store) SetAccountToken(ctx context.Context, accountID int64, token string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
UPDATE accounts SET token = ? WHERE id = ? AND token IS NULL
`, token, accountID)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (s *Store) GetStats(ctx context.Context) (model.ServiceStats, error) {
	var stats model.ServiceStats
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`)
	if err := row.Scan(&stats.Accounts); err != nil {
		return stats, err
	}
	row = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE token IS NOT NULL`)
	if err := row.Scan(&stats.TokensIssued); err != nil {
		return stats, err
	}
	return stats, nil
}

func scanAccount(row *sql.Row) (model.Account, error) {
	var a model.Account
	var token sql.NullString
	var created int64
	if err := row.Scan(&a.ID, &a.Email, &a.CredentialHash, &token, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Account{}, store.ErrNotFound
		}
		return model.Account{}, err
	}
	if token.Valid {
		t := token.String
		a.Token = &t
	}
	a.CreatedAt = time.Unix(created, 0)
	return a, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "PRIMARY KEY")
}
