package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AptS-1547/dns-orchestrator/internal/domain/model"
	"github.com/AptS-1547/dns-orchestrator/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AccountStore = (*AccountRepo)(nil)

// AccountRepo is the SQLite implementation of the AccountStore port interface.
type AccountRepo struct {
	db *DB
}

// NewAccountRepo creates a new AccountRepo backed by the given DB.
func NewAccountRepo(db *DB) *AccountRepo {
	return &AccountRepo{db: db}
}

// FindAll returns all accounts ordered by creation time.
func (r *AccountRepo) FindAll(ctx context.Context) ([]model.Account, error) {
	const query = `SELECT id, name, provider, status, error_message, created_at, updated_at
		FROM accounts ORDER BY created_at, id`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, *account)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return accounts, nil
}

// FindByID retrieves an account by id. Returns nil, nil if no such account exists.
func (r *AccountRepo) FindByID(ctx context.Context, id string) (*model.Account, error) {
	const query = `SELECT id, name, provider, status, error_message, created_at, updated_at
		FROM accounts WHERE id = ?`

	account, err := scanAccount(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get account %s: %w", id, err)
	}

	return account, nil
}

// Save inserts or fully replaces the account record.
func (r *AccountRepo) Save(ctx context.Context, account model.Account) error {
	const query = `INSERT OR REPLACE INTO accounts
		(id, name, provider, status, error_message, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Writer.ExecContext(ctx, query,
		account.ID,
		account.Name,
		string(account.Provider),
		string(account.Status),
		account.ErrorMessage,
		account.CreatedAt.UTC().Format(time.RFC3339),
		account.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save account %s: %w", account.ID, err)
	}

	return nil
}

// SaveAll bulk-inserts or replaces accounts within a single transaction.
func (r *AccountRepo) SaveAll(ctx context.Context, accounts []model.Account) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save all accounts: %w", err)
	}
	defer tx.Rollback()

	const query = `INSERT OR REPLACE INTO accounts
		(id, name, provider, status, error_message, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare save all accounts: %w", err)
	}
	defer stmt.Close()

	for _, account := range accounts {
		_, err := stmt.ExecContext(ctx,
			account.ID,
			account.Name,
			string(account.Provider),
			string(account.Status),
			account.ErrorMessage,
			account.CreatedAt.UTC().Format(time.RFC3339),
			account.UpdatedAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("save account %s: %w", account.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save all accounts: %w", err)
	}

	return nil
}

// Delete removes an account record. Deleting a missing id is not an error.
func (r *AccountRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM accounts WHERE id = ?`

	if _, err := r.db.Writer.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete account %s: %w", id, err)
	}

	return nil
}

// UpdateStatus sets the account's status and error message without touching
// any other field.
func (r *AccountRepo) UpdateStatus(ctx context.Context, id string, status model.AccountStatus, errorMessage string) error {
	const query = `UPDATE accounts SET status = ?, error_message = ? WHERE id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, string(status), errorMessage, id)
	if err != nil {
		return fmt.Errorf("update account status %s: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update account status %s: account not found", id)
	}

	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (*model.Account, error) {
	var account model.Account
	var provider, status, createdAt, updatedAt string

	err := s.Scan(&account.ID, &account.Name, &provider, &status, &account.ErrorMessage, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	account.Provider = model.ProviderType(provider)
	account.Status = model.AccountStatus(status)

	account.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	account.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &account, nil
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
