package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
	"github.com/ericfisherdev/integrationhub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AccountStore = (*AccountRepo)(nil)

// AccountRepo is the SQLite implementation of the AccountStore port interface.
// The credential map is encrypted with AES-256-GCM before write and decrypted after read.
type AccountRepo struct {
	db     *DB
	sealer sealer
}

// NewAccountRepo creates a new AccountRepo. key must be 32 bytes for AES-256-GCM,
// or nil to disable credential storage (operations touching credentials return
// driven.ErrEncryptionKeyNotSet).
func NewAccountRepo(db *DB, key []byte) *AccountRepo {
	return &AccountRepo{db: db, sealer: sealer{key: key}}
}

// Create stores a new account, assigning an ID when none is set.
func (r *AccountRepo) Create(ctx context.Context, account model.ServiceAccount) (model.ServiceAccount, error) {
	creds, err := r.sealer.sealCredentials(account.Credentials)
	if err != nil {
		return model.ServiceAccount{}, err
	}

	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	const query = `
		INSERT INTO service_accounts (id, type, name, environment, credentials, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Writer.ExecContext(ctx, query,
		account.ID, string(account.Type), account.Name, string(account.Environment),
		creds, formatTime(now), formatTime(now),
	)
	if err != nil {
		return model.ServiceAccount{}, fmt.Errorf("insert service account %q: %w", account.Name, err)
	}
	return account, nil
}

// Update overwrites name, environment and credentials. Merging of partial
// input happens in the application layer before this call.
func (r *AccountRepo) Update(ctx context.Context, account model.ServiceAccount) (model.ServiceAccount, error) {
	creds, err := r.sealer.sealCredentials(account.Credentials)
	if err != nil {
		return model.ServiceAccount{}, err
	}

	account.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE service_accounts
		SET name = ?, environment = ?, credentials = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.Writer.ExecContext(ctx, query,
		account.Name, string(account.Environment), creds, formatTime(account.UpdatedAt), account.ID,
	)
	if err != nil {
		return model.ServiceAccount{}, fmt.Errorf("update service account %s: %w", account.ID, err)
	}
	if err := requireOneRow(result, driven.ErrAccountNotFound); err != nil {
		return model.ServiceAccount{}, err
	}

	return r.Get(ctx, account.ID)
}

// Get returns the account with the given ID.
func (r *AccountRepo) Get(ctx context.Context, id string) (model.ServiceAccount, error) {
	const query = `
		SELECT id, type, name, environment, credentials, created_at, updated_at
		FROM service_accounts
		WHERE id = ?
	`
	account, err := r.scanAccount(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.ServiceAccount{}, driven.ErrAccountNotFound
	}
	if err != nil {
		return model.ServiceAccount{}, fmt.Errorf("get service account %s: %w", id, err)
	}
	return account, nil
}

// List returns all accounts ordered by type, then name.
func (r *AccountRepo) List(ctx context.Context) ([]model.ServiceAccount, error) {
	const query = `
		SELECT id, type, name, environment, credentials, created_at, updated_at
		FROM service_accounts
		ORDER BY type, name, created_at
	`
	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list service accounts: %w", err)
	}
	defer rows.Close()

	accounts := []model.ServiceAccount{}
	for rows.Next() {
		account, err := r.scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate service accounts: %w", err)
	}

	return accounts, nil
}

// Delete removes the account. Project integrations pointing at it are removed
// by the foreign key cascade.
func (r *AccountRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM service_accounts WHERE id = ?`
	result, err := r.db.Writer.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete service account %s: %w", id, err)
	}
	return requireOneRow(result, driven.ErrAccountNotFound)
}

func (r *AccountRepo) scanAccount(s scanner) (model.ServiceAccount, error) {
	var (
		account              model.ServiceAccount
		accountType, env     string
		creds                string
		createdAt, updatedAt string
	)
	if err := s.Scan(&account.ID, &accountType, &account.Name, &env, &creds, &createdAt, &updatedAt); err != nil {
		return model.ServiceAccount{}, err
	}
	account.Type = model.ServiceType(accountType)
	account.Environment = model.EnvironmentTag(env)

	var err error
	account.Credentials, err = r.sealer.openCredentials(creds)
	if err != nil {
		return model.ServiceAccount{}, fmt.Errorf("decrypt credentials for %s: %w", account.ID, err)
	}
	if account.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.ServiceAccount{}, fmt.Errorf("parse created_at: %w", err)
	}
	if account.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return model.ServiceAccount{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return account, nil
}

// requireOneRow maps a zero-row write to notFound.
func requireOneRow(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
