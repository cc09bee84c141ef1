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
var _ driven.TestAccountStore = (*TestAccountRepo)(nil)

// TestAccountRepo is the SQLite implementation of the TestAccountStore port
// interface. Passwords are encrypted at rest.
type TestAccountRepo struct {
	db     *DB
	sealer sealer
}

// NewTestAccountRepo creates a new TestAccountRepo. See NewAccountRepo for key semantics.
func NewTestAccountRepo(db *DB, key []byte) *TestAccountRepo {
	return &TestAccountRepo{db: db, sealer: sealer{key: key}}
}

const testAccountColumns = `id, project_id, role, email, password, description, created_at, updated_at`

// Create stores a new test account.
func (r *TestAccountRepo) Create(ctx context.Context, account model.TestAccount) (model.TestAccount, error) {
	password, err := r.sealer.seal(account.Password.Reveal())
	if err != nil {
		return model.TestAccount{}, err
	}

	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	const query = `INSERT INTO test_accounts (` + testAccountColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.Writer.ExecContext(ctx, query,
		account.ID, account.ProjectID, account.Role, account.Email, password, account.Description,
		formatTime(now), formatTime(now),
	)
	if err != nil {
		return model.TestAccount{}, fmt.Errorf("insert test account %q: %w", account.Email, err)
	}
	return account, nil
}

// Update overwrites the editable fields of a test account.
func (r *TestAccountRepo) Update(ctx context.Context, account model.TestAccount) (model.TestAccount, error) {
	password, err := r.sealer.seal(account.Password.Reveal())
	if err != nil {
		return model.TestAccount{}, err
	}

	const query = `
		UPDATE test_accounts
		SET role = ?, email = ?, password = ?, description = ?, updated_at = ?
		WHERE id = ? AND project_id = ?
	`
	result, err := r.db.Writer.ExecContext(ctx, query,
		account.Role, account.Email, password, account.Description, formatTime(time.Now()),
		account.ID, account.ProjectID,
	)
	if err != nil {
		return model.TestAccount{}, fmt.Errorf("update test account %s: %w", account.ID, err)
	}
	if err := requireOneRow(result, driven.ErrTestAccountNotFound); err != nil {
		return model.TestAccount{}, err
	}
	return r.Get(ctx, account.ProjectID, account.ID)
}

// Get returns one test account of a project.
func (r *TestAccountRepo) Get(ctx context.Context, projectID, id string) (model.TestAccount, error) {
	const query = `SELECT ` + testAccountColumns + ` FROM test_accounts WHERE id = ? AND project_id = ?`
	account, err := r.scanTestAccount(r.db.Reader.QueryRowContext(ctx, query, id, projectID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.TestAccount{}, driven.ErrTestAccountNotFound
	}
	if err != nil {
		return model.TestAccount{}, fmt.Errorf("get test account %s: %w", id, err)
	}
	return account, nil
}

// ListByProject returns the project's test accounts ordered by role, then email.
func (r *TestAccountRepo) ListByProject(ctx context.Context, projectID string) ([]model.TestAccount, error) {
	const query = `SELECT ` + testAccountColumns + ` FROM test_accounts WHERE project_id = ? ORDER BY role, email`
	rows, err := r.db.Reader.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list test accounts for %s: %w", projectID, err)
	}
	defer rows.Close()

	accounts := []model.TestAccount{}
	for rows.Next() {
		account, err := r.scanTestAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan test account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate test accounts: %w", err)
	}
	return accounts, nil
}

// Delete removes one test account of a project.
func (r *TestAccountRepo) Delete(ctx context.Context, projectID, id string) error {
	const query = `DELETE FROM test_accounts WHERE id = ? AND project_id = ?`
	result, err := r.db.Writer.ExecContext(ctx, query, id, projectID)
	if err != nil {
		return fmt.Errorf("delete test account %s: %w", id, err)
	}
	return requireOneRow(result, driven.ErrTestAccountNotFound)
}

func (r *TestAccountRepo) scanTestAccount(s scanner) (model.TestAccount, error) {
	var (
		account              model.TestAccount
		password             string
		createdAt, updatedAt string
	)
	if err := s.Scan(
		&account.ID, &account.ProjectID, &account.Role, &account.Email,
		&password, &account.Description, &createdAt, &updatedAt,
	); err != nil {
		return model.TestAccount{}, err
	}

	plain, err := r.sealer.open(password)
	if err != nil {
		return model.TestAccount{}, fmt.Errorf("decrypt password for %s: %w", account.ID, err)
	}
	account.Password = model.NewSecret(plain)

	if account.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.TestAccount{}, fmt.Errorf("parse created_at: %w", err)
	}
	if account.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return model.TestAccount{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return account, nil
}
