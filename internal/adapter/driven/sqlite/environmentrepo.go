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
var _ driven.EnvironmentStore = (*EnvironmentRepo)(nil)

// EnvironmentRepo is the SQLite implementation of the EnvironmentStore port
// interface. database_url and variables are encrypted at rest.
type EnvironmentRepo struct {
	db     *DB
	sealer sealer
}

// NewEnvironmentRepo creates a new EnvironmentRepo. See NewAccountRepo for key semantics.
func NewEnvironmentRepo(db *DB, key []byte) *EnvironmentRepo {
	return &EnvironmentRepo{db: db, sealer: sealer{key: key}}
}

const environmentColumns = `id, project_id, name, description, server_url, database_url, variables, is_active, created_at, updated_at`

// Create stores a new, inactive environment.
func (r *EnvironmentRepo) Create(ctx context.Context, env model.Environment) (model.Environment, error) {
	dbURL, vars, err := r.sealSecrets(env)
	if err != nil {
		return model.Environment{}, err
	}

	if env.ID == "" {
		env.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	env.CreatedAt = now
	env.UpdatedAt = now
	env.IsActive = false

	const query = `
		INSERT INTO environments (` + environmentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?)
	`
	_, err = r.db.Writer.ExecContext(ctx, query,
		env.ID, env.ProjectID, env.Name, env.Description, env.ServerURL, dbURL, vars,
		formatTime(now), formatTime(now),
	)
	if err != nil {
		return model.Environment{}, fmt.Errorf("insert environment %q: %w", env.Name, err)
	}
	return env, nil
}

// Update overwrites the editable fields. The active flag is only changed by Activate.
func (r *EnvironmentRepo) Update(ctx context.Context, env model.Environment) (model.Environment, error) {
	dbURL, vars, err := r.sealSecrets(env)
	if err != nil {
		return model.Environment{}, err
	}

	const query = `
		UPDATE environments
		SET name = ?, description = ?, server_url = ?, database_url = ?, variables = ?, updated_at = ?
		WHERE id = ? AND project_id = ?
	`
	result, err := r.db.Writer.ExecContext(ctx, query,
		env.Name, env.Description, env.ServerURL, dbURL, vars, formatTime(time.Now()),
		env.ID, env.ProjectID,
	)
	if err != nil {
		return model.Environment{}, fmt.Errorf("update environment %s: %w", env.ID, err)
	}
	if err := requireOneRow(result, driven.ErrEnvironmentNotFound); err != nil {
		return model.Environment{}, err
	}
	return r.Get(ctx, env.ProjectID, env.ID)
}

// Get returns one environment of a project.
func (r *EnvironmentRepo) Get(ctx context.Context, projectID, id string) (model.Environment, error) {
	const query = `SELECT ` + environmentColumns + ` FROM environments WHERE id = ? AND project_id = ?`
	env, err := r.scanEnvironment(r.db.Reader.QueryRowContext(ctx, query, id, projectID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Environment{}, driven.ErrEnvironmentNotFound
	}
	if err != nil {
		return model.Environment{}, fmt.Errorf("get environment %s: %w", id, err)
	}
	return env, nil
}

// ListByProject returns the project's environments ordered by name.
func (r *EnvironmentRepo) ListByProject(ctx context.Context, projectID string) ([]model.Environment, error) {
	const query = `SELECT ` + environmentColumns + ` FROM environments WHERE project_id = ? ORDER BY name, created_at`
	rows, err := r.db.Reader.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list environments for %s: %w", projectID, err)
	}
	defer rows.Close()

	envs := []model.Environment{}
	for rows.Next() {
		env, err := r.scanEnvironment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan environment: %w", err)
		}
		envs = append(envs, env)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate environments: %w", err)
	}
	return envs, nil
}

// Delete removes one environment of a project.
func (r *EnvironmentRepo) Delete(ctx context.Context, projectID, id string) error {
	const query = `DELETE FROM environments WHERE id = ? AND project_id = ?`
	result, err := r.db.Writer.ExecContext(ctx, query, id, projectID)
	if err != nil {
		return fmt.Errorf("delete environment %s: %w", id, err)
	}
	return requireOneRow(result, driven.ErrEnvironmentNotFound)
}

// Activate deactivates every other environment of the project and activates id
// in one transaction. When id does not belong to the project the transaction
// is rolled back, leaving the previous active environment in place.
func (r *EnvironmentRepo) Activate(ctx context.Context, projectID, id string) (model.Environment, error) {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return model.Environment{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op.

	now := formatTime(time.Now())

	const deactivate = `
		UPDATE environments SET is_active = 0, updated_at = ?
		WHERE project_id = ? AND id <> ? AND is_active = 1
	`
	if _, err := tx.ExecContext(ctx, deactivate, now, projectID, id); err != nil {
		return model.Environment{}, fmt.Errorf("deactivate environments of %s: %w", projectID, err)
	}

	const activate = `
		UPDATE environments SET is_active = 1, updated_at = ?
		WHERE project_id = ? AND id = ?
	`
	result, err := tx.ExecContext(ctx, activate, now, projectID, id)
	if err != nil {
		return model.Environment{}, fmt.Errorf("activate environment %s: %w", id, err)
	}
	if err := requireOneRow(result, driven.ErrEnvironmentNotFound); err != nil {
		return model.Environment{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Environment{}, fmt.Errorf("commit activation of %s: %w", id, err)
	}

	return r.Get(ctx, projectID, id)
}

func (r *EnvironmentRepo) sealSecrets(env model.Environment) (dbURL, vars string, err error) {
	if dbURL, err = r.sealer.seal(env.DatabaseURL.Reveal()); err != nil {
		return "", "", err
	}
	if vars, err = r.sealer.sealCredentials(env.Variables); err != nil {
		return "", "", err
	}
	return dbURL, vars, nil
}

func (r *EnvironmentRepo) scanEnvironment(s scanner) (model.Environment, error) {
	var (
		env                  model.Environment
		dbURL, vars          string
		isActive             int
		createdAt, updatedAt string
	)
	if err := s.Scan(
		&env.ID, &env.ProjectID, &env.Name, &env.Description, &env.ServerURL,
		&dbURL, &vars, &isActive, &createdAt, &updatedAt,
	); err != nil {
		return model.Environment{}, err
	}
	env.IsActive = isActive == 1

	plainURL, err := r.sealer.open(dbURL)
	if err != nil {
		return model.Environment{}, fmt.Errorf("decrypt database_url for %s: %w", env.ID, err)
	}
	env.DatabaseURL = model.NewSecret(plainURL)

	if env.Variables, err = r.sealer.openCredentials(vars); err != nil {
		return model.Environment{}, fmt.Errorf("decrypt variables for %s: %w", env.ID, err)
	}
	if env.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.Environment{}, fmt.Errorf("parse created_at: %w", err)
	}
	if env.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return model.Environment{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return env, nil
}
