package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
	"github.com/ericfisherdev/integrationhub/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.ProjectStore     = (*ProjectRepo)(nil)
	_ driven.IntegrationStore = (*IntegrationRepo)(nil)
)

// ProjectRepo is the SQLite implementation of the ProjectStore port interface.
type ProjectRepo struct {
	db *DB
}

// NewProjectRepo creates a new ProjectRepo backed by the given DB.
func NewProjectRepo(db *DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

// Add registers a project. Returns driven.ErrProjectAlreadyExists when the path
// is already registered.
func (r *ProjectRepo) Add(ctx context.Context, project model.Project) (model.Project, error) {
	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	project.CreatedAt = time.Now().UTC()

	const query = `INSERT INTO projects (id, name, path, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.Writer.ExecContext(ctx, query, project.ID, project.Name, project.Path, formatTime(project.CreatedAt))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return model.Project{}, driven.ErrProjectAlreadyExists
		}
		return model.Project{}, fmt.Errorf("insert project %q: %w", project.Path, err)
	}
	return project, nil
}

// Get returns the project with the given ID.
func (r *ProjectRepo) Get(ctx context.Context, id string) (model.Project, error) {
	const query = `SELECT id, name, path, created_at FROM projects WHERE id = ?`
	project, err := scanProject(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Project{}, driven.ErrProjectNotFound
	}
	if err != nil {
		return model.Project{}, fmt.Errorf("get project %s: %w", id, err)
	}
	return project, nil
}

// List returns all registered projects ordered by name.
func (r *ProjectRepo) List(ctx context.Context) ([]model.Project, error) {
	const query = `SELECT id, name, path, created_at FROM projects ORDER BY name, path`
	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

// Remove deletes the project along with its environments, test accounts and
// integrations (foreign key cascade).
func (r *ProjectRepo) Remove(ctx context.Context, id string) error {
	const query = `DELETE FROM projects WHERE id = ?`
	result, err := r.db.Writer.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	return requireOneRow(result, driven.ErrProjectNotFound)
}

func scanProject(s scanner) (model.Project, error) {
	var project model.Project
	var createdAt string
	if err := s.Scan(&project.ID, &project.Name, &project.Path, &createdAt); err != nil {
		return model.Project{}, err
	}
	var err error
	if project.CreatedAt, err = parseTime(createdAt); err != nil {
		return model.Project{}, fmt.Errorf("parse created_at: %w", err)
	}
	return project, nil
}

// IntegrationRepo is the SQLite implementation of the IntegrationStore port interface.
type IntegrationRepo struct {
	db *DB
}

// NewIntegrationRepo creates a new IntegrationRepo backed by the given DB.
func NewIntegrationRepo(db *DB) *IntegrationRepo {
	return &IntegrationRepo{db: db}
}

// Set upserts the (project, service type) mapping.
func (r *IntegrationRepo) Set(ctx context.Context, integration model.ProjectIntegration) error {
	const query = `
		INSERT INTO project_integrations (project_id, service_type, account_id, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (project_id, service_type)
		DO UPDATE SET account_id = excluded.account_id, updated_at = excluded.updated_at
	`
	_, err := r.db.Writer.ExecContext(ctx, query,
		integration.ProjectID, string(integration.ServiceType), integration.AccountID, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("set integration %s/%s: %w", integration.ProjectID, integration.ServiceType, err)
	}
	return nil
}

// Clear removes the mapping for a service type.
func (r *IntegrationRepo) Clear(ctx context.Context, projectID string, serviceType model.ServiceType) error {
	const query = `DELETE FROM project_integrations WHERE project_id = ? AND service_type = ?`
	if _, err := r.db.Writer.ExecContext(ctx, query, projectID, string(serviceType)); err != nil {
		return fmt.Errorf("clear integration %s/%s: %w", projectID, serviceType, err)
	}
	return nil
}

// ListByProject returns the project's mappings ordered by service type.
func (r *IntegrationRepo) ListByProject(ctx context.Context, projectID string) ([]model.ProjectIntegration, error) {
	const query = `
		SELECT project_id, service_type, account_id, updated_at
		FROM project_integrations
		WHERE project_id = ?
		ORDER BY service_type
	`
	rows, err := r.db.Reader.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list integrations for %s: %w", projectID, err)
	}
	defer rows.Close()

	integrations := []model.ProjectIntegration{}
	for rows.Next() {
		var (
			in          model.ProjectIntegration
			serviceType string
			updatedAt   string
		)
		if err := rows.Scan(&in.ProjectID, &serviceType, &in.AccountID, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan integration: %w", err)
		}
		in.ServiceType = model.ServiceType(serviceType)
		if in.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("parse updated_at: %w", err)
		}
		integrations = append(integrations, in)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate integrations: %w", err)
	}
	return integrations, nil
}
