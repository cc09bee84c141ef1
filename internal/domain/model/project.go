package model

import "time"

// Project is a registry entry mapping a project id to its checkout path.
type Project struct {
	ID        string
	Name      string
	Path      string
	CreatedAt time.Time
}

// ProjectIntegration records which account a project uses for a service type.
// A project has at most one account per type.
type ProjectIntegration struct {
	ProjectID   string
	ServiceType ServiceType
	AccountID   string
	UpdatedAt   time.Time
}
