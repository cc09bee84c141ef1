package model

import "time"

// Environment is a project-scoped configuration profile. At most one
// environment per project is active at a time.
type Environment struct {
	ID          string
	ProjectID   string
	Name        string
	Description string
	ServerURL   string
	DatabaseURL Secret
	Variables   Credentials
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EnvironmentPatch carries a partial environment update.
type EnvironmentPatch struct {
	Name        string
	Description *string
	ServerURL   string
	DatabaseURL Secret
	Variables   Credentials
}

// Apply merges p into e. Blank name, server URL and database URL keep the
// stored values; variables merge by key. Description is replaced when set,
// including to the empty string.
func (e *Environment) Apply(p EnvironmentPatch) {
	if p.Name != "" {
		e.Name = p.Name
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.ServerURL != "" {
		e.ServerURL = p.ServerURL
	}
	if !p.DatabaseURL.IsEmpty() {
		e.DatabaseURL = p.DatabaseURL
	}
	e.Variables, _ = e.Variables.Merge(p.Variables)
}
