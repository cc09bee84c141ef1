package model

import "time"

// TestAccount is a project-scoped login used for exercising a deployed app.
// Several accounts may share a role.
type TestAccount struct {
	ID          string
	ProjectID   string
	Role        string
	Email       string
	Password    Secret
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TestAccountPatch carries a partial test-account update.
type TestAccountPatch struct {
	Role        string
	Email       string
	Password    Secret
	Description *string
}

// Apply merges p into a. A blank password keeps the stored one.
func (a *TestAccount) Apply(p TestAccountPatch) {
	if p.Role != "" {
		a.Role = p.Role
	}
	if p.Email != "" {
		a.Email = p.Email
	}
	if !p.Password.IsEmpty() {
		a.Password = p.Password
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
}
