package model

import "time"

// ServiceAccount is a persisted, named credential set for one service type.
// Credential values are encrypted at rest and masked whenever rendered.
type ServiceAccount struct {
	ID          string
	Type        ServiceType
	Name        string
	Environment EnvironmentTag
	Credentials Credentials
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AccountRef is a lightweight back-reference to a stored account, attached to
// scan results for display.
type AccountRef struct {
	ID          string
	Name        string
	Environment EnvironmentTag
}

// Ref returns the AccountRef for a.
func (a ServiceAccount) Ref() AccountRef {
	return AccountRef{ID: a.ID, Name: a.Name, Environment: a.Environment}
}

// AccountPatch carries a partial update. Blank fields leave the stored value
// untouched.
type AccountPatch struct {
	Name        string
	Environment EnvironmentTag
	Credentials Credentials
}

// Apply merges p into a and reports whether anything changed.
func (a *ServiceAccount) Apply(p AccountPatch) bool {
	changed := false
	if p.Name != "" && p.Name != a.Name {
		a.Name = p.Name
		changed = true
	}
	if p.Environment != EnvironmentNone && p.Environment != a.Environment {
		a.Environment = p.Environment
		changed = true
	}
	merged, credsChanged := a.Credentials.Merge(p.Credentials)
	a.Credentials = merged
	return changed || credsChanged
}
