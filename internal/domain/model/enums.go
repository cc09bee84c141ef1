package model

// ServiceType identifies the external service a credential set belongs to.
type ServiceType string

const (
	ServiceTypeGitHub   ServiceType = "github"
	ServiceTypeSupabase ServiceType = "supabase"
	ServiceTypeVercel   ServiceType = "vercel"
	ServiceTypeSentry   ServiceType = "sentry"
	ServiceTypeAWS      ServiceType = "aws"
	ServiceTypeCustom   ServiceType = "custom"
)

// ServiceTypes lists every known service type in catalog order.
var ServiceTypes = []ServiceType{
	ServiceTypeGitHub,
	ServiceTypeSupabase,
	ServiceTypeVercel,
	ServiceTypeSentry,
	ServiceTypeAWS,
	ServiceTypeCustom,
}

// Valid reports whether t is one of the known service types.
func (t ServiceType) Valid() bool {
	for _, known := range ServiceTypes {
		if t == known {
			return true
		}
	}
	return false
}

// EnvironmentTag classifies an account or detected service by deployment stage.
// The zero value means "unclassified".
type EnvironmentTag string

const (
	EnvironmentNone        EnvironmentTag = ""
	EnvironmentDevelopment EnvironmentTag = "development"
	EnvironmentStaging     EnvironmentTag = "staging"
	EnvironmentProduction  EnvironmentTag = "production"
)

// Valid reports whether e is empty or one of the known stages.
func (e EnvironmentTag) Valid() bool {
	switch e {
	case EnvironmentNone, EnvironmentDevelopment, EnvironmentStaging, EnvironmentProduction:
		return true
	}
	return false
}

// SourceKind distinguishes project env files from system-level credential stores.
type SourceKind string

const (
	SourceKindEnv    SourceKind = "env"
	SourceKindSystem SourceKind = "system"
)

// ImportIntent is the reconciler's preview of what an import would do.
type ImportIntent string

const (
	IntentCreate ImportIntent = "create"
	IntentUpdate ImportIntent = "update"
)

// ImportOutcome records what the importer did for one selection.
type ImportOutcome string

const (
	OutcomeCreated ImportOutcome = "created"
	OutcomeUpdated ImportOutcome = "updated"
	OutcomeSkipped ImportOutcome = "skipped"
	OutcomeFailed  ImportOutcome = "failed"
)
