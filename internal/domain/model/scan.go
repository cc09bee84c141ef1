package model

// RawSource is the key/value content read from one env file or one system
// credential store.
type RawSource struct {
	Name   string // ".env.production", "gh", "aws"
	Path   string
	Kind   SourceKind
	Values map[string]string
}

// SystemSource reports whether a probed system location exists. Found is
// independent of whether any credential could be extracted from it.
type SystemSource struct {
	Name     string
	Path     string
	Found    bool
	KeyCount int
}

// DetectedService is a scan-time record of a plausible credential set for
// one service. It is never persisted.
type DetectedService struct {
	Type            ServiceType
	DisplayName     string
	SuggestedName   string
	Sources         []string
	Credentials     Credentials
	IsComplete      bool
	MissingRequired []string
	Environment     EnvironmentTag
	ExistingAccount *AccountRef
	NameMatches     bool
	Intent          ImportIntent
	Selected        bool
	Warnings        []string
}

// ScanResult is the response of an env or system scan.
type ScanResult struct {
	Files          []string
	Sources        []SystemSource
	Services       []DetectedService
	UnmatchedCount int
}

// Service returns the detected service of type t, if any.
func (r ScanResult) Service(t ServiceType) (DetectedService, bool) {
	for _, s := range r.Services {
		if s.Type == t {
			return s, true
		}
	}
	return DetectedService{}, false
}
