package model

// ImportSelection is one caller-approved service to import. AccountID, when
// set, turns the import into an update of that account. Credentials, when
// set, are used instead of the values found by re-scanning.
type ImportSelection struct {
	Type        ServiceType
	Name        string
	AccountID   string
	Environment EnvironmentTag
	Credentials Credentials
}

// ImportError explains why one selection failed.
type ImportError struct {
	Type   ServiceType
	Name   string
	Reason string
}

// ImportResult is the per-selection outcome of an import.
type ImportResult struct {
	Type      ServiceType
	Name      string
	AccountID string
	Outcome   ImportOutcome
}

// ImportSummary aggregates an import call. Every selection lands in exactly
// one of Created, Updated, Skipped or Errors.
type ImportSummary struct {
	Created int
	Updated int
	Skipped int
	Errors  []ImportError
	Results []ImportResult
}

// Record adds the outcome of one selection to the summary.
func (s *ImportSummary) Record(r ImportResult) {
	switch r.Outcome {
	case OutcomeCreated:
		s.Created++
	case OutcomeUpdated:
		s.Updated++
	case OutcomeSkipped:
		s.Skipped++
	}
	s.Results = append(s.Results, r)
}

// Fail adds a failed selection to the summary.
func (s *ImportSummary) Fail(sel ImportSelection, reason string) {
	s.Errors = append(s.Errors, ImportError{Type: sel.Type, Name: sel.Name, Reason: reason})
	s.Results = append(s.Results, ImportResult{Type: sel.Type, Name: sel.Name, AccountID: sel.AccountID, Outcome: OutcomeFailed})
}
