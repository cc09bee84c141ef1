package application

import (
	"strings"
	"unicode"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
)

// Reconcile attaches the best same-type stored account to each detected
// service. Candidates are ranked by name similarity, then environment, then
// most recent update. The name only informs the UI; any same-type account
// makes the intent an update.
func Reconcile(services []model.DetectedService, accounts []model.ServiceAccount) []model.DetectedService {
	out := make([]model.DetectedService, len(services))
	for i, svc := range services {
		svc.ExistingAccount = nil
		svc.NameMatches = false
		svc.Intent = model.IntentCreate

		var (
			best      *model.ServiceAccount
			bestScore int
			bestEnv   bool
		)
		for j := range accounts {
			acct := &accounts[j]
			if acct.Type != svc.Type {
				continue
			}
			score := nameScore(svc.SuggestedName, acct.Name)
			envMatch := svc.Environment != model.EnvironmentNone && acct.Environment == svc.Environment
			if best == nil || betterAccount(score, envMatch, acct, bestScore, bestEnv, best) {
				best, bestScore, bestEnv = acct, score, envMatch
			}
		}

		if best != nil {
			ref := best.Ref()
			svc.ExistingAccount = &ref
			svc.NameMatches = bestScore > 0
			svc.Intent = model.IntentUpdate
		}
		out[i] = svc
	}
	return out
}

func betterAccount(score int, env bool, acct *model.ServiceAccount, bestScore int, bestEnv bool, best *model.ServiceAccount) bool {
	if score != bestScore {
		return score > bestScore
	}
	if env != bestEnv {
		return env
	}
	return acct.UpdatedAt.After(best.UpdatedAt)
}

// nameScore is 2 for a normalised exact match, 1 when one name contains the
// other and 0 otherwise.
func nameScore(suggested, stored string) int {
	a, b := foldName(suggested), foldName(stored)
	switch {
	case a == "" || b == "":
		return 0
	case a == b:
		return 2
	case strings.Contains(a, b) || strings.Contains(b, a):
		return 1
	}
	return 0
}

// foldName lower-cases s and drops everything but letters and digits.
func foldName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
