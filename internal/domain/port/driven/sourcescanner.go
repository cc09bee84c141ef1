package driven

import (
	"context"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
)

// EnvScanner reads .env-style files from a project directory.
// A missing directory or file is not an error: it yields no source.
// Files that exist but cannot be read fail the whole call.
type EnvScanner interface {
	ReadEnvFiles(ctx context.Context, dir string, names []string) (sources []model.RawSource, found []string, err error)
}

// SystemScanner probes a fixed list of user-level credential stores
// (git config, CLI credential files, cloud provider files). Probing is best
// effort and read-only.
type SystemScanner interface {
	Probe(ctx context.Context) ([]model.RawSource, []model.SystemSource, error)
}
