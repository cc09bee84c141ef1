// Package filesystem implements the source scanner ports over local files:
// project .env files and user-level credential stores.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/ericfisherdev/integrationhub/internal/domain/model"
	"github.com/ericfisherdev/integrationhub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.EnvScanner = (*EnvReader)(nil)

// EnvReader reads dotenv files from a project directory.
type EnvReader struct{}

// NewEnvReader creates an EnvReader.
func NewEnvReader() *EnvReader {
	return &EnvReader{}
}

// ReadEnvFiles parses each named file in dir, in order. Missing files and a
// missing dir are skipped. Every other failure is collected and returned as a
// combined error, with no sources.
func (r *EnvReader) ReadEnvFiles(ctx context.Context, dir string, names []string) ([]model.RawSource, []string, error) {
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil, nil
	case err != nil:
		return nil, nil, fmt.Errorf("stat %s: %w", dir, err)
	case !info.IsDir():
		return nil, nil, fmt.Errorf("%s is not a directory", dir)
	}

	var (
		sources []model.RawSource
		found   []string
		errs    error
	)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if filepath.Base(name) != name {
			errs = multierr.Append(errs, fmt.Errorf("invalid env file name %q", name))
			continue
		}

		path := filepath.Join(dir, name)
		values, err := readEnvFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}

		found = append(found, name)
		sources = append(sources, model.RawSource{
			Name:   name,
			Path:   path,
			Kind:   model.SourceKindEnv,
			Values: values,
		})
	}

	if errs != nil {
		return nil, nil, errs
	}
	return sources, found, nil
}

func readEnvFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	values, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return values, nil
}
