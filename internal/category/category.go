package category

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/frahmantamala/expense-tracker/internal"
)

const (
	ResourceURI      = "expense://categories"
	ResourceName     = "categories"
	ResourceMIMEType = "application/json"
)

//go:embed categories.json
var defaultDocument []byte

// DefaultDocument returns a copy of the category document shipped with the
// binary.
func DefaultDocument() []byte {
	return append([]byte(nil), defaultDocument...)
}

// Source serves the category document stored at a fixed path. The file is read
// on every call so edits are visible without a restart.
type Source struct {
	path   string
	logger *slog.Logger
}

func NewSource(path string, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{path: path, logger: logger}
}

func (s *Source) Path() string {
	return s.path
}

// Read returns the file contents verbatim. The bytes are not parsed.
func (s *Source) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Error("failed to read categories", "path", s.path, "error", err)
		return nil, internal.NewReadError("failed to read categories", err)
	}
	return data, nil
}

// WriteDefault creates the category file from the embedded document. It
// reports false without touching anything when the file already exists.
func (s *Source) WriteDefault() (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to stat %s: %w", s.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create directory for %s: %w", s.path, err)
	}
	if err := os.WriteFile(s.path, defaultDocument, 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", s.path, err)
	}

	s.logger.Info("default categories written", "path", s.path)
	return true, nil
}
