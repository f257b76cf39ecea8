// Package instructions resolves per-phase policy text from the instruction
// directory, falling back to a synthesized instruction when the file is
// missing. A missing instruction never fails a phase.
package instructions

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// ErrInvalidPhaseID rejects identifiers that are unsafe as file names.
var ErrInvalidPhaseID = errors.New("invalid phase identifier: must be alphanumeric with hyphens/underscores")

// idPattern validates phase identifiers used as file names.
var idPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// Loader reads phase instruction files from a directory. Instructions are
// read fresh on every call, never cached across runs.
type Loader struct {
	dir    string
	logger *zap.Logger
}

// NewLoader creates a loader reading from dir.
func NewLoader(dir string, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{dir: dir, logger: logger}
}

// Load returns the instruction text for a phase. The file is expected at
// <dir>/<id>.md. A missing file is a configuration gap, not a failure: a
// synthesized instruction is returned and a warning logged.
func (l *Loader) Load(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !idPattern.MatchString(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhaseID, id)
	}

	path := filepath.Join(l.dir, id+".md")
	content, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to read instruction file %s: %w", path, err)
		}
		l.logger.Warn("instruction file missing, using synthesized instruction",
			zap.String("phase", id),
			zap.String("path", path))
		return Synthesized(id), nil
	}

	text := strings.TrimSpace(string(content))
	if text == "" {
		l.logger.Warn("instruction file empty, using synthesized instruction",
			zap.String("phase", id),
			zap.String("path", path))
		return Synthesized(id), nil
	}
	return text, nil
}

// Synthesized returns the minimal fallback instruction for a phase.
func Synthesized(id string) string {
	return fmt.Sprintf("Complete the %s phase of the task. "+
		"Work from the task description and any prior phase output above, "+
		"and produce a concise, self-contained result.", strings.ReplaceAll(id, "_", " "))
}
