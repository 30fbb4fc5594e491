// Package store holds the output sinks of a run: the activities JSON
// document and the directory of exported activity files.
package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"coros-extract/internal/coros"
	"coros-extract/internal/model"
)

// JSONStore persists an activity collection as a single JSON document.
type JSONStore struct {
	path   string
	logger *zap.Logger
}

// NewJSONStore creates a store writing to path.
func NewJSONStore(path string, logger *zap.Logger) *JSONStore {
	return &JSONStore{path: path, logger: logger}
}

// Path returns the output path.
func (s *JSONStore) Path() string { return s.path }

// Save writes the collection, 2-space indented. A nil collection means no
// extraction ever ran and is a logged no-op; an empty but initialized
// collection is written out as an empty array.
func (s *JSONStore) Save(c model.Collection) error {
	if c == nil {
		s.logger.Debug("no extraction has run, nothing to write",
			zap.String("path", s.path))
		return nil
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding activities: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", s.path, err)
	}

	s.logger.Info("wrote activities",
		zap.String("path", s.path),
		zap.Int("count", len(c)))
	return nil
}

// ExportDir writes downloaded activity files into a single directory,
// created on first use.
type ExportDir struct {
	dir    string
	logger *zap.Logger
}

// NewExportDir creates an export sink rooted at dir.
func NewExportDir(dir string, logger *zap.Logger) *ExportDir {
	return &ExportDir{dir: dir, logger: logger}
}

// Dir returns the export directory path.
func (e *ExportDir) Dir() string { return e.dir }

// Filename composes the export filename for one activity:
// {ISO-8601 start}_{activity name}_{labelId}.{extension}.
func Filename(start model.Timestamp, name, labelID string, fileType coros.FileType) string {
	return fmt.Sprintf("%s_%s_%s.%s",
		start.Format(time.RFC3339), name, labelID, fileType.Extension())
}

// Write streams r into the directory under name and returns the full path.
func (e *ExportDir) Write(name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(e.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	e.logger.Debug("wrote export file", zap.String("path", path))
	return path, nil
}
