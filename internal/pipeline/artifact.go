package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/komapc/ido-esperanto-extractor/internal/domain"
)

// WriteEntries serializes entries as a stage artifact, using the same
// write-temp-then-rename discipline as the state file: output artifacts
// are written with write-then-rename semantics to avoid being observed
// as newer than input while incomplete. The temp file name carries a
// random uuid suffix so concurrent runs against the same output
// directory (e.g. status() polling while run() is writing) never
// collide on a shared temp path.
func WriteEntries(path string, entries []domain.Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("pipeline: marshal artifact %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("pipeline: mkdir %s: %w", dir, err)
	}
	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.tmp", uuid.NewString()))
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("pipeline: write artifact %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("pipeline: rename artifact %s: %w", path, err)
	}
	return nil
}

// ReadEntries deserializes a stage artifact previously written by
// WriteEntries.
func ReadEntries(path string) ([]domain.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pipeline: read artifact %s: %w", path, err)
	}
	var entries []domain.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("pipeline: artifact %s is corrupted: %w", path, err)
	}
	return entries, nil
}
