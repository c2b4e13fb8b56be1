package documents

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brandforge/internal/interfaces"
)

// Store keeps rendered documents as flat files under a single output
// directory. Handles are bare filenames; anything with a path
// separator is rejected so a handle can never escape the directory.
type Store struct {
	dir    string
	logger arbor.ILogger
}

// NewStore creates the output directory if needed
func NewStore(dir string, logger arbor.ILogger) (interfaces.ResultStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create documents directory: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

func (s *Store) Store(jobID string, pdf []byte) (string, error) {
	if len(pdf) == 0 {
		return "", fmt.Errorf("refusing to store empty document")
	}

	handle := fmt.Sprintf("brand-guidelines-%s.pdf", jobID)
	path := filepath.Join(s.dir, handle)

	// Write to a temp name then rename so a concurrent download can
	// never observe a partial file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, pdf, 0644); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to finalize document: %w", err)
	}

	s.logger.Debug().Str("handle", handle).Int("bytes", len(pdf)).Msg("Document stored")
	return handle, nil
}

func (s *Store) Open(handle string) ([]byte, error) {
	if handle == "" || handle != filepath.Base(handle) || strings.Contains(handle, "..") {
		return nil, fmt.Errorf("invalid document handle: %q", handle)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, handle))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("document not found: %s", handle)
		}
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return data, nil
}

func (s *Store) DeleteOlderThan(ageHours int) (int, error) {
	cutoff := time.Now().Add(-time.Duration(ageHours) * time.Hour)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read documents directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".pdf") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
				s.logger.Warn().Err(err).Str("file", entry.Name()).Msg("Failed to remove expired document")
				continue
			}
			removed++
		}
	}

	if removed > 0 {
		s.logger.Info().Int("removed", removed).Int("age_hours", ageHours).Msg("Expired documents removed")
	}
	return removed, nil
}
