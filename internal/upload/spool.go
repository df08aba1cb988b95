package upload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/akolanti/DocForm/internal/config"
	"github.com/akolanti/DocForm/internal/domain/errorModel"
)

var safeID = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// Spooler keeps the current file of each session on disk for the preview.
// A session has at most one spooled file.
type Spooler struct {
	dir string
}

// NewSpooler creates dir when needed. An empty dir means temporary_data under
// the working directory.
func NewSpooler(dir string) (*Spooler, error) {
	if dir == "" {
		root, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("storage error: %w", err)
		}
		dir = filepath.Join(root, config.TemporaryDataDir)
	}
	if err := os.MkdirAll(dir, config.TemporaryDirPerm); err != nil {
		return nil, fmt.Errorf("storage error: %w", err)
	}
	return &Spooler{dir: dir}, nil
}

func (s *Spooler) path(sessionID string) (string, error) {
	if !safeID.MatchString(sessionID) {
		return "", fmt.Errorf("invalid session id %q", sessionID)
	}
	return filepath.Join(s.dir, sessionID+".pdf"), nil
}

// Spool replaces the session's previous file with f.
func (s *Spooler) Spool(sessionID string, f File) (string, error) {
	target, err := s.path(sessionID)
	if err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(s.dir, sessionID+"-*.part")
	if err != nil {
		return "", fmt.Errorf("storage error: %w", err)
	}
	if _, err := tmp.Write(f.Data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write error: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write error: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write error: %w", err)
	}
	return target, nil
}

// Open returns the spooled file of the session.
func (s *Spooler) Open(sessionID string) (*os.File, error) {
	target, err := s.path(sessionID)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errorModel.ErrNotFound
	}
	return f, err
}

func (s *Spooler) Remove(sessionID string) error {
	target, err := s.path(sessionID)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
