package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/financeflow/flowdesk/internal/domain"
)

// FileSession keeps the current session token in a file and verifies it
// on every request.
type FileSession struct {
	path   string
	issuer *Issuer
}

func NewFileSession(path string, issuer *Issuer) *FileSession {
	return &FileSession{path: path, issuer: issuer}
}

func (s *FileSession) CurrentCaller(context.Context) (*domain.Caller, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("reading session: %w", err)
	}
	return s.issuer.Verify(strings.TrimSpace(string(raw)))
}

// Save stores token as the current session.
func (s *FileSession) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// Clear removes the current session. Clearing a missing session is not
// an error.
func (s *FileSession) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}
