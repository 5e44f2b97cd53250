package auth

import (
	"context"
	"fmt"

	"github.com/financeflow/flowdesk/internal/domain"
)

// Sessions signs callers in and out of a FileSession.
type Sessions struct {
	directory   *Directory
	issuer      *Issuer
	file        *FileSession
	adminEmails []string
}

func NewSessions(directory *Directory, issuer *Issuer, file *FileSession, adminEmails []string) *Sessions {
	return &Sessions{directory: directory, issuer: issuer, file: file, adminEmails: adminEmails}
}

// Login resolves req, issues a token and stores it as the current session.
func (s *Sessions) Login(ctx context.Context, req LoginRequest) (*domain.Caller, error) {
	caller, err := s.directory.Login(ctx, req, s.adminEmails)
	if err != nil {
		return nil, err
	}
	token, err := s.issuer.Issue(*caller)
	if err != nil {
		return nil, fmt.Errorf("issuing session: %w", err)
	}
	if err := s.file.Save(token); err != nil {
		return nil, err
	}
	return caller, nil
}

func (s *Sessions) Logout() error {
	return s.file.Clear()
}

func (s *Sessions) CurrentCaller(ctx context.Context) (*domain.Caller, error) {
	return s.file.CurrentCaller(ctx)
}
