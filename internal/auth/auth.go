// Package auth resolves the authenticated caller for store requests.
package auth

import (
	"context"
	"errors"

	"github.com/financeflow/flowdesk/internal/domain"
)

// ErrUnauthenticated is returned when no valid session is available.
var ErrUnauthenticated = errors.New("not signed in")

// Authenticator provides the caller on whose behalf a request runs.
type Authenticator interface {
	CurrentCaller(ctx context.Context) (*domain.Caller, error)
}

// Static always returns the same caller. A nil Caller means signed out.
type Static struct {
	Caller *domain.Caller
}

func (s Static) CurrentCaller(context.Context) (*domain.Caller, error) {
	if s.Caller == nil {
		return nil, ErrUnauthenticated
	}
	c := *s.Caller
	return &c, nil
}
