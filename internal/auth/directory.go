package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/financeflow/flowdesk/internal/db"
	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/google/uuid"
)

// UserTypeSuperAdmin marks a profile whose sessions carry the super-admin
// role.
const UserTypeSuperAdmin = "super_admin"

// Directory is the identity side of the store. It runs outside row
// policies because it establishes who the caller is.
type Directory struct {
	db db.DBTX
}

func NewDirectory(conn db.DBTX) *Directory {
	return &Directory{db: conn}
}

type identity struct {
	ID       string
	Email    string
	UserType string
}

func (d *Directory) findByEmail(ctx context.Context, email string) (*identity, error) {
	var id identity
	err := d.db.QueryRowContext(ctx,
		`SELECT id, email, user_type FROM profiles WHERE email = ?`, email,
	).Scan(&id.ID, &id.Email, &id.UserType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", email, err)
	}
	return &id, nil
}

func (d *Directory) register(ctx context.Context, email, name string) (*identity, error) {
	now := time.Now().UTC().Format(db.TimestampLayout)
	id := uuid.New().String()
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO profiles (id, email, name, user_type, subscription, created_at, updated_at)
		 VALUES (?, ?, ?, 'individual', 'free', ?, ?)`,
		id, email, name, now, now)
	if err != nil {
		return nil, fmt.Errorf("registering %s: %w", email, err)
	}
	return &identity{ID: id, Email: email, UserType: "individual"}, nil
}

// LoginRequest describes a sign-in attempt.
type LoginRequest struct {
	Email string
	Name  string
	// Register creates the profile when the email is unknown.
	Register bool
}

// Login resolves the profile for req.Email and decides the session role.
// A caller is a super-admin when the profile says so or the email is in
// adminEmails.
func (d *Directory) Login(ctx context.Context, req LoginRequest, adminEmails []string) (*domain.Caller, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, errors.New("email is required")
	}

	ident, err := d.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if ident == nil {
		if !req.Register {
			return nil, fmt.Errorf("%w: no account for %s", ErrUnauthenticated, email)
		}
		if ident, err = d.register(ctx, email, strings.TrimSpace(req.Name)); err != nil {
			return nil, err
		}
	}

	role := domain.RoleMember
	if ident.UserType == UserTypeSuperAdmin || containsEmail(adminEmails, email) {
		role = domain.RoleSuperAdmin
	}
	return &domain.Caller{ID: ident.ID, Email: ident.Email, Role: role}, nil
}

func containsEmail(list []string, email string) bool {
	for _, e := range list {
		if strings.EqualFold(strings.TrimSpace(e), email) {
			return true
		}
	}
	return false
}
