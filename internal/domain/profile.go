package domain

import (
	"encoding/json"
	"time"
)

type Profile struct {
	ID               string
	Email            string
	Name             string
	UserType         string
	Subscription     string
	SubscriptionData json.RawMessage
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Caller is the authenticated user on whose behalf a request is made.
type Caller struct {
	ID    string
	Email string
	Role  Role
}

// IsSuperAdmin reports whether the caller may use privileged procedures.
func (c *Caller) IsSuperAdmin() bool {
	return c != nil && c.Role == RoleSuperAdmin
}
