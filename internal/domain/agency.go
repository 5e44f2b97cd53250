package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrCompanyNameAndOwnerRequired is returned when a company is created
// without a name or an owner.
var ErrCompanyNameAndOwnerRequired = errors.New("company name and owner are required")

// Agency is a company whose members share a kanban board.
type Agency struct {
	ID          string
	Name        string
	OwnerID     string
	CNPJ        string
	Description string
	CreatedAt   time.Time
}

type AgencyMember struct {
	AgencyID  string
	UserID    string
	Role      MemberRole
	CreatedAt time.Time
}

// ValidateNewCompany checks the fields required to create a company.
func ValidateNewCompany(name, ownerEmail string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(ownerEmail) == "" {
		return ErrCompanyNameAndOwnerRequired
	}
	return nil
}
