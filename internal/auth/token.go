package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/financeflow/flowdesk/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "flowdesk"

// DefaultTokenTTL is how long an issued session stays valid.
const DefaultTokenTTL = 30 * 24 * time.Hour

// Claims is the session token payload. Role carries the authorization
// decision made at sign-in; readers never inspect the email for it.
type Claims struct {
	jwt.RegisteredClaims
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// Issuer signs and verifies session tokens with a shared secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer. A zero ttl uses DefaultTokenTTL.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for caller.
func (i *Issuer) Issue(caller domain.Caller) (string, error) {
	if caller.ID == "" {
		return "", errors.New("caller id is required")
	}
	role := caller.Role
	if role == "" {
		role = domain.RoleMember
	}
	now := i.now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   caller.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Email: caller.Email,
		Role:  role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks token and returns the caller it was issued for.
// Any verification failure is reported as ErrUnauthenticated.
func (i *Issuer) Verify(token string) (*domain.Caller, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthenticated
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", ErrUnauthenticated)
	}
	role := claims.Role
	if role != domain.RoleSuperAdmin {
		role = domain.RoleMember
	}
	return &domain.Caller{ID: claims.Subject, Email: claims.Email, Role: role}, nil
}
