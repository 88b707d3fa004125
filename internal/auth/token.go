// Package auth verifies HS256 bearer tokens, exposes the authenticated
// principal to handlers, and guards routes by role. It also issues tokens for
// local use through the CLI.
package auth

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v4"

	"github.com/smartsupply/inventory-service/internal/config"
	"github.com/smartsupply/inventory-service/internal/domain"
	"github.com/smartsupply/inventory-service/internal/sysutil"
)

var (
	// ErrMissingToken is returned when no bearer token was presented.
	ErrMissingToken = errors.New("missing bearer token")
	// ErrInvalidToken covers bad signatures, expiry and malformed claims.
	ErrInvalidToken = errors.New("invalid bearer token")
)

// Claims is the token payload. Subject carries the principal's email.
type Claims struct {
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates tokens signed with a shared secret.
type Verifier struct {
	secret []byte
	issuer string
}

// NewVerifier builds a Verifier from the auth settings.
func NewVerifier(cfg config.AuthConfig) *Verifier {
	return &Verifier{secret: []byte(cfg.JWTSecret), issuer: cfg.Issuer}
}

// Verify parses raw and returns the principal it names. A token without a
// role claim is treated as USER.
func (v *Verifier) Verify(raw string) (domain.Principal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.Principal{}, ErrMissingToken
	}

	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return domain.Principal{}, errors.Mark(errors.Wrap(err, "parse token"), ErrInvalidToken)
	}
	if v.issuer != "" && !claims.VerifyIssuer(v.issuer, true) {
		return domain.Principal{}, errors.Wrapf(ErrInvalidToken, "issuer %q", claims.Issuer)
	}

	email := strings.TrimSpace(claims.Subject)
	if email == "" {
		return domain.Principal{}, errors.Wrap(ErrInvalidToken, "empty subject")
	}
	role := domain.RoleUser
	if claims.Role != "" {
		if role, err = domain.ParseRole(claims.Role); err != nil {
			return domain.Principal{}, errors.Mark(err, ErrInvalidToken)
		}
	}
	return domain.Principal{
		Email: email,
		Name:  sysutil.FirstNonEmpty(claims.Name, email),
		Role:  role,
	}, nil
}

// Issuer signs tokens for a principal.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer builds an Issuer from the auth settings.
func NewIssuer(cfg config.AuthConfig) *Issuer {
	return &Issuer{secret: []byte(cfg.JWTSecret), issuer: cfg.Issuer, ttl: cfg.TokenTTL, now: time.Now}
}

// Issue returns a signed token for p valid for ttl, or for the configured
// TTL when ttl is zero.
func (i *Issuer) Issue(p domain.Principal, ttl time.Duration) (string, error) {
	if strings.TrimSpace(p.Email) == "" {
		return "", errors.New("principal email is required")
	}
	if ttl <= 0 {
		ttl = i.ttl
	}
	now := i.now().UTC()
	claims := Claims{
		Name: p.Name,
		Role: string(p.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Email,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	return signed, errors.Wrap(err, "sign token")
}
