// internal/pkg/jwt/jwt.go
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

type Config struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Claims carried by an admin access token. Authentication itself happens in
// the upstream identity service; this package only verifies the signed
// identity handed to pricing writes.
type Claims struct {
	AdminID string   `json:"admin_id"`
	Roles   []string `json:"roles"`
	jwt.RegisteredClaims
}

type Manager struct {
	cfg Config
}

func NewManager(cfg Config) *Manager {
	return &Manager{cfg: cfg}
}

// Verify parses and validates an admin bearer token.
func (m *Manager) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(m.cfg.Secret), nil
	},
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithAudience(m.cfg.Audience),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// Sign issues an admin token. Used by the dev login path and tests.
func (m *Manager) Sign(adminID string, roles []string) (string, error) {
	now := time.Now()
	claims := &Claims{
		AdminID: adminID,
		Roles:   roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        ulid.Make().String(),
			Issuer:    m.cfg.Issuer,
			Audience:  jwt.ClaimStrings{m.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.cfg.Secret))
}
