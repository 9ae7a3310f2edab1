// Authcore - Resource-Level Authorization for the Car Audio Events Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/caraudioevents/authcore

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/caraudioevents/authcore/internal/config"
	"github.com/caraudioevents/authcore/internal/models"
)

// Token validation errors.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims are the platform's JWT claims. The subject is the principal ID.
type Claims struct {
	MembershipClass string   `json:"membership_class"`
	OrganizationID  string   `json:"organization_id,omitempty"`
	Permissions     []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// Manager creates and validates the platform's bearer tokens.
// Uses HMAC-SHA256 signing; the secret is held as []byte.
type Manager struct {
	secret []byte
}

// NewManager builds a token manager from the security configuration.
func NewManager(cfg *config.SecurityConfig) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but was empty")
	}

	return &Manager{secret: []byte(cfg.JWTSecret)}, nil
}

// GenerateToken signs a token for the given principal, valid for ttl.
func (m *Manager) GenerateToken(p *models.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		MembershipClass: string(p.Class),
		OrganizationID:  p.OrgID,
		Permissions:     p.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// ValidateToken checks signature, expiry, and signing algorithm, and maps
// the claims to a Principal.
func (m *Manager) ValidateToken(tokenString string) (*models.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &models.Principal{
		ID:          claims.Subject,
		Class:       models.MembershipClass(claims.MembershipClass),
		OrgID:       claims.OrganizationID,
		Permissions: claims.Permissions,
	}, nil
}
