package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"futonsband/pkg/domain"
)

const (
	defaultIssuer   = "futons-api"
	defaultAudience = "futons-web"
	defaultTokenTTL = 24 * time.Hour
	defaultLeeway   = 30 * time.Second
)

// ErrInvalidToken is returned for malformed, expired, or tampered tokens.
var ErrInvalidToken = errors.New("invalid token")

// TokenManager issues and verifies HS256 session tokens.
type TokenManager struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	leeway   time.Duration
}

// TokenOptions configures claim validation behavior.
type TokenOptions struct {
	Issuer   string
	Audience string
	TTL      time.Duration
	Leeway   time.Duration
}

// Claims carried by a session token.
type Claims struct {
	UserID string
	Email  string
	Role   domain.UserRole
}

// NewTokenManager creates a token manager from a shared signing secret.
func NewTokenManager(secret string, opts TokenOptions) (*TokenManager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token manager requires a signing secret")
	}
	issuer := strings.TrimSpace(opts.Issuer)
	if issuer == "" {
		issuer = defaultIssuer
	}
	audience := strings.TrimSpace(opts.Audience)
	if audience == "" {
		audience = defaultAudience
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	leeway := opts.Leeway
	if leeway <= 0 {
		leeway = defaultLeeway
	}
	return &TokenManager{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		leeway:   leeway,
	}, nil
}

// Issue signs a token encoding the user's id, email, and role.
func (m *TokenManager) Issue(user domain.User) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"iss":   m.issuer,
		"aud":   m.audience,
		"sub":   user.ID,
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(m.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify validates the signature and registered claims and returns the
// embedded identity. Any failure maps to ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string) (Claims, error) {
	parsed, err := jwt.Parse(
		tokenString,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithAudience(m.audience),
		jwt.WithLeeway(m.leeway),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		return Claims{}, ErrInvalidToken
	}
	email, _ := mapClaims["email"].(string)
	role, _ := mapClaims["role"].(string)
	return Claims{
		UserID: sub,
		Email:  email,
		Role:   domain.UserRole(role),
	}, nil
}
