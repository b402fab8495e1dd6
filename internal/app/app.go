package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"futonsband/internal/events"
	"futonsband/internal/mailer"
	"futonsband/pkg/auth"
	"futonsband/pkg/domain"
	"futonsband/pkg/store"
)

const defaultSendConcurrency = 4

// Config wires the application's dependencies. Mailer and Events are
// optional: without a mailer, newsletter operations report the would-be
// recipient count instead of sending; without a publisher, no events are
// emitted.
type Config struct {
	Store           store.Store
	Tokens          *auth.TokenManager
	Mailer          mailer.Mailer
	Events          *events.Publisher
	SendConcurrency int
}

// App is the core application service: identity, content, notifications.
type App struct {
	store           store.Store
	tokens          *auth.TokenManager
	mailer          mailer.Mailer
	events          *events.Publisher
	sendConcurrency int
}

// New constructs the application.
func New(cfg Config) (*App, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("token manager is required")
	}
	concurrency := cfg.SendConcurrency
	if concurrency <= 0 {
		concurrency = defaultSendConcurrency
	}
	return &App{
		store:           cfg.Store,
		tokens:          cfg.Tokens,
		mailer:          cfg.Mailer,
		events:          cfg.Events,
		sendConcurrency: concurrency,
	}, nil
}

// Register creates a user account with role user. Email matching is exact
// and case-sensitive, mirroring how addresses are stored.
func (a *App) Register(name, email, password string, newsletterOptIn bool) (domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return domain.User{}, invalidInput("name, email, and password are required")
	}
	_, exists, err := a.store.GetUserByEmail(email)
	if err != nil {
		return domain.User{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return domain.User{}, ErrEmailAlreadyExists
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := domain.User{
		ID:           store.NewID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Newsletter:   newsletterOptIn,
		JoinedAt:     time.Now().UTC(),
	}
	if err := a.store.SaveUser(user); err != nil {
		return domain.User{}, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

// Login validates credentials and issues a 24-hour session token.
func (a *App) Login(email, password string) (domain.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.User{}, "", invalidInput("email and password are required")
	}
	user, ok, err := a.store.GetUserByEmail(email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return domain.User{}, "", ErrInvalidCredentials
	}
	if !auth.CheckPassword(password, user.PasswordHash) {
		return domain.User{}, "", ErrInvalidCredentials
	}
	token, err := a.tokens.Issue(user)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// UserFromToken resolves the authenticated user behind a session token.
func (a *App) UserFromToken(token string) (domain.User, error) {
	claims, err := a.tokens.Verify(token)
	if err != nil {
		return domain.User{}, auth.ErrInvalidToken
	}
	user, ok, err := a.store.GetUserByID(claims.UserID)
	if err != nil {
		return domain.User{}, fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return domain.User{}, auth.ErrInvalidToken
	}
	return user, nil
}

// RequireAdmin is the single authorization gate for admin operations.
// The check is role-based; no special-cased addresses.
func (a *App) RequireAdmin(user domain.User) error {
	if user.Role != domain.RoleAdmin {
		return ErrForbidden
	}
	return nil
}

// SetNewsletterPreference flips the user's subscription flag.
func (a *App) SetNewsletterPreference(userID string, subscribed bool) (domain.User, error) {
	user, ok, err := a.store.GetUserByID(userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("fetch user: %w", err)
	}
	if !ok {
		return domain.User{}, ErrNotFound
	}
	user.Newsletter = subscribed
	if err := a.store.SaveUser(user); err != nil {
		return domain.User{}, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

func (a *App) publish(ctx context.Context, key string, payload any) {
	a.events.Publish(ctx, key, payload)
}
