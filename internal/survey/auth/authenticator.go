package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"sitesurvey/internal/survey/model"
	"sitesurvey/internal/survey/repository"
)

var (
	// Both collapse to one generic failure at the HTTP boundary so callers
	// cannot probe which phone numbers are registered.
	ErrNoAccount      = errors.New("no account for phone")
	ErrBadCredentials = errors.New("invalid credentials")
)

type Authenticator struct {
	users  repository.UserRepository
	logger *slog.Logger

	// touchTimeout bounds the detached last-login update.
	touchTimeout time.Duration
}

func NewAuthenticator(users repository.UserRepository, logger *slog.Logger) *Authenticator {
	return &Authenticator{
		users:        users,
		logger:       logger,
		touchTimeout: 5 * time.Second,
	}
}

// HashPassword computes the legacy credential digest: unsalted SHA-256, hex
// encoded. User records were provisioned with this format, so it cannot
// change without a migration.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Authenticate resolves the user via the three-tier phone lookup and checks
// the password digest. On success the last-login stamp is updated as a
// detached task; its failure is logged and ignored.
func (a *Authenticator) Authenticate(ctx context.Context, phoneInput, passwordInput string) (*model.User, error) {
	user, err := a.findUser(ctx, phoneInput)
	if err != nil {
		return nil, err
	}

	if HashPassword(passwordInput) != user.PasswordHash {
		return nil, ErrBadCredentials
	}

	go a.touchLastLogin(user.ID)

	return user, nil
}

func (a *Authenticator) findUser(ctx context.Context, phoneInput string) (*model.User, error) {
	for _, phone := range lookupTiers(phoneInput) {
		user, err := a.users.FindByPhone(ctx, phone)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return user, nil
	}
	return nil, ErrNoAccount
}

func (a *Authenticator) touchLastLogin(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), a.touchTimeout)
	defer cancel()

	if err := a.users.TouchLastLogin(ctx, userID); err != nil {
		a.logger.Warn("last-login update failed", "user_id", userID, "error", err)
	}
}
