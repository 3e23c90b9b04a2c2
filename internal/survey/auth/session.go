package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sitesurvey/internal/survey/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrSessionInvalid = errors.New("session invalid or expired")

// SessionStore persists sessions behind a key-value interface so the auth
// state is never process-global. Logout deletes the entry, which also serves
// as token revocation.
type SessionStore interface {
	Save(ctx context.Context, sess *model.Session, ttl time.Duration) error
	Get(ctx context.Context, tokenID string) (*model.Session, error)
	Delete(ctx context.Context, tokenID string) error
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

type SessionManager struct {
	store  SessionStore
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewSessionManager(store SessionStore, secret []byte, issuer string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		store:  store,
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
	}
}

// Issue mints a signed token for the user and persists the matching session.
func (m *SessionManager) Issue(ctx context.Context, user *model.User) (string, *model.Session, error) {
	tokenID := uuid.NewString()
	expiresAt := time.Now().Add(m.ttl)

	sess := &model.Session{
		TokenID:   tokenID,
		UserID:    user.ID,
		Phone:     user.Phone,
		Name:      user.Name,
		Role:      user.Role,
		ExpiresAt: expiresAt,
	}
	if err := m.store.Save(ctx, sess, m.ttl); err != nil {
		return "", nil, err
	}

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   user.ID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: user.Role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, err
	}

	return token, sess, nil
}

// Verify checks the token signature and claims, then loads the session from
// the store. A missing store entry means the session was revoked.
func (m *SessionManager) Verify(ctx context.Context, tokenString string) (*model.Session, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return m.secret, nil
	}, jwt.WithLeeway(30*time.Second))
	if err != nil || !token.Valid {
		return nil, ErrSessionInvalid
	}

	if m.issuer != "" && claims.Issuer != m.issuer {
		return nil, ErrSessionInvalid
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, ErrSessionInvalid
	}

	sess, err := m.store.Get(ctx, claims.ID)
	if err != nil {
		return nil, ErrSessionInvalid
	}
	if time.Now().After(sess.ExpiresAt) {
		return nil, ErrSessionInvalid
	}

	return sess, nil
}

// Revoke deletes the session entry; subsequent Verify calls fail.
func (m *SessionManager) Revoke(ctx context.Context, tokenID string) error {
	return m.store.Delete(ctx, tokenID)
}
