package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"sitesurvey/internal/survey/auth"
	"sitesurvey/internal/survey/export"
	"sitesurvey/internal/survey/model"
	"sitesurvey/internal/survey/service"

	"github.com/labstack/echo/v4"
)

// AuthService is what the login flow needs from the auth gateway.
type AuthService interface {
	Authenticate(ctx context.Context, phoneInput, passwordInput string) (*model.User, error)
}

// SessionService issues, verifies, and revokes sessions.
type SessionService interface {
	Issue(ctx context.Context, user *model.User) (string, *model.Session, error)
	Verify(ctx context.Context, tokenString string) (*model.Session, error)
	Revoke(ctx context.Context, tokenID string) error
}

type Handler struct {
	Auth     AuthService
	Sessions SessionService
	Records  service.RecordService
	Images   export.ImageFetcher
	Logger   *slog.Logger

	// Export pipeline knobs, from config.
	ExportBatchDelay time.Duration
}

func NewHandler(authSvc AuthService, sessions SessionService, records service.RecordService, images export.ImageFetcher, logger *slog.Logger, exportBatchDelay time.Duration) *Handler {
	return &Handler{
		Auth:             authSvc,
		Sessions:         sessions,
		Records:          records,
		Images:           images,
		Logger:           logger,
		ExportBatchDelay: exportBatchDelay,
	}
}

// PostLogin handles POST /auth/login
func (h *Handler) PostLogin(c echo.Context) error {
	var req model.LoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: model.ErrorDetail{Code: "bad_request", Message: "Invalid body"},
		})
	}

	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, validationError(err))
	}

	user, err := h.Auth.Authenticate(c.Request().Context(), req.Phone, req.Password)
	if err != nil {
		// Unknown phone and wrong password produce the exact same response;
		// callers must not be able to tell which happened.
		if errors.Is(err, auth.ErrNoAccount) || errors.Is(err, auth.ErrBadCredentials) {
			return c.JSON(http.StatusUnauthorized, model.ErrorResponse{
				Error: model.ErrorDetail{Code: "unauthorized", Message: "invalid phone number or password"},
			})
		}
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	token, sess, err := h.Sessions.Issue(c.Request().Context(), user)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	return c.JSON(http.StatusOK, model.LoginResponse{
		Token:     token,
		User:      *user,
		ExpiresAt: sess.ExpiresAt.Format(time.RFC3339),
	})
}

// PostLogout handles POST /auth/logout
func (h *Handler) PostLogout(c echo.Context) error {
	sess, err := sessionFromContext(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	if err := h.Sessions.Revoke(c.Request().Context(), sess.TokenID); err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

// GetMe handles GET /auth/me
func (h *Handler) GetMe(c echo.Context) error {
	sess, err := sessionFromContext(c)
	if err != nil {
		code, body := httpError(err)
		return c.JSON(code, body)
	}
	return c.JSON(http.StatusOK, sess)
}

// HealthCheck handles GET /health
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
