package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"

	"sitesurvey/internal/survey/model"
	"sitesurvey/internal/survey/service"

	"github.com/labstack/echo/v4"
)

const sessionContextKey = "session"

func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		reqID := c.Request().Header.Get(echo.HeaderXRequestID)
		if reqID == "" {
			// Generate random ID
			b := make([]byte, 16)
			_, _ = rand.Read(b)
			reqID = hex.EncodeToString(b)
		}
		c.Response().Header().Set(echo.HeaderXRequestID, reqID)
		return next(c)
	}
}

// SessionMiddleware validates the bearer token, loads the session, and puts
// it on the request context for handlers downstream.
func SessionMiddleware(sessions SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			const bearerPrefix = "Bearer "
			if header == "" || !strings.HasPrefix(header, bearerPrefix) {
				return c.JSON(http.StatusUnauthorized, model.ErrorResponse{
					Error: model.ErrorDetail{Code: "unauthorized", Message: "Bearer token required"},
				})
			}

			token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
			sess, err := sessions.Verify(c.Request().Context(), token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, model.ErrorResponse{
					Error: model.ErrorDetail{Code: "unauthorized", Message: "Invalid or expired session"},
				})
			}

			c.Set(sessionContextKey, sess)
			return next(c)
		}
	}
}

func sessionFromContext(c echo.Context) (*model.Session, error) {
	sess, ok := c.Get(sessionContextKey).(*model.Session)
	if !ok || sess == nil {
		return nil, service.ErrUnauthorized
	}
	return sess, nil
}
