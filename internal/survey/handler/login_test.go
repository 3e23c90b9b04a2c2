package handler

import (
	"errors"
	"net/http"
	"testing"

	"sitesurvey/internal/survey/auth"
	"sitesurvey/internal/survey/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestPostLogin(t *testing.T) {
	// API: POST /auth/login

	t.Run("valid credentials return 200 with token", func(t *testing.T) {
		e := setupServer()
		authSvc := new(MockAuthService)
		sessions := new(MockSessionService)
		h := newTestHandler(new(MockRecordService), authSvc, sessions)
		e.POST("/auth/login", h.PostLogin)

		user := &model.User{ID: "u_1", Phone: "+919876543210", Name: "Surveyor One", Role: model.RoleUser}
		authSvc.On("Authenticate", mock.Anything, "9876543210", "secret").Return(user, nil)
		sessions.On("Issue", mock.Anything, user).Return("signed.jwt.token", testSession(), nil)

		rec := performRequest(e, http.MethodPost, "/auth/login",
			model.LoginReq{Phone: "9876543210", Password: "secret"}, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "signed.jwt.token")
		assert.NotContains(t, rec.Body.String(), "password_hash")
	})

	t.Run("unknown phone and wrong password return identical 401 bodies", func(t *testing.T) {
		run := func(authErr error) string {
			e := setupServer()
			authSvc := new(MockAuthService)
			h := newTestHandler(new(MockRecordService), authSvc, new(MockSessionService))
			e.POST("/auth/login", h.PostLogin)

			authSvc.On("Authenticate", mock.Anything, mock.Anything, mock.Anything).Return(nil, authErr)

			rec := performRequest(e, http.MethodPost, "/auth/login",
				model.LoginReq{Phone: "9876543210", Password: "whatever"}, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			return rec.Body.String()
		}

		noAccount := run(auth.ErrNoAccount)
		badPassword := run(auth.ErrBadCredentials)
		assert.Equal(t, noAccount, badPassword)
	})

	t.Run("missing password returns 400", func(t *testing.T) {
		e := setupServer()
		h := newTestHandler(new(MockRecordService), new(MockAuthService), new(MockSessionService))
		e.POST("/auth/login", h.PostLogin)

		rec := performRequest(e, http.MethodPost, "/auth/login",
			model.LoginReq{Phone: "9876543210"}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		e := setupServer()
		h := newTestHandler(new(MockRecordService), new(MockAuthService), new(MockSessionService))
		e.POST("/auth/login", h.PostLogin)

		rec := performRequest(e, http.MethodPost, "/auth/login", "not an object", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestPostLogout(t *testing.T) {
	// API: POST /auth/logout

	t.Run("logout revokes the session token and returns 200", func(t *testing.T) {
		e := setupServer()
		sessions := new(MockSessionService)
		h := newTestHandler(new(MockRecordService), new(MockAuthService), sessions)
		e.POST("/auth/logout", h.PostLogout, withSession(testSession()))

		sessions.On("Revoke", mock.Anything, "tok_1").Return(nil)

		rec := performRequest(e, http.MethodPost, "/auth/logout", nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		sessions.AssertExpectations(t)
	})

	t.Run("logout without session returns 401", func(t *testing.T) {
		e := setupServer()
		h := newTestHandler(new(MockRecordService), new(MockAuthService), new(MockSessionService))
		e.POST("/auth/logout", h.PostLogout)

		rec := performRequest(e, http.MethodPost, "/auth/logout", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGetMe(t *testing.T) {
	// API: GET /auth/me

	t.Run("returns the caller session", func(t *testing.T) {
		e := setupServer()
		h := newTestHandler(new(MockRecordService), new(MockAuthService), new(MockSessionService))
		e.GET("/auth/me", h.GetMe, withSession(testSession()))

		rec := performRequest(e, http.MethodGet, "/auth/me", nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "u_1")
		assert.Contains(t, rec.Body.String(), "+919876543210")
	})
}

func TestSessionMiddleware(t *testing.T) {
	t.Run("missing bearer token returns 401", func(t *testing.T) {
		e := setupServer()
		sessions := new(MockSessionService)
		e.GET("/protected", func(c echo.Context) error {
			return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
		}, SessionMiddleware(sessions))

		rec := performRequest(e, http.MethodGet, "/protected", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		sessions.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
	})

	t.Run("invalid token returns 401", func(t *testing.T) {
		e := setupServer()
		sessions := new(MockSessionService)
		sessions.On("Verify", mock.Anything, "garbage").Return(nil, errors.New("expired"))

		e.GET("/protected", func(c echo.Context) error {
			return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
		}, SessionMiddleware(sessions))

		rec := performRequest(e, http.MethodGet, "/protected", nil,
			map[string]string{"Authorization": "Bearer garbage"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token puts the session on context", func(t *testing.T) {
		e := setupServer()
		sessions := new(MockSessionService)
		sess := testSession()
		sessions.On("Verify", mock.Anything, "good-token").Return(sess, nil)

		e.GET("/protected", func(c echo.Context) error {
			got, err := sessionFromContext(c)
			assert.NoError(t, err)
			assert.Equal(t, "u_1", got.UserID)
			return c.JSON(http.StatusOK, got)
		}, SessionMiddleware(sessions))

		rec := performRequest(e, http.MethodGet, "/protected", nil,
			map[string]string{"Authorization": "Bearer good-token"})
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
