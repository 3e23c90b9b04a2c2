package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"time"

	"sitesurvey/internal/survey/model"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
)

func setupServer() *echo.Echo {
	return echo.New()
}

func performRequest(e *echo.Echo, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var bodyReader *strings.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		bodyReader = strings.NewReader(string(b))
	} else {
		bodyReader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// withSession injects a session the way SessionMiddleware would, so handler
// tests do not need real tokens.
func withSession(sess *model.Session) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(sessionContextKey, sess)
			return next(c)
		}
	}
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Authenticate(ctx context.Context, phoneInput, passwordInput string) (*model.User, error) {
	args := m.Called(ctx, phoneInput, passwordInput)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Issue(ctx context.Context, user *model.User) (string, *model.Session, error) {
	args := m.Called(ctx, user)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*model.Session), args.Error(2)
}

func (m *MockSessionService) Verify(ctx context.Context, tokenString string) (*model.Session, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionService) Revoke(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) CreateRecord(ctx context.Context, sess *model.Session, req model.CreateRecordReq) (*model.SurveyRecord, error) {
	args := m.Called(ctx, sess, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SurveyRecord), args.Error(1)
}

func (m *MockRecordService) GetRecord(ctx context.Context, sess *model.Session, id string) (*model.SurveyRecord, error) {
	args := m.Called(ctx, sess, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SurveyRecord), args.Error(1)
}

func (m *MockRecordService) ListRecords(ctx context.Context, sess *model.Session, req model.ListRecordsReq) (*model.ListRecordsResponse, error) {
	args := m.Called(ctx, sess, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ListRecordsResponse), args.Error(1)
}

func (m *MockRecordService) ListAllRecords(ctx context.Context, sess *model.Session, req model.ListRecordsReq) (*model.ListRecordsResponse, error) {
	args := m.Called(ctx, sess, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ListRecordsResponse), args.Error(1)
}

func (m *MockRecordService) PatchRecord(ctx context.Context, sess *model.Session, id string, req model.UpdateRecordReq) (*model.SurveyRecord, error) {
	args := m.Called(ctx, sess, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SurveyRecord), args.Error(1)
}

func (m *MockRecordService) DeleteRecord(ctx context.Context, sess *model.Session, id string) error {
	args := m.Called(ctx, sess, id)
	return args.Error(0)
}

func (m *MockRecordService) AttachImage(ctx context.Context, sess *model.Session, recordID, filename, contentType string, r io.Reader, size int64) (*model.ImageRef, error) {
	args := m.Called(ctx, sess, recordID, filename, contentType, r, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ImageRef), args.Error(1)
}

func (m *MockRecordService) RecordsForExport(ctx context.Context, sess *model.Session, ids []string) ([]*model.SurveyRecord, error) {
	args := m.Called(ctx, sess, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SurveyRecord), args.Error(1)
}

type noopFetcher struct{}

func (noopFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return nil, context.Canceled
}

func newTestHandler(records *MockRecordService, authSvc *MockAuthService, sessions *MockSessionService) *Handler {
	return NewHandler(authSvc, sessions, records, noopFetcher{}, slog.Default(), 0)
}

func testSession() *model.Session {
	return &model.Session{
		TokenID:   "tok_1",
		UserID:    "u_1",
		Phone:     "+919876543210",
		Name:      "Surveyor One",
		Role:      model.RoleUser,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}
