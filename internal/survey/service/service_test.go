package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"sitesurvey/internal/survey/model"
	"sitesurvey/internal/survey/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) CreateRecord(ctx context.Context, rec *model.SurveyRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockRecordRepository) GetRecord(ctx context.Context, id string) (*model.SurveyRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SurveyRecord), args.Error(1)
}

func (m *MockRecordRepository) GetRecords(ctx context.Context, ids []string) ([]*model.SurveyRecord, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SurveyRecord), args.Error(1)
}

func (m *MockRecordRepository) ListRecords(ctx context.Context, filter model.RecordFilter) ([]*model.SurveyRecord, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*model.SurveyRecord), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecordRepository) PatchRecord(ctx context.Context, id string, patch *model.RecordPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *MockRecordRepository) DeleteRecord(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecordRepository) EnsureIndexes(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, key, r, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) Fetch(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockObjectStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func userSession() *model.Session {
	return &model.Session{
		TokenID: "tok_1",
		UserID:  "u_1",
		Phone:   "+919876543210",
		Name:    "Surveyor One",
		Role:    model.RoleUser,
	}
}

func adminSession() *model.Session {
	return &model.Session{
		TokenID: "tok_admin",
		UserID:  "u_admin",
		Role:    model.RoleAdmin,
	}
}

func ownedRecord() *model.SurveyRecord {
	return &model.SurveyRecord{
		ID:            "rec_1",
		RFPNo:         "RFP-001",
		PoleNo:        "P-001",
		LocationName:  "MG Road Junction",
		PoliceStation: "Central",
		OwnerUID:      "u_1",
		Images: []model.ImageRef{
			{ObjectKey: "surveys/u_1/a.jpg", URL: "http://blob/surveys/u_1/a.jpg"},
			{ObjectKey: "surveys/u_1/b.jpg", URL: "http://blob/surveys/u_1/b.jpg"},
		},
	}
}

func TestCreateRecordStampsOwnership(t *testing.T) {
	repo := new(MockRecordRepository)
	svc := NewService(repo, new(MockObjectStore), slog.Default())

	repo.On("CreateRecord", mock.Anything, mock.MatchedBy(func(rec *model.SurveyRecord) bool {
		return rec.OwnerUID == "u_1" && rec.OwnerPhone == "+919876543210" && rec.OwnerName == "Surveyor One"
	})).Return(nil)

	req := model.CreateRecordReq{
		RFPNo:         "RFP-001",
		PoleNo:        "P-001",
		LocationName:  "MG Road Junction",
		PoliceStation: "Central",
	}
	rec, err := svc.CreateRecord(context.Background(), userSession(), req)
	require.NoError(t, err)
	assert.Equal(t, "u_1", rec.OwnerUID)
	repo.AssertExpectations(t)
}

func TestGetRecordForbiddenForNonOwner(t *testing.T) {
	repo := new(MockRecordRepository)
	svc := NewService(repo, new(MockObjectStore), slog.Default())

	other := ownedRecord()
	other.OwnerUID = "someone_else"
	repo.On("GetRecord", mock.Anything, "rec_1").Return(other, nil)

	_, err := svc.GetRecord(context.Background(), userSession(), "rec_1")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestGetRecordAdminSeesAll(t *testing.T) {
	repo := new(MockRecordRepository)
	svc := NewService(repo, new(MockObjectStore), slog.Default())

	repo.On("GetRecord", mock.Anything, "rec_1").Return(ownedRecord(), nil)

	rec, err := svc.GetRecord(context.Background(), adminSession(), "rec_1")
	require.NoError(t, err)
	assert.Equal(t, "rec_1", rec.ID)
}

func TestGetRecordNotFound(t *testing.T) {
	repo := new(MockRecordRepository)
	svc := NewService(repo, new(MockObjectStore), slog.Default())

	repo.On("GetRecord", mock.Anything, "missing").Return(nil, repository.ErrNotFound)

	_, err := svc.GetRecord(context.Background(), userSession(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRecordsScopedToOwner(t *testing.T) {
	repo := new(MockRecordRepository)
	svc := NewService(repo, new(MockObjectStore), slog.Default())

	repo.On("ListRecords", mock.Anything, mock.MatchedBy(func(f model.RecordFilter) bool {
		return f.OwnerUID == "u_1"
	})).Return([]*model.SurveyRecord{ownedRecord()}, int64(1), nil)

	resp, err := svc.ListRecords(context.Background(), userSession(), model.ListRecordsReq{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	repo.AssertExpectations(t)
}

func TestListAllRecordsRequiresAdmin(t *testing.T) {
	repo := new(MockRecordRepository)
	svc := NewService(repo, new(MockObjectStore), slog.Default())

	_, err := svc.ListAllRecords(context.Background(), userSession(), model.ListRecordsReq{})
	assert.ErrorIs(t, err, ErrForbidden)

	repo.On("ListRecords", mock.Anything, mock.MatchedBy(func(f model.RecordFilter) bool {
		return f.OwnerUID == "" // flattened view, no owner filter
	})).Return([]*model.SurveyRecord{}, int64(0), nil)

	_, err = svc.ListAllRecords(context.Background(), adminSession(), model.ListRecordsReq{})
	assert.NoError(t, err)
}

func TestDeleteRecordCascadesImageCleanup(t *testing.T) {
	repo := new(MockRecordRepository)
	objects := new(MockObjectStore)
	svc := NewService(repo, objects, slog.Default())

	rec := ownedRecord()
	repo.On("GetRecord", mock.Anything, "rec_1").Return(rec, nil)
	repo.On("DeleteRecord", mock.Anything, "rec_1").Return(nil)

	deleted := make(chan string, len(rec.Images))
	objects.On("Delete", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		deleted <- args.String(1)
	}).Return(nil)

	err := svc.DeleteRecord(context.Background(), userSession(), "rec_1")
	require.NoError(t, err)

	// Image deletion is detached; collect both keys.
	keys := map[string]bool{}
	for i := 0; i < len(rec.Images); i++ {
		select {
		case k := <-deleted:
			keys[k] = true
		case <-time.After(2 * time.Second):
			t.Fatal("image cleanup never fired")
		}
	}
	assert.True(t, keys["surveys/u_1/a.jpg"])
	assert.True(t, keys["surveys/u_1/b.jpg"])
}

func TestDeleteRecordImageCleanupFailureIgnored(t *testing.T) {
	repo := new(MockRecordRepository)
	objects := new(MockObjectStore)
	svc := NewService(repo, objects, slog.Default())

	rec := ownedRecord()
	repo.On("GetRecord", mock.Anything, "rec_1").Return(rec, nil)
	repo.On("DeleteRecord", mock.Anything, "rec_1").Return(nil)

	done := make(chan struct{}, len(rec.Images))
	objects.On("Delete", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		done <- struct{}{}
	}).Return(assertAnError())

	// Object-store failures must not surface to the caller.
	err := svc.DeleteRecord(context.Background(), userSession(), "rec_1")
	require.NoError(t, err)

	for i := 0; i < len(rec.Images); i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("image cleanup never fired")
		}
	}
}

func assertAnError() error {
	return repository.ErrNotFound
}

func TestAttachImageRejectsUnknownExtension(t *testing.T) {
	repo := new(MockRecordRepository)
	svc := NewService(repo, new(MockObjectStore), slog.Default())

	repo.On("GetRecord", mock.Anything, "rec_1").Return(ownedRecord(), nil)

	_, err := svc.AttachImage(context.Background(), userSession(), "rec_1", "notes.txt", "text/plain", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestAttachImageUploadsAndPatches(t *testing.T) {
	repo := new(MockRecordRepository)
	objects := new(MockObjectStore)
	svc := NewService(repo, objects, slog.Default())

	rec := ownedRecord()
	repo.On("GetRecord", mock.Anything, "rec_1").Return(rec, nil)
	objects.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "surveys/u_1/") && strings.HasSuffix(key, ".jpg")
	}), mock.Anything, int64(3), "image/jpeg").Return("http://blob/new.jpg", nil)
	repo.On("PatchRecord", mock.Anything, "rec_1", mock.MatchedBy(func(p *model.RecordPatch) bool {
		return p.Images != nil && len(*p.Images) == len(rec.Images)+1
	})).Return(nil)

	ref, err := svc.AttachImage(context.Background(), userSession(), "rec_1", "site.jpg", "image/jpeg", strings.NewReader("abc"), 3)
	require.NoError(t, err)
	assert.Equal(t, "http://blob/new.jpg", ref.URL)
	repo.AssertExpectations(t)
	objects.AssertExpectations(t)
}

func TestRecordsForExportFiltersForeignRecords(t *testing.T) {
	repo := new(MockRecordRepository)
	svc := NewService(repo, new(MockObjectStore), slog.Default())

	mine := ownedRecord()
	foreign := ownedRecord()
	foreign.ID = "rec_2"
	foreign.OwnerUID = "someone_else"

	repo.On("GetRecords", mock.Anything, []string{"rec_1", "rec_2"}).
		Return([]*model.SurveyRecord{mine, foreign}, nil)

	records, err := svc.RecordsForExport(context.Background(), userSession(), []string{"rec_1", "rec_2"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "rec_1", records[0].ID)
}

func TestRecordsForExportAdminKeepsAll(t *testing.T) {
	repo := new(MockRecordRepository)
	svc := NewService(repo, new(MockObjectStore), slog.Default())

	mine := ownedRecord()
	foreign := ownedRecord()
	foreign.ID = "rec_2"
	foreign.OwnerUID = "someone_else"

	repo.On("GetRecords", mock.Anything, []string{"rec_1", "rec_2"}).
		Return([]*model.SurveyRecord{mine, foreign}, nil)

	records, err := svc.RecordsForExport(context.Background(), adminSession(), []string{"rec_1", "rec_2"})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestPatchRecordValidatesOwnership(t *testing.T) {
	repo := new(MockRecordRepository)
	svc := NewService(repo, new(MockObjectStore), slog.Default())

	other := ownedRecord()
	other.OwnerUID = "someone_else"
	repo.On("GetRecord", mock.Anything, "rec_1").Return(other, nil)

	remarks := "updated"
	req := model.UpdateRecordReq{Patch: model.RecordPatch{Remarks: &remarks}}
	_, err := svc.PatchRecord(context.Background(), userSession(), "rec_1", req)
	assert.ErrorIs(t, err, ErrForbidden)
	repo.AssertNotCalled(t, "PatchRecord", mock.Anything, mock.Anything, mock.Anything)
}

func TestNilSessionUnauthorized(t *testing.T) {
	svc := NewService(new(MockRecordRepository), new(MockObjectStore), slog.Default())

	_, err := svc.GetRecord(context.Background(), nil, "rec_1")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.RecordsForExport(context.Background(), nil, []string{"rec_1"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}
