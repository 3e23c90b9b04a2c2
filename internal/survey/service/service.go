package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"sitesurvey/internal/survey/model"
	"sitesurvey/internal/survey/repository"
	"sitesurvey/internal/survey/storage"

	"github.com/google/uuid"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
)

type RecordService interface {
	CreateRecord(ctx context.Context, sess *model.Session, req model.CreateRecordReq) (*model.SurveyRecord, error)
	GetRecord(ctx context.Context, sess *model.Session, id string) (*model.SurveyRecord, error)
	ListRecords(ctx context.Context, sess *model.Session, req model.ListRecordsReq) (*model.ListRecordsResponse, error)
	ListAllRecords(ctx context.Context, sess *model.Session, req model.ListRecordsReq) (*model.ListRecordsResponse, error)
	PatchRecord(ctx context.Context, sess *model.Session, id string, req model.UpdateRecordReq) (*model.SurveyRecord, error)
	DeleteRecord(ctx context.Context, sess *model.Session, id string) error
	AttachImage(ctx context.Context, sess *model.Session, recordID, filename, contentType string, r io.Reader, size int64) (*model.ImageRef, error)
	RecordsForExport(ctx context.Context, sess *model.Session, ids []string) ([]*model.SurveyRecord, error)
}

type Service struct {
	Records repository.RecordRepository
	Objects storage.ObjectStore
	Logger  *slog.Logger

	// deleteTimeout bounds each detached image deletion.
	deleteTimeout time.Duration
}

func NewService(records repository.RecordRepository, objects storage.ObjectStore, logger *slog.Logger) *Service {
	return &Service{
		Records:       records,
		Objects:       objects,
		Logger:        logger,
		deleteTimeout: 10 * time.Second,
	}
}

func (s *Service) CreateRecord(ctx context.Context, sess *model.Session, req model.CreateRecordReq) (*model.SurveyRecord, error) {
	if sess == nil {
		return nil, ErrUnauthorized
	}

	rec := req.ToRecord(sess)
	if err := s.Records.CreateRecord(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) GetRecord(ctx context.Context, sess *model.Session, id string) (*model.SurveyRecord, error) {
	rec, err := s.loadOwned(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) ListRecords(ctx context.Context, sess *model.Session, req model.ListRecordsReq) (*model.ListRecordsResponse, error) {
	if sess == nil {
		return nil, ErrUnauthorized
	}

	records, total, err := s.Records.ListRecords(ctx, model.RecordFilter{
		OwnerUID:      sess.UserID,
		PoliceStation: req.PoliceStation,
		Page:          req.Page,
		PageSize:      req.PageSize,
	})
	if err != nil {
		return nil, err
	}
	return &model.ListRecordsResponse{Records: records, Page: req.Page, Total: total}, nil
}

// ListAllRecords is the admin-wide flattened view across all users,
// creation time descending.
func (s *Service) ListAllRecords(ctx context.Context, sess *model.Session, req model.ListRecordsReq) (*model.ListRecordsResponse, error) {
	if sess == nil {
		return nil, ErrUnauthorized
	}
	if !sess.IsAdmin() {
		return nil, ErrForbidden
	}

	records, total, err := s.Records.ListRecords(ctx, model.RecordFilter{
		PoliceStation: req.PoliceStation,
		Page:          req.Page,
		PageSize:      req.PageSize,
	})
	if err != nil {
		return nil, err
	}
	return &model.ListRecordsResponse{Records: records, Page: req.Page, Total: total}, nil
}

func (s *Service) PatchRecord(ctx context.Context, sess *model.Session, id string, req model.UpdateRecordReq) (*model.SurveyRecord, error) {
	if _, err := s.loadOwned(ctx, sess, id); err != nil {
		return nil, err
	}

	if err := s.Records.PatchRecord(ctx, id, &req.Patch); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.Records.GetRecord(ctx, id)
}

// DeleteRecord removes the document and then deletes its stored images as a
// detached best-effort task; image deletion failures are logged, never
// surfaced, and never retried.
func (s *Service) DeleteRecord(ctx context.Context, sess *model.Session, id string) error {
	rec, err := s.loadOwned(ctx, sess, id)
	if err != nil {
		return err
	}

	if err := s.Records.DeleteRecord(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if len(rec.Images) > 0 {
		go s.deleteImages(rec)
	}

	return nil
}

func (s *Service) AttachImage(ctx context.Context, sess *model.Session, recordID, filename, contentType string, r io.Reader, size int64) (*model.ImageRef, error) {
	rec, err := s.loadOwned(ctx, sess, recordID)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif":
	default:
		return nil, ErrBadRequest
	}

	key := fmt.Sprintf("surveys/%s/%s%s", rec.OwnerUID, uuid.NewString(), ext)
	url, err := s.Objects.Upload(ctx, key, r, size, contentType)
	if err != nil {
		return nil, err
	}

	ref := model.ImageRef{ObjectKey: key, URL: url}
	images := append(append([]model.ImageRef(nil), rec.Images...), ref)
	patch := model.RecordPatch{Images: &images}
	if err := s.Records.PatchRecord(ctx, recordID, &patch); err != nil {
		return nil, err
	}
	return &ref, nil
}

// RecordsForExport resolves the requested ids in input order. Non-admin
// callers only receive their own records; foreign ids are dropped, not
// errors, matching the listing scope rules.
func (s *Service) RecordsForExport(ctx context.Context, sess *model.Session, ids []string) ([]*model.SurveyRecord, error) {
	if sess == nil {
		return nil, ErrUnauthorized
	}

	records, err := s.Records.GetRecords(ctx, ids)
	if err != nil {
		return nil, err
	}
	if sess.IsAdmin() {
		return records, nil
	}

	owned := records[:0]
	for _, rec := range records {
		if rec.OwnerUID == sess.UserID {
			owned = append(owned, rec)
		}
	}
	return owned, nil
}

// loadOwned fetches a record and enforces that the caller owns it or is an
// admin.
func (s *Service) loadOwned(ctx context.Context, sess *model.Session, id string) (*model.SurveyRecord, error) {
	if sess == nil {
		return nil, ErrUnauthorized
	}
	if id == "" {
		return nil, ErrBadRequest
	}

	rec, err := s.Records.GetRecord(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if rec.OwnerUID != sess.UserID && !sess.IsAdmin() {
		return nil, ErrForbidden
	}
	return rec, nil
}

func (s *Service) deleteImages(rec *model.SurveyRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), s.deleteTimeout)
	defer cancel()

	for _, img := range rec.Images {
		if err := s.Objects.Delete(ctx, img.ObjectKey); err != nil {
			s.Logger.Warn("image cleanup failed",
				"record_id", rec.ID,
				"object_key", img.ObjectKey,
				"error", err,
			)
		}
	}
}
