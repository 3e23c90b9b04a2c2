package repository

import (
	"context"
	"errors"

	"sitesurvey/internal/survey/model"
)

var (
	ErrDuplicate = errors.New("duplicate record")
	ErrNotFound  = errors.New("record not found")
)

type RecordRepository interface {
	// Create a new survey record (server assigns id and timestamps)
	CreateRecord(ctx context.Context, rec *model.SurveyRecord) error
	// Fetch one record by id
	GetRecord(ctx context.Context, id string) (*model.SurveyRecord, error)
	// Fetch multiple records by id, preserving input order; unknown ids are skipped
	GetRecords(ctx context.Context, ids []string) ([]*model.SurveyRecord, error)
	// List records matching the filter, created_at descending
	ListRecords(ctx context.Context, filter model.RecordFilter) ([]*model.SurveyRecord, int64, error)
	// Apply a field-level patch; always refreshes updated_at
	PatchRecord(ctx context.Context, id string, patch *model.RecordPatch) error
	// Delete one record
	DeleteRecord(ctx context.Context, id string) error
	// Initialize Indexes
	EnsureIndexes(ctx context.Context) error
}

type UserRepository interface {
	// Exact-match lookup on the stored phone string
	FindByPhone(ctx context.Context, phone string) (*model.User, error)
	// Create a user (seed tool only)
	CreateUser(ctx context.Context, user *model.User) error
	// Stamp last_login_at and updated_at
	TouchLastLogin(ctx context.Context, userID string) error
	// Initialize Indexes
	EnsureIndexes(ctx context.Context) error
}
