package db

import (
	"context"
	"errors"
)

// ErrRecordNotFound is returned when no stored record has the requested ID
var ErrRecordNotFound = errors.New("record not found")

// RecordStore defines the interface for application record persistence.
// The SheetsSQL-backed db.DB, postgres.DB and the Apps Script client implement it.
type RecordStore interface {
	GetRecords(ctx context.Context) ([]ApplicationRecord, error)
	InsertRecord(ctx context.Context, record *ApplicationRecord) error
	UpdateRecord(ctx context.Context, record *ApplicationRecord) error
	UpdateRecordStatus(ctx context.Context, id, status string) error
	DeleteRecord(ctx context.Context, id string) error
}
