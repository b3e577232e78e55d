package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/coe-onsite/onsite-manager/pkg/sheetssql"
)

var _ RecordStore = (*DB)(nil)

// GetRecords retrieves all application records in sheet order
func (db *DB) GetRecords(ctx context.Context) ([]ApplicationRecord, error) {
	records, err := sheetssql.GetTableAs[ApplicationRecord](db.ssql, recordTable)
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}
	return records, nil
}

// InsertRecord appends a new application record
func (db *DB) InsertRecord(ctx context.Context, record *ApplicationRecord) error {
	if err := sheetssql.InsertModel(db.ssql, *record); err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// UpdateRecord rewrites the stored row with the same ID.
// An empty CreatedAt keeps the stored creation time.
func (db *DB) UpdateRecord(ctx context.Context, record *ApplicationRecord) error {
	row := *record
	if row.CreatedAt == "" {
		existing, err := db.getRecord(ctx, row.ID)
		if err != nil {
			return err
		}
		row.CreatedAt = existing.CreatedAt
	}

	if err := sheetssql.UpdateModel(db.ssql, "id", row); err != nil {
		return fmt.Errorf("failed to update record %s: %w", record.ID, notFound(err))
	}
	return nil
}

// UpdateRecordStatus sets only the status cell of a record
func (db *DB) UpdateRecordStatus(ctx context.Context, id, status string) error {
	if err := db.ssql.UpdateCell(recordTable, "id", id, "status", status); err != nil {
		return fmt.Errorf("failed to update status of record %s: %w", id, notFound(err))
	}
	return nil
}

// DeleteRecord removes the row of a record
func (db *DB) DeleteRecord(ctx context.Context, id string) error {
	if err := db.ssql.DeleteWhere(recordTable, "id", id); err != nil {
		return fmt.Errorf("failed to delete record %s: %w", id, notFound(err))
	}
	return nil
}

func (db *DB) getRecord(ctx context.Context, id string) (*ApplicationRecord, error) {
	records, err := db.GetRecords(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, fmt.Errorf("record %s: %w", id, ErrRecordNotFound)
}

// notFound maps the SheetsSQL lookup miss onto ErrRecordNotFound
func notFound(err error) error {
	if errors.Is(err, sheetssql.ErrRowNotFound) {
		return fmt.Errorf("%w: %v", ErrRecordNotFound, err)
	}
	return err
}
