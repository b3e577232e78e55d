package services

import (
	"context"

	"github.com/coe-onsite/onsite-manager/pkg/core/model"
	"github.com/coe-onsite/onsite-manager/pkg/db"
)

// mockStore records every call and returns canned results
type mockStore struct {
	records []db.ApplicationRecord
	err     error

	inserted      []db.ApplicationRecord
	updated       []db.ApplicationRecord
	statusUpdates [][2]string
	deleted       []string
}

func (m *mockStore) GetRecords(ctx context.Context) ([]db.ApplicationRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

func (m *mockStore) InsertRecord(ctx context.Context, record *db.ApplicationRecord) error {
	if m.err != nil {
		return m.err
	}
	m.inserted = append(m.inserted, *record)
	return nil
}

func (m *mockStore) UpdateRecord(ctx context.Context, record *db.ApplicationRecord) error {
	if m.err != nil {
		return m.err
	}
	m.updated = append(m.updated, *record)
	return nil
}

func (m *mockStore) UpdateRecordStatus(ctx context.Context, id, status string) error {
	if m.err != nil {
		return m.err
	}
	m.statusUpdates = append(m.statusUpdates, [2]string{id, status})
	return nil
}

func (m *mockStore) DeleteRecord(ctx context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

// mockExtractor returns a fixed extraction and remembers the payload it saw
type mockExtractor struct {
	result  *model.Extraction
	err     error
	payload string
}

func (m *mockExtractor) Extract(ctx context.Context, pdfBase64 string) (*model.Extraction, error) {
	m.payload = pdfBase64
	return m.result, m.err
}
