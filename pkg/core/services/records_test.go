package services

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coe-onsite/onsite-manager/pkg/core/model"
	"github.com/coe-onsite/onsite-manager/pkg/db"
)

func TestFetchRecords_SortsByConfirmedDate(t *testing.T) {
	store := &mockStore{records: []db.ApplicationRecord{
		{ID: "a", ConfirmedDate: ""},
		{ID: "b", ConfirmedDate: "2025-05-01"},
		{ID: "c", ConfirmedDate: "2025-03-04T16:00:00.000Z"},
		{ID: "d", ConfirmedDate: ""},
		{ID: "e", ConfirmedDate: "2025-03-04"},
	}}

	records, err := FetchRecords(context.Background(), store, zap.NewNop())
	require.NoError(t, err)

	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"c", "e", "b", "a", "d"}, ids)
}

func TestFetchRecords_ConvertsRows(t *testing.T) {
	store := &mockStore{records: []db.ApplicationRecord{
		{ID: "1", SchoolName: "Hill College", Staff: "淑, 榮,, ", Status: "completed"},
		{ID: "2", Staff: ""},
	}}

	records, err := FetchRecords(context.Background(), store, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, model.Staff{"淑", "榮"}, records[0].Staff)
	assert.Equal(t, model.StatusCompleted, records[0].Status)
	assert.Empty(t, records[1].Staff)
	assert.Equal(t, model.StatusProcessing, records[1].Status.OrDefault())
}

func TestFetchRecords_Error(t *testing.T) {
	store := &mockStore{err: errors.New("fetch failed: status 500")}

	_, err := FetchRecords(context.Background(), store, zap.NewNop())
	assert.ErrorContains(t, err, "failed to fetch records")
}

func TestFilterByStatus(t *testing.T) {
	records := []model.ApplicationRecord{
		{ID: "1", Status: model.StatusProcessing},
		{ID: "2", Status: model.StatusCompleted},
		{ID: "3", Status: ""},
	}

	tests := []struct {
		filter string
		want   []string
	}{
		{"", []string{"1", "2", "3"}},
		{"all", []string{"1", "2", "3"}},
		{"processing", []string{"1", "3"}},
		{"completed", []string{"2"}},
		{"archived", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			got := FilterByStatus(records, tt.filter)
			ids := make([]string, 0, len(got))
			for _, r := range got {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSaveRecord_Create(t *testing.T) {
	store := &mockStore{}
	now := time.Date(2025, 3, 4, 4, 0, 0, 0, time.UTC)
	hk, err := time.LoadLocation("Asia/Hong_Kong")
	require.NoError(t, err)

	form := model.NewForm("09:00", "12:00")
	form.SchoolName = "Hill College"
	form.ConfirmedDate = "2025-03-10T16:00:00.000Z"
	form.StartTime = "2025-03-10T01:30:00.000Z"
	form.EndTime = "9:45"
	form.Staff = model.Staff{"淑", "榮"}

	record, err := SaveRecord(context.Background(), store, zap.NewNop(), form, "", now, hk)
	require.NoError(t, err)

	assert.Equal(t, "1741060800000", record.ID)
	assert.Equal(t, "2025-03-04T04:00:00Z", record.CreatedAt)
	assert.Equal(t, model.StatusProcessing, record.Status)

	require.Len(t, store.inserted, 1)
	row := store.inserted[0]
	assert.Equal(t, "1741060800000", row.ID)
	assert.Equal(t, "2025-03-10", row.ConfirmedDate)
	assert.Equal(t, "09:30", row.StartTime)
	assert.Equal(t, "09:45", row.EndTime)
	assert.Equal(t, "淑, 榮", row.Staff)
	assert.Equal(t, "processing", row.Status)
	assert.Empty(t, store.updated)
}

func TestSaveRecord_Update(t *testing.T) {
	store := &mockStore{}

	form := model.NewForm("09:00", "12:00")
	form.SchoolName = "Bay School"
	form.Status = model.StatusCompleted

	record, err := SaveRecord(context.Background(), store, zap.NewNop(), form, "42", time.Now(), time.UTC)
	require.NoError(t, err)

	assert.Equal(t, "42", record.ID)
	assert.Empty(t, record.CreatedAt)
	require.Len(t, store.updated, 1)
	assert.Equal(t, "42", store.updated[0].ID)
	assert.Equal(t, "completed", store.updated[0].Status)
	assert.Empty(t, store.inserted)
}

func TestSaveRecord_SchoolNameRequired(t *testing.T) {
	store := &mockStore{}

	_, err := SaveRecord(context.Background(), store, zap.NewNop(), model.NewForm("09:00", "12:00"), "", time.Now(), time.UTC)
	assert.ErrorIs(t, err, ErrSchoolNameRequired)
	assert.Empty(t, store.inserted)
}

func TestSaveRecord_InvalidStatus(t *testing.T) {
	form := model.NewForm("09:00", "12:00")
	form.SchoolName = "Hill College"
	form.Status = "archived"

	_, err := SaveRecord(context.Background(), &mockStore{}, zap.NewNop(), form, "", time.Now(), time.UTC)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestSaveRecord_StoreError(t *testing.T) {
	form := model.NewForm("09:00", "12:00")
	form.SchoolName = "Hill College"
	store := &mockStore{err: errors.New("request failed")}

	_, err := SaveRecord(context.Background(), store, zap.NewNop(), form, "", time.Now(), time.UTC)
	assert.ErrorContains(t, err, "failed to create record")

	_, err = SaveRecord(context.Background(), store, zap.NewNop(), form, "7", time.Now(), time.UTC)
	assert.ErrorContains(t, err, "failed to update record")
}

func TestUpdateStatus(t *testing.T) {
	store := &mockStore{}

	require.NoError(t, UpdateStatus(context.Background(), store, zap.NewNop(), "7", model.StatusCompleted))
	assert.Equal(t, [][2]string{{"7", "completed"}}, store.statusUpdates)

	err := UpdateStatus(context.Background(), store, zap.NewNop(), "7", "done")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Len(t, store.statusUpdates, 1)
}

func TestDeleteRecord(t *testing.T) {
	store := &mockStore{}

	require.NoError(t, DeleteRecord(context.Background(), store, zap.NewNop(), "7"))
	assert.Equal(t, []string{"7"}, store.deleted)

	store.err = db.ErrRecordNotFound
	assert.ErrorIs(t, DeleteRecord(context.Background(), store, zap.NewNop(), "8"), db.ErrRecordNotFound)
}

func TestFindRecord(t *testing.T) {
	records := []model.ApplicationRecord{{ID: "1"}, {ID: "2", SchoolName: "Bay School"}}

	r, err := FindRecord(records, "2")
	require.NoError(t, err)
	assert.Equal(t, "Bay School", r.SchoolName)

	_, err = FindRecord(records, "3")
	assert.ErrorIs(t, err, db.ErrRecordNotFound)
}

func TestConvert_RoundTrip(t *testing.T) {
	record := model.ApplicationRecord{
		ID:         "1",
		SchoolName: "Hill College",
		Staff:      model.Staff{"淑", "Mr Wong"},
		Status:     model.StatusCompleted,
		DateOther:  "any Friday",
	}

	assert.Equal(t, record, recordFromDB(recordToDB(record)))
}
