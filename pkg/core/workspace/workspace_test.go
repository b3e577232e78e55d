package workspace

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/coe-onsite/onsite-manager/pkg/core/model"
	"github.com/coe-onsite/onsite-manager/pkg/core/services"
	"github.com/coe-onsite/onsite-manager/pkg/db"
)

type mockStore struct {
	mu       sync.Mutex
	records  []db.ApplicationRecord
	getErr   error
	writeErr error
	gets     int
	inserted []db.ApplicationRecord
	updated  []db.ApplicationRecord
	statuses [][2]string
	deleted  []string
}

func (m *mockStore) GetRecords(ctx context.Context) ([]db.ApplicationRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	return append([]db.ApplicationRecord(nil), m.records...), nil
}

func (m *mockStore) InsertRecord(ctx context.Context, record *db.ApplicationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.inserted = append(m.inserted, *record)
	return nil
}

func (m *mockStore) UpdateRecord(ctx context.Context, record *db.ApplicationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.updated = append(m.updated, *record)
	return nil
}

func (m *mockStore) UpdateRecordStatus(ctx context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.statuses = append(m.statuses, [2]string{id, status})
	return nil
}

func (m *mockStore) DeleteRecord(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.deleted = append(m.deleted, id)
	return nil
}

type mockExtractor struct {
	result *model.Extraction
	err    error
}

func (m *mockExtractor) Extract(ctx context.Context, pdfBase64 string) (*model.Extraction, error) {
	return m.result, m.err
}

var testNow = time.Date(2025, 3, 4, 4, 0, 0, 0, time.UTC)

func newTestWorkspace(store *mockStore, extractor *mockExtractor) *Workspace {
	if extractor == nil {
		extractor = &mockExtractor{}
	}
	return New(store, extractor, zap.NewNop(), Options{
		DefaultStartTime: "09:00",
		DefaultEndTime:   "12:00",
		StaffPresets:     []string{"淑", "榮"},
		Location:         time.UTC,
		Now:              func() time.Time { return testNow },
	})
}

func seededStore() *mockStore {
	return &mockStore{records: []db.ApplicationRecord{
		{ID: "1", SchoolName: "Hill College", ConfirmedDate: "2025-04-01", Status: "processing", CreatedAt: "2025-01-01T00:00:00Z"},
		{ID: "2", SchoolName: "Bay School", ConfirmedDate: "2025-03-10", Status: "completed", Staff: "淑"},
	}}
}

func loadedWorkspace(t *testing.T, store *mockStore) *Workspace {
	t.Helper()
	w := newTestWorkspace(store, nil)
	require.NoError(t, w.ShowList(context.Background()))
	return w
}

func TestNew_InitialState(t *testing.T) {
	w := newTestWorkspace(&mockStore{}, nil)
	s := w.Snapshot()

	assert.Equal(t, ViewForm, s.View)
	assert.Equal(t, "all", s.Filter)
	assert.Equal(t, "09:00", s.Form.StartTime)
	assert.Equal(t, "12:00", s.Form.EndTime)
	assert.Equal(t, model.StatusProcessing, s.Form.Status)
	assert.Empty(t, s.Form.Staff)
	assert.Equal(t, []string{"淑", "榮"}, s.StaffPresets)
}

func TestShowList_FetchesOnlyWhenEmpty(t *testing.T) {
	store := seededStore()
	w := loadedWorkspace(t, store)

	s := w.Snapshot()
	assert.Equal(t, ViewList, s.View)
	require.Len(t, s.Records, 2)
	assert.Equal(t, "2", s.Records[0].ID, "sorted by confirmed date")

	require.NoError(t, w.ShowList(context.Background()))
	assert.Equal(t, 1, store.gets)

	require.NoError(t, w.Refresh(context.Background()))
	assert.Equal(t, 2, store.gets)
}

func TestRefresh_FailureKeepsList(t *testing.T) {
	store := seededStore()
	w := loadedWorkspace(t, store)

	store.getErr = errors.New("fetch failed: status 500")
	assert.Error(t, w.Refresh(context.Background()))

	s := w.Snapshot()
	assert.Len(t, s.Records, 2)
	assert.False(t, s.Refreshing)
}

func TestSave_CreatePrependsAndResets(t *testing.T) {
	store := seededStore()
	w := loadedWorkspace(t, store)
	w.ShowForm()

	w.UpdateForm(func(f *model.Form) {
		f.SchoolName = "Sunshine Primary"
		f.ConfirmedDate = "2025-05-05"
	})
	w.ToggleStaff("淑")

	record, err := w.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1741060800000", record.ID)

	s := w.Snapshot()
	assert.Equal(t, SaveStatusSuccess, s.SaveStatus)
	assert.Equal(t, ViewForm, s.View)
	require.Len(t, s.Records, 3)
	assert.Equal(t, "Sunshine Primary", s.Records[0].SchoolName)
	assert.Equal(t, "", s.Form.SchoolName, "draft reset")
	assert.False(t, s.Loading)

	require.Len(t, store.inserted, 1)
	assert.Equal(t, "淑", store.inserted[0].Staff)
}

func TestSave_EditReplacesInPlace(t *testing.T) {
	store := seededStore()
	w := loadedWorkspace(t, store)

	require.NoError(t, w.Edit("1"))
	s := w.Snapshot()
	assert.True(t, s.IsEditing)
	assert.Equal(t, "1", s.EditingID)
	assert.Equal(t, ViewForm, s.View)
	assert.Equal(t, "Hill College", s.Form.SchoolName)

	w.UpdateForm(func(f *model.Form) { f.Phone = "2345 6789" })
	_, err := w.Save(context.Background())
	require.NoError(t, err)

	s = w.Snapshot()
	assert.Equal(t, ViewList, s.View)
	assert.False(t, s.IsEditing)
	require.Len(t, s.Records, 2)

	edited, err := w.Record("1")
	require.NoError(t, err)
	assert.Equal(t, "2345 6789", edited.Phone)
	assert.Equal(t, "2025-01-01T00:00:00Z", edited.CreatedAt)

	require.Len(t, store.updated, 1)
	assert.Equal(t, "1", store.updated[0].ID)
	assert.Empty(t, store.inserted)
}

// blockingStore holds writes until release is closed
type blockingStore struct {
	*mockStore
	started chan struct{}
	release chan struct{}
}

func newBlockingStore(base *mockStore) *blockingStore {
	return &blockingStore{mockStore: base, started: make(chan struct{}, 1), release: make(chan struct{})}
}

func (b *blockingStore) InsertRecord(ctx context.Context, record *db.ApplicationRecord) error {
	b.started <- struct{}{}
	<-b.release
	return b.mockStore.InsertRecord(ctx, record)
}

func (b *blockingStore) UpdateRecord(ctx context.Context, record *db.ApplicationRecord) error {
	b.started <- struct{}{}
	<-b.release
	return b.mockStore.UpdateRecord(ctx, record)
}

func newBlockingWorkspace(t *testing.T, store *blockingStore) *Workspace {
	t.Helper()
	w := New(store, &mockExtractor{}, zap.NewNop(), Options{
		DefaultStartTime: "09:00",
		DefaultEndTime:   "12:00",
		Location:         time.UTC,
		Now:              func() time.Time { return testNow },
	})
	require.NoError(t, w.ShowList(context.Background()))
	return w
}

func TestSave_EditKeepsDraftStartedDuringSave(t *testing.T) {
	store := newBlockingStore(seededStore())
	w := newBlockingWorkspace(t, store)

	require.NoError(t, w.Edit("1"))
	w.UpdateForm(func(f *model.Form) { f.Phone = "2345 6789" })

	done := make(chan error, 1)
	go func() {
		_, err := w.Save(context.Background())
		done <- err
	}()
	<-store.started

	require.NoError(t, w.Edit("2"))
	close(store.release)
	require.NoError(t, <-done)

	s := w.Snapshot()
	assert.True(t, s.IsEditing)
	assert.Equal(t, "2", s.EditingID)
	assert.Equal(t, "Bay School", s.Form.SchoolName)
	assert.Equal(t, ViewForm, s.View)

	edited, err := w.Record("1")
	require.NoError(t, err)
	assert.Equal(t, "2345 6789", edited.Phone)
}

func TestSave_CreateKeepsEditStartedDuringSave(t *testing.T) {
	store := newBlockingStore(seededStore())
	w := newBlockingWorkspace(t, store)
	w.ShowForm()
	w.UpdateForm(func(f *model.Form) { f.SchoolName = "Sunshine Primary" })

	done := make(chan error, 1)
	go func() {
		_, err := w.Save(context.Background())
		done <- err
	}()
	<-store.started

	require.NoError(t, w.Edit("1"))
	close(store.release)
	require.NoError(t, <-done)

	s := w.Snapshot()
	require.Len(t, s.Records, 3)
	assert.Equal(t, "Sunshine Primary", s.Records[0].SchoolName)
	assert.True(t, s.IsEditing)
	assert.Equal(t, "1", s.EditingID)
	assert.Equal(t, "Hill College", s.Form.SchoolName)
}

func TestSave_Validation(t *testing.T) {
	store := &mockStore{}
	w := newTestWorkspace(store, nil)

	_, err := w.Save(context.Background())
	assert.ErrorIs(t, err, services.ErrSchoolNameRequired)
	assert.Equal(t, SaveStatusNone, w.Snapshot().SaveStatus)
	assert.Empty(t, store.inserted)
}

func TestSave_TransportError(t *testing.T) {
	store := &mockStore{writeErr: errors.New("request failed")}
	w := newTestWorkspace(store, nil)
	w.UpdateForm(func(f *model.Form) { f.SchoolName = "Hill College" })

	_, err := w.Save(context.Background())
	assert.Error(t, err)

	s := w.Snapshot()
	assert.Equal(t, SaveStatusError, s.SaveStatus)
	assert.Equal(t, "Hill College", s.Form.SchoolName, "draft kept for retry")
	assert.Empty(t, s.Records)
}

func TestShowForm_KeepsDraftWhileEditing(t *testing.T) {
	w := loadedWorkspace(t, seededStore())

	require.NoError(t, w.Edit("2"))
	require.NoError(t, w.ShowList(context.Background()))
	w.ShowForm()
	assert.Equal(t, "Bay School", w.Snapshot().Form.SchoolName)

	w.CancelEdit()
	w.UpdateForm(func(f *model.Form) { f.SchoolName = "draft" })
	w.ShowForm()
	assert.Equal(t, "", w.Snapshot().Form.SchoolName)
}

func TestEdit_UnknownRecord(t *testing.T) {
	w := loadedWorkspace(t, seededStore())
	assert.ErrorIs(t, w.Edit("missing"), db.ErrRecordNotFound)
}

func TestDelete_Confirmation(t *testing.T) {
	store := seededStore()
	w := loadedWorkspace(t, store)

	w.RequestDelete("1")
	assert.Equal(t, "1", w.Snapshot().DeleteConfirmID)
	w.CancelDelete()
	assert.Equal(t, "", w.Snapshot().DeleteConfirmID)

	w.RequestDelete("1")
	w.Toggle("1")
	require.NoError(t, w.ConfirmDelete(context.Background(), "1"))

	s := w.Snapshot()
	assert.Equal(t, "", s.DeleteConfirmID)
	assert.Equal(t, "", s.ExpandedID)
	require.Len(t, s.Records, 1)
	assert.Equal(t, "2", s.Records[0].ID)
	assert.Equal(t, []string{"1"}, store.deleted)
}

func TestConfirmDelete_OptimisticOnFailure(t *testing.T) {
	store := seededStore()
	w := loadedWorkspace(t, store)
	store.writeErr = errors.New("request failed")

	assert.Error(t, w.ConfirmDelete(context.Background(), "2"))
	assert.Len(t, w.Snapshot().Records, 1)
}

func TestSetStatus_Optimistic(t *testing.T) {
	store := seededStore()
	w := loadedWorkspace(t, store)
	store.writeErr = errors.New("request failed")

	assert.Error(t, w.SetStatus(context.Background(), "1", model.StatusCompleted))

	r, err := w.Record("1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, r.Status)

	assert.ErrorIs(t, w.SetStatus(context.Background(), "1", "done"), services.ErrInvalidStatus)
}

func TestSetFilter(t *testing.T) {
	w := loadedWorkspace(t, seededStore())

	require.NoError(t, w.SetFilter("completed"))
	filtered := w.Filtered()
	require.Len(t, filtered, 1)
	assert.Equal(t, "2", filtered[0].ID)

	require.NoError(t, w.SetFilter(""))
	assert.Len(t, w.Filtered(), 2)
	assert.Equal(t, "all", w.Snapshot().Filter)

	assert.ErrorIs(t, w.SetFilter("archived"), ErrInvalidFilter)
}

func TestToggle(t *testing.T) {
	w := newTestWorkspace(&mockStore{}, nil)

	w.Toggle("1")
	assert.Equal(t, "1", w.Snapshot().ExpandedID)
	w.Toggle("2")
	assert.Equal(t, "2", w.Snapshot().ExpandedID)
	w.Toggle("2")
	assert.Equal(t, "", w.Snapshot().ExpandedID)
}

func TestStaffEditing(t *testing.T) {
	w := newTestWorkspace(&mockStore{}, nil)

	w.ToggleStaff("淑")
	w.ToggleStaff("榮")
	w.ToggleStaff("淑")
	assert.Equal(t, model.Staff{"榮"}, w.Snapshot().Form.Staff)

	w.SetCustomStaff("  Mr Wong ")
	assert.True(t, w.AddCustomStaff(""))
	assert.False(t, w.AddCustomStaff("   "))
	assert.True(t, w.AddCustomStaff("Mr Wong"))

	s := w.Snapshot()
	assert.Equal(t, model.Staff{"榮", "Mr Wong", "Mr Wong"}, s.Form.Staff)
	assert.Equal(t, "", s.CustomStaff)
}

func TestSelectDate(t *testing.T) {
	w := newTestWorkspace(&mockStore{}, nil)
	w.UpdateForm(func(f *model.Form) {
		f.SecondChoiceDate = "2025-06-01"
		f.SecondChoiceStart = "14:00"
		f.SecondChoiceEnd = "16:00"
	})

	require.NoError(t, w.SelectDate(model.DateChoiceSecond))
	s := w.Snapshot()
	assert.Equal(t, "2025-06-01", s.Form.ConfirmedDate)
	assert.Equal(t, "14:00", s.Form.StartTime)

	require.NoError(t, w.SelectDate(model.DateChoiceOther))
	assert.Equal(t, "", w.Snapshot().Form.StartTime)

	assert.ErrorIs(t, w.SelectDate("third"), ErrInvalidDateChoice)
}

func TestUploadPDF(t *testing.T) {
	school, date, start := "Hill College", "2025-03-20", "9:30"
	extractor := &mockExtractor{result: &model.Extraction{
		SchoolName:       &school,
		FirstChoiceDate:  &date,
		FirstChoiceStart: &start,
	}}
	w := newTestWorkspace(&mockStore{}, extractor)

	require.NoError(t, w.UploadPDF(context.Background(), []byte("%PDF")))

	s := w.Snapshot()
	assert.False(t, s.Analyzing)
	assert.Equal(t, "Hill College", s.Form.SchoolName)
	assert.Equal(t, "2025-03-20", s.Form.ConfirmedDate)
	assert.Equal(t, "09:30", s.Form.StartTime)
	assert.Equal(t, "12:00", s.Form.EndTime)
}

func TestUploadPDF_Error(t *testing.T) {
	w := newTestWorkspace(&mockStore{}, &mockExtractor{err: errors.New("AI did not return any content")})

	err := w.UploadPDF(context.Background(), []byte("%PDF"))
	assert.EqualError(t, err, "PDF 解析失敗: AI did not return any content")
	assert.False(t, w.Snapshot().Analyzing)
}

func TestSnapshot_IsIndependentCopy(t *testing.T) {
	w := loadedWorkspace(t, seededStore())
	w.ToggleStaff("淑")

	s := w.Snapshot()
	s.Records[0].Staff[0] = "changed"
	s.Form.Staff[0] = "changed"

	again := w.Snapshot()
	assert.Equal(t, model.Staff{"淑"}, again.Records[0].Staff)
	assert.Equal(t, model.Staff{"淑"}, again.Form.Staff)
}

func TestConcurrentUse(t *testing.T) {
	w := loadedWorkspace(t, seededStore())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w.Toggle("1")
			w.ToggleStaff("淑")
			_ = w.SetStatus(context.Background(), "2", model.StatusProcessing)
			_ = w.Snapshot()
			_ = w.Filtered()
		}(i)
	}
	wg.Wait()

	assert.Len(t, w.Snapshot().Records, 2)
}
