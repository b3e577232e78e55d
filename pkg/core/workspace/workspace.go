package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/coe-onsite/onsite-manager/pkg/core/model"
	"github.com/coe-onsite/onsite-manager/pkg/core/services"
	"github.com/coe-onsite/onsite-manager/pkg/db"
)

// View is the screen the user is looking at
type View string

const (
	ViewForm View = "form"
	ViewList View = "list"
)

// SaveStatus is the outcome of the last save, shown next to the save button
type SaveStatus string

const (
	SaveStatusNone    SaveStatus = ""
	SaveStatusSuccess SaveStatus = "success"
	SaveStatusError   SaveStatus = "error"
)

// ErrInvalidFilter is returned for a status filter other than all, processing or completed
var ErrInvalidFilter = errors.New("invalid status filter")

// ErrInvalidDateChoice is returned for a date choice other than first, second or other
var ErrInvalidDateChoice = errors.New("invalid date choice")

// Options configures a Workspace
type Options struct {
	DefaultStartTime string
	DefaultEndTime   string
	StaffPresets     []string
	Location         *time.Location
	Now              func() time.Time
}

// State is a copy of everything the UI renders
type State struct {
	View            View
	Records         []model.ApplicationRecord
	ExpandedID      string
	IsEditing       bool
	EditingID       string
	Filter          string
	Loading         bool
	Analyzing       bool
	Refreshing      bool
	SaveStatus      SaveStatus
	DeleteConfirmID string
	Form            model.Form
	CustomStaff     string
	StaffPresets    []string
}

// Workspace holds the view state of one user session.
// Methods are safe for concurrent use; the lock is never held across store
// or extractor calls.
type Workspace struct {
	mu        sync.Mutex
	store     db.RecordStore
	extractor services.Extractor
	logger    *zap.Logger
	opts      Options
	state     State
}

// New creates a workspace showing an empty form
func New(store db.RecordStore, extractor services.Extractor, logger *zap.Logger, opts Options) *Workspace {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	w := &Workspace{
		store:     store,
		extractor: extractor,
		logger:    logger,
		opts:      opts,
	}
	w.state = State{
		View:         ViewForm,
		Filter:       model.StatusFilterAll,
		Form:         w.newForm(),
		StaffPresets: append([]string(nil), opts.StaffPresets...),
	}
	return w
}

func (w *Workspace) newForm() model.Form {
	return model.NewForm(w.opts.DefaultStartTime, w.opts.DefaultEndTime)
}

// Location is the time zone record times are shown in
func (w *Workspace) Location() *time.Location {
	return w.opts.Location
}

// resetLocked clears the draft and leaves edit mode. Callers hold mu.
func (w *Workspace) resetLocked() {
	w.state.Form = w.newForm()
	w.state.IsEditing = false
	w.state.EditingID = ""
	w.state.SaveStatus = SaveStatusNone
}

// Snapshot returns a deep copy of the current state
func (w *Workspace) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := w.state
	s.Records = cloneRecords(w.state.Records)
	s.Form.Staff = append(model.Staff{}, w.state.Form.Staff...)
	s.StaffPresets = append([]string(nil), w.state.StaffPresets...)
	return s
}

func cloneRecords(records []model.ApplicationRecord) []model.ApplicationRecord {
	out := make([]model.ApplicationRecord, len(records))
	for i, r := range records {
		r.Staff = append(model.Staff(nil), r.Staff...)
		out[i] = r
	}
	return out
}

// Filtered returns the records matching the current status filter
func (w *Workspace) Filtered() []model.ApplicationRecord {
	w.mu.Lock()
	defer w.mu.Unlock()

	return cloneRecords(services.FilterByStatus(w.state.Records, w.state.Filter))
}

// Record returns a copy of a loaded record
func (w *Workspace) Record(id string) (model.ApplicationRecord, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := services.FindRecord(w.state.Records, id)
	if err != nil {
		return model.ApplicationRecord{}, err
	}
	return cloneRecords([]model.ApplicationRecord{*r})[0], nil
}

// ShowForm switches to the form. The draft is reset unless a record is being edited.
func (w *Workspace) ShowForm() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state.View = ViewForm
	if !w.state.IsEditing {
		w.resetLocked()
	}
}

// ShowList switches to the record list and loads records if none are loaded yet
func (w *Workspace) ShowList(ctx context.Context) error {
	w.mu.Lock()
	w.state.View = ViewList
	w.mu.Unlock()

	return w.EnsureLoaded(ctx)
}

// EnsureLoaded fetches records when none are loaded and no fetch is running
func (w *Workspace) EnsureLoaded(ctx context.Context) error {
	w.mu.Lock()
	needsFetch := len(w.state.Records) == 0 && !w.state.Refreshing
	w.mu.Unlock()

	if needsFetch {
		return w.Refresh(ctx)
	}
	return nil
}

// Refresh reloads records from the store. On failure the current list is kept.
func (w *Workspace) Refresh(ctx context.Context) error {
	w.mu.Lock()
	w.state.Refreshing = true
	w.mu.Unlock()

	records, err := services.FetchRecords(ctx, w.store, w.logger)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Refreshing = false
	if err != nil {
		w.logger.Error("Failed to refresh records", zap.Error(err))
		return err
	}
	w.state.Records = records
	return nil
}

// UploadPDF extracts fields from a PDF and merges them into the draft
func (w *Workspace) UploadPDF(ctx context.Context, pdf []byte) error {
	w.mu.Lock()
	w.state.Analyzing = true
	w.mu.Unlock()

	extraction, err := services.ExtractForm(ctx, w.extractor, w.logger, pdf)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Analyzing = false
	if err != nil {
		return fmt.Errorf("PDF 解析失敗: %w", err)
	}
	w.state.Form.ApplyExtraction(*extraction, w.opts.Location)
	return nil
}

// Save sends the draft to the store.
// A new record is prepended to the list and the draft reset; an edited record
// is replaced in place and the list shown. The save status reflects the outcome
// until the draft changes again.
func (w *Workspace) Save(ctx context.Context) (*model.ApplicationRecord, error) {
	w.mu.Lock()
	form := w.state.Form
	form.Staff = append(model.Staff{}, w.state.Form.Staff...)
	editingID := ""
	if w.state.IsEditing {
		editingID = w.state.EditingID
	}
	w.state.Loading = true
	w.mu.Unlock()

	record, err := services.SaveRecord(ctx, w.store, w.logger, form, editingID, w.opts.Now(), w.opts.Location)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Loading = false

	if err != nil {
		if !errors.Is(err, services.ErrSchoolNameRequired) && !errors.Is(err, services.ErrInvalidStatus) {
			w.state.SaveStatus = SaveStatusError
			w.logger.Error("Failed to save record", zap.Error(err))
		}
		return nil, err
	}

	if editingID != "" {
		for i := range w.state.Records {
			if w.state.Records[i].ID == editingID {
				record.CreatedAt = w.state.Records[i].CreatedAt
				w.state.Records[i] = *record
				break
			}
		}
	} else {
		w.state.Records = append([]model.ApplicationRecord{*record}, w.state.Records...)
	}

	// A draft started while the save was in flight is left alone.
	if w.state.IsEditing != (editingID != "") || (editingID != "" && w.state.EditingID != editingID) {
		return record, nil
	}

	w.resetLocked()
	if editingID != "" {
		w.state.View = ViewList
	}
	w.state.SaveStatus = SaveStatusSuccess

	return record, nil
}

// Edit loads a record into the draft and switches to the form
func (w *Workspace) Edit(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	r, err := services.FindRecord(w.state.Records, id)
	if err != nil {
		return err
	}

	w.state.Form = model.FormFromRecord(*r, w.opts.Location)
	w.state.EditingID = id
	w.state.IsEditing = true
	w.state.SaveStatus = SaveStatusNone
	w.state.View = ViewForm
	return nil
}

// CancelEdit leaves edit mode and resets the draft
func (w *Workspace) CancelEdit() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.resetLocked()
}

// RequestDelete asks for confirmation before deleting a record
func (w *Workspace) RequestDelete(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state.DeleteConfirmID = id
}

// CancelDelete dismisses the delete confirmation
func (w *Workspace) CancelDelete() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state.DeleteConfirmID = ""
}

// ConfirmDelete removes a record locally, then asks the store to delete it.
// The local removal stands even if the store call fails.
func (w *Workspace) ConfirmDelete(ctx context.Context, id string) error {
	w.mu.Lock()
	w.state.DeleteConfirmID = ""
	kept := w.state.Records[:0:0]
	for _, r := range w.state.Records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	w.state.Records = kept
	if w.state.ExpandedID == id {
		w.state.ExpandedID = ""
	}
	w.mu.Unlock()

	if err := services.DeleteRecord(ctx, w.store, w.logger, id); err != nil {
		w.logger.Error("Failed to delete record", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// SetStatus changes a record's status locally, then sends it to the store.
// The local change stands even if the store call fails.
func (w *Workspace) SetStatus(ctx context.Context, id string, status model.Status) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", services.ErrInvalidStatus, status)
	}

	w.mu.Lock()
	for i := range w.state.Records {
		if w.state.Records[i].ID == id {
			w.state.Records[i].Status = status
		}
	}
	w.mu.Unlock()

	if err := services.UpdateStatus(ctx, w.store, w.logger, id, status); err != nil {
		w.logger.Error("Failed to update status", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// SetFilter selects which records the list shows
func (w *Workspace) SetFilter(filter string) error {
	if filter == "" {
		filter = model.StatusFilterAll
	}
	if filter != model.StatusFilterAll && !model.Status(filter).IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidFilter, filter)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.state.Filter = filter
	return nil
}

// Toggle expands a record's details, or collapses them if already expanded
func (w *Workspace) Toggle(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state.ExpandedID == id {
		w.state.ExpandedID = ""
		return
	}
	w.state.ExpandedID = id
}

// UpdateForm applies fn to the draft
func (w *Workspace) UpdateForm(fn func(f *model.Form)) {
	w.mu.Lock()
	defer w.mu.Unlock()

	fn(&w.state.Form)
	w.state.SaveStatus = SaveStatusNone
}

// ToggleStaff assigns or unassigns a staff member on the draft
func (w *Workspace) ToggleStaff(name string) {
	w.UpdateForm(func(f *model.Form) { f.ToggleStaff(name) })
}

// SetCustomStaff keeps the text typed into the custom staff box
func (w *Workspace) SetCustomStaff(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.state.CustomStaff = name
}

// AddCustomStaff appends name (or the typed custom staff when name is empty) to the draft
func (w *Workspace) AddCustomStaff(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if name == "" {
		name = w.state.CustomStaff
	}
	if !w.state.Form.AddStaff(name) {
		return false
	}
	w.state.CustomStaff = ""
	w.state.SaveStatus = SaveStatusNone
	return true
}

// SelectDate copies the chosen requested slot into the confirmed slot
func (w *Workspace) SelectDate(choice model.DateChoice) error {
	if !choice.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidDateChoice, choice)
	}
	w.UpdateForm(func(f *model.Form) { f.ApplyDateSelection(choice) })
	return nil
}
