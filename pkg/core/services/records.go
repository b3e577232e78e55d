package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/coe-onsite/onsite-manager/pkg/core/datefmt"
	"github.com/coe-onsite/onsite-manager/pkg/core/model"
	"github.com/coe-onsite/onsite-manager/pkg/db"
	"github.com/coe-onsite/onsite-manager/pkg/metrics"
)

// ErrSchoolNameRequired is returned when saving a form without a school name
var ErrSchoolNameRequired = errors.New("school name is required")

// ErrInvalidStatus is returned for a status other than processing or completed
var ErrInvalidStatus = errors.New("invalid status")

// noDateSortKey sorts records without a confirmed date after every real date
const noDateSortKey = "9999-99-99"

var validate = validator.New()

// FetchRecords loads every record and sorts it by confirmed date, earliest first.
// Records without a confirmed date come last; ties keep store order.
func FetchRecords(ctx context.Context, store db.RecordStore, logger *zap.Logger) ([]model.ApplicationRecord, error) {
	start := time.Now()
	rows, err := store.GetRecords(ctx)
	metrics.ObserveStore("get_records", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}

	records := make([]model.ApplicationRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, recordFromDB(row))
	}

	sort.SliceStable(records, func(i, j int) bool {
		return sortKey(records[i]) < sortKey(records[j])
	})

	metrics.RecordsLoaded.Set(float64(len(records)))
	logger.Debug("Fetched records", zap.Int("count", len(records)))

	return records, nil
}

func sortKey(r model.ApplicationRecord) string {
	if d := datefmt.FormatDate(r.ConfirmedDate); d != "" {
		return d
	}
	return noDateSortKey
}

// FilterByStatus returns the records whose status (defaulting to processing) equals filter.
// An empty filter or "all" returns every record.
func FilterByStatus(records []model.ApplicationRecord, filter string) []model.ApplicationRecord {
	if filter == "" || filter == model.StatusFilterAll {
		return records
	}

	filtered := make([]model.ApplicationRecord, 0, len(records))
	for _, r := range records {
		if r.Status.OrDefault() == model.Status(filter) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// SaveRecord validates the draft and sends it to the store.
// A non-empty editingID updates that record, otherwise a new record is created
// with an ID taken from now in Unix milliseconds. The confirmed date and times
// are normalized first. The returned record is what the caller should keep locally.
func SaveRecord(ctx context.Context, store db.RecordStore, logger *zap.Logger, form model.Form, editingID string, now time.Time, loc *time.Location) (*model.ApplicationRecord, error) {
	if err := validateForm(form); err != nil {
		return nil, err
	}

	form.ConfirmedDate = datefmt.FormatDate(form.ConfirmedDate)
	form.StartTime = datefmt.FormatTimeIn(form.StartTime, loc)
	form.EndTime = datefmt.FormatTimeIn(form.EndTime, loc)

	if editingID != "" {
		record := form.ToRecord(editingID, "")
		row := recordToDB(record)

		start := time.Now()
		err := store.UpdateRecord(ctx, &row)
		metrics.ObserveStore("update_record", start, err)
		if err != nil {
			return nil, fmt.Errorf("failed to update record: %w", err)
		}

		logger.Info("Updated record", zap.String("id", editingID), zap.String("school", record.SchoolName))
		return &record, nil
	}

	id := strconv.FormatInt(now.UnixMilli(), 10)
	record := form.ToRecord(id, now.UTC().Format(time.RFC3339))
	row := recordToDB(record)

	start := time.Now()
	err := store.InsertRecord(ctx, &row)
	metrics.ObserveStore("insert_record", start, err)
	if err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	logger.Info("Created record", zap.String("id", id), zap.String("school", record.SchoolName))
	return &record, nil
}

func validateForm(form model.Form) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Field() == "SchoolName" {
				return ErrSchoolNameRequired
			}
		}
		return fmt.Errorf("%w: %s", ErrInvalidStatus, verrs[0].Value())
	}
	return fmt.Errorf("invalid form: %w", err)
}

// UpdateStatus sends a status change for a single record
func UpdateStatus(ctx context.Context, store db.RecordStore, logger *zap.Logger, id string, status model.Status) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	start := time.Now()
	err := store.UpdateRecordStatus(ctx, id, string(status))
	metrics.ObserveStore("update_status", start, err)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	logger.Info("Updated record status", zap.String("id", id), zap.String("status", string(status)))
	return nil
}

// DeleteRecord asks the store to delete a record
func DeleteRecord(ctx context.Context, store db.RecordStore, logger *zap.Logger, id string) error {
	start := time.Now()
	err := store.DeleteRecord(ctx, id)
	metrics.ObserveStore("delete_record", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	logger.Info("Deleted record", zap.String("id", id))
	return nil
}

// FindRecord returns the record with the given ID
func FindRecord(records []model.ApplicationRecord, id string) (*model.ApplicationRecord, error) {
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, fmt.Errorf("record %s: %w", id, db.ErrRecordNotFound)
}
