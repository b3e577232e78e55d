package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/coe-onsite/onsite-manager/pkg/db"
)

var _ db.RecordStore = (*DB)(nil)

const selectRecords = `
	SELECT id, school_name, applicant_name, phone,
		confirmed_date, start_time, end_time,
		first_choice_date, first_choice_start, first_choice_end,
		second_choice_date, second_choice_start, second_choice_end,
		date_other, participant_count, difficulties, expectations,
		staff, status, created_at
	FROM application_record
	ORDER BY created_at, id
`

// confirmed_date, start_time and end_time are TEXT and stored as given
const insertRecord = `
	INSERT INTO application_record (
		id, school_name, applicant_name, phone,
		confirmed_date, start_time, end_time,
		first_choice_date, first_choice_start, first_choice_end,
		second_choice_date, second_choice_start, second_choice_end,
		date_other, participant_count, difficulties, expectations,
		staff, status, created_at
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7,
		$8, $9, $10, $11, $12, $13,
		$14, $15, $16, $17,
		$18, $19, COALESCE($20::timestamptz, NOW())
	)
`

const updateRecord = `
	UPDATE application_record SET
		school_name = $2, applicant_name = $3, phone = $4,
		confirmed_date = $5, start_time = $6, end_time = $7,
		first_choice_date = $8, first_choice_start = $9, first_choice_end = $10,
		second_choice_date = $11, second_choice_start = $12, second_choice_end = $13,
		date_other = $14, participant_count = $15, difficulties = $16, expectations = $17,
		staff = $18, status = $19
	WHERE id = $1
`

// GetRecords retrieves all application records, oldest first
func (d *DB) GetRecords(ctx context.Context) ([]db.ApplicationRecord, error) {
	rows, err := d.pool.Query(ctx, selectRecords)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []db.ApplicationRecord
	for rows.Next() {
		var r db.ApplicationRecord
		var createdAt time.Time
		if err := rows.Scan(
			&r.ID, &r.SchoolName, &r.ApplicantName, &r.Phone,
			&r.ConfirmedDate, &r.StartTime, &r.EndTime,
			&r.FirstChoiceDate, &r.FirstChoiceStart, &r.FirstChoiceEnd,
			&r.SecondChoiceDate, &r.SecondChoiceStart, &r.SecondChoiceEnd,
			&r.DateOther, &r.ParticipantCount, &r.Difficulties, &r.Expectations,
			&r.Staff, &r.Status, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		r.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

// InsertRecord inserts a new application record.
// A missing creation time defaults to now.
func (d *DB) InsertRecord(ctx context.Context, record *db.ApplicationRecord) error {
	createdAt, err := parseTimestamp(record.CreatedAt)
	if err != nil {
		return fmt.Errorf("invalid created_at for record %s: %w", record.ID, err)
	}

	_, err = d.pool.Exec(ctx, insertRecord,
		record.ID, record.SchoolName, record.ApplicantName, record.Phone,
		record.ConfirmedDate, record.StartTime, record.EndTime,
		record.FirstChoiceDate, record.FirstChoiceStart, record.FirstChoiceEnd,
		record.SecondChoiceDate, record.SecondChoiceStart, record.SecondChoiceEnd,
		record.DateOther, record.ParticipantCount, record.Difficulties, record.Expectations,
		record.Staff, statusOrDefault(record.Status), createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// UpdateRecord rewrites every field of a record except its creation time
func (d *DB) UpdateRecord(ctx context.Context, record *db.ApplicationRecord) error {
	tag, err := d.pool.Exec(ctx, updateRecord,
		record.ID, record.SchoolName, record.ApplicantName, record.Phone,
		record.ConfirmedDate, record.StartTime, record.EndTime,
		record.FirstChoiceDate, record.FirstChoiceStart, record.FirstChoiceEnd,
		record.SecondChoiceDate, record.SecondChoiceStart, record.SecondChoiceEnd,
		record.DateOther, record.ParticipantCount, record.Difficulties, record.Expectations,
		record.Staff, statusOrDefault(record.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to update record %s: %w", record.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update record %s: %w", record.ID, db.ErrRecordNotFound)
	}
	return nil
}

// UpdateRecordStatus sets the status of a record
func (d *DB) UpdateRecordStatus(ctx context.Context, id, status string) error {
	tag, err := d.pool.Exec(ctx, `UPDATE application_record SET status = $2 WHERE id = $1`, id, statusOrDefault(status))
	if err != nil {
		return fmt.Errorf("failed to update status of record %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to update status of record %s: %w", id, db.ErrRecordNotFound)
	}
	return nil
}

// DeleteRecord deletes a record
func (d *DB) DeleteRecord(ctx context.Context, id string) error {
	tag, err := d.pool.Exec(ctx, `DELETE FROM application_record WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete record %s: %w", id, db.ErrRecordNotFound)
	}
	return nil
}

// parseTimestamp returns nil for an empty string so the column default applies
func parseTimestamp(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func statusOrDefault(status string) string {
	if status == "" {
		return "processing"
	}
	return status
}
