package db

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSheets is an in-memory spreadsheet that applies writes
type fakeSheets struct {
	sheets  map[string][][]interface{}
	ids     map[string]int64
	created []string
}

func newFakeSheets() *fakeSheets {
	return &fakeSheets{
		sheets: make(map[string][][]interface{}),
		ids:    make(map[string]int64),
	}
}

// parseA1 splits "B12" into a zero-based column and a one-based row (0 when absent)
func parseA1(ref string) (int, int) {
	col, row := 0, 0
	for _, r := range ref {
		switch {
		case r >= 'A' && r <= 'Z':
			col = col*26 + int(r-'A'+1)
		case r >= '0' && r <= '9':
			row = row*10 + int(r-'0')
		}
	}
	return col - 1, row
}

func (f *fakeSheets) GetValues(spreadsheetID, sheetRange string) ([][]interface{}, error) {
	title, cells, _ := strings.Cut(sheetRange, "!")
	rows := f.sheets[title]
	if cells == "" {
		return rows, nil
	}

	from, to, _ := strings.Cut(cells, ":")
	fromCol, fromRow := parseA1(from)
	toCol, toRow := parseA1(to)
	if toRow == 0 {
		toRow = len(rows)
	}

	var out [][]interface{}
	for i := max(fromRow, 1) - 1; i < toRow && i < len(rows); i++ {
		var row []interface{}
		for c := fromCol; c <= toCol && c < len(rows[i]); c++ {
			row = append(row, rows[i][c])
		}
		out = append(out, row)
	}
	return out, nil
}

func (f *fakeSheets) AppendRows(spreadsheetID, sheetRange string, values [][]interface{}) error {
	f.sheets[sheetRange] = append(f.sheets[sheetRange], values...)
	return nil
}

func (f *fakeSheets) UpdateValues(spreadsheetID, sheetRange string, values [][]interface{}) error {
	title, cells, _ := strings.Cut(sheetRange, "!")
	from, _, _ := strings.Cut(cells, ":")
	col, rowNum := parseA1(from)

	row := f.sheets[title][rowNum-1]
	for i, v := range values[0] {
		for len(row) <= col+i {
			row = append(row, "")
		}
		row[col+i] = v
	}
	f.sheets[title][rowNum-1] = row
	return nil
}

func (f *fakeSheets) CreateSheet(spreadsheetID, sheetTitle string) (int64, error) {
	id := int64(len(f.ids) + 1)
	f.ids[sheetTitle] = id
	f.created = append(f.created, sheetTitle)
	return id, nil
}

func (f *fakeSheets) DeleteRows(spreadsheetID string, sheetID, startIndex, endIndex int64) error {
	for title, id := range f.ids {
		if id == sheetID {
			rows := f.sheets[title]
			f.sheets[title] = append(rows[:startIndex], rows[endIndex:]...)
		}
	}
	return nil
}

func (f *fakeSheets) SheetIDs(spreadsheetID string) (map[string]int64, error) {
	out := make(map[string]int64, len(f.ids))
	for k, v := range f.ids {
		out[k] = v
	}
	return out, nil
}

func openTestDB(t *testing.T, records ...ApplicationRecord) (*DB, *fakeSheets) {
	t.Helper()

	sheets := newFakeSheets()
	db, err := Open(sheets, "spreadsheet")
	require.NoError(t, err)

	for i := range records {
		require.NoError(t, db.InsertRecord(context.Background(), &records[i]))
	}
	return db, sheets
}

func TestOpen_CreatesRecordTable(t *testing.T) {
	_, sheets := openTestDB(t)

	assert.Equal(t, []string{"application_record"}, sheets.created)
	rows := sheets.sheets["application_record"]
	require.Len(t, rows, 2)
	assert.Equal(t, "id", rows[0][0])
	assert.Equal(t, "created_at", rows[0][len(rows[0])-1])
	assert.Equal(t, "timestamp", rows[1][len(rows[1])-1])
}

func TestOpen_ReusesExistingTable(t *testing.T) {
	_, sheets := openTestDB(t, ApplicationRecord{ID: "1", SchoolName: "Hill College"})

	reopened, err := Open(sheets, "spreadsheet")
	require.NoError(t, err)
	assert.Len(t, sheets.created, 1)

	records, err := reopened.GetRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Hill College", records[0].SchoolName)
}

func TestInsertAndGetRecords(t *testing.T) {
	db, _ := openTestDB(t,
		ApplicationRecord{ID: "1", SchoolName: "Hill College", Staff: "淑, 榮", Status: "processing"},
		ApplicationRecord{ID: "2", SchoolName: "Bay School", Status: "completed", CreatedAt: "2025-03-01T10:00:00Z"},
	)

	records, err := db.GetRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "淑, 榮", records[0].Staff)
	assert.Equal(t, "completed", records[1].Status)
	assert.Equal(t, "2025-03-01T10:00:00Z", records[1].CreatedAt)
}

func TestUpdateRecord_KeepsCreatedAt(t *testing.T) {
	db, _ := openTestDB(t,
		ApplicationRecord{ID: "1", SchoolName: "Hill College"},
		ApplicationRecord{ID: "2", SchoolName: "Bay School", CreatedAt: "2025-03-01T10:00:00Z"},
	)
	ctx := context.Background()

	err := db.UpdateRecord(ctx, &ApplicationRecord{ID: "2", SchoolName: "Bay Secondary", Phone: "2345 6789"})
	require.NoError(t, err)

	records, err := db.GetRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Hill College", records[0].SchoolName)
	assert.Equal(t, "Bay Secondary", records[1].SchoolName)
	assert.Equal(t, "2345 6789", records[1].Phone)
	assert.Equal(t, "2025-03-01T10:00:00Z", records[1].CreatedAt)
}

func TestUpdateRecord_NotFound(t *testing.T) {
	db, _ := openTestDB(t, ApplicationRecord{ID: "1"})

	err := db.UpdateRecord(context.Background(), &ApplicationRecord{ID: "9"})
	assert.ErrorIs(t, err, ErrRecordNotFound)

	err = db.UpdateRecord(context.Background(), &ApplicationRecord{ID: "9", CreatedAt: "2025-01-01T00:00:00Z"})
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestUpdateRecordStatus(t *testing.T) {
	db, _ := openTestDB(t,
		ApplicationRecord{ID: "1", SchoolName: "Hill College", Status: "processing"},
	)
	ctx := context.Background()

	require.NoError(t, db.UpdateRecordStatus(ctx, "1", "completed"))

	records, err := db.GetRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, "completed", records[0].Status)
	assert.Equal(t, "Hill College", records[0].SchoolName)

	assert.ErrorIs(t, db.UpdateRecordStatus(ctx, "missing", "completed"), ErrRecordNotFound)
}

func TestDeleteRecord(t *testing.T) {
	db, _ := openTestDB(t,
		ApplicationRecord{ID: "1", SchoolName: "Hill College"},
		ApplicationRecord{ID: "2", SchoolName: "Bay School"},
		ApplicationRecord{ID: "3", SchoolName: "Sunshine Primary"},
	)
	ctx := context.Background()

	require.NoError(t, db.DeleteRecord(ctx, "2"))

	records, err := db.GetRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "1", records[0].ID)
	assert.Equal(t, "3", records[1].ID)

	assert.ErrorIs(t, db.DeleteRecord(ctx, "2"), ErrRecordNotFound)
}
