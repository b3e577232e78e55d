package sheetssql

import (
	"fmt"
)

// findRow returns the one-based sheet row holding key in keyColumn
func (db *DB) findRow(table TableSchema, keyColumn, key string) (int, error) {
	keyIdx := table.ColumnIndex(keyColumn)
	if keyIdx < 0 {
		return 0, fmt.Errorf("table %s has no column %s", table.Name, keyColumn)
	}

	col := columnLetter(keyIdx)
	values, err := db.client.GetValues(db.spreadsheetID, fmt.Sprintf("%s!%s:%s", table.Name, col, col))
	if err != nil {
		return 0, fmt.Errorf("failed to read key column: %w", err)
	}

	for i := headerRows; i < len(values); i++ {
		if len(values[i]) == 0 {
			continue
		}
		cell, err := cellString(values[i][0])
		if err != nil {
			continue
		}
		if cell == key {
			return i + 1, nil
		}
	}

	return 0, fmt.Errorf("%s=%s in %s: %w", keyColumn, key, table.Name, ErrRowNotFound)
}

func (db *DB) table(name string) (TableSchema, error) {
	table, ok := db.schema.Table(name)
	if !ok {
		return TableSchema{}, fmt.Errorf("unknown table %s", name)
	}
	return table, nil
}

// UpdateModel rewrites the row whose keyColumn matches the model's value for that column
func UpdateModel[T any](db *DB, keyColumn string, model T) error {
	table, err := db.table(TableName(model))
	if err != nil {
		return err
	}

	keyIdx := table.ColumnIndex(keyColumn)
	if keyIdx < 0 {
		return fmt.Errorf("table %s has no column %s", table.Name, keyColumn)
	}

	row := modelRow(model)
	key := fmt.Sprint(row[keyIdx])

	rowNum, err := db.findRow(table, keyColumn, key)
	if err != nil {
		return err
	}

	rng := fmt.Sprintf("%s!A%d:%s%d", table.Name, rowNum, columnLetter(len(row)-1), rowNum)
	if err := db.client.UpdateValues(db.spreadsheetID, rng, [][]interface{}{row}); err != nil {
		return fmt.Errorf("failed to update row %d: %w", rowNum, err)
	}

	return nil
}

// UpdateCell sets a single column of the row whose keyColumn equals key
func (db *DB) UpdateCell(tableName, keyColumn, key, column string, value interface{}) error {
	table, err := db.table(tableName)
	if err != nil {
		return err
	}

	colIdx := table.ColumnIndex(column)
	if colIdx < 0 {
		return fmt.Errorf("table %s has no column %s", table.Name, column)
	}

	rowNum, err := db.findRow(table, keyColumn, key)
	if err != nil {
		return err
	}

	rng := fmt.Sprintf("%s!%s%d", table.Name, columnLetter(colIdx), rowNum)
	if err := db.client.UpdateValues(db.spreadsheetID, rng, [][]interface{}{{value}}); err != nil {
		return fmt.Errorf("failed to update cell %s: %w", rng, err)
	}

	return nil
}

// DeleteWhere removes the row whose keyColumn equals key
func (db *DB) DeleteWhere(tableName, keyColumn, key string) error {
	table, err := db.table(tableName)
	if err != nil {
		return err
	}

	sheetID, ok := db.sheetIDs[table.Name]
	if !ok {
		return fmt.Errorf("no sheet id for table %s", table.Name)
	}

	rowNum, err := db.findRow(table, keyColumn, key)
	if err != nil {
		return err
	}

	// Dimension ranges are zero-based and end-exclusive
	start := int64(rowNum - 1)
	if err := db.client.DeleteRows(db.spreadsheetID, sheetID, start, start+1); err != nil {
		return fmt.Errorf("failed to delete row %d: %w", rowNum, err)
	}

	return nil
}
