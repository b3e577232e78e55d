package sheetssql

import (
	"fmt"
	"reflect"
	"strings"
)

// SchemaFromModels builds a Schema by reflecting on struct definitions
// Each struct represents a table, with fields representing columns
// Fields must have `ssql_header:"column_name"` and `ssql_type:"column_type"` tags
func SchemaFromModels(models ...interface{}) (*Schema, error) {
	tables := make([]TableSchema, 0, len(models))

	for _, model := range models {
		table, err := tableSchemaFromModel(model)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}

	return &Schema{Tables: tables}, nil
}

// TableName returns the table a model is stored in
func TableName(model interface{}) string {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return toSnakeCase(t.Name())
}

func tableSchemaFromModel(model interface{}) (TableSchema, error) {
	t := reflect.TypeOf(model)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return TableSchema{}, fmt.Errorf("model must be a struct, got %s", t.Kind())
	}

	columns := make([]Column, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		sheetTag := field.Tag.Get("ssql_header")
		if sheetTag == "" {
			return TableSchema{}, fmt.Errorf("field %s.%s missing 'ssql_header' tag", t.Name(), field.Name)
		}

		typeTag := field.Tag.Get("ssql_type")
		if typeTag == "" {
			return TableSchema{}, fmt.Errorf("field %s.%s missing 'ssql_type' tag", t.Name(), field.Name)
		}

		columns = append(columns, Column{
			Name: sheetTag,
			Type: typeTag,
		})
	}

	if len(columns) == 0 {
		return TableSchema{}, fmt.Errorf("struct %s has no fields", t.Name())
	}

	return TableSchema{
		Name:    toSnakeCase(t.Name()),
		Columns: columns,
	}, nil
}

// toSnakeCase converts PascalCase to snake_case
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}

// columnLetter converts a zero-based column index to A1 notation (0 -> A, 26 -> AA)
func columnLetter(index int) string {
	letters := ""
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		letters = string(rune('A'+(n-1)%26)) + letters
	}
	return letters
}

// ensureSchema validates that all tables in the schema exist and match expected structure
// Creates any missing tables
func (db *DB) ensureSchema() error {
	sheetIDs, err := db.client.SheetIDs(db.spreadsheetID)
	if err != nil {
		return fmt.Errorf("failed to get existing sheets: %w", err)
	}
	if sheetIDs == nil {
		sheetIDs = make(map[string]int64)
	}
	db.sheetIDs = sheetIDs

	for _, table := range db.schema.Tables {
		if _, ok := db.sheetIDs[table.Name]; ok {
			if err := db.verifyTableSchema(table); err != nil {
				return fmt.Errorf("table %s schema mismatch: %w", table.Name, err)
			}
			continue
		}

		sheetID, err := db.createTable(table)
		if err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.Name, err)
		}
		db.sheetIDs[table.Name] = sheetID
	}

	return nil
}

// verifyTableSchema checks that a table's header and type rows match the schema
func (db *DB) verifyTableSchema(table TableSchema) error {
	values, err := db.client.GetValues(db.spreadsheetID, fmt.Sprintf("%s!A1:ZZ2", table.Name))
	if err != nil {
		return fmt.Errorf("failed to read table headers: %w", err)
	}

	if len(values) < 2 {
		return fmt.Errorf("table missing header or type row")
	}

	headers := values[0]
	types := values[1]

	if len(headers) != len(table.Columns) {
		return fmt.Errorf("expected %d columns, found %d", len(table.Columns), len(headers))
	}

	for i, col := range table.Columns {
		headerStr, ok := headers[i].(string)
		if !ok || headerStr != col.Name {
			return fmt.Errorf("column %d: expected header '%s', got '%v'", i, col.Name, headers[i])
		}

		if i >= len(types) {
			return fmt.Errorf("missing type for column %s", col.Name)
		}

		typeStr, ok := types[i].(string)
		if !ok || typeStr != col.Type {
			return fmt.Errorf("column %d (%s): expected type '%s', got '%v'", i, col.Name, col.Type, types[i])
		}
	}

	return nil
}

// createTable creates a new sheet with header and type rows
func (db *DB) createTable(table TableSchema) (int64, error) {
	sheetID, err := db.client.CreateSheet(db.spreadsheetID, table.Name)
	if err != nil {
		return 0, fmt.Errorf("failed to create sheet: %w", err)
	}

	headers := make([]interface{}, len(table.Columns))
	types := make([]interface{}, len(table.Columns))

	for i, col := range table.Columns {
		headers[i] = col.Name
		types[i] = col.Type
	}

	rows := [][]interface{}{headers, types}
	if err := db.client.AppendRows(db.spreadsheetID, table.Name, rows); err != nil {
		return 0, fmt.Errorf("failed to write headers and types: %w", err)
	}

	return sheetID, nil
}
