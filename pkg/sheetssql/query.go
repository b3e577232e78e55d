package sheetssql

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
)

// headerRows is the number of rows at the top of each table (headers and types)
const headerRows = 2

// ErrRowNotFound is returned when no row matches a key
var ErrRowNotFound = errors.New("row not found")

// GetTableAs retrieves all rows from a table and maps them to structs of type T
// Skips the first two rows (headers and types)
func GetTableAs[T any](db *DB, tableName string) ([]T, error) {
	values, err := db.client.GetValues(db.spreadsheetID, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get table %s: %w", tableName, err)
	}

	if len(values) <= headerRows {
		return []T{}, nil
	}

	headers := values[0]
	dataRows := values[headerRows:]

	var model T
	t := reflect.TypeOf(model)

	columnIndexes := make(map[string]int)
	for i, header := range headers {
		if headerStr, ok := header.(string); ok {
			columnIndexes[headerStr] = i
		}
	}

	fieldMap := make(map[string]reflect.StructField)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		columnName := field.Tag.Get("ssql_header")
		if columnName != "" {
			fieldMap[columnName] = field
		}
	}

	results := make([]T, 0, len(dataRows))
	for rowIdx, row := range dataRows {
		// Rows cleared by hand come back as empty slices
		if len(row) == 0 {
			continue
		}

		result := reflect.New(t).Elem()

		for columnName, colIdx := range columnIndexes {
			field, ok := fieldMap[columnName]
			if !ok {
				continue
			}

			if colIdx >= len(row) {
				continue
			}

			cellValue := row[colIdx]
			if cellValue == nil {
				continue
			}

			if err := setFieldValue(result.FieldByName(field.Name), cellValue); err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", rowIdx+headerRows+1, columnName, err)
			}
		}

		results = append(results, result.Interface().(T))
	}

	return results, nil
}

// cellString renders a sheet cell as a string.
// Cells are strings under the default FORMATTED_VALUE rendering, but
// numbers and booleans can appear when a table is read unformatted.
func cellString(cellValue interface{}) (string, error) {
	switch v := cellValue.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	}
	return "", fmt.Errorf("unsupported cell value type %T", cellValue)
}

// setFieldValue converts a sheet cell value to the appropriate Go type and sets it on the field
func setFieldValue(field reflect.Value, cellValue interface{}) error {
	if !field.CanSet() {
		return fmt.Errorf("field cannot be set")
	}

	cellStr, err := cellString(cellValue)
	if err != nil {
		return err
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(cellStr)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if cellStr == "" {
			field.SetInt(0)
			return nil
		}
		intVal, err := strconv.ParseInt(cellStr, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse int: %w", err)
		}
		field.SetInt(intVal)

	case reflect.Bool:
		if cellStr == "" {
			field.SetBool(false)
			return nil
		}
		boolVal, err := strconv.ParseBool(cellStr)
		if err != nil {
			return fmt.Errorf("failed to parse bool: %w", err)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// modelRow flattens a struct into a row in column order
func modelRow(model interface{}) []interface{} {
	t := reflect.TypeOf(model)
	v := reflect.ValueOf(model)

	row := make([]interface{}, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("ssql_header") == "" {
			continue
		}
		row = append(row, v.Field(i).Interface())
	}
	return row
}

// InsertModel appends a struct as a row to its corresponding table
func InsertModel[T any](db *DB, model T) error {
	return db.InsertRow(TableName(model), modelRow(model))
}

// InsertModels appends multiple structs as rows to their corresponding table
func InsertModels[T any](db *DB, models []T) error {
	if len(models) == 0 {
		return nil
	}

	rows := make([][]interface{}, 0, len(models))
	for _, model := range models {
		rows = append(rows, modelRow(model))
	}

	return db.InsertRows(TableName(models[0]), rows)
}
