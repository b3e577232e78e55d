package db

import (
	"fmt"

	"github.com/coe-onsite/onsite-manager/pkg/sheetssql"
)

const recordTable = "application_record"

// DB provides database operations using SheetsSQL
type DB struct {
	ssql *sheetssql.DB
}

// Schema returns the SheetsSQL schema for every stored model
func Schema() (*sheetssql.Schema, error) {
	schema, err := sheetssql.SchemaFromModels(ApplicationRecord{})
	if err != nil {
		return nil, fmt.Errorf("failed to build schema: %w", err)
	}
	return schema, nil
}

// Open connects to the spreadsheet, creating missing tables
func Open(client sheetssql.SheetsClient, spreadsheetID string) (*DB, error) {
	schema, err := Schema()
	if err != nil {
		return nil, err
	}

	ssql, err := sheetssql.NewDB(client, spreadsheetID, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to open sheets database: %w", err)
	}

	return NewDB(ssql), nil
}

// NewDB creates a new database instance
func NewDB(ssql *sheetssql.DB) *DB {
	return &DB{
		ssql: ssql,
	}
}
