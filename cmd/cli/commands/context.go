package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/coe-onsite/onsite-manager/internal/config"
	"github.com/coe-onsite/onsite-manager/pkg/core/model"
	"github.com/coe-onsite/onsite-manager/pkg/core/services"
	"github.com/coe-onsite/onsite-manager/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg       *config.Config
	Store     db.RecordStore
	Extractor services.Extractor
	Logger    *zap.Logger
	Ctx       context.Context

	closers []func()
}

// OnClose registers fn to run when the application shuts down
func (app *AppContext) OnClose(fn func()) {
	app.closers = append(app.closers, fn)
}

// Close releases everything registered with OnClose, last registered first
func (app *AppContext) Close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		app.closers[i]()
	}
	app.closers = nil
}

// RequireExtractor returns the PDF extractor or an error when no API key was configured
func (app *AppContext) RequireExtractor() (services.Extractor, error) {
	if app.Extractor == nil {
		return nil, fmt.Errorf("gemini API key is not configured (set gemini.apiKey or $%s)", app.Cfg.Gemini.APIKeyEnv)
	}
	return app.Extractor, nil
}

// loadRecords fetches every record sorted by confirmed date
func (app *AppContext) loadRecords() ([]model.ApplicationRecord, error) {
	return services.FetchRecords(app.Ctx, app.Store, app.Logger)
}

// loadRecord fetches every record and returns the one with the given ID
func (app *AppContext) loadRecord(id string) (*model.ApplicationRecord, error) {
	records, err := app.loadRecords()
	if err != nil {
		return nil, err
	}
	return services.FindRecord(records, id)
}

// unavailableExtractor stands in for the extractor when no API key is configured,
// so the web form reports the problem instead of failing to start
type unavailableExtractor struct {
	app *AppContext
}

func (u unavailableExtractor) Extract(ctx context.Context, pdfBase64 string) (*model.Extraction, error) {
	_, err := u.app.RequireExtractor()
	return nil, err
}

// extractorOrUnavailable returns the configured extractor, or one that always fails
func (app *AppContext) extractorOrUnavailable() services.Extractor {
	if app.Extractor == nil {
		return unavailableExtractor{app: app}
	}
	return app.Extractor
}
