package services

import (
	"context"
	"encoding/base64"
	"time"

	"go.uber.org/zap"

	"github.com/coe-onsite/onsite-manager/pkg/core/model"
	"github.com/coe-onsite/onsite-manager/pkg/metrics"
)

// Extractor reads application form fields from a base64-encoded PDF
type Extractor interface {
	Extract(ctx context.Context, pdfBase64 string) (*model.Extraction, error)
}

// ExtractForm sends a PDF to the extractor.
// Errors are returned unwrapped so the extractor's message reaches the user.
func ExtractForm(ctx context.Context, extractor Extractor, logger *zap.Logger, pdf []byte) (*model.Extraction, error) {
	logger.Debug("Extracting form from PDF", zap.Int("bytes", len(pdf)))

	start := time.Now()
	extraction, err := extractor.Extract(ctx, base64.StdEncoding.EncodeToString(pdf))
	metrics.ObserveExtraction(start, err)
	if err != nil {
		logger.Error("PDF extraction failed", zap.Error(err))
		return nil, err
	}

	logger.Info("Extracted form from PDF")
	return extraction, nil
}
