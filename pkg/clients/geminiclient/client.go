package geminiclient

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/coe-onsite/onsite-manager/pkg/core/model"
)

const (
	pdfMimeType      = "application/pdf"
	extractionPrompt = "請分析這份教育支援申請表 PDF，並提取資料。如果找不到某欄位，請回傳空字串。"
)

// ErrEmptyResponse is returned when the model answers without any text
var ErrEmptyResponse = errors.New("AI did not return any content")

// Option customizes the underlying genai client config
type Option func(cfg *genai.ClientConfig)

// WithEndpoint sends requests to baseURL instead of the public Gemini API
func WithEndpoint(baseURL string) Option {
	return func(cfg *genai.ClientConfig) {
		cfg.HTTPOptions.BaseURL = baseURL
	}
}

// WithHTTPClient makes the client use httpClient for every request
func WithHTTPClient(httpClient *http.Client) Option {
	return func(cfg *genai.ClientConfig) {
		cfg.HTTPClient = httpClient
	}
}

// Client extracts application form fields from PDFs with Gemini
type Client struct {
	genai  *genai.Client
	model  string
	logger *zap.Logger
}

// NewClient creates a Gemini client authenticated with an API key
func NewClient(ctx context.Context, apiKey, modelName string, logger *zap.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is not set")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Client{
		genai:  client,
		model:  modelName,
		logger: logger,
	}, nil
}

// Extract sends a base64-encoded PDF and returns the fields the model found.
// Fields the model omitted stay nil.
func (c *Client) Extract(ctx context.Context, pdfBase64 string) (*model.Extraction, error) {
	pdf, err := base64.StdEncoding.DecodeString(pdfBase64)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 PDF: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				{Text: extractionPrompt},
				{InlineData: &genai.Blob{MIMEType: pdfMimeType, Data: pdf}},
			},
		},
	}
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   extractionSchema(),
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("generate content failed: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	var extraction model.Extraction
	if err := json.Unmarshal([]byte(text), &extraction); err != nil {
		return nil, fmt.Errorf("failed to parse model output: %w", err)
	}

	c.logger.Debug("Extracted form fields",
		zap.String("model", c.model),
		zap.Int("response_bytes", len(text)))

	return &extraction, nil
}

// responseText joins the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}

func extractionSchema() *genai.Schema {
	str := func(description string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: description}
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"schoolName":        str("學校名稱"),
			"applicantName":     str("申請人姓名"),
			"phone":             str("手提電話"),
			"firstChoiceDate":   str("首選日期, 格式 YYYY-MM-DD"),
			"firstChoiceStart":  str("首選開始時間, 格式 HH:mm"),
			"firstChoiceEnd":    str("首選結束時間, 格式 HH:mm"),
			"secondChoiceDate":  str("次選日期, 格式 YYYY-MM-DD"),
			"secondChoiceStart": str("次選開始時間, 格式 HH:mm"),
			"secondChoiceEnd":   str("次選結束時間, 格式 HH:mm"),
			"participantCount":  str("參與人數"),
			"difficulties":      str("推行電子學習遇到的困難"),
			"expectations":      str("對是次支援期望"),
		},
		Required: []string{"schoolName", "applicantName"},
	}
}
