package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Backend names the store records are persisted to
type Backend string

const (
	// BackendScript is an Apps Script web app in front of a spreadsheet
	BackendScript Backend = "script"
	// BackendSheets talks to the Sheets API directly
	BackendSheets Backend = "sheets"
	// BackendPostgres stores records in PostgreSQL
	BackendPostgres Backend = "postgres"
)

const (
	DefaultGeminiModel  = "gemini-3-flash-preview"
	DefaultAPIKeyEnv    = "GEMINI_API_KEY"
	DefaultTimezone     = "Asia/Hong_Kong"
	DefaultStartTime    = "09:00"
	DefaultEndTime      = "12:00"
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultServerHost   = "localhost"
	DefaultServerPort   = 8080
	configFileBaseName  = "onsite_config"
	configFileExtension = ".yaml"
)

// DefaultStaffPresets are the staff offered as one-click toggles on the form
var DefaultStaffPresets = []string{"淑", "榮", "仁", "爾", "軒"}

// GeminiConfig configures the PDF extraction model
type GeminiConfig struct {
	Model     string `yaml:"model"`
	APIKey    string `yaml:"apiKey,omitempty"`
	APIKeyEnv string `yaml:"apiKeyEnv,omitempty"`
	Endpoint  string `yaml:"endpoint,omitempty" validate:"omitempty,url"`
}

// ServerConfig configures the web form server
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port" validate:"min=1,max=65535"`
}

// Config represents the application configuration
type Config struct {
	Backend         Backend       `yaml:"backend" validate:"required,oneof=script sheets postgres"`
	ScriptURL       string        `yaml:"scriptURL,omitempty" validate:"required_if=Backend script,omitempty,url"`
	DatabaseSheetID string        `yaml:"databaseSheetID,omitempty" validate:"required_if=Backend sheets"`
	PostgresURL     string        `yaml:"postgresURL,omitempty" validate:"required_if=Backend postgres"`
	HTTPTimeout     time.Duration `yaml:"httpTimeout,omitempty" validate:"min=0"`

	Timezone         string   `yaml:"timezone"`
	StaffPresets     []string `yaml:"staffPresets,omitempty" validate:"dive,required"`
	DefaultStartTime string   `yaml:"defaultStartTime" validate:"omitempty,datetime=15:04"`
	DefaultEndTime   string   `yaml:"defaultEndTime" validate:"omitempty,datetime=15:04"`

	Gemini GeminiConfig `yaml:"gemini"`
	Server ServerConfig `yaml:"server"`

	location *time.Location
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Location returns the time zone record times are displayed in
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// GeminiAPIKey resolves the Gemini API key from the config or the environment
func (c *Config) GeminiAPIKey() string {
	if c.Gemini.APIKey != "" {
		return c.Gemini.APIKey
	}
	return os.Getenv(c.Gemini.APIKeyEnv)
}

// applyDefaults fills optional settings that were left out of the file
func applyDefaults(cfg *Config) {
	if cfg.Timezone == "" {
		cfg.Timezone = DefaultTimezone
	}
	if len(cfg.StaffPresets) == 0 {
		cfg.StaffPresets = append([]string(nil), DefaultStaffPresets...)
	}
	if cfg.DefaultStartTime == "" {
		cfg.DefaultStartTime = DefaultStartTime
	}
	if cfg.DefaultEndTime == "" {
		cfg.DefaultEndTime = DefaultEndTime
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}
	if cfg.Gemini.Model == "" {
		cfg.Gemini.Model = DefaultGeminiModel
	}
	if cfg.Gemini.APIKeyEnv == "" {
		cfg.Gemini.APIKeyEnv = DefaultAPIKeyEnv
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
}

// LoadWithEnv loads onsite_config.<env>.yaml (or onsite_config.yaml when env is empty)
// from the current directory or the user's home directory
func LoadWithEnv(env string) (*Config, error) {
	name := configFileBaseName + configFileExtension
	if env != "" {
		name = configFileBaseName + "." + env + configFileExtension
	}

	configPath, err := findFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes, defaults and validates a YAML configuration
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and resolves the time zone
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	cfg.location = loc

	return nil
}

// findFile looks for name in the current directory, then the home directory
func findFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", name)
}
