package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// OAuthClientConfig is the "installed app" client file downloaded from the Google Cloud console
type OAuthClientConfig struct {
	Installed OAuthInstalled `json:"installed" validate:"required"`
}

// OAuthInstalled represents the installed section of OAuth config
type OAuthInstalled struct {
	ClientID                string   `json:"client_id" validate:"required"`
	ProjectID               string   `json:"project_id" validate:"required"`
	AuthURI                 string   `json:"auth_uri" validate:"required,url"`
	TokenURI                string   `json:"token_uri" validate:"required,url"`
	AuthProviderX509CertURL string   `json:"auth_provider_x509_cert_url" validate:"required,url"`
	ClientSecret            string   `json:"client_secret" validate:"required"`
	RedirectURIs            []string `json:"redirect_uris" validate:"required,min=1,dive,uri"`
}

// LoadOAuthClientWithEnv loads oauthClient.<env>.json (oauthClient.json when env is empty)
func LoadOAuthClientWithEnv(env string) (*OAuthClientConfig, error) {
	name := "oauthClient.json"
	if env != "" {
		name = "oauthClient." + env + ".json"
	}

	path, err := findFile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to find oauth client file: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth client file: %w", err)
	}

	return ParseOAuthClient(data)
}

// ParseOAuthClient decodes and validates an OAuth client file
func ParseOAuthClient(data []byte) (*OAuthClientConfig, error) {
	var oauthCfg OAuthClientConfig
	if err := json.Unmarshal(data, &oauthCfg); err != nil {
		return nil, fmt.Errorf("failed to parse oauth client file: %w", err)
	}

	if err := validate.Struct(&oauthCfg); err != nil {
		return nil, fmt.Errorf("oauth client validation failed: %w", err)
	}

	return &oauthCfg, nil
}
