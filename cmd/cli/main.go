package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coe-onsite/onsite-manager/cmd/cli/commands"
	"github.com/coe-onsite/onsite-manager/internal/config"
	"github.com/coe-onsite/onsite-manager/pkg/clients/geminiclient"
	"github.com/coe-onsite/onsite-manager/pkg/clients/scriptclient"
	"github.com/coe-onsite/onsite-manager/pkg/clients/sheetsclient"
	"github.com/coe-onsite/onsite-manager/pkg/db"
	"github.com/coe-onsite/onsite-manager/pkg/postgres"
	"github.com/coe-onsite/onsite-manager/pkg/utils/logging"
)

var (
	env string
	app = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "COE Onsite CLI - Manage school on-site visit applications",
		Long:  `A CLI tool and web form for recording, browsing and scheduling school on-site visit applications.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.ListCmd(app))
	rootCmd.AddCommand(commands.ShowCmd(app))
	rootCmd.AddCommand(commands.CreateCmd(app))
	rootCmd.AddCommand(commands.EditCmd(app))
	rootCmd.AddCommand(commands.SetStatusCmd(app))
	rootCmd.AddCommand(commands.DeleteCmd(app))
	rootCmd.AddCommand(commands.ExtractCmd(app))
	rootCmd.AddCommand(commands.CalendarLinkCmd(app))
	rootCmd.AddCommand(commands.ServeCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, the record store and the PDF extractor
func initApp() error {
	var err error
	app.Ctx = context.Background()

	app.Logger, err = logging.InitLogger(env, logging.DefaultDir)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Info("Starting application", zap.String("environment", env))

	app.Logger.Info("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Logger.Debug("Configuration loaded successfully",
		zap.String("backend", string(app.Cfg.Backend)),
		zap.String("timezone", app.Cfg.Timezone))

	if err := initStore(); err != nil {
		return err
	}

	if apiKey := app.Cfg.GeminiAPIKey(); apiKey != "" {
		app.Logger.Info("Initializing gemini client", zap.String("model", app.Cfg.Gemini.Model))
		opts := []geminiclient.Option{
			geminiclient.WithHTTPClient(&http.Client{Timeout: app.Cfg.HTTPTimeout}),
		}
		if app.Cfg.Gemini.Endpoint != "" {
			opts = append(opts, geminiclient.WithEndpoint(app.Cfg.Gemini.Endpoint))
		}
		app.Extractor, err = geminiclient.NewClient(app.Ctx, apiKey, app.Cfg.Gemini.Model, app.Logger, opts...)
		if err != nil {
			return fmt.Errorf("failed to create gemini client: %w", err)
		}
	} else {
		app.Logger.Warn("Gemini API key not set, PDF extraction is disabled",
			zap.String("env_var", app.Cfg.Gemini.APIKeyEnv))
	}

	return nil
}

// initStore connects the record store selected by the config backend
func initStore() error {
	switch app.Cfg.Backend {
	case config.BackendScript:
		app.Logger.Info("Using script endpoint", zap.String("url", app.Cfg.ScriptURL))
		httpClient := &http.Client{Timeout: app.Cfg.HTTPTimeout}
		app.Store = scriptclient.NewClient(app.Cfg.ScriptURL, httpClient, app.Logger)

	case config.BackendSheets:
		app.Logger.Info("Loading OAuth client configuration")
		oauthCfg, err := config.LoadOAuthClientWithEnv(env)
		if err != nil {
			return fmt.Errorf("failed to load OAuth client config: %w", err)
		}

		app.Logger.Info("Initializing sheets client")
		sheetsClient, err := sheetsclient.NewClient(app.Ctx, oauthCfg, env)
		if err != nil {
			return fmt.Errorf("failed to create sheets client: %w", err)
		}

		app.Logger.Info("Connecting to database", zap.String("spreadsheet_id", app.Cfg.DatabaseSheetID))
		database, err := db.Open(sheetsClient, app.Cfg.DatabaseSheetID)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		app.Store = database

	case config.BackendPostgres:
		app.Logger.Info("Connecting to postgres")
		pg, err := postgres.NewDB(app.Ctx, app.Cfg.PostgresURL)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := pg.RunMigrations(app.Ctx); err != nil {
			pg.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		app.Store = pg
		app.OnClose(pg.Close)

	default:
		return fmt.Errorf("unknown backend %q", app.Cfg.Backend)
	}

	app.Logger.Info("Record store initialized", zap.String("backend", string(app.Cfg.Backend)))
	return nil
}
