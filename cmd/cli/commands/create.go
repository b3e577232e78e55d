package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coe-onsite/onsite-manager/pkg/core/calendar"
	"github.com/coe-onsite/onsite-manager/pkg/core/model"
	"github.com/coe-onsite/onsite-manager/pkg/core/services"
)

// CreateCmd creates the create command
func CreateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an application from flags and/or an application PDF",
		Long: `Create an application. With --pdf the form is first prefilled by the AI extractor;
any field flags given alongside override the extracted values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := app.Cfg.Location()
			form := model.NewForm(app.Cfg.DefaultStartTime, app.Cfg.DefaultEndTime)

			pdfPath, _ := cmd.Flags().GetString("pdf")
			if pdfPath != "" {
				extraction, err := extractFile(app, pdfPath)
				if err != nil {
					return err
				}
				form.ApplyExtraction(*extraction, loc)
			}

			if err := applyRecordFlags(cmd.Flags(), &form); err != nil {
				return err
			}

			record, err := services.SaveRecord(app.Ctx, app.Store, app.Logger, form, "", time.Now(), loc)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Application created successfully!\n")
			printRecordDetails(os.Stdout, *record, loc)
			fmt.Printf("Calendar: %s\n\n", calendar.EventURL(*record, loc))

			return nil
		},
	}

	cmd.Flags().String("pdf", "", "Application PDF to prefill the form from")
	addRecordFlags(cmd.Flags())

	return cmd
}

// EditCmd creates the edit command
func EditCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an application (only the given fields change)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			loc := app.Cfg.Location()

			existing, err := app.loadRecord(id)
			if err != nil {
				return err
			}

			form := model.FormFromRecord(*existing, loc)
			if err := applyRecordFlags(cmd.Flags(), &form); err != nil {
				return err
			}

			app.Logger.Debug("edit command", zap.String("id", id))

			record, err := services.SaveRecord(app.Ctx, app.Store, app.Logger, form, id, time.Now(), loc)
			if err != nil {
				return err
			}
			record.CreatedAt = existing.CreatedAt

			fmt.Printf("\n✓ Application updated successfully!\n")
			printRecordDetails(os.Stdout, *record, loc)

			return nil
		},
	}

	addRecordFlags(cmd.Flags())

	return cmd
}

// extractFile reads a PDF from disk and runs it through the extractor
func extractFile(app *AppContext, path string) (*model.Extraction, error) {
	extractor, err := app.RequireExtractor()
	if err != nil {
		return nil, err
	}

	pdf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}

	fmt.Printf("Analyzing %s...\n", path)
	extraction, err := services.ExtractForm(app.Ctx, extractor, app.Logger, pdf)
	if err != nil {
		return nil, fmt.Errorf("PDF 解析失敗: %w", err)
	}
	return extraction, nil
}
