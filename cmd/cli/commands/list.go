package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coe-onsite/onsite-manager/pkg/core/model"
	"github.com/coe-onsite/onsite-manager/pkg/core/services"
)

// ListCmd creates the list command
func ListCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List applications sorted by confirmed date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			if status != model.StatusFilterAll && !model.Status(status).IsValid() {
				return fmt.Errorf("status must be one of all, processing, completed, got: %s", status)
			}

			app.Logger.Debug("list command", zap.String("status", status))

			records, err := app.loadRecords()
			if err != nil {
				return err
			}
			filtered := services.FilterByStatus(records, status)

			fmt.Printf("\n%s: %d / %d\n\n", model.FilterLabel(status), len(filtered), len(records))
			if len(filtered) == 0 {
				fmt.Println("暫無紀錄")
				return nil
			}

			for _, r := range filtered {
				printRecordLine(os.Stdout, r, app.Cfg.Location())
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("status", model.StatusFilterAll, "Filter by status (all, processing, completed)")

	return cmd
}

// ShowCmd creates the show command
func ShowCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show every field of an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := app.loadRecord(args[0])
			if err != nil {
				return err
			}

			printRecordDetails(os.Stdout, *record, app.Cfg.Location())
			return nil
		},
	}
}
