package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/coe-onsite/onsite-manager/pkg/core/model"
	"github.com/coe-onsite/onsite-manager/pkg/core/services"
)

// SetStatusCmd creates the setStatus command
func SetStatusCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setStatus <id> <status>",
		Short: "Mark an application as processing or completed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			status := model.Status(args[1])

			if err := services.UpdateStatus(app.Ctx, app.Store, app.Logger, id, status); err != nil {
				return err
			}

			fmt.Printf("✓ %s → %s\n", id, status.Label())
			return nil
		},
	}
}

// DeleteCmd creates the delete command
func DeleteCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				fmt.Printf("確定要刪除這筆紀錄嗎? %s [y/N] ", id)
				if !confirm(bufio.NewReader(os.Stdin)) {
					fmt.Println("Cancelled")
					return nil
				}
			}

			if err := services.DeleteRecord(app.Ctx, app.Store, app.Logger, id); err != nil {
				return err
			}

			fmt.Printf("✓ Deleted %s\n", id)
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "Delete without asking for confirmation")

	return cmd
}

// confirm reads one line and reports whether it was a yes
func confirm(r *bufio.Reader) bool {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
