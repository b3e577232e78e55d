package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coe-onsite/onsite-manager/pkg/core/calendar"
)

// CalendarLinkCmd creates the calendarLink command
func CalendarLinkCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "calendarLink <id>",
		Short: "Print a Google Calendar link for an application's visit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record, err := app.loadRecord(args[0])
			if err != nil {
				return err
			}

			fmt.Println(calendar.EventURL(*record, app.Cfg.Location()))
			return nil
		},
	}
}
