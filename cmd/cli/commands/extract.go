package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ExtractCmd creates the extract command
func ExtractCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <pdf>",
		Short: "Read the fields of an application PDF without saving anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			extraction, err := extractFile(app, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Extracted fields:\n\n")
			printExtraction(os.Stdout, *extraction)
			fmt.Println()

			return nil
		},
	}
}
