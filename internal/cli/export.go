// Export and import of the store as JSONL files.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Dump the store to JSONL files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := openStore()
			if err != nil {
				return err
			}
			defer backend.Detach()

			if err := backend.ExportJSONL(args[0]); err != nil {
				return err
			}
			fmt.Printf("Exported to %s\n", args[0])
			return nil
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Load JSONL files into the store",
		Long: "Load values.jsonl and links.jsonl from the given directory. Values\n" +
			"upsert over existing records; links append.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := openStore()
			if err != nil {
				return err
			}
			defer backend.Detach()

			if err := backend.ImportJSONL(args[0]); err != nil {
				return err
			}
			fmt.Printf("Imported from %s\n", args[0])
			return nil
		},
	}
}
