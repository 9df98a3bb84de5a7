package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the store",
		Long:  "Create the store if absent and migrate it to the current generation.",
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := openStore()
			if err != nil {
				return err
			}
			defer backend.Detach()

			gen, err := backend.Generation()
			if err != nil {
				return err
			}
			fmt.Printf("Store initialized at generation %d\n", gen)
			return nil
		},
	}
}
