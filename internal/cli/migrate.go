package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukaforge/gravel/internal/sqlite"
)

func newMigrateCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate an existing store to the current generation",
		Long: "Run every pending schema migration against an existing store.\n" +
			"Refuses to create a store; use \"gravel init\" for that.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := storeConfig()
			if err != nil {
				return err
			}

			current, err := sqlite.ReadGeneration(cfg)
			if err != nil {
				return err
			}
			target := sqlite.CurrentGeneration()
			fmt.Printf("Current generation: %d\n", current)
			fmt.Printf("Target generation:  %d\n", target)

			if check {
				return nil
			}
			if current == target {
				fmt.Println("Already migrated")
				return nil
			}

			before, after, err := sqlite.Migrate(cfg, newLogger())
			if err != nil {
				return err
			}
			fmt.Printf("Migrated from generation %d to %d\n", before, after)

			if after != target {
				return fmt.Errorf("generation mismatch after migration: current=%d, target=%d", after, target)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "report generations without migrating")
	return cmd
}
