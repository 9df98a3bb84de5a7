// Value record commands: get, set, delete, find.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukaforge/gravel/pkg/types"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print the value stored under an identifier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := types.ParseIDString(args[0])
			if err != nil {
				return err
			}

			backend, err := openStore()
			if err != nil {
				return err
			}
			defer backend.Detach()

			v, err := backend.Values().Get(id)
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		},
	}
}

func newSetCmd() *cobra.Command {
	var kind, literal string

	cmd := &cobra.Command{
		Use:   "set [id]",
		Short: "Write a value record",
		Long: "Write a value record under the given identifier, or under a fresh\n" +
			"random identifier when none is given. Overwrites an existing record.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id types.ID
			if len(args) == 1 {
				var err error
				if id, err = types.ParseIDString(args[0]); err != nil {
					return err
				}
			} else {
				id = types.NewID()
			}

			v, err := types.ParseValue(kind, literal)
			if err != nil {
				return err
			}

			backend, err := openStore()
			if err != nil {
				return err
			}
			defer backend.Detach()

			if err := backend.Values().Put(id, v); err != nil {
				return err
			}
			fmt.Println(id)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "str", "value kind (bool, u8..u64, i8..i64, f32, f64, str)")
	cmd.Flags().StringVar(&literal, "value", "", "value literal")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a value record",
		Long: "Delete the value record under the given identifier. Links referencing\n" +
			"it are left in place.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := types.ParseIDString(args[0])
			if err != nil {
				return err
			}

			backend, err := openStore()
			if err != nil {
				return err
			}
			defer backend.Detach()

			return backend.Values().Delete(id)
		},
	}
}

func newFindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <text>",
		Short: "Find identifiers by string payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := openStore()
			if err != nil {
				return err
			}
			defer backend.Detach()

			ids, err := backend.Values().FindByString(args[0])
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Println(id)
			}
			return nil
		},
	}
}
