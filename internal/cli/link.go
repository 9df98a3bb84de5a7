// Link commands: add, remove, and the four traversal listings.
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dukaforge/gravel/pkg/types"
)

func newLinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Manage links between identifiers",
	}
	cmd.AddCommand(newLinkAddCmd())
	cmd.AddCommand(newLinkRemoveCmd())
	cmd.AddCommand(newLinkListCmd())
	return cmd
}

func newLinkAddCmd() *cobra.Command {
	var keyArg string

	cmd := &cobra.Command{
		Use:   "add <source> <target>",
		Short: "Add a directed link",
		Long: "Add a directed link from source to target, optionally labeled with a\n" +
			"key identifier. Endpoints are not checked against the value store.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := types.ParseIDString(args[0])
			if err != nil {
				return fmt.Errorf("source: %w", err)
			}
			target, err := types.ParseIDString(args[1])
			if err != nil {
				return fmt.Errorf("target: %w", err)
			}
			var key *types.ID
			if keyArg != "" {
				k, err := types.ParseIDString(keyArg)
				if err != nil {
					return fmt.Errorf("key: %w", err)
				}
				key = &k
			}

			backend, err := openStore()
			if err != nil {
				return err
			}
			defer backend.Detach()

			edge, err := backend.Links().Add(source, key, target)
			if err != nil {
				return err
			}
			fmt.Println(edge.Handle)
			return nil
		},
	}

	cmd.Flags().StringVar(&keyArg, "key", "", "label identifier")
	return cmd
}

func newLinkRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <handle>",
		Short: "Remove one link by handle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handle, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parsing handle: %w", err)
			}

			backend, err := openStore()
			if err != nil {
				return err
			}
			defer backend.Detach()

			return backend.Links().Remove(handle)
		},
	}
}

func newLinkListCmd() *cobra.Command {
	var fromArg, keyArg, toArg string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List links by traversal pattern",
		Long: "List links matching exactly one traversal pattern: --from, --from with\n" +
			"--key, --key alone, or --to.",
		RunE: func(cmd *cobra.Command, args []string) error {
			// --to does not combine with the other flags: the four
			// patterns are from, from+key, key, to.
			if toArg != "" && (fromArg != "" || keyArg != "") {
				return fmt.Errorf("--to cannot be combined with --from or --key")
			}

			backend, err := openStore()
			if err != nil {
				return err
			}
			defer backend.Detach()

			links := backend.Links()
			var edges []types.Edge

			switch {
			case fromArg != "" && keyArg != "":
				source, err := types.ParseIDString(fromArg)
				if err != nil {
					return fmt.Errorf("from: %w", err)
				}
				key, err := types.ParseIDString(keyArg)
				if err != nil {
					return fmt.Errorf("key: %w", err)
				}
				edges, err = links.FromWithKey(source, key)
				if err != nil {
					return err
				}
			case fromArg != "":
				source, err := types.ParseIDString(fromArg)
				if err != nil {
					return fmt.Errorf("from: %w", err)
				}
				edges, err = links.From(source)
				if err != nil {
					return err
				}
			case keyArg != "":
				key, err := types.ParseIDString(keyArg)
				if err != nil {
					return fmt.Errorf("key: %w", err)
				}
				edges, err = links.ByKey(key)
				if err != nil {
					return err
				}
			case toArg != "":
				target, err := types.ParseIDString(toArg)
				if err != nil {
					return fmt.Errorf("to: %w", err)
				}
				edges, err = links.To(target)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("one of --from, --key, --to is required")
			}

			for _, e := range edges {
				label := "-"
				if e.Key != nil {
					label = e.Key.String()
				}
				fmt.Printf("%d\t%s\t%s\t%s\n", e.Handle, e.Source, label, e.Target)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromArg, "from", "", "source identifier")
	cmd.Flags().StringVar(&keyArg, "key", "", "label identifier")
	cmd.Flags().StringVar(&toArg, "to", "", "target identifier")
	return cmd
}
