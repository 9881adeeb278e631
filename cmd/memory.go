// -- cmd/memory.go --
package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sentinelqa/healix/internal/memory"
	"github.com/sentinelqa/healix/internal/observability"
)

// openStore opens the configured locator memory without a browser.
func openStore() (*memory.Store, error) {
	store, err := memory.Open(appCfg.Memory.Path, observability.GetLogger())
	if err != nil {
		return nil, fmt.Errorf("failed to open locator memory: %w", err)
	}
	return store, nil
}

// newMemoryCmd groups the locator-memory maintenance subcommands.
func newMemoryCmd() *cobra.Command {
	memoryCmd := &cobra.Command{
		Use:   "memory",
		Short: "Inspect and prune the learned locator memory.",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all learned reference → locator pairs.",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}

			refs := store.All()
			names := make([]string, 0, len(refs))
			for name := range refs {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", name, refs[name])
			}
			return nil
		},
	}

	forgetCmd := &cobra.Command{
		Use:   "forget <reference>",
		Short: "Remove the learned locator for one reference.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			return store.Forget(args[0])
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every learned locator.",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			return store.Clear()
		},
	}

	memoryCmd.AddCommand(listCmd, forgetCmd, clearCmd)
	return memoryCmd
}

func init() {
	rootCmd.AddCommand(newMemoryCmd())
}
