// -- cmd/resolve.go --
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	resolveURL      string
	resolveRef      string
	resolveLocators []string
)

// newResolveCmd creates the resolve command: one full pipeline run from
// the command line, printing the locator that won.
func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a reference name to a live element on a page.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rt, err := newHealRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.session.Navigate(ctx, resolveURL); err != nil {
				return err
			}

			el, err := rt.resolver.Resolve(ctx, resolveRef, resolveLocators)
			if err != nil {
				return err
			}

			rt.log.Info("Reference resolved.",
				zap.String("reference", resolveRef),
				zap.String("locator", el.Locator),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "reference: %s\nlocator:   %s\ntag:       %s\n", resolveRef, el.Locator, el.Tag)
			if el.ID != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "id:        %s\n", el.ID)
			}
			if el.Text != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "text:      %s\n", el.Text)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&resolveURL, "url", "", "Page URL to load before resolving.")
	cmd.Flags().StringVar(&resolveRef, "ref", "", "Reference name to resolve.")
	cmd.Flags().StringSliceVar(&resolveLocators, "locator", nil, "Candidate XPath locator (repeatable, tried in order).")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("ref")

	return cmd
}

func init() {
	rootCmd.AddCommand(newResolveCmd())
}
