// -- cmd/login.go --
package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sentinelqa/healix/internal/pages"
)

var (
	loginURL      string
	loginUsername string
	loginPassword string
)

// newLoginCmd creates the login demo command: populate credentials and
// click the login button, all through healed locators.
func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Demo flow: fill a login form and submit it via healed locators.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			rt, err := newHealRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.Close()

			if err := rt.session.Navigate(ctx, loginURL); err != nil {
				return err
			}

			if err := pages.PopulateCredentials(ctx, rt.resolver, rt.session, loginUsername, loginPassword); err != nil {
				return err
			}
			rt.log.Info("Credentials populated via healed locators.")

			if err := pages.ClickLogin(ctx, rt.resolver, rt.session); err != nil {
				return err
			}
			rt.log.Info("Login button clicked via healed locator.", zap.String("url", loginURL))
			return nil
		},
	}

	cmd.Flags().StringVar(&loginURL, "url", "", "Login page URL.")
	cmd.Flags().StringVar(&loginUsername, "username", "", "Username to type.")
	cmd.Flags().StringVar(&loginPassword, "password", "", "Password to type.")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func init() {
	rootCmd.AddCommand(newLoginCmd())
}
