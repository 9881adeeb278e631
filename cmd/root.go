// -- cmd/root.go --
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sentinelqa/healix/internal/config"
	"github.com/sentinelqa/healix/internal/observability"
)

var (
	cfgFile string
	appCfg  *config.Config
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "healix",
	Short: "Healix resolves logical UI-element references to live page elements, healing broken locators.",
	// Version is dynamically set at build time. See cmd/version.go.
	Version: Version,
}

// rootPersistentPreRunE is assigned in init to avoid an initialization cycle
// between rootCmd and initializeConfig.
func rootPersistentPreRunE(cmd *cobra.Command, args []string) error {
	// Runs before any command: configuration first, then logging.
	if err := initializeConfig(); err != nil {
		return err
	}

	cfg, err := config.NewConfigFromViper(viper.GetViper())
	if err != nil {
		// Fall back to a minimal logger so the failure is visible.
		observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "healix"})
		return err
	}
	appCfg = cfg

	observability.InitializeLogger(cfg.Logger)
	observability.GetLogger().Debug("Starting healix", zap.String("version", Version))
	return nil
}

// Execute adds all child commands to the root command and runs it under a
// signal-aware context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer observability.Sync()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		observability.GetLogger().Error("Command execution failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentPreRunE = rootPersistentPreRunE
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./healix.yaml)")
	rootCmd.PersistentFlags().Bool("headless", true, "run the browser headless")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// initializeConfig reads the config file and environment variables.
func initializeConfig() error {
	v := viper.GetViper()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("healix")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("HEALIX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlag("browser.headless", rootCmd.PersistentFlags().Lookup("headless")); err != nil {
		return fmt.Errorf("error binding headless flag: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; defaults and env vars carry it.
	}
	return nil
}
