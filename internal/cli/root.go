// Package cli provides the command-line interface for mappedtypes.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-mappedtypes/internal/cli/commands"
	"github.com/goliatone/go-mappedtypes/internal/cli/config"
	"github.com/goliatone/go-mappedtypes/pkg/prompt"
)

// Version information (set at build time).
var Version = "0.1.0"

// Option customises the root command.
type Option func(*rootOptions)

type rootOptions struct {
	driver prompt.PromptDriver
}

// WithPromptDriver replaces the terminal driver used by fill.
func WithPromptDriver(driver prompt.PromptDriver) Option {
	return func(o *rootOptions) {
		o.driver = driver
	}
}

// NewRootCmd creates and returns the root command.
func NewRootCmd(options ...Option) *cobra.Command {
	var (
		opts    rootOptions
		cfgFile string
	)
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "mappedtypes",
		Short: "Derive mapped DTO types from declarative definitions",
		Long: `mappedtypes loads type definitions with validation and transform rules,
derives required, partial, pick and omit variants of them, and validates,
fills or exports instances of the resulting types.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			logger := config.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
			if cfg.ConfigFile != "" {
				logger.Debug("using config file", slog.String("path", cfg.ConfigFile))
			}

			ctx := config.WithConfig(cmd.Context(), cfg)
			cmd.SetContext(config.WithLogger(ctx, logger))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./"+config.DefaultConfigFile+")")
	rootCmd.PersistentFlags().StringP("definitions", "d", "", "Definition file or directory")
	rootCmd.PersistentFlags().Bool("filter-optional", true, "Strip optional markers when deriving required types")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (json|yaml)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.OutputJSON, config.OutputYAML}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewDeriveCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewFillCommand(opts.driver))
	rootCmd.AddCommand(commands.NewTypesCommand())
	rootCmd.AddCommand(commands.NewExportCommand(Version))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
