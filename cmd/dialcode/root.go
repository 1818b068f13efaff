package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/dialcode/internal/cli"
	"github.com/aretw0/dialcode/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dialcode",
	Short: "dialcode is a USSD session dialog engine",
	Long: `dialcode answers USSD gateway requests one keypress at a time, walking each
session through a fixed menu tree. Dial-string shortcuts jump straight to a later
screen or to the final summary.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// loadConfig reads configuration and builds the logger for a command.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := cli.CreateLogger(cfg.Log, debug)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

// mustLoadConfig is loadConfig for Run functions: it exits on failure.
func mustLoadConfig(cmd *cobra.Command) (config.Config, *slog.Logger) {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg, logger
}
