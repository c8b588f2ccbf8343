package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"refactorengine/internal/config"
	"refactorengine/internal/logging"
)

var (
	configPath string
	sourceDir  string
)

var rootCmd = &cobra.Command{
	Use:   "refactorengine",
	Short: "LLM-driven source refactoring service",
	Long: `refactorengine sends source files and a refactor configuration to a
language model and packages the rewritten files as a zip archive.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringVar(&sourceDir, "src", "", "load input files from this directory")
	rootCmd.AddCommand(serveCmd, runCmd)
}

// setup loads configuration and builds the logger shared by every command.
func setup() (*config.Config, *logrus.Logger, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if sourceDir != "" {
		cfg.Source.Dir = sourceDir
	}
	log, closer := logging.New(cfg.Log)
	return cfg, log, func() { _ = closer.Close() }, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
