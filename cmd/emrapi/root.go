package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jdegraft/openmrs-module-emrapi/internal/config"
)

var (
	cfg        config.Config
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "emrapi",
	Short: "Coded-or-free-text diagnosis answers over an OpenMRS concept dictionary",
	Long: "Loads OpenMRS concept dictionaries from Parquet into Postgres and parses " +
		"and formats coded, specific and free-text diagnosis answers against them.",
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", "", "Postgres connection string (or set DATABASE_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&configPath, "config", "", "Optional YAML config file (locale, log_level, code_sources)")
}

// loadConfig fills in DATABASE_URL from the environment or a .env file and
// merges the YAML config file. Flags given on the command line win.
func loadConfig(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()
	if cfg.DSN == "" {
		cfg.DSN = os.Getenv("DATABASE_URL")
	}
	if configPath == "" {
		return nil
	}

	flagged := cfg
	if err := cfg.LoadFromFile(configPath); err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("locale") {
		cfg.Locale = flagged.Locale
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagged.LogLevel
	}
	if flags.Changed("source") {
		cfg.CodeSources = flagged.CodeSources
	}
	return nil
}
