package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tordrt/nfaudit/internal/config"
	"github.com/tordrt/nfaudit/internal/logging"
	"github.com/tordrt/nfaudit/internal/normal"
)

var (
	// Global state set during PersistentPreRunE
	cfg        *config.Config
	configPath string
	logger     *slog.Logger = logging.Discard()

	// Persistent flags
	cfgFile   string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "nfaudit",
	Short: "Audit a database schema against the normal forms",
	Long: `nfaudit - heuristic normal form auditor

nfaudit captures a snapshot of a PostgreSQL, MySQL, or SQLite database,
table metadata plus rows, and reports likely violations of 1NF, 2NF,
3NF/BCNF, 4NF, 5NF, and 6NF/DKNF. Dependencies are inferred from the data,
so findings are candidates for review rather than proof.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for help/completion/version commands
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, configPath, err = config.LoadConfig(cfgFile)
		if err != nil {
			return config.ConfigError("loading configuration", err)
		}

		level, err := logging.ParseLevel(resolveString(logLevel, cfg.Log.Level))
		if err != nil {
			return config.ConfigError("parsing log level", err)
		}
		format, err := logging.ParseFormat(resolveString(logFormat, cfg.Log.Format))
		if err != nil {
			return config.ConfigError("parsing log format", err)
		}
		logger = logging.New(level, format, os.Stderr)

		if configPath != "" {
			logger.Debug("Loaded configuration", "path", configPath)
		}
		return nil
	},
	SilenceUsage:  true, // Don't show usage on errors
	SilenceErrors: true, // We handle errors ourselves
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: auto-discover nfaudit.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default: info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json (default: text)")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		config.ExitWithError(err)
	}
}

// resolveString returns the first non-empty string from the provided values.
// Used to implement precedence: flag > config > default.
func resolveString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// resolveInt returns the flag value when the flag was set, otherwise the
// configured value.
func resolveInt(cmd *cobra.Command, name string, flagValue, configValue int) int {
	if cmd.Flags().Changed(name) {
		return flagValue
	}
	return configValue
}

// resolveList returns the parsed flag list when non-empty, otherwise the
// configured list.
func resolveList(flagValue string, configValue []string) []string {
	if list := parseTableList(flagValue); len(list) > 0 {
		return list
	}
	return configValue
}

// parseTableList splits a comma-separated list, trimming blanks.
func parseTableList(s string) []string {
	var list []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	return list
}

// parseForms resolves form names. An empty list or "all" selects every
// form; duplicates are dropped keeping first occurrence.
func parseForms(names []string) ([]normal.Form, error) {
	var forms []normal.Form
	seen := make(map[normal.Form]bool)
	for _, name := range names {
		for _, part := range parseTableList(name) {
			if strings.EqualFold(part, "all") {
				return nil, nil
			}
			f, err := normal.ParseForm(part)
			if err != nil {
				return nil, err
			}
			if !seen[f] {
				seen[f] = true
				forms = append(forms, f)
			}
		}
	}
	return forms, nil
}
