// cmd/sshdock/main.go

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/moby/term"
	"github.com/spf13/cobra"
	xterm "golang.org/x/term"

	"sshdock/internal/app"
	"sshdock/internal/config"
	"sshdock/internal/logging"
	"sshdock/internal/proc"
)

var version = "dev"

var (
	flagSSHConfig string
	flagMetadata  string
	flagLogLevel  string
)

var rootCmd = &cobra.Command{
	Use:     "sshdock",
	Short:   "SSH host dashboard with remote container management",
	Long:    "sshdock is a terminal dashboard over ~/.ssh/config: manage hosts, open sessions,\ndrive docker containers on remote machines and run rsync transfers.",
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagSSHConfig, "ssh-config", "", "path to the SSH config file (default ~/.ssh/config)")
	rootCmd.Flags().StringVar(&flagMetadata, "metadata", "", "path to the metadata file (default ~/.ssh/sshdock.json)")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn, error")
}

func run() error {
	if !xterm.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("sshdock needs an interactive terminal")
	}

	if logPath, err := logging.DefaultLogPath(); err == nil {
		if closer, err := logging.Init(logPath, parseLevel(flagLogLevel)); err == nil {
			defer closer.Close()
		}
	}

	settingsPath, err := config.DefaultSettingsPath()
	if err != nil {
		return err
	}
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		// Defaults still apply; the broken file is only worth a log line.
		logging.Error("config", err, "settings file ignored")
	}

	configPath := flagSSHConfig
	if configPath == "" {
		if configPath, err = config.DefaultSSHConfigPath(); err != nil {
			return err
		}
	}
	metadataPath := flagMetadata
	if metadataPath == "" {
		if metadataPath, err = config.DefaultMetadataPath(); err != nil {
			return err
		}
	}

	store := config.NewStore(configPath, metadataPath)
	reg, err := store.Load()
	if err != nil {
		return err
	}

	// Interactive sessions hand the terminal to ssh; restore its state on
	// the way out even if a handoff left it dirty.
	if state, err := term.SaveState(os.Stdin.Fd()); err == nil {
		defer term.RestoreTerminal(os.Stdin.Fd(), state)
	}

	model := app.New(store, proc.NewRunner(), settings, reg)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("dashboard terminated: %w", err)
	}
	return nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
