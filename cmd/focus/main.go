package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"focus-starter/internal/client"
	"focus-starter/internal/storage"
	"focus-starter/internal/tui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	settingsPath string
	apiURL       string
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "focus",
		Short:         "Pomodoro focus timer backed by the Focus Starter API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTimer(&flags)
		},
	}
	root.PersistentFlags().StringVar(&flags.settingsPath, "config", "", "settings file (default: user config dir)")
	root.PersistentFlags().StringVar(&flags.apiURL, "api", "", "API base URL (overrides api_url in settings)")

	root.AddCommand(newTimerCmd(&flags))
	root.AddCommand(newStatsCmd(&flags))
	root.AddCommand(newQuoteCmd(&flags))
	root.AddCommand(newWhoAmICmd(&flags))
	return root
}

func newTimerCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "timer",
		Short: "Run the interactive focus timer",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runTimer(flags)
		},
	}
}

func newStatsCmd(flags *globalFlags) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show daily focus totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings(flags)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			totals, err := client.New(settings.APIURL).Stats(ctx, settings.UserID, days)
			if err != nil {
				return fmt.Errorf("fetch stats: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tui.RenderStats(totals))
			return err
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "trailing window in days (1-90)")
	return cmd
}

func newQuoteCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "quote",
		Short: "Print the quote of the day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings(flags)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			quote, err := client.New(settings.APIURL).Quote(ctx)
			if err != nil {
				return fmt.Errorf("fetch quote: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "“%s”\n  – %s\n", quote.Text, quote.Author)
			return err
		},
	}
}

func newWhoAmICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the user id this client records sessions under",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := loadSettings(flags)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), settings.UserID)
			return err
		},
	}
}

func runTimer(flags *globalFlags) error {
	settings, err := loadSettings(flags)
	if err != nil {
		return err
	}

	path, err := settingsPath(flags)
	if err != nil {
		return err
	}
	logFile, err := openLogFile(filepath.Dir(path))
	if err != nil {
		return err
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.Printf("focus: starting timer for %s against %s", settings.UserID, settings.APIURL)

	model := tui.New(client.New(settings.APIURL), tui.Options{
		UserID:        settings.UserID,
		FocusDuration: settings.FocusDuration,
		BreakDuration: settings.BreakDuration,
		SoundType:     settings.MusicType,
		AutoContinue:  settings.AutoContinue,
	})

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

// loadSettings reads the settings file, assigning and persisting a user id
// on first run.
func loadSettings(flags *globalFlags) (storage.Settings, error) {
	path, err := settingsPath(flags)
	if err != nil {
		return storage.Settings{}, err
	}

	settings, err := storage.LoadSettings(path)
	if err != nil {
		return settings, err
	}

	if storage.EnsureUserID(&settings, time.Now()) {
		if err := storage.SaveSettings(path, settings); err != nil {
			return settings, err
		}
	}

	if flags.apiURL != "" {
		settings.APIURL = flags.apiURL
	}
	return settings, nil
}

// settingsPath is --config when given, else the default under the user
// config dir.
func settingsPath(flags *globalFlags) (string, error) {
	if flags.settingsPath != "" {
		return flags.settingsPath, nil
	}
	return storage.SettingsPath()
}

// openLogFile opens focus.log in dir, next to the settings file, so log
// output does not draw over the TUI.
func openLogFile(dir string) (io.WriteCloser, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "focus.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
