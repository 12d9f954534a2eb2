// Package main provides the CLI entrypoint for typetrainer.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typetrainer/internal/config"
	"github.com/verte-zerg/typetrainer/internal/history"
	"github.com/verte-zerg/typetrainer/internal/model"
	"github.com/verte-zerg/typetrainer/internal/session"
	"github.com/verte-zerg/typetrainer/internal/store"
	"github.com/verte-zerg/typetrainer/internal/texts"
	"github.com/verte-zerg/typetrainer/internal/tui"
)

var (
	configPath string
	verbose    bool

	practiceLevel      string
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceWeakWindow int
	practiceLayout     string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typetrainer",
		Short:         "Touch typing trainer with levels, ratings and history",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "config file path")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	rootCmd.Flags().StringVar(&practiceLevel, "level", "", "difficulty level id (see: typetrainer levels)")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "prefer texts with weak characters")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", config.DefaultWeakTop, "number of weak characters to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", config.DefaultWeakFactor, "weight factor for weak characters")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", config.DefaultWeakWindow, "number of recent sessions to compute weak chars")
	rootCmd.Flags().StringVar(&practiceLayout, "layout", config.DefaultLayout, "keyboard layout: auto, ru or en")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLevelsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newBestCmd())
	rootCmd.AddCommand(newResetBestCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newStorageCmd())

	return rootCmd
}

// app bundles the resolved settings with opened storage.
type app struct {
	settings config.Settings
	store    *store.SQLite
	history  *history.Store
	logger   *slog.Logger
	closeLog func()
}

func loadSettings() (config.Settings, error) {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return config.Settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	settings, err := config.Resolve(fileCfg)
	if err != nil {
		return config.Settings{}, fmt.Errorf("invalid config: %w", err)
	}
	return settings, nil
}

func openApp(settings config.Settings, interactive bool) (*app, error) {
	logger, closeLog, err := newLogger(interactive, verbose)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(settings.DBPath)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	hist := history.New(st,
		history.WithMaxItems(settings.MaxHistoryItems),
		history.WithKeys(history.DefaultKeys(settings.KeyPrefix)),
		history.WithLogger(logger),
	)
	hist.Load(context.Background())
	return &app{settings: settings, store: st, history: hist, logger: logger, closeLog: closeLog}, nil
}

func (a *app) Close() {
	if cerr := a.store.Close(); cerr != nil {
		a.logger.Warn("failed to close db", "err", cerr)
	}
	a.closeLog()
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	applyPracticeFlags(cmd, &settings)

	a, err := openApp(settings, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if !cmd.Flags().Changed("level") {
		if saved, ok := a.history.LoadLevel(context.Background()); ok {
			if _, known := settings.LevelByID(saved); known {
				settings.Level = saved
			}
		}
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	picker := texts.New(settings.LevelTexts())
	opts := tui.Options{
		Levels:        settings.Levels,
		Level:         settings.Level,
		Stars:         settings.Stars,
		StatsInterval: settings.StatsInterval,
		FocusWeak:     settings.FocusWeak,
		WeakTop:       settings.WeakTop,
		WeakFactor:    settings.WeakFactor,
		WeakWindow:    settings.WeakWindow,
		Layout:        settings.Layout,
		ShowKeyboard:  settings.ShowKeyboard,
		Logger:        a.logger,
	}
	m := tui.NewModel(opts, a.history, picker,
		session.WithMaxTextLength(settings.MaxTextLength),
		session.WithCompletionHandler(func(r model.SessionResult) {
			a.logger.Info("session completed",
				"id", r.ID, "level", r.Level, "speed", r.WPM, "accuracy", r.Accuracy, "errors", r.Errors, "duration_ms", r.DurationMs)
		}),
	)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func applyPracticeFlags(cmd *cobra.Command, s *config.Settings) {
	flags := cmd.Flags()
	if flags.Changed("level") {
		s.Level = practiceLevel
	}
	if flags.Changed("focus-weak") {
		s.FocusWeak = practiceFocusWeak
	}
	if flags.Changed("weak-top") {
		s.WeakTop = practiceWeakTop
	}
	if flags.Changed("weak-factor") {
		s.WeakFactor = practiceWeakFactor
	}
	if flags.Changed("weak-window") {
		s.WeakWindow = practiceWeakWindow
	}
	if flags.Changed("layout") {
		s.Layout = practiceLayout
	}
}
