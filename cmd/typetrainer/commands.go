package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typetrainer/internal/config"
	"github.com/verte-zerg/typetrainer/internal/model"
	"github.com/verte-zerg/typetrainer/internal/stats"
	"github.com/verte-zerg/typetrainer/internal/statsui"
)

const defaultCurveWindow = 20

var (
	historyLevel       string
	historySince       string
	historyLast        int
	historyCurveWindow int
	historyChars       int
	historyPlain       bool

	clearYes bool
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := configPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.DefaultTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLevelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "List difficulty levels",
		Args:  cobra.NoArgs,
		RunE:  runLevelsCmd,
	}
}

func runLevelsCmd(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	a, err := openApp(settings, false)
	if err != nil {
		return err
	}
	defer a.Close()

	current := settings.Level
	if saved, ok := a.history.LoadLevel(context.Background()); ok {
		if _, known := settings.LevelByID(saved); known {
			current = saved
		}
	}
	if err := stats.RenderLevels(cmd.OutOrStdout(), settings.Levels, current); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show session history and stats",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyLevel, "level", "", "level filter")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&historyCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&historyChars, "chars", 0, "limit the character table to the N most typed characters")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print plain text instead of the interactive dashboard")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if historyCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	cfg := model.StatsConfig{
		Level:       historyLevel,
		Since:       sinceTime,
		Last:        historyLast,
		CurveWindow: historyCurveWindow,
		TopChars:    historyChars,
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	interactive := !historyPlain && term.IsTerminal(int(os.Stdout.Fd()))
	a, err := openApp(settings, interactive)
	if err != nil {
		return err
	}
	defer a.Close()

	if interactive {
		program := tea.NewProgram(statsui.NewModel(a.history, cfg, settings.Stars), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	}

	rep := stats.BuildReport(a.history.History(), cfg)
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, rep); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(rep.Results) == 0 {
		return nil
	}
	if err := stats.RenderHistory(out, rep.Results, settings.Stars); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderCharTable(out, rep.CharAggs, cfg.TopChars); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newBestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "best",
		Short: "Show best results",
		Args:  cobra.NoArgs,
		RunE:  runBestCmd,
	}
}

func runBestCmd(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	a, err := openApp(settings, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := stats.RenderBest(cmd.OutOrStdout(), a.history.Best()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newResetBestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-best",
		Short: "Forget best results (history is kept)",
		Args:  cobra.NoArgs,
		RunE:  runResetBestCmd,
	}
}

func runResetBestCmd(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	a, err := openApp(settings, false)
	if err != nil {
		return err
	}
	defer a.Close()

	a.history.ResetBest(context.Background())
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), "Best results reset."); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored history, best results and the remembered level",
		Args:  cobra.NoArgs,
		RunE:  runClearCmd,
	}
	cmd.Flags().BoolVar(&clearYes, "yes", false, "confirm deletion")
	return cmd
}

func runClearCmd(cmd *cobra.Command, _ []string) error {
	if !clearYes {
		return fmt.Errorf("refusing to delete stored data without --yes")
	}
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	a, err := openApp(settings, false)
	if err != nil {
		return err
	}
	defer a.Close()

	removed, err := a.store.Clear(context.Background(), settings.KeyPrefix)
	if err != nil {
		return fmt.Errorf("failed to clear storage: %w", err)
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Removed %d stored keys.\n", removed); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newStorageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "storage",
		Short: "Show storage location and usage",
		Args:  cobra.NoArgs,
		RunE:  runStorageCmd,
	}
}

func runStorageCmd(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	a, err := openApp(settings, false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	keys, err := a.store.Keys(ctx, settings.KeyPrefix)
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}
	usage, err := a.store.Usage(ctx, settings.KeyPrefix)
	if err != nil {
		return fmt.Errorf("failed to compute usage: %w", err)
	}
	lines := []string{
		"Database: " + settings.DBPath,
		fmt.Sprintf("Keys:     %d", len(keys)),
		fmt.Sprintf("Usage:    %s", formatBytes(usage)),
		fmt.Sprintf("Sessions: %d / %d", len(a.history.History()), a.history.MaxItems()),
	}
	for _, k := range keys {
		lines = append(lines, "  "+k)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
