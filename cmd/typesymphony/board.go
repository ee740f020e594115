package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typesymphony/internal/account"
	"github.com/verte-zerg/typesymphony/internal/boardui"
	"github.com/verte-zerg/typesymphony/internal/session"
	"github.com/verte-zerg/typesymphony/internal/stats"
	"github.com/verte-zerg/typesymphony/internal/story"
)

var (
	leaderboardPlain bool
	storyPath        string
	storyPlainPunct  bool
)

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the leaderboard and your profile",
		Args:  cobra.NoArgs,
		RunE:  runLeaderboardCmd,
	}
	cmd.Flags().BoolVar(&leaderboardPlain, "plain", false, "print a plain-text table instead of the interactive viewer")
	return cmd
}

func runLeaderboardCmd(cmd *cobra.Command, _ []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()
	accounts := account.New(st)

	if leaderboardPlain || !term.IsTerminal(int(os.Stdout.Fd())) {
		report, err := stats.BuildReport(context.Background(), accounts)
		if err != nil {
			return err
		}
		return stats.RenderLeaderboard(cmd.OutOrStdout(), report.Leaderboard)
	}

	program := tea.NewProgram(boardui.NewModel(accounts), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run leaderboard TUI: %w", err)
	}
	return nil
}

func newStoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "story",
		Short: "List the scenes of a story",
		Args:  cobra.NoArgs,
		RunE:  runStoryCmd,
	}
	cmd.Flags().StringVar(&storyPath, "story", "", "TOML story file (default: built-in story)")
	cmd.Flags().BoolVar(&storyPlainPunct, "plain-punct", false, "replace curly quotes and dashes with plain keyboard characters")
	return cmd
}

func runStoryCmd(cmd *cobra.Command, _ []string) error {
	applyStringConfig(cmd, "story", &storyPath, fileCfg.Game.Story)
	applyBoolConfig(cmd, "plain-punct", &storyPlainPunct, fileCfg.Game.PlainPunct)
	scenes, err := story.Load(storyPath, storyPlainPunct)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, sc := range scenes {
		if _, err := fmt.Fprintf(out, "%d. %s (%d words, %d chars)\n", sc.Index+1, sc.Title, session.WordCount(sc.Text), len([]rune(sc.Text))); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
