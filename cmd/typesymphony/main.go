// Package main provides the CLI entrypoint for typesymphony.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typesymphony/internal/account"
	"github.com/verte-zerg/typesymphony/internal/config"
	"github.com/verte-zerg/typesymphony/internal/logging"
	"github.com/verte-zerg/typesymphony/internal/model"
	"github.com/verte-zerg/typesymphony/internal/prefs"
	"github.com/verte-zerg/typesymphony/internal/session"
	"github.com/verte-zerg/typesymphony/internal/store"
	"github.com/verte-zerg/typesymphony/internal/story"
	"github.com/verte-zerg/typesymphony/internal/tui"
)

var (
	fileCfg config.FileConfig

	playGuest        bool
	playStory        string
	playAdvanceDelay time.Duration
	playPlainPunct   bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "typesymphony",
		Short:             "Story-driven typing game",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: setup,
		RunE:              runPlayCmd,
	}

	rootCmd.Flags().BoolVar(&playGuest, "guest", false, "play without signing in; scores are not saved")
	rootCmd.Flags().StringVar(&playStory, "story", "", "TOML story file (default: built-in story)")
	rootCmd.Flags().DurationVar(&playAdvanceDelay, "advance-delay", session.DefaultAdvanceDelay, "pause before the next scene")
	rootCmd.Flags().BoolVar(&playPlainPunct, "plain-punct", false, "replace curly quotes and dashes with plain keyboard characters")

	rootCmd.AddCommand(newSignupCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newStoryCmd())
	rootCmd.AddCommand(newSoundCmd())
	rootCmd.AddCommand(newStoreCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// setup loads .env and the config file, then routes logs to stderr.
func setup(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	cfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	fileCfg = cfg
	logging.Console(os.Stderr, fileCfg.ResolveLogLevel())
	return nil
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	applyStringConfig(cmd, "story", &playStory, fileCfg.Game.Story)
	if err := applyDurationConfig(cmd, "advance-delay", &playAdvanceDelay, fileCfg.Game.AdvanceDelay); err != nil {
		return err
	}
	applyBoolConfig(cmd, "plain-punct", &playPlainPunct, fileCfg.Game.PlainPunct)

	cfg := model.Config{
		StoryPath:    playStory,
		AdvanceDelay: playAdvanceDelay,
		PlainPunct:   playPlainPunct,
		Guest:        playGuest,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	scenes, err := story.Load(cfg.StoryPath, cfg.PlainPunct)
	if err != nil {
		return err
	}

	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := context.Background()
	accounts := account.New(st)
	var player model.User
	if !cfg.Guest {
		user, ok, err := accounts.CurrentUser(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: run `typesymphony login` or `typesymphony signup`, or play with --guest", account.ErrNotSignedIn)
		}
		player = user
	}
	sound, err := prefs.SoundEnabled(ctx, st)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read sound preference")
	}

	logFile, err := logging.File(config.DefaultLogPath(), fileCfg.ResolveLogLevel())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file: %v\n", cerr)
		}
	}()
	log.Info().Str("user", player.ID).Int("scenes", len(scenes)).Msg("starting game")

	game, err := tui.NewModel(scenes, tui.Options{
		Player:       player,
		Recorder:     accounts,
		AdvanceDelay: cfg.AdvanceDelay,
		Sound:        sound,
		Bell:         os.Stderr,
	})
	if err != nil {
		return err
	}
	program := tea.NewProgram(game, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// openStore opens the database. The returned func closes it and logs failures.
func openStore() (*store.Store, func(), error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, func() {
		if cerr := st.Close(); cerr != nil {
			log.Error().Err(cerr).Msg("failed to close db")
		}
	}, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		log.Info().Str("path", path).Msg("wrote default config")
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil || cmd.Flags().Changed(name) {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(*value))
	if err != nil {
		return fmt.Errorf("invalid %s in config: %w", name, err)
	}
	*target = d
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typesymphony configuration
# Uncomment a value to enable it. CLI flags override config values.
# TYPESYMPHONY_LOG_LEVEL and TYPESYMPHONY_DB may also be set in the
# environment or in a .env file in the working directory.

# log-level = "info"        # trace, debug, info, warn, error

[game]
# story = ""                # TOML story file; empty uses the built-in story
# advance-delay = %q      # Pause before the next scene
# plain-punct = false       # Replace curly quotes and dashes
`,
		session.DefaultAdvanceDelay.String(),
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.AdvanceDelay <= 0 {
		return fmt.Errorf("--advance-delay must be > 0")
	}
	if cfg.StoryPath != "" {
		if _, err := os.Stat(cfg.StoryPath); err != nil {
			return fmt.Errorf("story file %s: %w", cfg.StoryPath, err)
		}
	}
	return nil
}
