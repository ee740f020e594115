package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typesymphony/internal/account"
	"github.com/verte-zerg/typesymphony/internal/kv"
	"github.com/verte-zerg/typesymphony/internal/prefs"
)

var storeClearForce bool

func newSoundCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "sound on|off|status",
		Short:     "Toggle the completion bell",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off", "status"},
		RunE:      runSoundCmd,
	}
}

func runSoundCmd(cmd *cobra.Command, args []string) error {
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()
	ctx := context.Background()

	switch args[0] {
	case "on", "off":
		if err := prefs.SetSoundEnabled(ctx, st, args[0] == "on"); err != nil {
			return err
		}
	}
	on, err := prefs.SoundEnabled(ctx, st)
	if err != nil {
		return err
	}
	state := "off"
	if on {
		state = "on"
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Sound is %s.\n", state)
	return err
}

func newStoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect or reset stored data",
	}
	dump := &cobra.Command{
		Use:   "dump",
		Short: "Print every stored key and value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			return dumpStore(context.Background(), st, cmd.OutOrStdout())
		},
	}
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !storeClearForce {
				return errors.New("refusing to delete all data without --force")
			}
			st, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			if err := st.Clear(context.Background()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Store cleared.")
			return err
		},
	}
	clearCmd.Flags().BoolVar(&storeClearForce, "force", false, "confirm deletion")
	addTestUser := &cobra.Command{
		Use:   "add-test-user",
		Short: "Create the test account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			user, created, err := account.New(st).AddTestUser(context.Background())
			if err != nil {
				return err
			}
			msg := "Test user already exists"
			if created {
				msg = "Test user created"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s / %s\n", msg, user.Email, account.TestUserPassword)
			return err
		},
	}
	cmd.AddCommand(dump, clearCmd, addTestUser)
	return cmd
}

// dumpStore writes each key followed by its value, indenting JSON values.
func dumpStore(ctx context.Context, st kv.Store, w io.Writer) error {
	keys, err := st.Keys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		_, err := fmt.Fprintln(w, "Store is empty.")
		return err
	}
	for _, key := range keys {
		value, ok, err := st.Get(ctx, key)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		var pretty bytes.Buffer
		if json.Indent(&pretty, []byte(value), "  ", "  ") == nil {
			value = pretty.String()
		}
		if _, err := fmt.Fprintf(w, "%s:\n  %s\n", key, value); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
