package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typesymphony/internal/account"
	"github.com/verte-zerg/typesymphony/internal/stats"
)

const profileTrendWindow = 3

var (
	signupName    string
	signupEmail   string
	loginEmail    string
	passwordStdin bool
)

func newSignupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE:  runSignupCmd,
	}
	cmd.Flags().StringVar(&signupName, "name", "", "display name")
	cmd.Flags().StringVar(&signupEmail, "email", "", "email address")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func runSignupCmd(cmd *cobra.Command, _ []string) error {
	password, err := readPassword(cmd, "Password: ", true)
	if err != nil {
		return err
	}
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	user, err := account.New(st).Register(context.Background(), signupName, signupEmail, password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s! You are signed in.\n", user.Name)
	return err
}

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Args:  cobra.NoArgs,
		RunE:  runLoginCmd,
	}
	cmd.Flags().StringVar(&loginEmail, "email", "", "email address")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func runLoginCmd(cmd *cobra.Command, _ []string) error {
	password, err := readPassword(cmd, "Password: ", false)
	if err != nil {
		return err
	}
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	user, err := account.New(st).Login(context.Background(), loginEmail, password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", user.Name)
	return err
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			if err := account.New(st).Logout(context.Background()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return err
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user's profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, closeStore, err := openStore()
			if err != nil {
				return err
			}
			defer closeStore()
			user, ok, err := account.New(st).CurrentUser(context.Background())
			if err != nil {
				return err
			}
			if !ok {
				return account.ErrNotSignedIn
			}
			return stats.RenderProfile(cmd.OutOrStdout(), stats.BuildProfile(user), profileTrendWindow)
		},
	}
}

// readPassword reads a password from stdin. With --password-stdin the first
// line is used; otherwise stdin must be a terminal and input is hidden.
func readPassword(cmd *cobra.Command, prompt string, confirm bool) (string, error) {
	if passwordStdin {
		return readPasswordLine(cmd.InOrStdin())
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal; use --password-stdin")
	}
	password, err := promptHidden(fd, cmd.ErrOrStderr(), prompt)
	if err != nil {
		return "", err
	}
	if !confirm {
		return password, nil
	}
	again, err := promptHidden(fd, cmd.ErrOrStderr(), "Confirm password: ")
	if err != nil {
		return "", err
	}
	if again != password {
		return "", fmt.Errorf("%w: passwords do not match", account.ErrInvalidInput)
	}
	return password, nil
}

func promptHidden(fd int, w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return "", err
	}
	b, err := term.ReadPassword(fd)
	if _, werr := fmt.Fprintln(w); werr != nil && err == nil {
		err = werr
	}
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

func readPasswordLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
