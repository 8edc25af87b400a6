package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgy583/account-book/internal/api"
	"github.com/mgy583/account-book/internal/cli"
	"github.com/mgy583/account-book/internal/store"
	"github.com/mgy583/account-book/internal/tui"
)

var (
	flagUsername string
	flagPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and remember the token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runAuth(cmd.Context(), "Log in", (*api.Client).Login)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a user and log in as it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runAuth(cmd.Context(), "Register", (*api.Client).Register)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	RunE:  runLogout,
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVarP(&flagUsername, "username", "u", "", "Username (prompted when empty)")
		c.Flags().StringVar(&flagPassword, "password", "", "Password (prompted when empty)")
		rootCmd.AddCommand(c)
	}
	rootCmd.AddCommand(logoutCmd)
}

type authFunc func(c *api.Client, ctx context.Context, username, password string) (api.Credential, error)

func runAuth(ctx context.Context, title string, auth authFunc) error {
	username, password := flagUsername, flagPassword
	if username == "" || password == "" {
		if err := tui.CredentialsForm(title, &username, &password).Run(); err != nil {
			return err
		}
	}

	url := baseURL()
	cred, err := auth(newClient(url, api.Credential{}), ctx, username, password)
	if err != nil {
		if msg := api.ServerMessage(err); msg != "" {
			return fmt.Errorf("%s failed: %s", title, msg)
		}
		return fmt.Errorf("%s failed: %w", title, err)
	}

	if err := rememberLogin(url, cred); err != nil {
		return err
	}

	fmt.Printf("  %s\n", cli.RenderNotice(fmt.Sprintf("Logged in as %s at %s", cred.Username, url), false))
	return nil
}

// rememberLogin stores cred as the login for url. A different identity
// starts without the previous order snapshot.
func rememberLogin(url string, cred api.Credential) error {
	st, err := store.Open(flagStatePath)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()
	return st.SaveCredential(url, cred)
}

func runLogout(_ *cobra.Command, _ []string) error {
	st, err := store.Open(flagStatePath)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.ClearCredential(); err != nil {
		return err
	}
	fmt.Printf("  %s\n", cli.RenderNotice("Logged out", false))
	return nil
}
