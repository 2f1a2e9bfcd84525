package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prajeetp/blackhole-cli/internal/domain"
)

func newLoginCmd(app *app) *cobra.Command {
	var portalURL string
	var username string
	var verifyTLS bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Verify portal credentials and save the session",
		Long:  "login probes the portal with HTTP basic auth and, on success, persists the session (endpoint, user, cookies) for later commands. The password is read from " + envPass + " and is never written to disk.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password := os.Getenv(envPass)
			if password == "" {
				return errors.New(envPass + " is not set")
			}

			creds, err := app.prober.Login(cmd.Context(), domain.Credentials{
				BaseURL:   envOrDefault("BH_PORTAL_URL", portalURL),
				Username:  username,
				Password:  password,
				VerifyTLS: verifyTLS,
			})
			if err != nil {
				return err
			}

			if err := app.store.Save(cmd.Context(), creds); err != nil {
				return fmt.Errorf("save session: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s at %s\n", creds.Username, creds.BaseURL)
			return err
		},
	}

	cmd.Flags().StringVar(&portalURL, "url", app.baseURL, "Portal base URL")
	cmd.Flags().StringVar(&username, "user", os.Getenv(envUser), "Portal username")
	cmd.Flags().BoolVar(&verifyTLS, "verify-tls", app.verify, "Verify the portal TLS certificate")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the saved portal session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.store.Clear(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "session cleared")
			return err
		},
	}
}
