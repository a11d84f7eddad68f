package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/jfmyers9/spotlook/internal/config"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in to Spotify",
	Long: `Sign in to Spotify so spotlook can read artist data.

This command will guide you through the Spotify authorization:
1. You'll be prompted for your Spotify app's client id if none is configured
2. Your browser opens the Spotify authorization page
3. After you approve, Spotify redirects to the local callback server and
   the access token is saved to the session store

Create an app at https://developer.spotify.com/dashboard and add
http://127.0.0.1:5173/auth to its redirect URIs.`,
	RunE: runAuth,
}

func init() {
	rootCmd.AddCommand(authCmd)

	authCmd.Flags().Bool("force", false, "Sign out first and authorize again")
}

func runAuth(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Fprintln(out, "Spotify Authentication")
	fmt.Fprintln(out, "======================")
	fmt.Fprintln(out)

	if cfg.Spotify.ClientID == "" {
		fmt.Fprintln(out, "You can create a Spotify app at: https://developer.spotify.com/dashboard")
		fmt.Fprintf(out, "Its redirect URIs must include: %s\n\n", cfg.Spotify.RedirectURI)
		fmt.Fprint(out, "Enter your Spotify Client ID: ")

		clientID, err := reader.ReadString('\n')
		if err != nil && strings.TrimSpace(clientID) == "" {
			return fmt.Errorf("failed to read client id: %w", err)
		}
		cfg.Spotify.ClientID = strings.TrimSpace(clientID)
		if cfg.Spotify.ClientID == "" {
			return fmt.Errorf("client id is required")
		}

		if err := cfg.Save(); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Fprintf(out, "✓ Client id saved to %s/config.yaml\n", config.GetConfigDir())
	} else {
		fmt.Fprintf(out, "Client ID: %s\n", cfg.Spotify.ClientID)
	}

	a, err := newApp(cmd, appOptions{prompt: out})
	if err != nil {
		return err
	}
	defer a.close()

	if force, _ := cmd.Flags().GetBool("force"); force {
		a.auth.Logout()
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	if err := a.ensureSession(ctx); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n✓ Authentication successful!\n")
	fmt.Fprintf(out, "✓ Access token saved to the %s session store\n", a.cfg.Storage.Driver)
	fmt.Fprintln(out, "\nYou can now use 'spotlook search' or 'spotlook tui' to browse artists.")

	return nil
}
