package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved Spotify session",
	Long: `Remove the access token and any pending sign-in from the session store.

The next command that needs Spotify opens the browser sign-in again.`,
	Args: cobra.NoArgs,
	RunE: runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.close()

	a.auth.Logout()
	fmt.Fprintln(cmd.OutOrStdout(), "✓ Signed out")
	return nil
}
