package cmd

import (
	"fmt"

	"github.com/jfmyers9/spotlook/internal/config"
	"github.com/jfmyers9/spotlook/internal/store"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and sign-in status",
	Long: `Show where spotlook keeps its configuration and session, and whether an
access token is saved. This does not contact Spotify: a saved token may
still turn out to be expired on the next request.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dir := cfg.DataDir
	if dataDir != "" {
		dir = dataDir
	}

	st, err := store.New(cfg.Storage.Driver, dir)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer func() { _ = st.Close() }()

	ctx := cmd.Context()
	token, err := st.Get(ctx, store.KeyAccessToken)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}
	verifier, err := st.Get(ctx, store.KeyCodeVerifier)
	if err != nil {
		return fmt.Errorf("failed to read session: %w", err)
	}

	clientID := cfg.Spotify.ClientID
	if clientID == "" {
		clientID = "(not configured, run 'spotlook auth')"
	}

	t := &table{}
	t.add("Config:", config.GetConfigDir()+"/config.yaml")
	t.add("Client ID:", clientID)
	t.add("Redirect URI:", cfg.Spotify.RedirectURI)
	t.add("Market:", cfg.Spotify.Market)
	t.add("Session store:", fmt.Sprintf("%s (%s)", dir, cfg.Storage.Driver))

	switch {
	case token != "":
		t.add("Session:", "signed in")
	case verifier != "":
		t.add("Session:", "sign-in in progress")
	default:
		t.add("Session:", "signed out")
	}
	t.write(out)

	return nil
}
