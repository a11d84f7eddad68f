package cmd

import (
	"io"

	"github.com/jfmyers9/spotlook/internal/tui"
	"github.com/spf13/cobra"
)

// tuiCmd represents the tui command
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse artists in a terminal UI",
	Long: `Browse Spotify artists in a terminal-based user interface.

The TUI includes:
- Artist search that updates as you type
- Artist pages with profile, top five tracks and paginated albums
- Sign-in and sign-out without leaving the UI

Logs are discarded unless --log-file (or log.file) is set.

Keys: Tab switches between the search box and results, Enter opens an
artist, Esc goes back, n/p page through albums, Ctrl-L signs out and
q quits.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	ui := tui.New()

	a, err := newApp(cmd, appOptions{logOutput: io.Discard, prompt: ui.Prompt()})
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	return ui.Run(ctx, tui.Deps{
		Queries:  a.queries,
		Auth:     a.auth,
		Router:   a.router,
		Debounce: a.cfg.Search.Debounce,
		Logger:   a.logger,
	})
}
