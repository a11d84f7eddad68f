package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jfmyers9/spotlook/internal/query"
	"github.com/jfmyers9/spotlook/pkg/spotify"
	"github.com/spf13/cobra"
)

var artistCmd = &cobra.Command{
	Use:   "artist <id>",
	Short: "Show an artist and their top tracks",
	Long: `Show an artist's profile and their five most popular tracks.

Use 'spotlook albums <id>' for the discography.`,
	Args: cobra.ExactArgs(1),
	RunE: runArtist,
}

func init() {
	rootCmd.AddCommand(artistCmd)
}

func runArtist(cmd *cobra.Command, args []string) error {
	id := strings.TrimSpace(args[0])
	if id == "" {
		return spotify.ErrMissingID
	}

	a, err := newApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	artist, err := fetchWithSession(ctx, a, func(ctx context.Context) query.Result[spotify.Artist] {
		return a.queries.GetArtist(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to load artist: %w", err)
	}

	out := cmd.OutOrStdout()
	writeArtist(out, artist)

	// Each section stands on its own: a failure here still shows the profile.
	fmt.Fprintln(out, "\nTop tracks")
	tracks := a.queries.GetArtistTopTracks(ctx, id)
	writeTopTracks(out, tracks)

	return nil
}

func writeArtist(w io.Writer, artist spotify.Artist) {
	fmt.Fprintln(w, artist.Name)
	fmt.Fprintf(w, "%s followers · popularity %d/100\n", formatCount(artist.Followers.Total), artist.Popularity)
	if len(artist.Genres) > 0 {
		fmt.Fprintf(w, "Genres: %s\n", strings.Join(artist.Genres, ", "))
	}
	if artist.ExternalURLs.Spotify != "" {
		fmt.Fprintln(w, artist.ExternalURLs.Spotify)
	}
}

func writeTopTracks(w io.Writer, r query.Result[query.TopTracks]) {
	switch r.Status {
	case query.StatusSuccess:
	case query.StatusError:
		fmt.Fprintf(w, "  unavailable: %v\n", r.Failure)
		return
	default:
		fmt.Fprintln(w, "  unavailable")
		return
	}

	tracks := r.Data.Top(query.TopTrackCount)
	if len(tracks) == 0 {
		fmt.Fprintln(w, "  none")
		return
	}

	t := &table{max: 50}
	for i, track := range tracks {
		t.add(fmt.Sprintf("  %d.", i+1), track.Name, formatDuration(track.DurationMS))
	}
	t.write(w)
}
