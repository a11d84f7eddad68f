package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jfmyers9/spotlook/internal/query"
	"github.com/jfmyers9/spotlook/pkg/spotify"
	"github.com/spf13/cobra"
)

var albumsCmd = &cobra.Command{
	Use:   "albums <id>",
	Short: "List an artist's albums",
	Long: `List an artist's albums, twenty per page.

Pages are numbered from 1.`,
	Args: cobra.ExactArgs(1),
	RunE: runAlbums,
}

func init() {
	rootCmd.AddCommand(albumsCmd)

	albumsCmd.Flags().IntP("page", "p", 1, "Page to show, starting at 1")
}

func runAlbums(cmd *cobra.Command, args []string) error {
	id := strings.TrimSpace(args[0])
	if id == "" {
		return spotify.ErrMissingID
	}
	page, _ := cmd.Flags().GetInt("page")
	if page < 1 {
		return fmt.Errorf("page must be 1 or greater, got %d", page)
	}

	a, err := newApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	albums, err := fetchWithSession(ctx, a, func(ctx context.Context) query.Result[query.AlbumPage] {
		return a.queries.GetArtistAlbums(ctx, id, page-1)
	})
	if err != nil {
		return fmt.Errorf("failed to load albums: %w", err)
	}

	writeAlbums(cmd.OutOrStdout(), id, albums)
	return nil
}

func writeAlbums(w io.Writer, id string, p query.AlbumPage) {
	if len(p.Items) == 0 {
		fmt.Fprintln(w, "No albums on this page")
	} else {
		t := &table{max: 50}
		t.add("YEAR", "NAME", "TRACKS", "TYPE", "ID")
		for _, al := range p.Items {
			t.add(releaseYear(al.ReleaseDate), al.Name, strconv.Itoa(al.TotalTracks), al.AlbumType, al.ID)
		}
		t.write(w)
	}

	pages := max((p.Total+spotify.AlbumPageSize-1)/spotify.AlbumPageSize, 1)
	fmt.Fprintf(w, "\nPage %d of %d (%s albums)\n", p.Page+1, pages, formatCount(p.Total))
	if p.HasPrevious {
		fmt.Fprintf(w, "Previous: spotlook albums %s --page %d\n", id, p.Page)
	}
	if p.HasNext {
		fmt.Fprintf(w, "Next:     spotlook albums %s --page %d\n", id, p.Page+2)
	}
}
