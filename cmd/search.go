package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/jfmyers9/spotlook/internal/query"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search Spotify artists",
	Long: `Search Spotify for artists matching the query.

The output format can be customized with a Go template, applied to each
artist. Available fields: .ID, .Name, .Followers.Total, .Genres, .Popularity,
.ExternalURLs.Spotify. Helpers: join, followers, duration.

Example:
  spotlook search caetano veloso
  spotlook search -f '{{.Name}} ({{followers .Followers.Total}})' gal costa`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("format", "f", "", "Output format template for each artist")
}

func runSearch(cmd *cobra.Command, args []string) error {
	q := strings.TrimSpace(strings.Join(args, " "))
	if q == "" {
		return fmt.Errorf("search query is empty")
	}
	format, _ := cmd.Flags().GetString("format")

	a, err := newApp(cmd, appOptions{})
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	res, err := fetchWithSession(ctx, a, func(ctx context.Context) query.Result[query.SearchResult] {
		return a.queries.SearchArtists(ctx, q)
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	out := cmd.OutOrStdout()

	if format != "" {
		for _, artist := range res.Items {
			line, err := renderTemplate(format, artist)
			if err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			fmt.Fprintln(out, line)
		}
		return nil
	}

	if len(res.Items) == 0 {
		fmt.Fprintf(out, "No artists found for %q\n", q)
		return nil
	}

	t := &table{max: 40}
	t.add("NAME", "FOLLOWERS", "ID", "GENRES")
	for _, artist := range res.Items {
		t.add(artist.Name, formatCount(artist.Followers.Total), artist.ID, strings.Join(artist.Genres, ", "))
	}
	t.write(out)

	fmt.Fprintf(out, "\nShowing %d of %s artists. Use 'spotlook artist <id>' for details.\n",
		len(res.Items), formatCount(res.Total))
	return nil
}
