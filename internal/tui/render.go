package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jfmyers9/spotlook/internal/auth"
	"github.com/jfmyers9/spotlook/internal/query"
	"github.com/jfmyers9/spotlook/pkg/spotify"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/tview"
)

// failureText describes a failed section.
func failureText(f *query.Failure) string {
	if f == nil {
		return "[red]Failed to load[-]"
	}
	if f.Kind == query.AuthExpired {
		return "[yellow]Session expired, signing in again...[-]"
	}
	return fmt.Sprintf("[red]Failed to load:[-] %s", tview.Escape(f.Message))
}

// renderAuth describes the session while the user cannot browse yet.
func renderAuth(s auth.Session, loggedOut bool) string {
	switch {
	case s.State == auth.StateInitializing:
		return "[gray]Checking session...[-]"
	case s.State == auth.StateExchangingCode:
		return "[yellow]Completing sign-in...[-]"
	case s.State == auth.StateError:
		return fmt.Sprintf("[red]Sign-in failed:[-] %s\n\n[gray]Press Ctrl-L to reset, then Enter to try again.[-]", tview.Escape(s.Error))
	case s.State == auth.StateUnauthenticated && s.Error != "":
		return fmt.Sprintf("[red]Could not start sign-in:[-] %s\n\n[gray]Press Enter to try again.[-]", tview.Escape(s.Error))
	case s.State == auth.StateUnauthenticated && s.IsLoading:
		return "[yellow]Session expired, signing in again...[-]"
	case loggedOut:
		return "Signed out.\n\n[gray]Press Enter to sign in.[-]"
	default:
		return "Waiting for you to authorize spotlook in your browser...\n\n[gray]Press Enter to open the page again.[-]"
	}
}

// renderSearchStatus returns the line shown under the search box.
func renderSearchStatus(q string, r query.Result[query.SearchResult]) string {
	switch {
	case strings.TrimSpace(q) == "":
		return "[gray]Type an artist name to search[-]"
	case r.Status == query.StatusPending:
		return "[gray]Searching...[-]"
	case r.Status == query.StatusError:
		return failureText(r.Failure)
	case r.Status == query.StatusSuccess && len(r.Data.Items) == 0:
		return fmt.Sprintf("No artists found for %q", q)
	case r.Status == query.StatusSuccess:
		return fmt.Sprintf("[gray]%d of %s artists  Enter:open  Tab:switch focus[-]", len(r.Data.Items), formatCount(r.Data.Total))
	default:
		return ""
	}
}

// artistSecondary is the second line of a search result.
func artistSecondary(a spotify.Artist, width int) string {
	line := formatCount(a.Followers.Total) + " followers"
	if len(a.Genres) > 0 {
		line += " · " + strings.Join(a.Genres, ", ")
	}
	return truncate(line, width)
}

// renderArtist renders the artist header.
func renderArtist(r query.Result[spotify.Artist]) string {
	switch r.Status {
	case query.StatusSuccess:
	case query.StatusError:
		return failureText(r.Failure)
	default:
		return "[gray]Loading artist...[-]"
	}

	a := r.Data
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("[white::b]%s[-:-:-]\n", tview.Escape(a.Name)))
	sb.WriteString(fmt.Sprintf("[yellow]%s followers[-]", formatCount(a.Followers.Total)))
	sb.WriteString(fmt.Sprintf("  popularity %s\n", popularityBar(a.Popularity, 10)))
	if len(a.Genres) > 0 {
		sb.WriteString(fmt.Sprintf("[gray]%s[-]\n", tview.Escape(strings.Join(a.Genres, ", "))))
	}
	if a.ExternalURLs.Spotify != "" {
		sb.WriteString(fmt.Sprintf("[blue]%s[-]", tview.Escape(a.ExternalURLs.Spotify)))
	}
	return sb.String()
}

// renderTopTracks renders the first query.TopTrackCount tracks.
func renderTopTracks(r query.Result[query.TopTracks], width int) string {
	switch r.Status {
	case query.StatusSuccess:
	case query.StatusError:
		return failureText(r.Failure)
	default:
		return "[gray]Loading top tracks...[-]"
	}

	tracks := r.Data.Top(query.TopTrackCount)
	if len(tracks) == 0 {
		return "[gray]No top tracks[-]"
	}

	nameWidth := width - 12
	if nameWidth < 10 {
		nameWidth = 10
	}

	var sb strings.Builder
	for i, t := range tracks {
		if i > 0 {
			sb.WriteString("\n")
		}
		name := runewidth.FillRight(truncate(t.Name, nameWidth), nameWidth)
		sb.WriteString(fmt.Sprintf("%d. %s [gray]%s[-]", i+1, tview.Escape(name), formatDuration(t.DurationMS)))
	}
	return sb.String()
}

// renderAlbums renders one page of albums and its pagination hint.
func renderAlbums(r query.Result[query.AlbumPage], width int) string {
	switch r.Status {
	case query.StatusSuccess:
	case query.StatusError:
		return failureText(r.Failure)
	default:
		return "[gray]Loading albums...[-]"
	}

	page := r.Data
	if len(page.Items) == 0 {
		return "[gray]No albums[-]"
	}

	nameWidth := width - 20
	if nameWidth < 10 {
		nameWidth = 10
	}

	var sb strings.Builder
	for _, al := range page.Items {
		name := runewidth.FillRight(truncate(al.Name, nameWidth), nameWidth)
		sb.WriteString(fmt.Sprintf("[gray]%s[-] %s [gray]%3d tracks[-]\n",
			releaseYear(al.ReleaseDate), tview.Escape(name), al.TotalTracks))
	}

	pages := (page.Total + spotify.AlbumPageSize - 1) / spotify.AlbumPageSize
	sb.WriteString(fmt.Sprintf("\n[gray]Page %d of %d", page.Page+1, max(pages, 1)))
	if page.HasPrevious {
		sb.WriteString("  p:previous")
	}
	if page.HasNext {
		sb.WriteString("  n:next")
	}
	sb.WriteString("[-]")
	return sb.String()
}

// truncate shortens text to width display columns with an ellipsis.
func truncate(text string, width int) string {
	if width <= 0 || runewidth.StringWidth(text) <= width {
		return text
	}
	return runewidth.Truncate(text, width, "...")
}

// popularityBar draws a 0-100 popularity score as a bar.
func popularityBar(popularity, width int) string {
	if width <= 0 {
		return ""
	}
	popularity = min(max(popularity, 0), 100)

	filled := popularity * width / 100
	return "[green]" + strings.Repeat("█", filled) + "[-]" +
		"[gray]" + strings.Repeat("░", width-filled) + "[-]"
}

// formatDuration formats milliseconds as M:SS
func formatDuration(ms int) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func formatCount(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return s
	}
	var out strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(r)
	}
	return out.String()
}

func releaseYear(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return runewidth.FillRight(date, 4)
}
