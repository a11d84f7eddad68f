// Package tui is the interactive artist browser.
package tui

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jfmyers9/spotlook/internal/auth"
	"github.com/jfmyers9/spotlook/internal/query"
	"github.com/jfmyers9/spotlook/internal/router"
	"github.com/jfmyers9/spotlook/pkg/spotify"
	"github.com/rivo/tview"
	"github.com/rs/zerolog"
)

const (
	pageAuth   = "auth"
	pageSearch = "search"
	pageArtist = "artist"
)

// Deps are the pieces of the running session the TUI drives.
type Deps struct {
	Queries  *query.Queries
	Auth     *auth.Controller
	Router   *router.Router
	Debounce time.Duration
	Logger   zerolog.Logger
}

// App is the TUI application for browsing artists
type App struct {
	app    *tview.Application
	pages  *tview.Pages
	header *tview.TextView
	status *tview.TextView

	// Sign-in page
	authStatus *tview.TextView
	prompt     *tview.TextView

	// Search page
	input        *tview.InputField
	searchStatus *tview.TextView
	results      *tview.List

	// Artist page
	artist    *tview.TextView
	topTracks *tview.TextView
	albums    *tview.TextView

	deps   Deps
	search *query.SearchInput
	ctx    context.Context
	logger zerolog.Logger

	// mu guards the fields below, written from the router goroutine and
	// read from the draw loop.
	mu        sync.Mutex
	route     router.Route
	shown     router.Route
	albumPage query.Result[query.AlbumPage]
	loggedOut bool
}

// New creates the TUI. Output written to Prompt before Run shows up on the
// sign-in page.
func New() *App {
	a := &App{
		app: tview.NewApplication(),
		ctx: context.Background(),
	}
	a.setupUI()
	return a
}

// Prompt returns a writer that prints to the sign-in page.
func (a *App) Prompt() io.Writer {
	return promptWriter{a}
}

type promptWriter struct {
	a *App
}

func (w promptWriter) Write(p []byte) (int, error) {
	n, err := w.a.prompt.Write(p)
	w.a.app.QueueUpdateDraw(func() {})
	return n, err
}

// setupUI creates the UI layout
func (a *App) setupUI() {
	a.header = tview.NewTextView().
		SetDynamicColors(true).
		SetText("[::b]spotlook[::-] [gray]artist browser[-]")

	// Sign-in
	a.authStatus = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	a.prompt = tview.NewTextView().
		SetWrap(true).
		SetTextAlign(tview.AlignCenter)
	authPage := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.authStatus, 5, 0, false).
		AddItem(a.prompt, 0, 1, false)
	authPage.SetBorder(true).
		SetTitle(" Sign in ").
		SetTitleAlign(tview.AlignLeft)

	// Search
	a.input = tview.NewInputField().
		SetLabel("Artist: ").
		SetFieldBackgroundColor(tcell.ColorDefault)
	a.searchStatus = tview.NewTextView().
		SetDynamicColors(true)
	a.results = tview.NewList().
		ShowSecondaryText(true).
		SetHighlightFullLine(true)
	a.results.SetBorder(true).
		SetTitle(" Artists ").
		SetTitleAlign(tview.AlignLeft)
	searchPage := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.input, 1, 0, true).
		AddItem(a.searchStatus, 1, 0, false).
		AddItem(a.results, 0, 1, false)

	// Artist
	a.artist = tview.NewTextView().
		SetDynamicColors(true)
	a.artist.SetBorder(true).
		SetTitle(" Artist ").
		SetTitleAlign(tview.AlignLeft)
	a.topTracks = tview.NewTextView().
		SetDynamicColors(true)
	a.topTracks.SetBorder(true).
		SetTitle(" Top Tracks ").
		SetTitleAlign(tview.AlignLeft)
	a.albums = tview.NewTextView().
		SetDynamicColors(true)
	a.albums.SetBorder(true).
		SetTitle(" Albums ").
		SetTitleAlign(tview.AlignLeft)
	artistPage := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.artist, 6, 0, false).
		AddItem(tview.NewFlex().
			AddItem(a.topTracks, 0, 1, false).
			AddItem(a.albums, 0, 1, false), 0, 1, false)

	a.pages = tview.NewPages().
		AddPage(pageAuth, authPage, true, true).
		AddPage(pageSearch, searchPage, true, false).
		AddPage(pageArtist, artistPage, true, false)

	a.status = tview.NewTextView().
		SetDynamicColors(true).
		SetTextColor(tcell.ColorGray)
	a.updateStatusBar(pageAuth)

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.header, 1, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.status, 1, 0, false)

	a.app.SetRoot(layout, true).SetInputCapture(a.handleKeyEvent)
}

func (a *App) updateStatusBar(page string) {
	switch page {
	case pageSearch:
		a.status.SetText(" Tab:focus  Enter:open  Ctrl-L:sign out  q:quit")
	case pageArtist:
		a.status.SetText(" Esc:back  n/p:albums page  Ctrl-L:sign out  q:quit")
	default:
		a.status.SetText(" Enter:sign in  Ctrl-L:reset  q:quit")
	}
}

func (a *App) frontPage() string {
	name, _ := a.pages.GetFrontPage()
	return name
}

// handleKeyEvent processes keyboard input
func (a *App) handleKeyEvent(event *tcell.EventKey) *tcell.EventKey {
	page := a.frontPage()

	switch event.Key() {
	case tcell.KeyCtrlC:
		a.app.Stop()
		return nil
	case tcell.KeyCtrlL:
		go a.logout()
		return nil
	case tcell.KeyEscape:
		if page == pageArtist {
			a.deps.Router.Navigate(router.PathRoot)
			return nil
		}
		if page == pageSearch && a.results.HasFocus() {
			a.app.SetFocus(a.input)
			return nil
		}
	case tcell.KeyTab:
		if page == pageSearch {
			if a.input.HasFocus() {
				a.app.SetFocus(a.results)
			} else {
				a.app.SetFocus(a.input)
			}
			return nil
		}
	case tcell.KeyEnter:
		if page == pageAuth {
			go a.signIn()
			return nil
		}
	}

	if a.input.HasFocus() {
		return event
	}

	switch event.Rune() {
	case 'q':
		a.app.Stop()
		return nil
	case '/':
		if page == pageSearch {
			a.app.SetFocus(a.input)
			return nil
		}
	case 'n':
		if page == pageArtist {
			a.turnPage(1)
			return nil
		}
	case 'p':
		if page == pageArtist {
			a.turnPage(-1)
			return nil
		}
	}

	return event
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func (a *App) Run(ctx context.Context, deps Deps) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.ctx = ctx
	a.deps = deps
	a.logger = deps.Logger.With().Str("component", "tui").Logger()

	delay := deps.Debounce
	if delay <= 0 {
		delay = query.DefaultDebounce
	}
	a.search = query.NewSearchInput(delay, a.runSearch)
	defer a.search.Stop()

	a.input.SetChangedFunc(a.search.Set)
	a.input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && a.results.GetItemCount() > 0 {
			a.app.SetFocus(a.results)
		}
	})
	a.renderSearch("", query.Result[query.SearchResult]{})

	deps.Router.Subscribe(a.handleLocation)
	go a.watchSession(ctx)

	go func() {
		<-ctx.Done()
		a.app.Stop()
	}()

	a.showRoute()
	deps.Router.Navigate(router.PathRoot)

	return a.app.Run()
}

// handleLocation runs on the router goroutine after the auth controller has
// seen the same location.
func (a *App) handleLocation(ctx context.Context, loc router.Location) {
	route := router.Match(loc)
	if route.Kind == router.KindNotFound {
		a.logger.Debug().Str("location", loc.String()).Msg("Unknown location, going home")
		a.deps.Router.Navigate(router.PathRoot)
		return
	}

	a.mu.Lock()
	a.route = route
	a.mu.Unlock()

	a.showRoute()
}

// watchSession re-renders whenever the auth session changes.
func (a *App) watchSession(ctx context.Context) {
	last := a.deps.Auth.Snapshot()
	for {
		s, err := a.deps.Auth.Wait(ctx, func(cur auth.Session) bool { return cur != last })
		if err != nil {
			return
		}
		a.logger.Debug().Str("state", s.State.String()).Msg("Session changed")
		last = s
		a.showRoute()
	}
}

// showRoute switches to the page for the current route and session.
func (a *App) showRoute() {
	s := a.deps.Auth.Snapshot()

	a.mu.Lock()
	route := a.route
	loggedOut := a.loggedOut
	a.mu.Unlock()

	if s.State != auth.StateAuthenticated || route.Kind == router.KindCallback {
		a.app.QueueUpdateDraw(func() {
			a.authStatus.SetText(renderAuth(s, loggedOut))
			a.switchTo(pageAuth)
		})
		return
	}

	switch route.Kind {
	case router.KindArtist:
		a.showArtist(route)
	default:
		a.app.QueueUpdateDraw(func() {
			if a.frontPage() != pageSearch {
				a.switchTo(pageSearch)
				a.app.SetFocus(a.input)
			}
		})
	}
}

func (a *App) switchTo(page string) {
	a.pages.SwitchToPage(page)
	a.updateStatusBar(page)
}

// runSearch is called with every settled search value.
func (a *App) runSearch(value string) {
	// Values seen before render straight from the cache.
	if !a.deps.Queries.PeekSearch(value).OK() {
		a.app.QueueUpdateDraw(func() {
			a.renderSearch(value, query.Result[query.SearchResult]{Status: query.StatusPending})
		})
	}

	r := a.deps.Queries.SearchArtists(a.ctx, value)

	a.app.QueueUpdateDraw(func() {
		// A newer value owns the list.
		if a.search.Debounced() != value {
			return
		}
		a.renderSearch(value, r)
	})
}

// renderSearch must run on the draw loop.
func (a *App) renderSearch(value string, r query.Result[query.SearchResult]) {
	a.searchStatus.SetText(renderSearchStatus(value, r))
	if r.Status == query.StatusPending {
		return
	}

	a.results.Clear()
	if r.Status != query.StatusSuccess {
		return
	}

	_, _, width, _ := a.results.GetInnerRect()
	for _, artist := range r.Data.Items {
		path := router.ArtistPath(artist.ID, 0)
		a.results.AddItem(tview.Escape(artist.Name), tview.Escape(artistSecondary(artist, width)), 0, func() {
			a.deps.Router.Navigate(path)
		})
	}
}

// showArtist loads the three artist sections. Each one renders on its own
// as soon as its query settles.
func (a *App) showArtist(route router.Route) {
	a.mu.Lock()
	prev := a.shown
	a.shown = route
	if prev != route {
		a.albumPage = query.Result[query.AlbumPage]{}
	}
	a.mu.Unlock()

	a.detach(prev, route)

	a.app.QueueUpdateDraw(func() {
		if prev.ArtistID != route.ArtistID {
			a.artist.SetText(renderArtist(query.Result[spotify.Artist]{Status: query.StatusPending}))
			a.topTracks.SetText(renderTopTracks(query.Result[query.TopTracks]{Status: query.StatusPending}, 0))
		}
		if prev != route {
			a.albums.SetText(renderAlbums(query.Result[query.AlbumPage]{Status: query.StatusPending}, 0))
		}
		a.switchTo(pageArtist)
	})

	go func() {
		r := a.deps.Queries.GetArtist(a.ctx, route.ArtistID)
		a.applyIfShown(route, func() {
			a.artist.SetText(renderArtist(r))
		})
	}()

	go func() {
		r := a.deps.Queries.GetArtistTopTracks(a.ctx, route.ArtistID)
		a.applyIfShown(route, func() {
			_, _, width, _ := a.topTracks.GetInnerRect()
			a.topTracks.SetText(renderTopTracks(r, width))
		})
	}()

	go func() {
		r := a.deps.Queries.GetArtistAlbums(a.ctx, route.ArtistID, route.Page)
		a.mu.Lock()
		if a.shown == route {
			a.albumPage = r
		}
		a.mu.Unlock()
		a.applyIfShown(route, func() {
			_, _, width, _ := a.albums.GetInnerRect()
			a.albums.SetText(renderAlbums(r, width))
		})
	}()
}

// detach drops pending responses for sections that are no longer shown.
func (a *App) detach(prev, next router.Route) {
	if prev.Kind != router.KindArtist {
		return
	}
	cache := a.deps.Queries.Cache()
	if prev.ArtistID != next.ArtistID {
		cache.Detach(query.ArtistKey(prev.ArtistID))
		cache.Detach(query.TopTracksKey(prev.ArtistID))
	}
	if prev.ArtistID != next.ArtistID || prev.Page != next.Page {
		cache.Detach(query.AlbumsKey(prev.ArtistID, prev.Page))
	}
}

func (a *App) applyIfShown(route router.Route, fn func()) {
	a.app.QueueUpdateDraw(func() {
		a.mu.Lock()
		shown := a.shown == route && a.route == route
		a.mu.Unlock()
		if shown {
			fn()
		}
	})
}

// turnPage moves the albums section by delta pages when the API says the
// page exists.
func (a *App) turnPage(delta int) {
	a.mu.Lock()
	route := a.shown
	r := a.albumPage
	a.mu.Unlock()

	if route.Kind != router.KindArtist || !r.OK() {
		return
	}
	if (delta > 0 && !r.Data.HasNext) || (delta < 0 && !r.Data.HasPrevious) {
		return
	}
	a.deps.Router.Navigate(router.ArtistPath(route.ArtistID, route.Page+delta))
}

// logout signs out and forgets everything fetched with the old token.
func (a *App) logout() {
	a.mu.Lock()
	a.loggedOut = true
	a.shown = router.Route{}
	a.mu.Unlock()

	a.deps.Auth.Logout()
	a.deps.Queries.Cache().Reset()
	a.logger.Info().Msg("Signed out")

	a.app.QueueUpdateDraw(func() {
		a.prompt.Clear()
		a.input.SetText("")
		a.results.Clear()
	})
}

// signIn restarts the flow from the sign-in page.
func (a *App) signIn() {
	s := a.deps.Auth.Snapshot()
	if s.State != auth.StateUnauthenticated || s.IsLoading {
		return
	}

	a.mu.Lock()
	a.loggedOut = false
	a.mu.Unlock()

	a.app.QueueUpdateDraw(func() {
		a.prompt.Clear()
	})
	a.deps.Router.Reload(router.PathRoot)
}
