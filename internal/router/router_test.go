package router

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		raw  string
		want Route
	}{
		{raw: "/", want: Route{Kind: KindSearch}},
		{raw: "", want: Route{Kind: KindSearch}},
		{raw: "/artist/4Z8W4fKeB5YxbusRsdQVPb", want: Route{Kind: KindArtist, ArtistID: "4Z8W4fKeB5YxbusRsdQVPb"}},
		{raw: "/artist/abc?page=3", want: Route{Kind: KindArtist, ArtistID: "abc", Page: 3}},
		{raw: "/artist/abc?page=-2", want: Route{Kind: KindArtist, ArtistID: "abc"}},
		{raw: "/artist/abc?page=x", want: Route{Kind: KindArtist, ArtistID: "abc"}},
		{raw: "/artist/", want: Route{Kind: KindNotFound}},
		{raw: "/artist/a/b", want: Route{Kind: KindNotFound}},
		{raw: "/auth?code=abc", want: Route{Kind: KindCallback, Code: "abc"}},
		{raw: "http://127.0.0.1:5173/auth?error=access_denied", want: Route{Kind: KindCallback, Error: "access_denied"}},
		{raw: "/settings", want: Route{Kind: KindNotFound}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			loc, err := ParseLocation(tt.raw)
			if err != nil {
				t.Fatalf("ParseLocation(%q) error: %v", tt.raw, err)
			}
			if got := Match(loc); got != tt.want {
				t.Errorf("Match(%q) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestArtistPath(t *testing.T) {
	if got := ArtistPath("abc", 0); got != "/artist/abc" {
		t.Errorf("ArtistPath(abc, 0) = %q", got)
	}
	if got := ArtistPath("abc", 2); got != "/artist/abc?page=2" {
		t.Errorf("ArtistPath(abc, 2) = %q", got)
	}

	route := Match(MustParse(ArtistPath("abc", 2)))
	if route.ArtistID != "abc" || route.Page != 2 {
		t.Errorf("round trip mismatch: %+v", route)
	}
}

// collect runs the router and records dispatched locations.
func collect(t *testing.T, r *Router) (func() []string, context.CancelFunc) {
	t.Helper()

	var mu sync.Mutex
	var seen []string
	r.Subscribe(func(ctx context.Context, loc Location) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, loc.String())
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = r.Run(ctx)
	}()

	stop := func() {
		cancel()
		<-done
	}
	t.Cleanup(stop)

	return func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), seen...)
	}, cancel
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestRouter_NavigateDeduplicates(t *testing.T) {
	r := New(zerolog.Nop())
	seen, _ := collect(t, r)

	if !r.Navigate("/") {
		t.Error("expected first navigation to be queued")
	}
	if r.Navigate("/") {
		t.Error("expected repeated navigation to be ignored")
	}
	r.Navigate("/artist/abc")
	r.Reload("/artist/abc")

	waitFor(t, func() bool { return len(seen()) == 3 })

	want := []string{"/", "/artist/abc", "/artist/abc"}
	got := seen()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("dispatch %d = %q, want %q", i, got[i], want[i])
		}
	}
	if cur := r.Current().String(); cur != "/artist/abc" {
		t.Errorf("Current() = %q", cur)
	}
}

func TestRouter_NavigateFromHandler(t *testing.T) {
	r := New(zerolog.Nop())

	// A handler that redirects must not deadlock the loop.
	r.Subscribe(func(ctx context.Context, loc Location) {
		if loc.Path == PathAuth {
			r.Navigate("/")
		}
	})
	seen, _ := collect(t, r)

	r.Navigate("/auth?code=abc")

	waitFor(t, func() bool { return len(seen()) == 2 })
	if got := seen(); got[0] != "/auth?code=abc" || got[1] != "/" {
		t.Errorf("unexpected dispatch order %v", got)
	}
}

func TestRouter_HandlersRunSerially(t *testing.T) {
	r := New(zerolog.Nop())

	var mu sync.Mutex
	active, maxActive, count := 0, 0, 0
	r.Subscribe(func(ctx context.Context, loc Location) {
		mu.Lock()
		active++
		if active > maxActive {
			maxActive = active
		}
		mu.Unlock()

		time.Sleep(2 * time.Millisecond)

		mu.Lock()
		active--
		count++
		mu.Unlock()
	})
	_, _ = collect(t, r)

	for i := 0; i < 10; i++ {
		r.Reload("/")
	}

	waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 10
	})
	if maxActive != 1 {
		t.Errorf("expected serialized dispatch, saw %d concurrent handlers", maxActive)
	}
}

func TestRouter_RunStopsOnCancel(t *testing.T) {
	r := New(zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := r.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBrowserNavigator_Redirect(t *testing.T) {
	var out bytes.Buffer
	r := New(zerolog.Nop())
	n := NewBrowserNavigator(r, &out, zerolog.Nop())

	var opened string
	n.open = func(u string) error {
		opened = u
		return errors.New("no display")
	}

	target := "https://accounts.spotify.com/authorize?client_id=x"
	if err := n.Redirect(context.Background(), target); err != nil {
		t.Fatalf("Redirect() error: %v", err)
	}
	if opened != target {
		t.Errorf("expected browser to open %q, got %q", target, opened)
	}
	if !strings.Contains(out.String(), target) {
		t.Errorf("expected URL to be printed, got %q", out.String())
	}
}
