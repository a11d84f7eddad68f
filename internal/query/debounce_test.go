package query

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestDebouncer_CollapsesBursts(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var mu sync.Mutex
	var ran []int
	for i := 0; i < 5; i++ {
		i := i
		d.Schedule(func() {
			mu.Lock()
			ran = append(ran, i)
			mu.Unlock()
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(ran) != 1 || ran[0] != 4 {
		t.Errorf("expected only the last function to run, got %v", ran)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)

	fired := make(chan struct{}, 1)
	d.Schedule(func() { fired <- struct{}{} })
	d.Cancel()

	select {
	case <-fired:
		t.Error("expected cancelled function not to run")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSearchInput_OneFetchPerPause(t *testing.T) {
	api := &fakeAPI{}
	q := newQueries(api)

	results := make(chan Result[SearchResult], 4)
	input := NewSearchInput(40*time.Millisecond, func(value string) {
		results <- q.SearchArtists(context.Background(), value)
	})
	defer input.Stop()

	for _, raw := range []string{"c", "ca", "cae", "caet", "caetano"} {
		input.Set(raw)
		time.Sleep(5 * time.Millisecond)
	}
	if got := input.Debounced(); got != "" {
		t.Errorf("expected debounced value to lag while typing, got %q", got)
	}

	select {
	case r := <-results:
		if !r.OK() || r.Data.Query != "caetano" {
			t.Errorf("expected search for the final value, got %+v", r)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("search never ran")
	}

	time.Sleep(80 * time.Millisecond)
	if n := api.searches.Load(); n != 1 {
		t.Errorf("expected one search request, got %d", n)
	}
	if input.Raw() != "caetano" || input.Debounced() != "caetano" {
		t.Errorf("unexpected input state raw=%q debounced=%q", input.Raw(), input.Debounced())
	}
}

func TestSearchInput_UnchangedValue(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	input := NewSearchInput(10*time.Millisecond, func(string) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	defer input.Stop()

	input.Set("gil")
	time.Sleep(50 * time.Millisecond)
	input.Set("gilberto")
	input.Set("gil")
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("expected onChange only when the debounced value changes, got %d calls", calls)
	}
}
