package query

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a search runs.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer runs the most recently scheduled function once no new one has
// been scheduled for the delay.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	seq   uint64
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Schedule cancels any pending function and schedules fn.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() {
		// Stop cannot recall a timer that already fired.
		d.mu.Lock()
		current := d.seq == seq
		d.mu.Unlock()
		if current {
			fn()
		}
	})
}

// Cancel drops the pending function, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
}

// SearchInput holds the raw and debounced values of a search box. Only
// the debounced value drives fetching: onChange is called with it after
// the input has been quiet for the delay, and only when it changed.
type SearchInput struct {
	mu        sync.Mutex
	raw       string
	debounced string
	debouncer *Debouncer
	onChange  func(string)
}

func NewSearchInput(delay time.Duration, onChange func(string)) *SearchInput {
	return &SearchInput{
		debouncer: NewDebouncer(delay),
		onChange:  onChange,
	}
}

// Set records a keystroke.
func (s *SearchInput) Set(raw string) {
	s.mu.Lock()
	s.raw = raw
	s.mu.Unlock()

	s.debouncer.Schedule(s.settle)
}

func (s *SearchInput) settle() {
	s.mu.Lock()
	if s.raw == s.debounced {
		s.mu.Unlock()
		return
	}
	s.debounced = s.raw
	value := s.debounced
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(value)
	}
}

// Raw returns the latest input.
func (s *SearchInput) Raw() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.raw
}

// Debounced returns the value searches run against.
func (s *SearchInput) Debounced() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.debounced
}

// Stop cancels a pending update.
func (s *SearchInput) Stop() {
	s.debouncer.Cancel()
}
