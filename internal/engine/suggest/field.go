package suggest

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/anatolykoptev/go_jobboard/internal/engine"
	"github.com/anatolykoptev/go_jobboard/internal/engine/jobs"
)

// Kind is the input a Field is attached to.
type Kind string

const (
	KindKeyword  Kind = "keyword"
	KindLocation Kind = "location"
)

// Mode decides what a selection does.
type Mode int

const (
	// ModeNormal writes the selection into local filter state via OnSelect.
	ModeNormal Mode = iota
	// ModeNavbar navigates to the search results page via Navigate.
	ModeNavbar
)

// State of the per-field autocomplete machine.
type State string

const (
	StateIdle       State = "idle"
	StateDebouncing State = "debouncing"
	StateFetching   State = "fetching"
	StateDisplaying State = "displaying"
)

// Key is a navigation key.
type Key string

const (
	KeyArrowUp   Key = "ArrowUp"
	KeyArrowDown Key = "ArrowDown"
	KeyEnter     Key = "Enter"
	KeyEscape    Key = "Escape"
)

// FetchFunc loads suggestions for a query.
type FetchFunc func(ctx context.Context, query string) (engine.Suggestions, error)

// Timer is the part of *time.Timer the debouncer needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. Tests substitute a manual clock.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Selection is a chosen suggestion.
type Selection struct {
	Kind  Kind   `json:"kind"`
	Group Group  `json:"group"`
	Value string `json:"value"`
}

// Apply writes the selection into the criteria field the input is bound to.
func (s Selection) Apply(c jobs.Criteria) jobs.Criteria {
	if s.Kind == KindLocation {
		c.Location = s.Value
	} else {
		c.Keyword = s.Value
	}
	return c
}

// Options configures a Field. Zero values use the engine configuration.
type Options struct {
	Kind      Kind
	Mode      Mode
	Fetch     FetchFunc
	Debounce  time.Duration
	MinChars  int
	AfterFunc AfterFunc

	// OnSelect is called in ModeNormal.
	OnSelect func(Selection)
	// Navigate is called with a search path in ModeNavbar.
	Navigate func(path string)
	// Peer returns the other search input's current text, used to build the
	// navbar search path.
	Peer func() string
}

// Snapshot is a consistent view of a Field.
type Snapshot struct {
	Query string `json:"query"`
	State State  `json:"state"`
	Items []Item `json:"items"`
	Index int    `json:"index"`
}

// Field is the autocomplete state machine for one search input:
//
//	Idle → Debouncing → Fetching → Displaying ⇄ Idle
//
// Every keystroke bumps a sequence number; a response is committed only if no
// newer keystroke arrived while it was in flight. Superseded fetches also have
// their context canceled. Field is safe for concurrent use.
type Field struct {
	opts Options

	mu     sync.Mutex
	query  string
	state  State
	items  []Item
	index  int
	seq    uint64
	timer  Timer
	cancel context.CancelFunc
	done   chan struct{} // closed when the current generation settles
}

// NewField returns an idle field.
func NewField(opts Options) *Field {
	if opts.Kind == "" {
		opts.Kind = KindKeyword
	}
	if opts.Debounce <= 0 {
		opts.Debounce = engine.Cfg.DebounceInterval
	}
	if opts.MinChars <= 0 {
		opts.MinChars = engine.Cfg.MinQueryChars
	}
	if opts.AfterFunc == nil {
		opts.AfterFunc = realAfterFunc
	}
	if opts.Fetch == nil {
		opts.Fetch = func(context.Context, string) (engine.Suggestions, error) { return engine.Suggestions{}, nil }
	}
	return &Field{opts: opts, state: StateIdle, index: -1, done: closedChan()}
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// Input handles a new input value.
func (f *Field) Input(value string) {
	f.input(value)
}

// input returns the generation started by value and its settle channel.
func (f *Field) input(value string) (uint64, chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.query = value
	seq := f.supersedeLocked()
	done := make(chan struct{})
	f.done = done

	if utf8.RuneCountInString(strings.TrimSpace(value)) < f.opts.MinChars {
		f.resetLocked()
		return seq, done
	}
	f.state = StateDebouncing
	q := strings.TrimSpace(value)
	f.timer = f.opts.AfterFunc(f.opts.Debounce, func() { f.fire(seq, q) })
	return seq, done
}

// supersedeLocked invalidates the pending timer and any in-flight fetch and
// returns the new sequence number.
func (f *Field) supersedeLocked() uint64 {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.settleLocked()
	f.seq++
	return f.seq
}

func (f *Field) settleLocked() {
	select {
	case <-f.done:
	default:
		close(f.done)
	}
}

// resetLocked closes the list and returns to Idle.
func (f *Field) resetLocked() {
	f.items = nil
	f.index = -1
	f.state = StateIdle
	f.settleLocked()
}

func (f *Field) fire(seq uint64, query string) {
	f.mu.Lock()
	if seq != f.seq {
		f.mu.Unlock()
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), engine.Cfg.FetchTimeout)
	f.timer = nil
	f.cancel = cancel
	f.state = StateFetching
	f.mu.Unlock()
	defer cancel()

	engine.IncrAutocompleteFetches()
	res, err := f.opts.Fetch(ctx, query)

	f.mu.Lock()
	defer f.mu.Unlock()
	if seq != f.seq {
		engine.IncrAutocompleteStale()
		slog.Debug("autocomplete: stale response dropped", slog.String("field", string(f.opts.Kind)), slog.String("query", query))
		return
	}
	f.cancel = nil
	if err != nil {
		engine.IncrAutocompleteErrors()
		slog.Warn("autocomplete: fetch failed", slog.String("field", string(f.opts.Kind)), slog.String("query", query), slog.Any("error", err))
		f.resetLocked()
		return
	}
	f.items = Merge(res)
	f.index = -1
	if len(f.items) == 0 {
		f.state = StateIdle
	} else {
		f.state = StateDisplaying
	}
	f.settleLocked()
}

// Key handles a navigation key. It returns the selection made by Enter, if any.
func (f *Field) Key(k Key) (Selection, bool) {
	f.mu.Lock()
	n := len(f.items)
	switch k {
	case KeyArrowDown:
		if n > 0 {
			f.index = (f.index + 1) % n
		}
	case KeyArrowUp:
		if n > 0 {
			if f.index <= 0 {
				f.index = n - 1
			} else {
				f.index--
			}
		}
	case KeyEscape:
		f.closeLocked()
	case KeyEnter:
		if f.index < 0 || f.index >= n {
			f.mu.Unlock()
			return Selection{}, false
		}
		item := f.items[f.index]
		f.mu.Unlock()
		return f.Select(item), true
	}
	f.mu.Unlock()
	return Selection{}, false
}

// Blur closes the list when focus leaves the input and its dropdown.
func (f *Field) Blur() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeLocked()
}

func (f *Field) closeLocked() {
	if f.timer != nil || f.cancel != nil {
		f.supersedeLocked()
	}
	f.resetLocked()
}

// Select commits item: the input takes its value, the list closes, and the
// selection is routed according to the field's mode.
func (f *Field) Select(item Item) Selection {
	sel := Selection{Kind: f.opts.Kind, Group: item.Group, Value: item.Value}

	f.mu.Lock()
	f.query = item.Value
	f.closeLocked()
	f.mu.Unlock()

	switch f.opts.Mode {
	case ModeNavbar:
		if f.opts.Navigate != nil {
			f.opts.Navigate(f.searchPath(sel.Value))
		}
	default:
		if f.opts.OnSelect != nil {
			f.opts.OnSelect(sel)
		}
	}
	return sel
}

func (f *Field) searchPath(value string) string {
	peer := ""
	if f.opts.Peer != nil {
		peer = f.opts.Peer()
	}
	if f.opts.Kind == KindLocation {
		return jobs.SearchPath(peer, value)
	}
	return jobs.SearchPath(value, peer)
}

// Value returns the current input text.
func (f *Field) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.query
}

// Snapshot returns the current state.
func (f *Field) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Field) snapshotLocked() Snapshot {
	items := make([]Item, len(f.items))
	copy(items, f.items)
	return Snapshot{Query: f.query, State: f.state, Items: items, Index: f.index}
}

// Query feeds value through the debouncer and waits until that input settles.
// If a newer input supersedes it first, superseded is true and the snapshot
// reflects the newer input.
func (f *Field) Query(ctx context.Context, value string) (snap Snapshot, superseded bool, err error) {
	seq, done := f.input(value)

	select {
	case <-done:
	case <-ctx.Done():
		return f.Snapshot(), false, ctx.Err()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked(), seq != f.seq, nil
}
