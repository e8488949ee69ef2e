// Package watch implements the live status display: the room table is redrawn
// whenever the data file changes and on a fixed interval.
package watch

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	herrors "git.home.luguber.info/inful/hotelkeys/internal/errors"
	"git.home.luguber.info/inful/hotelkeys/internal/logfields"
	"git.home.luguber.info/inful/hotelkeys/internal/menu"
	"git.home.luguber.info/inful/hotelkeys/internal/registry"
)

const clearScreen = "\033[H\033[2J"

// Watcher redraws the status of a Store. It never writes to the store.
type Watcher struct {
	store    registry.Store
	path     string
	out      io.Writer
	interval time.Duration
	debounce time.Duration
	clear    bool
	clock    func() time.Time

	mu        sync.Mutex
	refreshCh chan struct{}
	timer     *time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithInterval sets how often the display is redrawn without file events.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithDebounce sets how long file events are coalesced before a redraw.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithClearScreen clears the terminal before each redraw.
func WithClearScreen(enabled bool) Option {
	return func(w *Watcher) { w.clear = enabled }
}

// WithClock replaces the clock used for the "updated" line.
func WithClock(now func() time.Time) Option {
	return func(w *Watcher) {
		if now != nil {
			w.clock = now
		}
	}
}

// New creates a watcher over store. path is the file backing the store;
// when empty only the interval redraw is active.
func New(store registry.Store, path string, out io.Writer, opts ...Option) *Watcher {
	w := &Watcher{
		store:     store,
		path:      path,
		out:       out,
		interval:  time.Minute,
		debounce:  250 * time.Millisecond,
		clock:     time.Now,
		refreshCh: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run draws the status once and then keeps redrawing until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return herrors.RuntimeFailure("create scheduler", err)
	}
	if _, err := scheduler.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(w.trigger),
		gocron.WithName("watch-refresh"),
	); err != nil {
		return herrors.RuntimeFailure("schedule refresh", err)
	}

	var events <-chan fsnotify.Event
	var errs <-chan error
	if w.path != "" {
		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			return herrors.RuntimeFailure("create file watcher", err)
		}
		defer func() { _ = fsw.Close() }()

		// Watch the directory: the JSON store replaces the file by rename.
		dir := filepath.Dir(w.path)
		if err := fsw.Add(dir); err != nil {
			return herrors.RuntimeFailure("watch data directory", err).WithContext("path", dir)
		}
		events, errs = fsw.Events, fsw.Errors
	}

	scheduler.Start()
	defer func() {
		if err := scheduler.Shutdown(); err != nil {
			slog.Warn("Failed to stop scheduler", logfields.Error(err))
		}
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
	}()

	slog.Info("Watching room status", logfields.Path(w.store.Location()),
		slog.Duration("interval", w.interval))
	w.Refresh(ctx)

	base := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.refreshCh:
			w.Refresh(ctx)
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				slog.Debug("Data file change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
				w.schedule()
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}

// Refresh reloads the snapshot and redraws. Load failures and snapshots that
// break the room invariants are shown in place of the table; the watcher
// keeps running.
func (w *Watcher) Refresh(ctx context.Context) {
	snapshot, err := w.store.Load(ctx)

	if w.clear {
		fmt.Fprint(w.out, clearScreen)
	}
	fmt.Fprintf(w.out, "Updated %s (%s)\n", w.clock().Format("02/01/2006 15:04:05"), w.store.Location())

	switch {
	case stdErrors.Is(err, registry.ErrNoSnapshot):
		fmt.Fprintln(w.out, "No room data stored yet.")
		return
	case err == nil:
		if verr := snapshot.Validate(); verr != nil {
			err = herrors.StorageCorrupt(w.store.Location(), verr)
		}
	}
	if err != nil {
		slog.Warn("Failed to reload room data", logfields.Path(w.store.Location()), logfields.Error(err))
		fmt.Fprintf(w.out, "Error: %s\n", describe(err))
		return
	}

	menu.RenderStatus(w.out, snapshot.Views())
	menu.RenderSummary(w.out, snapshot.Summary())
}

func describe(err error) string {
	if he, ok := herrors.As(err); ok && he.Cause != nil {
		return fmt.Sprintf("%s: %v", he.Message, he.Cause)
	}
	return err.Error()
}

// schedule starts or resets the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.trigger)
}

func (w *Watcher) trigger() {
	select {
	case w.refreshCh <- struct{}{}:
	default:
		// refresh already pending
	}
}
