package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dgallion1/docoutline/internal/parser"
)

// DefaultDebounce is how long a file must be quiet before it is processed.
const DefaultDebounce = 500 * time.Millisecond

// ErrOutputInWatchDir is returned when outlines would be written into the
// directory being watched, where they would be picked up again as inputs.
var ErrOutputInWatchDir = errors.New("output directory is the watched directory")

// Watcher feeds supported files created or written in a directory to a
// Runner. Subdirectories are not watched.
type Watcher struct {
	dir      string
	runner   *Runner
	debounce time.Duration
	log      *slog.Logger
	fsw      *fsnotify.Watcher
}

// NewWatcher starts watching dir. Events that arrive before Run are kept.
func NewWatcher(dir string, runner *Runner, debounce time.Duration, log *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	same, err := samePath(dir, runner.opts.OutDir)
	if err != nil {
		return nil, err
	}
	if same && runner.opts.Stdout == nil {
		return nil, fmt.Errorf("%w: %s", ErrOutputInWatchDir, dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &Watcher{dir: dir, runner: runner, debounce: debounce, log: log, fsw: fsw}, nil
}

// samePath reports whether outDir resolves to dir. An empty outDir writes
// next to each input, which is dir itself.
func samePath(dir, outDir string) (bool, error) {
	if outDir == "" {
		return true, nil
	}
	a, err := filepath.Abs(dir)
	if err != nil {
		return false, err
	}
	b, err := filepath.Abs(outDir)
	if err != nil {
		return false, err
	}
	return a == b, nil
}

// Run processes events until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	d := newDebouncer(w.debounce, func(path string) {
		if ctx.Err() != nil {
			return
		}
		// Errors are logged by the runner.
		_, _ = w.runner.Run(ctx, []string{path})
	})
	defer d.stop()

	w.log.Info("watching", "dir", w.dir, "debounce_ms", w.debounce.Milliseconds())
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
				continue
			}
			path := filepath.Clean(ev.Name)
			if !parser.IsSupportedExtension(path) {
				continue
			}
			d.trigger(path)
		}
	}
}

// debouncer calls fn for a key once no trigger for it has arrived for the
// delay. Every scheduled call is either run or cancelled by stop.
type debouncer struct {
	delay time.Duration
	fn    func(key string)

	mu      sync.Mutex
	timers  map[string]*time.Timer
	wg      sync.WaitGroup
	stopped bool
}

func newDebouncer(delay time.Duration, fn func(key string)) *debouncer {
	return &debouncer{delay: delay, fn: fn, timers: make(map[string]*time.Timer)}
}

func (d *debouncer) trigger(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	// Only a timer that is still pending may be re-armed; one that has
	// already fired owns its wg slot and runs to completion.
	if t, ok := d.timers[key]; ok && t.Stop() {
		t.Reset(d.delay)
		return
	}

	d.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		if d.timers[key] == t {
			delete(d.timers, key)
		}
		d.mu.Unlock()
		d.fn(key)
	})
	d.timers[key] = t
}

// stop cancels pending calls and waits for running ones.
func (d *debouncer) stop() {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, key)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
