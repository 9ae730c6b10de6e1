package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher feeds JSON message files dropped into a directory through the
// relay. Processed files are renamed with a .done suffix so a restart never
// replays them.
type Watcher struct {
	dir     string
	relay   *Relay
	logger  zerolog.Logger
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewWatcher creates a drop-directory watcher. Call Start to begin.
func NewWatcher(dir string, relay *Relay, logger zerolog.Logger) *Watcher {
	return &Watcher{
		dir:    dir,
		relay:  relay,
		logger: logger.With().Str("component", "watcher").Logger(),
		done:   make(chan struct{}),
	}
}

// Start scans the directory for pre-existing files, then watches for new
// ones.
func (w *Watcher) Start() error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		w.processFile(filepath.Join(w.dir, entry.Name()))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(w.dir); err != nil {
		watcher.Close()
		return err
	}
	w.watcher = watcher

	go w.watchLoop()

	w.logger.Info().Str("dir", w.dir).Msg("watching drop directory")
	return nil
}

// Stop terminates the watch loop.
func (w *Watcher) Stop() {
	close(w.done)
	if w.watcher != nil {
		w.watcher.Close()
	}
}

func (w *Watcher) watchLoop() {
	// Debounce: editors and SFTP drops fire several events per file.
	var mu sync.Mutex
	pending := make(map[string]struct{})
	var timer *time.Timer

	flush := func() {
		mu.Lock()
		batch := pending
		pending = make(map[string]struct{})
		mu.Unlock()

		for path := range batch {
			w.processFile(path)
		}
	}

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			mu.Lock()
			pending[event.Name] = struct{}{}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(500*time.Millisecond, flush)
			mu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) processFile(path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		w.logger.Error().Err(err).Str("file", path).Msg("read dropped file")
		return
	}

	w.relay.Process(raw)

	if err := os.Rename(path, path+".done"); err != nil {
		w.logger.Error().Err(err).Str("file", path).Msg("mark file done")
	}
}
