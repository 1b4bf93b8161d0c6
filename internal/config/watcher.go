package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// Watcher reloads a configuration file into a Source whenever it changes.
// A file that fails to load leaves the previous snapshot in place.
type Watcher struct {
	fs       afero.Fs
	path     string
	src      *Source
	debounce time.Duration
	log      zerolog.Logger
	onReload func(*Config)

	fsw  *fsnotify.Watcher
	stop chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithReloadHook is called with every configuration that loads cleanly.
func WithReloadHook(fn func(*Config)) WatchOption {
	return func(w *Watcher) { w.onReload = fn }
}

// WithFs sets the filesystem reloads read from. Change notifications
// always come from the OS.
func WithFs(fs afero.Fs) WatchOption {
	return func(w *Watcher) { w.fs = fs }
}

// Watch starts watching path. The directory is watched rather than the file
// so that editors replacing the file on save are noticed. The logger is
// taken from ctx.
func Watch(ctx context.Context, path string, src *Source, opts ...WatchOption) (*Watcher, error) {
	w := &Watcher{
		fs:       afero.NewOsFs(),
		path:     filepath.Clean(path),
		src:      src,
		debounce: src.Config().Watch.Debounce,
		log:      zerolog.Ctx(ctx).With().Str("config", path).Logger(),
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Errorf("config: watch: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		_ = fsw.Close()
		return nil, errors.Errorf("config: watch %s: %w", w.path, err)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("config watcher error")
		case <-fire:
			fire = nil
			w.reload()
		case <-w.stop:
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.fs, w.path)
	if err != nil {
		w.log.Warn().Err(err).Msg("config reload failed, keeping previous settings")
		return
	}
	w.src.Update(cfg)
	w.log.Debug().Str("flags", cfg.ClassifyFlags().String()).Msg("config reloaded")
	if w.onReload != nil {
		w.onReload(cfg)
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	if err != nil {
		return errors.Errorf("config: close watcher: %w", err)
	}
	return nil
}
