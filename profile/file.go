package profile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/justme8code/catchy/policy"
)

// reloadDebounce coalesces the event bursts editors emit on save into
// a single reload.
const reloadDebounce = 500 * time.Millisecond

// fileSchema is the profile file layout:
//
//	profiles:
//	  fetch-user:
//	    max_retries: 3
//	    base_delay: 100ms
//	    exponential: true
//	    max_delay: 2s
//	    budget: api-retries
type fileSchema struct {
	Profiles map[string]policy.Policy `yaml:"profiles"`
}

// LoadFile reads a profile file and validates every policy in it.
func LoadFile(path string) (map[string]policy.Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catchy: read profiles: %w", err)
	}

	var doc fileSchema
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catchy: parse profiles %s: %w", path, err)
	}

	profiles := make(map[string]policy.Policy, len(doc.Profiles))
	for name, pol := range doc.Profiles {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("catchy: profiles %s: empty profile name", path)
		}
		if err := pol.Validate(); err != nil {
			return nil, fmt.Errorf("catchy: profile %q: %w", name, err)
		}
		profiles[name] = pol
	}
	return profiles, nil
}

// File serves profiles from a YAML file and reloads them when the file
// changes. A reload that fails to parse or validate keeps the last good
// profile set.
type File struct {
	path    string
	logger  *slog.Logger
	watcher *fsnotify.Watcher

	mu       sync.RWMutex
	profiles map[string]policy.Policy

	debounceMu    sync.Mutex
	debounceTimer *time.Timer

	done      chan struct{}
	closeOnce sync.Once
}

var _ Provider = (*File)(nil)

// NewFile loads path eagerly and starts watching it for changes. The
// logger receives reload outcomes; nil means slog.Default().
func NewFile(path string, logger *slog.Logger) (*File, error) {
	if logger == nil {
		logger = slog.Default()
	}

	profiles, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("catchy: watch profiles: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("catchy: watch profiles %s: %w", path, err)
	}

	f := &File{
		path:     path,
		logger:   logger,
		watcher:  watcher,
		profiles: profiles,
		done:     make(chan struct{}),
	}
	go f.watch()
	return f, nil
}

func (f *File) Policy(_ context.Context, name string) (policy.Policy, error) {
	if f == nil {
		return policy.Policy{}, ErrNotFound
	}
	name = strings.TrimSpace(name)

	f.mu.RLock()
	pol, ok := f.profiles[name]
	f.mu.RUnlock()

	if !ok {
		return policy.Policy{}, ErrNotFound
	}
	return pol, nil
}

// Names returns the currently loaded profile names, unordered.
func (f *File) Names() []string {
	if f == nil {
		return nil
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.profiles))
	for name := range f.profiles {
		names = append(names, name)
	}
	return names
}

// Close stops the watcher. Safe to call more than once.
func (f *File) Close() error {
	var err error
	f.closeOnce.Do(func() {
		close(f.done)
		err = f.watcher.Close()

		f.debounceMu.Lock()
		if f.debounceTimer != nil {
			f.debounceTimer.Stop()
		}
		f.debounceMu.Unlock()
	})
	return err
}

func (f *File) watch() {
	for {
		select {
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				f.scheduleReload()
			}
			// Editors often save by replacing the file; re-watch the
			// path once it reappears.
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				time.Sleep(100 * time.Millisecond)
				if _, err := os.Stat(f.path); err != nil {
					continue
				}
				if err := f.watcher.Add(f.path); err != nil {
					f.logger.Warn("re-watching profile file failed", "path", f.path, "error", err)
					continue
				}
				f.scheduleReload()
			}

		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.logger.Warn("profile watcher error", "path", f.path, "error", err)

		case <-f.done:
			return
		}
	}
}

func (f *File) scheduleReload() {
	f.debounceMu.Lock()
	defer f.debounceMu.Unlock()
	if f.debounceTimer != nil {
		f.debounceTimer.Stop()
	}
	f.debounceTimer = time.AfterFunc(reloadDebounce, f.reload)
}

func (f *File) reload() {
	select {
	case <-f.done:
		return
	default:
	}

	profiles, err := LoadFile(f.path)
	if err != nil {
		f.logger.Warn("profile reload failed, keeping last good set", "path", f.path, "error", err)
		return
	}

	f.mu.Lock()
	f.profiles = profiles
	f.mu.Unlock()

	f.logger.Info("profiles reloaded", "path", f.path, "profiles", len(profiles))
}
