package config

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Manager holds the live configuration and reloads it when the file changes.
// The credential is carried over across reloads.
type Manager struct {
	path string

	mu       sync.RWMutex
	config   *Config
	onReload []func(*Config)

	watcher *fsnotify.Watcher
	wg      sync.WaitGroup
}

func NewManager() (*Manager, error) {
	log.Printf("Config manager: initializing configuration system...")

	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	if _, err := Load(); err != nil {
		log.Printf("Config manager: failed to load initial configuration: %v", err)
		return nil, err
	}
	return NewManagerFromFile(path)
}

// NewManagerFromFile manages an explicit config file.
func NewManagerFromFile(path string) (*Manager, error) {
	config, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		log.Printf("Config manager: validation warning: %v", err)
	}

	return &Manager{path: path, config: config}, nil
}

func (m *Manager) Path() string {
	return m.path
}

func (m *Manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	configCopy := *m.config
	configCopy.Clipboard.Backends = append([]string(nil), m.config.Clipboard.Backends...)
	return &configCopy
}

// SetAPIKey records the resolved credential on the live config.
func (m *Manager) SetAPIKey(key string) {
	m.mu.Lock()
	m.config.Transcription.APIKey = key
	m.mu.Unlock()
}

// OnReload registers fn to run with the new config after every successful
// reload.
func (m *Manager) OnReload(fn func(*Config)) {
	m.mu.Lock()
	m.onReload = append(m.onReload, fn)
	m.mu.Unlock()
}

func (m *Manager) StartWatching(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Editors replace files on save, so watch the directory.
	if err := watcher.Add(filepath.Dir(m.path)); err != nil {
		watcher.Close()
		return err
	}
	m.watcher = watcher

	m.wg.Add(1)
	go m.watchLoop(ctx)

	log.Printf("Config manager: watching %s for changes", m.path)
	return nil
}

func (m *Manager) Stop() {
	if m.watcher != nil {
		m.watcher.Close()
	}
	m.wg.Wait()
}

func (m *Manager) watchLoop(ctx context.Context) {
	defer m.wg.Done()
	configFileName := filepath.Base(m.path)

	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != configFileName {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				log.Printf("Config manager: file change detected: %s. Reloading config...", event.Name)
				m.Reload()
			}

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Config watcher error: %v", err)

		case <-ctx.Done():
			return
		}
	}
}

// Reload re-reads the file. Invalid files are logged and the previous
// config stays in effect. It reports whether the new config was applied.
func (m *Manager) Reload() bool {
	newConfig, err := LoadFile(m.path)
	if err != nil {
		log.Printf("Config manager: failed to reload config: %v", err)
		return false
	}
	if err := newConfig.Validate(); err != nil {
		log.Printf("Config manager: invalid config after reload: %v", err)
		return false
	}

	m.mu.Lock()
	newConfig.Transcription.APIKey = m.config.Transcription.APIKey
	m.config = newConfig
	callbacks := append([]func(*Config){}, m.onReload...)
	m.mu.Unlock()

	log.Printf("Config manager: configuration successfully reloaded")
	for _, fn := range callbacks {
		fn(m.GetConfig())
	}
	return true
}
