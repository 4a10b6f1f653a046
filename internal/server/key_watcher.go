package server

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"resumelens/internal/errors"
)

// KeyWatcher watches the API keys file for changes and triggers reloads
type KeyWatcher struct {
	mu sync.RWMutex

	keysFile    string
	lastModTime time.Time

	// Watcher components
	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	// Control channels
	stopChan   chan struct{}
	reloadChan chan struct{}

	// Callback and logging
	reloadCallback func()
	logger         *errors.Logger

	// State
	running bool
}

// NewKeyWatcher creates a new API keys file watcher
func NewKeyWatcher(keysFile string, debounceDelay time.Duration, reloadCallback func(), logger *errors.Logger) (*KeyWatcher, error) {
	if keysFile == "" {
		return nil, fmt.Errorf("keys file path is required")
	}
	if debounceDelay == 0 {
		debounceDelay = time.Second // Default 1 second debounce
	}

	return &KeyWatcher{
		keysFile:       keysFile,
		debounceDelay:  debounceDelay,
		stopChan:       make(chan struct{}),
		reloadChan:     make(chan struct{}, 1), // Buffered to prevent blocking
		reloadCallback: reloadCallback,
		logger:         logger,
	}, nil
}

// Start begins watching the keys file for changes
func (kw *KeyWatcher) Start() error {
	kw.mu.Lock()
	defer kw.mu.Unlock()

	if kw.running {
		return fmt.Errorf("API keys watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	kw.fsWatcher = watcher

	if stat, err := os.Stat(kw.keysFile); err == nil {
		kw.lastModTime = stat.ModTime()
	}

	if err := kw.addFileToWatcher(); err != nil {
		if closeErr := kw.fsWatcher.Close(); closeErr != nil && kw.logger != nil {
			kw.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
		return err
	}

	kw.running = true
	go kw.watchLoop()

	if kw.logger != nil {
		kw.logger.Info("API keys file watcher started",
			"file", kw.keysFile,
			"debounce_delay", kw.debounceDelay)
	}
	return nil
}

// Stop stops the keys file watcher
func (kw *KeyWatcher) Stop() error {
	kw.mu.Lock()
	defer kw.mu.Unlock()

	if !kw.running {
		return nil
	}

	close(kw.stopChan)

	if kw.debounceTimer != nil {
		kw.debounceTimer.Stop()
	}

	if kw.fsWatcher != nil {
		if err := kw.fsWatcher.Close(); err != nil {
			if kw.logger != nil {
				kw.logger.LogError(err, "Failed to close file system watcher")
			}
			return err
		}
	}

	kw.running = false

	if kw.logger != nil {
		kw.logger.Info("API keys file watcher stopped")
	}

	return nil
}

// addFileToWatcher adds the keys file and its directory to the watcher.
// The directory is watched too so atomic writes (rename operations) are
// not missed.
func (kw *KeyWatcher) addFileToWatcher() error {
	if err := kw.fsWatcher.Add(kw.keysFile); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to watch file %s: %w", kw.keysFile, err)
		}
		if kw.logger != nil {
			kw.logger.Info("API keys file does not exist yet, watching directory",
				"file", kw.keysFile)
		}
	}

	dir := filepath.Dir(kw.keysFile)
	if err := kw.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	return nil
}

// hasFileChanged checks if the keys file has been modified since last check
func (kw *KeyWatcher) hasFileChanged() bool {
	stat, err := os.Stat(kw.keysFile)
	if err != nil {
		if os.IsNotExist(err) && !kw.lastModTime.IsZero() {
			// File was deleted
			kw.lastModTime = time.Time{}
			return true
		}
		return false
	}

	if kw.lastModTime.IsZero() || stat.ModTime().After(kw.lastModTime) {
		kw.lastModTime = stat.ModTime()
		return true
	}

	return false
}

// watchLoop is the main event loop for file watching
func (kw *KeyWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-kw.fsWatcher.Events:
			if !ok {
				return
			}

			if kw.shouldProcessEvent(event) {
				kw.scheduleReload()
			}

		case err, ok := <-kw.fsWatcher.Errors:
			if !ok {
				return
			}
			if kw.logger != nil {
				kw.logger.LogError(err, "File watcher error")
			}

		case <-kw.reloadChan:
			// Debounced reload trigger
			if kw.hasFileChanged() {
				if kw.logger != nil {
					kw.logger.Info("API keys file changed, triggering reload")
				}
				kw.reloadCallback()
			}

		case <-kw.stopChan:
			return
		}
	}
}

// shouldProcessEvent determines if a file system event should trigger a reload check
func (kw *KeyWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Name != kw.keysFile && filepath.Base(event.Name) != filepath.Base(kw.keysFile) {
		return false
	}

	// Process write, create, and rename events
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

// scheduleReload schedules a debounced reload
func (kw *KeyWatcher) scheduleReload() {
	kw.mu.Lock()
	defer kw.mu.Unlock()

	if kw.debounceTimer != nil {
		kw.debounceTimer.Stop()
	}

	kw.debounceTimer = time.AfterFunc(kw.debounceDelay, func() {
		select {
		case kw.reloadChan <- struct{}{}:
			// Reload scheduled
		default:
			// Channel is full, reload already scheduled
		}
	})
}

// IsRunning returns whether the watcher is currently running
func (kw *KeyWatcher) IsRunning() bool {
	kw.mu.RLock()
	defer kw.mu.RUnlock()
	return kw.running
}

// WatchedFile returns the path of the file being watched
func (kw *KeyWatcher) WatchedFile() string {
	return kw.keysFile
}
