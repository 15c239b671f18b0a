// Package watcher reports debounced changes of mesh files so that the
// meshes compared against each other can be reloaded.
package watcher

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the bursts of events editors and exporters
// produce while writing a file.
const DefaultDebounce = 500 * time.Millisecond

// FileWatcher calls a callback when a watched file changes
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	mu        sync.Mutex
	callbacks map[string]func(string)
	debounce  time.Duration
	timers    map[string]*time.Timer
	done      chan struct{}
	Logger    *log.Logger
}

// NewFileWatcher creates a new file watcher
func NewFileWatcher(debounce time.Duration) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &FileWatcher{
		watcher:   w,
		callbacks: make(map[string]func(string)),
		debounce:  debounce,
		timers:    make(map[string]*time.Timer),
		done:      make(chan struct{}),
		Logger:    log.Default(),
	}, nil
}

// Watch adds files. callback receives the absolute path of the file
// that changed.
func (fw *FileWatcher) Watch(files []string, callback func(string)) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}
		if err := fw.watcher.Add(absPath); err != nil {
			return fmt.Errorf("failed to watch %s: %w", absPath, err)
		}
		fw.callbacks[absPath] = callback
	}
	return nil
}

// Start processes events in the background until Close is called.
func (fw *FileWatcher) Start() {
	go func() {
		defer close(fw.done)
		for {
			select {
			case event, ok := <-fw.watcher.Events:
				if !ok {
					return
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					fw.handleFileChange(event.Name)
				}
				// Files replaced by rename lose their watch.
				if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					fw.rewatch(event.Name)
				}

			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return
				}
				fw.Logger.Printf("watcher error: %v", err)
			}
		}
	}()
}

func (fw *FileWatcher) rewatch(filePath string) {
	time.AfterFunc(fw.debounce, func() {
		fw.mu.Lock()
		_, watched := fw.callbacks[filePath]
		fw.mu.Unlock()
		if !watched {
			return
		}
		if err := fw.watcher.Add(filePath); err != nil {
			fw.Logger.Printf("lost watch on %s: %v", filePath, err)
			return
		}
		fw.handleFileChange(filePath)
	})
}

// handleFileChange restarts the debounce timer of a file.
func (fw *FileWatcher) handleFileChange(filePath string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	callback, exists := fw.callbacks[filePath]
	if !exists {
		return
	}
	if timer, exists := fw.timers[filePath]; exists {
		timer.Stop()
	}
	fw.timers[filePath] = time.AfterFunc(fw.debounce, func() {
		callback(filePath)
	})
}

// Close stops the watcher and cancels pending callbacks.
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	for _, timer := range fw.timers {
		timer.Stop()
	}
	fw.callbacks = make(map[string]func(string))
	fw.mu.Unlock()
	return fw.watcher.Close()
}

// Done is closed when the event loop started by Start has exited.
func (fw *FileWatcher) Done() <-chan struct{} {
	return fw.done
}
