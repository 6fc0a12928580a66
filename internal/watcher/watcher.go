package watcher

import (
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/JustinTDCT/SkipVault/internal/repository"
)

// OnLibraryChange is called (debounced) when files change under a library.
type OnLibraryChange func(libraryID uuid.UUID)

// Watcher monitors library folders for filesystem changes and triggers a
// candidate re-sync when episodes appear or disappear.
type Watcher struct {
	libRepo  *repository.LibraryRepository
	callback OnLibraryChange
	watcher  *fsnotify.Watcher

	mu       sync.Mutex
	watched  map[string]uuid.UUID // folder path → library ID
	debounce map[uuid.UUID]*time.Timer
	stop     chan struct{}
}

// New creates a filesystem watcher.
func New(libRepo *repository.LibraryRepository, cb OnLibraryChange) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		libRepo:  libRepo,
		callback: cb,
		watcher:  fw,
		watched:  make(map[string]uuid.UUID),
		debounce: make(map[uuid.UUID]*time.Timer),
		stop:     make(chan struct{}),
	}, nil
}

// Start begins watching all watch-enabled libraries.
func (w *Watcher) Start() {
	go w.eventLoop()
	w.Refresh()
	log.Println("[watcher] filesystem watcher started")
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	close(w.stop)
	w.watcher.Close()
}

// Refresh reloads the set of watched library folders.
func (w *Watcher) Refresh() {
	libs, err := w.libRepo.GetWatchEnabled()
	if err != nil {
		log.Printf("[watcher] error loading watch-enabled libraries: %v", err)
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	desired := make(map[string]uuid.UUID)
	for _, lib := range libs {
		desired[lib.Path] = lib.ID
	}

	for p := range w.watched {
		if _, ok := desired[p]; !ok {
			w.watcher.Remove(p)
			delete(w.watched, p)
		}
	}

	for p, libID := range desired {
		if _, ok := w.watched[p]; ok {
			continue
		}
		if err := w.addRecursive(p, libID); err != nil {
			log.Printf("[watcher] error adding %s: %v", p, err)
		}
	}

	log.Printf("[watcher] watching %d paths across %d libraries", len(w.watched), len(libs))
}

func (w *Watcher) addRecursive(root string, libID uuid.UUID) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible dirs
		}
		if info.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				return nil
			}
			w.watched[path] = libID
		}
		return nil
	})
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if libID, ok := w.lookupLibrary(ev.Name); ok {
				w.scheduleCallback(libID)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[watcher] error: %v", err)
		case <-w.stop:
			return
		}
	}
}

func (w *Watcher) lookupLibrary(path string) (uuid.UUID, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	dir := filepath.Dir(path)
	for dir != "/" && dir != "." {
		if libID, ok := w.watched[dir]; ok {
			return libID, true
		}
		dir = filepath.Dir(dir)
	}
	return uuid.Nil, false
}

// scheduleCallback debounces bursts of events (a season being copied in)
// into one callback per library.
func (w *Watcher) scheduleCallback(libID uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.debounce[libID]; ok {
		timer.Reset(30 * time.Second)
		return
	}
	w.debounce[libID] = time.AfterFunc(30*time.Second, func() {
		w.mu.Lock()
		delete(w.debounce, libID)
		w.mu.Unlock()
		log.Printf("[watcher] library %s changed, triggering re-sync", libID)
		w.callback(libID)
	})
}
