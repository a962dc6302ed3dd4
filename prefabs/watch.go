package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind says which layer of the scene an edited file belongs to.
type ChangeKind string

const (
	ChangePrefab ChangeKind = "prefab"
	ChangeScript ChangeKind = "script"
	ChangeScene  ChangeKind = "scene"
)

// Change is one debounced edit seen by a Watcher.
type Change struct {
	Path string
	Kind ChangeKind
}

// ClassifyChange maps a path to the kind of rebuild it needs. Files the scene
// does not read report false.
func ClassifyChange(path string) (ChangeKind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ChangePrefab, true
	case ".tengo":
		return ChangeScript, true
	case ".json":
		return ChangeScene, true
	default:
		return "", false
	}
}

// Watcher reports edits to prefab, script and scene files. Writes to the
// same file within the debounce window are collapsed into one Change.
type Watcher struct {
	Changes chan Change
	Errors  chan error

	fs       *fsnotify.Watcher
	debounce time.Duration
	done     chan struct{}
	once     sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		Changes:  make(chan Change, 16),
		Errors:   make(chan error, 1),
		fs:       fsw,
		debounce: 100 * time.Millisecond,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Changes)
	defer close(w.Errors)

	seen := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			kind, ok := ClassifyChange(event.Name)
			if !ok {
				continue
			}
			now := time.Now()
			if last, ok := seen[event.Name]; ok && now.Sub(last) < w.debounce {
				continue
			}
			seen[event.Name] = now
			select {
			case w.Changes <- Change{Path: event.Name, Kind: kind}:
			case <-w.done:
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.done:
			return
		}
	}
}
