package prefabs

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchQuiet = 100 * time.Millisecond

// SceneChange reports that a scene file settled after a burst of edits.
// Removed is set when the last event seen for the scene removed or renamed it.
type SceneChange struct {
	Scene   string
	Path    string
	Removed bool
}

// Watcher coalesces file events in the watched directories into one
// SceneChange per scene, sent once the scene has been quiet for a short while.
// Changes and Errors are closed once the watcher stops.
type Watcher struct {
	fs      *fsnotify.Watcher
	Changes chan SceneChange
	Errors  chan error
	quiet   time.Duration
	stop    chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	return newWatcher(watchQuiet, dirs...)
}

func newWatcher(quiet time.Duration, dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fs:      fw,
		Changes: make(chan SceneChange, 16),
		Errors:  make(chan error, 1),
		quiet:   quiet,
		stop:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Changes)
	defer close(w.Errors)

	pending := make(map[string]SceneChange)
	timer := time.NewTimer(w.quiet)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			change, ok := sceneChange(event)
			if !ok {
				continue
			}
			pending[change.Scene] = change
			timer.Reset(w.quiet)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-timer.C:
			names := make([]string, 0, len(pending))
			for name := range pending {
				names = append(names, name)
			}
			slices.Sort(names)
			for _, name := range names {
				select {
				case w.Changes <- pending[name]:
				case <-w.stop:
					return
				}
			}
			clear(pending)
		case <-w.stop:
			return
		}
	}
}

func sceneChange(event fsnotify.Event) (SceneChange, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return SceneChange{}, false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	if ext != ".yaml" && ext != ".yml" {
		return SceneChange{}, false
	}
	return SceneChange{
		Scene:   SceneName(event.Name),
		Path:    event.Name,
		Removed: event.Op&(fsnotify.Remove|fsnotify.Rename) != 0,
	}, true
}
