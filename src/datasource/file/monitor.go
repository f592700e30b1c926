// monitor.go
package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchedExts are the dataset file extensions the monitor reacts to.
var watchedExts = map[string]bool{
	".csv":  true,
	".tsv":  true,
	".xlsx": true,
}

// Monitor watches the dataset directory for files dropped by the
// acquisition step and hands matching paths to a handler.
type Monitor struct {
	watchDir string
	keyword  string
	watcher  *fsnotify.Watcher
	lastFile string
	lastMod  time.Time
	mu       sync.Mutex
}

func NewMonitor(dir, keyword string) (*Monitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	return &Monitor{
		watchDir: dir,
		keyword:  strings.ToLower(keyword),
		watcher:  watcher,
	}, nil
}

// Watch blocks delivering events until the context is cancelled or the
// watcher fails. The handler runs on its own goroutine so a slow reload
// never stalls event delivery.
func (m *Monitor) Watch(ctx context.Context, handler func(string)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !m.matches(event.Name) {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil {
				continue
			}

			m.mu.Lock()
			if info.ModTime().After(m.lastMod) || event.Name != m.lastFile {
				m.lastMod = info.ModTime()
				m.lastFile = event.Name
				go handler(event.Name)
			}
			m.mu.Unlock()
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}

func (m *Monitor) Close() error {
	return m.watcher.Close()
}

func (m *Monitor) matches(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	if !watchedExts[filepath.Ext(name)] {
		return false
	}
	return m.keyword == "" || strings.Contains(name, m.keyword)
}
