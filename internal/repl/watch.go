package repl

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch re-runs run every time path changes on disk, debouncing bursts of
// events (editors often emit several in a row for one save: a temp-file
// write followed by a rename over the original). It watches path's
// containing directory rather than the file itself, since a rename-based
// save replaces the inode fsnotify was watching.
func Watch(path string, out io.Writer, run func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	target := filepath.Clean(path)
	fmt.Fprintf(out, "%s %s\n", dim("watching"), target)
	run()

	var pending *time.Timer
	const debounce = 150 * time.Millisecond
	fire := make(chan struct{}, 1)

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			fmt.Fprintf(out, "%s %s\n", dim("change detected, re-running"), target)
			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "%s %v\n", red("watch error:"), err)
		}
	}
}
