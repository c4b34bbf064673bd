package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"src.rvim.sh/pkg/diag"
)

// Changes arriving within this period after a run are merged into one re-run.
var watchSettle = 50 * time.Millisecond

// watch runs a script, and runs it again each time the file changes, until
// stop is closed. The directory is watched rather than the file itself, since
// many editors save by replacing the file.
func watch(s *Session, fds [3]*os.File, path string, stop <-chan struct{}) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	run := func() {
		if err := s.SourceFile(abs); err != nil {
			diag.ShowError(fds[2], err)
		}
	}
	run()
	var settle <-chan time.Time
	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs ||
				!event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			logger.Println("watched file changed:", event)
			if settle == nil {
				settle = time.After(watchSettle)
			}
		case <-settle:
			settle = nil
			fmt.Fprintf(fds[2], "%s changed, running again\n", path)
			run()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(fds[2], "watch error:", err)
		case <-stop:
			return nil
		}
	}
}
