package session

import (
	"context"
	"os"
	"path/filepath"

	"github.com/yndnr/rentdesk-go/internal/infra/confloader"
)

// Watch resyncs the store whenever the file at path changes on disk, so
// a sign-in or sign-out in another process is picked up. Call the
// returned stop function to end watching.
func (s *Store) Watch(path string) (stop func() error, err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}

	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(s.logger.Slog()))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		w.Stop()
		return nil, err
	}

	target := filepath.Clean(path)
	w.OnChange(func(changed string) {
		if filepath.Clean(changed) != target {
			return
		}
		if err := s.Resync(context.Background()); err != nil {
			s.logger.Warn("resync session", "error", err)
		}
	})
	w.StartAsync()

	return w.Stop, nil
}
