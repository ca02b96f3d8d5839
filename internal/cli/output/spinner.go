package output

import (
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/term"
)

// Spinner displays a loading animation while a page loads.
//
// A disabled spinner draws nothing, which keeps redirected stderr free of
// control characters.
type Spinner struct {
	w        io.Writer
	message  string
	frames   []string
	interval time.Duration
	enabled  bool

	mu       sync.Mutex
	started  bool
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewSpinner creates a spinner that always draws to w.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:        w,
		message:  message,
		frames:   []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		interval: 100 * time.Millisecond,
		enabled:  true,
		done:     make(chan struct{}),
	}
}

// NewTerminalSpinner creates a spinner that only draws when w is a terminal.
func NewTerminalSpinner(w io.Writer, message string) *Spinner {
	s := NewSpinner(w, message)
	s.enabled = IsTerminal(w)
	return s
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// Enabled reports whether the spinner draws anything.
func (s *Spinner) Enabled() bool {
	return s.enabled
}

// Start starts the animation. Calling Start more than once has no effect.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled || s.started {
		return
	}
	s.started = true

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			fmt.Fprintf(s.w, "\r%s %s", s.frames[i%len(s.frames)], s.message)
			select {
			case <-s.done:
				return
			case <-ticker.C:
			}
		}
	}()
}

// stop ends the animation and waits for the drawing goroutine to exit, so
// nothing is written to w after it returns. It reports whether the line
// needs clearing.
func (s *Spinner) stop() bool {
	s.stopOnce.Do(func() { close(s.done) })
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Stop stops the spinner and clears the line.
func (s *Spinner) Stop() {
	if s.stop() {
		fmt.Fprint(s.w, "\r\033[K")
	}
}

// Success stops the spinner with a success message.
func (s *Spinner) Success(message string) {
	s.finish("✓", message)
}

// Fail stops the spinner with a failure message.
func (s *Spinner) Fail(message string) {
	s.finish("✗", message)
}

func (s *Spinner) finish(mark, message string) {
	if !s.enabled {
		s.stop()
		return
	}
	if s.stop() {
		fmt.Fprint(s.w, "\r\033[K")
	}
	fmt.Fprintf(s.w, "%s %s\n", mark, message)
}
