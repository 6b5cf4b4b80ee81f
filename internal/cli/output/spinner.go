package output

import (
	"fmt"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner shows an animated progress indicator while a query runs.
// It writes to stderr so piped stdout stays clean.
type Spinner struct {
	r       *Renderer
	message string

	mu      sync.Mutex
	done    chan struct{}
	stopped bool
}

// NewSpinner creates a spinner with the given message. Callers should
// only start it when output is an interactive terminal.
func (r *Renderer) NewSpinner(message string) *Spinner {
	return &Spinner{r: r, message: message, done: make(chan struct{})}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	go func() {
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		frame := 0
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				_, _ = fmt.Fprintf(s.r.errOut, "\r%s %s",
					s.r.styles.Muted.Render(spinnerFrames[frame%len(spinnerFrames)]), s.message)
				frame++
			}
		}
	}()
}

// Success stops the spinner and prints a success line.
func (s *Spinner) Success(message string) {
	s.stop()
	_, _ = fmt.Fprintf(s.r.errOut, "\r%s %s\n", s.r.styles.Success.Render("✓"), message)
}

// Fail stops the spinner and prints a failure line.
func (s *Spinner) Fail(message string) {
	s.stop()
	_, _ = fmt.Fprintf(s.r.errOut, "\r%s %s\n", s.r.styles.Error.Render("✗"), message)
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	s.stop()
	_, _ = fmt.Fprintf(s.r.errOut, "\r\033[K")
}

func (s *Spinner) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.done)
		s.stopped = true
	}
}
