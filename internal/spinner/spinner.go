// Package spinner draws a progress indicator on stderr while textvec loads
// sources and fits vectorizers.
package spinner

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

var defaultFrames = []string{"◜", "◠", "◝", "◞", "◡", "◟"}

// Spinner is a spinning progress indicator with an optional done/total
// counter.
type Spinner struct {
	frames []string
	delay  time.Duration
	writer io.Writer

	mu          sync.RWMutex
	active      bool
	message     string
	done, total int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a spinner writing to writer. Cancelling ctx stops the animation.
func New(ctx context.Context, writer io.Writer, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		frames:  defaultFrames,
		delay:   100 * time.Millisecond,
		writer:  writer,
		message: message,
		ctx:     spinnerCtx,
		cancel:  cancel,
	}
}

// Interactive reports whether w is a terminal, where a spinner is useful.
func Interactive(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Run shows a spinner on w while fn runs, unless w is not a terminal.
func Run(ctx context.Context, w io.Writer, message string, fn func(*Spinner) error) error {
	s := New(ctx, w, message)
	if Interactive(w) {
		s.Start()
		defer s.Stop()
	}
	return fn(s)
}

// Start begins the animation. Starting a running spinner does nothing.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active {
		return
	}
	s.active = true
	s.wg.Add(1)
	go s.run()
}

// Stop ends the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	if Interactive(s.writer) {
		fmt.Fprint(s.writer, "\r\033[2K")
	} else {
		fmt.Fprint(s.writer, "\r")
	}
}

// IsActive returns whether the spinner is currently running.
func (s *Spinner) IsActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// UpdateMessage replaces the message.
func (s *Spinner) UpdateMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// Progress sets the counter shown after the message; a total of 0 hides it.
func (s *Spinner) Progress(done, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.done, s.total = done, total
}

// line renders the current frame.
func (s *Spinner) line(frame int) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	glyph := s.frames[frame%len(s.frames)]
	if s.total > 0 {
		return fmt.Sprintf("\r%s %s (%d/%d)", glyph, s.message, s.done, s.total)
	}
	return fmt.Sprintf("\r%s %s", glyph, s.message)
}

func (s *Spinner) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.delay)
	defer ticker.Stop()
	for frame := 0; ; frame++ {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			fmt.Fprint(s.writer, s.line(frame))
		}
	}
}
