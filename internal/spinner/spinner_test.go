package spinner

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestNewSpinner(t *testing.T) {
	var buf bytes.Buffer
	message := "Loading..."

	spinner := New(context.Background(), &buf, message)

	if spinner == nil {
		t.Fatal("New() returned nil")
	}

	if spinner.message != message {
		t.Errorf("Expected message %q, got %q", message, spinner.message)
	}

	if len(spinner.frames) != 6 {
		t.Errorf("Expected 6 frames, got %d", len(spinner.frames))
	}
	if spinner.IsActive() {
		t.Error("New() spinner should not be running")
	}
}

func TestSpinnerStartStop(t *testing.T) {
	var buf bytes.Buffer
	spinner := New(context.Background(), &buf, "Testing...")

	// initially not active
	if spinner.IsActive() {
		t.Error("Spinner should not be active initially")
	}

	// start spinner
	spinner.Start()

	if !spinner.IsActive() {
		t.Error("Spinner should be active after Start()")
	}

	// allow some time for spinner to run
	time.Sleep(150 * time.Millisecond)

	// stop spinner
	spinner.Stop()

	if spinner.IsActive() {
		t.Error("Spinner should not be active after Stop()")
	}

	// check that we are writing something to the buffer
	if buf.Len() == 0 {
		t.Error("Expected output to be written to buffer")
	}

	output := buf.String()
	if !strings.ContainsAny(output, strings.Join(defaultFrames, "")) {
		t.Error("Expected spinner frames in output")
	}
}

func TestSpinnerUpdateMessage(t *testing.T) {
	var buf bytes.Buffer
	spinner := New(context.Background(), &buf, "Initial message")

	newMessage := "Updated message"
	spinner.UpdateMessage(newMessage)

	if spinner.message != newMessage {
		t.Errorf("Expected message %q, got %q", newMessage, spinner.message)
	}
}

func TestSpinnerDoubleStart(t *testing.T) {
	var buf bytes.Buffer
	spinner := New(context.Background(), &buf, "Testing...")

	// start the spinner
	spinner.Start()

	if !spinner.IsActive() {
		t.Error("Spinner should be active after first Start()")
	}

	// start it again; should not cause any issues
	spinner.Start()

	if !spinner.IsActive() {
		t.Error("Spinner should still be active after second Start()")
	}

	// clean up
	spinner.Stop()
}

func TestSpinnerDoubleStop(t *testing.T) {
	var buf bytes.Buffer
	spinner := New(context.Background(), &buf, "Testing...")

	// start and stop spinner
	spinner.Start()
	spinner.Stop()

	if spinner.IsActive() {
		t.Error("Spinner should not be active after Stop()")
	}

	// stop again - should not cause issues
	spinner.Stop()

	if spinner.IsActive() {
		t.Error("Spinner should still not be active after second Stop()")
	}
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	spinner := New(context.Background(), &buf, "Testing...")

	// stop without starting - should not cause issues
	spinner.Stop()

	if spinner.IsActive() {
		t.Error("Spinner should not be active after Stop() without Start()")
	}
}

func TestSpinnerOutput(t *testing.T) {
	var buf bytes.Buffer
	spinner := New(context.Background(), &buf, "Processing...")

	spinner.Start()

	// let this run for a bit
	time.Sleep(333 * time.Millisecond)

	spinner.Stop()

	output := buf.String()

	// check that the message appears in the output
	if !strings.Contains(output, "Processing...") {
		t.Error("Expected message to appear in output")
	}

	// check that the output ends with carriage return (for non-terminal output)
	if !strings.HasSuffix(output, "\r") {
		t.Error("Expected output to end with carriage return")
	}
}

func TestSpinnerProgress(t *testing.T) {
	spinner := New(context.Background(), &bytes.Buffer{}, "Loading sources")
	if got := spinner.line(0); got != "\r◜ Loading sources" {
		t.Errorf("line(0) = %q", got)
	}

	spinner.Progress(2, 5)
	if got := spinner.line(1); got != "\r◠ Loading sources (2/5)" {
		t.Errorf("line(1) = %q", got)
	}
}

func TestRunSkipsNonTerminals(t *testing.T) {
	var buf bytes.Buffer
	called := false
	err := Run(context.Background(), &buf, "Fitting", func(s *Spinner) error {
		called = true
		if s.IsActive() {
			t.Error("spinner should not animate on a buffer")
		}
		return nil
	})
	if err != nil || !called {
		t.Fatalf("Run() = %v, called = %v", err, called)
	}
	if buf.Len() != 0 {
		t.Errorf("Run() wrote %q to a non-terminal", buf.String())
	}
	if Interactive(&buf) {
		t.Error("Interactive(buffer) = true")
	}
}
