package progress

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncWriter makes a bytes.Buffer safe for the printer's redraw
// goroutine.
type syncWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *syncWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

func TestPrinterOutput(t *testing.T) {
	out := &syncWriter{}
	printer := NewPrinter(PrinterOptions{
		Workers:        5,
		Output:         out,
		UpdateInterval: 10 * time.Millisecond,
	})

	printer.Start()
	printer.Update(3, 600, 2, 400, 100, 2)
	time.Sleep(50 * time.Millisecond)
	printer.Stop()

	got := out.String()
	if !strings.Contains(got, "Workers: 5") {
		t.Errorf("expected header with worker count, got %q", got)
	}
	if !strings.Contains(got, "2/3 files") {
		t.Errorf("expected file counters in progress line, got %q", got)
	}
	if !strings.Contains(got, "Done: 2/3 files") {
		t.Errorf("expected final status line, got %q", got)
	}
}

func TestPrinterStopIsIdempotent(t *testing.T) {
	printer := NewPrinter(PrinterOptions{Output: &syncWriter{}})
	printer.Start()
	printer.Stop()
	printer.Stop()
}

func TestPrinterFileFailed(t *testing.T) {
	out := &syncWriter{}
	printer := NewPrinter(PrinterOptions{Output: out})

	printer.FileFailed("client.jar", "server error")

	if got := out.String(); !strings.Contains(got, "Failed: client.jar: server error") {
		t.Errorf("expected failure line, got %q", got)
	}
}
