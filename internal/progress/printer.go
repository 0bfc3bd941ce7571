package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// PrinterOptions configures the console printer.
type PrinterOptions struct {
	// Workers is the number of parallel workers (for the header line).
	Workers int

	// Output is where to write progress output.
	// Default: os.Stderr
	Output io.Writer

	// UpdateInterval is how often to redraw the progress line.
	// Default: 500ms
	UpdateInterval time.Duration
}

// Printer outputs human-readable batch progress. It is fed from
// downloader events and redraws on its own ticker, so a fast chunk
// rate does not flood the terminal.
type Printer struct {
	opts PrinterOptions

	totalFiles      atomic.Int64
	totalBytes      atomic.Int64
	downloadedFiles atomic.Int64
	downloadedBytes atomic.Int64
	speed           atomic.Int64
	eta             atomic.Int64

	mu        sync.Mutex
	startTime time.Time
	stopCh    chan struct{}
	doneCh    chan struct{}
	started   bool
	stopped   bool
}

// NewPrinter creates a console printer.
func NewPrinter(opts PrinterOptions) *Printer {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.UpdateInterval == 0 {
		opts.UpdateInterval = 500 * time.Millisecond
	}

	return &Printer{
		opts:   opts,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start prints the header and begins the redraw loop.
func (p *Printer) Start() {
	p.mu.Lock()
	p.started = true
	p.startTime = time.Now()
	p.mu.Unlock()

	fmt.Fprintf(p.opts.Output, "[eml] Starting download | Workers: %d\n", p.opts.Workers)

	go p.updateLoop()
}

// Stop stops the redraw loop and prints the final status line. It
// returns after the final line is written. Safe to call more than
// once.
func (p *Printer) Stop() {
	p.mu.Lock()
	started := p.started
	stopped := p.stopped
	p.stopped = true
	p.mu.Unlock()

	if !started {
		return
	}
	if !stopped {
		close(p.stopCh)
	}
	<-p.doneCh
}

// Update records the latest batch counters from a progress event.
func (p *Printer) Update(totalFiles int, totalBytes int64, downloadedFiles int, downloadedBytes int64, speed float64, eta int64) {
	p.totalFiles.Store(int64(totalFiles))
	p.totalBytes.Store(totalBytes)
	p.downloadedFiles.Store(int64(downloadedFiles))
	p.downloadedBytes.Store(downloadedBytes)
	p.speed.Store(int64(speed))
	p.eta.Store(eta)
}

// FileFailed prints a failure line for a file that exhausted its
// retries.
func (p *Printer) FileFailed(name, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.opts.Output, "\n[eml] Failed: %s: %s\n", name, message)
}

func (p *Printer) updateLoop() {
	ticker := time.NewTicker(p.opts.UpdateInterval)
	defer ticker.Stop()
	defer close(p.doneCh)

	for {
		select {
		case <-p.stopCh:
			p.printFinal()
			return
		case <-ticker.C:
			p.printProgress()
		}
	}
}

func (p *Printer) printProgress() {
	downloaded := p.downloadedBytes.Load()
	total := p.totalBytes.Load()

	var percent float64
	if total > 0 {
		percent = float64(downloaded) / float64(total) * 100
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.opts.Output, "\r[eml] %.1f%% | %s / %s | %d/%d files | %s/s | ETA: %s    ",
		percent,
		FormatBytes(downloaded),
		FormatBytes(total),
		p.downloadedFiles.Load(),
		p.totalFiles.Load(),
		FormatBytes(p.speed.Load()),
		FormatSeconds(p.eta.Load()),
	)
}

func (p *Printer) printFinal() {
	downloaded := p.downloadedBytes.Load()
	duration := time.Since(p.startTime)

	var avgSpeed float64
	if duration > 0 {
		avgSpeed = float64(downloaded) / duration.Seconds()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.opts.Output, "\r[eml] Done: %d/%d files | %s | Average speed: %s/s    \n",
		p.downloadedFiles.Load(),
		p.totalFiles.Load(),
		FormatBytes(downloaded),
		FormatBytes(int64(avgSpeed)),
	)
}
