package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	emlhttp "github.com/Electron-Minecraft-Launcher/EML-Lib/internal/http"
	"github.com/Electron-Minecraft-Launcher/EML-Lib/pkg/manifest"
)

const (
	defaultWorkers     = 5
	defaultMaxAttempts = 5
	defaultRetryDelay  = time.Second
)

// ErrBatchInProgress is returned by Download while another batch is
// running on the same Downloader. Batches are rejected rather than
// queued; callers that need serialization own it.
var ErrBatchInProgress = errors.New("downloader: batch already in progress")

// FileError reports a file whose transfer failed on every attempt.
type FileError struct {
	Filename string
	Kind     manifest.Kind
	Attempts int
	Err      error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("downloader: %s failed after %d attempts: %v", e.Filename, e.Attempts, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// BatchError is returned by Download when any file exhausts its
// retries. Downloaded carries the counters at the moment the batch
// settled, so callers can tell how much work completed before the
// abort.
type BatchError struct {
	Downloaded Counts
	Err        error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("downloader: batch failed: %v", e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }

// Options configures a Downloader.
type Options struct {
	// Workers is the number of concurrent transfers, independent of
	// queue length. Default: 5
	Workers int

	// MaxAttempts is the number of tries per file before it is
	// reported as failed. Default: 5
	MaxAttempts int

	// RetryDelay is the base inter-attempt delay. The wait before
	// retry n is n times this value (linear, not exponential).
	// Default: 1s
	RetryDelay time.Duration

	// HTTP configures the transport client.
	HTTP emlhttp.Options

	// FS is the destination filesystem. Default: the OS filesystem.
	FS afero.Fs

	// Logger receives structured batch logs. Default: discard.
	Logger *slog.Logger
}

// Downloader fetches the missing or stale files of a manifest into a
// local install directory with a fixed-size worker pool.
type Downloader struct {
	opts   Options
	fs     afero.Fs
	client *emlhttp.Client
	log    *slog.Logger

	mu       sync.Mutex
	handlers []Handler

	busy atomic.Bool
}

// New creates a Downloader, applying defaults for zero option values.
func New(opts Options) *Downloader {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	if opts.HTTP.MaxIdleConnsPerHost == 0 {
		opts.HTTP.MaxIdleConnsPerHost = emlhttp.DefaultOptions().MaxIdleConnsPerHost
	}
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Downloader{
		opts:   opts,
		fs:     opts.FS,
		client: emlhttp.NewClient(opts.HTTP),
		log:    opts.Logger,
	}
}

// Download resolves the download set for entries under dest and
// fetches it. It returns once every worker has settled: on a per-file
// failure the failing worker stops, the remaining workers drain the
// queue to natural completion without being cancelled, and the batch
// returns a *BatchError wrapping the first *FileError. The end event
// fires only on full success.
//
// An empty download set, or one whose sizes total zero, short-circuits:
// the end event fires immediately and no request is made.
func (d *Downloader) Download(ctx context.Context, entries []manifest.FileDescriptor, dest string, skipExisting bool) error {
	if !d.busy.CompareAndSwap(false, true) {
		return ErrBatchInProgress
	}
	defer d.busy.Store(false)

	log := d.log.With("batch_id", uuid.NewString())

	set, err := d.ComputeDownloadSet(ctx, entries, dest, skipExisting)
	if err != nil {
		return fmt.Errorf("resolve download set: %w", err)
	}

	st := newBatchState(set)

	if len(set) == 0 || st.totalBytes == 0 {
		log.Info("nothing to download", "manifest_entries", len(entries))
		d.emit(Event{Type: EventEnd, End: &EndEvent{}})
		return nil
	}

	log.Info("batch started",
		"files", st.totalFiles,
		"bytes", st.totalBytes,
		"workers", d.opts.Workers,
	)

	// Buffered channel as the shared FIFO queue: closing after fill
	// gives each descriptor to exactly one worker.
	queue := make(chan manifest.FileDescriptor, len(set))
	for _, entry := range set {
		queue <- entry
	}
	close(queue)

	var g errgroup.Group
	for i := 0; i < d.opts.Workers; i++ {
		g.Go(func() error {
			for entry := range queue {
				if err := d.fetchWithRetry(ctx, log, st, entry, dest); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		downloaded := st.downloaded()
		log.Error("batch failed",
			"error", err,
			"downloaded_files", downloaded.Amount,
			"downloaded_bytes", downloaded.Size,
		)
		return &BatchError{Downloaded: downloaded, Err: err}
	}

	st.mu.Lock()
	end := EndEvent{Downloaded: Counts{Amount: st.downloadedFiles, Size: st.downloadedBytes}}
	d.emit(Event{Type: EventEnd, End: &end})
	st.mu.Unlock()

	log.Info("batch complete",
		"downloaded_files", end.Downloaded.Amount,
		"downloaded_bytes", end.Downloaded.Size,
	)
	return nil
}

// fetchWithRetry runs the bounded retry loop for one file. The wait
// between attempt n and n+1 is n+1 times RetryDelay. After MaxAttempts
// failures it emits the per-file error event and returns a *FileError.
func (d *Downloader) fetchWithRetry(ctx context.Context, log *slog.Logger, st *batchState, entry manifest.FileDescriptor, dest string) error {
	var lastErr error

	for attempt := 0; attempt < d.opts.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * d.opts.RetryDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := d.transfer(ctx, st, entry, dest)
		if err == nil {
			st.fileDone()
			log.Debug("file downloaded", "file", entry.Name)
			return nil
		}

		lastErr = err
		log.Warn("transfer failed",
			"file", entry.Name,
			"attempt", attempt+1,
			"error", err,
		)
	}

	d.emit(Event{Type: EventError, Error: &FileErrorEvent{
		Filename: entry.Name,
		Type:     entry.Kind,
		Message:  lastErr.Error(),
	}})

	return &FileError{
		Filename: entry.Name,
		Kind:     entry.Kind,
		Attempts: d.opts.MaxAttempts,
		Err:      lastErr,
	}
}
