package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/Electron-Minecraft-Launcher/EML-Lib/internal/config"
	emlhttp "github.com/Electron-Minecraft-Launcher/EML-Lib/internal/http"
	"github.com/Electron-Minecraft-Launcher/EML-Lib/internal/progress"
	"github.com/Electron-Minecraft-Launcher/EML-Lib/pkg/downloader"
	"github.com/Electron-Minecraft-Launcher/EML-Lib/pkg/manifest"
)

func runFetch(args []string) int {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)

	configPath := fs.String("config", "", "Path to YAML config file")
	manifestPath := fs.String("manifest", "", "Manifest file (required unless set in config)")
	dest := fs.String("dest", "", "Destination directory (required unless set in config)")
	workers := fs.Int("workers", 0, "Number of concurrent transfers")
	skipExisting := fs.Bool("skip-existing", false, "Fetch every manifest file, ignoring local copies")
	showProgress := fs.Bool("progress", false, "Print live progress")
	verbose := fs.Bool("verbose", false, "Enable debug logging")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: emlfetch fetch [options]

Resolve the manifest against the destination directory and download
the missing or stale files with a fixed pool of workers.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg, code := loadConfig(*configPath, config.Config{
		Manifest:     *manifestPath,
		Dest:         *dest,
		Workers:      *workers,
		SkipExisting: *skipExisting,
		Progress:     *showProgress,
		Verbose:      *verbose,
	})
	if code != ExitSuccess {
		return code
	}

	entries, err := manifest.Load(cfg.Manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitManifestError
	}

	dl := downloader.New(downloader.Options{
		Workers:     cfg.Workers,
		MaxAttempts: cfg.Retry.Attempts,
		RetryDelay:  cfg.Retry.Delay,
		HTTP: emlhttp.Options{
			MaxIdleConnsPerHost: 100,
			Timeout:             cfg.HTTPTimeout,
		},
		Logger: newLogger(cfg.Verbose),
	})

	if cfg.Progress {
		printer := attachPrinter(dl, cfg.Workers)
		defer printer.Stop()
	}

	err = dl.Download(context.Background(), entries, cfg.Dest, cfg.SkipExisting)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var batchErr *downloader.BatchError
		if errors.As(err, &batchErr) {
			fmt.Fprintf(os.Stderr, "Downloaded %d files (%s) before the batch aborted\n",
				batchErr.Downloaded.Amount,
				progress.FormatBytes(batchErr.Downloaded.Size),
			)
		}
		return ExitDownloadFailed
	}

	return ExitSuccess
}

// loadConfig layers file, environment, and flag overrides.
func loadConfig(path string, overrides config.Config) (config.Config, int) {
	cfg := config.Default()

	if path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return config.Config{}, ExitGeneralError
		}
		cfg = loaded
	}

	if err := cfg.LoadFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return config.Config{}, ExitGeneralError
	}

	cfg = cfg.Merge(overrides)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return config.Config{}, ExitInvalidArgs
	}

	return cfg, ExitSuccess
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// attachPrinter wires a console printer to the downloader's events.
// Totals come from the progress events themselves, so the printer
// reflects the resolved download set rather than the full manifest.
func attachPrinter(dl *downloader.Downloader, workers int) *progress.Printer {
	printer := progress.NewPrinter(progress.PrinterOptions{
		Workers: workers,
	})
	printer.Start()

	dl.Subscribe(func(ev downloader.Event) {
		switch ev.Type {
		case downloader.EventProgress:
			printer.Update(
				ev.Progress.Total.Amount,
				ev.Progress.Total.Size,
				ev.Progress.Downloaded.Amount,
				ev.Progress.Downloaded.Size,
				ev.Progress.Speed,
				ev.Progress.ETA,
			)
		case downloader.EventError:
			printer.FileFailed(ev.Error.Filename, ev.Error.Message)
		case downloader.EventEnd:
			// Progress events trail the last file-completion bump, so
			// settle the counters from the final totals.
			printer.Update(
				ev.End.Downloaded.Amount,
				ev.End.Downloaded.Size,
				ev.End.Downloaded.Amount,
				ev.End.Downloaded.Size,
				0, 0,
			)
		}
	})

	return printer
}
