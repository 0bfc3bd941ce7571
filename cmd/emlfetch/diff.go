package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Electron-Minecraft-Launcher/EML-Lib/internal/config"
	"github.com/Electron-Minecraft-Launcher/EML-Lib/internal/progress"
	"github.com/Electron-Minecraft-Launcher/EML-Lib/pkg/downloader"
	"github.com/Electron-Minecraft-Launcher/EML-Lib/pkg/manifest"
)

func runDiff(args []string) int {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)

	configPath := fs.String("config", "", "Path to YAML config file")
	manifestPath := fs.String("manifest", "", "Manifest file (required unless set in config)")
	dest := fs.String("dest", "", "Destination directory (required unless set in config)")
	skipExisting := fs.Bool("skip-existing", false, "Treat every manifest file as stale")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: emlfetch diff [options]

Compare the manifest against the destination directory and list the
files that would be downloaded, without fetching anything. Useful for
"verify install" flows.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return ExitInvalidArgs
	}

	cfg, code := loadConfig(*configPath, config.Config{
		Manifest:     *manifestPath,
		Dest:         *dest,
		SkipExisting: *skipExisting,
	})
	if code != ExitSuccess {
		return code
	}

	entries, err := manifest.Load(cfg.Manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitManifestError
	}

	dl := downloader.New(downloader.Options{Logger: newLogger(cfg.Verbose)})

	set, err := dl.ComputeDownloadSet(context.Background(), entries, cfg.Dest, cfg.SkipExisting)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitGeneralError
	}

	if len(set) == 0 {
		fmt.Println("All manifest files are up to date.")
		return ExitSuccess
	}

	var totalSize int64
	for _, entry := range set {
		fmt.Printf("%-12s %s\n",
			progress.FormatBytes(entry.Size),
			filepath.ToSlash(filepath.Join(entry.Path, entry.Name)),
		)
		totalSize += entry.Size
	}
	fmt.Printf("\n%d files to download, %s total\n", len(set), progress.FormatBytes(totalSize))

	return ExitSuccess
}
