package downloader

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"

	"github.com/Electron-Minecraft-Launcher/EML-Lib/pkg/manifest"
)

// chunkSize is the read buffer size for network-to-disk streaming. One
// throughput sample and one progress event are produced per chunk.
const chunkSize = 32 * 1024

// transfer performs one attempt at fetching entry to its destination.
// Any transport or I/O fault is returned to the retry loop with this
// attempt's bytes already rolled back from the batch counters. Stale
// partial content is left on disk; the next attempt overwrites it.
func (d *Downloader) transfer(ctx context.Context, st *batchState, entry manifest.FileDescriptor, dest string) error {
	path := entry.Dest(dest)

	if err := d.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	resp, err := d.client.Get(ctx, entry.URL)
	if err != nil {
		return fmt.Errorf("get %s: %w", entry.URL, err)
	}
	defer resp.Body.Close()

	f, err := d.fs.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	var attemptBytes int64
	buf := make([]byte, chunkSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := f.Write(buf[:n]); writeErr != nil {
				f.Close()
				st.rollback(attemptBytes)
				return fmt.Errorf("write %s: %w", path, writeErr)
			}
			attemptBytes += int64(n)
			d.recordChunk(st, entry.Kind, int64(n))
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			f.Close()
			st.rollback(attemptBytes)
			return fmt.Errorf("read body: %w", readErr)
		}
	}

	if err := f.Close(); err != nil {
		st.rollback(attemptBytes)
		return fmt.Errorf("close %s: %w", path, err)
	}

	if entry.Executable && runtime.GOOS != "windows" {
		if err := d.markExecutable(path); err != nil {
			st.rollback(attemptBytes)
			return err
		}
	}

	return nil
}

// markExecutable adds owner/group/other execute bits to the written
// file. Callers skip this on platforms without a POSIX permission
// model.
func (d *Downloader) markExecutable(path string) error {
	info, err := d.fs.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := d.fs.Chmod(path, info.Mode()|0o111); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	return nil
}
