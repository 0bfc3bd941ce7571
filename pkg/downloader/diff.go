package downloader

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/Electron-Minecraft-Launcher/EML-Lib/pkg/manifest"
)

// ComputeDownloadSet compares manifest entries against local state
// under dest and returns the entries that must be fetched, in manifest
// order.
//
// Folder entries are created (recursively) if absent and never
// included in the set. File entries are included when they are missing
// locally, or when the manifest carries a SHA-1 and the local content
// does not match it. With skipExisting, every file entry with a URL is
// included without touching the local copy.
//
// Per-entry checks are independent I/O and run concurrently.
func (d *Downloader) ComputeDownloadSet(ctx context.Context, entries []manifest.FileDescriptor, dest string, skipExisting bool) ([]manifest.FileDescriptor, error) {
	needed := make([]bool, len(entries))

	var g errgroup.Group
	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			switch entry.Kind {
			case manifest.KindFolder:
				if err := d.fs.MkdirAll(entry.Dest(dest), 0o755); err != nil {
					return fmt.Errorf("create folder %s: %w", entry.Name, err)
				}
				return nil

			case manifest.KindFile:
				if entry.URL == "" {
					return nil
				}
				if skipExisting {
					needed[i] = true
					return nil
				}
				current, err := d.upToDate(entry, dest)
				if err != nil {
					return fmt.Errorf("check %s: %w", entry.Name, err)
				}
				needed[i] = !current
				return nil

			default:
				return fmt.Errorf("entry %s: unknown type %q", entry.Name, entry.Kind)
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var set []manifest.FileDescriptor
	for i, entry := range entries {
		if needed[i] {
			set = append(set, entry)
		}
	}
	return set, nil
}

// upToDate reports whether the local copy of entry can be kept. Without
// a manifest hash, existence alone is enough.
func (d *Downloader) upToDate(entry manifest.FileDescriptor, dest string) (bool, error) {
	path := entry.Dest(dest)

	exists, err := afero.Exists(d.fs, path)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}
	if entry.SHA1 == "" {
		return true, nil
	}

	sum, err := d.hashFile(path)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(sum, entry.SHA1), nil
}

func (d *Downloader) hashFile(path string) (string, error) {
	f, err := d.fs.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
