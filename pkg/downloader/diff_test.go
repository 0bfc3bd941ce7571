package downloader

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/Electron-Minecraft-Launcher/EML-Lib/pkg/manifest"
)

func sha1Hex(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

func newDiffDownloader(fs afero.Fs) *Downloader {
	return New(Options{FS: fs})
}

func TestComputeDownloadSetMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	dl := newDiffDownloader(fs)

	entries := []manifest.FileDescriptor{
		{Name: "client.jar", Kind: manifest.KindFile, URL: "https://example.com/client.jar", Size: 10},
	}

	set, err := dl.ComputeDownloadSet(context.Background(), entries, "/install", false)
	require.NoError(t, err)
	require.Len(t, set, 1)
	require.Equal(t, "client.jar", set[0].Name)
}

func TestComputeDownloadSetExistenceIsEnoughWithoutHash(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/install/client.jar", []byte("anything"), 0o644))

	dl := newDiffDownloader(fs)

	entries := []manifest.FileDescriptor{
		{Name: "client.jar", Kind: manifest.KindFile, URL: "https://example.com/client.jar", Size: 10},
	}

	set, err := dl.ComputeDownloadSet(context.Background(), entries, "/install", false)
	require.NoError(t, err)
	require.Empty(t, set)
}

func TestComputeDownloadSetHashMatch(t *testing.T) {
	content := []byte("game asset content")

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/install/assets/a.dat", content, 0o644))

	dl := newDiffDownloader(fs)

	entries := []manifest.FileDescriptor{
		{Path: "assets", Name: "a.dat", Kind: manifest.KindFile, URL: "https://example.com/a.dat", SHA1: sha1Hex(content)},
	}

	set, err := dl.ComputeDownloadSet(context.Background(), entries, "/install", false)
	require.NoError(t, err)
	require.Empty(t, set)
}

func TestComputeDownloadSetHashMatchIsCaseInsensitive(t *testing.T) {
	content := []byte("game asset content")

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/install/a.dat", content, 0o644))

	dl := newDiffDownloader(fs)

	entries := []manifest.FileDescriptor{
		{Name: "a.dat", Kind: manifest.KindFile, URL: "https://example.com/a.dat", SHA1: strings.ToUpper(sha1Hex(content))},
	}

	set, err := dl.ComputeDownloadSet(context.Background(), entries, "/install", false)
	require.NoError(t, err)
	require.Empty(t, set)
}

func TestComputeDownloadSetHashMismatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/install/a.dat", []byte("old content"), 0o644))

	dl := newDiffDownloader(fs)

	entries := []manifest.FileDescriptor{
		{Name: "a.dat", Kind: manifest.KindFile, URL: "https://example.com/a.dat", SHA1: sha1Hex([]byte("new content"))},
	}

	set, err := dl.ComputeDownloadSet(context.Background(), entries, "/install", false)
	require.NoError(t, err)
	require.Len(t, set, 1)
}

func TestComputeDownloadSetSkipExisting(t *testing.T) {
	content := []byte("current")

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/install/a.dat", content, 0o644))

	dl := newDiffDownloader(fs)

	entries := []manifest.FileDescriptor{
		{Name: "a.dat", Kind: manifest.KindFile, URL: "https://example.com/a.dat", SHA1: sha1Hex(content)},
		{Name: "local-only.dat", Kind: manifest.KindFile},
	}

	set, err := dl.ComputeDownloadSet(context.Background(), entries, "/install", true)
	require.NoError(t, err)

	// Every file with a URL is included unconditionally; entries
	// without a URL are never queued.
	require.Len(t, set, 1)
	require.Equal(t, "a.dat", set[0].Name)
}

func TestComputeDownloadSetCreatesFolders(t *testing.T) {
	fs := afero.NewMemMapFs()
	dl := newDiffDownloader(fs)

	entries := []manifest.FileDescriptor{
		{Path: "saves/world1", Name: "region", Kind: manifest.KindFolder},
		{Name: "client.jar", Kind: manifest.KindFile, URL: "https://example.com/client.jar"},
	}

	set, err := dl.ComputeDownloadSet(context.Background(), entries, "/install", false)
	require.NoError(t, err)

	isDir, err := afero.IsDir(fs, "/install/saves/world1/region")
	require.NoError(t, err)
	require.True(t, isDir)

	// Folders are never part of the download set.
	require.Len(t, set, 1)
	require.Equal(t, "client.jar", set[0].Name)
}

func TestComputeDownloadSetPreservesManifestOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	dl := newDiffDownloader(fs)

	var entries []manifest.FileDescriptor
	for _, name := range []string{"one", "two", "three", "four"} {
		entries = append(entries, manifest.FileDescriptor{
			Name: name,
			Kind: manifest.KindFile,
			URL:  "https://example.com/" + name,
		})
	}

	set, err := dl.ComputeDownloadSet(context.Background(), entries, "/install", false)
	require.NoError(t, err)
	require.Len(t, set, 4)
	for i, entry := range entries {
		require.Equal(t, entry.Name, set[i].Name)
	}
}
