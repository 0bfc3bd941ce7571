package manifest

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind classifies a manifest entry.
type Kind string

const (
	KindFile   Kind = "FILE"
	KindFolder Kind = "FOLDER"
)

// UnmarshalYAML accepts the kind in any letter case and rejects
// anything that is not FILE or FOLDER.
func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	switch kind := Kind(strings.ToUpper(s)); kind {
	case KindFile, KindFolder:
		*k = kind
		return nil
	default:
		return fmt.Errorf("manifest: unknown entry type %q", s)
	}
}

// FileDescriptor describes one entry of a launcher manifest: a file to
// fetch or a folder to create under the install root. Descriptors are
// built by the manifest-assembly side and are read-only to the
// downloader.
type FileDescriptor struct {
	// Path is the directory of the entry, relative to the install
	// root, using forward slashes.
	Path string `yaml:"path" json:"path"`

	// Name is the file or folder name.
	Name string `yaml:"name" json:"name"`

	// Kind is FILE or FOLDER.
	Kind Kind `yaml:"type" json:"type"`

	// URL is the fetch source. Empty for folders.
	URL string `yaml:"url,omitempty" json:"url,omitempty"`

	// Size is the expected byte size, zero when unknown.
	Size int64 `yaml:"size,omitempty" json:"size,omitempty"`

	// SHA1 is the hex digest of the expected content, empty when the
	// manifest does not carry one.
	SHA1 string `yaml:"sha1,omitempty" json:"sha1,omitempty"`

	// Executable marks files that should carry execute permission
	// bits after download.
	Executable bool `yaml:"executable,omitempty" json:"executable,omitempty"`
}

// Dest returns the absolute destination path of the entry under root.
func (d FileDescriptor) Dest(root string) string {
	return filepath.Join(root, filepath.FromSlash(d.Path), d.Name)
}

// Validate checks the descriptor for structural problems. A FILE
// without a URL is valid; such entries are never queued for transfer.
func (d FileDescriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("manifest: entry has no name")
	}
	if d.Kind != KindFile && d.Kind != KindFolder {
		return fmt.Errorf("manifest: entry %s has unknown type %q", d.Name, d.Kind)
	}
	if d.Kind == KindFolder && d.URL != "" {
		return fmt.Errorf("manifest: folder %s must not have a URL", d.Name)
	}
	if d.SHA1 != "" {
		raw, err := hex.DecodeString(d.SHA1)
		if err != nil || len(raw) != 20 {
			return fmt.Errorf("manifest: entry %s has invalid sha1 %q", d.Name, d.SHA1)
		}
	}
	return nil
}

// Load reads a YAML manifest file: a list of file descriptors.
func Load(path string) ([]FileDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var entries []FileDescriptor
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	for i, entry := range entries {
		if err := entry.Validate(); err != nil {
			return nil, fmt.Errorf("manifest entry %d: %w", i, err)
		}
	}

	return entries, nil
}
