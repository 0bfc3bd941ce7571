// Package manifest defines the data model for launcher file manifests.
//
// A manifest is an ordered list of file descriptors describing what
// should exist inside a game install directory: files with a fetch URL,
// an expected size and an optional SHA-1 content hash, and folders that
// only need to exist.
//
// # Usage
//
//	entries, err := manifest.Load("manifest.yaml")
//	// pass entries to downloader.Download
//
// Manifest assembly (deciding what goes into the list) lives with the
// caller; this package only provides the types and a YAML loader for
// tooling that persists manifests on disk.
package manifest
