// Package progress provides throughput estimation and progress
// reporting for downloads.
//
// Tracker maintains a trailing 6-second window of per-chunk byte
// samples and derives the current speed and ETA from it. The downloader
// records one sample per received chunk and attaches the derived
// numbers to its progress events.
//
// Printer turns those events into human-readable console output:
//
//	[eml] Starting download | Workers: 5
//	[eml] 45.1% | 553.12 MB / 1.20 GB | 17/42 files | 24.31 MB/s | ETA: 27s
package progress
