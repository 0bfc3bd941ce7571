// Package downloader fetches the missing or stale files of a launcher
// manifest into a local install directory.
//
// A batch runs in three stages: a diff pass compares manifest entries
// against local content (existence plus optional SHA-1), the resulting
// download set is drained by a fixed pool of workers, and each worker
// wraps its transfers in a bounded retry loop with a linearly growing
// delay. Chunks are streamed straight to disk while a sliding-window
// tracker derives speed and ETA for progress events.
//
// # Usage
//
//	dl := downloader.New(downloader.Options{Workers: 5})
//	dl.Subscribe(func(ev downloader.Event) {
//	    if ev.Type == downloader.EventProgress {
//	        // ev.Progress.Downloaded, ev.Progress.Speed, ...
//	    }
//	})
//
//	err := dl.Download(ctx, entries, installDir, false)
//
// # Events
//
// Subscribers receive a progress event per written chunk, an error
// event per file that exhausted its retries, and exactly one end event
// per successful batch. Events carry consistent counter snapshots:
// downloaded never exceeds total at any observation point.
//
// # Failure semantics
//
// A batch is not all-or-nothing. When one file fails for good, its
// worker stops while the others keep draining the queue; files they
// finish stay on disk, but Download returns a *BatchError and no end
// event fires. The error's Downloaded field tells callers how much
// completed before the abort.
package downloader
