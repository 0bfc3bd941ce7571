package downloader

import (
	"sync"

	"github.com/Electron-Minecraft-Launcher/EML-Lib/internal/progress"
	"github.com/Electron-Minecraft-Launcher/EML-Lib/pkg/manifest"
)

// batchState is the mutable aggregate of one in-flight Download call.
// It is created when the call starts and discarded when it returns;
// batches never share state.
//
// All counter updates happen under mu, and progress events are emitted
// inside the same critical section so every event carries a consistent
// snapshot.
type batchState struct {
	mu      sync.Mutex
	tracker *progress.Tracker

	totalFiles      int
	totalBytes      int64
	downloadedFiles int
	downloadedBytes int64
}

func newBatchState(set []manifest.FileDescriptor) *batchState {
	st := &batchState{
		tracker:    progress.NewTracker(),
		totalFiles: len(set),
	}
	for _, entry := range set {
		st.totalBytes += entry.Size
	}
	return st
}

// recordChunk accounts for one written chunk and emits the progress
// event while still holding the state lock.
func (d *Downloader) recordChunk(st *batchState, kind manifest.Kind, size int64) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.tracker.Record(size)
	st.downloadedBytes += size

	d.emit(Event{Type: EventProgress, Progress: &ProgressEvent{
		Total:      Counts{Amount: st.totalFiles, Size: st.totalBytes},
		Downloaded: Counts{Amount: st.downloadedFiles, Size: st.downloadedBytes},
		Speed:      st.tracker.Speed(),
		ETA:        st.tracker.ETA(st.totalBytes - st.downloadedBytes),
		Type:       kind,
	}})
}

// rollback subtracts the bytes counted during one failed attempt, so a
// retried attempt starts its accounting from zero.
func (st *batchState) rollback(attemptBytes int64) {
	st.mu.Lock()
	st.downloadedBytes -= attemptBytes
	st.mu.Unlock()
}

func (st *batchState) fileDone() {
	st.mu.Lock()
	st.downloadedFiles++
	st.mu.Unlock()
}

func (st *batchState) downloaded() Counts {
	st.mu.Lock()
	defer st.mu.Unlock()
	return Counts{Amount: st.downloadedFiles, Size: st.downloadedBytes}
}
