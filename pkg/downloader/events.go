package downloader

import "github.com/Electron-Minecraft-Launcher/EML-Lib/pkg/manifest"

// EventType identifies the kind of event delivered to subscribers.
type EventType string

const (
	// EventProgress fires once per received chunk.
	EventProgress EventType = "progress"

	// EventError fires once per file that exhausted its retries.
	EventError EventType = "error"

	// EventEnd fires exactly once per successful batch, including the
	// zero-work short circuit. It never fires for a failed batch.
	EventEnd EventType = "end"
)

// Counts pairs a file count with a byte size.
type Counts struct {
	Amount int   `json:"amount"`
	Size   int64 `json:"size"`
}

// ProgressEvent carries a consistent snapshot of the batch counters at
// the moment one chunk was written.
type ProgressEvent struct {
	Total      Counts        `json:"total"`
	Downloaded Counts        `json:"downloaded"`
	Speed      float64       `json:"speed"`
	ETA        int64         `json:"eta"`
	Type       manifest.Kind `json:"type"`
}

// FileErrorEvent reports a file whose every transfer attempt failed.
type FileErrorEvent struct {
	Filename string        `json:"filename"`
	Type     manifest.Kind `json:"type"`
	Message  string        `json:"message"`
}

// EndEvent reports the final counters of a successful batch.
type EndEvent struct {
	Downloaded Counts `json:"downloaded"`
}

// Event is delivered to subscribers. Exactly one payload field is set,
// matching Type.
type Event struct {
	Type     EventType
	Progress *ProgressEvent
	Error    *FileErrorEvent
	End      *EndEvent
}

// Handler receives downloader events. Handlers run synchronously on
// the worker goroutine that produced the event and must not call back
// into the Downloader.
type Handler func(Event)

// Subscribe registers a handler for all events of subsequent batches.
func (d *Downloader) Subscribe(h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, h)
}

func (d *Downloader) emit(ev Event) {
	d.mu.Lock()
	handlers := make([]Handler, len(d.handlers))
	copy(handlers, d.handlers)
	d.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
}
