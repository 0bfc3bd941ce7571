package progress

import "time"

// Window is the retention period for throughput samples. Samples older
// than this, relative to the newest sample, are discarded.
const Window = 6 * time.Second

type sample struct {
	size int64
	at   time.Time
}

// Tracker estimates transfer throughput over a trailing time window.
// It keeps one sample per received chunk and prunes the window on every
// insertion, so memory stays bounded by the chunk arrival rate.
//
// Tracker is not safe for concurrent use; the downloader guards it with
// the batch state lock.
type Tracker struct {
	window  time.Duration
	samples []sample

	// now is replaceable for tests.
	now func() time.Time
}

// NewTracker creates a tracker with the default window.
func NewTracker() *Tracker {
	return &Tracker{
		window: Window,
		now:    time.Now,
	}
}

// Record appends a sample for a received chunk and prunes samples that
// fell out of the window.
func (t *Tracker) Record(size int64) {
	now := t.now()
	t.samples = append(t.samples, sample{size: size, at: now})

	cutoff := now.Add(-t.window)
	first := 0
	for first < len(t.samples) && t.samples[first].at.Before(cutoff) {
		first++
	}
	if first > 0 {
		t.samples = append(t.samples[:0], t.samples[first:]...)
	}
}

// Speed returns the current throughput in bytes per second: the sum of
// retained sample sizes divided by the elapsed time from the oldest
// retained sample to now. Zero when there are no samples or no time has
// passed.
func (t *Tracker) Speed() float64 {
	if len(t.samples) == 0 {
		return 0
	}

	elapsed := t.now().Sub(t.samples[0].at).Seconds()
	if elapsed <= 0 {
		return 0
	}

	var total int64
	for _, s := range t.samples {
		total += s.size
	}

	return float64(total) / elapsed
}

// ETA returns the whole seconds until remaining bytes finish at the
// current speed. Zero when the speed is zero.
func (t *Tracker) ETA(remaining int64) int64 {
	speed := t.Speed()
	if speed <= 0 {
		return 0
	}
	return int64(float64(remaining) / speed)
}
