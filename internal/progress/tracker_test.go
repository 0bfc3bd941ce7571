package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeClock advances only when told to.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestTracker() (*Tracker, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	tracker := NewTracker()
	tracker.now = func() time.Time { return clock.now }
	return tracker, clock
}

func TestTrackerSpeed(t *testing.T) {
	tracker, clock := newTestTracker()

	tracker.Record(10)
	clock.advance(time.Second)
	tracker.Record(20)
	clock.advance(time.Second)
	tracker.Record(30)

	// 60 bytes over 2 elapsed seconds.
	require.InDelta(t, 30.0, tracker.Speed(), 0.001)
}

func TestTrackerSpeedEmpty(t *testing.T) {
	tracker, _ := newTestTracker()
	require.Zero(t, tracker.Speed())
}

func TestTrackerSpeedZeroElapsed(t *testing.T) {
	tracker, _ := newTestTracker()
	tracker.Record(100)
	require.Zero(t, tracker.Speed())
}

func TestTrackerPrunesOldSamples(t *testing.T) {
	tracker, clock := newTestTracker()

	tracker.Record(1000)
	clock.advance(7 * time.Second)
	tracker.Record(70)

	// The first sample fell out of the 6s window; only the newest
	// remains, and with zero elapsed time the speed is zero.
	require.Len(t, tracker.samples, 1)
	require.Equal(t, int64(70), tracker.samples[0].size)
	require.Zero(t, tracker.Speed())
}

func TestTrackerKeepsSamplesInsideWindow(t *testing.T) {
	tracker, clock := newTestTracker()

	tracker.Record(10)
	clock.advance(3 * time.Second)
	tracker.Record(20)
	clock.advance(2 * time.Second)
	tracker.Record(30)

	require.Len(t, tracker.samples, 3)
	// 60 bytes over 5 seconds.
	require.InDelta(t, 12.0, tracker.Speed(), 0.001)
}

func TestTrackerETA(t *testing.T) {
	tracker, clock := newTestTracker()

	tracker.Record(0)
	clock.advance(time.Second)
	tracker.Record(100)

	// 100 bytes/s, 250 bytes remaining: floored to 2 whole seconds.
	require.Equal(t, int64(2), tracker.ETA(250))
}

func TestTrackerETAZeroSpeed(t *testing.T) {
	tracker, _ := newTestTracker()
	require.Zero(t, tracker.ETA(1024))
}
