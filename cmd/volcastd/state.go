package main

import "sync"

// VolumeState is the wire-visible snapshot of the default output device.
// Volume is always clamped to [0,100] before being cached or sent; Device is
// advisory/display-only and never validated.
type VolumeState struct {
	Volume int    `json:"volume"`
	Muted  bool   `json:"muted"`
	Device string `json:"device"`
}

// errorReply is the wire-visible error payload for decode and handler failures.
type errorReply struct {
	Error string `json:"error"`
}

// StateCache holds the last-observed and last-broadcast mixer snapshots.
//
// The cache exists only to detect change; the OS mixer is the source of
// truth and state is re-read from the backend on every poll tick and after
// every mutation. Access is mutex-guarded so the poll loop and connection
// handlers can share it.
type StateCache struct {
	mu sync.Mutex

	current VolumeState

	// lastBroadcast is the snapshot as of the most recent fan-out. The poll
	// loop diffs fresh observations against this so no pair of ticks
	// double-broadcasts the same state.
	lastBroadcast      VolumeState
	lastBroadcastKnown bool
}

// NewStateCache seeds the cache with an initial snapshot (typically the
// device name queried at startup and zero volume/mute until first observed).
func NewStateCache(initial VolumeState) *StateCache {
	initial.Volume = clampVolume(initial.Volume)
	return &StateCache{current: initial}
}

// Snapshot returns the last-observed state.
func (c *StateCache) Snapshot() VolumeState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Observe records a freshly queried volume/mute pair, keeping the cached
// device name. It returns the full resulting snapshot.
func (c *StateCache) Observe(volume int, muted bool) VolumeState {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current.Volume = clampVolume(volume)
	c.current.Muted = muted
	return c.current
}

// SetDevice updates the advisory device name.
func (c *StateCache) SetDevice(device string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current.Device = device
}

// MarkBroadcast records st as the last fanned-out snapshot.
func (c *StateCache) MarkBroadcast(st VolumeState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastBroadcast = st
	c.lastBroadcastKnown = true
}

// ChangedSinceBroadcast reports whether the given volume/mute pair differs
// from the last-broadcast snapshot. Before any broadcast has happened it
// reports true so the first observation always fans out.
func (c *StateCache) ChangedSinceBroadcast(volume int, muted bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.lastBroadcastKnown {
		return true
	}
	return c.lastBroadcast.Volume != clampVolume(volume) || c.lastBroadcast.Muted != muted
}
