package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// ============================================================================
// Controller - request routing + serialized mixer access
// ============================================================================
//
// The controller decodes inbound client requests into intents, applies them
// against the AudioBackend, and triggers hub fan-out after successful
// mutations.
//
// Concurrency rules enforced here:
//   - All AudioBackend access (from connection handlers and the poll loop)
//     goes through one mutex, so read-modify-write sequences like
//     increaseVolume and toggleMute can't interleave.
//   - Adjust/toggle re-read the current value from the backend rather than
//     the cache; the cache is only trusted for change detection.
//   - Backend failures are logged, reported to the requesting client as an
//     {error} reply, and the broadcast for that mutation is skipped. They
//     never propagate out of this layer.
//
// ============================================================================

// Request is the inbound wire message: {"action": "...", "value": N}.
type Request struct {
	Action string `json:"action"`
	Value  *int   `json:"value,omitempty"`
}

type Controller struct {
	// mu serializes every AudioBackend call; the mixer is one physical
	// device and read-then-write sequences must not interleave.
	mu sync.Mutex

	backend AudioBackend
	cache   *StateCache
	hub     *Hub
	logger  *slog.Logger
}

func NewController(backend AudioBackend, cache *StateCache, logger *slog.Logger) *Controller {
	return &Controller{
		backend: backend,
		cache:   cache,
		logger:  logger,
	}
}

// AttachHub wires the fan-out target. Split from the constructor because the
// hub's on-register snapshot needs the controller first.
func (ctl *Controller) AttachHub(hub *Hub) { ctl.hub = hub }

// Handle decodes one raw inbound frame and dispatches it. A frame that isn't
// valid JSON gets an {error} reply on the offending connection only; other
// clients and the process are unaffected.
func (ctl *Controller) Handle(c *Client, raw []byte) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		ctl.logger.Warn("undecodable request", "remote_addr", c.remoteAddr, "error", err)
		c.reply(marshalError(fmt.Sprintf("invalid message: %v", err)))
		return
	}
	ctl.Dispatch(c, req)
}

// Dispatch applies one parsed request.
func (ctl *Controller) Dispatch(c *Client, req Request) {
	switch req.Action {
	case "setVolume":
		if req.Value == nil {
			c.reply(marshalError("setVolume requires a value"))
			return
		}
		v := clampVolume(*req.Value)
		ctl.mutate(c, "setVolume", func() error {
			return ctl.backend.SetVolume(v)
		})

	case "increaseVolume":
		if req.Value == nil {
			c.reply(marshalError("increaseVolume requires a value"))
			return
		}
		ctl.adjustVolume(c, "increaseVolume", *req.Value)

	case "decreaseVolume":
		if req.Value == nil {
			c.reply(marshalError("decreaseVolume requires a value"))
			return
		}
		ctl.adjustVolume(c, "decreaseVolume", -*req.Value)

	case "mute":
		ctl.mutate(c, "mute", func() error {
			return ctl.backend.SetMuted(true)
		})

	case "unmute":
		ctl.mutate(c, "unmute", func() error {
			return ctl.backend.SetMuted(false)
		})

	case "toggleMute":
		ctl.toggleMute(c)

	case "getState", "isMuted":
		ctl.replyState(c, req.Action)

	default:
		ctl.logger.Warn("unknown action", "remote_addr", c.remoteAddr, "action", req.Action)
		c.reply(marshalError(errUnknownAction))
	}
}

// mutate runs one mixer mutation under the controller lock, then re-reads the
// mixer and fans the fresh state out to all clients. On failure the requester
// gets an error reply and no broadcast happens.
func (ctl *Controller) mutate(c *Client, action string, op func() error) {
	ctl.mu.Lock()
	if err := op(); err != nil {
		ctl.mu.Unlock()
		ctl.failRequest(c, action, err)
		return
	}
	st, err := ctl.observeLocked()
	ctl.mu.Unlock()
	if err != nil {
		ctl.failRequest(c, action, err)
		return
	}
	ctl.broadcastState(st)
}

// adjustVolume applies a signed delta to the current mixer volume, saturating
// at the [0,100] bounds. The current value is read from the backend, not the
// cache, to avoid compounding staleness; the lock held across the sequence
// keeps concurrent adjustments from interleaving.
func (ctl *Controller) adjustVolume(c *Client, action string, delta int) {
	ctl.mu.Lock()
	cur, err := ctl.backend.GetVolume()
	if err != nil {
		ctl.mu.Unlock()
		ctl.failRequest(c, action, err)
		return
	}
	target := clampVolume(cur + delta)
	if err := ctl.backend.SetVolume(target); err != nil {
		ctl.mu.Unlock()
		ctl.failRequest(c, action, err)
		return
	}
	st, err := ctl.observeLocked()
	ctl.mu.Unlock()
	if err != nil {
		ctl.failRequest(c, action, err)
		return
	}
	ctl.broadcastState(st)
}

// toggleMute inverts the current mute state, reading it fresh from the
// backend under the lock (same staleness rule as adjustVolume).
func (ctl *Controller) toggleMute(c *Client) {
	ctl.mu.Lock()
	cur, err := ctl.backend.GetMuted()
	if err != nil {
		ctl.mu.Unlock()
		ctl.failRequest(c, "toggleMute", err)
		return
	}
	if err := ctl.backend.SetMuted(!cur); err != nil {
		ctl.mu.Unlock()
		ctl.failRequest(c, "toggleMute", err)
		return
	}
	st, err := ctl.observeLocked()
	ctl.mu.Unlock()
	if err != nil {
		ctl.failRequest(c, "toggleMute", err)
		return
	}
	ctl.broadcastState(st)
}

// replyState sends a freshly queried snapshot to the requesting client only.
// No mutation, no broadcast.
func (ctl *Controller) replyState(c *Client, action string) {
	st, err := ctl.ObserveFresh()
	if err != nil {
		ctl.failRequest(c, action, err)
		return
	}
	msg, err := json.Marshal(st)
	if err != nil {
		ctl.logger.Error("marshal state failed", "error", err)
		return
	}
	c.reply(msg)
}

// ObserveFresh queries the mixer for volume and mute under the controller
// lock and records the observation in the cache. Used by request handling,
// the poll loop, and the hub's on-register snapshot.
func (ctl *Controller) ObserveFresh() (VolumeState, error) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	return ctl.observeLocked()
}

func (ctl *Controller) observeLocked() (VolumeState, error) {
	vol, err := ctl.backend.GetVolume()
	if err != nil {
		return VolumeState{}, err
	}
	muted, err := ctl.backend.GetMuted()
	if err != nil {
		return VolumeState{}, err
	}
	return ctl.cache.Observe(vol, muted), nil
}

// SnapshotFrame serializes the current state for the hub's on-register push.
// If the mixer can't be queried the new client gets an {error} frame instead,
// so an unsupported platform still completes the connect handshake.
func (ctl *Controller) SnapshotFrame() []byte {
	st, err := ctl.ObserveFresh()
	if err != nil {
		ctl.logger.Warn("snapshot query failed", "error", err)
		return marshalError(err.Error())
	}
	msg, mErr := json.Marshal(st)
	if mErr != nil {
		ctl.logger.Error("marshal snapshot failed", "error", mErr)
		return nil
	}
	return msg
}

// broadcastState fans a snapshot out to every registered client and records
// it as the last-broadcast snapshot for poll change detection.
func (ctl *Controller) broadcastState(st VolumeState) {
	msg, err := json.Marshal(st)
	if err != nil {
		ctl.logger.Error("marshal broadcast failed", "error", err)
		return
	}
	ctl.cache.MarkBroadcast(st)
	if ctl.hub != nil {
		ctl.hub.BroadcastBytes(msg)
	}
}

// failRequest logs a backend failure and reports it to the requesting client.
func (ctl *Controller) failRequest(c *Client, action string, err error) {
	ctl.logger.Error("request failed", "action", action, "error", err)
	if c != nil {
		c.reply(marshalError(err.Error()))
	}
}

func marshalError(msg string) []byte {
	b, err := json.Marshal(errorReply{Error: msg})
	if err != nil {
		return []byte(`{"error":"internal error"}`)
	}
	return b
}
