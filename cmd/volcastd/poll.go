package main

import (
	"context"
	"log/slog"
	"time"
)

// ============================================================================
// PollLoop - out-of-band change detection
// ============================================================================
//
// The poll loop exists because the OS mixer can change underneath us (a
// physical volume knob, another app, the system tray). On a fixed cadence it
// queries the backend and, when volume or mute differ from the last-broadcast
// snapshot, fans the fresh state out.
//
// State machine: Stopped -> Running on Run, Running -> Stopped when ctx is
// canceled. No other states. A query failure during a tick is logged and the
// tick skipped; the loop neither stops nor reschedules early.
//
// tick() is a plain method so tests can single-step the loop without wall
// clock timing.
// ============================================================================

type PollLoop struct {
	ctl      *Controller
	interval time.Duration
	logger   *slog.Logger
}

func NewPollLoop(ctl *Controller, interval time.Duration, logger *slog.Logger) *PollLoop {
	return &PollLoop{
		ctl:      ctl,
		interval: interval,
		logger:   logger,
	}
}

// Run ticks until ctx is canceled.
func (p *PollLoop) Run(ctx context.Context) {
	p.logger.Info("poll loop starting", "interval", p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("poll loop stopping (context canceled)")
			return
		case <-ticker.C:
			p.tick()
		}
	}
}

// tick performs one poll cycle: query, diff, at most one broadcast.
func (p *PollLoop) tick() {
	st, err := p.ctl.ObserveFresh()
	if err != nil {
		p.logger.Warn("poll query failed, skipping tick", "error", err)
		return
	}
	if !p.ctl.cache.ChangedSinceBroadcast(st.Volume, st.Muted) {
		return
	}
	p.logger.Debug("state changed out of band", "volume", st.Volume, "muted", st.Muted)
	p.ctl.broadcastState(st)
}
