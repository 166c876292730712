package main

// Volume bounds for the single default output device.
const (
	minVolume = 0
	maxVolume = 100
)

// Configuration defaults. Keep these aligned with DefaultConfig().
const (
	// defaultPort is the first-run listen port. It is a configurable default,
	// not a protocol constant; packagers may ship a different value.
	defaultPort = 8921

	defaultPollIntervalMS = 1000
)

// Hub defaults
const (
	defaultSendBuf      = 32
	defaultBroadcastBuf = 128
)

// errUnknownAction is the exact wire-level error string for unrecognized actions.
const errUnknownAction = "Unknown action"

// clampVolume restricts v to the valid volume range.
func clampVolume(v int) int {
	if v < minVolume {
		return minVolume
	}
	if v > maxVolume {
		return maxVolume
	}
	return v
}
