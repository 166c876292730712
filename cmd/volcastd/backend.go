package main

import (
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// ============================================================================
// AudioBackend - platform mixer collaborator
// ============================================================================
//
// An AudioBackend wraps whatever the host OS offers for querying and setting
// the default output device's volume and mute state. Each call shells out to
// a single external command and parses its captured output with a fixed
// pattern. Calls may block on the subprocess and may fail; failures are
// reported as *BackendError and never crash the daemon.
//
// The daemon depends only on this interface; the platform is selected once
// at startup via newPlatformBackend (backend_*.go).
// ============================================================================

type AudioBackend interface {
	GetVolume() (int, error)
	SetVolume(v int) error
	GetMuted() (bool, error)
	SetMuted(muted bool) error

	// OutputDeviceName returns a display name for the default output device.
	// The name is advisory only; callers must not validate or key off it.
	OutputDeviceName() (string, error)
}

// ErrUnsupportedPlatform indicates this build has no mixer implementation for
// the host OS. The server still starts; every backend call fails with this.
var ErrUnsupportedPlatform = errors.New("no audio backend for this platform")

// BackendError wraps a failed mixer command. Op names the backend call
// ("get_volume", "set_muted", ...), not the OS command.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("audio backend %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

func backendErr(op string, err error) error {
	return &BackendError{Op: op, Err: err}
}

// runMixerCommand executes one mixer subprocess and returns its trimmed
// combined output. A nonzero exit is an error carrying the captured output,
// which the platform utilities tend to fill with the actual diagnostic.
func runMixerCommand(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return "", fmt.Errorf("%s failed: %w (%s)", name, err, msg)
		}
		return "", fmt.Errorf("%s failed: %w", name, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// ============================================================================
// Output parsing helpers
// ============================================================================
// These are platform-neutral so they can be unit tested everywhere; the
// backend_*.go files feed them raw subprocess output.

var percentPattern = regexp.MustCompile(`(\d+)%`)

// parsePercent extracts the first "NN%" token from mixer output.
func parsePercent(out string) (int, error) {
	m := percentPattern.FindStringSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("no percentage in output %q", out)
	}
	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("bad percentage in output %q: %w", out, err)
	}
	return clampVolume(v), nil
}

// parseVolumeNumber parses a bare integer volume (osascript-style output).
func parseVolumeNumber(out string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(out))
	if err != nil {
		return 0, fmt.Errorf("bad volume in output %q: %w", out, err)
	}
	return clampVolume(v), nil
}

// parseBoolWord parses the mute flag words the platform tools emit.
func parseBoolWord(out string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(out)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("bad boolean in output %q", out)
}

// parseMuteLine extracts a yes/no mute flag from "Mute: yes"-style output.
func parseMuteLine(out string) (bool, error) {
	_, after, found := strings.Cut(out, "Mute:")
	if !found {
		return false, fmt.Errorf("no mute flag in output %q", out)
	}
	return parseBoolWord(after)
}

// unsupportedBackend is the stub used on platforms without a mixer wrapper.
// Every call fails with ErrUnsupportedPlatform so the daemon keeps serving
// connections while truthfully reporting that it cannot observe the mixer.
type unsupportedBackend struct{}

func (unsupportedBackend) GetVolume() (int, error) {
	return 0, backendErr("get_volume", ErrUnsupportedPlatform)
}

func (unsupportedBackend) SetVolume(int) error {
	return backendErr("set_volume", ErrUnsupportedPlatform)
}

func (unsupportedBackend) GetMuted() (bool, error) {
	return false, backendErr("get_muted", ErrUnsupportedPlatform)
}

func (unsupportedBackend) SetMuted(bool) error {
	return backendErr("set_muted", ErrUnsupportedPlatform)
}

func (unsupportedBackend) OutputDeviceName() (string, error) {
	return "", backendErr("output_device_name", ErrUnsupportedPlatform)
}
