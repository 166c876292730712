package main

import "fmt"

// osascriptBackend drives the macOS system output via osascript.
// One subprocess per call; output parsed with fixed patterns.
type osascriptBackend struct{}

func newPlatformBackend() AudioBackend { return osascriptBackend{} }

func (osascriptBackend) GetVolume() (int, error) {
	out, err := runMixerCommand("osascript", "-e", "output volume of (get volume settings)")
	if err != nil {
		return 0, backendErr("get_volume", err)
	}
	v, err := parseVolumeNumber(out)
	if err != nil {
		return 0, backendErr("get_volume", err)
	}
	return v, nil
}

func (osascriptBackend) SetVolume(v int) error {
	_, err := runMixerCommand("osascript", "-e", fmt.Sprintf("set volume output volume %d", clampVolume(v)))
	if err != nil {
		return backendErr("set_volume", err)
	}
	return nil
}

func (osascriptBackend) GetMuted() (bool, error) {
	out, err := runMixerCommand("osascript", "-e", "output muted of (get volume settings)")
	if err != nil {
		return false, backendErr("get_muted", err)
	}
	muted, err := parseBoolWord(out)
	if err != nil {
		return false, backendErr("get_muted", err)
	}
	return muted, nil
}

func (osascriptBackend) SetMuted(muted bool) error {
	_, err := runMixerCommand("osascript", "-e", fmt.Sprintf("set volume output muted %t", muted))
	if err != nil {
		return backendErr("set_muted", err)
	}
	return nil
}

// OutputDeviceName shells SwitchAudioSource when available. AppleScript has
// no direct way to name the active output device, so a missing utility
// degrades to a generic name rather than an error (the name is advisory).
func (osascriptBackend) OutputDeviceName() (string, error) {
	out, err := runMixerCommand("SwitchAudioSource", "-c")
	if err != nil {
		return "System Output", nil
	}
	return out, nil
}
