package main

import "fmt"

// pactlBackend drives the PulseAudio/PipeWire default sink via pactl.
// One subprocess per call; output parsed with fixed patterns.
type pactlBackend struct{}

func newPlatformBackend() AudioBackend { return pactlBackend{} }

func (pactlBackend) GetVolume() (int, error) {
	out, err := runMixerCommand("pactl", "get-sink-volume", "@DEFAULT_SINK@")
	if err != nil {
		return 0, backendErr("get_volume", err)
	}
	v, err := parsePercent(out)
	if err != nil {
		return 0, backendErr("get_volume", err)
	}
	return v, nil
}

func (pactlBackend) SetVolume(v int) error {
	_, err := runMixerCommand("pactl", "set-sink-volume", "@DEFAULT_SINK@", fmt.Sprintf("%d%%", clampVolume(v)))
	if err != nil {
		return backendErr("set_volume", err)
	}
	return nil
}

func (pactlBackend) GetMuted() (bool, error) {
	out, err := runMixerCommand("pactl", "get-sink-mute", "@DEFAULT_SINK@")
	if err != nil {
		return false, backendErr("get_muted", err)
	}
	muted, err := parseMuteLine(out)
	if err != nil {
		return false, backendErr("get_muted", err)
	}
	return muted, nil
}

func (pactlBackend) SetMuted(muted bool) error {
	arg := "0"
	if muted {
		arg = "1"
	}
	_, err := runMixerCommand("pactl", "set-sink-mute", "@DEFAULT_SINK@", arg)
	if err != nil {
		return backendErr("set_muted", err)
	}
	return nil
}

func (pactlBackend) OutputDeviceName() (string, error) {
	out, err := runMixerCommand("pactl", "get-default-sink")
	if err != nil {
		return "", backendErr("output_device_name", err)
	}
	return out, nil
}
