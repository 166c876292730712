package main

import "fmt"

// powershellBackend drives the Windows default playback device through the
// AudioDeviceCmdlets PowerShell module. One subprocess per call; output
// parsed with fixed patterns. A missing module surfaces as a nonzero exit,
// which becomes an ordinary backend failure.
type powershellBackend struct{}

func newPlatformBackend() AudioBackend { return powershellBackend{} }

func runPowershell(script string) (string, error) {
	return runMixerCommand("powershell.exe", "-NoProfile", "-NonInteractive", "-Command", script)
}

func (powershellBackend) GetVolume() (int, error) {
	out, err := runPowershell("(Get-AudioDevice -PlaybackVolume)")
	if err != nil {
		return 0, backendErr("get_volume", err)
	}
	// Output looks like "42%".
	v, err := parsePercent(out)
	if err != nil {
		return 0, backendErr("get_volume", err)
	}
	return v, nil
}

func (powershellBackend) SetVolume(v int) error {
	_, err := runPowershell(fmt.Sprintf("Set-AudioDevice -PlaybackVolume %d", clampVolume(v)))
	if err != nil {
		return backendErr("set_volume", err)
	}
	return nil
}

func (powershellBackend) GetMuted() (bool, error) {
	out, err := runPowershell("(Get-AudioDevice -PlaybackMute)")
	if err != nil {
		return false, backendErr("get_muted", err)
	}
	muted, err := parseBoolWord(out)
	if err != nil {
		return false, backendErr("get_muted", err)
	}
	return muted, nil
}

func (powershellBackend) SetMuted(muted bool) error {
	_, err := runPowershell(fmt.Sprintf("Set-AudioDevice -PlaybackMute $%t", muted))
	if err != nil {
		return backendErr("set_muted", err)
	}
	return nil
}

func (powershellBackend) OutputDeviceName() (string, error) {
	out, err := runPowershell("(Get-AudioDevice -Playback).Name")
	if err != nil {
		return "", backendErr("output_device_name", err)
	}
	return out, nil
}
