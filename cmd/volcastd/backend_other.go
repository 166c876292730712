//go:build !linux && !darwin && !windows

package main

func newPlatformBackend() AudioBackend { return unsupportedBackend{} }
