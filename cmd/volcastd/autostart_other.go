//go:build !linux && !darwin && !windows

package main

import "errors"

var errAutostartUnsupported = errors.New("autostart not supported on this platform")

func installAutostart() error { return errAutostartUnsupported }

func removeAutostart() error { return nil }
