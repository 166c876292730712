package main

import "log/slog"

// syncAutostart reconciles the OS login-item registration with the configured
// setting. Autostart is convenience plumbing: failures are logged and never
// prevent the daemon from serving.
func syncAutostart(enabled bool, logger *slog.Logger) {
	var err error
	if enabled {
		err = installAutostart()
	} else {
		err = removeAutostart()
	}
	if err != nil {
		logger.Warn("autostart sync failed", "enabled", enabled, "error", err)
		return
	}
	logger.Debug("autostart synced", "enabled", enabled)
}
