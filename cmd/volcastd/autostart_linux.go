package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// Autostart on Linux uses an XDG autostart desktop entry, which works across
// the common desktop environments without requiring systemd user units.

const autostartDesktopEntry = `[Desktop Entry]
Type=Application
Name=volcastd
Comment=Volume broadcast daemon
Exec=%s
X-GNOME-Autostart-enabled=true
`

func autostartDesktopPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "autostart", "volcastd.desktop"), nil
}

func installAutostart() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	path, err := autostartDesktopPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create autostart dir: %w", err)
	}
	entry := fmt.Sprintf(autostartDesktopEntry, exe)
	if err := os.WriteFile(path, []byte(entry), 0o644); err != nil {
		return fmt.Errorf("write desktop entry: %w", err)
	}
	return nil
}

func removeAutostart() error {
	path, err := autostartDesktopPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove desktop entry: %w", err)
	}
	return nil
}
