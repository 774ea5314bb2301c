//go:build !windows

package main

import "log/slog"

func newTray(headless bool, logger *slog.Logger) Tray {
	return headlessTray{}
}
