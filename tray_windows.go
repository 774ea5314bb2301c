//go:build windows

package main

import (
	"context"
	"log/slog"

	"github.com/getlantern/systray"
)

// systrayTray shows a notification-area icon with a Quit item.
type systrayTray struct {
	logger *slog.Logger
}

func newTray(headless bool, logger *slog.Logger) Tray {
	if headless {
		return headlessTray{}
	}
	return systrayTray{logger: logger}
}

// Run blocks on the calling thread until Quit is picked or ctx is cancelled.
func (t systrayTray) Run(ctx context.Context) {
	onReady := func() {
		if icon, err := trayIcon(); err != nil {
			t.logger.Warn("failed to build tray icon", "error", err)
		} else {
			systray.SetIcon(icon)
		}
		systray.SetTitle(appName)
		systray.SetTooltip(appName + " - Keyboard Remapper\n" + trayTooltip)

		mQuit := systray.AddMenuItem("Quit", "Quit "+appName)

		go func() {
			select {
			case <-mQuit.ClickedCh:
				t.logger.Info("Quit selected from tray")
			case <-ctx.Done():
			}
			systray.Quit()
		}()
	}

	systray.Run(onReady, func() {})
}
