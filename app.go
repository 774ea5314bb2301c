package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/andrewvmail/win-c-hjkl/internal/log"
)

// Tray keeps the process resident until the user asks it to quit or ctx is
// cancelled.
type Tray interface {
	Run(ctx context.Context)
}

// headlessTray has no UI and only waits for ctx.
type headlessTray struct{}

func (headlessTray) Run(ctx context.Context) {
	<-ctx.Done()
}

// App wires the keyboard hook to the tray for the lifetime of the process.
type App struct {
	hook   KeyboardHook
	tray   Tray
	logger *slog.Logger

	// onStarted runs once the hook is installed, before the tray blocks.
	onStarted func()
}

// Run installs the hook, blocks in the tray and removes the hook on the way
// out. A hook that cannot be installed is returned as an error and the tray
// never starts; failing to remove it is only logged.
func (a *App) Run(ctx context.Context) error {
	events, err := a.hook.Start()
	if err != nil {
		return fmt.Errorf("install keyboard hook: %w", err)
	}
	a.logger.Info("Keyboard hook installed", "remap", trayTooltip)

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for ev := range events {
			// Keys passed through untouched belong to the user.
			if !ev.Suppressed {
				continue
			}
			a.logger.Log(context.Background(), log.LevelTrace, "key",
				"vk", ev.Key,
				"dir", ev.Direction,
				"injected", ev.Injected,
				"suppressed", ev.Suppressed,
			)
		}
	}()

	if a.onStarted != nil {
		a.onStarted()
	}

	a.tray.Run(ctx)

	a.logger.Info("Removing keyboard hook")
	if err := a.hook.Stop(); err != nil {
		// The trace channel is only closed by a successful Stop.
		a.logger.Warn("failed to remove keyboard hook", "error", err)
		return nil
	}
	<-drained
	return nil
}
