//go:build windows

package main

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/windows/registry"
)

const runKeyPath = `Software\Microsoft\Windows\CurrentVersion\Run`

// WindowsAutostart implements Autostart for Windows using the per-user Run key
type WindowsAutostart struct {
	valueName  string
	executable func() (string, error)
}

// NewAutostart creates a new autostart handler for Windows
func NewAutostart() Autostart {
	return &WindowsAutostart{
		valueName:  appName,
		executable: os.Executable,
	}
}

func (a *WindowsAutostart) IsEnabled() bool {
	k, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer k.Close()

	_, _, err = k.GetStringValue(a.valueName)
	return err == nil
}

func (a *WindowsAutostart) Enable() error {
	exe, err := a.executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	k, _, err := registry.CreateKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open Run key: %w", err)
	}
	defer k.Close()

	if err := k.SetStringValue(a.valueName, `"`+exe+`"`); err != nil {
		return fmt.Errorf("set Run value: %w", err)
	}
	return nil
}

func (a *WindowsAutostart) Disable() error {
	k, err := registry.OpenKey(registry.CURRENT_USER, runKeyPath, registry.SET_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open Run key: %w", err)
	}
	defer k.Close()

	if err := k.DeleteValue(a.valueName); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("delete Run value: %w", err)
	}
	return nil
}
