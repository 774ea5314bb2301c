//go:build !windows

package main

type unsupportedAutostart struct{}

// NewAutostart returns an Autostart that is never enabled outside Windows.
func NewAutostart() Autostart { return unsupportedAutostart{} }

func (unsupportedAutostart) IsEnabled() bool { return false }
func (unsupportedAutostart) Enable() error   { return ErrUnsupportedPlatform }
func (unsupportedAutostart) Disable() error  { return ErrUnsupportedPlatform }
