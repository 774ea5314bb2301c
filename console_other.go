//go:build !windows

package main

func launchedFromGUI() bool { return false }

func hideConsole() {}
