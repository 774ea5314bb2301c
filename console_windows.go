//go:build windows

package main

import (
	"log/slog"
	"os"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	procGetConsoleWindow = kernel32.NewProc("GetConsoleWindow")
	procFreeConsole      = kernel32.NewProc("FreeConsole")
	procShowWindow       = user32.NewProc("ShowWindow")
)

var cliProcesses = []string{
	"cmd.exe",
	"powershell.exe",
	"pwsh.exe",
	"wt.exe",
	"conhost.exe",
	"windowsterminal.exe",
}

// launchedFromGUI reports whether the process was started by Explorer, the
// Run registry key or a shortcut rather than from a shell.
func launchedFromGUI() bool {
	hwnd, _, _ := procGetConsoleWindow.Call()
	if hwnd == 0 {
		return true
	}

	parent := parentProcessName()
	slog.Debug("Parent process", "name", parent)
	if isCliProcess(parent) {
		return false
	}
	return strings.EqualFold(parent, "explorer.exe")
}

// hideConsole hides and detaches the console window, if there is one.
func hideConsole() {
	hwnd, _, _ := procGetConsoleWindow.Call()
	if hwnd == 0 {
		return
	}
	_, _, _ = procShowWindow.Call(hwnd, windows.SW_HIDE)
	_, _, _ = procFreeConsole.Call()
}

func parentProcessName() string {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return ""
	}
	defer windows.CloseHandle(snapshot)

	var pe windows.ProcessEntry32
	pe.Size = uint32(unsafe.Sizeof(pe))

	names := map[uint32]string{}
	var parentPID uint32
	self := uint32(os.Getpid())

	for err = windows.Process32First(snapshot, &pe); err == nil; err = windows.Process32Next(snapshot, &pe) {
		names[pe.ProcessID] = windows.UTF16ToString(pe.ExeFile[:])
		if pe.ProcessID == self {
			parentPID = pe.ParentProcessID
		}
	}
	if parentPID == 0 {
		return ""
	}
	return names[parentPID]
}

func isCliProcess(name string) bool {
	name = strings.ToLower(name)
	for _, cli := range cliProcesses {
		if name == cli {
			return true
		}
	}
	return false
}
