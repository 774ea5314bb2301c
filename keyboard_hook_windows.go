//go:build windows

package main

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procSetWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procGetMessage          = user32.NewProc("GetMessageW")
	procPeekMessage         = user32.NewProc("PeekMessageW")
	procTranslateMessage    = user32.NewProc("TranslateMessage")
	procDispatchMessage     = user32.NewProc("DispatchMessageW")
	procPostThreadMessage   = user32.NewProc("PostThreadMessageW")
	procSendInput           = user32.NewProc("SendInput")
	procGetAsyncKeyState    = user32.NewProc("GetAsyncKeyState")
)

const (
	WH_KEYBOARD_LL = 13
	WM_QUIT        = 0x0012
	WM_USER        = 0x0400
	PM_NOREMOVE    = 0x0000

	INPUT_KEYBOARD        = 1
	KEYEVENTF_EXTENDEDKEY = 0x0001
	KEYEVENTF_KEYUP       = 0x0002
)

type MSG struct {
	Hwnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

type KEYBDINPUT struct {
	WVk         uint16
	WScan       uint16
	DwFlags     uint32
	Time        uint32
	DwExtraInfo uintptr
}

// INPUT mirrors the Win32 union layout; the padding covers MOUSEINPUT, the
// largest member.
type INPUT struct {
	Type uint32
	Ki   KEYBDINPUT
	_    [8]byte
}

// The OS calls the low-level hook through a single process-wide function
// pointer, so the installed hook is reached through this slot.
var (
	activeHook atomic.Pointer[WindowsKeyboardHook]
	hookProc   = windows.NewCallback(keyboardProc)
)

// WindowsKeyboardHook implements KeyboardHook with WH_KEYBOARD_LL.
type WindowsKeyboardHook struct {
	dispatcher *hookDispatcher
	handle     uintptr
	threadID   uint32
	done       chan error
}

// NewKeyboardHook creates a new keyboard hook for Windows
func NewKeyboardHook(handler KeyHandler, buffer int) KeyboardHook {
	return &WindowsKeyboardHook{
		dispatcher: newHookDispatcher(handler, buffer),
	}
}

func (h *WindowsKeyboardHook) Start() (<-chan HookEvent, error) {
	if !activeHook.CompareAndSwap(nil, h) {
		return nil, errors.New("a keyboard hook is already installed")
	}

	ready := make(chan error, 1)
	h.done = make(chan error, 1)
	go h.run(ready)

	if err := <-ready; err != nil {
		activeHook.CompareAndSwap(h, nil)
		h.done = nil
		return nil, err
	}
	return h.dispatcher.events, nil
}

// run owns the OS thread the hook is installed on. Low-level hook callbacks
// are delivered through this thread's message queue, so it must keep pumping
// until Stop posts WM_QUIT.
func (h *WindowsKeyboardHook) run(ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	h.threadID = windows.GetCurrentThreadId()

	// Force creation of the thread's message queue so PostThreadMessageW
	// cannot fail with ERROR_INVALID_THREAD_ID.
	var msg MSG
	procPeekMessage.Call(uintptr(unsafe.Pointer(&msg)), 0, WM_USER, WM_USER, PM_NOREMOVE)

	var module windows.Handle
	if err := windows.GetModuleHandleEx(0, nil, &module); err != nil {
		ready <- fmt.Errorf("GetModuleHandleExW: %w", err)
		return
	}
	handle, _, err := procSetWindowsHookEx.Call(WH_KEYBOARD_LL, hookProc, uintptr(module), 0)
	if handle == 0 {
		ready <- fmt.Errorf("SetWindowsHookExW: %w", err)
		return
	}
	h.handle = handle
	ready <- nil

	for {
		ret, _, _ := procGetMessage.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
		if int32(ret) <= 0 {
			break
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&msg)))
		procDispatchMessage.Call(uintptr(unsafe.Pointer(&msg)))
	}

	var unhookErr error
	if ok, _, err := procUnhookWindowsHookEx.Call(h.handle); ok == 0 {
		unhookErr = fmt.Errorf("UnhookWindowsHookEx: %w", err)
	}
	activeHook.CompareAndSwap(h, nil)
	close(h.dispatcher.events)
	h.done <- unhookErr
}

func (h *WindowsKeyboardHook) Stop() error {
	if h.done == nil {
		return nil
	}
	ret, _, err := procPostThreadMessage.Call(uintptr(h.threadID), WM_QUIT, 0, 0)
	if ret == 0 {
		return fmt.Errorf("PostThreadMessageW: %w", err)
	}
	err = <-h.done
	h.done = nil
	return err
}

// keyboardProc is the callback for the Windows keyboard hook
func keyboardProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	h := activeHook.Load()
	if h != nil && h.dispatcher.hookResult(nCode, wParam, (*KBDLLHOOKSTRUCT)(unsafe.Pointer(lParam))) {
		// Return 1 to suppress the key
		return 1
	}

	var handle uintptr
	if h != nil {
		handle = h.handle
	}
	// Call next hook in the chain
	ret, _, _ := procCallNextHookEx.Call(handle, uintptr(nCode), wParam, lParam)
	return ret
}

type sendInputInjector struct{}

// NewInjector returns an Injector backed by SendInput.
func NewInjector() Injector {
	return sendInputInjector{}
}

// Inject submits a single event per SendInput call; successive calls keep
// their relative order in the input stream.
func (sendInputInjector) Inject(key VirtualKey, dir Direction) {
	in := INPUT{
		Type: INPUT_KEYBOARD,
		Ki:   KEYBDINPUT{WVk: uint16(key)},
	}
	if dir == KeyUp {
		in.Ki.DwFlags |= KEYEVENTF_KEYUP
	}
	if key.extended() {
		in.Ki.DwFlags |= KEYEVENTF_EXTENDEDKEY
	}
	procSendInput.Call(1, uintptr(unsafe.Pointer(&in)), unsafe.Sizeof(in))
}

type asyncKeyState struct{}

// NewKeyState returns a KeyState backed by GetAsyncKeyState.
func NewKeyState() KeyState {
	return asyncKeyState{}
}

func (asyncKeyState) IsDown(key VirtualKey) bool {
	// High-order bit set means key is currently down
	r, _, _ := procGetAsyncKeyState.Call(uintptr(key))
	return int16(r) < 0
}
