package main

import "errors"

// ErrUnsupportedPlatform is returned by platform features that only exist on Windows.
var ErrUnsupportedPlatform = errors.New("not supported on this platform")

// KeyboardHook is the interface for the system-wide keyboard hook
type KeyboardHook interface {
	// Start installs the hook and returns once the OS has accepted it.
	// The channel carries a best-effort trace of every decoded event and
	// is closed by Stop.
	Start() (<-chan HookEvent, error)

	// Stop removes the hook
	Stop() error
}

// KeyHandler decides the fate of a single key transition.
type KeyHandler interface {
	Handle(ev KeyEvent) (suppress bool)
}

// Injector submits synthetic key transitions to the OS input stream.
// Events submitted in sequence are delivered in that order.
type Injector interface {
	Inject(key VirtualKey, dir Direction)
}

// KeyState reads the live physical state of a key.
type KeyState interface {
	IsDown(key VirtualKey) bool
}

// Autostart is the interface for platform-specific autostart functionality
type Autostart interface {
	// IsEnabled returns whether autostart is currently enabled
	IsEnabled() bool

	// Enable sets up the application to start on login
	Enable() error

	// Disable removes the autostart configuration
	Disable() error
}

// Window messages delivered to a WH_KEYBOARD_LL hook.
const (
	WM_KEYDOWN    = 0x0100
	WM_KEYUP      = 0x0101
	WM_SYSKEYDOWN = 0x0104
	WM_SYSKEYUP   = 0x0105
)

// LLKHF_INJECTED marks events that were generated by SendInput or keybd_event.
const LLKHF_INJECTED = 0x10

// KBDLLHOOKSTRUCT is the payload referenced by a low-level hook's lParam.
type KBDLLHOOKSTRUCT struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

// decodeKeyEvent converts a raw hook notification into a KeyEvent. It reports
// false for messages that are not key transitions.
func decodeKeyEvent(wParam uintptr, kb *KBDLLHOOKSTRUCT) (KeyEvent, bool) {
	var ev KeyEvent
	switch wParam {
	case WM_KEYDOWN, WM_SYSKEYDOWN:
		ev.Direction = KeyDown
	case WM_KEYUP, WM_SYSKEYUP:
		ev.Direction = KeyUp
	default:
		return ev, false
	}
	ev.Key = VirtualKey(kb.VkCode)
	ev.Injected = kb.Flags&LLKHF_INJECTED != 0
	return ev, true
}

// hookDispatcher runs the handler for a decoded event and publishes a trace of
// the outcome without ever blocking the caller.
type hookDispatcher struct {
	handler KeyHandler
	events  chan HookEvent
}

func newHookDispatcher(handler KeyHandler, buffer int) *hookDispatcher {
	return &hookDispatcher{
		handler: handler,
		events:  make(chan HookEvent, buffer),
	}
}

func (d *hookDispatcher) dispatch(ev KeyEvent) bool {
	suppress := d.handler.Handle(ev)
	select {
	case d.events <- HookEvent{KeyEvent: ev, Suppressed: suppress}:
	default:
	}
	return suppress
}

// hookResult decides the return of the hook callback for one notification.
// Negative codes and messages that are not key transitions are never seen by
// the handler; anything not suppressed is passed down the hook chain.
func (d *hookDispatcher) hookResult(nCode int, wParam uintptr, kb *KBDLLHOOKSTRUCT) (suppress bool) {
	if nCode < 0 {
		return false
	}
	ev, ok := decodeKeyEvent(wParam, kb)
	if !ok {
		return false
	}
	return d.dispatch(ev)
}
