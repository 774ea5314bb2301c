//go:build !windows

package main

// unsupportedKeyboardHook reports that no system-wide hook exists here.
type unsupportedKeyboardHook struct{}

// NewKeyboardHook returns a hook whose Start always fails outside Windows.
func NewKeyboardHook(handler KeyHandler, buffer int) KeyboardHook {
	return unsupportedKeyboardHook{}
}

func (unsupportedKeyboardHook) Start() (<-chan HookEvent, error) {
	return nil, ErrUnsupportedPlatform
}

func (unsupportedKeyboardHook) Stop() error { return nil }

type nopInjector struct{}

func NewInjector() Injector { return nopInjector{} }

func (nopInjector) Inject(VirtualKey, Direction) {}

type releasedKeyState struct{}

func NewKeyState() KeyState { return releasedKeyState{} }

func (releasedKeyState) IsDown(VirtualKey) bool { return false }
