package main

import "sync/atomic"

// CtrlSource identifies which Control key is considered held.
type CtrlSource int

const (
	CtrlNone CtrlSource = iota
	CtrlEmulated        // CapsLock held as Control
	CtrlLeft            // physical left Control
	CtrlRight           // physical right Control
)

func (s CtrlSource) String() string {
	switch s {
	case CtrlEmulated:
		return "emulated"
	case CtrlLeft:
		return "left"
	case CtrlRight:
		return "right"
	default:
		return "none"
	}
}

// key is the virtual key released and re-pressed around an arrow.
func (s CtrlSource) key() VirtualKey {
	if s == CtrlRight {
		return VKRControl
	}
	return VKLControl
}

// arrowFor maps the vi movement letters to arrow keys.
func arrowFor(k VirtualKey) (VirtualKey, bool) {
	switch k {
	case VKH:
		return VKLeft, true
	case VKJ:
		return VKDown, true
	case VKK:
		return VKUp, true
	case VKL:
		return VKRight, true
	}
	return 0, false
}

// Remapper turns CapsLock into a momentary Control and Ctrl+HJKL into arrows.
//
// Handle runs inside the low-level hook callback. It must not block, so the
// only state it keeps is a single atomic flag; the physical Control keys are
// read from the OS on every decision.
type Remapper struct {
	capsHeld atomic.Bool

	injector Injector
	keys     KeyState
}

// NewRemapper creates a Remapper that emits through injector and reads
// physical modifier state from keys.
func NewRemapper(injector Injector, keys KeyState) *Remapper {
	return &Remapper{
		injector: injector,
		keys:     keys,
	}
}

// CapsHeld reports whether CapsLock is currently acting as Control.
func (r *Remapper) CapsHeld() bool {
	return r.capsHeld.Load()
}

// Handle processes one key transition and reports whether the original event
// must be suppressed.
func (r *Remapper) Handle(ev KeyEvent) bool {
	if ev.Key == VKCapital {
		// A release is forwarded even without a matching press so the
		// emulated Control can never stay stuck.
		r.capsHeld.Store(ev.Direction == KeyDown)
		r.injector.Inject(VKLControl, ev.Direction)
		return true
	}

	arrow, ok := arrowFor(ev.Key)
	if !ok {
		return false
	}
	src := r.ctrlSource()
	if src == CtrlNone {
		return false
	}

	if ev.Direction == KeyDown {
		r.injector.Inject(src.key(), KeyUp)
		r.injector.Inject(arrow, KeyDown)
		return true
	}

	r.injector.Inject(arrow, KeyUp)
	if src = r.ctrlSource(); src != CtrlNone {
		r.injector.Inject(src.key(), KeyDown)
	}
	return true
}

// ctrlSource returns the first active Control source in priority order.
func (r *Remapper) ctrlSource() CtrlSource {
	switch {
	case r.capsHeld.Load():
		return CtrlEmulated
	case r.keys.IsDown(VKLControl):
		return CtrlLeft
	case r.keys.IsDown(VKRControl):
		return CtrlRight
	}
	return CtrlNone
}
