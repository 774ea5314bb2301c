package main

import "fmt"

// VirtualKey is a Windows virtual-key code.
type VirtualKey uint16

// Virtual-key codes the remapper reads or emits.
const (
	VKCapital  VirtualKey = 0x14 // Caps Lock
	VKLeft     VirtualKey = 0x25
	VKUp       VirtualKey = 0x26
	VKRight    VirtualKey = 0x27
	VKDown     VirtualKey = 0x28
	VKH        VirtualKey = 0x48
	VKJ        VirtualKey = 0x4A
	VKK        VirtualKey = 0x4B
	VKL        VirtualKey = 0x4C
	VKLControl VirtualKey = 0xA2
	VKRControl VirtualKey = 0xA3
)

var keyNames = map[VirtualKey]string{
	VKCapital:  "CapsLock",
	VKLeft:     "Left",
	VKUp:       "Up",
	VKRight:    "Right",
	VKDown:     "Down",
	VKH:        "H",
	VKJ:        "J",
	VKK:        "K",
	VKL:        "L",
	VKLControl: "LControl",
	VKRControl: "RControl",
}

func (k VirtualKey) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("VK(0x%02X)", uint16(k))
}

// extended reports whether the key is sent with KEYEVENTF_EXTENDEDKEY.
func (k VirtualKey) extended() bool {
	switch k {
	case VKLeft, VKUp, VKRight, VKDown, VKRControl:
		return true
	}
	return false
}

// Direction is the transition of a key.
type Direction int

const (
	KeyDown Direction = iota
	KeyUp
)

func (d Direction) String() string {
	if d == KeyUp {
		return "up"
	}
	return "down"
}

// KeyEvent is one key transition as delivered by the platform hook.
type KeyEvent struct {
	Key       VirtualKey
	Direction Direction
	Injected  bool // generated by software rather than hardware
}

// HookEvent is a KeyEvent together with the verdict the hook returned for it.
type HookEvent struct {
	KeyEvent
	Suppressed bool
}
