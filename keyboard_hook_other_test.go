//go:build !windows

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyboardHookUnsupported(t *testing.T) {
	hook := NewKeyboardHook(NewRemapper(NewInjector(), NewKeyState()), 1)

	events, err := hook.Start()
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
	assert.Nil(t, events)
	assert.NoError(t, hook.Stop())
}
