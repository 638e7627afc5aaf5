package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetPressed(t *testing.T) {
	k := New()
	assert.False(t, k.IsPressed(0xA))

	k.SetPressed(0xA, true)
	assert.True(t, k.IsPressed(0xA))

	k.SetPressed(0xA, false)
	assert.False(t, k.IsPressed(0xA))
}

func TestSetPressedInvalidCode(t *testing.T) {
	k := New()
	assert.Panics(t, func() { k.SetPressed(0x10, true) })
	assert.False(t, k.IsPressed(0x10))
}

func TestFirstPressedKey(t *testing.T) {
	k := New()
	_, ok := k.FirstPressedKey()
	assert.False(t, ok)

	k.SetPressed(0xC, true)
	k.SetPressed(0x3, true)
	k.SetPressed(0xF, true)

	code, ok := k.FirstPressedKey()
	assert.True(t, ok)
	assert.Equal(t, uint8(0x3), code)

	k.SetPressed(0x3, false)
	code, _ = k.FirstPressedKey()
	assert.Equal(t, uint8(0xC), code)
}

func TestReset(t *testing.T) {
	k := New()
	k.SetPressed(0x0, true)
	k.SetPressed(0x7, true)
	k.Reset()

	_, ok := k.FirstPressedKey()
	assert.False(t, ok)
}
