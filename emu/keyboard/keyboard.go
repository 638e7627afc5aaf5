package keyboard

import "fmt"

const Keys = 16

// Keyboard is the pressed/released state of the 16 hex keys. Filling it
// from physical input is up to the host.
type Keyboard struct {
	keys [Keys]bool
}

func New() *Keyboard {
	return &Keyboard{}
}

// SetPressed panics if code is not a hex key.
func (k *Keyboard) SetPressed(code uint8, pressed bool) {
	if code >= Keys {
		panic(fmt.Sprintf("keyboard: invalid key code %#x", code))
	}
	k.keys[code] = pressed
}

func (k *Keyboard) IsPressed(code uint8) bool {
	if code >= Keys {
		return false
	}
	return k.keys[code]
}

// FirstPressedKey returns the lowest pressed key code.
func (k *Keyboard) FirstPressedKey() (uint8, bool) {
	for code, pressed := range k.keys {
		if pressed {
			return uint8(code), true
		}
	}
	return 0, false
}

// Reset releases every key.
func (k *Keyboard) Reset() {
	k.keys = [Keys]bool{}
}
