package machine

import (
	"bytes"
	"errors"
	"io/ioutil"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/beanboi7/chyp8/emu/cpu"
	"github.com/beanboi7/chyp8/emu/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMachine(t *testing.T, rom ...byte) (*Machine, *bytes.Buffer) {
	t.Helper()
	var logBuf bytes.Buffer
	m := New(
		WithRandSource(rand.NewSource(1)),
		WithLogger(log.New(&logBuf, "", 0)),
	)
	require.NoError(t, m.LoadROM(bytes.NewReader(rom)))
	return m, &logBuf
}

func advance(t *testing.T, m *Machine, ticks int) {
	t.Helper()
	for i := 0; i < ticks; i++ {
		require.NoError(t, m.Advance())
	}
}

func TestLoadROM(t *testing.T) {
	m, _ := newMachine(t, 0x12, 0x34, 0x56)
	assert.Equal(t, uint8(0x12), m.ReadByte(0x200))
	assert.Equal(t, uint8(0x34), m.ReadByte(0x201))
	assert.Equal(t, uint8(0x56), m.ReadByte(0x202))
	assert.Equal(t, uint8(0x00), m.ReadByte(0x203))
}

func TestLoadROMFillsProgramSpace(t *testing.T) {
	m := New()
	rom := make([]byte, maxRomSize)
	rom[len(rom)-1] = 0xEE
	require.NoError(t, m.LoadROM(bytes.NewReader(rom)))
	assert.Equal(t, uint8(0xEE), m.ReadByte(0xFFF))
}

func TestLoadROMTooBig(t *testing.T) {
	m := New()
	err := m.LoadROM(bytes.NewReader(make([]byte, maxRomSize+1)))
	assert.True(t, errors.Is(err, memory.ErrInvalidWrite))
}

func TestLoadROMFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.ch8")
	require.NoError(t, ioutil.WriteFile(path, []byte{0x00, 0xE0}, 0644))

	m := New()
	require.NoError(t, m.LoadROMFile(path))
	assert.Equal(t, uint8(0xE0), m.ReadByte(0x201))

	err := m.LoadROMFile(filepath.Join(dir, "missing.ch8"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestClearThenJumpLoop(t *testing.T) {
	m, _ := newMachine(t, 0x00, 0xE0, 0x12, 0x00)
	advance(t, m, 1)
	regs := m.CPU().V
	for i := 0; i < 1000; i++ {
		advance(t, m, 1)
		m.DecrementTimers()
	}
	assert.Equal(t, regs, m.CPU().V)
	assert.Equal(t, uint16(0x202), m.CPU().PC())
	assert.Equal(t, Running, m.State())
}

func TestBCDProgram(t *testing.T) {
	m, _ := newMachine(t,
		0xA3, 0x00, // LD I, 0x300
		0x60, 0x05, // LD V0, 5
		0xF0, 0x33, // LD B, V0
	)
	advance(t, m, 3)
	assert.Equal(t, uint8(0), m.ReadByte(0x300))
	assert.Equal(t, uint8(0), m.ReadByte(0x301))
	assert.Equal(t, uint8(5), m.ReadByte(0x302))
}

func TestDrawTwiceRestoresDisplay(t *testing.T) {
	m, _ := newMachine(t,
		0xA2, 0x08, // LD I, 0x208
		0xD0, 0x11, // DRW V0, V1, 1
		0xD0, 0x11, // DRW V0, V1, 1
		0x12, 0x06, // JP 0x206
		0xF0, // sprite
	)
	blank := m.Display()

	advance(t, m, 2)
	assert.NotEqual(t, blank, m.Display())
	assert.Equal(t, uint8(0), m.CPU().V[0xF])

	advance(t, m, 1)
	assert.Equal(t, blank, m.Display())
	assert.Equal(t, uint8(1), m.CPU().V[0xF])
}

func TestWaitForKey(t *testing.T) {
	m, _ := newMachine(t,
		0xF5, 0x0A, // LD V5, K
		0x61, 0x07, // LD V1, 7
	)

	advance(t, m, 1)
	assert.Equal(t, WaitingForKey, m.State())
	reg, ok := m.WaitingRegister()
	assert.True(t, ok)
	assert.Equal(t, uint8(5), reg)

	// no key held: registers never change
	for i := 0; i < 50; i++ {
		advance(t, m, 1)
		assert.Equal(t, WaitingForKey, m.State())
		assert.Equal(t, [16]uint8{}, m.CPU().V)
	}

	m.SetKey(0xD, true)
	m.SetKey(0x9, true)
	advance(t, m, 1)
	assert.Equal(t, Running, m.State())
	assert.Equal(t, uint8(0x9), m.CPU().V[5])
	// resolving the key consumed the tick
	assert.Equal(t, uint8(0), m.CPU().V[1])
	assert.Equal(t, uint16(0x202), m.CPU().PC())

	advance(t, m, 1)
	assert.Equal(t, uint8(7), m.CPU().V[1])

	_, ok = m.WaitingRegister()
	assert.False(t, ok)
}

func TestTimersFrozenWhileWaiting(t *testing.T) {
	m, _ := newMachine(t,
		0x60, 0x0A, // LD V0, 10
		0xF0, 0x15, // LD DT, V0
		0xF0, 0x18, // LD ST, V0
		0xF1, 0x0A, // LD V1, K
		0x12, 0x08, // JP 0x208
	)
	advance(t, m, 3)
	m.DecrementTimers()
	assert.Equal(t, uint8(9), m.CPU().DelayTimer())
	assert.True(t, m.SoundActive())

	advance(t, m, 1)
	require.Equal(t, WaitingForKey, m.State())
	for i := 0; i < 20; i++ {
		m.DecrementTimers()
		advance(t, m, 1)
	}
	assert.Equal(t, uint8(9), m.CPU().DelayTimer())
	assert.Equal(t, uint8(9), m.CPU().SoundTimer())

	m.SetKey(0x0, true)
	advance(t, m, 1)
	m.DecrementTimers()
	assert.Equal(t, uint8(8), m.CPU().DelayTimer())
	assert.Equal(t, uint8(0), m.CPU().V[1])
}

func TestUnknownOpcodeIsReported(t *testing.T) {
	m, logBuf := newMachine(t, 0xFF, 0xFF, 0x60, 0x01)
	advance(t, m, 1)
	assert.Contains(t, logBuf.String(), "FFFF")

	advance(t, m, 1)
	assert.Equal(t, uint8(1), m.CPU().V[0])
}

func TestFatalErrorsPropagate(t *testing.T) {
	m, _ := newMachine(t, 0x00, 0xEE)
	err := m.Advance()
	assert.True(t, errors.Is(err, cpu.ErrStackUnderflow))
}

func TestReleaseKeys(t *testing.T) {
	m, _ := newMachine(t, 0xF2, 0x0A)
	advance(t, m, 1)

	m.SetKey(0x3, true)
	m.ReleaseKeys()
	advance(t, m, 1)
	assert.Equal(t, WaitingForKey, m.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "waiting for key", WaitingForKey.String())
}
