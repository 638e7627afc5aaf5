package host

import (
	"context"
	"time"

	"github.com/beanboi7/chyp8/emu/machine"
	"github.com/beanboi7/chyp8/emu/memory"
)

const (
	DefaultStepsPerFrame = 10
	DefaultFrameRate     = 60
)

// Frontend is the window the emulator draws into and reads keys from.
type Frontend interface {
	Closed() bool
	UpdateKeys(set func(code uint8, pressed bool))
	Render(buf [memory.DisplayPixels]uint32)
}

// Speaker plays the beep while the sound timer runs.
type Speaker interface {
	SetActive(active bool)
}

type Config struct {
	StepsPerFrame int
	FrameRate     int
}

// Loop drives a machine at a fixed frame rate: each frame reads keys, runs
// StepsPerFrame ticks, decrements the timers once and renders.
type Loop struct {
	Machine  *machine.Machine
	Frontend Frontend
	Speaker  Speaker
	Config   Config
}

func (l *Loop) stepsPerFrame() int {
	if l.Config.StepsPerFrame <= 0 {
		return DefaultStepsPerFrame
	}
	return l.Config.StepsPerFrame
}

func (l *Loop) frameDuration() time.Duration {
	rate := l.Config.FrameRate
	if rate <= 0 {
		rate = DefaultFrameRate
	}
	return time.Second / time.Duration(rate)
}

// Frame runs a single host frame.
func (l *Loop) Frame() error {
	l.Frontend.UpdateKeys(l.Machine.SetKey)

	for i := 0; i < l.stepsPerFrame(); i++ {
		if err := l.Machine.Advance(); err != nil {
			return err
		}
	}
	l.Machine.DecrementTimers()

	if l.Speaker != nil {
		l.Speaker.SetActive(l.Machine.SoundActive())
	}
	l.Frontend.Render(l.Machine.Display())
	return nil
}

// Run calls Frame once per tick until the frontend closes, the context is
// done or the machine hits a fatal error.
func (l *Loop) Run(ctx context.Context) error {
	clock := time.NewTicker(l.frameDuration())
	defer clock.Stop()
	defer func() {
		if l.Speaker != nil {
			l.Speaker.SetActive(false)
		}
	}()

	for !l.Frontend.Closed() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clock.C:
			if err := l.Frame(); err != nil {
				return err
			}
		}
	}
	return nil
}
