package audio

import (
	"fmt"
	"os"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

// Beeper plays a short recorded beep each time the sound timer starts
// running.
type Beeper struct {
	play   func()
	active bool
}

// NewBeeper decodes the mp3 at path into memory and opens the speaker.
func NewBeeper(path string) (*Beeper, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	defer streamer.Close()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)

	err = speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10))
	if err != nil {
		return nil, err
	}

	return &Beeper{
		play: func() {
			speaker.Play(buffer.Streamer(0, buffer.Len()))
		},
	}, nil
}

// SetActive starts the beep on the rising edge of active.
func (b *Beeper) SetActive(active bool) {
	if active && !b.active {
		b.play()
	}
	b.active = active
}

// Silent is a speaker that never makes a sound, used when no beep asset
// is available.
type Silent struct{}

func (Silent) SetActive(bool) {}
