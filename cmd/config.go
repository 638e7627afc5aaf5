package cmd

import (
	"github.com/beanboi7/chyp8/emu/host"
	"github.com/beanboi7/chyp8/emu/screen"

	"github.com/spf13/viper"
)

const (
	keySteps   = "steps"
	keyRefresh = "refresh"
	keyScale   = "scale"
	keyBeep    = "beep"
	keySeed    = "seed"
)

type settings struct {
	Steps   int
	Refresh int
	Scale   int
	Beep    string
	Seed    int64
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keySteps, host.DefaultStepsPerFrame)
	v.SetDefault(keyRefresh, host.DefaultFrameRate)
	v.SetDefault(keyScale, screen.DefaultScale)
	v.SetDefault(keyBeep, "assets/beep.mp3")
	v.SetDefault(keySeed, 0)
}

func loadSettings(v *viper.Viper) settings {
	return settings{
		Steps:   v.GetInt(keySteps),
		Refresh: v.GetInt(keyRefresh),
		Scale:   v.GetInt(keyScale),
		Beep:    v.GetString(keyBeep),
		Seed:    v.GetInt64(keySeed),
	}
}
