package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"

	"github.com/beanboi7/chyp8/emu/audio"
	"github.com/beanboi7/chyp8/emu/host"
	"github.com/beanboi7/chyp8/emu/machine"
	"github.com/beanboi7/chyp8/emu/screen"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var startCmd = &cobra.Command{
	Use:   "start `path/ROM`",
	Short: "load and start the Emulator",
	Args:  cobra.ExactArgs(1),
	RunE:  Start,
}

// chyp8 start 'path/to/ROM' -r 60 -s 10
func Start(cmd *cobra.Command, args []string) error {
	cfg := loadSettings(viper.GetViper())

	emu, err := newMachine(args[0], cfg)
	if err != nil {
		return fmt.Errorf("error starting the Emulator: %w", err)
	}

	win, err := screen.NewWindow("Chyp8", cfg.Scale)
	if err != nil {
		return fmt.Errorf("error opening window: %w", err)
	}

	loop := &host.Loop{
		Machine:  emu,
		Frontend: win,
		Speaker:  newSpeaker(cfg.Beep),
		Config: host.Config{
			StepsPerFrame: cfg.Steps,
			FrameRate:     cfg.Refresh,
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newMachine(romPath string, cfg settings) (*machine.Machine, error) {
	opts := []machine.Option{machine.WithLogger(log.Default())}
	if cfg.Seed != 0 {
		opts = append(opts, machine.WithRandSource(rand.NewSource(cfg.Seed)))
	}

	emu := machine.New(opts...)
	if err := emu.LoadROMFile(romPath); err != nil {
		return nil, err
	}
	return emu, nil
}

func newSpeaker(path string) host.Speaker {
	beeper, err := audio.NewBeeper(path)
	if err != nil {
		log.Printf("audio disabled: %v", err)
		return audio.Silent{}
	}
	return beeper
}

func init() {
	rootCmd.AddCommand(startCmd)
	startCmd.Flags().IntP(keyRefresh, "r", host.DefaultFrameRate, "sets the refresh rate of the display in Hz")
	startCmd.Flags().IntP(keySteps, "s", host.DefaultStepsPerFrame, "instructions executed per frame")
	startCmd.Flags().Int(keyScale, screen.DefaultScale, "window pixels per CHIP-8 pixel")
	startCmd.Flags().String(keyBeep, "assets/beep.mp3", "mp3 played while the sound timer runs")
	startCmd.Flags().Int64(keySeed, 0, "seed for the RND instruction, 0 seeds from the clock")

	setDefaults(viper.GetViper())
	for _, key := range []string{keyRefresh, keySteps, keyScale, keyBeep, keySeed} {
		cobra.CheckErr(viper.BindPFlag(key, startCmd.Flags().Lookup(key)))
	}
}
