package main

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/bigclock/audio"
	"github.com/lixenwraith/bigclock/core"
	"github.com/lixenwraith/bigclock/engine"
	"github.com/lixenwraith/bigclock/render"
	"github.com/lixenwraith/bigclock/timer"
)

func main() {
	// Panic recovery: ensure the terminal is reset even if the clock crashes
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "bigclock: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	clock := timer.NewSystemClock()

	tmr, err := timer.New(clock)
	if err != nil {
		return err
	}
	defer tmr.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal open: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	// Restores the terminal on every exit path, fatal errors included
	defer screen.Fini()

	chime, err := audio.NewChime()
	if err != nil {
		// Non-fatal, the clock can run without sound
		chime = nil
	}

	draw := func() {
		now := clock.Now()
		render.Draw(screen, now)
		if chime != nil {
			chime.Observe(now)
		}
	}

	coord := engine.NewCoordinator(engine.NewBridge(tmr), screen, draw)
	return coord.Run()
}
