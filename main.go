// main.go - CLI entrypoint: parses flags, loads default.cfg, builds the
// selected Host frontend, wires serial backends, and runs the machine.
//
// Grounded on the teacher's own main.go: a package-main flag.FlagSet
// dispatching on a handful of boolean mode flags, no cobra/viper layer
// anywhere in the pack. The teacher builds its own flag.NewFlagSet with a
// custom Usage func; this one uses the top-level flag.String/flag.Bool
// registry instead since there's a single fixed flag set with no need for
// flagSet.SetOutput(io.Discard)'s error-suppression trick.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	var (
		cfgPath  = flag.String("config", "default.cfg", "path to the configuration file")
		biosFlag = flag.String("bios", "", "override BIOS image path")
		fdFlag   = flag.String("fd", "", "override floppy disk image path")
		hdFlag   = flag.String("hd", "", "override hard disk image path")
		textMode = flag.Bool("text", false, "run the terminal frontend instead of the windowed one")
		headless = flag.Bool("headless", false, "run with no frontend at all (automated use)")
		mipsCap  = flag.Int("mips", 0, "advisory MIPS cap (parsed, not applied or displayed)")
	)
	flag.Parse()

	cfg, err := LoadConfig(*cfgPath)
	if err != nil {
		ie86log.Printf("using default configuration: %v", err)
	}

	biosPath, fdPath, hdPath := cfg.BIOSPath, cfg.FDPath, cfg.HDPath
	if *biosFlag != "" {
		biosPath = *biosFlag
	}
	if *fdFlag != "" {
		fdPath = *fdFlag
	}
	if *hdFlag != "" {
		hdPath = *hdFlag
	}

	var audio AudioSink
	if cfg.SoundEnable && !*headless {
		sink, err := NewOtoAudioSink(cfg.SoundSampleRate)
		if err != nil {
			ie86log.Printf("audio device unavailable, running muted: %v", err)
			audio = &DiscardAudioSink{}
		} else {
			audio = sink
		}
	} else {
		audio = &DiscardAudioSink{}
	}

	var host Host
	switch {
	case *headless:
		host = NewHeadlessHost(biosPath, fdPath, hdPath)
	case *textMode:
		th, err := NewTerminalHost(biosPath, fdPath, hdPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "terminal host init failed: %v\n", err)
			os.Exit(1)
		}
		defer th.Cleanup()
		host = th
	default:
		host = NewEbitenHost(biosPath, fdPath, hdPath, audio)
	}
	_ = mipsCap

	m := NewMachine(host, biosPath, fdPath, hdPath)

	for i, com := range cfg.COM {
		m.Serial.Ports[i].SetBackend(com.BuildBackend())
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	go func() {
		<-sigs
		cancel()
	}()

	if eh, ok := host.(*EbitenHost); ok {
		go func() {
			if err := RunMainLoop(ctx, m); err != nil && err != context.Canceled {
				ie86log.Printf("main loop exited: %v", err)
			}
			cancel()
		}()
		if err := runEbitenGame(eh); err != nil {
			ie86log.Printf("display init failed: %v", err)
		}
		cancel()
		return
	}

	if err := RunMainLoop(ctx, m); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "main loop exited: %v\n", err)
		os.Exit(1)
	}
}
