// Command delayfx runs audio through the stereo tempo-sync delay.
//
// Usage:
//
//	delayfx [flags] input.(wav|mp3) [output.wav]
//
// With an output path the processed audio, including the echo tail, is
// written as WAV. With -play it is streamed to the default audio device
// instead. Every parameter has a flag named after its id that accepts the
// same text a host would display:
//
//	delayfx -delayTime "375 ms" -feedback 45 -stereo 60 in.wav out.wav
//	delayfx -tempoSync on -delayNote "1/8 dot" -bpm 96 -play in.wav
//	delayfx -automation sweep.lua -save-state preset.xml in.wav out.wav
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.logLevel, stderr)
	if err != nil {
		return err
	}

	sess, err := newSession(cfg, logger)
	if err != nil {
		return err
	}
	defer sess.close()

	if cfg.play {
		err = sess.play(ctx, stderr)
	} else {
		var sum summary
		sum, err = sess.render(ctx)
		if err == nil {
			sum.print(stdout)
		}
	}
	if err != nil {
		return err
	}

	return sess.saveState()
}
