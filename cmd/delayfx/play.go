package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/cwbudde/algo-delay/dsp/core"
	"github.com/cwbudde/algo-delay/internal/playback"
)

const (
	meterInterval      = 50 * time.Millisecond
	automationInterval = 10 * time.Millisecond
	meterWidth         = 30
	meterFloorDB       = -60.0
)

func (s *session) play(ctx context.Context, stderr io.Writer) error {
	src := &playback.BlockSource{Block: s.input.Audio, Loop: s.cfg.loop}
	tail := time.Duration(s.tailSeconds() * float64(time.Second))
	stream := playback.NewStream(s.proc, src, s.transport, s.cfg.blockSize, tail)

	player, err := playback.NewPlayer(s.input.SampleRate, stream)
	if err != nil {
		return err
	}
	defer player.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	if s.script != nil {
		g.Go(func() error { return s.automate(gctx, stream) })
	}
	if f, ok := stderr.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		g.Go(func() error {
			playback.PollLevels(gctx, s.proc, meterInterval, func(l, r float64) {
				fmt.Fprintf(stderr, "\r%s", meterLine(l, r))
			})
			fmt.Fprintln(stderr)
			return nil
		})
	}

	s.logger.Info("playback started", "loop", s.cfg.loop, "tail", tail)
	player.Play()
	g.Go(func() error {
		defer cancel()
		return player.Wait(gctx)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		s.logger.Info("playback stopped", "position", stream.Position())
		return nil
	}
	return err
}

// automate applies the script at the stream position until ctx is done.
func (s *session) automate(ctx context.Context, stream *playback.Stream) error {
	ticker := time.NewTicker(automationInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.script.Apply(ctx, stream.Position().Seconds()); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("automation: %w", err)
			}
		}
	}
}

func meterLine(left, right float64) string {
	return fmt.Sprintf("L %s  R %s", meterBar(left), meterBar(right))
}

func meterBar(level float64) string {
	db := core.LinearToDB(level)
	filled := 0
	if db > meterFloorDB {
		filled = int((db - meterFloorDB) / -meterFloorDB * meterWidth)
	}
	filled = core.ClampInt(filled, 0, meterWidth)

	label := "  -inf"
	if db > meterFloorDB {
		label = fmt.Sprintf("%6.1f", db)
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(" ", meterWidth-filled) + "] " + label
}
