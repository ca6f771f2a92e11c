package playback

import (
	"context"
	"fmt"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Player plays a Stream on the default output device.
type Player struct {
	ctx    *oto.Context
	player *oto.Player
	stream *Stream
}

// NewPlayer opens the output device at sampleRate. Only one Player may
// exist per process.
func NewPlayer(sampleRate int, stream *Stream) (*Player, error) {
	opts := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: OutputChannels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   0,
	}
	ctx, ready, err := oto.NewContext(opts)
	if err != nil {
		return nil, fmt.Errorf("playback: %w", err)
	}
	<-ready

	return &Player{ctx: ctx, player: ctx.NewPlayer(stream), stream: stream}, nil
}

// Play starts playback.
func (p *Player) Play() { p.player.Play() }

// Wait blocks until the stream has finished playing or ctx is done.
func (p *Player) Wait(ctx context.Context) error {
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for p.player.IsPlaying() || !p.stream.Finished() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := p.player.Err(); err != nil {
			return fmt.Errorf("playback: %w", err)
		}
	}
	return nil
}

// Close stops playback and releases the player.
func (p *Player) Close() error {
	return p.player.Close()
}
