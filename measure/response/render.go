package response

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-delay/dsp/buffer"
	"github.com/cwbudde/algo-delay/dsp/tempo"
	"github.com/cwbudde/algo-delay/plugin/processor"
)

// DefaultBlockSize is the block length Render uses when none is set.
const DefaultBlockSize = 512

// ErrNotPrepared is returned when rendering through a processor that has
// not been prepared.
var ErrNotPrepared = errors.New("response: processor is not prepared")

var scratch = buffer.NewPool()

// Config controls Render.
type Config struct {
	// Length is the number of frames rendered per channel.
	Length int
	// BlockSize is the processing block length; 0 means DefaultBlockSize.
	BlockSize int
	// Stereo places the impulse on both inputs instead of the left only.
	Stereo bool
	// Transport is passed to every block and may be nil.
	Transport tempo.Transport
}

// Render resets p and returns its stereo response to a unit impulse at
// frame 0. p is left holding the tail of the rendered response.
func Render(p *processor.Processor, cfg Config) (*buffer.Block, error) {
	if p == nil || !p.Prepared() {
		return nil, ErrNotPrepared
	}
	if cfg.Length <= 0 {
		return nil, fmt.Errorf("response length must be > 0: %d", cfg.Length)
	}
	blockSize := cfg.BlockSize
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}

	p.Reset()

	out := buffer.New(2, cfg.Length)
	in := scratch.Get(2, blockSize)
	defer scratch.Put(in)

	views := make([][]float64, 0, 2)
	for start := 0; start < cfg.Length; start += blockSize {
		end := min(start+blockSize, cfg.Length)

		in.Resize(end - start)
		in.Zero()
		if start == 0 {
			in.Channel(0)[0] = 1
			if cfg.Stereo {
				in.Channel(1)[0] = 1
			}
		}

		views = out.View(start, end, views)
		p.Process(in.Planar(), views, cfg.Transport)
	}
	return out, nil
}
