package buffer

import "fmt"

// Block is planar audio: one []float64 per channel, all of Frames length.
type Block struct {
	channels [][]float64
	frames   int
}

// New returns a zero-filled block. Negative sizes are treated as 0.
func New(channels, frames int) *Block {
	if channels < 0 {
		channels = 0
	}
	if frames < 0 {
		frames = 0
	}
	b := &Block{channels: make([][]float64, channels), frames: frames}
	for ch := range b.channels {
		b.channels[ch] = make([]float64, frames)
	}
	return b
}

// FromPlanar wraps existing channel slices without copying. All channels
// must have the same length.
func FromPlanar(channels [][]float64) (*Block, error) {
	frames := 0
	if len(channels) > 0 {
		frames = len(channels[0])
	}
	for ch, data := range channels {
		if len(data) != frames {
			return nil, fmt.Errorf("buffer channel %d length must be %d: %d", ch, frames, len(data))
		}
	}
	return &Block{channels: channels, frames: frames}, nil
}

// Channels returns the channel count.
func (b *Block) Channels() int { return len(b.channels) }

// Frames returns the number of samples per channel.
func (b *Block) Frames() int { return b.frames }

// Channel returns the samples of channel ch.
func (b *Block) Channel(ch int) []float64 { return b.channels[ch] }

// Planar returns the channel slices. Mutations are visible through the
// block and vice versa.
func (b *Block) Planar() [][]float64 { return b.channels }

// Resize sets the frame count, reusing capacity when possible. Samples
// beyond the previous length are zeroed.
func (b *Block) Resize(frames int) {
	if frames < 0 {
		frames = 0
	}
	for ch, data := range b.channels {
		old := len(data)
		if frames <= cap(data) {
			data = data[:frames]
		} else {
			grown := make([]float64, frames)
			copy(grown, data)
			data = grown
		}
		if frames > old {
			clear(data[old:])
		}
		b.channels[ch] = data
	}
	b.frames = frames
}

// SetChannels changes the channel count. New channels are silent; the
// frame count is kept.
func (b *Block) SetChannels(channels int) {
	if channels < 0 {
		channels = 0
	}
	if channels <= len(b.channels) {
		b.channels = b.channels[:channels]
		return
	}
	for len(b.channels) < channels {
		b.channels = append(b.channels, make([]float64, b.frames))
	}
}

// Zero silences every channel.
func (b *Block) Zero() {
	for _, data := range b.channels {
		clear(data)
	}
}

// View fills dst with the [start, end) range of every channel and returns
// it. dst is reused when it has enough capacity, so a caller that keeps
// dst can take views without allocating. Indices are clamped.
func (b *Block) View(start, end int, dst [][]float64) [][]float64 {
	start = max(0, min(start, b.frames))
	end = max(start, min(end, b.frames))

	dst = dst[:0]
	for _, data := range b.channels {
		dst = append(dst, data[start:end])
	}
	return dst
}

// Copy returns a deep copy.
func (b *Block) Copy() *Block {
	c := New(len(b.channels), b.frames)
	for ch, data := range b.channels {
		copy(c.channels[ch], data)
	}
	return c
}

// Interleave writes the block as frame-major samples into dst, growing it
// if needed, and returns the filled slice.
func (b *Block) Interleave(dst []float64) []float64 {
	n := len(b.channels) * b.frames
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]

	stride := len(b.channels)
	for ch, data := range b.channels {
		for i, v := range data {
			dst[i*stride+ch] = v
		}
	}
	return dst
}

// Deinterleave replaces the block contents with frame-major src holding
// channels channels. A trailing partial frame is dropped.
func (b *Block) Deinterleave(src []float64, channels int) error {
	if channels <= 0 {
		return fmt.Errorf("buffer channel count must be > 0: %d", channels)
	}
	b.SetChannels(channels)
	b.Resize(len(src) / channels)

	for ch, data := range b.channels {
		for i := range data {
			data[i] = src[i*channels+ch]
		}
	}
	return nil
}
