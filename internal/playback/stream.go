// Package playback streams the delay processor to an audio device.
//
// A [Stream] is the real-time side: the device pulls bytes from it and it
// renders blocks through the processor on demand. [PollLevels] is the
// control side, reading the processor's peak meters on a timer.
package playback

import (
	"context"
	"encoding/binary"
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-delay/dsp/buffer"
	"github.com/cwbudde/algo-delay/dsp/tempo"
	"github.com/cwbudde/algo-delay/plugin/processor"
)

// OutputChannels is the channel count of the encoded stream.
const OutputChannels = 2

const bytesPerSample = 4

// Source supplies input audio.
type Source interface {
	// Channels returns the input channel count, 1 or 2.
	Channels() int
	// Fill writes up to len(dst[0]) frames into dst and returns the number
	// written. It returns 0 once the input is exhausted.
	Fill(dst [][]float64) int
}

// BlockSource plays a block from the start, optionally looping.
type BlockSource struct {
	Block *buffer.Block
	Loop  bool
	pos   int
}

// Channels implements Source.
func (s *BlockSource) Channels() int { return s.Block.Channels() }

// Fill implements Source.
func (s *BlockSource) Fill(dst [][]float64) int {
	frames := s.Block.Frames()
	if frames == 0 || len(dst) == 0 {
		return 0
	}
	if s.pos >= frames {
		if !s.Loop {
			return 0
		}
		s.pos = 0
	}

	n := min(len(dst[0]), frames-s.pos)
	for ch, out := range dst {
		copy(out[:n], s.Block.Channel(ch)[s.pos:s.pos+n])
	}
	s.pos += n
	return n
}

// Stream renders the processor output as interleaved stereo float32
// little-endian samples. Read is called by the audio device; all other
// methods are safe from any goroutine.
type Stream struct {
	proc      *processor.Processor
	src       Source
	transport tempo.Transport

	in, out  *buffer.Block
	inViews  [][]float64
	outViews [][]float64
	pending  []byte
	encoded  []byte

	tail     int
	frames   atomic.Int64
	finished atomic.Bool
}

// NewStream returns a stream rendering src through proc in blocks of
// blockSize frames. After src is exhausted, tail more frames are rendered
// so echoes can ring out. proc must be prepared; the stream becomes its
// only caller of Process.
func NewStream(proc *processor.Processor, src Source, transport tempo.Transport, blockSize int, tail time.Duration) *Stream {
	if blockSize <= 0 {
		blockSize = 512
	}
	return &Stream{
		proc:      proc,
		src:       src,
		transport: transport,
		in:        buffer.New(src.Channels(), blockSize),
		out:       buffer.New(OutputChannels, blockSize),
		inViews:   make([][]float64, 0, 2),
		outViews:  make([][]float64, 0, 2),
		encoded:   make([]byte, 0, blockSize*OutputChannels*bytesPerSample),
		tail:      int(tail.Seconds() * proc.SampleRate()),
	}
}

// Read implements io.Reader.
func (s *Stream) Read(p []byte) (int, error) {
	written := 0
	for written < len(p) {
		if len(s.pending) == 0 {
			if !s.render() {
				s.finished.Store(true)
				if written == 0 {
					return 0, io.EOF
				}
				return written, nil
			}
		}
		n := copy(p[written:], s.pending)
		s.pending = s.pending[n:]
		written += n
	}
	return written, nil
}

// render produces the next block into pending. It returns false at the
// end of the stream.
func (s *Stream) render() bool {
	blockSize := s.out.Frames()
	s.in.Resize(blockSize)
	s.in.Zero()

	n := s.src.Fill(s.in.Planar())
	if n == 0 {
		if s.tail <= 0 {
			return false
		}
		n = min(blockSize, s.tail)
		s.tail -= n
	}

	s.inViews = s.in.View(0, n, s.inViews)
	s.outViews = s.out.View(0, n, s.outViews)
	s.proc.Process(s.inViews, s.outViews, s.transport)

	s.encoded = s.encoded[:0]
	var sample [bytesPerSample]byte
	for i := 0; i < n; i++ {
		for _, ch := range s.outViews {
			binary.LittleEndian.PutUint32(sample[:], math.Float32bits(float32(ch[i])))
			s.encoded = append(s.encoded, sample[:]...)
		}
	}
	s.pending = s.encoded
	s.frames.Add(int64(n))
	return true
}

// Position returns the playback time rendered so far.
func (s *Stream) Position() time.Duration {
	return time.Duration(float64(s.frames.Load()) / s.proc.SampleRate() * float64(time.Second))
}

// Finished reports whether the stream has reached its end.
func (s *Stream) Finished() bool { return s.finished.Load() }

// PollLevels reads and resets proc's peak meters every interval and passes
// them to report until ctx is done.
func PollLevels(ctx context.Context, proc *processor.Processor, interval time.Duration, report func(left, right float64)) {
	left, right := proc.Levels()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report(left.ReadAndReset(), right.ReadAndReset())
		}
	}
}
