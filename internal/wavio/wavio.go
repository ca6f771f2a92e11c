// Package wavio reads and writes PCM WAV files as planar float64 blocks
// and decodes MP3 input.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/cwbudde/algo-vecmath"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-delay/dsp/buffer"
)

// ErrInvalidFile is returned for input that is not a PCM WAV file.
var ErrInvalidFile = errors.New("wavio: not a valid wav file")

const wavFormatPCM = 1

// File is decoded audio with its stream format. Samples are in [-1, 1].
type File struct {
	SampleRate int
	BitDepth   int
	Audio      *buffer.Block
}

// Read decodes a PCM WAV stream.
func Read(r io.ReadSeeker) (*File, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrInvalidFile
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wavio decode: %w", err)
	}

	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	if channels <= 0 || bitDepth <= 0 {
		return nil, fmt.Errorf("%w: %d channels at %d bits", ErrInvalidFile, channels, bitDepth)
	}

	inter := make([]float64, len(pcm.Data))
	for i, v := range pcm.Data {
		inter[i] = float64(v)
	}
	vecmath.ScaleBlockInPlace(inter, 1/fullScale(bitDepth))

	block := &buffer.Block{}
	if err := block.Deinterleave(inter, channels); err != nil {
		return nil, fmt.Errorf("wavio decode: %w", err)
	}
	return &File{
		SampleRate: int(dec.SampleRate),
		BitDepth:   bitDepth,
		Audio:      block,
	}, nil
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Read(f)
}

// Write encodes f as PCM. BitDepth must be 16, 24 or 32; samples outside
// [-1, 1] are clipped.
func Write(w io.WriteSeeker, f *File) error {
	if f == nil || f.Audio == nil || f.Audio.Channels() == 0 {
		return errors.New("wavio: nothing to write")
	}
	if f.SampleRate <= 0 {
		return fmt.Errorf("wavio sample rate must be > 0: %d", f.SampleRate)
	}
	switch f.BitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("wavio bit depth must be 16, 24 or 32: %d", f.BitDepth)
	}

	channels := f.Audio.Channels()
	inter := f.Audio.Interleave(nil)
	scale := fullScale(f.BitDepth)
	vecmath.ScaleBlockInPlace(inter, scale)

	data := make([]int, len(inter))
	limit := scale - 1
	for i, v := range inter {
		data[i] = int(math.Round(math.Max(-scale, math.Min(limit, v))))
	}

	enc := wav.NewEncoder(w, f.SampleRate, f.BitDepth, channels, wavFormatPCM)
	pcm := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: f.SampleRate},
		Data:           data,
		SourceBitDepth: f.BitDepth,
	}
	if err := enc.Write(pcm); err != nil {
		return fmt.Errorf("wavio encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavio encode: %w", err)
	}
	return nil
}

// WriteFile encodes f to a new file at path.
func WriteFile(path string, f *File) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(out, f); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func fullScale(bitDepth int) float64 {
	return math.Ldexp(1, bitDepth-1)
}
