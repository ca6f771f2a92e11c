package wavio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/go-mp3"

	"github.com/cwbudde/algo-delay/dsp/buffer"
)

const (
	mp3Channels = 2
	mp3BitDepth = 16
)

// ReadMP3 decodes an MP3 stream. The result is always stereo at 16 bits.
func ReadMP3(r io.Reader) (*File, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode: %w", err)
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode: %w", err)
	}

	frames := len(raw) / (mp3Channels * 2)
	block := buffer.New(mp3Channels, frames)
	scale := 1 / fullScale(mp3BitDepth)
	for i := range frames {
		for ch := range mp3Channels {
			off := (i*mp3Channels + ch) * 2
			block.Channel(ch)[i] = float64(int16(binary.LittleEndian.Uint16(raw[off:]))) * scale
		}
	}

	return &File{
		SampleRate: dec.SampleRate(),
		BitDepth:   mp3BitDepth,
		Audio:      block,
	}, nil
}

// Open decodes the audio file at path, choosing the decoder by extension:
// .mp3 files go through ReadMP3 and everything else through Read.
func Open(path string) (*File, error) {
	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadMP3(f)
	}
	return ReadFile(path)
}
