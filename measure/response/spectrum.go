package response

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-delay/dsp/filter/svf"
)

// FloorDB is the level reported for bins with no energy.
const FloorDB = -200.0

// MagnitudeDB returns the magnitude spectrum of ir in dB for bins
// 0..fftSize/2. ir is truncated or zero-padded to fftSize, which must be a
// power of two.
func MagnitudeDB(ir []float64, fftSize int) ([]float64, error) {
	if fftSize < 2 || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("response fft size must be a power of two >= 2: %d", fftSize)
	}

	in := make([]complex128, fftSize)
	for i, v := range ir[:min(len(ir), fftSize)] {
		in[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("response fft plan: %w", err)
	}
	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return nil, fmt.Errorf("response fft: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for k := range bins {
		re[k] = real(out[k])
		im[k] = imag(out[k])
	}
	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	for k, m := range mag {
		mag[k] = toDB(m)
	}
	return mag, nil
}

// BinFrequency returns the centre frequency of bin k in Hz.
func BinFrequency(k, fftSize int, sampleRate float64) float64 {
	return float64(k) * sampleRate / float64(fftSize)
}

// ToneResponse returns the gain in dB of the feedback tone stage (a
// highpass at lowCut followed by a lowpass at highCut) at each of freqs.
// Frequencies are resolved to the nearest bin of an fftSize-point FFT.
func ToneResponse(lowCut, highCut, sampleRate float64, freqs []float64, fftSize int) ([]float64, error) {
	hp, err := svf.New(svf.Highpass, sampleRate, 1)
	if err != nil {
		return nil, err
	}
	lp, err := svf.New(svf.Lowpass, sampleRate, 1)
	if err != nil {
		return nil, err
	}
	hp.SetCutoff(lowCut)
	lp.SetCutoff(highCut)

	ir := make([]float64, fftSize)
	if len(ir) > 0 {
		ir[0] = 1
	}
	hp.ProcessBlock(0, ir)
	lp.ProcessBlock(0, ir)

	spec, err := MagnitudeDB(ir, fftSize)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(freqs))
	for i, f := range freqs {
		k := int(math.Round(f * float64(fftSize) / sampleRate))
		out[i] = spec[max(0, min(k, len(spec)-1))]
	}
	return out, nil
}

func toDB(m float64) float64 {
	if m <= 0 {
		return FloorDB
	}
	return max(20*math.Log10(m), FloorDB)
}
