package response

import "math"

// Echo is one detected repeat in an impulse response.
type Echo struct {
	Index int     // sample index of the peak
	Level float64 // absolute peak value
}

// LevelDB returns the echo level in dB relative to full scale.
func (e Echo) LevelDB() float64 { return toDB(e.Level) }

// Echoes scans ir for peaks of at least threshold magnitude. Once a sample
// crosses the threshold, the largest magnitude within the next minSpacing
// samples is taken as the echo and the scan resumes after that window.
func Echoes(ir []float64, threshold float64, minSpacing int) []Echo {
	if minSpacing < 1 {
		minSpacing = 1
	}

	var echoes []Echo
	for i := 0; i < len(ir); {
		if math.Abs(ir[i]) < threshold {
			i++
			continue
		}

		end := min(i+minSpacing, len(ir))
		best := Echo{Index: i, Level: math.Abs(ir[i])}
		for j := i + 1; j < end; j++ {
			if a := math.Abs(ir[j]); a > best.Level {
				best = Echo{Index: j, Level: a}
			}
		}
		echoes = append(echoes, best)
		i = end
	}
	return echoes
}

// Spacing returns the mean distance in samples between successive echoes,
// or 0 with fewer than two.
func Spacing(echoes []Echo) float64 {
	if len(echoes) < 2 {
		return 0
	}
	return float64(echoes[len(echoes)-1].Index-echoes[0].Index) / float64(len(echoes)-1)
}

// Schroeder returns the backward-integrated energy decay curve of ir in
// dB, normalised to 0 dB at the first sample.
func Schroeder(ir []float64) []float64 {
	n := len(ir)
	curve := make([]float64, n)

	var sum float64
	for i := n - 1; i >= 0; i-- {
		sum += ir[i] * ir[i]
		curve[i] = sum
	}
	if n == 0 || curve[0] <= 0 {
		for i := range curve {
			curve[i] = FloorDB
		}
		return curve
	}

	total := curve[0]
	for i, e := range curve {
		curve[i] = math.Max(10*math.Log10(e/total), FloorDB)
	}
	return curve
}

// DecayTime estimates the time in seconds for the response to decay by
// 60 dB. It fits a line to the Schroeder curve between -5 dB and -25 dB
// and extrapolates. It returns 0 when the response does not decay that
// far.
func DecayTime(ir []float64, sampleRate float64) float64 {
	if sampleRate <= 0 {
		return 0
	}
	curve := Schroeder(ir)

	start, end := -1, -1
	for i, v := range curve {
		if start < 0 && v <= -5 {
			start = i
		}
		if start >= 0 && v <= -25 {
			end = i
			break
		}
	}
	if start < 0 || end <= start {
		return 0
	}

	var sumX, sumY, sumXX, sumXY float64
	for i := start; i <= end; i++ {
		x := float64(i - start)
		y := curve[i]
		sumX += x
		sumY += y
		sumXX += x * x
		sumXY += x * y
	}
	n := float64(end - start + 1)
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}

	slope := (n*sumXY - sumX*sumY) / denom
	if slope >= 0 {
		return 0
	}
	return -60 / (slope * sampleRate)
}
