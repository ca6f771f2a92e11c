// Command delayinfo prints tempo-sync note lengths and the tone response
// of the feedback filters.
//
// Usage:
//
//	delayinfo [flags]
//
// Examples:
//
//	delayinfo -bpm 96
//	delayinfo -low 200 -high 4k
//	delayinfo -notes=false -freqs 100,1k,10k -rate 44100
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-delay/dsp/tempo"
	"github.com/cwbudde/algo-delay/measure/response"
	"github.com/cwbudde/algo-delay/plugin/params"
)

const defaultFreqs = "20,50,100,200,500,1k,2k,5k,10k,20k"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("delayinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	bpm := fs.Float64("bpm", tempo.DefaultBPM, "tempo for the note length table")
	notes := fs.Bool("notes", true, "print the note length table")
	tone := fs.Bool("tone", true, "print the feedback tone response")
	low := fs.String("low", "20", "low cut frequency (e.g. 200, 1.5k)")
	high := fs.String("high", "20k", "high cut frequency")
	freqList := fs.String("freqs", defaultFreqs, "comma separated probe frequencies")
	rate := fs.Float64("rate", 48000, "sample rate in Hz")
	fftSize := fs.Int("fft", 1<<14, "FFT size for the tone response (power of two)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: delayinfo [flags]\n\n")
		fmt.Fprintf(stderr, "Prints tempo-sync note lengths and the feedback tone response.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *notes {
		if err := printNotes(stdout, *bpm); err != nil {
			return err
		}
	}
	if *notes && *tone {
		fmt.Fprintln(stdout)
	}
	if *tone {
		freqs, err := parseFreqs(*freqList)
		if err != nil {
			return err
		}
		lowHz := parseHz(*low)
		highHz := parseHz(*high)
		if !(lowHz > 0) || !(highHz > 0) {
			return fmt.Errorf("cutoffs must be > 0: %q, %q", *low, *high)
		}
		return printTone(stdout, lowHz, highHz, *rate, freqs, *fftSize)
	}
	return nil
}

func parseFreqs(list string) ([]float64, error) {
	var freqs []float64
	for _, field := range strings.Split(list, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		hz := parseHz(field)
		if !(hz > 0) {
			return nil, fmt.Errorf("invalid frequency %q", field)
		}
		freqs = append(freqs, hz)
	}
	if len(freqs) == 0 {
		return nil, errors.New("no frequencies given")
	}
	return freqs, nil
}

// parseHz reads a frequency with an optional k suffix. Without a suffix it
// follows the parameter text parser.
func parseHz(text string) float64 {
	text = strings.TrimSpace(text)
	if k, ok := strings.CutSuffix(strings.ToLower(text), "k"); ok {
		v, err := strconv.ParseFloat(strings.TrimSpace(k), 64)
		if err != nil {
			return math.NaN()
		}
		return v * 1000
	}
	return params.HzFromString(text)
}

func printNotes(w io.Writer, bpm float64) error {
	var clock tempo.Clock
	clock.Update(tempo.FixedTransport(bpm))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Note\tBeats\tTime @ %.1f BPM\tSamples @ 48k\n", clock.BPM())
	fmt.Fprintf(tw, "----\t-----\t---------------\t-------------\n")
	for i, name := range tempo.NoteNames() {
		beats, err := tempo.NoteLength(i)
		if err != nil {
			return err
		}
		ms := clock.MillisecondsForNoteLength(i)
		if _, err := fmt.Fprintf(tw, "%s\t%.4g\t%s\t%.0f\n", name, beats, params.StringFromMilliseconds(ms), ms*48); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	return tw.Flush()
}

func printTone(w io.Writer, low, high, sampleRate float64, freqs []float64, fftSize int) error {
	db, err := response.ToneResponse(low, high, sampleRate, freqs, fftSize)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Tone response: low cut %s, high cut %s, %g Hz\n", params.StringFromHz(low), params.StringFromHz(high), sampleRate)
	fmt.Fprintf(tw, "Frequency\tGain per repeat\n")
	fmt.Fprintf(tw, "---------\t---------------\n")
	for i, f := range freqs {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", params.StringFromHz(f), params.StringFromDecibels(db[i])); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	return tw.Flush()
}
