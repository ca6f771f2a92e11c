//go:build !dspdebug

package delay

import (
	"math"
	"testing"
)

func TestReadClampsOutOfRange(t *testing.T) {
	d, err := New(8)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 20; i++ {
		d.Write(float64(i))
	}

	tests := []struct {
		name  string
		delay float64
		same  float64
	}{
		{name: "below minimum", delay: 0.25, same: MinDelay},
		{name: "negative", delay: -3, same: MinDelay},
		{name: "nan", delay: math.NaN(), same: MinDelay},
		{name: "beyond capacity", delay: 1e6, same: 8},
		{name: "inf", delay: math.Inf(1), same: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, want := d.Read(tt.delay), d.Read(tt.same); got != want {
				t.Fatalf("Read(%v) = %v, want %v", tt.delay, got, want)
			}
		})
	}
}

func TestWriteToUnsizedLineIsIgnored(t *testing.T) {
	var d Line
	d.Write(1)
	if d.Len() != 0 {
		t.Fatalf("Len = %d, want 0", d.Len())
	}
}
