//go:build dspdebug

package delay

import "testing"

func TestReadOutOfRangePanicsInDebugBuilds(t *testing.T) {
	d, err := New(8)
	if err != nil {
		t.Fatal(err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range read")
		}
	}()
	d.Read(0.5)
}
