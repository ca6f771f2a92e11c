package delay_test

import (
	"fmt"

	"github.com/cwbudde/algo-delay/dsp/delay"
)

func ExampleLine_Read() {
	line, err := delay.New(8)
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, x := range []float64{1, 2, 3, 4, 5} {
		line.Write(x)
	}

	fmt.Println(line.Read(1), line.Read(2), line.Read(1.5))
	// Output:
	// 4 3 3.5
}
