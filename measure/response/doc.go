// Package response renders and analyses impulse responses of the delay
// processor.
//
// [Render] pushes a unit impulse through a prepared processor. The result
// can be inspected in the time domain with [Echoes] and [DecayTime], or in
// the frequency domain with [MagnitudeDB] and [ToneResponse].
//
// # Usage
//
//	ir, err := response.Render(proc, response.Config{Length: 48000})
//	echoes := response.Echoes(ir.Channel(0), 1e-3, 64)
//	fmt.Printf("first echo after %d samples\n", echoes[1].Index)
package response
