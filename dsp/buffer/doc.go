// Package buffer provides planar multichannel audio blocks and a pool for
// reusing them. Processing code takes raw [][]float64 channel slices;
// Block is an optional owner for those slices that handles allocation,
// reuse and conversion to and from interleaved streams.
package buffer
