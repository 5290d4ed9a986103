/*
NAME
  tables.go

DESCRIPTION
  tables.go builds the per-group-size hard-threshold table and Wiener
  noise-variance constants a collaborative filter shrinks coefficients
  against.

AUTHORS
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package transform

import "math"

// ThresholdTable holds, for a fixed group size k and block size B, the
// hard threshold applied to every 3-D DCT coefficient. Index order
// matches block.Group's (k,y,x) layout.
type ThresholdTable struct {
	K, B int
	Data []float32 // length K*B*B
}

// NewThresholdTable builds the hard-threshold table for group size k
// and block size b, given the channel noise sigma (already rescaled
// into the transform's own units) and the lambda multiplier. A
// coefficient's threshold depends on how many of its (z,y,x) indices
// are zero: the DC axes carry more energy, so each zero index scales
// the base threshold up, per §4.4.
func NewThresholdTable(k, b int, sigma, lambda float64) *ThresholdTable {
	base := sigma * lambda * ForwardGain(k, b)
	scale := [4]float64{1, math.Sqrt2, 2, math.Sqrt(8)}

	t := &ThresholdTable{K: k, B: b, Data: make([]float32, k*b*b)}
	bb := b * b
	for z := 0; z < k; z++ {
		for y := 0; y < b; y++ {
			for x := 0; x < b; x++ {
				n := 0
				if z == 0 {
					n++
				}
				if y == 0 {
					n++
				}
				if x == 0 {
					n++
				}
				t.Data[z*bb+y*b+x] = float32(base * scale[n])
			}
		}
	}
	return t
}

// WienerSigmaSqr is the per-group-size (σ·g_k)² constant the empirical
// Wiener filter shrinks coefficients against.
type WienerSigmaSqr struct {
	K       int
	SigmaSq float64
}

// NewWienerSigmaSqr builds the Wiener variance constant for group size
// k and block size b from the channel's rescaled noise sigma.
func NewWienerSigmaSqr(k, b int, sigma float64) WienerSigmaSqr {
	g := ForwardGain(k, b)
	return WienerSigmaSqr{K: k, SigmaSq: (sigma * g) * (sigma * g)}
}
