/*
NAME
  tables_test.go

DESCRIPTION
  tables_test.go tests the hard-threshold and Wiener-variance table
  construction: DC-axis scaling and monotonic growth with sigma.

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

import "testing"

func TestThresholdTableDCHasFullScaling(t *testing.T) {
	tt := NewThresholdTable(4, 8, 10, 2.7)
	base := tt.Data[0] // z=0,y=0,x=0: three zero indices, scale sqrt(8)
	dc := ForwardGain(4, 8) * 10 * 2.7
	// the all-zero index carries scale[3] = sqrt(8), not 1.
	want := float32(dc * 2.8284271247461903)
	if diff := float64(base) - float64(want); diff > 1e-2 || diff < -1e-2 {
		t.Errorf("Data[0] = %v, want ~%v", base, want)
	}
}

func TestThresholdTableNonDCLowerThanDC(t *testing.T) {
	tt := NewThresholdTable(4, 8, 10, 2.7)
	bb := 8 * 8
	dc := tt.Data[0]
	nonDC := tt.Data[1*bb+1*8+1] // z,y,x all nonzero: scale 1
	if nonDC >= dc {
		t.Errorf("non-DC threshold %v should be smaller than DC threshold %v", nonDC, dc)
	}
}

func TestThresholdTableLength(t *testing.T) {
	tt := NewThresholdTable(3, 8, 5, 2.7)
	if len(tt.Data) != 3*8*8 {
		t.Errorf("len(Data) = %d, want %d", len(tt.Data), 3*8*8)
	}
}

func TestWienerSigmaSqrGrowsWithSigma(t *testing.T) {
	low := NewWienerSigmaSqr(4, 8, 5)
	high := NewWienerSigmaSqr(4, 8, 20)
	if high.SigmaSq <= low.SigmaSq {
		t.Errorf("SigmaSq did not grow with sigma: low=%v high=%v", low.SigmaSq, high.SigmaSq)
	}
}

func TestWienerSigmaSqrZeroForZeroSigma(t *testing.T) {
	w := NewWienerSigmaSqr(4, 8, 0)
	if w.SigmaSq != 0 {
		t.Errorf("SigmaSq = %v, want 0 for sigma=0", w.SigmaSq)
	}
}
