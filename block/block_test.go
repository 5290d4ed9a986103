/*
NAME
  block_test.go

DESCRIPTION
  block_test.go tests Block's load/store/SSD operations and the
  AddTo/CountTo plane accumulators, including out-of-bounds rejection.

AUTHORS
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package block

import "testing"

func newTestPlane(h, w int) *Plane {
	p := &Plane{Data: make([]float32, h*w), H: h, W: w}
	for i := range p.Data {
		p.Data[i] = float32(i)
	}
	return p
}

func TestLoadStoreRoundTrip(t *testing.T) {
	p := newTestPlane(8, 8)
	blk := NewBlock(4)
	if err := blk.Load(p, Pos{Y: 2, X: 2}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	dst := &Plane{Data: make([]float32, 8*8), H: 8, W: 8}
	if err := blk.Store(dst, Pos{Y: 2, X: 2}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			y, x := 2+r, 2+c
			if dst.At(y, x) != p.At(y, x) {
				t.Errorf("(%d,%d): got %v want %v", y, x, dst.At(y, x), p.At(y, x))
			}
		}
	}
}

func TestLoadOutOfBounds(t *testing.T) {
	p := newTestPlane(8, 8)
	blk := NewBlock(4)
	cases := []Pos{{Y: -1, X: 0}, {Y: 0, X: -1}, {Y: 5, X: 0}, {Y: 0, X: 5}}
	for _, pos := range cases {
		if err := blk.Load(p, pos); err == nil {
			t.Errorf("Load at %v: expected error", pos)
		}
	}
}

func TestSSDZeroForIdenticalBlock(t *testing.T) {
	p := newTestPlane(8, 8)
	blk := NewBlock(4)
	if err := blk.Load(p, Pos{Y: 0, X: 0}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	sum, err := blk.SSD(p, Pos{Y: 0, X: 0})
	if err != nil {
		t.Fatalf("SSD: %v", err)
	}
	if sum != 0 {
		t.Errorf("SSD against own position = %v, want 0", sum)
	}
}

func TestSSDPositive(t *testing.T) {
	p := newTestPlane(8, 8)
	blk := NewBlock(4)
	if err := blk.Load(p, Pos{Y: 0, X: 0}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	sum, err := blk.SSD(p, Pos{Y: 4, X: 4})
	if err != nil {
		t.Fatalf("SSD: %v", err)
	}
	if sum <= 0 {
		t.Errorf("SSD against different position = %v, want > 0", sum)
	}
}

func TestAddToAccumulates(t *testing.T) {
	n := &Plane{Data: make([]float32, 16), H: 4, W: 4}
	values := make([]float32, 4)
	for i := range values {
		values[i] = 1
	}
	if err := AddTo(n, Pos{Y: 0, X: 0}, 2, values, 2); err != nil {
		t.Fatalf("AddTo: %v", err)
	}
	if err := AddTo(n, Pos{Y: 0, X: 0}, 2, values, 3); err != nil {
		t.Fatalf("AddTo: %v", err)
	}
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			got := n.At(r, c)
			if got != 5 {
				t.Errorf("(%d,%d) = %v, want 5", r, c, got)
			}
		}
	}
}

func TestCountToAccumulates(t *testing.T) {
	d := &Plane{Data: make([]float32, 16), H: 4, W: 4}
	if err := CountTo(d, Pos{Y: 1, X: 1}, 2, 1.5); err != nil {
		t.Fatalf("CountTo: %v", err)
	}
	if err := CountTo(d, Pos{Y: 1, X: 1}, 2, 0.5); err != nil {
		t.Fatalf("CountTo: %v", err)
	}
	if got := d.At(1, 1); got != 2 {
		t.Errorf("(1,1) = %v, want 2", got)
	}
	if got := d.At(0, 0); got != 0 {
		t.Errorf("(0,0) = %v, want 0 (untouched)", got)
	}
}

func TestAddToOutOfBounds(t *testing.T) {
	n := &Plane{Data: make([]float32, 16), H: 4, W: 4}
	if err := AddTo(n, Pos{Y: 3, X: 3}, 2, make([]float32, 4), 1); err == nil {
		t.Error("expected out-of-bounds error")
	}
}
