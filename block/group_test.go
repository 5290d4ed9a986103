/*
NAME
  group_test.go

DESCRIPTION
  group_test.go tests Group's Append/Append3 accumulation, capacity
  enforcement and Slab addressing.

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

func TestGroupAppendAndSlab(t *testing.T) {
	p := newTestPlane(8, 8)
	g := NewGroup(4, 2)
	if err := g.Append(p, Pos{Y: 0, X: 0}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := g.Append(p, Pos{Y: 4, X: 4}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if g.K() != 2 {
		t.Fatalf("K() = %d, want 2", g.K())
	}
	slab0 := g.Slab(0)
	if len(slab0) != 16 {
		t.Fatalf("len(Slab(0)) = %d, want 16", len(slab0))
	}
	if slab0[0] != p.At(0, 0) {
		t.Errorf("Slab(0)[0] = %v, want %v", slab0[0], p.At(0, 0))
	}
	slab1 := g.Slab(1)
	if slab1[0] != p.At(4, 4) {
		t.Errorf("Slab(1)[0] = %v, want %v", slab1[0], p.At(4, 4))
	}
}

func TestGroupAppendFullReturnsError(t *testing.T) {
	p := newTestPlane(8, 8)
	g := NewGroup(4, 1)
	if err := g.Append(p, Pos{Y: 0, X: 0}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := g.Append(p, Pos{Y: 4, X: 4}); err != ErrGroupFull {
		t.Errorf("second Append error = %v, want ErrGroupFull", err)
	}
}

func TestGroupResetReusesStorage(t *testing.T) {
	p := newTestPlane(8, 8)
	g := NewGroup(4, 2)
	if err := g.Append(p, Pos{Y: 0, X: 0}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	g.Reset()
	if g.K() != 0 {
		t.Fatalf("K() after Reset = %d, want 0", g.K())
	}
	if err := g.Append(p, Pos{Y: 4, X: 4}); err != nil {
		t.Fatalf("Append after Reset: %v", err)
	}
	if g.K() != 1 {
		t.Errorf("K() = %d, want 1", g.K())
	}
}

func TestGroupAppend3UsesFrameCallback(t *testing.T) {
	p0 := newTestPlane(8, 8)
	p1 := newTestPlane(8, 8)
	for i := range p1.Data {
		p1.Data[i] += 1000
	}
	planes := map[int]*Plane{0: p0, -1: p1}
	planeAt := func(frame int) *Plane { return planes[frame] }

	g := NewGroup(4, 2)
	if err := g.Append3(Pos3{Y: 0, X: 0, Frame: 0}, planeAt); err != nil {
		t.Fatalf("Append3: %v", err)
	}
	if err := g.Append3(Pos3{Y: 0, X: 0, Frame: -1}, planeAt); err != nil {
		t.Fatalf("Append3: %v", err)
	}
	if g.Slab(0)[0] != p0.At(0, 0) {
		t.Errorf("Slab(0)[0] = %v, want %v", g.Slab(0)[0], p0.At(0, 0))
	}
	if g.Slab(1)[0] != p1.At(0, 0) {
		t.Errorf("Slab(1)[0] = %v, want %v", g.Slab(1)[0], p1.At(0, 0))
	}
}

func TestGroupAddToAndCountTo(t *testing.T) {
	p := newTestPlane(8, 8)
	g := NewGroup(2, 2)
	if err := g.Append(p, Pos{Y: 0, X: 0}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := g.Append(p, Pos{Y: 2, X: 2}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	cleaned := make([]float32, g.K()*g.B*g.B)
	for i := range cleaned {
		cleaned[i] = 1
	}
	n := &Plane{Data: make([]float32, 8*8), H: 8, W: 8}
	if err := g.AddTo(n, cleaned, 2); err != nil {
		t.Fatalf("AddTo: %v", err)
	}
	if n.At(0, 0) != 2 {
		t.Errorf("n.At(0,0) = %v, want 2", n.At(0, 0))
	}
	if n.At(2, 2) != 2 {
		t.Errorf("n.At(2,2) = %v, want 2", n.At(2, 2))
	}
	d := &Plane{Data: make([]float32, 8*8), H: 8, W: 8}
	if err := g.CountTo(d, 0.5); err != nil {
		t.Fatalf("CountTo: %v", err)
	}
	if d.At(0, 0) != 0.5 {
		t.Errorf("d.At(0,0) = %v, want 0.5", d.At(0, 0))
	}
}
