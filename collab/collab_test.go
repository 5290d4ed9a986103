/*
NAME
  collab_test.go

DESCRIPTION
  collab_test.go tests hard-threshold shrinkage (Basic) and empirical
  Wiener shrinkage (Final), including the all-zero and denominator-floor
  edge cases.

AUTHORS
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package collab

import (
	"testing"

	"github.com/ausocean/bm3d/block"
	"github.com/ausocean/bm3d/transform"
)

func newFilledGroup(b, k int, data []float32) *block.Group {
	g := block.NewGroup(b, k)
	g.Data = append(g.Data, data...)
	for i := 0; i < k; i++ {
		g.Pos = append(g.Pos, block.Pos{Y: i, X: i})
	}
	return g
}

func TestBasicZeroesBelowThreshold(t *testing.T) {
	data := []float32{10, 1, -1, 0.5}
	g := newFilledGroup(2, 1, data)
	thr := &transform.ThresholdTable{K: 1, B: 2, Data: []float32{2, 2, 2, 2}}
	weight := Basic(g, thr)
	want := []float32{10, 0, 0, 0}
	for i, v := range g.Data {
		if v != want[i] {
			t.Errorf("Data[%d] = %v, want %v", i, v, want[i])
		}
	}
	if weight != 1 {
		t.Errorf("weight = %v, want 1 (one retained coefficient)", weight)
	}
}

func TestBasicAllZeroedFloorsRetainedToOne(t *testing.T) {
	data := []float32{0.1, 0.1, 0.1, 0.1}
	g := newFilledGroup(2, 1, data)
	thr := &transform.ThresholdTable{K: 1, B: 2, Data: []float32{10, 10, 10, 10}}
	weight := Basic(g, thr)
	if weight != 1 {
		t.Errorf("weight = %v, want 1 when nothing is retained", weight)
	}
	for _, v := range g.Data {
		if v != 0 {
			t.Errorf("expected all-zero group, got %v", v)
		}
	}
}

func TestFinalShrinksTowardZeroAsSigmaGrows(t *testing.T) {
	src := newFilledGroup(2, 1, []float32{4, 4, 4, 4})
	ref := newFilledGroup(2, 1, []float32{4, 4, 4, 4})
	Final(src, ref, 1000000)
	for _, v := range src.Data {
		if v >= 4 {
			t.Errorf("expected shrinkage with large sigmaSq, got %v", v)
		}
	}
}

func TestFinalPassesThroughForZeroSigma(t *testing.T) {
	src := newFilledGroup(2, 1, []float32{4, 4, 4, 4})
	ref := newFilledGroup(2, 1, []float32{4, 4, 4, 4})
	Final(src, ref, 0)
	for _, v := range src.Data {
		if v != 4 {
			t.Errorf("expected identity at sigma=0, got %v", v)
		}
	}
}

func TestFinalDenominatorFloorAvoidsDivideByZero(t *testing.T) {
	src := newFilledGroup(2, 1, []float32{1, 1, 1, 1})
	ref := newFilledGroup(2, 1, []float32{0, 0, 0, 0})
	weight := Final(src, ref, 1)
	if weight <= 0 {
		t.Errorf("weight = %v, want > 0 (denominator floor)", weight)
	}
}
