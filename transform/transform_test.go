/*
NAME
  transform_test.go

DESCRIPTION
  transform_test.go tests the Planner's forward/backward DCT round trip
  against AmplificationFactor and the lazy axisK plan cache.

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

import (
	"math"
	"testing"

	"github.com/ausocean/bm3d/block"
)

func fillGroup(g *block.Group, k, b int) {
	for i := 0; i < k*b*b; i++ {
		g.Data = append(g.Data, float32(i%13)-6)
	}
	for i := 0; i < k; i++ {
		g.Pos = append(g.Pos, block.Pos{Y: i, X: i})
	}
}

func TestForwardBackwardRoundTripScaledByAmplification(t *testing.T) {
	const eps = 1e-2
	for _, k := range []int{1, 2, 4, 8} {
		for _, b := range []int{4, 8} {
			g := block.NewGroup(b, k)
			fillGroup(g, k, b)
			orig := append([]float32(nil), g.Data...)

			p := NewPlanner(b)
			sc := NewScratch(b, k)
			p.Forward3D(g, sc)
			p.Backward3D(g, sc)

			ak := AmplificationFactor(k, b)
			for i, v := range g.Data {
				want := float64(orig[i]) * ak
				if math.Abs(float64(v)-want) > eps*math.Max(1, math.Abs(want)) {
					t.Fatalf("k=%d b=%d index %d: got %v want %v", k, b, i, v, want)
				}
			}
		}
	}
}

func TestAmplificationFactorFormula(t *testing.T) {
	got := AmplificationFactor(4, 8)
	want := 2 * 4.0 * 16.0 * 16.0
	if got != want {
		t.Errorf("AmplificationFactor(4,8) = %v, want %v", got, want)
	}
}

func TestForwardGainIsSqrtOfAmplification(t *testing.T) {
	k, b := 6, 8
	got := ForwardGain(k, b)
	want := math.Sqrt(AmplificationFactor(k, b))
	if got != want {
		t.Errorf("ForwardGain(%d,%d) = %v, want %v", k, b, got, want)
	}
}

func TestAxisKPlanCached(t *testing.T) {
	p := NewPlanner(8)
	d1 := p.axisKPlan(4)
	d2 := p.axisKPlan(4)
	if d1 != d2 {
		t.Error("axisKPlan(4) built twice instead of reusing the cached plan")
	}
}

func TestAxisKPlanNilForGroupSizeOne(t *testing.T) {
	p := NewPlanner(8)
	if d := p.axisKPlan(1); d != nil {
		t.Errorf("axisKPlan(1) = %v, want nil (single-element depth axis bypasses fourier.DCT)", d)
	}
}

func TestNewPlannerDoesNotPanicForBlockSizeOne(t *testing.T) {
	p := NewPlanner(1)
	g := block.NewGroup(1, 1)
	fillGroup(g, 1, 1)
	orig := append([]float32(nil), g.Data...)
	sc := NewScratch(1, 1)
	p.Forward3D(g, sc)
	p.Backward3D(g, sc)

	ak := AmplificationFactor(1, 1)
	const eps = 1e-4
	for i, v := range g.Data {
		want := float64(orig[i]) * ak
		if math.Abs(float64(v)-want) > eps*math.Max(1, math.Abs(want)) {
			t.Fatalf("index %d: got %v want %v", i, v, want)
		}
	}
}
