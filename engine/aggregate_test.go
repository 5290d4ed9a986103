/*
NAME
  aggregate_test.go

DESCRIPTION
  aggregate_test.go tests VAggregate's parameter validation and the
  BM3D_V_radius mismatch/absence warning path; the full VBasic+VAggregate
  round trip is covered in temporal_test.go.

AUTHORS
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package engine

import (
	"testing"

	"github.com/ausocean/bm3d/block"
	"github.com/ausocean/bm3d/colorspace"
	"github.com/ausocean/bm3d/profile"
)

func aggregateContext(t *testing.T, radius int, logger *dumbLogger) *Context {
	t.Helper()
	p := Parameters{
		Profile: profile.NP, Matrix: colorspace.OPP,
		BlockSize: 8, BlockStep: 8, GroupSize: 1, BMrange: 8, BMstep: 1,
		ThMSE: 400, HardThr: 2.7,
		Radius: radius, PSnum: 1, PSrange: 4, PSstep: 1,
		Process: [3]bool{true, false, false},
	}
	if logger != nil {
		p.Logger = logger
	}
	ctx, err := NewContext(p)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	return ctx
}

func singleStackedWindow(radius int) []AggregateInput {
	h, w := 16, 16
	sh := StackedHeight(h, radius)
	return []AggregateInput{{
		Stacked:     [3]*block.Plane{{Data: make([]float32, sh * w), H: sh, W: w}, nil, nil},
		Radius:      radius,
		RadiusKnown: true,
	}}
}

func TestVAggregateRejectsZeroRadius(t *testing.T) {
	ctx := aggregateContext(t, 1, nil)
	ctx.Params.Radius = 0
	window := singleStackedWindow(1)
	if _, err := ctx.VAggregate(window, 0); err == nil {
		t.Error("expected error for radius 0")
	}
}

func TestVAggregateRejectsCurOutOfBounds(t *testing.T) {
	ctx := aggregateContext(t, 1, nil)
	window := singleStackedWindow(1)
	if _, err := ctx.VAggregate(window, 5); err == nil {
		t.Error("expected error for cur out of window bounds")
	}
	if _, err := ctx.VAggregate(window, -1); err == nil {
		t.Error("expected error for negative cur")
	}
}

func TestVAggregateWarnsOnMissingRadiusProperty(t *testing.T) {
	dl := &dumbLogger{}
	ctx := aggregateContext(t, 1, dl)
	window := singleStackedWindow(1)
	window[0].RadiusKnown = false
	if _, err := ctx.VAggregate(window, 0); err != nil {
		t.Fatalf("VAggregate: %v", err)
	}
	if dl.count() == 0 {
		t.Error("expected a warning for missing BM3D_V_radius property")
	}
}

func TestVAggregateWarnsOnRadiusMismatch(t *testing.T) {
	dl := &dumbLogger{}
	ctx := aggregateContext(t, 1, dl)
	window := singleStackedWindow(1)
	window[0].Radius = 2
	if _, err := ctx.VAggregate(window, 0); err != nil {
		t.Fatalf("VAggregate: %v", err)
	}
	if dl.count() == 0 {
		t.Error("expected a warning for mismatched BM3D_V_radius")
	}
}

func TestVAggregateNoWarningWhenRadiusMatches(t *testing.T) {
	dl := &dumbLogger{}
	ctx := aggregateContext(t, 1, dl)
	window := singleStackedWindow(1)
	if _, err := ctx.VAggregate(window, 0); err != nil {
		t.Fatalf("VAggregate: %v", err)
	}
	if dl.count() != 0 {
		t.Errorf("expected no warning when radius matches, got %d messages", dl.count())
	}
}
