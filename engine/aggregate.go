/*
NAME
  aggregate.go

DESCRIPTION
  aggregate.go implements the Aggregator: VAggregate reduces the
  stacked (numerator, denominator) intermediates VBasic/VFinal emit for
  a temporal window into the final denoised planes for one frame.

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
	"github.com/pkg/errors"

	"github.com/ausocean/bm3d/block"
)

// AggregateInput is one VAggregate window member: the stacked
// intermediate VBasic/VFinal produced for that frame, plus the radius
// its producer declared via the BM3D_V_radius frame property. RadiusKnown
// is false when the property was absent (§4.9/§3 supplemented feature 5).
type AggregateInput struct {
	Stacked     [3]*block.Plane
	Radius      int
	RadiusKnown bool
}

// VAggregate reduces window[cur]'s temporal neighbourhood — the stacked
// intermediates at window[cur-radius .. cur+radius], clamped to the
// slice's bounds — into one denoised plane per processed channel.
//
// Every neighbour frame j = cur+o stacked its own (numerator,
// denominator) pairs indexed by its own local offset; the pair
// describing frame cur from j's perspective sits at j's local offset
// -o, so it is read via slabIndex(-o, radius) exactly as slabIndex(o,
// radius) is written by the temporal engine at offset o (§4.9).
func (ctx *Context) VAggregate(window []AggregateInput, cur int) ([3]*block.Plane, error) {
	p := ctx.Params
	radius := p.Radius
	if radius < 1 {
		return [3]*block.Plane{}, errors.Wrap(ErrInvalidParameter, "VAggregate requires radius >= 1")
	}
	if cur < 0 || cur >= len(window) {
		return [3]*block.Plane{}, errors.Wrap(ErrInvalidParameter, "VAggregate: cur out of window bounds")
	}

	cf := window[cur]
	ctx.warnRadius(cf)

	var h, width int
	for c := 0; c < 3; c++ {
		if cf.Stacked[c] != nil {
			h = cf.Stacked[c].H / (2*radius + 1) / 2
			width = cf.Stacked[c].W
			break
		}
	}

	var out [3]*block.Plane
	for c := 0; c < 3; c++ {
		if cf.Stacked[c] == nil {
			continue
		}
		accum := newAccum(h, width)
		for o := -radius; o <= radius; o++ {
			idx := cur + o
			if idx < 0 || idx >= len(window) {
				continue
			}
			stacked := window[idx].Stacked[c]
			if stacked == nil {
				continue
			}
			nSlab, dSlab := slabIndex(-o, radius)
			nView := stackedView(stacked, h, width, nSlab)
			dView := stackedView(stacked, h, width, dSlab)
			for i := range accum.n.Data {
				accum.n.Data[i] += nView.Data[i]
				accum.d.Data[i] += dView.Data[i]
			}
		}
		out[c] = accum.normalize()
	}
	return out, nil
}

// warnRadius logs (never errors) when the current frame's declared
// producer radius is absent or disagrees with the configured radius,
// mirroring VAggregate_Process::NewFrame's BM3D_V_radius check.
func (ctx *Context) warnRadius(cf AggregateInput) {
	if ctx.Params.Logger == nil {
		return
	}
	if !cf.RadiusKnown {
		ctx.Params.Logger.Info("VAggregate: BM3D_V_radius frame property missing, assuming configured radius")
		return
	}
	if cf.Radius != ctx.Params.Radius {
		ctx.Params.Logger.Info("VAggregate: BM3D_V_radius mismatch", "configured", ctx.Params.Radius, "frame", cf.Radius)
	}
}
