/*
NAME
  temporal.go

DESCRIPTION
  temporal.go implements TemporalEngine: VBasic/VFinal's predictive
  spatio-temporal grouping and the per-frame stacked (numerator,
  denominator) intermediate it emits for the Aggregator to reduce.

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
	"github.com/ausocean/bm3d/block"
	"github.com/ausocean/bm3d/collab"
	"github.com/ausocean/bm3d/match"
	"github.com/ausocean/bm3d/transform"
)

// Frame is one temporal window member. Src is the raw data every
// collaborative filter transforms. Ref drives block matching; nil
// falls back to Src (VBasic's default, matching BlockMatching's
// v_ref = v_src behaviour when no external reference clip is given).
// WRef drives Final's empirical-Wiener shrinkage only; nil falls back
// to Ref (VFinal's "wref" argument defaults to "ref" when omitted).
// Unprocessed channels are left nil throughout.
type Frame struct {
	Src  [3]*block.Plane
	Ref  [3]*block.Plane
	WRef [3]*block.Plane
}

// matchPlane resolves the plane BlockMatching scans for channel 0.
func (f Frame) matchPlane() *block.Plane {
	if f.Ref[0] != nil {
		return f.Ref[0]
	}
	return f.Src[0]
}

// wienerPlane resolves the plane driving Final's empirical-Wiener
// shrinkage for channel c.
func (f Frame) wienerPlane(c int) *block.Plane {
	if f.WRef[c] != nil {
		return f.WRef[c]
	}
	if f.Ref[c] != nil {
		return f.Ref[c]
	}
	return f.Src[c]
}

// StackedHeight returns the plane height VBasic/VFinal emit for a given
// frame height and radius: H·(2R+1)·2 (§4.8).
func StackedHeight(h, radius int) int { return h * (2*radius + 1) * 2 }

// slabIndex returns the numerator/denominator slab indices for frame
// offset o within a radius-R stacked plane.
func slabIndex(o, radius int) (n, d int) {
	n = 2 * (radius + o)
	return n, n + 1
}

// stackedView returns a sub-plane aliasing the slab-th H×W block of
// rows inside stacked's backing storage.
func stackedView(stacked *block.Plane, h, w, slab int) *block.Plane {
	off := slab * h * w
	return &block.Plane{Data: stacked.Data[off : off+h*w], H: h, W: w}
}

// RunVBasic runs the VBasic predictive temporal engine over window,
// whose index cur identifies the current frame (window[cur] is the
// frame the reference raster comes from). It returns one stacked plane
// per processed channel.
func (ctx *Context) RunVBasic(window []Frame, cur int) ([3]*block.Plane, error) {
	return ctx.runTemporal(window, cur)
}

// RunVFinal is RunVBasic's empirical-Wiener counterpart; window[cur].Ref
// must be populated for channels being processed (VFinal's mandatory
// "ref" argument); WRef may be left nil to default to Ref.
func (ctx *Context) RunVFinal(window []Frame, cur int) ([3]*block.Plane, error) {
	if window[cur].Ref[0] == nil {
		return [3]*block.Plane{}, ErrMissingReference
	}
	return ctx.runTemporal(window, cur)
}

func (ctx *Context) runTemporal(window []Frame, cur int) ([3]*block.Plane, error) {
	p := ctx.Params
	matchPlane := window[cur].matchPlane()
	h, width := matchPlane.H, matchPlane.W
	radius := p.Radius

	sh := StackedHeight(h, radius)
	var stacked [3]*block.Plane
	for c := 0; c < 3; c++ {
		if window[cur].Src[c] == nil {
			continue
		}
		stacked[c] = &block.Plane{Data: make([]float32, sh*width), H: sh, W: width}
	}

	planeAt := func(offset int) (*block.Plane, bool) {
		idx := cur + offset
		if idx < 0 || idx >= len(window) {
			return nil, false
		}
		return window[idx].matchPlane(), true
	}

	ref := block.NewBlock(p.BlockSize)
	rows := RasterPositions(h, p.BlockSize, p.BlockStep)
	cols := RasterPositions(width, p.BlockSize, p.BlockStep)

	for _, j := range rows {
		for _, i := range cols {
			if err := ref.Load(matchPlane, block.Pos{Y: j, X: i}); err != nil {
				return [3]*block.Plane{}, err
			}

			entries, err := match.Predictive(ref, planeAt, 1, h, width, p.BMrange, p.BMstep, p.PSnum, p.PSrange, p.PSstep, ctx.channels[0].thMSE, radius, p.GroupSize)
			if err != nil {
				return [3]*block.Plane{}, err
			}
			if len(entries) == 0 {
				continue
			}
			k := len(entries)
			if k > p.GroupSize {
				k = p.GroupSize
				entries = entries[:k]
			}

			for c := 0; c < 3; c++ {
				if window[cur].Src[c] == nil {
					continue
				}
				if err := ctx.filterTemporalGroup(c, k, entries, window, cur, stacked[c], radius); err != nil {
					return [3]*block.Plane{}, err
				}
			}
		}
	}

	return stacked, nil
}

func (ctx *Context) filterTemporalGroup(c, k int, entries []match.Entry3, window []Frame, cur int, stacked *block.Plane, radius int) error {
	b := ctx.Params.BlockSize
	group := block.NewGroup(b, k)
	planeAtC := func(offset int) *block.Plane {
		idx := cur + offset
		if idx < 0 || idx >= len(window) {
			return nil
		}
		return window[idx].Src[c]
	}
	for _, e := range entries {
		if err := group.Append3(e.Pos, planeAtC); err != nil {
			return err
		}
	}

	sc := transform.NewScratch(b, k)
	ctx.planner.Forward3D(group, sc)

	pc := ctx.channels[c]
	var weight float32
	if ctx.Params.Wiener {
		refGroup := block.NewGroup(b, k)
		refAtC := func(offset int) *block.Plane {
			idx := cur + offset
			if idx < 0 || idx >= len(window) {
				return nil
			}
			return window[idx].wienerPlane(c)
		}
		for _, e := range entries {
			if err := refGroup.Append3(e.Pos, refAtC); err != nil {
				return err
			}
		}
		ctx.planner.Forward3D(refGroup, sc)
		weight = collab.Final(group, refGroup, pc.wiener[k-1].SigmaSq)
	} else {
		weight = collab.Basic(group, pc.threshold[k-1])
	}

	ctx.planner.Backward3D(group, sc)

	ak := transform.AmplificationFactor(k, b)
	gain := weight / float32(ak)

	h, width := window[cur].Src[c].H, window[cur].Src[c].W
	for i, e := range entries {
		nSlab, dSlab := slabIndex(e.Offset, radius)
		nView := stackedView(stacked, h, width, nSlab)
		dView := stackedView(stacked, h, width, dSlab)
		pos := block.Pos{Y: e.Pos.Y, X: e.Pos.X}
		if err := block.AddTo(nView, pos, b, group.Slab(i), gain); err != nil {
			return err
		}
		if err := block.CountTo(dView, pos, b, weight); err != nil {
			return err
		}
	}
	return nil
}
