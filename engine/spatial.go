/*
NAME
  spatial.go

DESCRIPTION
  spatial.go implements SpatialEngine: the reference-block raster,
  grouping, collaborative filtering and weighted accumulation that
  Basic and Final both run per channel.

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

// RasterPositions returns the reference-block positions a raster of
// block size b and step visits along one axis of length dim: evenly
// spaced by step, with the final position snapped to exactly dim-b so
// the trailing strip is covered exactly once (§4.7 step 2).
func RasterPositions(dim, b, step int) []int {
	last := dim - b
	if last <= 0 {
		return []int{0}
	}
	positions := make([]int, 0, last/step+2)
	j := 0
	for {
		positions = append(positions, j)
		if j == last {
			break
		}
		j += step
		if j > last {
			j = last
		}
	}
	return positions
}

// accumPlanes holds the H×W numerator/denominator pair one channel
// accumulates into over a frame.
type accumPlanes struct {
	n, d *block.Plane
}

func newAccum(h, w int) accumPlanes {
	return accumPlanes{
		n: &block.Plane{Data: make([]float32, h*w), H: h, W: w},
		d: &block.Plane{Data: make([]float32, h*w), H: h, W: w},
	}
}

// accumDenomEps floors the normalize denominator against division by
// zero only; unlike a unit floor, it leaves D's normal sub-1 magnitude
// (w = 1/max(R,1) summed over a handful of overlapping groups) intact,
// matching BM3D_Base.cpp's dst[i] = ResNum[i] / ResDen[i].
const accumDenomEps = 1e-8

// normalize divides N by D elementwise into a freshly allocated plane.
func (a accumPlanes) normalize() *block.Plane {
	out := &block.Plane{Data: make([]float32, len(a.n.Data)), H: a.n.H, W: a.n.W}
	for i, num := range a.n.Data {
		den := a.d.Data[i]
		if den < accumDenomEps {
			den = accumDenomEps
		}
		out.Data[i] = num / den
	}
	return out
}

// matchPositions returns the ≤GroupSize match list for the reference
// block already loaded into w.Ref, scanning matchPlane. Matching is
// skipped (only the reference block itself is used) when GroupSize==1
// or thMSE<=0, per §4.7.
func (ctx *Context) matchPositions(w *Worker, matchPlane *block.Plane) ([]block.Pos, error) {
	p := ctx.Params
	thMSE := ctx.channels[0].thMSE
	if p.GroupSize == 1 || thMSE <= 0 {
		return []block.Pos{w.Ref.Pos}, nil
	}
	entries, err := match.Multi(w.Ref, matchPlane, 1, p.BMrange, p.BMstep, thMSE, match.ExcludeButPrepend, p.GroupSize, true)
	if err != nil {
		return nil, err
	}
	positions := make([]block.Pos, len(entries))
	for i, e := range entries {
		positions[i] = e.Pos
	}
	return positions, nil
}

// RunBasic runs the Basic collaborative-filter spatial engine over
// src (one plane per channel, channels with !Process[c] left nil) using
// matchPlane (typically src[0], or an external reference) for block
// matching, returning the denoised plane per processed channel.
func (ctx *Context) RunBasic(src [3]*block.Plane, matchPlane *block.Plane, w *Worker) ([3]*block.Plane, error) {
	return ctx.runSpatial(src, matchPlane, [3]*block.Plane{}, w)
}

// RunFinal runs the Final empirical-Wiener spatial engine. ref supplies
// both the block-matching reference (ref[0]) and the per-channel Wiener
// reference group.
func (ctx *Context) RunFinal(src, ref [3]*block.Plane, w *Worker) ([3]*block.Plane, error) {
	if ref[0] == nil {
		return [3]*block.Plane{}, ErrMissingReference
	}
	return ctx.runSpatial(src, ref[0], ref, w)
}

func (ctx *Context) runSpatial(src [3]*block.Plane, matchPlane *block.Plane, ref [3]*block.Plane, w *Worker) ([3]*block.Plane, error) {
	p := ctx.Params
	h, width := matchPlane.H, matchPlane.W

	var accum [3]accumPlanes
	for c := 0; c < 3; c++ {
		if src[c] == nil {
			continue
		}
		accum[c] = newAccum(h, width)
	}

	rows := RasterPositions(h, p.BlockSize, p.BlockStep)
	cols := RasterPositions(width, p.BlockSize, p.BlockStep)

	for _, j := range rows {
		for _, i := range cols {
			pos := block.Pos{Y: j, X: i}
			if err := w.Ref.Load(matchPlane, pos); err != nil {
				return [3]*block.Plane{}, err
			}
			positions, err := ctx.matchPositions(w, matchPlane)
			if err != nil {
				return [3]*block.Plane{}, err
			}
			k := len(positions)
			if k > p.GroupSize {
				k = p.GroupSize
				positions = positions[:k]
			}

			for c := 0; c < 3; c++ {
				if src[c] == nil {
					continue
				}
				if err := ctx.filterGroup(c, k, positions, src[c], ref[c], accum[c], w); err != nil {
					return [3]*block.Plane{}, err
				}
			}
		}
	}

	var out [3]*block.Plane
	for c := 0; c < 3; c++ {
		if src[c] == nil {
			continue
		}
		out[c] = accum[c].normalize()
	}
	return out, nil
}

// filterGroup assembles the group for channel c at positions, applies
// the Basic or Final collaborative filter depending on ctx.Params.Wiener,
// and accumulates the result into accum.
func (ctx *Context) filterGroup(c, k int, positions []block.Pos, srcPlane, refPlane *block.Plane, accum accumPlanes, w *Worker) error {
	w.Group.Reset()
	for _, pos := range positions {
		if err := w.Group.Append(srcPlane, pos); err != nil {
			return err
		}
	}

	ctx.planner.Forward3D(w.Group, w.Scr)

	pc := ctx.channels[c]
	var weight float32
	if ctx.Params.Wiener {
		refGroup := block.NewGroup(w.Group.B, k)
		for _, pos := range positions {
			if err := refGroup.Append(refPlane, pos); err != nil {
				return err
			}
		}
		ctx.planner.Forward3D(refGroup, w.Scr)
		weight = collab.Final(w.Group, refGroup, pc.wiener[k-1].SigmaSq)
	} else {
		weight = collab.Basic(w.Group, pc.threshold[k-1])
	}

	ctx.planner.Backward3D(w.Group, w.Scr)

	ak := transform.AmplificationFactor(k, w.Group.B)
	gain := weight / float32(ak)
	if err := w.Group.AddTo(accum.n, w.Group.Data, gain); err != nil {
		return err
	}
	return w.Group.CountTo(accum.d, weight)
}
