/*
NAME
  transform.go

DESCRIPTION
  transform.go implements the separable 3-D DCT-II/DCT-III transform a
  collaborative filter applies to a block group, built from per-axis
  real DCT plans that must be constructed under a single process-wide
  mutex.

AUTHORS
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package transform precomputes and applies the real-to-real 3-D DCT
// pair BM3D's collaborative filters shrink coefficients in, along with
// the hard-threshold and Wiener-variance tables derived from it.
package transform

import (
	"math"
	"sync"

	"github.com/ausocean/bm3d/block"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Planner owns the per-axis DCT plans for a fixed block size B, lazily
// building a depth-axis plan the first time a given group size k is
// seen. gonum's fourier.NewDCT is not documented safe for concurrent
// construction, so every plan is built under the package-level planMu;
// mu guards the Planner's own plan cache. Once built, a *DCT's
// Transform/Inverse are safe to call concurrently on independent
// buffers. A plan is nil for an axis of length 1, for which
// axisTransform/depthTransform apply the round-trip gain directly
// instead of going through fourier.DCT.
type Planner struct {
	b int

	mu    sync.Mutex
	axisB *fourier.DCT
	axisK map[int]*fourier.DCT
}

// planMu serializes plan construction across every Planner in the
// process.
var planMu sync.Mutex

// dctPlan builds a DCT plan for axis length n, or nil for n==1, where a
// transform has nothing to mix and the axisTransform/depthTransform
// single-element path applies the round-trip gain by hand instead.
func dctPlan(n int) *fourier.DCT {
	if n <= 1 {
		return nil
	}
	planMu.Lock()
	defer planMu.Unlock()
	return fourier.NewDCT(n)
}

// NewPlanner constructs a Planner for B×B blocks, building the shared
// B-length axis plan immediately.
func NewPlanner(b int) *Planner {
	return &Planner{
		b:     b,
		axisB: dctPlan(b),
		axisK: make(map[int]*fourier.DCT),
	}
}

// AmplificationFactor returns a_k = 2k·(2B)², the unnormalized L2 gain
// of one DCT-II/DCT-III round trip over a group of size k.
func AmplificationFactor(k, b int) float64 {
	return 2 * float64(k) * float64(2*b) * float64(2*b)
}

// ForwardGain returns g_k = √a_k.
func ForwardGain(k, b int) float64 {
	return math.Sqrt(AmplificationFactor(k, b))
}

func (p *Planner) axisKPlan(k int) *fourier.DCT {
	if k <= 1 {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	d, ok := p.axisK[k]
	if !ok {
		d = dctPlan(k)
		p.axisK[k] = d
	}
	return d
}

// Scratch holds the float64 working buffers a single worker's forward
// and backward transforms reuse across calls, avoiding per-group
// allocation. A Scratch is not safe for concurrent use; callers give
// each worker its own.
type Scratch struct {
	row []float64 // length B, reused for the x and y axis passes
	col []float64 // length maxK, reused for the depth axis pass
}

// NewScratch allocates a Scratch sized for block width b and group
// sizes up to maxK.
func NewScratch(b, maxK int) *Scratch {
	return &Scratch{row: make([]float64, b), col: make([]float64, maxK)}
}

// Forward3D applies the forward DCT-II along x, y and k in place over
// g's [k][B][B] data.
func (p *Planner) Forward3D(g *block.Group, sc *Scratch) {
	p.axisTransform(g, sc, p.axisB, true, true)
	p.axisTransform(g, sc, p.axisB, true, false)
	p.depthTransform(g, sc, p.axisKPlan(g.K()), true)
}

// Backward3D applies the backward DCT-III along k, y and x in place. Per
// §4.5/§4.6, the resulting group is left at the transform's unnormalized
// gain; the caller divides by AmplificationFactor(k,b) when folding the
// group into the aggregation weight, not here, matching how the
// aggregation gain w/a_k is computed once per group rather than once
// per coefficient.
func (p *Planner) Backward3D(g *block.Group, sc *Scratch) {
	p.depthTransform(g, sc, p.axisKPlan(g.K()), false)
	p.axisTransform(g, sc, p.axisB, false, false)
	p.axisTransform(g, sc, p.axisB, false, true)
}

// runAxis applies plan's forward or backward transform to v in place, or,
// when plan is nil (an axis of length 1), applies the length-1 round trip
// directly: a DCT-II/DCT-III pair round-trips any axis of length N by
// exactly 2N (AmplificationFactor's basis), so the single-element forward
// pass carries the whole ×2 and the backward pass is the identity.
func runAxis(plan *fourier.DCT, forward bool, v []float64) {
	switch {
	case plan != nil && forward:
		plan.Transform(v, v)
	case plan != nil:
		plan.Inverse(v, v)
	case forward:
		v[0] *= 2
	}
}

// axisTransform runs plan's forward or backward transform over every row
// (alongX=true) or column (alongX=false) of every k-slab in g.
func (p *Planner) axisTransform(g *block.Group, sc *Scratch, plan *fourier.DCT, forward, alongX bool) {
	b := g.B
	k := g.K()
	row := sc.row
	for slab := 0; slab < k; slab++ {
		base := slab * b * b
		if alongX {
			for y := 0; y < b; y++ {
				off := base + y*b
				loadF64(row, g.Data[off:off+b])
				runAxis(plan, forward, row)
				storeF32(g.Data[off:off+b], row)
			}
			continue
		}
		for x := 0; x < b; x++ {
			for y := 0; y < b; y++ {
				row[y] = float64(g.Data[base+y*b+x])
			}
			runAxis(plan, forward, row)
			for y := 0; y < b; y++ {
				g.Data[base+y*b+x] = float32(row[y])
			}
		}
	}
}

// depthTransform runs plan's forward or backward transform over every
// (y,x) column across the k axis.
func (p *Planner) depthTransform(g *block.Group, sc *Scratch, plan *fourier.DCT, forward bool) {
	b := g.B
	k := g.K()
	col := sc.col[:k]
	bb := b * b
	for yx := 0; yx < bb; yx++ {
		for z := 0; z < k; z++ {
			col[z] = float64(g.Data[z*bb+yx])
		}
		runAxis(plan, forward, col)
		for z := 0; z < k; z++ {
			g.Data[z*bb+yx] = float32(col[z])
		}
	}
}

func loadF64(dst []float64, src []float32) {
	for i, v := range src {
		dst[i] = float64(v)
	}
}

func storeF32(dst []float32, src []float64) {
	for i, v := range src {
		dst[i] = float32(v)
	}
}
