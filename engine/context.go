/*
NAME
  context.go

DESCRIPTION
  context.go builds EngineContext: the read-only, precomputed state
  (transform plans, threshold/Wiener tables) every worker shares, and
  Worker, the per-goroutine scratch a frame's reference-block loop
  mutates.

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
	"github.com/ausocean/bm3d/colorspace"
	"github.com/ausocean/bm3d/transform"
)

// perChannel holds the precomputed per-group-size tables for one
// channel, rescaled into the channel's own normalized units.
type perChannel struct {
	sigma     float64
	thMSE     float64
	threshold []*transform.ThresholdTable // index k-1, nil when wiener
	wiener    []transform.WienerSigmaSqr  // index k-1, empty when !wiener
}

// Context owns the Parameters an operation runs with, the shared
// transform.Planner, and every channel's precomputed tables. It is
// read-only after NewContext returns and safe for concurrent use by multiple
// Workers.
type Context struct {
	Params Parameters

	planner  *transform.Planner
	channels [3]perChannel
}

// NewContext validates params and builds the transform plan and
// per-channel tables for group sizes 1..GroupSize. It does not apply
// profile defaults; callers run WithSpatialDefaults or
// WithTemporalDefaults first when they want them.
func NewContext(params Parameters) (*Context, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	rowY, rowU, rowV, err := colorspace.RowNorms(params.Matrix)
	if err != nil {
		return nil, err
	}
	rowNorm := [3]float64{rowY, rowU, rowV}

	ctx := &Context{
		Params:  params,
		planner: transform.NewPlanner(params.BlockSize),
	}

	for c := 0; c < 3; c++ {
		pc := perChannel{
			sigma: params.Sigma[c] / 255 * rowNorm[c],
			thMSE: params.ThMSE * rowNorm[0] * rowNorm[0],
		}
		if params.Wiener {
			pc.wiener = make([]transform.WienerSigmaSqr, params.GroupSize)
			for k := 1; k <= params.GroupSize; k++ {
				pc.wiener[k-1] = transform.NewWienerSigmaSqr(k, params.BlockSize, pc.sigma)
			}
		} else {
			pc.threshold = make([]*transform.ThresholdTable, params.GroupSize)
			for k := 1; k <= params.GroupSize; k++ {
				pc.threshold[k-1] = transform.NewThresholdTable(k, params.BlockSize, pc.sigma, params.HardThr)
			}
		}
		ctx.channels[c] = pc
	}
	return ctx, nil
}

// Worker is the per-goroutine scratch a single reference-block raster
// owns across a frame: its own transform scratch, block and group
// buffers. Workers are not safe for concurrent use; the caller gives
// each parallel raster worker its own.
type Worker struct {
	Ref   *block.Block
	Group *block.Group
	Scr   *transform.Scratch
}

// NewWorker allocates a Worker for block size b and group capacity g.
func NewWorker(b, g int) *Worker {
	return &Worker{
		Ref:   block.NewBlock(b),
		Group: block.NewGroup(b, g),
		Scr:   transform.NewScratch(b, g),
	}
}
