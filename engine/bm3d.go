/*
NAME
  bm3d.go

DESCRIPTION
  bm3d.go exposes the package's top-level operations: RGBToOPP,
  OPPToRGB, Basic, Final, VBasic, VFinal and VAggregate, wiring the
  EngineContext, SpatialEngine, TemporalEngine and Aggregator into the
  behavioral contract §6 describes, including the bm3d_opp / _ColorRange
  / bm3d_v_radius frame-property handshake.

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
	"github.com/ausocean/bm3d/colorspace"
	"github.com/ausocean/utils/logging"
)

// SampleKind is the output sample representation RGBToOPP/OPPToRGB and
// VAggregate are asked to produce (§6's "sample" parameter). The engine
// itself only ever computes in normalized float32; SampleKind is carried
// through FrameMeta for the host's bit-packing step, which is out of
// scope beyond this contract (§1).
type SampleKind int

const (
	SampleInteger SampleKind = iota
	SampleFloat
)

// FrameMeta is the small frame-property handshake §6 describes between
// RGBToOPP/VBasic/VFinal producers and OPPToRGB/VAggregate consumers.
// The host round-trips it alongside the planes it stores; engine never
// persists it itself.
type FrameMeta struct {
	// MatrixKnown/Matrix mirror an incoming "matrix" property.
	MatrixKnown bool
	Matrix      colorspace.Matrix

	// RangeKnown/ColorRange mirror an incoming "_ColorRange" property;
	// 1 means limited range, anything else or RangeKnown=false means full.
	RangeKnown bool
	ColorRange int

	// BM3DOPP mirrors "bm3d_opp": true when the planes are already in
	// opponent colour space, set by RGBToOPP/VBasic/VFinal on RGB input.
	BM3DOPP bool

	// VRadius/VRadiusKnown mirror "bm3d_v_radius", set by VBasic/VFinal
	// and consumed (with a mismatch/absence warning) by VAggregate.
	VRadiusKnown bool
	VRadius      int

	// VProcess/VProcessKnown mirror "bm3d_v_process".
	VProcessKnown bool
	VProcess      [3]bool

	Sample SampleKind
}

// RGBToOPP converts a normalized RGB triple into the opponent colour
// space, setting the matrix=OPP / bm3d_opp=true metadata contract §6
// describes.
func RGBToOPP(rgb [3]*block.Plane, sample SampleKind) ([3]*block.Plane, FrameMeta, error) {
	var ypp [3]*block.Plane
	for c := 0; c < 3; c++ {
		ypp[c] = &block.Plane{Data: make([]float32, len(rgb[c].Data)), H: rgb[c].H, W: rgb[c].W}
	}
	if err := colorspace.RGBPlanesToYUV(colorspace.OPP, ypp[0].Data, ypp[1].Data, ypp[2].Data, rgb[0].Data, rgb[1].Data, rgb[2].Data); err != nil {
		return [3]*block.Plane{}, FrameMeta{}, errors.Wrap(err, "rgb_to_opp")
	}
	meta := FrameMeta{
		MatrixKnown: true, Matrix: colorspace.OPP,
		RangeKnown: true, ColorRange: 0,
		BM3DOPP: true,
		Sample:  sample,
	}
	return ypp, meta, nil
}

// OPPToRGB is RGBToOPP's inverse: in must be the opponent-space frame
// RGBToOPP (or VBasic/VFinal+VAggregate on RGB input) produced. logger
// receives a warning, never an error, when meta does not actually claim
// OPP (§3 supplemented feature 4's metadata-mismatch warning applied in
// the consuming direction).
func OPPToRGB(ypp [3]*block.Plane, meta FrameMeta, sample SampleKind, logger logging.Logger) ([3]*block.Plane, error) {
	if !meta.BM3DOPP && logger != nil {
		logger.Info("opp_to_rgb: input frame property bm3d_opp is not set")
	} else if meta.MatrixKnown && meta.Matrix != colorspace.OPP && logger != nil {
		logger.Info("opp_to_rgb: bm3d_opp=true but matrix property is not OPP", "matrix", meta.Matrix.String())
	}
	var rgb [3]*block.Plane
	for c := 0; c < 3; c++ {
		rgb[c] = &block.Plane{Data: make([]float32, len(ypp[c].Data)), H: ypp[c].H, W: ypp[c].W}
	}
	if err := colorspace.YUVPlanesToRGB(colorspace.OPP, rgb[0].Data, rgb[1].Data, rgb[2].Data, ypp[0].Data, ypp[1].Data, ypp[2].Data); err != nil {
		return [3]*block.Plane{}, errors.Wrap(err, "opp_to_rgb")
	}
	_ = sample
	return rgb, nil
}

// warnOPPMismatch implements §6's "incoming bm3d_opp=1 with non-OPP
// matrix argument MUST emit a warning".
func (ctx *Context) warnOPPMismatch(meta FrameMeta) {
	if ctx.Params.Logger == nil {
		return
	}
	if meta.BM3DOPP && ctx.Params.Matrix != colorspace.OPP {
		ctx.Params.Logger.Info("bm3d_opp=true on input but matrix parameter is not OPP", "matrix", ctx.Params.Matrix.String())
	}
}

// gate returns planes with channel c set to nil wherever
// ctx.Params.Process[c] is false, so the spatial/temporal engines skip
// filtering that channel (§3 supplemented feature 1).
func (ctx *Context) gate(planes [3]*block.Plane) [3]*block.Plane {
	out := planes
	for c := 0; c < 3; c++ {
		if !ctx.Params.Process[c] {
			out[c] = nil
		}
	}
	return out
}

// fillUnprocessed copies original's channel c into out wherever out[c]
// is nil, so an operation's output is always fully populated even when
// some channels were gated out of filtering.
func fillUnprocessed(out, original [3]*block.Plane) [3]*block.Plane {
	for c := 0; c < 3; c++ {
		if out[c] == nil {
			out[c] = original[c]
		}
	}
	return out
}

// toWorkingSpace converts src into the decorrelated space filtering
// operates in: a passthrough when RGBInput is false (src is already
// Y/U/V, YCoCg or Gray), or an RGB->Matrix conversion otherwise.
func (ctx *Context) toWorkingSpace(src [3]*block.Plane) ([3]*block.Plane, error) {
	if !ctx.Params.RGBInput {
		return src, nil
	}
	var work [3]*block.Plane
	for c := 0; c < 3; c++ {
		work[c] = &block.Plane{Data: make([]float32, len(src[c].Data)), H: src[c].H, W: src[c].W}
	}
	if err := colorspace.RGBPlanesToYUV(ctx.Params.Matrix, work[0].Data, work[1].Data, work[2].Data, src[0].Data, src[1].Data, src[2].Data); err != nil {
		return [3]*block.Plane{}, err
	}
	return work, nil
}

// fromWorkingSpace is toWorkingSpace's inverse, applied to a filtered
// result before it is returned to an RGBInput caller.
func (ctx *Context) fromWorkingSpace(work [3]*block.Plane) ([3]*block.Plane, error) {
	if !ctx.Params.RGBInput {
		return work, nil
	}
	var rgb [3]*block.Plane
	for c := 0; c < 3; c++ {
		rgb[c] = &block.Plane{Data: make([]float32, len(work[c].Data)), H: work[c].H, W: work[c].W}
	}
	if err := colorspace.YUVPlanesToRGB(ctx.Params.Matrix, rgb[0].Data, rgb[1].Data, rgb[2].Data, work[0].Data, work[1].Data, work[2].Data); err != nil {
		return [3]*block.Plane{}, err
	}
	return rgb, nil
}

// outMeta builds the FrameMeta Basic/Final attach to their result.
func (ctx *Context) outMeta(in FrameMeta) FrameMeta {
	out := in
	if ctx.Params.RGBInput {
		out.MatrixKnown = true
		out.Matrix = ctx.Params.Matrix
		out.BM3DOPP = ctx.Params.Matrix == colorspace.OPP
	}
	return out
}

// Basic runs the hard-threshold spatial engine: input is the frame to
// denoise, ref is an optional external block-matching reference (nil
// reuses input for matching, as 4.7/4.3 describe).
func Basic(ctx *Context, input, ref [3]*block.Plane, meta FrameMeta) ([3]*block.Plane, FrameMeta, error) {
	ctx.warnOPPMismatch(meta)

	src, err := ctx.toWorkingSpace(input)
	if err != nil {
		return [3]*block.Plane{}, FrameMeta{}, errors.Wrap(err, "basic")
	}
	matchPlane := src[0]
	if ref[0] != nil {
		refWork, err := ctx.toWorkingSpace(ref)
		if err != nil {
			return [3]*block.Plane{}, FrameMeta{}, errors.Wrap(err, "basic: ref")
		}
		matchPlane = refWork[0]
	}

	w := NewWorker(ctx.Params.BlockSize, ctx.Params.GroupSize)
	out, err := ctx.RunBasic(ctx.gate(src), matchPlane, w)
	if err != nil {
		return [3]*block.Plane{}, FrameMeta{}, errors.Wrap(err, "basic")
	}
	out = fillUnprocessed(out, src)

	result, err := ctx.fromWorkingSpace(out)
	if err != nil {
		return [3]*block.Plane{}, FrameMeta{}, errors.Wrap(err, "basic")
	}
	return result, ctx.outMeta(meta), nil
}

// Final runs the empirical-Wiener spatial engine; ref is mandatory and
// supplies both the block-matching reference and the Wiener reference
// (§6, resolved per spatial.go's RunFinal).
func Final(ctx *Context, input, ref [3]*block.Plane, meta FrameMeta) ([3]*block.Plane, FrameMeta, error) {
	ctx.warnOPPMismatch(meta)
	if ref[0] == nil {
		return [3]*block.Plane{}, FrameMeta{}, ErrMissingReference
	}

	src, err := ctx.toWorkingSpace(input)
	if err != nil {
		return [3]*block.Plane{}, FrameMeta{}, errors.Wrap(err, "final")
	}
	refWork, err := ctx.toWorkingSpace(ref)
	if err != nil {
		return [3]*block.Plane{}, FrameMeta{}, errors.Wrap(err, "final: ref")
	}

	w := NewWorker(ctx.Params.BlockSize, ctx.Params.GroupSize)
	out, err := ctx.RunFinal(ctx.gate(src), refWork, w)
	if err != nil {
		return [3]*block.Plane{}, FrameMeta{}, errors.Wrap(err, "final")
	}
	out = fillUnprocessed(out, src)

	result, err := ctx.fromWorkingSpace(out)
	if err != nil {
		return [3]*block.Plane{}, FrameMeta{}, errors.Wrap(err, "final")
	}
	return result, ctx.outMeta(meta), nil
}

// VBasic runs the predictive temporal engine across window, converting
// and Process-gating every member's raw Src/Ref/WRef planes itself. cur
// identifies the frame the output stacked intermediate belongs to.
func VBasic(ctx *Context, window []Frame, cur int, meta FrameMeta) ([3]*block.Plane, FrameMeta, error) {
	ctx.warnOPPMismatch(meta)

	work, err := ctx.convertWindow(window)
	if err != nil {
		return [3]*block.Plane{}, FrameMeta{}, errors.Wrap(err, "vbasic")
	}
	stacked, err := ctx.RunVBasic(work, cur)
	if err != nil {
		return [3]*block.Plane{}, FrameMeta{}, errors.Wrap(err, "vbasic")
	}
	return stacked, ctx.vMeta(meta), nil
}

// VFinal is VBasic's empirical-Wiener counterpart; window[cur].Ref must
// be populated (VFinal's mandatory "ref"); window[cur].WRef is the
// optional "wref", defaulting to Ref when left nil.
func VFinal(ctx *Context, window []Frame, cur int, meta FrameMeta) ([3]*block.Plane, FrameMeta, error) {
	ctx.warnOPPMismatch(meta)

	work, err := ctx.convertWindow(window)
	if err != nil {
		return [3]*block.Plane{}, FrameMeta{}, errors.Wrap(err, "vfinal")
	}
	stacked, err := ctx.RunVFinal(work, cur)
	if err != nil {
		return [3]*block.Plane{}, FrameMeta{}, errors.Wrap(err, "vfinal")
	}
	return stacked, ctx.vMeta(meta), nil
}

// convertWindow applies toWorkingSpace and Process gating to every
// populated plane set of every window member.
func (ctx *Context) convertWindow(window []Frame) ([]Frame, error) {
	out := make([]Frame, len(window))
	for i, f := range window {
		var err error
		if f.Src[0] != nil {
			f.Src, err = ctx.toWorkingSpace(f.Src)
			if err != nil {
				return nil, err
			}
			f.Src = ctx.gate(f.Src)
		}
		if f.Ref[0] != nil {
			f.Ref, err = ctx.toWorkingSpace(f.Ref)
			if err != nil {
				return nil, err
			}
		}
		if f.WRef[0] != nil {
			f.WRef, err = ctx.toWorkingSpace(f.WRef)
			if err != nil {
				return nil, err
			}
		}
		out[i] = f
	}
	return out, nil
}

// vMeta builds the FrameMeta VBasic/VFinal attach to their stacked
// output: bm3d_v_radius, bm3d_v_process, and bm3d_opp when RGBInput.
func (ctx *Context) vMeta(in FrameMeta) FrameMeta {
	out := ctx.outMeta(in)
	out.VRadiusKnown = true
	out.VRadius = ctx.Params.Radius
	out.VProcessKnown = true
	out.VProcess = ctx.Params.Process
	return out
}

// VAggregate reduces window[cur]'s stacked VBasic/VFinal intermediates
// into the final denoised planes, converting back to RGB first if the
// input was originally RGB.
func VAggregate(ctx *Context, window []AggregateInput, cur int, meta FrameMeta, sample SampleKind) ([3]*block.Plane, error) {
	out, err := ctx.VAggregate(window, cur)
	if err != nil {
		return [3]*block.Plane{}, err
	}
	_ = sample
	return ctx.fromWorkingSpace(out)
}
