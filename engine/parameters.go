/*
NAME
  parameters.go

DESCRIPTION
  parameters.go defines Parameters, the argument surface every BM3D
  operation builds an EngineContext from, and its defaulting/validation
  pass.

AUTHORS
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package engine assembles the leaf packages (colorspace, block, match,
// transform, collab, profile) into the spatial and temporal denoising
// engines and the top-level operations that expose them.
package engine

import (
	"github.com/pkg/errors"

	"github.com/ausocean/bm3d/colorspace"
	"github.com/ausocean/bm3d/profile"
	"github.com/ausocean/utils/logging"
)

// ErrInvalidParameter is returned for an out-of-range numeric parameter
// or a block larger than the frame it would be matched against.
var ErrInvalidParameter = errors.New("engine: invalid parameter")

// ErrUnsupportedFormat identifies a sample depth outside 8-16 bit
// integer or 32 bit float, or a non-constant format. No function in this
// module returns it: the engine takes float32 planes and does not inspect
// sample formats.
var ErrUnsupportedFormat = errors.New("engine: unsupported pixel format")

// ErrFormatMismatch identifies a reference clip that differs from the
// input in format, resolution or frame count. No function in this module
// returns it: reference planes are not compared against the input.
var ErrFormatMismatch = errors.New("engine: reference format mismatch")

// ErrSubsampledChroma identifies chroma denoising requested on a
// chroma-subsampled format. No function in this module returns it:
// Parameters carries no subsampling information and NewContext does not
// check for it.
var ErrSubsampledChroma = errors.New("engine: chroma subsampled, cannot denoise chroma planes")

// ErrMissingReference is returned when Final/VFinal is called without
// the mandatory Wiener reference.
var ErrMissingReference = errors.New("engine: missing reference clip")

// Parameters is the full BM3D argument surface for one operation, built
// once from a profile plus caller overrides and then held read-only by
// an EngineContext.
type Parameters struct {
	Wiener  bool
	Profile profile.Name
	Matrix  colorspace.Matrix

	// RGBInput marks the input colour family as RGB: Basic/Final/VBasic/
	// VFinal convert it to Matrix (OPP by default) before filtering and
	// report bm3d_opp in the returned FrameMeta, mirroring the original
	// plugin's inline RGB2OPP step when given an RGB clip (§3
	// supplemented feature 4).
	RGBInput bool

	Sigma [3]float64 // per-channel noise sigma, 0-255 scale

	BlockSize int
	BlockStep int
	GroupSize int
	BMrange   int
	BMstep    int
	ThMSE     float64
	HardThr   float64

	// Temporal-only; Radius == 0 means spatial-only use.
	Radius  int
	PSnum   int
	PSrange int
	PSstep  int

	// Process gates denoising per channel (Y/U/V or R/G/B), mirroring
	// the original plugin's per-plane process[] argument.
	Process [3]bool

	// Logger receives warnings (metadata mismatches, invalid fields);
	// a nil Logger silently drops them.
	Logger logging.Logger
}

// WithSpatialDefaults fills any zero-valued numeric field from the
// named profile's spatial defaults, leaving explicit caller overrides
// untouched.
func (p *Parameters) WithSpatialDefaults() error {
	d, err := profile.SpatialDefaults(p.Profile, p.Wiener)
	if err != nil {
		return err
	}
	if p.BlockSize == 0 {
		p.BlockSize = d.BlockSize
	}
	if p.BlockStep == 0 {
		p.BlockStep = d.BlockStep
	}
	if p.GroupSize == 0 {
		p.GroupSize = d.GroupSize
	}
	if p.BMrange == 0 {
		p.BMrange = d.BMrange
	}
	if p.BMstep == 0 {
		p.BMstep = d.BMstep
	}
	if p.HardThr == 0 && !p.Wiener {
		p.HardThr = d.Lambda
	}
	if p.ThMSE == 0 {
		p.ThMSE = d.ThMSE(p.Sigma[0])
	}
	return nil
}

// WithTemporalDefaults is WithSpatialDefaults extended with the
// temporal-only fields.
func (p *Parameters) WithTemporalDefaults() error {
	d, err := profile.TemporalDefaults(p.Profile, p.Wiener)
	if err != nil {
		return err
	}
	if p.BlockSize == 0 {
		p.BlockSize = d.BlockSize
	}
	if p.BlockStep == 0 {
		p.BlockStep = d.BlockStep
	}
	if p.GroupSize == 0 {
		p.GroupSize = d.GroupSize
	}
	if p.BMrange == 0 {
		p.BMrange = d.BMrange
	}
	if p.BMstep == 0 {
		p.BMstep = d.BMstep
	}
	if p.HardThr == 0 && !p.Wiener {
		p.HardThr = d.Lambda
	}
	if p.ThMSE == 0 {
		p.ThMSE = d.ThMSE(p.Sigma[0])
	}
	if p.Radius == 0 {
		p.Radius = d.Radius
	}
	if p.PSnum == 0 {
		p.PSnum = d.PSnum
	}
	if p.PSrange == 0 {
		p.PSrange = d.PSrange
	}
	if p.PSstep == 0 {
		p.PSstep = d.PSstep
	}
	return nil
}

// Validate checks every field against the ranges §3's data model table
// declares, returning ErrInvalidParameter for out-of-range fields. The
// one soft violation, th_mse <= 0, is only logged: ThMSE keeps its value
// and block matching is then skipped (see matchPositions). An all-false
// Process is set to all-true.
func (p *Parameters) Validate() error {
	if p.BlockSize < 1 || p.BlockSize > 64 {
		return errors.Wrapf(ErrInvalidParameter, "block_size %d outside [1,64]", p.BlockSize)
	}
	if p.BlockStep < 1 || p.BlockStep > p.BlockSize {
		return errors.Wrapf(ErrInvalidParameter, "block_step %d outside [1,block_size]", p.BlockStep)
	}
	if p.GroupSize < 1 || p.GroupSize > 256 {
		return errors.Wrapf(ErrInvalidParameter, "group_size %d outside [1,256]", p.GroupSize)
	}
	if p.BMstep < 1 || p.BMstep > p.BMrange {
		return errors.Wrapf(ErrInvalidParameter, "bm_step %d outside [1,bm_range]", p.BMstep)
	}
	if p.ThMSE <= 0 {
		p.LogInvalidField("th_mse", p.ThMSE)
	}
	if p.HardThr <= 0 && !p.Wiener {
		return errors.Wrapf(ErrInvalidParameter, "hard_thr %v must be > 0", p.HardThr)
	}
	for _, s := range p.Sigma {
		if s < 0 {
			return errors.Wrapf(ErrInvalidParameter, "sigma %v must be >= 0", s)
		}
	}
	if p.Radius != 0 {
		if p.Radius < 1 || p.Radius > 16 {
			return errors.Wrapf(ErrInvalidParameter, "radius %d outside [1,16]", p.Radius)
		}
		if p.PSnum < 1 || p.PSnum > p.GroupSize {
			return errors.Wrapf(ErrInvalidParameter, "ps_num %d outside [1,group_size]", p.PSnum)
		}
		if p.PSstep < 1 || p.PSstep > p.PSrange {
			return errors.Wrapf(ErrInvalidParameter, "ps_step %d outside [1,ps_range]", p.PSstep)
		}
	}
	if p.Process == ([3]bool{}) {
		p.Process = [3]bool{true, true, true}
	}
	return nil
}

// LogInvalidField logs an invalid-field warning, with the field's value,
// through Logger, mirroring revid/config.Config.LogInvalidField; it does
// not change the field, and is a no-op when Logger is nil.
func (p *Parameters) LogInvalidField(name string, def interface{}) {
	if p.Logger == nil {
		return
	}
	p.Logger.Info(name+" bad or unset", name, def)
}
