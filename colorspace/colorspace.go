/*
NAME
  colorspace.go

DESCRIPTION
  colorspace.go defines the colour matrices BM3D can decorrelate against,
  and the RGB<->YUV coefficient sets used to build them.

AUTHORS
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package colorspace converts pixel samples between integer and floating
// point representations and between RGB and the various YUV-family colour
// matrices, including the opponent colour space (OPP) BM3D filters in.
package colorspace

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Matrix identifies a colour matrix used to decorrelate RGB into a
// luma/chroma representation.
type Matrix int

const (
	GBR Matrix = iota
	BT709
	FCC
	BT470BG
	SMPTE170M
	SMPTE240M
	YCgCo
	BT2020NC
	BT2020C
	OPP
)

// ErrUnsupportedMatrix is returned for a Matrix value with no known
// Kr/Kg/Kb parameterization, and for the Min/Max pseudo-matrices (which
// are only valid for grayscale reduction, not RGB<->YUV conversion).
var ErrUnsupportedMatrix = errors.New("colorspace: unsupported color matrix")

func (m Matrix) String() string {
	switch m {
	case GBR:
		return "GBR"
	case BT709:
		return "bt709"
	case FCC:
		return "fcc"
	case BT470BG:
		return "bt470bg"
	case SMPTE170M:
		return "smpte170m"
	case SMPTE240M:
		return "smpte240m"
	case YCgCo:
		return "YCgCo"
	case BT2020NC:
		return "bt2020nc"
	case BT2020C:
		return "bt2020c"
	case OPP:
		return "OPP"
	default:
		return "unknown"
	}
}

// krKgKb returns the published luma coefficients for the named matrix.
// GBR, YCgCo and OPP are handled by their own closed-form coefficient
// sets elsewhere and are not expected to reach this function in normal
// use, but their Kr/Kg/Kb triples are included for completeness.
func krKgKb(m Matrix) (kr, kg, kb float64, err error) {
	switch m {
	case GBR:
		return 0, 1, 0, nil
	case BT709:
		return 0.2126, 0.7152, 0.0722, nil
	case FCC:
		return 0.30, 0.59, 0.11, nil
	case BT470BG, SMPTE170M:
		return 0.299, 0.587, 0.114, nil
	case SMPTE240M:
		return 0.212, 0.701, 0.087, nil
	case YCgCo:
		return 0.25, 0.50, 0.25, nil
	case BT2020NC, BT2020C:
		return 0.2627, 0.6780, 0.0593, nil
	case OPP:
		return 1.0 / 3.0, 1.0 / 3.0, 1.0 / 3.0, nil
	default:
		return 0, 0, 0, errors.Wrapf(ErrUnsupportedMatrix, "matrix %v", m)
	}
}

// coeffs holds the nine coefficients of an affine RGB<->YUV transform,
// applied as Y = Yr*R + Yg*G + Yb*B (and symmetrically for the inverse).
type coeffs struct {
	Yr, Yg, Yb float64
	Ur, Ug, Ub float64
	Vr, Vg, Vb float64
}

// forwardCoeffs returns the RGB->YUV coefficients for m. OPP and YCgCo
// have closed-form chroma definitions that do not follow the generic
// Kr/Kg/Kb parameterization (the chroma planes are not simply scaled
// B-Y/R-Y differences), so they are special-cased; every other matrix
// uses the standard constant-luminance parameterization.
func forwardCoeffs(m Matrix) (coeffs, error) {
	switch m {
	case GBR:
		return coeffs{Yr: 0, Yg: 1, Yb: 0, Ur: 0, Ug: 0, Ub: 1, Vr: 1, Vg: 0, Vb: 0}, nil
	case YCgCo:
		return coeffs{
			Yr: 0.25, Yg: 0.5, Yb: 0.25,
			Ur: -0.25, Ug: 0.5, Ub: -0.25,
			Vr: 0.5, Vg: 0, Vb: -0.5,
		}, nil
	case OPP:
		return coeffs{
			Yr: 1.0 / 3.0, Yg: 1.0 / 3.0, Yb: 1.0 / 3.0,
			Ur: 0.5, Ug: 0, Ub: -0.5,
			Vr: 0.25, Vg: -0.5, Vb: 0.25,
		}, nil
	default:
		kr, kg, kb, err := krKgKb(m)
		if err != nil {
			return coeffs{}, err
		}
		return coeffs{
			Yr: kr, Yg: kg, Yb: kb,
			Ur: -kr * 0.5 / (1 - kb), Ug: -kg * 0.5 / (1 - kb), Ub: 0.5,
			Vr: 0.5, Vg: -kg * 0.5 / (1 - kr), Vb: -kb * 0.5 / (1 - kr),
		}, nil
	}
}

// inverseCoeffs returns the YUV->RGB coefficients for m, as
// R = Ry*Y + Ru*U + Rv*V (and symmetrically for G, B). GBR, YCgCo and OPP
// keep their published closed-form inverses; every other matrix is
// inverted numerically from its forward matrix with gonum/mat, since the
// generic Kr/Kg/Kb chroma parameterization does not have as clean a
// closed form to transcribe by hand.
func inverseCoeffs(m Matrix) (coeffs, error) {
	switch m {
	case GBR:
		return coeffs{Yr: 0, Ur: 0, Vr: 1, Yg: 1, Ug: 0, Vg: 0, Yb: 0, Ub: 1, Vb: 0}, nil
	case YCgCo:
		return coeffs{
			Yr: 1, Ur: -1, Vr: 1,
			Yg: 1, Ug: 1, Vg: 0,
			Yb: 1, Ub: -1, Vb: -1,
		}, nil
	case OPP:
		return coeffs{
			Yr: 1, Ur: 1, Vr: 2.0 / 3.0,
			Yg: 1, Ug: 0, Vg: -4.0 / 3.0,
			Yb: 1, Ub: -1, Vb: 2.0 / 3.0,
		}, nil
	default:
		fwd, err := forwardCoeffs(m)
		if err != nil {
			return coeffs{}, err
		}
		forward := mat.NewDense(3, 3, []float64{
			fwd.Yr, fwd.Yg, fwd.Yb,
			fwd.Ur, fwd.Ug, fwd.Ub,
			fwd.Vr, fwd.Vg, fwd.Vb,
		})
		var inverse mat.Dense
		if err := inverse.Inverse(forward); err != nil {
			return coeffs{}, errors.Wrapf(err, "invert color matrix %v", m)
		}
		return coeffs{
			Yr: inverse.At(0, 0), Ur: inverse.At(0, 1), Vr: inverse.At(0, 2),
			Yg: inverse.At(1, 0), Ug: inverse.At(1, 1), Vg: inverse.At(1, 2),
			Yb: inverse.At(2, 0), Ub: inverse.At(2, 1), Vb: inverse.At(2, 2),
		}, nil
	}
}

// RowNorms returns the L2 norm of each row of m's forward RGB->YUV
// matrix. BM3D uses these to rescale a sigma/thMSE value supplied in
// unnormalized 0-255 RGB units into the decorrelated channel's own
// units (§4.4 of the design spec), since noise power is not preserved
// by an affine change of basis unless the basis is orthonormal.
func RowNorms(m Matrix) (y, u, v float64, err error) {
	c, err := forwardCoeffs(m)
	if err != nil {
		return 0, 0, 0, err
	}
	norm := func(a, b, cc float64) float64 {
		return math.Sqrt(a*a + b*b + cc*cc)
	}
	return norm(c.Yr, c.Yg, c.Yb), norm(c.Ur, c.Ug, c.Ub), norm(c.Vr, c.Vg, c.Vb), nil
}
