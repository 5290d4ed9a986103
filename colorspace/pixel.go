/*
NAME
  pixel.go

DESCRIPTION
  pixel.go converts pixel samples between 8-16 bit integer or 32 bit float
  storage and the internal normalized float32 representation BM3D filters
  operate on (luma in [0,1], chroma in [-0.5,0.5]).

AUTHORS
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package colorspace

import "github.com/pkg/errors"

// ErrUnsupportedDepth is returned for a bit depth this package cannot
// quantize, i.e. anything outside 8-16 bit integer.
var ErrUnsupportedDepth = errors.New("colorspace: unsupported bit depth")

// Quant holds the floor/neutral/ceiling sample values for a given bit
// depth, range and plane kind (luma or chroma).
type Quant struct {
	Floor, Neutral, Ceil float64
}

// LumaQuant returns the quantization parameters for a luma (or Gray
// family) plane at the given bit depth. Limited range reserves headroom
// at both ends of the code value range (16-235 scaled by bit depth);
// full range uses the entire representable span.
func LumaQuant(bits int, fullRange bool) (Quant, error) {
	if bits < 8 || bits > 16 {
		return Quant{}, errors.Wrapf(ErrUnsupportedDepth, "%d bits", bits)
	}
	scale := float64(int(1) << uint(bits-8))
	if fullRange {
		return Quant{Floor: 0, Neutral: float64(int(1) << uint(bits-1)), Ceil: float64(int(1)<<uint(bits)) - 1}, nil
	}
	return Quant{Floor: 16 * scale, Neutral: 128 * scale, Ceil: 235 * scale}, nil
}

// ChromaQuant returns the quantization parameters for a chroma plane.
// Limited range uses the published 16/128/240 triple; full range is
// asymmetric around the neutral midpoint (floor 0, ceiling 2^bits-1).
func ChromaQuant(bits int, fullRange bool) (Quant, error) {
	if bits < 8 || bits > 16 {
		return Quant{}, errors.Wrapf(ErrUnsupportedDepth, "%d bits", bits)
	}
	scale := float64(int(1) << uint(bits-8))
	if fullRange {
		return Quant{Floor: 0, Neutral: float64(int(1) << uint(bits-1)), Ceil: float64(int(1)<<uint(bits)) - 1}, nil
	}
	return Quant{Floor: 16 * scale, Neutral: 128 * scale, Ceil: 240 * scale}, nil
}

// Sample is the set of integer sample widths IntToFloat/FloatToInt accept.
type Sample interface {
	~uint8 | ~uint16
}

// IntToFloat converts an integer plane into the internal normalized
// float32 representation: luma/Gray maps [floor,ceil] to [0,1]; chroma
// maps [floor,ceil] to [-0.5,0.5] centered at neutral.
func IntToFloat[T Sample](dst []float32, src []T, q Quant, chroma bool) {
	span := q.Ceil - q.Floor
	if chroma {
		for i, v := range src {
			dst[i] = float32((float64(v) - q.Neutral) / span)
		}
		return
	}
	for i, v := range src {
		dst[i] = float32((float64(v) - q.Floor) / span)
	}
}

// FloatToInt is the inverse of IntToFloat, rounding to the nearest
// integer and clipping to [0, 2^bits-1].
func FloatToInt[T Sample](dst []T, src []float32, q Quant, bits int, chroma bool) {
	span := q.Ceil - q.Floor
	maxVal := float64(int(1)<<uint(bits)) - 1
	for i, v := range src {
		var f float64
		if chroma {
			f = float64(v)*span + q.Neutral
		} else {
			f = float64(v)*span + q.Floor
		}
		f += 0.5
		if f < 0 {
			f = 0
		} else if f > maxVal {
			f = maxVal
		}
		dst[i] = T(f)
	}
}

// FloatPlaneToFloat32 copies a 32-bit float plane already in [0,1]/
// [-0.5,0.5] convention verbatim; it exists so callers can treat
// float-sample input uniformly with IntToFloat via the same call site.
func FloatPlaneToFloat32(dst, src []float32) {
	copy(dst, src)
}
