/*
NAME
  profile.go

DESCRIPTION
  profile.go defines the five BM3D parameter profiles and the default
  spatial and temporal values each one selects.

AUTHORS
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package profile holds the static profile-name to default-parameter
// tables for BM3D's spatial and temporal stages.
package profile

import "github.com/pkg/errors"

// Name identifies a BM3D parameter profile.
type Name string

const (
	Fast Name = "fast"
	LC   Name = "lc"
	NP   Name = "np"
	High Name = "high"
	VN   Name = "vn"
)

// ErrUnknownProfile is returned for a Name not in {fast, lc, np, high, vn}.
var ErrUnknownProfile = errors.New("profile: unknown profile")

func (n Name) valid() bool {
	switch n {
	case Fast, LC, NP, High, VN:
		return true
	}
	return false
}

// Spatial holds the default spatial (Basic/Final) parameters a profile
// selects, before any caller override.
type Spatial struct {
	BlockSize  int
	BlockStep  int
	GroupSize  int
	BMrange    int
	BMstep     int
	Lambda     float64
	ThMSEBase  float64 // thMSE = ThMSEBase + sigma*ThMSESlope
	ThMSESlope float64
}

// SpatialDefaults returns the default Basic (wiener=false) or Final
// (wiener=true) spatial parameters for profile n.
func SpatialDefaults(n Name, wiener bool) (Spatial, error) {
	if !n.valid() {
		return Spatial{}, errors.Wrapf(ErrUnknownProfile, "%q", n)
	}

	s := Spatial{BlockSize: 8, BMrange: 16, BMstep: 1}
	if !wiener {
		s.BlockStep, s.GroupSize, s.Lambda = 4, 16, 2.7
	} else {
		s.BlockStep, s.GroupSize = 3, 32
	}

	switch n {
	case Fast:
		s.BMrange, s.GroupSize = 9, 8
		if !wiener {
			s.BlockStep = 8
		} else {
			s.BlockStep = 7
		}
	case LC:
		s.BMrange = 9
		if !wiener {
			s.BlockStep = 6
		} else {
			s.BlockStep, s.GroupSize = 5, 16
		}
	case High:
		if !wiener {
			s.BlockStep = 3
		} else {
			s.BlockStep = 2
		}
	case VN:
		if !wiener {
			s.BlockStep, s.GroupSize, s.Lambda = 4, 32, 2.8
		} else {
			s.BlockSize, s.BlockStep = 11, 6
		}
	}

	if !wiener {
		s.ThMSEBase, s.ThMSESlope = 400, 80
		if n == VN {
			s.ThMSEBase, s.ThMSESlope = 1000, 150
		}
	} else {
		s.ThMSEBase, s.ThMSESlope = 200, 10
		if n == VN {
			s.ThMSEBase, s.ThMSESlope = 400, 40
		}
	}
	return s, nil
}

// ThMSE evaluates a Spatial's threshold-MSE default for a given
// per-channel sigma (spec §4.10's "thMSE (Basic/Final)" column).
func (s Spatial) ThMSE(sigma float64) float64 {
	return s.ThMSEBase + sigma*s.ThMSESlope
}

// Temporal holds the default temporal (VBasic/VFinal) parameters a
// profile selects on top of its Spatial defaults.
type Temporal struct {
	Spatial
	Radius  int
	PSnum   int
	PSrange int
	PSstep  int
}

// TemporalDefaults returns the default VBasic (wiener=false) or VFinal
// (wiener=true) temporal parameters for profile n.
func TemporalDefaults(n Name, wiener bool) (Temporal, error) {
	s, err := SpatialDefaults(n, wiener)
	if err != nil {
		return Temporal{}, err
	}

	t := Temporal{Spatial: s, Radius: 3, PSnum: 2, PSstep: 1}
	t.GroupSize, t.BMrange = 8, 12
	if !wiener {
		t.PSrange = 5
	} else {
		t.PSrange = 6
	}

	switch n {
	case Fast:
		t.Radius, t.BMrange = 1, 7
		if !wiener {
			t.PSrange = 4
		} else {
			t.PSrange = 5
		}
	case LC:
		t.Radius, t.BMrange = 2, 9
		if !wiener {
			t.PSrange = 4
		} else {
			t.PSrange = 5
		}
	case High:
		t.Radius, t.BMrange = 4, 16
		if !wiener {
			t.PSrange = 7
		} else {
			t.PSrange = 8
		}
	case VN:
		t.Radius, t.GroupSize = 4, 16
	}
	return t, nil
}
