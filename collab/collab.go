/*
NAME
  collab.go

DESCRIPTION
  collab.go implements the two collaborative filters BM3D shrinks a
  transformed block group with: hard-threshold shrinkage for the Basic
  stage and empirical Wiener shrinkage for the Final stage.

AUTHORS
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package collab implements BM3D's collaborative filters: the hard
// threshold shrinkage of the Basic stage and the empirical Wiener
// shrinkage of the Final stage, each producing a cleaned group and an
// aggregation weight.
package collab

import (
	"math"

	"github.com/ausocean/bm3d/block"
	"github.com/ausocean/bm3d/transform"
)

// denomEps is the Final-stage denominator floor (spec §9: max(L, ε)
// chosen uniformly over the alternative 1/L convention seen in some
// original code paths).
const denomEps = 1e-8

// Basic hard-threshold shrinks a forward-transformed group: coefficients
// at or below the group's threshold are zeroed, the rest kept, and the
// group weight is 1/max(retained, 1). Callers aggregate the
// backward-transformed group with gain weight/AmplificationFactor(k,b),
// not weight alone (§4.5 step 5).
func Basic(g *block.Group, thr *transform.ThresholdTable) (weight float32) {
	var retained int
	for i, c := range g.Data {
		if float32(math.Abs(float64(c))) > thr.Data[i] {
			retained++
		} else {
			g.Data[i] = 0
		}
	}
	if retained < 1 {
		retained = 1
	}
	return 1 / float32(retained)
}

// Final empirical-Wiener shrinks a forward-transformed source group src
// using a forward-transformed reference group ref, both already
// DCT'd and of equal size. It returns the group weight 1/max(L, ε).
func Final(src, ref *block.Group, sigmaSq float64) (weight float32) {
	var l float64
	for i, r := range ref.Data {
		rr := float64(r) * float64(r)
		cw := rr / (rr + sigmaSq)
		src.Data[i] *= float32(cw)
		l += cw * cw
	}
	if l < denomEps {
		l = denomEps
	}
	return float32(1 / l)
}
