/*
NAME
  matrix.go

DESCRIPTION
  matrix.go implements plane-level RGB<->YUV conversion for an arbitrary
  colour matrix, operating on normalized float32 planes.

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

// RGBToYUV converts one pixel of normalized RGB (luma and chroma both in
// [0,1], as produced by IntToFloat with chroma=false) into
// the three planes of matrix m, with chroma centered at 0.
func RGBToYUV(m Matrix, r, g, b float32) (y, u, v float32, err error) {
	c, err := forwardCoeffs(m)
	if err != nil {
		return 0, 0, 0, err
	}
	rf, gf, bf := float64(r), float64(g), float64(b)
	return float32(c.Yr*rf + c.Yg*gf + c.Yb*bf),
		float32(c.Ur*rf + c.Ug*gf + c.Ub*bf),
		float32(c.Vr*rf + c.Vg*gf + c.Vb*bf),
		nil
}

// YUVToRGB is the inverse of RGBToYUV.
func YUVToRGB(m Matrix, y, u, v float32) (r, g, b float32, err error) {
	c, err := inverseCoeffs(m)
	if err != nil {
		return 0, 0, 0, err
	}
	yf, uf, vf := float64(y), float64(u), float64(v)
	return float32(c.Yr*yf + c.Ur*uf + c.Vr*vf),
		float32(c.Yg*yf + c.Ug*uf + c.Vg*vf),
		float32(c.Yb*yf + c.Ub*uf + c.Vb*vf),
		nil
}

// RGBPlanesToYUV converts three equal-length RGB planes into YUV planes
// using matrix m. dst and src may not overlap.
func RGBPlanesToYUV(m Matrix, dstY, dstU, dstV, srcR, srcG, srcB []float32) error {
	c, err := forwardCoeffs(m)
	if err != nil {
		return err
	}
	for i := range srcR {
		r, g, b := float64(srcR[i]), float64(srcG[i]), float64(srcB[i])
		dstY[i] = float32(c.Yr*r + c.Yg*g + c.Yb*b)
		dstU[i] = float32(c.Ur*r + c.Ug*g + c.Ub*b)
		dstV[i] = float32(c.Vr*r + c.Vg*g + c.Vb*b)
	}
	return nil
}

// YUVPlanesToRGB is the inverse of RGBPlanesToYUV.
func YUVPlanesToRGB(m Matrix, dstR, dstG, dstB, srcY, srcU, srcV []float32) error {
	c, err := inverseCoeffs(m)
	if err != nil {
		return err
	}
	for i := range srcY {
		y, u, v := float64(srcY[i]), float64(srcU[i]), float64(srcV[i])
		dstR[i] = float32(c.Yr*y + c.Ur*u + c.Vr*v)
		dstG[i] = float32(c.Yg*y + c.Ug*u + c.Vg*v)
		dstB[i] = float32(c.Yb*y + c.Ub*u + c.Vb*v)
	}
	return nil
}
