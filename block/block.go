/*
NAME
  block.go

DESCRIPTION
  block.go defines Block, a B×B tile of a plane, and the load/store/
  accumulate operations the matching and filtering stages perform on it.

AUTHORS
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package block implements the aligned tile and tile-stack types BM3D
// groups and filters, and their load/store/accumulate operations against
// a plane.
package block

import "github.com/pkg/errors"

// ErrBlockOutOfBounds is returned when a block position plus its size
// would read or write outside the owning plane.
var ErrBlockOutOfBounds = errors.New("block: position out of plane bounds")

// Pos is a 2-D position in a plane, row (Y) then column (X).
type Pos struct {
	Y, X int
}

// Pos3 extends Pos with a frame offset for temporal grouping.
type Pos3 struct {
	Y, X, Frame int
}

// Plane is a contiguous row-major H×W float32 image plane, owned by the
// caller for the duration of a Block's load/store calls.
type Plane struct {
	Data       []float32
	H, W       int
}

// At returns the value at (y,x).
func (p *Plane) At(y, x int) float32 { return p.Data[y*p.W+x] }

// Set writes the value at (y,x).
func (p *Plane) Set(y, x int, v float32) { p.Data[y*p.W+x] = v }

// Block is a B×B tile with its own backing storage, stride B (no row
// padding, as required for the 3-D group it may join to address as a
// single contiguous array).
type Block struct {
	B    int
	Pos  Pos
	Data []float32 // length B*B, row-major
}

// NewBlock allocates a zeroed B×B block. B must be positive; the plane
// geometry is validated lazily by Load/Store/AddTo/CountTo.
func NewBlock(b int) *Block {
	return &Block{B: b, Data: make([]float32, b*b)}
}

// inBounds reports whether a B×B tile at pos fits entirely inside a
// plane of size H×W.
func inBounds(pos Pos, b, h, w int) bool {
	return pos.Y >= 0 && pos.X >= 0 && pos.Y+b <= h && pos.X+b <= w
}

// Load copies the B×B tile at pos from p into the block, recording pos.
func (blk *Block) Load(p *Plane, pos Pos) error {
	if !inBounds(pos, blk.B, p.H, p.W) {
		return errors.Wrapf(ErrBlockOutOfBounds, "load at (%d,%d) size %d in %dx%d", pos.Y, pos.X, blk.B, p.H, p.W)
	}
	blk.Pos = pos
	for r := 0; r < blk.B; r++ {
		src := p.Data[(pos.Y+r)*p.W+pos.X : (pos.Y+r)*p.W+pos.X+blk.B]
		copy(blk.Data[r*blk.B:(r+1)*blk.B], src)
	}
	return nil
}

// Store writes the block's tile back into p at pos.
func (blk *Block) Store(p *Plane, pos Pos) error {
	if !inBounds(pos, blk.B, p.H, p.W) {
		return errors.Wrapf(ErrBlockOutOfBounds, "store at (%d,%d) size %d in %dx%d", pos.Y, pos.X, blk.B, p.H, p.W)
	}
	for r := 0; r < blk.B; r++ {
		dst := p.Data[(pos.Y+r)*p.W+pos.X : (pos.Y+r)*p.W+pos.X+blk.B]
		copy(dst, blk.Data[r*blk.B:(r+1)*blk.B])
	}
	return nil
}

// SSD returns the sum of squared differences between blk and the B×B
// tile of p at pos, without allocating an intermediate Block.
func (blk *Block) SSD(p *Plane, pos Pos) (float64, error) {
	if !inBounds(pos, blk.B, p.H, p.W) {
		return 0, errors.Wrapf(ErrBlockOutOfBounds, "ssd at (%d,%d) size %d in %dx%d", pos.Y, pos.X, blk.B, p.H, p.W)
	}
	var sum float64
	for r := 0; r < blk.B; r++ {
		row := p.Data[(pos.Y+r)*p.W+pos.X : (pos.Y+r)*p.W+pos.X+blk.B]
		ref := blk.Data[r*blk.B : (r+1)*blk.B]
		for c := range row {
			d := float64(ref[c]) - float64(row[c])
			sum += d * d
		}
	}
	return sum, nil
}

// AddTo accumulates gain*value at every pixel of the B×B tile at pos in
// the numerator plane n.
func AddTo(n *Plane, pos Pos, b int, values []float32, gain float32) error {
	if !inBounds(pos, b, n.H, n.W) {
		return errors.Wrapf(ErrBlockOutOfBounds, "addto at (%d,%d) size %d in %dx%d", pos.Y, pos.X, b, n.H, n.W)
	}
	for r := 0; r < b; r++ {
		row := n.Data[(pos.Y+r)*n.W+pos.X : (pos.Y+r)*n.W+pos.X+b]
		src := values[r*b : (r+1)*b]
		for c := range row {
			row[c] += gain * src[c]
		}
	}
	return nil
}

// CountTo accumulates weight at every pixel of the B×B tile at pos in
// the denominator plane d.
func CountTo(d *Plane, pos Pos, b int, weight float32) error {
	if !inBounds(pos, b, d.H, d.W) {
		return errors.Wrapf(ErrBlockOutOfBounds, "countto at (%d,%d) size %d in %dx%d", pos.Y, pos.X, b, d.H, d.W)
	}
	for r := 0; r < b; r++ {
		row := d.Data[(pos.Y+r)*d.W+pos.X : (pos.Y+r)*d.W+pos.X+b]
		for c := range row {
			row[c] += weight
		}
	}
	return nil
}
