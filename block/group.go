/*
NAME
  group.go

DESCRIPTION
  group.go defines Group, the up-to-G stack of B×B tiles a matcher
  assembles and a collaborative filter transforms and aggregates.

AUTHORS
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package block

import "github.com/pkg/errors"

// ErrGroupFull is returned by Group.Append when the group has already
// reached its configured capacity.
var ErrGroupFull = errors.New("block: group at capacity")

// Group is a contiguous [k][B][B] stack of tiles, addressable as a
// single 3-D array by the transform package. Positions are 2-D for a
// spatial group, 3-D for a temporal one; exactly one slice is non-nil
// for a given Group.
type Group struct {
	B    int
	Data []float32 // length k*B*B, row-major (k,y,x)

	Pos  []Pos  // len == K, spatial grouping
	Pos3 []Pos3 // len == K, temporal grouping

	cap int
}

// NewGroup allocates a Group with room for at most g blocks of size b×b.
func NewGroup(b, g int) *Group {
	return &Group{
		B:    b,
		Data: make([]float32, 0, g*b*b),
		cap:  g,
	}
}

// K is the current number of stacked blocks.
func (g *Group) K() int {
	if len(g.Pos3) != 0 {
		return len(g.Pos3)
	}
	return len(g.Pos)
}

// Reset empties the group for reuse, keeping its backing storage.
func (g *Group) Reset() {
	g.Data = g.Data[:0]
	g.Pos = g.Pos[:0]
	g.Pos3 = g.Pos3[:0]
}

// Slab returns the k-th B×B slab as a flat row-major slice.
func (g *Group) Slab(k int) []float32 {
	n := g.B * g.B
	return g.Data[k*n : (k+1)*n]
}

// Append loads the B×B tile of p at pos and stacks it as the next
// member of a spatial group.
func (g *Group) Append(p *Plane, pos Pos) error {
	if g.K() >= g.cap {
		return ErrGroupFull
	}
	n := g.B * g.B
	if !inBounds(pos, g.B, p.H, p.W) {
		return errors.Wrapf(ErrBlockOutOfBounds, "append at (%d,%d) size %d in %dx%d", pos.Y, pos.X, g.B, p.H, p.W)
	}
	g.Data = g.Data[:len(g.Data)+n]
	slab := g.Data[len(g.Data)-n:]
	for r := 0; r < g.B; r++ {
		src := p.Data[(pos.Y+r)*p.W+pos.X : (pos.Y+r)*p.W+pos.X+g.B]
		copy(slab[r*g.B:(r+1)*g.B], src)
	}
	g.Pos = append(g.Pos, pos)
	return nil
}

// Append3 is Append's temporal counterpart: it loads from the plane of
// the frame identified by pos.Frame via the planeAt callback.
func (g *Group) Append3(pos Pos3, planeAt func(frame int) *Plane) error {
	if g.K() >= g.cap {
		return ErrGroupFull
	}
	p := planeAt(pos.Frame)
	n := g.B * g.B
	p2 := Pos{Y: pos.Y, X: pos.X}
	if !inBounds(p2, g.B, p.H, p.W) {
		return errors.Wrapf(ErrBlockOutOfBounds, "append3 at (%d,%d,%d) size %d in %dx%d", pos.Y, pos.X, pos.Frame, g.B, p.H, p.W)
	}
	g.Data = g.Data[:len(g.Data)+n]
	slab := g.Data[len(g.Data)-n:]
	for r := 0; r < g.B; r++ {
		src := p.Data[(pos.Y+r)*p.W+pos.X : (pos.Y+r)*p.W+pos.X+g.B]
		copy(slab[r*g.B:(r+1)*g.B], src)
	}
	g.Pos3 = append(g.Pos3, pos)
	return nil
}

// AddTo accumulates gain*cleaned into the numerator plane n at every
// member position of a spatial group; cleaned must hold K()*B*B values
// in the group's own (k,y,x) layout.
func (g *Group) AddTo(n *Plane, cleaned []float32, gain float32) error {
	bb := g.B * g.B
	for k, pos := range g.Pos {
		if err := AddTo(n, pos, g.B, cleaned[k*bb:(k+1)*bb], gain); err != nil {
			return err
		}
	}
	return nil
}

// CountTo accumulates weight into the denominator plane d at every
// member position of a spatial group.
func (g *Group) CountTo(d *Plane, weight float32) error {
	for _, pos := range g.Pos {
		if err := CountTo(d, pos, g.B, weight); err != nil {
			return err
		}
	}
	return nil
}
