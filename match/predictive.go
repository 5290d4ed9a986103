/*
NAME
  predictive.go

DESCRIPTION
  predictive.go implements V-BM3D's predictive spatio-temporal block
  matching: a current-frame multi-match seeds a shrinking search window
  that is carried frame-by-frame, backward and forward, across the
  temporal window, with the whole cross-frame list finally pruned to
  the group size.

AUTHORS
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package match

import (
	"sort"

	"github.com/ausocean/bm3d/block"
)

// Entry3 is a ranked match carrying the frame offset it was found at,
// relative to the reference frame.
type Entry3 struct {
	Key    float64
	Pos    block.Pos3
	Offset int
}

type byKey3 []Entry3

func (s byKey3) Len() int           { return len(s) }
func (s byKey3) Less(i, j int) bool { return s[i].Key < s[j].Key }
func (s byKey3) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// PlaneAt resolves the plane for a frame offset relative to the
// reference frame; it returns ok=false when the offset runs off the
// clip (sequence-end clamping), which stops that sweep direction.
type PlaneAt func(offset int) (p *block.Plane, ok bool)

func firstN(positions []block.Pos, n int) []block.Pos {
	if n > len(positions) {
		n = len(positions)
	}
	return positions[:n]
}

func positionsOf(entries []Entry) []block.Pos {
	positions := make([]block.Pos, len(entries))
	for i, e := range entries {
		positions[i] = e.Pos
	}
	return positions
}

// Predictive runs the full §4.8 predictive search for reference block
// ref (loaded from the current frame, offset 0) and returns the
// concatenated, pruned match list across [-radius, +radius], each entry
// tagged with the frame offset it belongs to. h and w are the plane
// dimensions, shared across the window.
func Predictive(ref *block.Block, planeAt PlaneAt, srcRange float64, h, w int, bmRange, bmStep, psNum, psRange, psStep int, thMSE float64, radius, groupSize int) ([]Entry3, error) {
	cur, ok := planeAt(0)
	if !ok {
		return nil, nil
	}

	m0, err := Multi(ref, cur, srcRange, bmRange, bmStep, thMSE, ExcludeButPrepend, 0, true)
	if err != nil {
		return nil, err
	}

	all := make([]Entry3, 0, groupSize*2)
	appendOffset := func(entries []Entry, offset int) {
		for _, e := range entries {
			all = append(all, Entry3{Key: e.Key, Offset: offset, Pos: block.Pos3{Y: e.Pos.Y, X: e.Pos.X, Frame: offset}})
		}
	}
	appendOffset(m0, 0)

	sweep := func(step int) error {
		seed := firstN(positionsOf(m0), psNum)
		for f := step; f >= -radius && f <= radius; f += step {
			plane, ok := planeAt(f)
			if !ok {
				break
			}
			search := GenSearchPos(seed, h, w, ref.B, psRange, psStep)
			mf, err := MultiAt(ref, plane, srcRange, search, thMSE, 0, true)
			if err != nil {
				return err
			}
			appendOffset(mf, f)
			if len(mf) == 0 {
				break
			}
			seed = firstN(positionsOf(mf), psNum)
		}
		return nil
	}

	if radius > 0 {
		if err := sweep(-1); err != nil {
			return nil, err
		}
		if err := sweep(1); err != nil {
			return nil, err
		}
	}

	if groupSize > 0 && len(all) > groupSize {
		sort.Stable(byKey3(all))
		all = all[:groupSize]
	} else {
		sort.Stable(byKey3(all))
	}
	return all, nil
}
