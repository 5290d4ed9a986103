/*
NAME
  match.go

DESCRIPTION
  match.go implements the sum-of-squared-difference block matcher:
  greedy single-match lookup, multi-match ranked lists, and the search
  window / predictive position-set helpers the temporal engine builds
  its spatio-temporal search on.

AUTHORS
  Dan Kortschak <dan@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package match implements BM3D's block-matching search: the plain SSD
// scan used by the spatial engine and the predictive spatio-temporal
// variant the temporal engine seeds frame-to-frame from.
package match

import (
	"sort"

	"github.com/ausocean/bm3d/block"
)

// Entry is one ranked match: Key is the SSD converted to MSE units
// (§4.3), Pos is the matched block's position in its source plane.
type Entry struct {
	Key float64
	Pos block.Pos
}

// byKey sorts Entry slices by ascending Key, stable on ties per the
// documented implementation-defined tie-break (spec §9).
type byKey []Entry

func (s byKey) Len() int           { return len(s) }
func (s byKey) Less(i, j int) bool { return s[i].Key < s[j].Key }
func (s byKey) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// SearchBoundary snaps pos, pushed outward by rangeV and rounded down to
// a multiple of step, to lie on the side of boundary it started from,
// without crossing boundary.
func SearchBoundary(pos, boundary, rangeV, step int) int {
	rangeV = rangeV / step * step
	switch {
	case pos == boundary:
		return boundary
	case pos > boundary:
		b := pos - rangeV
		for b < boundary {
			b += step
		}
		return b
	default:
		b := pos + rangeV
		for b > boundary {
			b -= step
		}
		return b
	}
}

// Window returns the inclusive [top,bottom]×[left,right] search window
// for a reference block at refPos in an h×w plane holding b×b blocks.
func Window(refPos block.Pos, h, w, b, rangeV, step int) (top, bottom, left, right int) {
	left = SearchBoundary(refPos.X, 0, rangeV, step)
	right = SearchBoundary(refPos.X, w-b, rangeV, step)
	top = SearchBoundary(refPos.Y, 0, rangeV, step)
	bottom = SearchBoundary(refPos.Y, h-b, rangeV, step)
	return
}

// thSSE converts thMSE (in 0-255 MSE units) to the SSD-comparable
// threshold for a B×B block over src_range-scaled samples, along with
// the multiplier that converts a raw SSD back into MSE units.
func thSSE(b int, srcRange, thMSE float64) (thresh, distMul float64) {
	mse2sse := float64(b*b) * srcRange * srcRange / (255 * 255)
	return thMSE * mse2sse, 1 / mse2sse
}

// Greedy returns the first visited position whose SSD is at or below
// thMSE, converted to MSE units; it is used for single-match lookups
// where only a go/no-go decision is needed. If no position qualifies,
// the position of smallest SSD seen is returned.
func Greedy(ref *block.Block, src *block.Plane, srcRange float64, rangeV, step int, thMSE float64, excludeCur bool) (Entry, error) {
	top, bottom, left, right := Window(ref.Pos, src.H, src.W, ref.B, rangeV, step)
	thresh, distMul := thSSE(ref.B, srcRange, thMSE)

	best := Entry{Key: -1}
	bestSSD := -1.0
	for y := top; y <= bottom; y += step {
		for x := left; x <= right; x += step {
			if excludeCur && y == ref.Pos.Y && x == ref.Pos.X {
				continue
			}
			ssd, err := ref.SSD(src, block.Pos{Y: y, X: x})
			if err != nil {
				return Entry{}, err
			}
			if bestSSD < 0 || ssd < bestSSD {
				bestSSD = ssd
				best = Entry{Key: ssd * distMul, Pos: block.Pos{Y: y, X: x}}
				if ssd <= thresh {
					return best, nil
				}
			}
		}
	}
	return best, nil
}

// SearchPositions enumerates every position the window around refPos
// visits, in raster (row-major) order, optionally excluding refPos
// itself.
func SearchPositions(refPos block.Pos, h, w, b, rangeV, step int, excludeRef bool) []block.Pos {
	top, bottom, left, right := Window(refPos, h, w, b, rangeV, step)
	positions := make([]block.Pos, 0, ((bottom-top)/step+1)*((right-left)/step+1))
	for y := top; y <= bottom; y += step {
		for x := left; x <= right; x += step {
			if excludeRef && y == refPos.Y && x == refPos.X {
				continue
			}
			positions = append(positions, block.Pos{Y: y, X: x})
		}
	}
	return positions
}

// MultiAt computes SSD at every position in positions, keeping those
// with 0 < SSD <= thMSE (in MSE units), optionally sorted and truncated
// to matchSize entries (0 means unlimited).
func MultiAt(ref *block.Block, src *block.Plane, srcRange float64, positions []block.Pos, thMSE float64, matchSize int, sorted bool) ([]Entry, error) {
	thresh, distMul := thSSE(ref.B, srcRange, thMSE)
	entries := make([]Entry, 0, len(positions))
	for _, pos := range positions {
		ssd, err := ref.SSD(src, pos)
		if err != nil {
			return nil, err
		}
		if ssd <= thresh && ssd != 0 {
			entries = append(entries, Entry{Key: ssd * distMul, Pos: pos})
		}
	}
	return finishMulti(entries, matchSize, sorted), nil
}

// ExcludeCurPos controls how Multi treats the reference block's own
// position relative to the scanned search window.
type ExcludeCurPos int

const (
	// IncludeCurPos scans the reference position as an ordinary
	// candidate.
	IncludeCurPos ExcludeCurPos = 0
	// ExcludeButPrepend omits the reference position from the scan but
	// prepends it to the result with key 0.
	ExcludeButPrepend ExcludeCurPos = 1
	// ExcludeEntirely omits the reference position from both the scan
	// and the result.
	ExcludeEntirely ExcludeCurPos = 2
)

// Multi performs the full spatial multi-match scan of §4.3: it builds
// the search window around ref.Pos, computes SSD at every visited
// position, filters to matches within thMSE, and sorts/truncates to at
// most matchSize entries.
func Multi(ref *block.Block, src *block.Plane, srcRange float64, rangeV, step int, thMSE float64, exclude ExcludeCurPos, matchSize int, sorted bool) ([]Entry, error) {
	positions := SearchPositions(ref.Pos, src.H, src.W, ref.B, rangeV, step, exclude > IncludeCurPos)
	thresh, distMul := thSSE(ref.B, srcRange, thMSE)

	var entries []Entry
	if exclude == ExcludeButPrepend {
		entries = append(entries, Entry{Key: 0, Pos: ref.Pos})
	}
	for _, pos := range positions {
		ssd, err := ref.SSD(src, pos)
		if err != nil {
			return nil, err
		}
		if ssd <= thresh && ssd != 0 {
			entries = append(entries, Entry{Key: ssd * distMul, Pos: pos})
		}
	}
	return finishMulti(entries, matchSize, sorted), nil
}

// finishMulti applies the partial-sort-and-truncate or stable-sort
// policy shared by every multi-match entry point.
func finishMulti(entries []Entry, matchSize int, sorted bool) []Entry {
	if matchSize > 0 && len(entries) > matchSize {
		sort.Stable(byKey(entries))
		return entries[:matchSize]
	}
	if sorted {
		sort.Stable(byKey(entries))
	}
	return entries
}

// MergeSearchPos returns the deduplicated, sorted union of src with the
// search window generated around refPos, forming the next frame's
// candidate positions in V-BM3D's predictive search (§4.8 step 2-4).
func MergeSearchPos(src []block.Pos, refPos block.Pos, h, w, b, rangeV, step int) []block.Pos {
	fresh := SearchPositions(refPos, h, w, b, rangeV, step, false)
	merged := make([]block.Pos, 0, len(src)+len(fresh))
	merged = append(merged, src...)
	merged = append(merged, fresh...)
	return dedupSortPos(merged)
}

// GenSearchPos returns the deduplicated, sorted union of the search
// windows generated around every position in refPositions.
func GenSearchPos(refPositions []block.Pos, h, w, b, rangeV, step int) []block.Pos {
	var search []block.Pos
	for _, ref := range refPositions {
		search = MergeSearchPos(search, ref, h, w, b, rangeV, step)
	}
	return search
}

func dedupSortPos(positions []block.Pos) []block.Pos {
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Y != positions[j].Y {
			return positions[i].Y < positions[j].Y
		}
		return positions[i].X < positions[j].X
	})
	out := positions[:0]
	for i, p := range positions {
		if i == 0 || p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}
