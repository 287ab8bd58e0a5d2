// Package grid tracks which synthesis stages have completed for each tile
// in the sliding window, and which world block each window slot is
// currently anchored to.
package grid

import "math"

// Local is a window-relative block offset (dx, dy), dimensionless, in
// units of block_size. It ranges over [-(numBlocks+1), numBlocks+1] on
// each axis.
type Local struct {
	DX, DY int
}

// World is an absolute block anchor (X, Y) in world units: a multiple
// of block_size, computed deterministically from (center + dx*blockSize)
// so that two window builds starting from the same center and offset
// always produce identical map keys.
type World struct {
	X, Y float64
}

// State holds the four per-tile flags from spec.md §3. Flags are
// monotonic within a tile's lifetime: once set, a flag never reverts
// except by the tile leaving the window and a fresh state replacing it.
type State struct {
	HasCraterMetadata bool
	HasCraterRaster   bool
	HasTerrainRaster  bool
	IsPadding         bool
}

// Grid is the block grid tracker of spec.md §4.1: two mappings,
// local->state and world->local, rebuilt wholesale on every Shift while
// carrying surviving tile states over by identity.
type Grid struct {
	numBlocks int
	blockSize float64

	byLocal map[Local]*State
	byWorld map[World]Local

	center World
}

// New builds a fresh grid centered at (0, 0) with all flags false, per
// Engine.New (spec.md §4.7).
func New(numBlocks int, blockSize float64) *Grid {
	g := &Grid{numBlocks: numBlocks, blockSize: blockSize}
	g.Rebuild(World{0, 0})
	return g
}

// span is the half-width of the window including the one-tile padding
// ring: local offsets range over [-span, span] on each axis.
func (g *Grid) span() int {
	return g.numBlocks + 1
}

// IsPaddingOffset reports whether a local offset lies in the one-ring
// padding margin: true iff max(|dx|, |dy|) == numBlocks+1 (spec §8).
func (g *Grid) IsPaddingOffset(l Local) bool {
	span := g.span()
	ax, ay := abs(l.DX), abs(l.DY)
	m := ax
	if ay > m {
		m = ay
	}
	return m == span
}

// Rebuild produces fresh mappings for a new window centered at a
// block-aligned world point, with all flags cleared (spec §4.1 rebuild).
func (g *Grid) Rebuild(center World) {
	span := g.span()
	n := 2*span + 1
	byLocal := make(map[Local]*State, n*n)
	byWorld := make(map[World]Local, n*n)

	for dx := -span; dx <= span; dx++ {
		for dy := -span; dy <= span; dy++ {
			local := Local{dx, dy}
			w := World{center.X + float64(dx)*g.blockSize, center.Y + float64(dy)*g.blockSize}
			st := &State{}
			byLocal[local] = st
			byWorld[w] = local
			st.IsPadding = g.IsPaddingOffset(local)
		}
	}

	g.byLocal = byLocal
	g.byWorld = byWorld
	g.center = center
}

// Shift computes the new window centered at newCenter. For each local
// offset, if the world anchor is present in the prior world->local
// mapping, the prior State is carried over by identity (so flags set on
// it persist); otherwise a fresh State is inserted. is_padding is
// written into the NEW grid after state transfer, fixing the source's
// bug of mutating the old map (spec.md §9 open question). The old
// mappings are discarded atomically by being replaced wholesale.
func (g *Grid) Shift(newCenter World) {
	span := g.span()
	n := 2*span + 1
	newByLocal := make(map[Local]*State, n*n)
	newByWorld := make(map[World]Local, n*n)

	for dx := -span; dx <= span; dx++ {
		for dy := -span; dy <= span; dy++ {
			local := Local{dx, dy}
			w := World{newCenter.X + float64(dx)*g.blockSize, newCenter.Y + float64(dy)*g.blockSize}

			var st *State
			if prevLocal, ok := g.byWorld[w]; ok {
				st = g.byLocal[prevLocal]
			} else {
				st = &State{}
			}
			newByLocal[local] = st
			newByWorld[w] = local
		}
	}

	for local, st := range newByLocal {
		st.IsPadding = g.IsPaddingOffset(local)
	}

	g.byLocal = newByLocal
	g.byWorld = newByWorld
	g.center = newCenter
}

// Center returns the world anchor the window is currently centered on.
func (g *Grid) Center() World { return g.center }

// State returns the tracked state for a local offset, and whether that
// offset is part of the current window.
func (g *Grid) State(l Local) (*State, bool) {
	st, ok := g.byLocal[l]
	return st, ok
}

// Local returns the local offset a world anchor currently maps to, and
// whether it is still in view. Used by Collect to discard results for
// tiles the agent has since shifted past (spec §4.7).
func (g *Grid) Local(w World) (Local, bool) {
	l, ok := g.byWorld[w]
	return l, ok
}

// Locals returns every local offset currently tracked, for iterating the
// window (e.g. to submit jobs for tiles still missing a raster).
func (g *Grid) Locals() []Local {
	out := make([]Local, 0, len(g.byLocal))
	for l := range g.byLocal {
		out = append(out, l)
	}
	return out
}

// Worlds returns every world anchor currently tracked, paired with its
// local offset.
func (g *Grid) Worlds() map[World]Local {
	return g.byWorld
}

// Size returns the number of tiles tracked, which must always equal
// (2*numBlocks+3)^2 per spec §3's invariant.
func (g *Grid) Size() int {
	return len(g.byLocal)
}

// NumBlocks returns the configured half-window size.
func (g *Grid) NumBlocks() int { return g.numBlocks }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// FloorBlock floors a world coordinate down to the nearest multiple of
// blockSize, toward -inf for negative values (spec §9 "Floor semantics").
func FloorBlock(x, blockSize float64) float64 {
	return math.Floor(x/blockSize) * blockSize
}
