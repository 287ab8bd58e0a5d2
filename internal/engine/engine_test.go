package engine

import (
	"testing"
	"time"

	"github.com/dgorski/hirdem/internal/coarsedem"
	"github.com/dgorski/hirdem/internal/config"
	"github.com/dgorski/hirdem/internal/craters"
)

// newTestEngine builds an engine matching spec.md §8's end-to-end
// scenario configuration: num_blocks=1, block_size=10, resolution=1,
// source_resolution=5 (T=10, T_c=2, S=50).
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	const worldHalf = 2000
	size := worldHalf * 2
	data := make([]float32, size*size)
	dem := coarsedem.NewArrayDEM(data, size, size, 5)

	sampler := craters.NewFakeSampler(10)
	builder := craters.FakeBuilder{T: 10, Value: 1}

	cfg := config.Default()
	cfg.NumBlocks = 1
	cfg.BlockSize = 10
	cfg.Resolution = 1
	cfg.SourceResolution = 5
	cfg.InterpMethod = "nearest"
	cfg.InterpPadding = 2
	cfg.CraterWorkers = 2
	cfg.InterpWorkers = 2

	e, err := New(dem, sampler, builder, cfg, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(e.Shutdown)
	return e
}

// quiesce repeatedly calls Collect until both pools report idle, then
// waits briefly and calls Collect once more; it fails the test if the
// deadline passes first.
func quiesce(t *testing.T, e *Engine, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		e.Collect()
		if e.PoolsIdle() {
			time.Sleep(2 * time.Millisecond)
			e.Collect()
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("pools never reached quiescence")
}

// TestScenario1_InitialPlacement covers spec.md §8 scenario 1: after
// construction and a shift((0,0)), every non-padding tile ends with
// both flags true.
func TestScenario1_InitialPlacement(t *testing.T) {
	e := newTestEngine(t)
	if err := e.Shift(0, 0); err != nil {
		t.Fatalf("shift: %v", err)
	}
	quiesce(t, e, time.Second)

	for _, world := range blockAnchors(0, 0, 1, 10) {
		st, ok := e.TileFlags(world[0], world[1])
		if !ok {
			t.Fatalf("tile (%v,%v) not in window", world[0], world[1])
		}
		if st.IsPadding {
			continue
		}
		if !st.HasCraterRaster || !st.HasTerrainRaster {
			t.Errorf("tile (%v,%v): expected both flags true, got %+v", world[0], world[1], st)
		}
	}
}

// TestScenario2_ZeroShift covers spec.md §8 scenario 2: shifting to
// the same block again submits no new jobs and leaves the raster
// bit-identical.
func TestScenario2_ZeroShift(t *testing.T) {
	e := newTestEngine(t)
	if err := e.Shift(0, 0); err != nil {
		t.Fatalf("shift: %v", err)
	}
	quiesce(t, e, time.Second)

	before := append([]float32{}, e.Raster().Data()...)

	if err := e.Shift(0, 0); err != nil {
		t.Fatalf("second shift: %v", err)
	}
	quiesce(t, e, 200*time.Millisecond)

	after := e.Raster().Data()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("raster changed after zero-shift at index %d: %v -> %v", i, before[i], after[i])
		}
	}
}

// TestScenario3_SubBlockShiftDoesNotAdvance covers spec.md §8 scenario
// 3: shift((4,0)) after scenario 1 floors to the same block (4 <
// block_size=10), so the window does not move.
func TestScenario3_SubBlockShiftDoesNotAdvance(t *testing.T) {
	e := newTestEngine(t)
	if err := e.Shift(0, 0); err != nil {
		t.Fatalf("shift: %v", err)
	}
	quiesce(t, e, time.Second)

	before := append([]float32{}, e.Raster().Data()...)

	if err := e.Shift(4, 0); err != nil {
		t.Fatalf("sub-block shift: %v", err)
	}
	quiesce(t, e, 200*time.Millisecond)

	after := e.Raster().Data()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("raster changed after sub-block shift at index %d: %v -> %v", i, before[i], after[i])
		}
	}
}

// TestScenario4_OneBlockShift covers spec.md §8 scenario 4: shifting
// by one block in +x advances the window by exactly one tile; the
// entering column (2*num_blocks+3 = 5 tiles) starts with both flags
// false.
func TestScenario4_OneBlockShift(t *testing.T) {
	e := newTestEngine(t)
	if err := e.Shift(0, 0); err != nil {
		t.Fatalf("shift: %v", err)
	}
	quiesce(t, e, time.Second)

	if err := e.Shift(10, 0); err != nil {
		t.Fatalf("one-block shift: %v", err)
	}

	// Immediately after the shift (before quiescing), the newly
	// entered column at local dx=+2 (world X=30, one block beyond the
	// old window's far edge at X=20) should start with both flags
	// false.
	for dy := -2; dy <= 2; dy++ {
		world := [2]float64{30, float64(dy) * 10}
		st, ok := e.TileFlags(world[0], world[1])
		if !ok {
			t.Fatalf("expected new column tile (%v,%v) in window", world[0], world[1])
		}
		if st.HasCraterRaster || st.HasTerrainRaster {
			t.Errorf("newly entered tile (%v,%v) should start with flags false, got %+v", world[0], world[1], st)
		}
	}

	quiesce(t, e, time.Second)
	for dy := -2; dy <= 2; dy++ {
		world := [2]float64{30, float64(dy) * 10}
		st, _ := e.TileFlags(world[0], world[1])
		if st.IsPadding {
			continue
		}
		if !st.HasCraterRaster || !st.HasTerrainRaster {
			t.Errorf("new column tile (%v,%v) failed to complete: %+v", world[0], world[1], st)
		}
	}
}

// TestScenario5_DiagonalShiftPastWindow covers spec.md §8 scenario 5:
// a shift far outside the window evicts every tile and zeroes the
// raster buffer.
func TestScenario5_DiagonalShiftPastWindow(t *testing.T) {
	e := newTestEngine(t)
	if err := e.Shift(0, 0); err != nil {
		t.Fatalf("shift: %v", err)
	}
	quiesce(t, e, time.Second)

	if err := e.Shift(1000, 1000); err != nil {
		t.Fatalf("diagonal shift: %v", err)
	}

	if _, ok := e.TileFlags(0, 0); ok {
		t.Fatal("origin tile should have exited the window")
	}
	for _, v := range e.Raster().Data() {
		if v != 0 {
			t.Fatalf("expected zeroed raster immediately after far shift, found %v", v)
		}
	}
}

// TestScenario6_ReturnToOrigin covers spec.md §8 scenario 6: shifting
// away and back to the origin reproduces the scenario-1 raster
// bitwise.
func TestScenario6_ReturnToOrigin(t *testing.T) {
	e := newTestEngine(t)
	if err := e.Shift(0, 0); err != nil {
		t.Fatalf("shift: %v", err)
	}
	quiesce(t, e, time.Second)
	original := append([]float32{}, e.Raster().Data()...)

	if err := e.Shift(10, 0); err != nil {
		t.Fatalf("shift away: %v", err)
	}
	quiesce(t, e, time.Second)

	if err := e.Shift(0, 0); err != nil {
		t.Fatalf("shift back: %v", err)
	}
	quiesce(t, e, time.Second)

	final := e.Raster().Data()
	for i := range original {
		if original[i] != final[i] {
			t.Fatalf("raster differs after round trip at index %d: %v -> %v", i, original[i], final[i])
		}
	}
}

// blockAnchors returns every world block anchor in the window centered
// at (cx,cy) for the given numBlocks/blockSize, including the padding
// ring.
func blockAnchors(cx, cy float64, numBlocks int, blockSize float64) [][2]float64 {
	span := numBlocks + 1
	var out [][2]float64
	for dx := -span; dx <= span; dx++ {
		for dy := -span; dy <= span; dy++ {
			out = append(out, [2]float64{cx + float64(dx)*blockSize, cy + float64(dy)*blockSize})
		}
	}
	return out
}
