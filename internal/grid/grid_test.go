package grid

import "testing"

func TestGrid_SizeIsConstant(t *testing.T) {
	g := New(1, 10)
	want := (2*1 + 3) * (2*1 + 3)
	if g.Size() != want {
		t.Fatalf("initial size = %d, want %d", g.Size(), want)
	}
	g.Shift(World{10, 0})
	if g.Size() != want {
		t.Fatalf("size after shift = %d, want %d", g.Size(), want)
	}
	g.Shift(World{1000, 1000})
	if g.Size() != want {
		t.Fatalf("size after big shift = %d, want %d", g.Size(), want)
	}
}

func TestGrid_IsPaddingPureFunction(t *testing.T) {
	g := New(1, 10)
	for _, l := range g.Locals() {
		m := abs(l.DX)
		if abs(l.DY) > m {
			m = abs(l.DY)
		}
		want := m == 2
		if g.IsPaddingOffset(l) != want {
			t.Errorf("IsPaddingOffset(%v) = %v, want %v", l, g.IsPaddingOffset(l), want)
		}
		st, ok := g.State(l)
		if !ok {
			t.Fatalf("missing state for %v", l)
		}
		if st.IsPadding != want {
			t.Errorf("state.IsPadding(%v) = %v, want %v", l, st.IsPadding, want)
		}
	}
}

func TestGrid_StateCarryoverByIdentity(t *testing.T) {
	g := New(1, 10)
	local := Local{1, 0}
	st, ok := g.State(local)
	if !ok {
		t.Fatal("missing state at local (1,0)")
	}
	st.HasCraterMetadata = true
	st.HasTerrainRaster = true

	// Shift by one block in +x: the tile previously at local (1,0)
	// (world anchor (10,0)) should now be at local (0,0), carrying its
	// flags by identity.
	g.Shift(World{10, 0})

	newLocal, ok := g.Local(World{10, 0})
	if !ok {
		t.Fatal("world anchor (10,0) should still be tracked")
	}
	newSt, ok := g.State(newLocal)
	if !ok {
		t.Fatal("missing state after shift")
	}
	if !newSt.HasCraterMetadata || !newSt.HasTerrainRaster {
		t.Errorf("flags not carried over: %+v", newSt)
	}
}

func TestGrid_ShiftPastWindowDropsAllPriorState(t *testing.T) {
	g := New(1, 10)
	for _, l := range g.Locals() {
		st, _ := g.State(l)
		st.HasCraterMetadata = true
	}
	g.Shift(World{1000, 1000})
	for _, l := range g.Locals() {
		st, _ := g.State(l)
		if st.HasCraterMetadata {
			t.Fatalf("expected fresh state at %v after shift past window", l)
		}
	}
}

func TestFloorBlock(t *testing.T) {
	cases := []struct {
		x, blockSize, want float64
	}{
		{0, 10, 0},
		{4, 10, 0},
		{10, 10, 10},
		{-1, 10, -10},
		{-10, 10, -10},
		{19.9, 10, 10},
	}
	for _, c := range cases {
		if got := FloorBlock(c.x, c.blockSize); got != c.want {
			t.Errorf("FloorBlock(%v, %v) = %v, want %v", c.x, c.blockSize, got, c.want)
		}
	}
}
