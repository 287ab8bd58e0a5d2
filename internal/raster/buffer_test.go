package raster

import "testing"

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func fillPattern(b *Buffer) {
	s := b.Size()
	for y := 0; y < s; y++ {
		for x := 0; x < s; x++ {
			b.Set(x, y, float32(y*s+x))
		}
	}
}

func TestBuffer_TranslateZeroIsIdentity(t *testing.T) {
	b := New(50)
	fillPattern(b)
	before := append([]float32{}, b.Data()...)

	b.Translate(0, 0)

	after := b.Data()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("translate(0,0) changed data at index %d: %v -> %v", i, before[i], after[i])
		}
	}
}

func TestBuffer_TranslateInvolution(t *testing.T) {
	s := 50
	dx, dy := 10, 0

	b := New(s)
	fillPattern(b)
	original := append([]float32{}, b.Data()...)

	b.Translate(dx, dy)
	b.Translate(-dx, -dy)

	// translate(Δ) pushes the last Δ pixels (Δ > 0) or the first -Δ
	// pixels (Δ < 0) off the buffer, and translate(-Δ) moves the rest
	// back, so the surviving region is [max(-Δ,0), S-max(Δ,0)) on each
	// axis.
	x0, x1 := maxInt(-dx, 0), s-maxInt(dx, 0)
	y0, y1 := maxInt(-dy, 0), s-maxInt(dy, 0)

	for y := 0; y < s; y++ {
		for x := 0; x < s; x++ {
			got := b.At(x, y)
			if x >= x0 && x < x1 && y >= y0 && y < y1 {
				if got != original[y*s+x] {
					t.Fatalf("region mismatch at (%d,%d): got %v want %v", x, y, got, original[y*s+x])
				}
			}
		}
	}
}

func TestBuffer_TranslateFullOrGreaterShiftZeroes(t *testing.T) {
	b := New(50)
	fillPattern(b)

	b.Translate(50, 0) // |dx| == S, the fixed >= bug boundary
	for _, v := range b.Data() {
		if v != 0 {
			t.Fatalf("expected full-zero buffer after shift equal to S, found %v", v)
		}
	}
}

func TestBuffer_TranslateBoundaryStripsZeroed(t *testing.T) {
	s := 50
	b := New(s)
	fillPattern(b)

	b.Translate(10, 0)
	for y := 0; y < s; y++ {
		for x := 0; x < 10; x++ {
			if b.At(x, y) != 0 {
				t.Fatalf("expected zero strip at x<10, got %v at (%d,%d)", b.At(x, y), x, y)
			}
		}
	}
}

func TestBuffer_AddTileCommutativity(t *testing.T) {
	numBlocks := 1
	tileT := 10

	tileA := Tile{T: tileT, Data: make([]float32, tileT*tileT)}
	tileB := Tile{T: tileT, Data: make([]float32, tileT*tileT)}
	for i := range tileA.Data {
		tileA.Data[i] = float32(i)
		tileB.Data[i] = float32(2 * i)
	}

	b1 := New(50)
	b1.AddTile(0, 0, numBlocks, tileA)
	b1.AddTile(0, 0, numBlocks, tileB)

	b2 := New(50)
	b2.AddTile(0, 0, numBlocks, tileB)
	b2.AddTile(0, 0, numBlocks, tileA)

	for i := range b1.Data() {
		if b1.Data()[i] != b2.Data()[i] {
			t.Fatalf("composition order changed result at index %d", i)
		}
	}
}
