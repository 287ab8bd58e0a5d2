package interp

import (
	"log"
	"testing"
)

func discardLogger() *log.Logger {
	return log.New(discard{}, "", 0)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestResample_OutputShapeIsTxT(t *testing.T) {
	methods := []Method{Nearest, Linear, Area, Bicubic}
	for _, m := range methods {
		cfg := NewConfig(m, 5, 1, 2, discardLogger())
		patchSide := cfg.SourcePadding*2 + 2 // Tc=2
		patch := make([]float32, patchSide*patchSide)
		for i := range patch {
			patch[i] = float32(i)
		}
		out := Resample(patch, patchSide, cfg)
		wantSide := int(float64(patchSide)*cfg.F) - 2*cfg.TargetPadding()
		if len(out) != wantSide*wantSide {
			t.Errorf("method %v: output len = %d, want %d*%d=%d", m, len(out), wantSide, wantSide, wantSide*wantSide)
		}
	}
}

func TestResample_IdentityAtUnityScale(t *testing.T) {
	for _, m := range []Method{Nearest, Linear} {
		cfg := NewConfig(m, 1, 1, 2, discardLogger())
		side := 10
		patch := make([]float32, side*side)
		for i := range patch {
			patch[i] = float32(i)
		}
		out := Resample(patch, side, cfg)

		trim := cfg.TargetPadding()
		t_ := side - 2*trim
		if len(out) != t_*t_ {
			t.Fatalf("method %v: unexpected output size %d", m, len(out))
		}
		for y := 0; y < t_; y++ {
			for x := 0; x < t_; x++ {
				want := patch[(y+trim)*side+(x+trim)]
				got := out[y*t_+x]
				if got != want {
					t.Errorf("method %v: identity mismatch at (%d,%d): got %v want %v", m, x, y, got, want)
				}
			}
		}
	}
}

func TestResample_NearestRoundTripsIntegers(t *testing.T) {
	cfg := NewConfig(Nearest, 5, 1, 2, discardLogger())
	patchSide := 6
	patch := make([]float32, patchSide*patchSide)
	for i := range patch {
		patch[i] = float32(i * 3)
	}
	out := Resample(patch, patchSide, cfg)
	for _, v := range out {
		if v != float32(int(v)) {
			t.Errorf("nearest output not an exact integer: %v", v)
		}
	}
}

func TestParseMethod_UnknownIsError(t *testing.T) {
	if _, err := ParseMethod("lanczos"); err == nil {
		t.Fatal("expected error for unrecognized method")
	}
}
