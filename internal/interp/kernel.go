// Package interp implements the interpolation kernel of spec.md §4.3: a
// pure function that resamples a padded patch of the coarse DEM to fine
// resolution.
//
// Grounded on internal/tile/resample.go's nearestSampleFloat and
// bilinearSampleFloat (the teacher's own float-grid sampling math,
// originally used to reproject COG pixels into web-mercator tiles) and
// on high_res_dem_gen.py's CPUInterpolator.interpolate (cv2.resize with
// a padding trim — the algorithm this kernel ports from cv2 to pure Go).
package interp

import (
	"fmt"
	"log"
	"math"
)

// Method selects the resampling algorithm (spec §4.3).
type Method int

const (
	Nearest Method = iota
	Linear
	Area
	Bicubic
)

// ParseMethod converts a configuration string to a Method. An
// unrecognized method is a fatal configuration error per spec.md §7.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "nearest":
		return Nearest, nil
	case "linear":
		return Linear, nil
	case "area":
		return Area, nil
	case "bicubic":
		return Bicubic, nil
	default:
		return 0, fmt.Errorf("interp: unrecognized interpolation method %q", s)
	}
}

// Config carries the derived constants needed to resample a padded
// coarse-DEM patch to a fine-resolution tile, mirroring
// high_res_dem_gen.py's InterpolatorCfg.__post_init__.
type Config struct {
	Method Method
	// F is the scale factor source_resolution / resolution.
	F float64
	// SourcePadding is the coarse-pixel padding on the input patch
	// (coerced to >= 2 with a warning per spec §4.3).
	SourcePadding int
}

// NewConfig validates and derives an interpolation Config from the raw
// settings, emitting the spec's required warnings via logger (or
// log.Default() if nil). Mirrors InterpolatorCfg.__post_init__.
func NewConfig(method Method, sourceResolution, resolution float64, sourcePadding int, logger *log.Logger) Config {
	if logger == nil {
		logger = log.Default()
	}
	f := sourceResolution / resolution

	if sourcePadding < 2 {
		logger.Printf("interp: source padding %d too small, coerced to 2", sourcePadding)
		sourcePadding = 2
	}

	switch method {
	case Bicubic:
		if f < 1.0 {
			logger.Printf("interp: bicubic interpolation with downscaling (f=%.4f); consider a different method", f)
		}
	case Area:
		if f > 1.0 {
			logger.Printf("interp: area interpolation with upscaling (f=%.4f); consider a different method", f)
		}
	}

	return Config{Method: method, F: f, SourcePadding: sourcePadding}
}

// TargetPadding returns the padding to trim from the resampled patch,
// floor(SourcePadding * F) per spec.md §4.3.
func (c Config) TargetPadding() int {
	return int(math.Floor(float64(c.SourcePadding) * c.F))
}

// Resample resamples a padded square patch (side = patchSide) by the
// configured method and scale factor, then trims TargetPadding pixels
// from each edge, producing a T×T patch per spec.md §4.3 where
// T = (patchSide - 2*SourcePadding) * F.
func Resample(patch []float32, patchSide int, cfg Config) []float32 {
	scaledSide := int(math.Round(float64(patchSide) * cfg.F))
	scaled := resampleSquare(patch, patchSide, scaledSide, cfg.Method)

	trim := cfg.TargetPadding()
	t := scaledSide - 2*trim
	if t <= 0 {
		return []float32{}
	}
	out := make([]float32, t*t)
	for y := 0; y < t; y++ {
		srcRow := scaled[(y+trim)*scaledSide+trim : (y+trim)*scaledSide+trim+t]
		copy(out[y*t:y*t+t], srcRow)
	}
	return out
}

// resampleSquare resamples a src×src grid to a dst×dst grid using the
// given method. Nearest/linear/area operate directly on source pixel
// space; bicubic uses a 4x4 Catmull-Rom convolution.
func resampleSquare(src []float32, srcSide, dstSide int, method Method) []float32 {
	if srcSide == dstSide {
		out := make([]float32, len(src))
		copy(out, src)
		return out
	}

	out := make([]float32, dstSide*dstSide)
	scale := float64(srcSide) / float64(dstSide)

	switch method {
	case Nearest:
		for y := 0; y < dstSide; y++ {
			sy := clampInt(int(math.Floor((float64(y)+0.5)*scale)), 0, srcSide-1)
			for x := 0; x < dstSide; x++ {
				sx := clampInt(int(math.Floor((float64(x)+0.5)*scale)), 0, srcSide-1)
				out[y*dstSide+x] = src[sy*srcSide+sx]
			}
		}
	case Linear:
		for y := 0; y < dstSide; y++ {
			fy := (float64(y)+0.5)*scale - 0.5
			for x := 0; x < dstSide; x++ {
				fx := (float64(x)+0.5)*scale - 0.5
				out[y*dstSide+x] = bilinearAt(src, srcSide, fx, fy)
			}
		}
	case Area:
		for y := 0; y < dstSide; y++ {
			y0 := float64(y) * scale
			y1 := y0 + scale
			for x := 0; x < dstSide; x++ {
				x0 := float64(x) * scale
				x1 := x0 + scale
				out[y*dstSide+x] = areaAverage(src, srcSide, x0, x1, y0, y1)
			}
		}
	case Bicubic:
		for y := 0; y < dstSide; y++ {
			fy := (float64(y)+0.5)*scale - 0.5
			for x := 0; x < dstSide; x++ {
				fx := (float64(x)+0.5)*scale - 0.5
				out[y*dstSide+x] = bicubicAt(src, srcSide, fx, fy)
			}
		}
	}
	return out
}

func bilinearAt(src []float32, side int, fx, fy float64) float32 {
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	x1 := x0 + 1
	y1 := y0 + 1
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	x0c, x1c := clampInt(x0, 0, side-1), clampInt(x1, 0, side-1)
	y0c, y1c := clampInt(y0, 0, side-1), clampInt(y1, 0, side-1)

	v00 := float64(src[y0c*side+x0c])
	v10 := float64(src[y0c*side+x1c])
	v01 := float64(src[y1c*side+x0c])
	v11 := float64(src[y1c*side+x1c])

	top := lerp(v00, v10, dx)
	bot := lerp(v01, v11, dx)
	return float32(lerp(top, bot, dy))
}

func lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

func areaAverage(src []float32, side int, x0, x1, y0, y1 float64) float32 {
	ix0 := clampInt(int(math.Floor(x0)), 0, side-1)
	ix1 := clampInt(int(math.Ceil(x1))-1, 0, side-1)
	iy0 := clampInt(int(math.Floor(y0)), 0, side-1)
	iy1 := clampInt(int(math.Ceil(y1))-1, 0, side-1)
	if ix1 < ix0 {
		ix1 = ix0
	}
	if iy1 < iy0 {
		iy1 = iy0
	}

	var sum float64
	var count float64
	for y := iy0; y <= iy1; y++ {
		for x := ix0; x <= ix1; x++ {
			sum += float64(src[y*side+x])
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float32(sum / count)
}

// cubicWeight is the Catmull-Rom cubic convolution kernel (a = -0.5).
func cubicWeight(t float64) float64 {
	const a = -0.5
	t = math.Abs(t)
	switch {
	case t <= 1:
		return (a+2)*t*t*t - (a+3)*t*t + 1
	case t < 2:
		return a*t*t*t - 5*a*t*t + 8*a*t - 4*a
	default:
		return 0
	}
}

func bicubicAt(src []float32, side int, fx, fy float64) float32 {
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	var result float64
	for m := -1; m <= 2; m++ {
		wy := cubicWeight(float64(m) - dy)
		yy := clampInt(y0+m, 0, side-1)
		var rowSum float64
		for n := -1; n <= 2; n++ {
			wx := cubicWeight(float64(n) - dx)
			xx := clampInt(x0+n, 0, side-1)
			rowSum += wx * float64(src[yy*side+xx])
		}
		result += wy * rowSum
	}
	return float32(result)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
