package coarsedem

import (
	"fmt"

	"github.com/dgorski/hirdem/internal/coarsedem/cog"
)

// CogDEM adapts a COG/GeoTIFF Reader (internal/coarsedem/cog) into the
// DEM contract, for production-scale coarse rasters backed by a real
// elevation file rather than an in-memory array.
type CogDEM struct {
	r      *cog.Reader
	level  int
	cx, cy int
}

// OpenCog opens a GeoTIFF at path and wraps it as a DEM. level selects
// the IFD / overview level to read from (0 = full resolution). The
// raster's center pixel is treated as world (0, 0), matching ArrayDEM's
// convention so the two implementations are interchangeable in tests.
func OpenCog(path string, level int) (*CogDEM, error) {
	r, err := cog.Open(path)
	if err != nil {
		return nil, fmt.Errorf("coarsedem: open %s: %w", path, err)
	}
	if level < 0 || level >= r.IFDCount() {
		r.Close()
		return nil, fmt.Errorf("coarsedem: invalid level %d (have %d)", level, r.IFDCount())
	}
	if !r.IsFloat() {
		r.Close()
		return nil, fmt.Errorf("coarsedem: %s: %s is not a floating-point elevation raster", path, r.FormatDescription())
	}
	return &CogDEM{
		r:     r,
		level: level,
		cx:    r.IFDWidth(level) / 2,
		cy:    r.IFDHeight(level) / 2,
	}, nil
}

// Close releases the underlying memory-mapped file.
func (d *CogDEM) Close() error { return d.r.Close() }

func (d *CogDEM) SourceResolution() float64 { return d.r.IFDPixelSize(d.level) }

func (d *CogDEM) Patch(worldX, worldY float64, blockPixels, pad int) ([]float32, error) {
	res := d.SourceResolution()
	px := int(worldX/res) + d.cx
	py := int(worldY/res) + d.cy

	side := blockPixels + 2*pad
	x0 := px - pad
	y0 := py - pad

	return d.r.ReadFloatRegion(d.level, x0, y0, side, side)
}
