package cog

import "fmt"

// ReadFloatRegion stitches together whichever tiles overlap the pixel
// rectangle [x0,x0+w) x [y0,y0+h) at the given IFD level and returns a
// dense row-major w*h float32 array. Unlike ReadFloatTile, which returns
// one tile-grid cell at a time, this lets a caller request an arbitrary,
// tile-grid-unaligned window — the shape the Coarse DEM collaborator
// contract needs (internal/coarsedem.DEM.Patch).
func (r *Reader) ReadFloatRegion(level, x0, y0, w, h int) ([]float32, error) {
	if level < 0 || level >= len(r.ifds) {
		return nil, fmt.Errorf("cog: invalid IFD level %d (have %d)", level, len(r.ifds))
	}
	ifd := &r.ifds[level]
	levelW := int(ifd.Width)
	levelH := int(ifd.Height)
	if x0 < 0 || y0 < 0 || x0+w > levelW || y0+h > levelH {
		return nil, fmt.Errorf("cog: region [%d:%d, %d:%d] out of bounds for %dx%d level",
			x0, x0+w, y0, y0+h, levelW, levelH)
	}

	tw := int(ifd.TileWidth)
	th := int(ifd.TileHeight)

	out := make([]float32, w*h)

	colStart, colEnd := x0/tw, (x0+w-1)/tw
	rowStart, rowEnd := y0/th, (y0+h-1)/th

	for row := rowStart; row <= rowEnd; row++ {
		for col := colStart; col <= colEnd; col++ {
			tile, tileW, tileH, err := r.ReadFloatTile(level, col, row)
			if err != nil {
				return nil, err
			}
			tileOriginX := col * tw
			tileOriginY := row * th

			if tile == nil {
				continue // empty (nodata) tile: leave zeros in place
			}

			// Intersect the tile's pixel footprint with the requested
			// region, then copy row by row.
			ix0 := max(x0, tileOriginX)
			ix1 := min(x0+w, tileOriginX+tileW)
			iy0 := max(y0, tileOriginY)
			iy1 := min(y0+h, tileOriginY+tileH)

			for py := iy0; py < iy1; py++ {
				srcRowOff := (py - tileOriginY) * tileW
				dstRowOff := (py - y0) * w
				srcColOff := ix0 - tileOriginX
				dstColOff := ix0 - x0
				n := ix1 - ix0
				copy(out[dstRowOff+dstColOff:dstRowOff+dstColOff+n], tile[srcRowOff+srcColOff:srcRowOff+srcColOff+n])
			}
		}
	}

	return out, nil
}
