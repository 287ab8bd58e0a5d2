// Package cog reads single-band, floating-point Cloud-Optimized GeoTIFF
// rasters: IFD/tag parsing, TIFF LZW and deflate tile decompression, and
// memory-mapped random access to float32 elevation samples. Used here as
// the on-disk backing store for the coarse DEM collaborator (see CogDEM
// in the parent coarsedem package) — trimmed to the elevation-reading
// path only, since a DEM source is never JPEG-compressed or read
// pixel-by-pixel as an RGBA image the way a display tile pyramid is.
package cog

import (
	"bytes"
	"compress/flate"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// Reader provides tile-level access to a COG/GeoTIFF elevation file.
// The file is memory-mapped for lock-free concurrent access.
type Reader struct {
	data  []byte // memory-mapped file contents
	bo    binary.ByteOrder
	ifds  []IFD
	geo   GeoInfo
	path  string
	strip *stripLayout // non-nil for strip-based TIFFs promoted to virtual tiles
}

// stripLayout stores the original strip layout for strip-based TIFFs.
// Virtual tiles are composed from multiple strips at read time.
type stripLayout struct {
	offsets       []uint64
	byteCounts    []uint64
	rowsPerStrip  uint32
	stripsPerTile int // number of original strips per virtual tile
}

// Open opens a COG/GeoTIFF file by memory-mapping it and parsing its
// structure. If a TFW (TIFF World File) sidecar is found, it is used for
// georeferencing when the TIFF lacks embedded GeoTIFF tags. Strip-based
// TIFFs are supported by converting the strip layout into a virtual tile
// layout.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	size := fi.Size()
	if size == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}

	data, err := mmapFile(f.Fd(), int(size))
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	ifds, bo, err := parseTIFF(bytes.NewReader(data))
	if err != nil {
		munmapFile(data)
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if len(ifds) == 0 {
		munmapFile(data)
		return nil, fmt.Errorf("%s: no IFDs found", path)
	}

	first := &ifds[0]

	// Strip-based TIFFs: convert the strip layout into virtual tiles.
	var sl *stripLayout
	if first.TileWidth == 0 || first.TileHeight == 0 {
		if len(first.StripOffsets) > 0 {
			sl = promoteStripsToTiles(first)
		} else {
			munmapFile(data)
			return nil, fmt.Errorf("%s: no tile or strip layout found", path)
		}
	}

	switch first.Compression {
	case 1, 5, 8, 32946:
		// Supported: None, LZW, Deflate. JPEG (7) is excluded: it is a
		// lossy 8-bit codec and no elevation source stores samples with
		// it.
	default:
		munmapFile(data)
		return nil, fmt.Errorf("%s: unsupported compression type %d", path, first.Compression)
	}

	geo := parseGeoInfo(first)

	// If GeoTIFF tags are absent, try a TFW sidecar.
	if geo.PixelSizeX == 0 && geo.PixelSizeY == 0 {
		if tfwPath := findTFW(path); tfwPath != "" {
			tfw, err := parseTFW(tfwPath)
			if err != nil {
				munmapFile(data)
				return nil, err
			}
			geo = tfw.toGeoInfo()
		}
	}

	return &Reader{
		data:  data,
		bo:    bo,
		ifds:  ifds,
		geo:   geo,
		path:  path,
		strip: sl,
	}, nil
}

// promoteStripsToTiles converts a strip-based IFD into a virtual tile
// layout. Small strips are grouped into larger virtual tiles (>= 256
// rows) so that resampling windows rarely span more than 2 tiles.
// Returns the stripLayout needed to reconstruct virtual tiles at read
// time.
func promoteStripsToTiles(ifd *IFD) *stripLayout {
	rps := ifd.RowsPerStrip
	if rps == 0 {
		rps = ifd.Height
	}

	const minTileHeight = 256
	stripsPerTile := 1
	if rps < minTileHeight {
		stripsPerTile = int((minTileHeight + rps - 1) / rps)
	}
	virtualTileH := rps * uint32(stripsPerTile)

	totalStrips := len(ifd.StripOffsets)
	numVirtualTiles := (totalStrips + stripsPerTile - 1) / stripsPerTile

	virtualOffsets := make([]uint64, numVirtualTiles)
	virtualByteCounts := make([]uint64, numVirtualTiles)
	for i := 0; i < numVirtualTiles; i++ {
		startStrip := i * stripsPerTile
		virtualOffsets[i] = ifd.StripOffsets[startStrip]
		var totalBytes uint64
		endStrip := startStrip + stripsPerTile
		if endStrip > totalStrips {
			endStrip = totalStrips
		}
		for s := startStrip; s < endStrip; s++ {
			totalBytes += ifd.StripByteCounts[s]
		}
		virtualByteCounts[i] = totalBytes
	}

	sl := &stripLayout{
		offsets:       ifd.StripOffsets,
		byteCounts:    ifd.StripByteCounts,
		rowsPerStrip:  rps,
		stripsPerTile: stripsPerTile,
	}

	ifd.TileWidth = ifd.Width
	ifd.TileHeight = virtualTileH
	ifd.TileOffsets = virtualOffsets
	ifd.TileByteCounts = virtualByteCounts

	return sl
}

// Close unmaps the memory-mapped file.
func (r *Reader) Close() error {
	if r.data != nil {
		err := munmapFile(r.data)
		r.data = nil
		return err
	}
	return nil
}

// Path returns the file path.
func (r *Reader) Path() string { return r.path }

// IFDCount returns the total number of IFDs (levels).
func (r *Reader) IFDCount() int { return len(r.ifds) }

// BoundsInCRS returns the bounding box of the full-resolution level in
// the source CRS.
func (r *Reader) BoundsInCRS() (minX, minY, maxX, maxY float64) {
	ifd := &r.ifds[0]
	minX = r.geo.OriginX
	maxY = r.geo.OriginY
	maxX = minX + float64(ifd.Width)*r.geo.PixelSizeX
	minY = maxY - float64(ifd.Height)*r.geo.PixelSizeY
	return
}

// readTileRaw reads and decompresses raw tile bytes at the given column
// and row. Returns the decompressed bytes and the IFD for that level.
func (r *Reader) readTileRaw(level, col, row int) ([]byte, *IFD, error) {
	if level < 0 || level >= len(r.ifds) {
		return nil, nil, fmt.Errorf("invalid IFD level %d (have %d)", level, len(r.ifds))
	}

	ifd := &r.ifds[level]
	tilesAcross := ifd.TilesAcross()
	tilesDown := ifd.TilesDown()

	if col < 0 || col >= tilesAcross || row < 0 || row >= tilesDown {
		return nil, nil, fmt.Errorf("tile (%d,%d) out of range (%dx%d)", col, row, tilesAcross, tilesDown)
	}

	// Strip-based: read individual strips and concatenate.
	if r.strip != nil && level == 0 {
		return r.readStripTileRaw(ifd, row)
	}

	tileIdx := row*tilesAcross + col
	if tileIdx >= len(ifd.TileOffsets) || tileIdx >= len(ifd.TileByteCounts) {
		return nil, nil, fmt.Errorf("tile index %d out of range", tileIdx)
	}

	offset := ifd.TileOffsets[tileIdx]
	size := ifd.TileByteCounts[tileIdx]

	if size == 0 {
		return nil, ifd, nil // empty tile
	}

	end := offset + size
	if end > uint64(len(r.data)) {
		return nil, nil, fmt.Errorf("tile data [%d:%d] exceeds file size %d", offset, end, len(r.data))
	}

	data := r.data[offset:end]

	var decompressed []byte
	switch ifd.Compression {
	case 1: // No compression
		decompressed = data
	case 8, 32946: // Deflate / zlib
		dec, err := decompressDeflate(data)
		if err != nil {
			return nil, nil, fmt.Errorf("decompressing deflate tile: %w", err)
		}
		decompressed = dec
	case 5: // LZW
		dec, err := decompressLZW(data)
		if err != nil {
			return nil, nil, fmt.Errorf("decompressing LZW tile: %w", err)
		}
		decompressed = dec
	default:
		return nil, nil, fmt.Errorf("unsupported compression: %d", ifd.Compression)
	}

	if ifd.Predictor == 2 {
		undoHorizontalDifferencing(decompressed, int(ifd.TileWidth), int(ifd.SamplesPerPixel))
	}
	return decompressed, ifd, nil
}

// readStripTileRaw reads the strips that compose a virtual tile row and
// returns the concatenated, decompressed bytes.
func (r *Reader) readStripTileRaw(ifd *IFD, tileRow int) ([]byte, *IFD, error) {
	sl := r.strip
	startStrip := tileRow * sl.stripsPerTile
	endStrip := startStrip + sl.stripsPerTile
	if endStrip > len(sl.offsets) {
		endStrip = len(sl.offsets)
	}

	var combined []byte

	for s := startStrip; s < endStrip; s++ {
		offset := sl.offsets[s]
		size := sl.byteCounts[s]
		if size == 0 {
			continue
		}
		end := offset + size
		if end > uint64(len(r.data)) {
			return nil, nil, fmt.Errorf("strip %d data [%d:%d] exceeds file size %d", s, offset, end, len(r.data))
		}

		chunk := r.data[offset:end]

		switch ifd.Compression {
		case 1: // No compression
			combined = append(combined, chunk...)
		case 8, 32946: // Deflate / zlib
			dec, err := decompressDeflate(chunk)
			if err != nil {
				return nil, nil, fmt.Errorf("decompressing deflate strip %d: %w", s, err)
			}
			combined = append(combined, dec...)
		case 5: // LZW
			dec, err := decompressLZW(chunk)
			if err != nil {
				return nil, nil, fmt.Errorf("decompressing LZW strip %d: %w", s, err)
			}
			combined = append(combined, dec...)
		default:
			return nil, nil, fmt.Errorf("unsupported compression: %d", ifd.Compression)
		}
	}

	if len(combined) == 0 {
		return nil, ifd, nil
	}

	if ifd.Predictor == 2 {
		undoHorizontalDifferencing(combined, int(ifd.Width), int(ifd.SamplesPerPixel))
	}
	return combined, ifd, nil
}

// undoHorizontalDifferencing reverses TIFF predictor=2 (horizontal
// differencing). Each sample is stored as the difference from the
// previous sample in the same row; this accumulates the deltas to
// recover the original values.
func undoHorizontalDifferencing(data []byte, width, samplesPerPixel int) {
	rowBytes := width * samplesPerPixel
	for off := 0; off+rowBytes <= len(data); off += rowBytes {
		row := data[off : off+rowBytes]
		for x := samplesPerPixel; x < rowBytes; x++ {
			row[x] += row[x-samplesPerPixel]
		}
	}
}

// ReadFloatTile reads and decodes a single float32 elevation tile.
// Returns the float32 data and tile dimensions (width, height). For
// empty (nodata) tiles, returns nil data.
func (r *Reader) ReadFloatTile(level, col, row int) ([]float32, int, int, error) {
	data, ifd, err := r.readTileRaw(level, col, row)
	if err != nil {
		return nil, 0, 0, err
	}

	w := int(ifd.TileWidth)
	h := int(ifd.TileHeight)

	if data == nil {
		return nil, w, h, nil // empty tile
	}

	return r.decodeRawFloat32Tile(ifd, data)
}

// decodeRawFloat32Tile decodes raw bytes as float32 elevation samples,
// taking only the first band.
func (r *Reader) decodeRawFloat32Tile(ifd *IFD, data []byte) ([]float32, int, int, error) {
	w := int(ifd.TileWidth)
	h := int(ifd.TileHeight)
	spp := int(ifd.SamplesPerPixel)
	pixelCount := w * h

	bps := 32
	if len(ifd.BitsPerSample) > 0 {
		bps = int(ifd.BitsPerSample[0])
	}

	bytesPerSample := bps / 8
	expectedSize := pixelCount * spp * bytesPerSample

	if len(data) < expectedSize {
		return nil, 0, 0, fmt.Errorf("float tile data too short: got %d, need %d", len(data), expectedSize)
	}

	result := make([]float32, pixelCount)
	for i := 0; i < pixelCount; i++ {
		off := i * spp * bytesPerSample
		switch bps {
		case 32:
			bits := r.bo.Uint32(data[off : off+4])
			result[i] = math.Float32frombits(bits)
		case 64:
			bits := r.bo.Uint64(data[off : off+8])
			result[i] = float32(math.Float64frombits(bits))
		default:
			return nil, 0, 0, fmt.Errorf("unsupported float bits per sample: %d", bps)
		}
	}

	return result, w, h, nil
}

func decompressDeflate(data []byte) ([]byte, error) {
	// Try zlib (deflate with 2-byte header) first — this is the TIFF standard.
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err == nil {
		defer r.Close()
		result, err := io.ReadAll(r)
		if err == nil {
			return result, nil
		}
	}

	// Fall back to raw deflate (some writers omit the zlib header).
	fr := flate.NewReader(bytes.NewReader(data))
	defer fr.Close()
	return io.ReadAll(fr)
}

// decompressLZW decompresses TIFF-style LZW compressed data.
// Uses a TIFF-specific LZW decoder that handles the "early change"
// code width behavior required by the TIFF 6.0 spec.
func decompressLZW(data []byte) ([]byte, error) {
	return decompressTIFFLZW(data)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// IFDPixelSize returns the pixel pitch, in source CRS units, of the
// given IFD level.
func (r *Reader) IFDPixelSize(level int) float64 {
	return r.geo.PixelSizeX * float64(r.ifds[0].Width) / float64(r.ifds[level].Width)
}

// IFDWidth returns the pixel width of the given IFD level.
func (r *Reader) IFDWidth(level int) int { return int(r.ifds[level].Width) }

// IFDHeight returns the pixel height of the given IFD level.
func (r *Reader) IFDHeight(level int) int { return int(r.ifds[level].Height) }

// FormatDescription returns a human-readable summary of the raster
// format, e.g. "LZW, 1x float32".
func (r *Reader) FormatDescription() string {
	ifd := &r.ifds[0]

	comp := "unknown"
	switch ifd.Compression {
	case 1:
		comp = "uncompressed"
	case 5:
		comp = "LZW"
	case 8, 32946:
		comp = "Deflate"
	}

	spp := int(ifd.SamplesPerPixel)
	bps := 8
	if len(ifd.BitsPerSample) > 0 {
		bps = int(ifd.BitsPerSample[0])
	}

	sampleType := "uint"
	if r.IsFloat() {
		sampleType = "float"
	}

	return fmt.Sprintf("%s, %dx %s%d", comp, spp, sampleType, bps)
}

// IsFloat returns true if the raster data is floating-point (e.g.
// Float32 elevation data).
func (r *Reader) IsFloat() bool {
	ifd := &r.ifds[0]
	return len(ifd.SampleFormat) > 0 && ifd.SampleFormat[0] == 3 // 3 = IEEE floating point
}

// NoData returns the GDAL nodata string, or "" if not set.
func (r *Reader) NoData() string { return r.ifds[0].NoData }
