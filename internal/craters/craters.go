// Package craters defines the contracts the Tile Engine requires of the
// crater metadata/database/builder subsystem (spec.md §1, §6). The
// subsystem itself — sampling, database storage, rasterization — is an
// external collaborator, deliberately out of scope; this package only
// carries the interfaces and a fake in-memory implementation used by
// tests and the demo harness.
//
// Grounded on high_res_dem_gen.py's CraterDB/CraterSampler/CraterBuilder
// call sites in generate_craters_metadata/generate_terrain_blocks — only
// the call shape is ported, never the crater generation algorithm.
package craters

// BoundingBox is an axis-aligned world-space region, per spec.md §6.
type BoundingBox struct {
	XMin, XMax, YMin, YMax float64
}

// BlockKey identifies a block by its world anchor. World coordinates
// are float64 throughout the engine (grid.World uses the same type)
// since block_size and resolution may be fractional.
type BlockKey struct {
	X, Y float64
}

// Metadata is the opaque per-block crater payload the Crater Build Pool
// kernel consumes (spec §4.5, §6). The core never interprets its
// contents.
type Metadata any

// Sampler is the Crater Metadata Collaborator contract of spec.md §6.
type Sampler interface {
	// SampleByRegion ensures metadata exists for every tile whose
	// anchor lies in the bounding box.
	SampleByRegion(region BoundingBox) error
	// BlockExists reports whether metadata has been generated for the
	// given block.
	BlockExists(key BlockKey) bool
	// BlockData returns the payload for the Crater Build Pool kernel.
	BlockData(key BlockKey) Metadata
}

// Builder is the Crater Builder Collaborator contract of spec.md §6:
// converts a block's crater metadata into an additive T×T elevation
// raster.
type Builder interface {
	Build(meta Metadata, key BlockKey) ([]float32, error)
}
