// Package config defines the Tile Engine's configuration schema (spec.md
// §6) and its validation rules (spec.md §7): unknown interpolation
// methods and non-positive sizes are fatal at construction, while
// source-padding and method/scaling mismatches are coerced with a
// logged warning.
//
// Grounded on high_res_dem_gen.py's HighResDEMGenCfg.__post_init__
// (dataclass field validation + coercion) and on the teacher's
// cmd/geotiff2pmtiles/main.go flag-based assembly style, carried
// forward into the thin CLI layer in cmd/hirdem-demo rather than into
// this package — the core remains a library with no CLI or
// deserialization concerns of its own (spec §6 "No wire protocol, no
// persisted state, no CLI").
package config

import (
	"fmt"
	"log"

	"github.com/dgorski/hirdem/internal/interp"
)

// Config is the full recognized key table of spec.md §6. CraterParams
// carries the crater-collaborator keys, forwarded unchanged to whatever
// Sampler/Builder the caller wires up; the core never interprets them.
type Config struct {
	NumBlocks         int
	BlockSize         float64
	PadSize           float64
	Resolution        float64
	SourceResolution  float64
	InterpMethod      string
	InterpPadding     int
	CraterParams      map[string]string

	// Worker pool sizing, supplementing the original's hardcoded
	// worker/queue counts with configurable knobs (SPEC_FULL.md
	// "Supplemented").
	CraterWorkers   int
	InterpWorkers   int
	InterpThreads   int
	IntakeQueueSize int
	WorkerQueueSize int
	OutputQueueSize int
}

// Default returns a Config with worker-pool sizing defaults (4 workers
// per pool, 1 interpolation thread, 64-deep intake and output queues,
// 16-deep per-worker queues) and bicubic interpolation with a source
// padding of 2, leaving the remaining domain fields zero-valued for the
// caller to fill in.
func Default() Config {
	return Config{
		InterpMethod:    "bicubic",
		InterpPadding:   2,
		CraterWorkers:   4,
		InterpWorkers:   4,
		InterpThreads:   1,
		IntakeQueueSize: 64,
		WorkerQueueSize: 16,
		OutputQueueSize: 64,
	}
}

// Validated is a Config that has passed Validate: fatal errors are
// absent and coercible fields have been normalized.
type Validated struct {
	Config
	Method interp.Method
	Interp interp.Config
}

// Validate applies spec.md §7's error/warning split. Fatal configuration
// errors are returned as an error; configuration warnings are logged
// via logger (or log.Default() if nil) and the offending field is
// coerced in place.
func Validate(cfg Config, logger *log.Logger) (Validated, error) {
	if logger == nil {
		logger = log.Default()
	}

	if cfg.NumBlocks < 1 {
		return Validated{}, fmt.Errorf("config: num_blocks must be >= 1, got %d", cfg.NumBlocks)
	}
	if cfg.BlockSize <= 0 {
		return Validated{}, fmt.Errorf("config: block_size must be positive, got %v", cfg.BlockSize)
	}
	if cfg.Resolution <= 0 {
		return Validated{}, fmt.Errorf("config: resolution must be positive, got %v", cfg.Resolution)
	}
	if cfg.SourceResolution <= 0 {
		return Validated{}, fmt.Errorf("config: source_resolution must be positive, got %v", cfg.SourceResolution)
	}
	if cfg.PadSize < 0 {
		return Validated{}, fmt.Errorf("config: pad_size must be non-negative, got %v", cfg.PadSize)
	}

	method, err := interp.ParseMethod(cfg.InterpMethod)
	if err != nil {
		return Validated{}, fmt.Errorf("config: %w", err)
	}

	if cfg.CraterWorkers < 1 {
		cfg.CraterWorkers = 1
	}
	if cfg.InterpWorkers < 1 {
		cfg.InterpWorkers = 1
	}
	if cfg.InterpThreads < 1 {
		cfg.InterpThreads = 1
	}

	icfg := interp.NewConfig(method, cfg.SourceResolution, cfg.Resolution, cfg.InterpPadding, logger)
	cfg.InterpPadding = icfg.SourcePadding

	return Validated{Config: cfg, Method: method, Interp: icfg}, nil
}

// BlockPixels returns T = block_size / resolution, the fine-resolution
// tile side length in pixels.
func (c Config) BlockPixels() int {
	return int(c.BlockSize / c.Resolution)
}

// CoarseBlockPixels returns the coarse-DEM pixel extent of one block,
// block_size / source_resolution.
func (c Config) CoarseBlockPixels() int {
	return int(c.BlockSize / c.SourceResolution)
}

// RasterSize returns S = (2*num_blocks+3) * block_size / resolution,
// the Raster Buffer's side length in pixels (spec.md §3).
func (c Config) RasterSize() int {
	return (2*c.NumBlocks + 3) * c.BlockPixels()
}
