// Command hirdem-demo drives the Tile Engine through a short scripted
// walk and logs raster statistics after each step, standing in for the
// original's matplotlib visualization loop (out of scope here per
// spec.md §1 — "the visualization / demo harness" is an external
// collaborator).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dgorski/hirdem/internal/coarsedem"
	"github.com/dgorski/hirdem/internal/config"
	"github.com/dgorski/hirdem/internal/craters"
	"github.com/dgorski/hirdem/internal/engine"
)

func main() {
	var (
		numBlocks     int
		blockSize     float64
		resolution    float64
		srcResolution float64
		interpMethod  string
		coarseDEMPath string
		steps         int
		stepSize      float64
		verbose       bool
	)

	flag.IntVar(&numBlocks, "num-blocks", 4, "half-window size in tiles")
	flag.Float64Var(&blockSize, "block-size", 10, "tile side length, world units")
	flag.Float64Var(&resolution, "resolution", 1, "fine-DEM pixel pitch, world units")
	flag.Float64Var(&srcResolution, "source-resolution", 5, "coarse-DEM pixel pitch, world units")
	flag.StringVar(&interpMethod, "interpolation-method", "bicubic", "nearest, linear, area, or bicubic")
	flag.StringVar(&coarseDEMPath, "coarse-dem", "", "path to a COG/GeoTIFF coarse DEM; empty uses a synthetic flat array")
	flag.IntVar(&steps, "steps", 5, "number of shift steps to walk")
	flag.Float64Var(&stepSize, "step-size", 10, "world-unit distance advanced per step, along +x")
	flag.BoolVar(&verbose, "verbose", false, "log the center tile's flags after each step")
	flag.Parse()

	logger := log.New(os.Stderr, "hirdem-demo: ", log.LstdFlags)

	var dem coarsedem.DEM
	if coarseDEMPath != "" {
		d, err := coarsedem.OpenCog(coarseDEMPath, 0)
		if err != nil {
			logger.Fatalf("open coarse DEM: %v", err)
		}
		defer d.Close()
		dem = d
	} else {
		const half = 2000
		size := half * 2
		data := make([]float32, size*size)
		dem = coarsedem.NewArrayDEM(data, size, size, srcResolution)
	}

	sampler := craters.NewFakeSampler(blockSize)
	builder := craters.FakeBuilder{T: int(blockSize / resolution), Value: 1}

	cfg := config.Default()
	cfg.NumBlocks = numBlocks
	cfg.BlockSize = blockSize
	cfg.Resolution = resolution
	cfg.SourceResolution = srcResolution
	cfg.InterpMethod = interpMethod

	eng, err := engine.New(dem, sampler, builder, cfg, logger, nil)
	if err != nil {
		logger.Fatalf("engine.New: %v", err)
	}
	defer eng.Shutdown()

	for step := 0; step <= steps; step++ {
		x := float64(step) * stepSize
		if err := eng.Shift(x, 0); err != nil {
			logger.Fatalf("shift(%v,0): %v", x, err)
		}

		// collect() is non-blocking; poll briefly so the demo's
		// printed stats reflect work the pools finished quickly,
		// without making the engine itself block on worker output.
		deadline := time.Now().Add(200 * time.Millisecond)
		for time.Now().Before(deadline) {
			eng.Collect()
			if eng.PoolsIdle() {
				break
			}
			time.Sleep(time.Millisecond)
		}
		eng.Collect()

		data := eng.Raster().Data()
		var nonZero int
		var sum float64
		for _, v := range data {
			if v != 0 {
				nonZero++
			}
			sum += float64(v)
		}
		fmt.Printf("step %d: center=(%.0f,0) nonzero_px=%d/%d sum=%.1f\n", step, x, nonZero, len(data), sum)

		if verbose {
			st, ok := eng.TileFlags(x, 0)
			logger.Printf("center tile flags: %+v (in window: %v)", st, ok)
		}
	}
}
