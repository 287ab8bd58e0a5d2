// Package engine implements the Tile Engine orchestrator of spec.md
// §4.7: it owns the block grid tracker, the raster buffer, and both
// worker pools, and composes their asynchronous output into a single
// shared raster as the agent moves.
//
// Grounded directly on high_res_dem_gen.py's HighResDEMGen class: New
// mirrors its constructor, Shift mirrors shift/generate_craters_metadata/
// generate_terrain_blocks, and Collect mirrors collect_terrain_data.
package engine

import (
	"errors"
	"fmt"
	"log"

	"github.com/dgorski/hirdem/internal/coarsedem"
	"github.com/dgorski/hirdem/internal/config"
	"github.com/dgorski/hirdem/internal/craterpool"
	"github.com/dgorski/hirdem/internal/craters"
	"github.com/dgorski/hirdem/internal/grid"
	"github.com/dgorski/hirdem/internal/interppool"
	"github.com/dgorski/hirdem/internal/metrics"
	"github.com/dgorski/hirdem/internal/raster"
)

// ErrShutdown is returned by Shift/Collect once the engine has been
// shut down (spec.md §7 "Shutdown-after-use").
var ErrShutdown = errors.New("engine: operation after shutdown")

// Engine is the Tile Engine of spec.md §4.7.
type Engine struct {
	cfg config.Validated

	grid   *grid.Grid
	raster *raster.Buffer

	craterPool *craterpool.Pool
	interpPool *interppool.Pool

	sampler craters.Sampler
	dem     coarsedem.DEM

	blockPixels int // T: fine pixels per block
	numBlocks   int

	logger *log.Logger
	rec    metrics.Recorder

	shutdown bool
}

// New allocates the raster buffer, constructs both pools, and builds
// the initial window centered at (0,0) with all flags false (spec
// §4.7 "new").
func New(dem coarsedem.DEM, sampler craters.Sampler, builder craters.Builder, cfg config.Config, logger *log.Logger, rec metrics.Recorder) (*Engine, error) {
	validated, err := config.Validate(cfg, logger)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	if rec == nil {
		rec = metrics.Noop{}
	}

	g := grid.New(validated.NumBlocks, validated.BlockSize)
	buf := raster.New(validated.RasterSize())

	cp := craterpool.New(builder, validated.CraterWorkers,
		validated.IntakeQueueSize, validated.WorkerQueueSize, validated.OutputQueueSize)

	ip := interppool.New(dem, validated.CoarseBlockPixels(), validated.InterpPadding, validated.Interp,
		validated.InterpWorkers, validated.InterpThreads,
		validated.IntakeQueueSize, validated.WorkerQueueSize, validated.OutputQueueSize)

	return &Engine{
		cfg:         validated,
		grid:        g,
		raster:      buf,
		craterPool:  cp,
		interpPool:  ip,
		sampler:     sampler,
		dem:         dem,
		blockPixels: validated.BlockPixels(),
		numBlocks:   validated.NumBlocks,
		logger:      logger,
		rec:         rec,
	}, nil
}

func worldAnchor(center grid.World, local grid.Local, blockSize float64) grid.World {
	return grid.World{
		X: center.X + float64(local.DX)*blockSize,
		Y: center.Y + float64(local.DY)*blockSize,
	}
}

func toBlockKey(w grid.World) craters.BlockKey {
	return craters.BlockKey{X: w.X, Y: w.Y}
}

// Shift moves the window to cover worldXY, per spec.md §4.7's 9-step
// algorithm.
func (e *Engine) Shift(worldX, worldY float64) error {
	if e.shutdown {
		return ErrShutdown
	}

	blockSize := e.cfg.BlockSize
	resolution := e.cfg.Resolution

	// 1. Floor world_xy to block alignment -> new center C'.
	newCenter := grid.World{
		X: grid.FloorBlock(worldX, blockSize),
		Y: grid.FloorBlock(worldY, blockSize),
	}
	oldCenter := e.grid.Center()

	// 2. Compute pixel delta (negated: moving the agent +x slides the
	// content -x).
	deltaPxX := -(newCenter.X - oldCenter.X) / resolution
	deltaPxY := -(newCenter.Y - oldCenter.Y) / resolution

	// 3. Rebuild grid to C'.
	e.grid.Shift(newCenter)

	// 4. Translate the raster buffer by the pixel delta.
	e.raster.Translate(int(deltaPxX), int(deltaPxY))

	// 5. C_current <- C' happens inside grid.Shift already.

	// 6. Ask the crater metadata collaborator to sample the window
	// plus padding.
	span := float64(e.numBlocks+1) * blockSize
	region := craters.BoundingBox{
		XMin: newCenter.X - span, XMax: newCenter.X + span,
		YMin: newCenter.Y - span, YMax: newCenter.Y + span,
	}
	if err := e.sampler.SampleByRegion(region); err != nil {
		return fmt.Errorf("engine: sample crater region: %w", err)
	}

	// 7. Mark has_crater_metadata by querying collaborator existence,
	// monotonically (never reset to false once true - spec §9 open
	// question fix).
	for _, local := range e.grid.Locals() {
		world := worldAnchor(newCenter, local, blockSize)
		key := toBlockKey(world)
		st, ok := e.grid.State(local)
		if !ok {
			continue
		}
		if !st.HasCraterMetadata {
			st.HasCraterMetadata = e.sampler.BlockExists(key)
		}
	}

	// 8. Submit crater metadata for tiles lacking has_crater_raster.
	for _, local := range e.grid.Locals() {
		st, ok := e.grid.State(local)
		if !ok || st.HasCraterRaster || !st.HasCraterMetadata {
			continue
		}
		world := worldAnchor(newCenter, local, blockSize)
		key := toBlockKey(world)
		meta := e.sampler.BlockData(key)
		if err := e.craterPool.Submit(key, meta); err != nil {
			return fmt.Errorf("engine: submit crater job: %w", err)
		}
	}

	// 9. Submit coarse-DEM patches for tiles lacking has_terrain_raster.
	for _, local := range e.grid.Locals() {
		st, ok := e.grid.State(local)
		if !ok || st.HasTerrainRaster {
			continue
		}
		world := worldAnchor(newCenter, local, blockSize)
		key := toBlockKey(world)
		if err := e.interpPool.Submit(key); err != nil {
			return fmt.Errorf("engine: submit interpolation job: %w", err)
		}
	}

	return nil
}

// Collect drains both pools and composites their results into the
// raster buffer (spec.md §4.7 "collect()"). It never blocks.
func (e *Engine) Collect() error {
	if e.shutdown {
		return ErrShutdown
	}

	for _, r := range e.craterPool.Drain() {
		e.composite(r.Key, r.Value, r.Err, "crater")
	}
	for _, r := range e.interpPool.Drain() {
		e.composite(r.Key, r.Value, r.Err, "terrain")
	}

	e.reportQueueDepth("crater", e.craterPool.LoadPerWorker())
	e.reportQueueDepth("terrain", e.interpPool.LoadPerWorker())

	return nil
}

// reportQueueDepth publishes each lane's current input-queue depth
// (the get_load_per_worker reintroduction in SPEC_FULL.md's
// Supplemented section), giving an operator
// visibility into dispatcher balance without polling LoadPerWorker
// directly.
func (e *Engine) reportQueueDepth(pool string, loads []int) {
	for i, n := range loads {
		e.rec.ObserveQueueDepth(pool, fmt.Sprintf("worker-%d", i), n)
	}
}

func (e *Engine) composite(key craters.BlockKey, value []float32, err error, flag string) {
	world := grid.World{X: key.X, Y: key.Y}
	local, ok := e.grid.Local(world)
	if !ok {
		// Agent shifted past this tile; discard (spec §4.7 "collect()").
		return
	}
	st, ok := e.grid.State(local)
	if !ok {
		return
	}

	if err != nil {
		// Failure policy: log, leave flag false, retried on the next
		// shift that still includes this tile (spec §7).
		e.logger.Printf("engine: %s kernel failure for block (%v,%v): %v", flag, key.X, key.Y, err)
		e.rec.IncKernelFailure(flag)
		return
	}

	e.raster.AddTile(local.DX, local.DY, e.numBlocks, raster.Tile{T: e.blockPixels, Data: value})
	e.rec.IncTileComposited(flag)

	switch flag {
	case "crater":
		st.HasCraterRaster = true
	case "terrain":
		st.HasTerrainRaster = true
	}
}

// Raster returns the shared composite raster buffer. Callers must not
// retain references across a Shift call.
func (e *Engine) Raster() *raster.Buffer { return e.raster }

// TileFlags reports the current state flags for the tile anchored at
// the given world block anchor, and whether that anchor is within the
// current window at all.
func (e *Engine) TileFlags(worldX, worldY float64) (st grid.State, ok bool) {
	local, ok := e.grid.Local(grid.World{X: worldX, Y: worldY})
	if !ok {
		return grid.State{}, false
	}
	s, ok := e.grid.State(local)
	if !ok {
		return grid.State{}, false
	}
	return *s, true
}

// PoolsIdle reports whether both pools' worker lanes are currently
// empty (no guarantee that their output queues have been drained yet).
func (e *Engine) PoolsIdle() bool {
	return e.craterPool.Idle() && e.interpPool.Idle()
}

// Shutdown cascades shutdown to both pools, in reverse construction
// order (spec.md §9 "Cyclic shutdown"). Idempotent.
func (e *Engine) Shutdown() {
	if e.shutdown {
		return
	}
	e.shutdown = true
	e.interpPool.Shutdown()
	e.craterPool.Shutdown()
}
