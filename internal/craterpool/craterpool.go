// Package craterpool instantiates a workerpool.Pool specialized for
// crater rasterization: each job carries one block's crater metadata,
// and the kernel calls out to the Crater Builder Collaborator to turn
// it into an additive T×T elevation raster (spec.md §4.5).
//
// Grounded on high_res_dem_gen.py's CraterBuilderManager, a thin
// BaseWorkerManager subclass that plugs a CraterBuilderWorker into the
// generic worker pool.
package craterpool

import (
	"github.com/dgorski/hirdem/internal/craters"
	"github.com/dgorski/hirdem/internal/workerpool"
)

// Job is the unit of work submitted to the pool: a block key plus its
// crater metadata payload.
type Job struct {
	Key  craters.BlockKey
	Meta craters.Metadata
}

// Pool rasterizes crater metadata into additive elevation tiles.
type Pool struct {
	inner *workerpool.Pool[craters.BlockKey, Job, []float32]
}

type kernel struct {
	builder craters.Builder
}

func (k kernel) Run(job Job) ([]float32, error) {
	return k.builder.Build(job.Meta, job.Key)
}

// New starts a crater build pool. Unlike high_res_dem_gen.py's
// copy.copy(crater_builder) per worker, no per-lane copy of builder is
// made: every lane shares the same Builder value, which must be safe
// for concurrent use (spec §4.4 "Isolation").
func New(builder craters.Builder, workers, intakeSize, workerSize, outputSize int) *Pool {
	inner := workerpool.New[craters.BlockKey, Job, []float32](
		func() workerpool.Kernel[Job, []float32] {
			return kernel{builder: builder}
		},
		workerpool.Config{
			Workers:    workers,
			IntakeSize: intakeSize,
			WorkerSize: workerSize,
			OutputSize: outputSize,
		},
	)
	return &Pool{inner: inner}
}

// Submit enqueues a block's crater metadata for rasterization.
func (p *Pool) Submit(key craters.BlockKey, meta craters.Metadata) error {
	return p.inner.Submit(key, Job{Key: key, Meta: meta})
}

// Drain returns all currently available rasterized results.
func (p *Pool) Drain() []workerpool.Result[craters.BlockKey, []float32] {
	return p.inner.Drain()
}

// LoadPerWorker reports each lane's current queue depth.
func (p *Pool) LoadPerWorker() []int { return p.inner.LoadPerWorker() }

// Idle reports whether every lane's queue is empty.
func (p *Pool) Idle() bool { return p.inner.Idle() }

// Shutdown drains queued work and joins all worker goroutines.
func (p *Pool) Shutdown() { p.inner.Shutdown() }
