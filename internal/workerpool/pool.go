// Package workerpool implements the generic bounded-queue parallel
// executor of spec.md §4.4: an intake queue, N worker lanes each with
// its own bounded input queue, an output queue, and a dispatcher that
// routes each job to the worker with the shortest input queue.
//
// Grounded on high_res_dem_gen.py's BaseWorker/BaseWorkerManager
// (get_shortest_queue_index, dispatch_jobs, sentinel-based shutdown),
// translated from OS processes + blocking multiprocessing queues to
// goroutines + buffered channels. The persistent worker-goroutine shape
// (a goroutine ranging over its own channel for the pool's entire
// lifetime) follows internal/tile/generator.go's worker-loop pattern,
// generalized from one-shot-per-zoom-level fan-out to a long-lived pool
// that survives across many Shift calls.
package workerpool

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ErrShutdown is returned by Submit once the pool has been shut down.
var ErrShutdown = errors.New("workerpool: submit after shutdown")

// Job is one unit of work: a key plus an input payload.
type Job[K comparable, I any] struct {
	Key   K
	Input I
}

// Result is one unit of output: the job's key, its output, and an error
// if the kernel failed on this job (spec §4.4 "Failure": the pool never
// crashes, failures are attached to the result envelope).
type Result[K comparable, O any] struct {
	Key   K
	Value O
	Err   error
}

// Kernel is the pure-ish operation a worker applies to its input
// payload. Implementations must tolerate concurrent invocation from
// many lanes (spec §4.4 "Isolation"); Pool gives each lane its own
// Kernel instance via the KernelFactory so implementations needing
// private mutable scratch state (e.g. a rasterizer's scratch buffers)
// can allocate it per lane, mirroring the Python's copy.copy(builder)
// per worker.
type Kernel[I, O any] interface {
	Run(input I) (O, error)
}

// KernelFactory produces one Kernel instance per worker lane, modeling
// spec.md §9's "Deep-copied kernel state": the kernel is a factory
// producing per-worker handles rather than a single shared mutable
// object.
type KernelFactory[I, O any] func() Kernel[I, O]

// Config controls queue sizing and lane count (spec §4.4's
// "configurable maxima").
type Config struct {
	Workers    int
	IntakeSize int
	WorkerSize int
	OutputSize int
}

type envelope[K comparable, I any] struct {
	job      Job[K, I]
	sentinel bool
}

type lane[K comparable, I any] struct {
	in  chan envelope[K, I]
	mu  sync.Mutex
	len int
}

func (l *lane[K, I]) length() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.len
}

// Pool is the generic dispatcher pool. K is the job key type, I the
// kernel input type, O the kernel output type.
type Pool[K comparable, I, O any] struct {
	intake chan envelope[K, I]
	output chan Result[K, O]
	lanes  []*lane[K, I]

	group *errgroup.Group

	mu       sync.Mutex
	shutdown bool
}

// New starts a pool with the given kernel factory and config. Each of
// Config.Workers lanes gets its own Kernel instance. The dispatcher and
// all worker goroutines start immediately and run until Shutdown.
func New[K comparable, I, O any](factory KernelFactory[I, O], cfg Config) *Pool[K, I, O] {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	group, _ := errgroup.WithContext(context.Background())

	p := &Pool[K, I, O]{
		intake: make(chan envelope[K, I], cfg.IntakeSize),
		output: make(chan Result[K, O], cfg.OutputSize),
		lanes:  make([]*lane[K, I], cfg.Workers),
		group:  group,
	}

	for i := 0; i < cfg.Workers; i++ {
		l := &lane[K, I]{in: make(chan envelope[K, I], cfg.WorkerSize)}
		p.lanes[i] = l
		kernel := factory()
		group.Go(func() error {
			p.runWorker(l, kernel)
			return nil
		})
	}

	group.Go(func() error {
		p.dispatch()
		return nil
	})

	return p
}

// Submit blocks if the intake queue is full; it returns once the job is
// accepted (spec §4.4: this is backpressure, not failure).
func (p *Pool[K, I, O]) Submit(key K, input I) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.shutdown {
		return ErrShutdown
	}
	p.intake <- envelope[K, I]{job: Job[K, I]{Key: key, Input: input}}
	return nil
}

// Drain returns all currently available (key, output) pairs without
// blocking for new ones (spec §4.4).
func (p *Pool[K, I, O]) Drain() []Result[K, O] {
	var out []Result[K, O]
	for {
		select {
		case r := <-p.output:
			out = append(out, r)
		default:
			return out
		}
	}
}

// LoadPerWorker reports each lane's current input-queue depth, a
// reintroduction of high_res_dem_gen.py's get_load_per_worker (see
// SPEC_FULL.md's Supplemented section).
func (p *Pool[K, I, O]) LoadPerWorker() []int {
	loads := make([]int, len(p.lanes))
	for i, l := range p.lanes {
		loads[i] = l.length()
	}
	return loads
}

// Idle reports whether every lane's input queue is currently empty, a
// reintroduction of the Python's are_workers_done/is_input_queue_empty.
func (p *Pool[K, I, O]) Idle() bool {
	for _, l := range p.lanes {
		if l.length() > 0 {
			return false
		}
	}
	return true
}

// Shutdown injects a sentinel that walks intake -> dispatcher -> every
// worker lane, causing each to exit after draining its own queue, then
// joins all workers (spec §4.4). Idempotent.
func (p *Pool[K, I, O]) Shutdown() {
	p.mu.Lock()
	if p.shutdown {
		p.mu.Unlock()
		return
	}
	p.shutdown = true
	p.intake <- envelope[K, I]{sentinel: true}
	p.mu.Unlock()

	_ = p.group.Wait()
}

// dispatch repeatedly dequeues from intake and enqueues onto the worker
// whose input queue is currently shortest, ties broken by lowest index
// (spec §4.4). It sees current, not globally-synchronized, queue
// lengths; perfect balance is not required, only best-effort.
func (p *Pool[K, I, O]) dispatch() {
	for env := range p.intake {
		if env.sentinel {
			for _, l := range p.lanes {
				l.in <- env
			}
			return
		}
		idx := p.shortestLane()
		l := p.lanes[idx]
		l.mu.Lock()
		l.len++
		l.mu.Unlock()
		l.in <- env
	}
}

func (p *Pool[K, I, O]) shortestLane() int {
	best := 0
	bestLen := p.lanes[0].length()
	for i := 1; i < len(p.lanes); i++ {
		n := p.lanes[i].length()
		if n < bestLen {
			best = i
			bestLen = n
		}
	}
	return best
}

func (p *Pool[K, I, O]) runWorker(l *lane[K, I], kernel Kernel[I, O]) {
	for env := range l.in {
		if env.sentinel {
			close(l.in)
			return
		}
		l.mu.Lock()
		l.len--
		l.mu.Unlock()
		out, err := kernel.Run(env.job.Input)
		p.output <- Result[K, O]{Key: env.job.Key, Value: out, Err: err}
	}
}
