package craters

import "sync"

// FakeSampler is an in-memory Sampler for tests and the demo harness:
// SampleByRegion marks every block-aligned key in the region as having
// metadata (an empty crater list), so BlockExists reports true for any
// region ever sampled.
type FakeSampler struct {
	blockSize float64

	mu   sync.Mutex
	data map[BlockKey]Metadata
}

// NewFakeSampler constructs a FakeSampler for the given block size.
func NewFakeSampler(blockSize float64) *FakeSampler {
	return &FakeSampler{blockSize: blockSize, data: make(map[BlockKey]Metadata)}
}

func (s *FakeSampler) SampleByRegion(region BoundingBox) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for x := region.XMin; x <= region.XMax; x += s.blockSize {
		for y := region.YMin; y <= region.YMax; y += s.blockSize {
			key := BlockKey{X: x, Y: y}
			if _, ok := s.data[key]; !ok {
				s.data[key] = []int{}
			}
		}
	}
	return nil
}

func (s *FakeSampler) BlockExists(key BlockKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

func (s *FakeSampler) BlockData(key BlockKey) Metadata {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key]
}

// FakeBuilder is an in-memory Builder for tests: it produces a T×T
// raster whose every element is Value scaled by one plus the number of
// craters in the metadata (so an empty crater list yields Value, and
// non-trivial metadata still produces a distinguishable, deterministic
// raster).
type FakeBuilder struct {
	T     int
	Value float32
}

func (b FakeBuilder) Build(meta Metadata, key BlockKey) ([]float32, error) {
	n := 1
	if list, ok := meta.([]int); ok {
		n = len(list) + 1
	}
	out := make([]float32, b.T*b.T)
	v := b.Value * float32(n)
	for i := range out {
		out[i] = v
	}
	return out, nil
}
