package halo

import (
	"runtime"
	"sync"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// particle is a kdtree.Comparable carrying its snapshot index as payload.
type particle struct {
	x, y, z float64
	idx     int
}

func (p particle) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(particle)
	switch d {
	case 0:
		return p.x - q.x
	case 1:
		return p.y - q.y
	default:
		return p.z - q.z
	}
}

func (p particle) Dims() int { return 3 }

// Distance is the squared Euclidean distance, matching the squared radius
// handed to the DistKeeper.
func (p particle) Distance(c kdtree.Comparable) float64 {
	q := c.(particle)
	dx, dy, dz := p.x-q.x, p.y-q.y, p.z-q.z
	return dx*dx + dy*dy + dz*dz
}

type particles []particle

func (p particles) Index(i int) kdtree.Comparable { return p[i] }
func (p particles) Len() int                      { return len(p) }
func (p particles) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}
func (p particles) Pivot(d kdtree.Dim) int {
	return plane{Dim: d, particles: p}.Pivot()
}

type plane struct {
	kdtree.Dim
	particles
}

func (p plane) Less(i, j int) bool {
	switch p.Dim {
	case 0:
		return p.particles[i].x < p.particles[j].x
	case 1:
		return p.particles[i].y < p.particles[j].y
	default:
		return p.particles[i].z < p.particles[j].z
	}
}
func (p plane) Pivot() int {
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.particles = p.particles[start:end]
	return p
}
func (p plane) Swap(i, j int) {
	p.particles[i], p.particles[j] = p.particles[j], p.particles[i]
}

// ParticleTree answers fixed-radius neighbor queries over particle
// positions.
type ParticleTree struct {
	tree *kdtree.Tree
}

// NewParticleTree builds a KD-tree over the positions. The positions are
// copied; the tree does not alias the input.
func NewParticleTree(pos [][3]float64) *ParticleTree {
	ps := make(particles, len(pos))
	for i, x := range pos {
		ps[i] = particle{x[0], x[1], x[2], i}
	}
	return &ParticleTree{tree: kdtree.New(ps, true)}
}

// WithinRadius returns the indices of the particles within r of center, in
// no particular order.
func (t *ParticleTree) WithinRadius(center [3]float64, r float64) []int {
	keeper := kdtree.NewDistKeeper(r * r)
	t.tree.NearestSet(keeper, particle{center[0], center[1], center[2], -1})

	idx := []int{}
	for _, c := range keeper.Heap {
		if c.Comparable == nil {
			continue
		}
		idx = append(idx, c.Comparable.(particle).idx)
	}
	return idx
}

// QueryHalos runs WithinRadius for every (center, radius) pair across a
// pool of workers. workers <= 0 uses GOMAXPROCS.
func (t *ParticleTree) QueryHalos(
	centers [][3]float64, radii []float64, workers int,
) [][]int {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([][]int, len(centers))
	jobs := make(chan int, len(centers))
	wg := &sync.WaitGroup{}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = t.WithinRadius(centers[i], radii[i])
			}
		}()
	}

	for i := range centers {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return out
}
