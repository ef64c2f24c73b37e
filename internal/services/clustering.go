package services

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"supply-chain-optimizer/internal/domain"
	"supply-chain-optimizer/internal/geo"

	"golang.org/x/sync/errgroup"
)

// ClusterOptions tunes ClusterLocations. Zero values select the defaults.
type ClusterOptions struct {
	// Seed drives k-means++ seeding. Equal seeds give equal assignments;
	// 0 selects the default seed 42.
	Seed uint64
	// Restarts is the number of independently seeded runs; the run with the
	// lowest inertia wins, ties going to the earlier run.
	Restarts int
	// MaxIter caps Lloyd iterations per run.
	MaxIter int
	// Tolerance is the centroid movement below which a run has converged.
	Tolerance float64
	// Workers bounds how many restarts run at once.
	Workers int
}

const (
	defaultClusterSeed      = 42
	defaultClusterRestarts  = 4
	defaultClusterMaxIter   = 300
	defaultClusterTolerance = 1e-4
	defaultClusterWorkers   = 4
)

func (o ClusterOptions) withDefaults() ClusterOptions {
	if o.Seed == 0 {
		o.Seed = defaultClusterSeed
	}
	if o.Restarts <= 0 {
		o.Restarts = defaultClusterRestarts
	}
	if o.MaxIter <= 0 {
		o.MaxIter = defaultClusterMaxIter
	}
	if o.Tolerance <= 0 {
		o.Tolerance = defaultClusterTolerance
	}
	if o.Workers <= 0 {
		o.Workers = defaultClusterWorkers
	}
	return o
}

// ClusterLocations partitions locations into k groups with Lloyd's algorithm,
// minimising within-cluster squared Euclidean distance. Each restart seeds
// its centroids with k-means++ from a PCG stream derived from opts.Seed and
// the restart index, so the result is reproducible regardless of how the
// restarts are scheduled.
func ClusterLocations(
	ctx context.Context,
	locations []domain.Location,
	k int,
	opts ClusterOptions,
) (*domain.ClusterAssignment, error) {
	if len(locations) == 0 {
		return nil, fmt.Errorf("cluster locations: locations must not be empty: %w", domain.ErrInvalidParameter)
	}
	if k < 1 || k > len(locations) {
		return nil, fmt.Errorf(
			"cluster locations: k=%d must be within [1, %d]: %w",
			k, len(locations), domain.ErrInvalidParameter,
		)
	}
	for i, l := range locations {
		if err := l.Coordinate.Validate(); err != nil {
			return nil, fmt.Errorf("cluster locations: location %d: %w", i, err)
		}
	}
	opts = opts.withDefaults()
	points := domain.Coordinates(locations)

	runs := make([]*domain.ClusterAssignment, opts.Restarts)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for r := range opts.Restarts {
		g.Go(func() error {
			rng := rand.New(rand.NewPCG(opts.Seed, uint64(r)))
			run, err := lloyd(gctx, points, k, rng, opts)
			if err != nil {
				return err
			}
			runs[r] = run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("cluster locations: %w", err)
	}

	best := runs[0]
	for _, run := range runs[1:] {
		if run.Inertia < best.Inertia {
			best = run
		}
	}
	return best, nil
}

func lloyd(
	ctx context.Context,
	points []domain.Coordinate,
	k int,
	rng *rand.Rand,
	opts ClusterOptions,
) (*domain.ClusterAssignment, error) {
	centroids := seedCentroids(points, k, rng)
	labels := make([]int, len(points))
	tolSq := opts.Tolerance * opts.Tolerance

	iter, converged := 0, false
	for iter < opts.MaxIter {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		iter++

		assign(points, centroids, labels)
		next := recompute(points, labels, centroids)

		converged = true
		for j := range centroids {
			if geo.SquaredEuclidean(next[j], centroids[j]) > tolSq {
				converged = false
			}
		}
		centroids = next
		if converged {
			break
		}
	}

	inertia := assign(points, centroids, labels)
	sizes := make([]int, k)
	members := make([][]int, k)
	for i, l := range labels {
		sizes[l]++
		members[l] = append(members[l], i)
	}

	return &domain.ClusterAssignment{
		Labels:     labels,
		Centroids:  centroids,
		Sizes:      sizes,
		Members:    members,
		Inertia:    inertia,
		Iterations: iter,
		Converged:  converged,
	}, nil
}

// seedCentroids picks k starting centroids with k-means++: the first
// uniformly, each next one with probability proportional to its squared
// distance from the closest centroid chosen so far.
func seedCentroids(points []domain.Coordinate, k int, rng *rand.Rand) []domain.Coordinate {
	n := len(points)
	chosen := make([]bool, n)
	centroids := make([]domain.Coordinate, 0, k)

	first := rng.IntN(n)
	chosen[first] = true
	centroids = append(centroids, points[first])

	distSq := make([]float64, n)
	for len(centroids) < k {
		var total float64
		for i, p := range points {
			d := math.MaxFloat64
			for _, c := range centroids {
				d = min(d, geo.SquaredEuclidean(p, c))
			}
			distSq[i] = d
			total += d
		}

		next := -1
		if total > 0 {
			target := rng.Float64() * total
			var cum float64
			for i, d := range distSq {
				if d == 0 {
					continue
				}
				next = i
				cum += d
				if cum >= target {
					break
				}
			}
		} else {
			// Every remaining point coincides with a centroid.
			for i := range points {
				if !chosen[i] {
					next = i
					break
				}
			}
		}

		chosen[next] = true
		centroids = append(centroids, points[next])
	}
	return centroids
}

// assign labels every point with its nearest centroid (lowest index on ties)
// and returns the total squared distance.
func assign(points []domain.Coordinate, centroids []domain.Coordinate, labels []int) float64 {
	var inertia float64
	for i, p := range points {
		best, bestD := 0, math.MaxFloat64
		for j, c := range centroids {
			if d := geo.SquaredEuclidean(p, c); d < bestD {
				best, bestD = j, d
			}
		}
		labels[i] = best
		inertia += bestD
	}
	return inertia
}

// recompute returns the mean of each cluster. Empty clusters keep their
// previous centroid.
func recompute(points []domain.Coordinate, labels []int, prev []domain.Coordinate) []domain.Coordinate {
	k := len(prev)
	sums := make([]domain.Coordinate, k)
	counts := make([]int, k)
	for i, p := range points {
		l := labels[i]
		sums[l].Lat += p.Lat
		sums[l].Lon += p.Lon
		counts[l]++
	}

	next := make([]domain.Coordinate, k)
	for j := range next {
		if counts[j] == 0 {
			next[j] = prev[j]
			continue
		}
		inv := 1 / float64(counts[j])
		next[j] = domain.Coordinate{Lat: sums[j].Lat * inv, Lon: sums[j].Lon * inv}
	}
	return next
}
