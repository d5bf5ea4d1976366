package randpart

// Aggregate recomputes density for every particle whose neighborhood could
// have changed this tick, given the touched set the lifecycle stepper
// returned. It runs the sequential expansion phase, the pool-parallel
// recount phase, then the reduction phase, and returns the new global
// max density, floored at 1 (so it is 1 when no particle is alive or no
// live particle has a neighbor).
//
// Callers must not invoke Aggregate for DemoDualColorSlice: that layout
// bypasses density entirely and holds max density at 1 (see Core.Tick).
func Aggregate(touched []int, store *Store, grid *Grid, pool *Pool) uint32 {
	allTouched := expand(touched, store, grid)
	recount(allTouched, store, grid, pool)
	return reduce(store)
}

// expand is the sequential phase: it closes the touched set over the
// neighborhoods of every touched particle, caching each visited live
// particle's 3x3x3 neighborhood on AffectedArea so the parallel recount
// phase only reads bucket contents and never recomputes a neighborhood.
func expand(touched []int, store *Store, grid *Grid) []int {
	allTouched := newOrderedIntSet(len(touched) * 4)
	for _, i := range touched {
		allTouched.add(i)
	}

	for _, i := range touched {
		if store.Alive(i) {
			store.AffectedArea[i] = grid.Neighborhood(store.BucketID[i])
		}

		for _, bid := range store.AffectedArea[i] {
			// A bucket named by a stale AffectedArea (i's own former bucket,
			// if i just died) may have lost its last occupant to a Remove
			// already this tick; that's not a programmer error, just an
			// empty neighborhood.
			neighbors, ok := grid.lookupBucket(bid)
			if !ok {
				continue
			}
			for _, n := range neighbors {
				if allTouched.has(n) || !store.Alive(n) {
					continue
				}
				store.AffectedArea[n] = grid.Neighborhood(store.BucketID[n])
				allTouched.add(n)
			}
		}

		if !store.Alive(i) {
			store.AffectedArea[i] = nil
		}
	}

	return allTouched.slice()
}

// recount is the pool-parallel phase: each worker owns a disjoint
// contiguous slice of allTouched (by position in that slice, which implies
// disjoint particle slots since each slot appears at most once), reads
// positions/liveness/affected areas, and writes only its own Density
// entries.
func recount(allTouched []int, store *Store, grid *Grid, pool *Pool) {
	if len(allTouched) == 0 {
		return
	}
	pool.Run(len(allTouched), func(begin, end int) {
		for _, i := range allTouched[begin:end] {
			store.Density[i] = 0
			if !store.Alive(i) {
				continue
			}
			pi := store.Pos[i]
			for _, bid := range store.AffectedArea[i] {
				neighbors, ok := grid.lookupBucket(bid)
				if !ok {
					continue
				}
				for _, n := range neighbors {
					if n == i || !store.Alive(n) {
						continue
					}
					if pi.Sub(store.Pos[n]).LenSqr() < DensityThresholdSq {
						store.Density[i]++
					}
				}
			}
		}
	})
}

// reduce scans every live particle (not just the touched ones) for the new
// normalization maximum, floored at 1. The scan is O(capacity) but cheap,
// and it avoids a stale max when the previously-maximal particle wasn't
// touched this tick.
func reduce(store *Store) uint32 {
	var max uint32 = 1
	for i := 0; i < store.Len(); i++ {
		if !store.Alive(i) {
			continue
		}
		if store.Density[i] > max {
			max = store.Density[i]
		}
	}
	store.MaxDensity = max
	return max
}
