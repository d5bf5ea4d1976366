package randpart

import "math/rand"

// Lifecycle is the per-tick batch stepper (C4): it owns the cyclic batch
// cursor and the paused flag, and is the only thing allowed to spawn or
// kill particles.
type Lifecycle struct {
	cursor int
	paused bool
	rng    *rand.Rand

	// wrapped is set by Tick whenever advancing the cursor brought it back
	// to 0, i.e. every slot has now been visited at least once since the
	// last layout reset. Core uses it to implement stop_after_initial_load.
	wrapped bool
}

// NewLifecycle seeds a stepper with its own RNG. The stepper runs
// single-threaded, so the RNG needs no synchronization.
func NewLifecycle(seed int64) *Lifecycle {
	return &Lifecycle{rng: rand.New(rand.NewSource(seed))}
}

func (lc *Lifecycle) Paused() bool     { return lc.paused }
func (lc *Lifecycle) SetPaused(p bool) { lc.paused = p }
func (lc *Lifecycle) TogglePaused()    { lc.paused = !lc.paused }

// Reset returns the cursor to the start of a fresh cycle, used on layout
// switch.
func (lc *Lifecycle) Reset() {
	lc.cursor = 0
	lc.wrapped = false
}

// Wrapped reports whether the most recent Tick call wrapped the batch
// cursor back to 0.
func (lc *Lifecycle) Wrapped() bool { return lc.wrapped }

// Tick advances one batch worth of slots: ages and kills live particles,
// and rolls the dice to spawn dead ones. It returns the ordered set of
// slots whose liveness changed this tick.
func (lc *Lifecycle) Tick(dt float32, store *Store, grid *Grid, layout Layout) []int {
	lc.wrapped = false
	if lc.paused {
		return nil
	}

	n := store.Len()
	if n == 0 {
		return nil
	}

	numBatches := (n + BatchSize - 1) / BatchSize
	begin := lc.cursor * BatchSize
	end := begin + BatchSize
	if end > n {
		end = n
	}
	dtAmplified := dt * float32(lc.cursor+1)

	lc.cursor = (lc.cursor + 1) % numBatches
	if lc.cursor == 0 {
		lc.wrapped = true
	}

	touched := newOrderedIntSet(end - begin)
	for i := begin; i < end; i++ {
		if store.Alive(i) {
			store.TimeToDeath[i] -= dtAmplified
			if store.TimeToDeath[i] <= 0 {
				mustNoErr(grid.Remove(store.BucketID[i], i))
				// Deliberately leave AffectedArea as-is: the density
				// aggregator's expansion phase still needs it to notify
				// this particle's former neighbors, and clears it itself
				// once it has.
				store.BucketID[i] = NoBucket
				store.Density[i] = 0
				store.TimeToDeath[i] = 0
				touched.add(i)
			}
			continue
		}

		if lc.rng.Float32() >= SpawnProb {
			continue
		}

		store.Pos[i] = Sample(layout, lc.rng)
		store.TimeToDeath[i] = TotalLifeMS * lc.rng.Float32()
		store.Density[i] = 0

		bucketID, err := grid.Add(store.Pos[i], i)
		mustNoErr(err)
		store.BucketID[i] = bucketID
		touched.add(i)
	}

	return touched.slice()
}
