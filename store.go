package randpart

import "github.com/go-gl/mathgl/mgl32"

// Store holds the fixed-length SoA state for every particle slot: the
// render-visible fields (Pos, Density, TimeToDeath) and the private fields
// lifecycle/density use to avoid re-querying the grid (BucketID,
// AffectedArea). Direct mutation is confined to the lifecycle stepper and
// the density aggregator; everything else should treat it read-only.
type Store struct {
	Pos         []mgl32.Vec3
	Density     []uint32
	TimeToDeath []float32

	BucketID     []BucketID
	AffectedArea [][]BucketID

	MaxDensity uint32
}

// NewStore allocates a store of the given capacity with every slot dead,
// satisfying invariant 2 of §3 from the start.
func NewStore(capacity int) *Store {
	s := &Store{
		Pos:          make([]mgl32.Vec3, capacity),
		Density:      make([]uint32, capacity),
		TimeToDeath:  make([]float32, capacity),
		BucketID:     make([]BucketID, capacity),
		AffectedArea: make([][]BucketID, capacity),
		MaxDensity:   1,
	}
	for i := range s.BucketID {
		s.BucketID[i] = NoBucket
	}
	return s
}

// Len returns the store's fixed capacity.
func (s *Store) Len() int { return len(s.Pos) }

// Alive reports whether slot i currently holds a live particle.
func (s *Store) Alive(i int) bool { return s.TimeToDeath[i] > 0 }

// Kill resets slot i to the dead state required by invariant 2: no bucket,
// no affected area, zero density, zero time-to-death. It does not touch the
// grid; callers remove the grid entry themselves, since that requires the
// bucket id the store cached.
func (s *Store) Kill(i int) {
	s.BucketID[i] = NoBucket
	s.AffectedArea[i] = nil
	s.Density[i] = 0
	s.TimeToDeath[i] = 0
}

// resetAll clears every slot to dead. Used by SetLayout on a layout switch.
func (s *Store) resetAll() {
	for i := range s.Pos {
		s.Kill(i)
		s.Pos[i] = mgl32.Vec3{}
	}
	s.MaxDensity = 1
}
