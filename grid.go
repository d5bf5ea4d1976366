package randpart

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// BucketID packs a (x,y,z) grid coordinate, each in [0,N), into 24 bits:
// x<<16 | y<<8 | z. NoBucket is the sentinel for "no current bucket".
type BucketID uint32

const NoBucket BucketID = math.MaxUint32

func packBucket(x, y, z int) BucketID {
	return BucketID(x)<<16 | BucketID(y)<<8 | BucketID(z)
}

func unpackBucket(id BucketID) (x, y, z int) {
	return int(id >> 16 & 0xFF), int(id >> 8 & 0xFF), int(id & 0xFF)
}

// Grid is a sparse uniform-grid spatial index over the cubic region
// [min,max]^3, divided into N intervals per axis. It stores only external
// slot indices; lifetime of those slots belongs entirely to the Store.
type Grid struct {
	n        int
	min, max float32
	buckets  map[BucketID][]int
}

// NewGrid builds a grid with n intervals per axis over [min,max]^3.
func NewGrid(n int, min, max float32) *Grid {
	if n < 1 {
		n = 1
	}
	return &Grid{
		n:       n,
		min:     min,
		max:     max,
		buckets: make(map[BucketID][]int),
	}
}

// Clear empties every bucket without reallocating the top-level map.
func (g *Grid) Clear() {
	for k := range g.buckets {
		delete(g.buckets, k)
	}
}

// BucketOf computes the bucket a position falls into, clamping norm==1 to
// N-1 rather than truncating it to the out-of-range index N.
func (g *Grid) BucketOf(pos mgl32.Vec3) (BucketID, error) {
	span := g.max - g.min
	coord := func(v float32) (int, error) {
		if v < g.min || v > g.max {
			return 0, fatalf(KindOutOfBounds, "Grid.BucketOf", "value %f outside [%f,%f]", v, g.min, g.max)
		}
		norm := (v - g.min) / span
		k := int(float32(g.n) * norm)
		if k >= g.n {
			k = g.n - 1
		}
		return k, nil
	}
	x, err := coord(pos.X())
	if err != nil {
		return 0, err
	}
	y, err := coord(pos.Y())
	if err != nil {
		return 0, err
	}
	z, err := coord(pos.Z())
	if err != nil {
		return 0, err
	}
	return packBucket(x, y, z), nil
}

// Add inserts idx into the bucket pos maps to and returns that bucket id.
func (g *Grid) Add(pos mgl32.Vec3, idx int) (BucketID, error) {
	id, err := g.BucketOf(pos)
	if err != nil {
		return 0, err
	}
	g.buckets[id] = append(g.buckets[id], idx)
	return id, nil
}

// Remove deletes idx from the given bucket. The bucket is addressed
// directly (not recomputed from a current position) because the caller is
// expected to have cached the bucket id from the matching Add: recomputing
// from pos would be wrong if pos changed since insertion.
func (g *Grid) Remove(bucketID BucketID, idx int) error {
	slice, ok := g.buckets[bucketID]
	if !ok {
		return fatalf(KindNotFound, "Grid.Remove", "bucket %d has no entries", bucketID)
	}
	for i, v := range slice {
		if v == idx {
			slice[i] = slice[len(slice)-1]
			slice = slice[:len(slice)-1]
			if len(slice) == 0 {
				delete(g.buckets, bucketID)
			} else {
				g.buckets[bucketID] = slice
			}
			return nil
		}
	}
	return fatalf(KindNotFound, "Grid.Remove", "idx %d not present in bucket %d", idx, bucketID)
}

// Bucket is a read-only view of a bucket's external indices. It fails if the
// bucket currently holds no entries.
func (g *Grid) Bucket(id BucketID) ([]int, error) {
	slice, ok := g.buckets[id]
	if !ok {
		return nil, fatalf(KindNotFound, "Grid.Bucket", "bucket %d has no entries", id)
	}
	return slice, nil
}

// lookupBucket is Bucket without the fatal-on-absent behavior: a bucket a
// cached AffectedArea still names can legitimately have emptied out since
// it was cached (its last occupant died and was removed). Mirrors
// spp.cpp's get_neighbors, which does m_buckets.find(bix) and treats a miss
// as "no occupants" rather than an error.
func (g *Grid) lookupBucket(id BucketID) ([]int, bool) {
	slice, ok := g.buckets[id]
	return slice, ok
}

// Neighborhood returns the up-to-27 existing buckets in the 3x3x3
// neighborhood of bucketID, in deterministic lexicographic offset order.
func (g *Grid) Neighborhood(bucketID BucketID) []BucketID {
	x, y, z := unpackBucket(bucketID)
	out := make([]BucketID, 0, 27)
	for dx := -1; dx <= 1; dx++ {
		nx := x + dx
		if nx < 0 || nx >= g.n {
			continue
		}
		for dy := -1; dy <= 1; dy++ {
			ny := y + dy
			if ny < 0 || ny >= g.n {
				continue
			}
			for dz := -1; dz <= 1; dz++ {
				nz := z + dz
				if nz < 0 || nz >= g.n {
					continue
				}
				id := packBucket(nx, ny, nz)
				if _, ok := g.buckets[id]; ok {
					out = append(out, id)
				}
			}
		}
	}
	return out
}
