package randpart

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid_BucketOf_ClampsAtMax(t *testing.T) {
	g := NewGrid(IntervalsPerAxis, -1, 1)

	id, err := g.BucketOf(mgl32.Vec3{1, 1, 1})
	require.NoError(t, err)
	x, y, z := unpackBucket(id)
	assert.Equal(t, IntervalsPerAxis-1, x)
	assert.Equal(t, IntervalsPerAxis-1, y)
	assert.Equal(t, IntervalsPerAxis-1, z)
}

func TestGrid_BucketOf_OutOfBounds(t *testing.T) {
	g := NewGrid(IntervalsPerAxis, -1, 1)
	_, err := g.BucketOf(mgl32.Vec3{1.5, 0, 0})
	require.Error(t, err)
	var fe *FatalError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindOutOfBounds, fe.Kind)
}

func TestGrid_AddRemove_RoundTrip(t *testing.T) {
	g := NewGrid(IntervalsPerAxis, -1, 1)

	id, err := g.Add(mgl32.Vec3{0, 0, 0}, 42)
	require.NoError(t, err)

	bucket, err := g.Bucket(id)
	require.NoError(t, err)
	assert.Equal(t, []int{42}, bucket)

	require.NoError(t, g.Remove(id, 42))

	_, err = g.Bucket(id)
	require.Error(t, err)
}

func TestGrid_Remove_NotFoundIsFatal(t *testing.T) {
	g := NewGrid(IntervalsPerAxis, -1, 1)
	err := g.Remove(packBucket(0, 0, 0), 1)
	require.Error(t, err)
	var fe *FatalError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindNotFound, fe.Kind)
}

func TestGrid_Neighborhood_OnlyExistingBuckets(t *testing.T) {
	g := NewGrid(IntervalsPerAxis, -1, 1)

	idA, err := g.Add(mgl32.Vec3{0, 0, 0}, 1)
	require.NoError(t, err)
	idB, err := g.Add(mgl32.Vec3{0.04, 0, 0}, 2)
	require.NoError(t, err)

	neighborhood := g.Neighborhood(idA)
	assert.Contains(t, neighborhood, idB)
}

func TestGrid_Neighborhood_CornerHasAtMostEight(t *testing.T) {
	g := NewGrid(IntervalsPerAxis, -1, 1)

	// Populate every bucket in [0,2)^3 around the corner (0,0,0).
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			for z := 0; z < 2; z++ {
				g.buckets[packBucket(x, y, z)] = []int{x*4 + y*2 + z}
			}
		}
	}

	neighborhood := g.Neighborhood(packBucket(0, 0, 0))
	assert.LessOrEqual(t, len(neighborhood), 8)
}

func TestGrid_Clear(t *testing.T) {
	g := NewGrid(IntervalsPerAxis, -1, 1)
	id, err := g.Add(mgl32.Vec3{0, 0, 0}, 1)
	require.NoError(t, err)

	g.Clear()

	_, err = g.Bucket(id)
	require.Error(t, err)
}
