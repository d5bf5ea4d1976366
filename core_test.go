package randpart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ZeroCapacityIsFatal(t *testing.T) {
	_, err := New(0, RandomCartesianCube, false)
	require.Error(t, err)
	var fe *FatalError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindCapacityExhausted, fe.Kind)
}

func TestNew_NeverTickedSnapshotIsAllZero(t *testing.T) {
	c, err := New(8, RandomCartesianCube, false)
	require.NoError(t, err)
	defer c.Close()

	positions, densities, ttds, maxDensity := c.Snapshot()
	assert.Equal(t, uint32(1), maxDensity)
	for i := range positions {
		assert.Zero(t, densities[i])
		assert.Zero(t, ttds[i])
	}
}

func TestCore_SetLayoutSameValueIsNoop(t *testing.T) {
	c, err := New(8, RandomCartesianCube, false)
	require.NoError(t, err)
	defer c.Close()

	for i := 0; i < 10; i++ {
		require.NoError(t, c.Tick(16))
	}
	_, _, before, _ := c.Snapshot()
	aliveBefore := 0
	for _, ttd := range before {
		if ttd > 0 {
			aliveBefore++
		}
	}
	require.Greater(t, aliveBefore, 0)

	c.SetLayout(RandomCartesianCube)

	_, _, after, _ := c.Snapshot()
	aliveAfter := 0
	for _, ttd := range after {
		if ttd > 0 {
			aliveAfter++
		}
	}
	assert.Equal(t, aliveBefore, aliveAfter)
}

func TestCore_SetLayoutDifferentValueResetsState(t *testing.T) {
	c, err := New(8, RandomCartesianCube, false)
	require.NoError(t, err)
	defer c.Close()

	for i := 0; i < 20; i++ {
		require.NoError(t, c.Tick(500))
	}

	c.SetLayout(RandomSphericalLatitude)

	positions, densities, ttds, maxDensity := c.Snapshot()
	assert.Equal(t, uint32(1), maxDensity)
	for i := range positions {
		assert.Zero(t, densities[i])
		assert.Zero(t, ttds[i])
	}

	for i := 0; i < 50; i++ {
		require.NoError(t, c.Tick(2000))
	}
	positions, _, ttds, _ = c.Snapshot()
	for i, ttd := range ttds {
		if ttd <= 0 {
			continue
		}
		length := float64(positions[i].Len())
		assert.Lessf(t, math.Abs(length-1), 1e-4, "particle %d", i)
	}
}

func TestCore_TogglePausedTwiceRestoresState(t *testing.T) {
	c, err := New(8, RandomCartesianCube, false)
	require.NoError(t, err)
	defer c.Close()

	initial := c.Paused()
	c.TogglePaused()
	c.TogglePaused()
	assert.Equal(t, initial, c.Paused())
}

func TestCore_DualColorDemoNeverComputesDensity(t *testing.T) {
	c, err := New(64, DemoDualColorSlice, false)
	require.NoError(t, err)
	defer c.Close()

	for i := 0; i < 50; i++ {
		require.NoError(t, c.Tick(500))
	}

	_, densities, _, maxDensity := c.Snapshot()
	assert.Equal(t, uint32(1), maxDensity)
	for _, d := range densities {
		assert.Zero(t, d)
	}
}

func TestCore_StopAfterInitialLoadPausesOnWrap(t *testing.T) {
	capacity := BatchSize + 1
	c, err := New(capacity, RandomCartesianCube, true)
	require.NoError(t, err)
	defer c.Close()

	numBatches := (capacity + BatchSize - 1) / BatchSize
	for i := 0; i < numBatches-1; i++ {
		require.NoError(t, c.Tick(16))
		assert.False(t, c.Paused())
	}
	require.NoError(t, c.Tick(16))
	assert.True(t, c.Paused())
}

func TestCore_FullSimulationMaintainsDensityInvariant(t *testing.T) {
	c, err := New(400, RandomCartesianCube, false)
	require.NoError(t, err)
	defer c.Close()

	for i := 0; i < 30; i++ {
		require.NoError(t, c.Tick(300))
	}

	positions, densities, ttds, maxDensity := c.Snapshot()
	maxSeen := uint32(1)
	anyLive := false
	for i := range positions {
		if ttds[i] <= 0 {
			continue
		}
		anyLive = true
		want := uint32(0)
		for j := range positions {
			if i == j || ttds[j] <= 0 {
				continue
			}
			if positions[i].Sub(positions[j]).LenSqr() < DensityThresholdSq {
				want++
			}
		}
		assert.Equalf(t, want, densities[i], "particle %d", i)
		if densities[i] > maxSeen {
			maxSeen = densities[i]
		}
	}
	if anyLive {
		assert.Equal(t, maxSeen, maxDensity)
	} else {
		assert.Equal(t, uint32(1), maxDensity)
	}
}
