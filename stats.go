package randpart

import "gonum.org/v1/gonum/stat"

// DensitySummary is a debug-only statistical summary of one tick's density
// values, used to spot pathological layouts (e.g. every particle piling
// into one bucket) without staring at the full snapshot.
type DensitySummary struct {
	Count  int
	Mean   float64
	StdDev float64
	Max    uint32
}

// summarizeDensity computes mean/stddev over the live particles' density
// values. It's only ever called when debug logging is enabled, since it
// walks the whole store and allocates a scratch float64 slice.
func summarizeDensity(store *Store) DensitySummary {
	values := make([]float64, 0, store.Len())
	for i := 0; i < store.Len(); i++ {
		if store.Alive(i) {
			values = append(values, float64(store.Density[i]))
		}
	}
	if len(values) == 0 {
		return DensitySummary{Max: store.MaxDensity}
	}
	mean, stddev := stat.MeanStdDev(values, nil)
	return DensitySummary{
		Count:  len(values),
		Mean:   mean,
		StdDev: stddev,
		Max:    store.MaxDensity,
	}
}
