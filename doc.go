// Package randpart implements the density-shaded particle cloud core: a
// uniform-grid spatial index, a batched birth/death lifecycle, and a
// pool-parallel density aggregator. The GPU draw path, windowing, camera
// math and process entry point live outside this package; see cmd/demo for
// a minimal host that wires them up.
package randpart
