package simulation

// Scenario randomness is derived with splitmix64 so that scenario i's stream
// depends only on the master seed and i, never on which worker ran it or in
// what order. This is what makes results bit-identical regardless of worker
// count or partitioning.

const goldenGamma = 0x9E3779B97F4A7C15

func splitmix64(x uint64) uint64 {
	x += goldenGamma
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}

// scenarioSeed derives the seed for scenario i from the master seed.
func scenarioSeed(master int64, i int) int64 {
	return int64(splitmix64(uint64(master) + uint64(i)*goldenGamma))
}
