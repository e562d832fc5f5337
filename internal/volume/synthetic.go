package volume

import (
	"math"
	randv2 "math/rand/v2"
)

// maxSyntheticValue is the 12-bit ceiling typical for MR intensity data.
const maxSyntheticValue = 4095

// Synthetic generates a deterministic phantom volume for demo mode and
// tests: a bright ellipsoid core with radial falloff plus layered noise,
// seeded so the same (extents, seed) pair always yields identical samples.
// Spacing is 1mm isotropic.
func Synthetic(nx, ny, nz int, seed uint64) (*Volume, error) {
	rng := randv2.New(randv2.NewPCG(seed, seed))

	cx, cy, cz := float64(nx)/2, float64(ny)/2, float64(nz)/2
	maxDist := math.Sqrt(cx*cx + cy*cy + cz*cz)

	data := make([]int32, nx*ny*nz)
	idx := 0
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				dx := float64(i) - cx
				dy := float64(j) - cy
				dz := float64(k) - cz
				dist := math.Sqrt(dx*dx+dy*dy+dz*dz) / maxDist

				base := (1.0 - dist) * maxSyntheticValue * 0.7

				largeNoise := (rng.Float64() - 0.5) * maxSyntheticValue * 0.2
				fineNoise := (rng.Float64() - 0.5) * maxSyntheticValue * 0.05

				value := math.Max(0, math.Min(maxSyntheticValue, base+largeNoise+fineNoise))
				data[idx] = int32(value)
				idx++
			}
		}
	}

	return New(data, nx, ny, nz, [3]float64{1, 1, 1})
}
