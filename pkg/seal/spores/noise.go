package spores

import "math"

// noise2D is a deterministic hash-lattice value noise function.
//
// Lattice corner values come from an integer hash of (ix, iy, seed) and are
// blended with smoothstep interpolation, so output depends only on the
// coordinates and seed — no tables, no package state, no platform variance
// beyond standard IEEE arithmetic.
type noise2D struct {
	seed uint64
}

func newNoise2D(seed uint64) *noise2D {
	return &noise2D{seed: seed}
}

// At samples the noise field at (x, y), returning a value in [0, 1).
// Two octaves give the field enough structure to break up radial banding
// without reading as static.
func (n *noise2D) At(x, y float64) float64 {
	v := 0.65*n.octave(x, y) + 0.35*n.octave(x*2.7+31.7, y*2.7-17.3)
	if v >= 1 {
		v = math.Nextafter(1, 0)
	}
	return v
}

// octave samples one interpolated lattice layer.
func (n *noise2D) octave(x, y float64) float64 {
	ix, iy := math.Floor(x), math.Floor(y)
	fx, fy := x-ix, y-iy

	x0, y0 := int64(ix), int64(iy)

	v00 := n.corner(x0, y0)
	v10 := n.corner(x0+1, y0)
	v01 := n.corner(x0, y0+1)
	v11 := n.corner(x0+1, y0+1)

	sx, sy := smoothstep(fx), smoothstep(fy)

	top := v00 + (v10-v00)*sx
	bottom := v01 + (v11-v01)*sx
	return top + (bottom-top)*sy
}

// corner hashes a lattice point to a float in [0, 1).
func (n *noise2D) corner(x, y int64) float64 {
	h := mix64(uint64(x)*0x9e3779b97f4a7c15 ^ uint64(y)*0xc2b2ae3d27d4eb4f ^ n.seed)
	return float64(h>>11) / float64(1<<53)
}

// mix64 is a splitmix64-style avalanche function.
func mix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// smoothstep is the cubic easing 3t^2 - 2t^3.
func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}
