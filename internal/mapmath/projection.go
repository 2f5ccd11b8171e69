package mapmath

import "math"

// IsoToCartesian projects an isometric pair onto screen-space tile units.
func IsoToCartesian(i, j float64) (x, y float64) {
	return (i - j) / 2, (i + j) / 2
}

// CartesianToIso is the inverse of IsoToCartesian.
func CartesianToIso(x, y float64) (i, j float64) {
	return x + y, y - x
}

// Snap floors a continuous map position onto its tile.
func Snap(i, j float64) (int, int) {
	return int(math.Floor(i)), int(math.Floor(j))
}
