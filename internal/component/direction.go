package component

// Direction is the discrete facing derived from a movement step.
type Direction uint8

const (
	DirNone Direction = iota
	DirN
	DirNE
	DirE
	DirSE
	DirS
	DirSW
	DirW
	DirNW
)

var directionNames = [...]string{"none", "n", "ne", "e", "se", "s", "sw", "w", "nw"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "invalid"
}

// DirectionOf classifies a step vector by the signs of its axes alone.
// i grows east, j grows south. The zero vector has no direction.
func DirectionOf(di, dj float64) Direction {
	switch {
	case di == 0 && dj < 0:
		return DirN
	case di == 0 && dj > 0:
		return DirS
	case di < 0 && dj == 0:
		return DirW
	case di > 0 && dj == 0:
		return DirE
	case di < 0 && dj < 0:
		return DirNW
	case di > 0 && dj < 0:
		return DirNE
	case di < 0 && dj > 0:
		return DirSW
	case di > 0 && dj > 0:
		return DirSE
	}
	return DirNone
}
