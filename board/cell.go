package board

// A Cell is the contents of a single grid square. The zero value is an
// empty square.
type Cell uint8

const (
	Empty Cell = iota
	Orange
	Pink
	Blue
	Green
)

// CellFromSymbol maps a serialized board symbol to a cell. Any symbol that
// is not one of the four color letters means an empty square.
func CellFromSymbol(r rune) Cell {
	switch r {
	case 'o':
		return Orange
	case 'p':
		return Pink
	case 'b':
		return Blue
	case 'g':
		return Green
	}
	return Empty
}

func (c Cell) Symbol() rune {
	switch c {
	case Orange:
		return 'o'
	case Pink:
		return 'p'
	case Blue:
		return 'b'
	case Green:
		return 'g'
	}
	return '_'
}

func (c Cell) String() string {
	return string(c.Symbol())
}
