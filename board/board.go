// Package board models a single state of the clearing puzzle: a small grid
// of colored cells where popping a connected same-color group makes the
// cells above fall down, and the goal is to empty the grid. It detects
// groups, applies moves, and enumerates and ranks the distinct moves
// available from a state. It is purely sequential; all sharing and
// parallelism live in the solver package.
package board

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

var (
	ErrInvalidBoardLength = errors.New("serialized board has the wrong length")
	ErrInvalidMove        = errors.New("move does not address a colored cell")
)

// A Coordinate addresses one grid square. X is the column, Y the row; both
// are zero-based, and Y grows downward so the bottom row of a column is
// Y = height-1.
type Coordinate struct {
	X, Y int
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// A Board is one puzzle state: the cell grid plus the moves that produced
// it, in the order they were applied. Cells are stored column-major, so
// cell (x, y) lives at index x*height + y. The only mutating operation is
// MakeMove; everything the solver speculates on happens on a Copy.
type Board struct {
	width  int
	height int
	cells  []Cell
	moves  []Coordinate
}

// Parse builds a board from a flat string of width*height symbols in
// column-major order. The four color letters map to their colors and any
// other symbol maps to an empty square. It returns ErrInvalidBoardLength
// if the string is not exactly width*height symbols long.
func Parse(width, height int, s string) (*Board, error) {
	if len(s) != width*height {
		return nil, fmt.Errorf("%w: got %d symbols, want %d", ErrInvalidBoardLength, len(s), width*height)
	}
	b := &Board{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
	for i, r := range []byte(s) {
		b.cells[i] = CellFromSymbol(rune(r))
	}
	return b, nil
}

func (b *Board) index(x, y int) int {
	return x*b.height + y
}

func (b *Board) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

// At returns the cell at (x, y).
func (b *Board) At(x, y int) Cell {
	return b.cells[b.index(x, y)]
}

// Moves returns a copy of the move history, oldest first.
func (b *Board) Moves() []Coordinate {
	moves := make([]Coordinate, len(b.moves))
	copy(moves, b.moves)
	return moves
}

func (b *Board) MoveCount() int {
	return len(b.moves)
}

// Copy returns an independent clone sharing no mutable state with b.
func (b *Board) Copy() *Board {
	c := &Board{
		width:  b.width,
		height: b.height,
		cells:  make([]Cell, len(b.cells)),
		moves:  make([]Coordinate, len(b.moves)),
	}
	copy(c.cells, b.cells)
	copy(c.moves, b.moves)
	return c
}

// Fingerprint returns a deterministic byte encoding of the cell grid, one
// byte per cell in storage order. Two boards with identical cell contents
// produce identical fingerprints regardless of how they were reached, which
// is exactly what the solver's transposition table needs.
func (b *Board) Fingerprint() []byte {
	fp := make([]byte, len(b.cells))
	for i, c := range b.cells {
		fp[i] = byte(c)
	}
	return fp
}

// IsSolved reports whether every cell is empty.
func (b *Board) IsSolved() bool {
	for _, c := range b.cells {
		if c != Empty {
			return false
		}
	}
	return true
}

// Group flood-fills the maximal 4-connected set of cells sharing the color
// of (x, y), including (x, y) itself. Callers are expected to start from a
// colored cell; both MakeMove and DistinctMoves guarantee that.
func (b *Board) Group(x, y int) map[Coordinate]bool {
	group := map[Coordinate]bool{{X: x, Y: y}: true}
	b.growGroup(group, b.At(x, y), x, y)
	return group
}

func (b *Board) growGroup(group map[Coordinate]bool, color Cell, x, y int) {
	for _, n := range [4]Coordinate{
		{X: x - 1, Y: y},
		{X: x + 1, Y: y},
		{X: x, Y: y - 1},
		{X: x, Y: y + 1},
	} {
		if !b.inBounds(n.X, n.Y) || b.At(n.X, n.Y) != color {
			continue
		}
		if group[n] {
			continue
		}
		group[n] = true
		b.growGroup(group, color, n.X, n.Y)
	}
}

// MakeMove pops the group containing (x, y): every member cell becomes
// empty, the columns settle under gravity, and the move is appended to the
// history. It is the only way to mutate a board. Addressing an empty or
// out-of-range cell returns ErrInvalidMove.
func (b *Board) MakeMove(x, y int) error {
	if !b.inBounds(x, y) || b.At(x, y) == Empty {
		return fmt.Errorf("%w: %v", ErrInvalidMove, Coordinate{X: x, Y: y})
	}
	for coord := range b.Group(x, y) {
		b.cells[b.index(coord.X, coord.Y)] = Empty
	}
	b.applyGravity()
	b.moves = append(b.moves, Coordinate{X: x, Y: y})
	return nil
}

// applyGravity compacts each column independently: colored cells slide to
// the bottom of their column preserving relative order, and the vacated top
// fills with empty. Columns never leak into each other. Idempotent on an
// already-settled board.
func (b *Board) applyGravity() {
	for x := 0; x < b.width; x++ {
		column := b.cells[x*b.height : (x+1)*b.height]
		insertAt := b.height - 1
		for y := b.height - 1; y >= 0; y-- {
			if column[y] == Empty {
				continue
			}
			column[insertAt] = column[y]
			insertAt--
		}
		for y := insertAt; y >= 0; y-- {
			column[y] = Empty
		}
	}
}

// A ScoredMove is one distinct move: a representative coordinate of a group
// and the group's size.
type ScoredMove struct {
	Coord Coordinate
	Size  int
}

// DistinctMoves returns one entry per group on the board. Cells are scanned
// in storage order (column-major); the representative coordinate of each
// group is its first cell in that order, and the result follows the scan
// order of those representatives.
func (b *Board) DistinctMoves() []ScoredMove {
	var moves []ScoredMove
	visited := make(map[Coordinate]bool)
	for x := 0; x < b.width; x++ {
		for y := 0; y < b.height; y++ {
			if b.At(x, y) == Empty {
				continue
			}
			seed := Coordinate{X: x, Y: y}
			if visited[seed] {
				continue
			}
			group := b.Group(x, y)
			for coord := range group {
				visited[coord] = true
			}
			moves = append(moves, ScoredMove{Coord: seed, Size: len(group)})
		}
	}
	return moves
}

// groupsAfterMove counts the distinct groups remaining after playing (x, y)
// on a private copy. This is the one-ply lookahead PrioritizedMoves ranks by.
func (b *Board) groupsAfterMove(x, y int) int {
	c := b.Copy()
	if err := c.MakeMove(x, y); err != nil {
		// The coordinate came from our own group scan, so this is
		// unreachable short of a board bug.
		panic(err)
	}
	return len(c.DistinctMoves())
}

// PrioritizedMoves returns the distinct moves ordered for search: ascending
// by the number of groups left after the move, ties broken descending by
// the popped group's own size. Fewer and larger remaining groups tend to
// prune much faster, so the solver explores children in exactly this order.
func (b *Board) PrioritizedMoves() []Coordinate {
	type rankedMove struct {
		coord Coordinate
		size  int
		after int
	}
	distinct := b.DistinctMoves()
	ranked := make([]rankedMove, len(distinct))
	for i, m := range distinct {
		ranked[i] = rankedMove{
			coord: m.Coord,
			size:  m.Size,
			after: b.groupsAfterMove(m.Coord.X, m.Coord.Y),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].after != ranked[j].after {
			return ranked[i].after < ranked[j].after
		}
		return ranked[i].size > ranked[j].size
	})
	return lo.Map(ranked, func(m rankedMove, _ int) Coordinate {
		return m.coord
	})
}

// String renders the board row by row for display, bottom row last.
func (b *Board) String() string {
	var sb strings.Builder
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			sb.WriteRune(b.At(x, y).Symbol())
			if x < b.width-1 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
