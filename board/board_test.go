package board

import (
	"bytes"
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"
)

const (
	testWidth  = 7
	testHeight = 9
)

func parseOrDie(t *testing.T, s string) *Board {
	t.Helper()
	b, err := Parse(testWidth, testHeight, s)
	if err != nil {
		t.Fatalf("parsing %q: %v", s, err)
	}
	return b
}

func TestParse(t *testing.T) {
	is := is.New(t)
	b := parseOrDie(t, "ooooooooopppppppppbbbbbbbbbgggggggggooooooooopppppppppbbbbbbbbb")

	expected := []Cell{Orange, Pink, Blue, Green, Orange, Pink, Blue}
	for x := 0; x < testWidth; x++ {
		for y := 0; y < testHeight; y++ {
			is.Equal(b.At(x, y), expected[x]) // column x is uniformly colored
		}
	}
	is.Equal(b.MoveCount(), 0)
}

func TestParseUnrecognizedSymbolsAreEmpty(t *testing.T) {
	is := is.New(t)
	b := parseOrDie(t, "x. ?1-Z"+strings.Repeat("o", 56))
	for y := 0; y < 7; y++ {
		is.Equal(b.At(0, y), Empty)
	}
	is.Equal(b.At(0, 7), Orange)
}

func TestParseInvalidLength(t *testing.T) {
	is := is.New(t)
	for _, s := range []string{
		"",
		"o",
		strings.Repeat("o", 62),
		strings.Repeat("o", 64),
	} {
		_, err := Parse(testWidth, testHeight, s)
		is.True(errors.Is(err, ErrInvalidBoardLength))
	}
}

func TestMakeMove(t *testing.T) {
	is := is.New(t)
	b := parseOrDie(t, strings.Repeat("opbbbbbbb", 7))

	is.NoErr(b.MakeMove(0, 1))

	// The pink row popped everywhere and the orange row fell one square.
	expectedRows := []Cell{Empty, Orange, Blue, Blue, Blue, Blue, Blue, Blue, Blue}
	for y := 0; y < testHeight; y++ {
		for x := 0; x < testWidth; x++ {
			is.Equal(b.At(x, y), expectedRows[y])
		}
	}
	is.Equal(b.Moves(), []Coordinate{{X: 0, Y: 1}})
}

func TestMakeMoveInvalid(t *testing.T) {
	is := is.New(t)
	b := parseOrDie(t, "........o"+strings.Repeat(".", 54))

	is.True(errors.Is(b.MakeMove(0, 0), ErrInvalidMove))  // empty cell
	is.True(errors.Is(b.MakeMove(-1, 0), ErrInvalidMove)) // out of range
	is.True(errors.Is(b.MakeMove(7, 0), ErrInvalidMove))
	is.True(errors.Is(b.MakeMove(0, 9), ErrInvalidMove))
	is.Equal(b.MoveCount(), 0) // failed moves leave no history
}

func sortedCoords(group map[Coordinate]bool) []Coordinate {
	coords := make([]Coordinate, 0, len(group))
	for c := range group {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].X != coords[j].X {
			return coords[i].X < coords[j].X
		}
		return coords[i].Y < coords[j].Y
	})
	return coords
}

func TestGroup(t *testing.T) {
	is := is.New(t)
	b := parseOrDie(t, "opooooooopppppppppbbbbbbbpbgggggggpgooooooooopppppppppbbbbbbbbb")

	group := b.Group(1, 1)

	is.Equal(sortedCoords(group), []Coordinate{
		{X: 0, Y: 1},
		{X: 1, Y: 0},
		{X: 1, Y: 1},
		{X: 1, Y: 2},
		{X: 1, Y: 3},
		{X: 1, Y: 4},
		{X: 1, Y: 5},
		{X: 1, Y: 6},
		{X: 1, Y: 7},
		{X: 1, Y: 8},
		{X: 2, Y: 7},
		{X: 3, Y: 7},
	})
}

func TestGroupTwoColorColumns(t *testing.T) {
	is := is.New(t)
	// Column 0 is one color; columns 1-6 form a single 54-cell group since
	// they are all 4-adjacent to each other along the rows.
	b := parseOrDie(t, "ooooooooo"+strings.Repeat("b", 54))

	for y := 0; y < testHeight; y++ {
		is.Equal(len(b.Group(0, y)), 9)
	}
	is.Equal(len(b.Group(1, 0)), 54)
	is.Equal(len(b.Group(6, 8)), 54)
}

func TestGroupSingleton(t *testing.T) {
	is := is.New(t)
	b := parseOrDie(t, "........o"+strings.Repeat(".", 54))
	is.Equal(b.Group(0, 8), map[Coordinate]bool{{X: 0, Y: 8}: true})
}

func TestMakeMoveDoesNotCollapseSideways(t *testing.T) {
	is := is.New(t)
	b := parseOrDie(t, "ooooooooo"+strings.Repeat("b", 54))

	is.NoErr(b.MakeMove(0, 4))

	// Column 0 empties; nothing slides in from the neighboring columns.
	for y := 0; y < testHeight; y++ {
		is.Equal(b.At(0, y), Empty)
	}
	for x := 1; x < testWidth; x++ {
		for y := 0; y < testHeight; y++ {
			is.Equal(b.At(x, y), Blue)
		}
	}
}

func TestCopy(t *testing.T) {
	is := is.New(t)
	original := parseOrDie(t, strings.Repeat("o", 63))
	clone := original.Copy()

	is.True(bytes.Equal(original.Fingerprint(), clone.Fingerprint()))
	is.Equal(original.Moves(), clone.Moves())

	is.NoErr(original.MakeMove(1, 1))

	is.True(!bytes.Equal(original.Fingerprint(), clone.Fingerprint()))
	is.Equal(clone.MoveCount(), 0)
}

func TestFingerprintIgnoresHistory(t *testing.T) {
	is := is.New(t)
	// Two single-group boards cleared via different cells of the group end
	// up in the same state and must fingerprint identically.
	a := parseOrDie(t, strings.Repeat("o", 63))
	b := parseOrDie(t, strings.Repeat("o", 63))
	is.NoErr(a.MakeMove(0, 0))
	is.NoErr(b.MakeMove(6, 8))

	is.True(!coordsEqual(a.Moves(), b.Moves()))
	is.True(bytes.Equal(a.Fingerprint(), b.Fingerprint()))
}

func coordsEqual(a, b []Coordinate) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestIsSolved(t *testing.T) {
	is := is.New(t)

	empty := parseOrDie(t, strings.Repeat(".", 63))
	is.True(empty.IsSolved()) // all-empty board is solved by construction

	b := parseOrDie(t, strings.Repeat("o", 63))
	is.True(!b.IsSolved())
	is.NoErr(b.MakeMove(1, 1))
	is.True(b.IsSolved())
}

func randomBoard(t *testing.T) *Board {
	t.Helper()
	symbols := []byte("opbg..")
	buf := make([]byte, testWidth*testHeight)
	for i := range buf {
		buf[i] = symbols[frand.Intn(len(symbols))]
	}
	b, err := Parse(testWidth, testHeight, string(buf))
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestGravityIdempotent(t *testing.T) {
	is := is.New(t)
	for i := 0; i < 50; i++ {
		b := randomBoard(t)
		b.applyGravity()

		// Settled: no empty cell below a colored cell in any column.
		for x := 0; x < testWidth; x++ {
			seenColor := false
			for y := 0; y < testHeight; y++ {
				if b.At(x, y) != Empty {
					seenColor = true
				} else {
					is.True(!seenColor)
				}
			}
		}

		settled := b.Fingerprint()
		b.applyGravity()
		is.True(bytes.Equal(b.Fingerprint(), settled)) // second pass is a no-op
	}
}

func TestGravityPreservesColumnOrder(t *testing.T) {
	is := is.New(t)
	// Column 0 (top to bottom): o . p . g . b . o — compacts to
	// . . . . o p g b o with the relative order intact.
	b := parseOrDie(t, "o.p.g.b.o"+strings.Repeat(".", 54))
	b.applyGravity()

	expected := []Cell{Empty, Empty, Empty, Empty, Orange, Pink, Green, Blue, Orange}
	for y := 0; y < testHeight; y++ {
		is.Equal(b.At(0, y), expected[y])
	}
}

func TestDistinctMoves(t *testing.T) {
	is := is.New(t)
	b := parseOrDie(t, "ooooooooo"+strings.Repeat("b", 54))

	moves := b.DistinctMoves()

	// One entry per group, represented by the first cell in scan order.
	is.Equal(moves, []ScoredMove{
		{Coord: Coordinate{X: 0, Y: 0}, Size: 9},
		{Coord: Coordinate{X: 1, Y: 0}, Size: 54},
	})
}

func TestPrioritizedMovesOrdering(t *testing.T) {
	is := is.New(t)
	// Column 0 holds a 7-cell orange group, a lone blue, and a lone orange;
	// column 1 is a 9-cell green group. Popping the lone blue merges the
	// two orange groups, leaving only 2 groups, so it must sort first.
	// The other three moves all leave 3 groups and fall back to the
	// descending group-size tie-break.
	b := parseOrDie(t, "ooooooobo"+"ggggggggg"+strings.Repeat(".", 45))

	is.Equal(b.PrioritizedMoves(), []Coordinate{
		{X: 0, Y: 7}, // leaves 2 groups
		{X: 1, Y: 0}, // leaves 3, size 9
		{X: 0, Y: 0}, // leaves 3, size 7
		{X: 0, Y: 8}, // leaves 3, size 1
	})
}

func TestMoveHistoryAccumulates(t *testing.T) {
	is := is.New(t)
	b := parseOrDie(t, "ooooooooopppppppppbbbbbbbbbgggggggggooooooooopppppppppbbbbbbbbb")

	is.NoErr(b.MakeMove(0, 0))
	is.NoErr(b.MakeMove(1, 3))
	is.Equal(b.Moves(), []Coordinate{{X: 0, Y: 0}, {X: 1, Y: 3}})
}

// A previously-misbehaving group/gravity interaction: this exact 16-move
// sequence must leave the board unsolved.
func TestSixteenMoveRegression(t *testing.T) {
	is := is.New(t)
	b := parseOrDie(t, "gbogbogoppbopgbogggpgbgobbpbopoobobppbpobgoggogoppogbopoppgobbb")

	moves := []Coordinate{
		{X: 3, Y: 4},
		{X: 4, Y: 3},
		{X: 5, Y: 7},
		{X: 3, Y: 6},
		{X: 4, Y: 6},
		{X: 2, Y: 6},
		{X: 2, Y: 8},
		{X: 1, Y: 7},
		{X: 0, Y: 6},
		{X: 1, Y: 6},
		{X: 0, Y: 5},
		{X: 5, Y: 8},
		{X: 0, Y: 5},
		{X: 0, Y: 8},
		{X: 0, Y: 6},
		{X: 0, Y: 8},
	}
	for _, m := range moves {
		is.NoErr(b.MakeMove(m.X, m.Y))
	}

	is.True(!b.IsSolved())
}
