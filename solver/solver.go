// Package solver finds a minimal-length clearing sequence for a puzzle
// board. It runs a branch-and-bound depth-first search: the first layer of
// moves fans out to parallel goroutines, each of which explores its subtree
// sequentially on private board copies. Two shared structures keep the
// branches honest with each other: a transposition table that skips states
// already reached in fewer moves, and an atomic bound holding the best
// complete solution length found so far.
package solver

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/kvistgaard/samegame/board"
	"github.com/kvistgaard/samegame/config"
)

type Solver struct {
	maxDepth int
	best     *Bound
	ttable   *TranspositionTable
	nodes    atomic.Uint64
}

// New returns a solver with a clean transposition table and the bound at
// its sentinel. Instances are single-use per Solve in spirit: reusing one
// keeps the previous run's table and bound, which is only what you want
// when re-solving the same board.
func New(cfg *config.Config) *Solver {
	return &Solver{
		maxDepth: cfg.MaxDepth,
		best:     NewBound(cfg.InitialBound),
		ttable:   NewTranspositionTable(cfg.TableMemFraction),
	}
}

// Solve searches for the shortest sequence of moves that empties the given
// board, to a maximum of maxDepth moves. It returns nil if no branch found
// a complete solution within that depth; that is a normal result, not an
// error. Errors are reserved for context cancellation and contract
// violations inside the search.
func (s *Solver) Solve(ctx context.Context, b *board.Board) ([]board.Coordinate, error) {
	tstart := time.Now()
	s.nodes.Store(0)

	rootMoves := b.PrioritizedMoves()
	log.Debug().Int("root-moves", len(rootMoves)).Int("max-depth", s.maxDepth).Msg("solve-start")

	// One task per first-level move; the runtime schedules them onto its
	// worker pool. Below the root each task recurses sequentially.
	solutions := make([][]board.Coordinate, len(rootMoves))
	g := errgroup.Group{}
	for i, m := range rootMoves {
		i, m := i, m
		g.Go(func() error {
			clone := b.Copy()
			if err := clone.MakeMove(m.X, m.Y); err != nil {
				return fmt.Errorf("root move %v: %w", m, err)
			}
			solution, err := s.search(ctx, clone)
			if err != nil {
				return err
			}
			solutions[i] = solution
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	found := lo.Filter(solutions, func(sol []board.Coordinate, _ int) bool {
		return sol != nil
	})
	log.Info().
		Uint64("nodes", s.nodes.Load()).
		Uint64("ttable-lookups", s.ttable.lookups.Load()).
		Uint64("ttable-hits", s.ttable.hits.Load()).
		Uint64("ttable-stores", s.ttable.stores.Load()).
		Int64("ttable-entries", s.ttable.Entries()).
		Float64("time-elapsed-sec", time.Since(tstart).Seconds()).
		Int("solutions", len(found)).
		Msg("solve-returning")
	if len(found) == 0 {
		return nil, nil
	}
	return lo.MinBy(found, func(a, b []board.Coordinate) bool {
		return len(a) < len(b)
	}), nil
}

// search explores the subtree under b depth-first, returning the shortest
// full solution found in it, or nil. Every recursive call owns b
// exclusively; children are explored on fresh copies.
func (s *Solver) search(ctx context.Context, b *board.Board) ([]board.Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if b.IsSolved() {
		return b.Moves(), nil
	}

	moveCount := b.MoveCount()
	if moveCount >= s.maxDepth || moveCount >= s.best.Load() {
		// Any solution below here needs at least one more move, so it
		// cannot beat the depth budget or the best known solution.
		return nil, nil
	}
	if !s.ttable.ShouldVisit(b.Fingerprint(), moveCount) {
		return nil, nil
	}
	s.nodes.Add(1)

	var localBest []board.Coordinate
	for _, m := range b.PrioritizedMoves() {
		clone := b.Copy()
		if err := clone.MakeMove(m.X, m.Y); err != nil {
			// Candidates come from the board's own enumeration, so an
			// invalid one is a logic defect, fatal for this branch.
			return nil, fmt.Errorf("move %v at depth %d: %w", m, moveCount, err)
		}
		solution, err := s.search(ctx, clone)
		if err != nil {
			return nil, err
		}
		if solution != nil && (localBest == nil || len(solution) < len(localBest)) {
			localBest = solution
		}
	}
	if localBest == nil {
		return nil, nil
	}

	if s.best.Lower(len(localBest)) {
		log.Info().
			Int("moves", len(localBest)).
			Str("sequence", sequenceString(localBest)).
			Msg("new-best")
	}
	return localBest, nil
}

func sequenceString(moves []board.Coordinate) string {
	return strings.Join(lo.Map(moves, func(m board.Coordinate, _ int) string {
		return m.String()
	}), ", ")
}
