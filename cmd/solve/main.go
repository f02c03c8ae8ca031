package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kvistgaard/samegame/board"
	"github.com/kvistgaard/samegame/config"
	"github.com/kvistgaard/samegame/puzzle"
	"github.com/kvistgaard/samegame/solver"
)

var (
	boardString = flag.String("board", "", "literal board string (column-major, one symbol per cell)")
	puzzleName  = flag.String("puzzle", "weekly", "catalog puzzle to solve when -board is not given")
	catalogPath = flag.String("catalog", "", "path to an additional YAML puzzle catalog")
	maxDepth    = flag.Int("depth", 0, "override the maximum search depth")
	profilePath = flag.String("profilepath", "", "path for profile")
)

func main() {
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if *maxDepth > 0 {
		cfg.MaxDepth = *maxDepth
	}

	if *profilePath != "" {
		f, err := os.Create(*profilePath)
		if err != nil {
			log.Fatal().Err(err).Msg("")
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	serialized := *boardString
	if serialized == "" {
		catalog := puzzle.Builtin()
		if *catalogPath != "" {
			catalog, err = puzzle.LoadCatalog(*catalogPath)
			if err != nil {
				log.Fatal().Err(err).Msg("loading catalog")
			}
		}
		p, ok := catalog.Get(*puzzleName)
		if !ok {
			log.Fatal().Str("puzzle", *puzzleName).Msg("puzzle not in catalog")
		}
		serialized = p.Board
	}

	b, err := board.Parse(cfg.BoardWidth, cfg.BoardHeight, serialized)
	if err != nil {
		log.Fatal().Err(err).Msg("parsing board")
	}
	fmt.Print(b)

	s := solver.New(cfg)
	solution, err := s.Solve(context.Background(), b)
	if err != nil {
		log.Fatal().Err(err).Msg("solving")
	}
	if solution == nil {
		fmt.Printf("no solution within %d moves\n", cfg.MaxDepth)
		os.Exit(1)
	}
	fmt.Printf("solved in %d moves:\n", len(solution))
	for i, m := range solution {
		fmt.Printf("%2d. %v\n", i+1, m)
	}
}
