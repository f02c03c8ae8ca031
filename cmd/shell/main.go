package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kvistgaard/samegame/config"
	"github.com/kvistgaard/samegame/puzzle"
	"github.com/kvistgaard/samegame/shell"
)

var catalogPath = flag.String("catalog", "", "path to an additional YAML puzzle catalog")

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

	catalog := puzzle.Builtin()
	if *catalogPath != "" {
		catalog, err = puzzle.LoadCatalog(*catalogPath)
		if err != nil {
			log.Fatal().Err(err).Msg("loading catalog")
		}
	}

	sc := shell.NewShellController(cfg, catalog)
	sc.Loop()
}
