// Package shell is a small readline REPL around the board and solver: load
// a board by catalog name or literal string, inspect it, and solve it.
package shell

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"

	"github.com/kvistgaard/samegame/board"
	"github.com/kvistgaard/samegame/config"
	"github.com/kvistgaard/samegame/puzzle"
	"github.com/kvistgaard/samegame/solver"
)

type ShellController struct {
	l       *readline.Instance
	cfg     *config.Config
	catalog *puzzle.Catalog

	cur     *board.Board
	curName string
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

func usage(w io.Writer) {
	showMessage(`commands:
load <name|boardstring> - load a catalog puzzle or a literal board string
show                    - print the current board
moves                   - list the current board's moves in search order
solve                   - search for a shortest clearing sequence
depth <n>               - set the maximum search depth
puzzles                 - list catalog puzzle names
exit                    - leave the shell`, w)
}

func NewShellController(cfg *config.Config, catalog *puzzle.Catalog) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31msamegame>\033[0m ",
		HistoryFile:     "/tmp/samegame_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	return &ShellController{l: l, cfg: cfg, catalog: catalog}
}

func (sc *ShellController) load(arg string) error {
	serialized := arg
	name := "(literal)"
	if p, ok := sc.catalog.Get(arg); ok {
		serialized = p.Board
		name = p.Name
	}
	b, err := board.Parse(sc.cfg.BoardWidth, sc.cfg.BoardHeight, serialized)
	if err != nil {
		return err
	}
	sc.cur = b
	sc.curName = name
	showMessage(b.String(), sc.l.Stderr())
	return nil
}

func (sc *ShellController) solve() error {
	if sc.cur == nil {
		return fmt.Errorf("no board loaded")
	}
	s := solver.New(sc.cfg)
	solution, err := s.Solve(context.Background(), sc.cur.Copy())
	if err != nil {
		return err
	}
	if solution == nil {
		showMessage(fmt.Sprintf("no solution within %d moves", sc.cfg.MaxDepth), sc.l.Stderr())
		return nil
	}
	for i, m := range solution {
		showMessage(fmt.Sprintf("%2d. %v", i+1, m), sc.l.Stderr())
	}
	return nil
}

func (sc *ShellController) execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "load":
		if len(args) != 1 {
			return fmt.Errorf("load takes one argument")
		}
		return sc.load(args[0])
	case "show":
		if sc.cur == nil {
			return fmt.Errorf("no board loaded")
		}
		showMessage(fmt.Sprintf("board %s, %d moves made", sc.curName, sc.cur.MoveCount()), sc.l.Stderr())
		showMessage(sc.cur.String(), sc.l.Stderr())
	case "moves":
		if sc.cur == nil {
			return fmt.Errorf("no board loaded")
		}
		for _, m := range sc.cur.PrioritizedMoves() {
			showMessage(m.String(), sc.l.Stderr())
		}
	case "solve":
		return sc.solve()
	case "depth":
		if len(args) != 1 {
			return fmt.Errorf("depth takes one argument")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("depth must be a positive integer")
		}
		sc.cfg.MaxDepth = n
	case "puzzles":
		for _, name := range sc.catalog.Names() {
			showMessage(name, sc.l.Stderr())
		}
	case "help":
		usage(sc.l.Stderr())
	default:
		return fmt.Errorf("unknown command %q; try help", cmd)
	}
	return nil
}

func (sc *ShellController) Loop() {
	defer sc.l.Close()
	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				break
			}
			continue
		} else if err == io.EOF {
			break
		}
		line = strings.TrimSpace(line)
		if line == "exit" || line == "quit" {
			break
		}
		if err := sc.execute(line); err != nil {
			showMessage("error: "+err.Error(), sc.l.Stderr())
		}
	}
	log.Debug().Msg("leaving shell loop")
}
