// Package puzzle keeps a small catalog of named boards: a built-in set
// used by the shell and the tests, plus optional user catalogs loaded from
// YAML files.
package puzzle

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Puzzle struct {
	Name  string `yaml:"name"`
	Board string `yaml:"board"`
	Notes string `yaml:"notes,omitempty"`
}

type Catalog struct {
	Puzzles []Puzzle `yaml:"puzzles"`
}

// Builtin returns the boards that ship with the solver.
func Builtin() *Catalog {
	return &Catalog{Puzzles: []Puzzle{
		{
			Name:  "weekly",
			Board: "ogbbbobbgpogogobobpobooooggooopgbppbgoobbooggbpoppgogbpbopobppb",
			Notes: "four-color board solvable within the default depth",
		},
		{
			Name:  "checkerboard",
			Board: "obobobobooboboboboobobobobooboboboboobobobobooboboboboobobobobo",
			Notes: "alternating two-color board, clears in 5 moves",
		},
	}}
}

// LoadCatalog reads a YAML catalog from disk and appends it to the
// built-in puzzles. Later entries shadow earlier ones of the same name.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	loaded := &Catalog{}
	if err := yaml.Unmarshal(raw, loaded); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	catalog := Builtin()
	catalog.Puzzles = append(catalog.Puzzles, loaded.Puzzles...)
	return catalog, nil
}

// Get returns the last puzzle registered under the given name.
func (c *Catalog) Get(name string) (Puzzle, bool) {
	for i := len(c.Puzzles) - 1; i >= 0; i-- {
		if c.Puzzles[i].Name == name {
			return c.Puzzles[i], true
		}
	}
	return Puzzle{}, false
}

// Names lists the catalog's puzzle names in registration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Puzzles))
	for i, p := range c.Puzzles {
		names[i] = p.Name
	}
	return names
}
