package state

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/rotblauer/catspots/conceptual"
	"github.com/rotblauer/catspots/params"
)

// Cats lists the cats with a state db under root, sorted by id.
func Cats(root string) ([]conceptual.CatID, error) {
	if root == "" {
		root = params.DefaultDatadirRoot
	}
	entries, err := os.ReadDir(filepath.Join(root, params.CatsDir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []conceptual.CatID
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, params.CatsDir, e.Name(), params.CatStateDBName)); err != nil {
			continue
		}
		out = append(out, conceptual.CatID(e.Name()))
	}
	slices.Sort(out)
	return out, nil
}
