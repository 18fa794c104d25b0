package workload

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

var (
	ErrMissingLoop = errors.New("layer is missing a loop")
	ErrInvalidLoop = errors.New("invalid loop bound or tile size")
)

// TileLoops are the loops the tile info writer emits, in order.
var TileLoops = []string{"K", "C", "R", "S", "Y", "X"}

// Loop is one dimension of the layer's loop nest.
type Loop struct {
	Name  string
	Bound int
	Tile  int
}

type Layer struct {
	Name  string
	Loops []Loop

	table map[string]Loop
}

// LoadLayer reads and parses a layer description file.
func LoadLayer(path string) (*Layer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read layer %s", path)
	}

	layer, err := ParseLayer(data)
	if err != nil {
		return nil, errors.Wrapf(err, "layer %s", path)
	}
	return layer, nil
}

// ParseLayer decodes a YAML layer description:
//
//	name: conv1
//	loops:
//	  - {name: K, bound: 64, tile: 8}
//	  ...
func ParseLayer(data []byte) (*Layer, error) {
	var layer Layer
	if err := yaml.Unmarshal(data, &layer); err != nil {
		return nil, errors.Wrap(err, "parse layer")
	}

	layer.table = make(map[string]Loop, len(layer.Loops))
	for i := range layer.Loops {
		loop := &layer.Loops[i]
		loop.Name = strings.ToUpper(strings.TrimSpace(loop.Name))
		if _, found := layer.table[loop.Name]; found {
			return nil, errors.Wrapf(ErrInvalidLoop, "loop %s given twice", loop.Name)
		}
		if loop.Bound <= 0 || loop.Tile <= 0 {
			return nil, errors.Wrapf(ErrInvalidLoop, "loop %s bound %d tile %d", loop.Name, loop.Bound, loop.Tile)
		}
		layer.table[loop.Name] = *loop
	}

	for _, name := range TileLoops {
		if _, found := layer.table[name]; !found {
			return nil, errors.Wrapf(ErrMissingLoop, "%s", name)
		}
	}

	if layer.table["Y"].Bound < layer.table["R"].Bound {
		return nil, errors.Wrapf(ErrInvalidLoop, "Y %d smaller than R %d", layer.table["Y"].Bound, layer.table["R"].Bound)
	}
	if layer.table["X"].Bound < layer.table["S"].Bound {
		return nil, errors.Wrapf(ErrInvalidLoop, "X %d smaller than S %d", layer.table["X"].Bound, layer.table["S"].Bound)
	}

	return &layer, nil
}

// FindLoop returns the loop with the given name.
func (layer *Layer) FindLoop(name string) (Loop, bool) {
	loop, found := layer.table[strings.ToUpper(name)]
	return loop, found
}

// OutputRows is the number of output rows, Y - R + 1.
func (layer *Layer) OutputRows() int {
	return layer.table["Y"].Bound - layer.table["R"].Bound + 1
}

// OutputCols is the number of output columns, X - S + 1.
func (layer *Layer) OutputCols() int {
	return layer.table["X"].Bound - layer.table["S"].Bound + 1
}

func (layer *Layer) String() string {
	parts := make([]string, 0, len(TileLoops))
	for _, name := range TileLoops {
		loop := layer.table[name]
		parts = append(parts, fmt.Sprintf("%s=%d/%d", name, loop.Bound, loop.Tile))
	}
	return fmt.Sprintf("%s [%s]", layer.Name, strings.Join(parts, " "))
}
