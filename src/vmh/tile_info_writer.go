package vmh

import (
	"io"
	"maeriCompiler/src/misc"
	"maeriCompiler/src/workload"
)

const TileInfoHeader = "@00"

// WriteTileInfo writes Layer_Info.vmh. Each loop takes two lines, bound|tile
// and remainder|count of full tiles; Y and X count output rows and columns
// on the second line.
func WriteTileInfo(writer io.Writer, layer *workload.Layer, numMultSwitches int, vnSize int, numMappedVNs int) error {
	lines := make([]string, 0, 2*len(workload.TileLoops)+2)

	for _, name := range workload.TileLoops {
		loop, _ := layer.FindLoop(name)

		extent := loop.Bound
		switch name {
		case "Y":
			extent = layer.OutputRows()
		case "X":
			extent = layer.OutputCols()
		}

		lines = append(lines, misc.IntToHex(loop.Bound, 4)+misc.IntToHex(loop.Tile, 4))
		lines = append(lines, misc.IntToHex(extent%loop.Tile, 4)+misc.IntToHex(extent/loop.Tile, 4))
	}

	lines = append(lines, misc.IntToHex(numMultSwitches, 4)+misc.IntToHex(numMappedVNs, 4))
	lines = append(lines, misc.IntToHex(vnSize, 8))

	return writeLines(writer, TileInfoHeader, lines)
}
