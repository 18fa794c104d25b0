package vmh

import (
	"bytes"
	"maeriCompiler/src/workload"
	"strings"
	"testing"
)

const conv1 = `name: conv1
loops:
  - {name: K, bound: 64, tile: 8}
  - {name: C, bound: 3, tile: 3}
  - {name: R, bound: 3, tile: 3}
  - {name: S, bound: 3, tile: 3}
  - {name: Y, bound: 34, tile: 4}
  - {name: X, bound: 34, tile: 4}
`

func TestWriteTileInfo(t *testing.T) {
	layer, err := workload.ParseLayer([]byte(conv1))
	if err != nil {
		t.Fatalf("parse layer: %v", err)
	}

	var buffer bytes.Buffer
	if err := WriteTileInfo(&buffer, layer, 64, 4, 16); err != nil {
		t.Fatalf("write tile info: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buffer.String(), "\n"), "\n")
	if lines[0] != TileInfoHeader {
		t.Fatalf("expected header %s, got %s", TileInfoHeader, lines[0])
	}
	if len(lines)-1 != 14 {
		t.Fatalf("expected 14 lines after the header, got %d", len(lines)-1)
	}

	expected := []string{
		"00400008", "00000008",
		"00030003", "00000001",
		"00030003", "00000001",
		"00030003", "00000001",
		"00220004", "00000008",
		"00220004", "00000008",
		"00400010",
		"00000004",
	}
	for i, line := range expected {
		if lines[i+1] != line {
			t.Fatalf("line %d: expected %s, got %s", i+1, line, lines[i+1])
		}
	}
}
