package misc

import (
	"bytes"
	"testing"
)

func TestLogfRespectsVerbosity(t *testing.T) {
	var buffer bytes.Buffer
	previous := SetLogOutput(&buffer)
	defer SetLogOutput(previous)

	SetRuntimeVerbosity(1)
	defer SetRuntimeVerbosity(0)

	Logf(0, "stage %s", "assign")
	Logf(1, "level %d", 2)
	Logf(2, "switch %d", 5)

	expected := "[maeri] stage assign\n[maeri] level 2\n"
	if buffer.String() != expected {
		t.Fatalf("expected %q, got %q", expected, buffer.String())
	}
}
