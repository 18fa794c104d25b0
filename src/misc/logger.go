package misc

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	logWriter     io.Writer = os.Stdout
	logWriterLock sync.Mutex
)

// SetLogOutput redirects Logf. It returns the previous writer.
func SetLogOutput(writer io.Writer) io.Writer {
	logWriterLock.Lock()
	defer logWriterLock.Unlock()

	previous := logWriter
	logWriter = writer
	return previous
}

// Logf prints a [maeri] line when level does not exceed the runtime
// verbosity. Level 0 always prints.
//
// level 0: progress of the compile stages
// level 1: level 0 + per-level propagation summaries
// level 2: level 1 + every switch configuration
func Logf(level int, format string, args ...interface{}) {
	if level > RuntimeVerbosity() {
		return
	}

	logWriterLock.Lock()
	defer logWriterLock.Unlock()

	fmt.Fprintf(logWriter, "[maeri] "+format+"\n", args...)
}
