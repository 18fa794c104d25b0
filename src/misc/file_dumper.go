package misc

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

type FileDumper struct {
	path string
}

func (this *FileDumper) Init(path string) {
	this.path = path
}

func (this *FileDumper) Path() string {
	return this.path
}

// WriteLines replaces the file with the lines, each terminated by a newline.
func (this *FileDumper) WriteLines(lines []string) error {
	var builder strings.Builder
	for _, line := range lines {
		builder.WriteString(line)
		builder.WriteString("\n")
	}
	return this.WriteBytes([]byte(builder.String()))
}

func (this *FileDumper) WriteBytes(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(this.path), 0o755); err != nil {
		return errors.Wrapf(err, "create directory of %s", this.path)
	}
	if err := os.WriteFile(this.path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", this.path)
	}
	return nil
}
