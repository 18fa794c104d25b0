package vmh

import (
	"io"
	"maeriCompiler/src/isa"
	"maeriCompiler/src/misc"
	"maeriCompiler/src/reduction"
	"strings"

	"github.com/pkg/errors"
)

const (
	sgrsEntriesPerLine = 8
	dbrsEntriesPerLine = 4
)

// WriteSGRSConfig dumps every SGRS in storage order, eight 4-bit entries per
// line. Each entry is mode, generate_output and a pad bit; later entries
// take the high bits of the line.
func WriteSGRSConfig(writer io.Writer, tree *reduction.Tree) error {
	entries := make([]string, 0)
	for _, level := range tree.Singles {
		for _, sgrs := range level {
			entries = append(entries, isa.EncodeSGRS(sgrs.Mode)+isa.EncodeFlag(sgrs.GenerateOutput)+isa.SGRSPadding)
		}
	}

	lines, err := packFlat(entries, sgrsEntriesPerLine)
	if err != nil {
		return errors.Wrap(err, "pack SGRS config")
	}
	return writeLines(writer, ConfigHeader, lines)
}

// WriteDBRSConfig dumps every DBRS in storage order, four 8-bit entries per
// line: Left mode, Right mode, both flags and two pad bits.
func WriteDBRSConfig(writer io.Writer, tree *reduction.Tree) error {
	entries := make([]string, 0)
	for _, level := range tree.Doubles {
		for _, dbrs := range level {
			entries = append(entries, isa.EncodeDBRS(dbrs.ModeLeft)+isa.EncodeDBRS(dbrs.ModeRight)+
				isa.EncodeFlag(dbrs.GenerateOutputLeft)+isa.EncodeFlag(dbrs.GenerateOutputRight)+isa.DBRSPadding)
		}
	}

	lines, err := packFlat(entries, dbrsEntriesPerLine)
	if err != nil {
		return errors.Wrap(err, "pack DBRS config")
	}
	return writeLines(writer, ConfigHeader, lines)
}

// packFlat prepends each entry to the current line and left-pads a short
// final line.
func packFlat(entries []string, perLine int) ([]string, error) {
	lines := make([]string, 0)
	line := ""
	count := 0

	for _, entry := range entries {
		line = entry + line
		count++
		if count == perLine {
			hex, err := misc.BinaryToHex(line)
			if err != nil {
				return nil, err
			}
			lines = append(lines, hex)
			line = ""
			count = 0
		}
	}

	if line != "" {
		hex, err := misc.BinaryToHex(strings.Repeat("0", isa.LineWidth-len(line)) + line)
		if err != nil {
			return nil, err
		}
		lines = append(lines, hex)
	}
	return lines, nil
}
