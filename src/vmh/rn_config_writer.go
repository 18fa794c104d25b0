package vmh

import (
	"fmt"
	"io"
	"maeriCompiler/src/isa"
	"maeriCompiler/src/misc"
	"maeriCompiler/src/reduction"
	"strings"

	"github.com/pkg/errors"
)

const ConfigHeader = "@000"

// Entry is one switch, or one DBRS half, reached by the structural walk.
type Entry struct {
	ID       int
	Location reduction.Location
	Flag     bool
	Opcode   string
	Links    []reduction.InputLink
}

// Bits is the generate_output flag followed by the opcode.
func (entry Entry) Bits() string {
	return isa.EncodeFlag(entry.Flag) + entry.Opcode
}

func (entry Entry) String() string {
	location := entry.Location
	name := fmt.Sprintf("%s[%d][%d]", location.Kind, location.Level, location.Index)
	if location.Kind == reduction.KindDouble {
		name += "." + location.Half.String()
	}

	links := make([]string, 0, len(entry.Links))
	for _, link := range entry.Links {
		links = append(links, link.String())
	}
	return fmt.Sprintf("id %d: %s opcode=%s gen=%t in=[%s]",
		entry.ID, name, entry.Opcode, entry.Flag, strings.Join(links, " "))
}

// Traverse walks the configured tree depth first from the root with an
// explicit stack, left child first. Ids missing from the inorder map end
// their branch.
func Traverse(tree *reduction.Tree) []Entry {
	entries := make([]Entry, 0, tree.NumAdderSwitches)
	visited := make(map[int]bool)

	stack := []int{tree.RootID()}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}

		location, ok := tree.Resolve(id)
		if !ok {
			continue
		}
		visited[id] = true

		entry := describe(tree, id, location)
		entries = append(entries, entry)

		for i := len(entry.Links) - 1; i >= 0; i-- {
			if child, ok := entry.Links[i].ChildID(); ok {
				stack = append(stack, child)
			}
		}
	}
	return entries
}

// describe builds the entry of a resolved id. A DBRS half also walks the
// ports it borrows from the other half.
func describe(tree *reduction.Tree, id int, location reduction.Location) Entry {
	entry := Entry{ID: id, Location: location}

	if location.Kind == reduction.KindSingle {
		sgrs := tree.Singles[location.Level][location.Index]
		entry.Flag = sgrs.GenerateOutput
		entry.Opcode = isa.EncodeSGRS(sgrs.Mode)
		entry.Links = []reduction.InputLink{sgrs.InputLinks[0], sgrs.InputLinks[1]}
		return entry
	}

	dbrs := tree.Doubles[location.Level][location.Index]
	half := location.Half
	entry.Flag = dbrs.GenerateOutput(half)
	entry.Opcode = isa.EncodeDBRS(dbrs.Mode(half))

	for _, port := range dbrs.InputPorts(half) {
		entry.Links = append(entry.Links, dbrs.InputLinks[port])
	}
	return entry
}

// PackLines concatenates the entry bits, MSB first, and cuts them into
// 32-bit hex lines. The last line is padded with zeros on the right.
func PackLines(entries []Entry) ([]string, error) {
	lines := make([]string, 0)

	var buffer strings.Builder
	flush := func(bits string) error {
		hex, err := misc.BinaryToHex(bits)
		if err != nil {
			return err
		}
		lines = append(lines, hex)
		return nil
	}

	for _, entry := range entries {
		buffer.WriteString(entry.Bits())
		if buffer.Len() >= isa.LineWidth {
			bits := buffer.String()
			if err := flush(bits[:isa.LineWidth]); err != nil {
				return nil, err
			}
			buffer.Reset()
			buffer.WriteString(bits[isa.LineWidth:])
		}
	}

	if buffer.Len() > 0 {
		bits := buffer.String() + strings.Repeat("0", isa.LineWidth-buffer.Len())
		if err := flush(bits); err != nil {
			return nil, err
		}
	}
	return lines, nil
}

// WriteVNConfig writes RN_Config.vmh: the header and the packed walk.
func WriteVNConfig(writer io.Writer, tree *reduction.Tree) error {
	lines, err := PackLines(Traverse(tree))
	if err != nil {
		return errors.Wrap(err, "pack RN config")
	}
	return writeLines(writer, ConfigHeader, lines)
}

// WriteSwitchListing writes one line per recorded inorder id, ascending.
func WriteSwitchListing(writer io.Writer, tree *reduction.Tree) error {
	lines := make([]string, 0, tree.NumAdderSwitches)
	for id := 0; id < tree.NumAdderSwitches; id++ {
		location, ok := tree.Resolve(id)
		if !ok {
			continue
		}
		lines = append(lines, describe(tree, id, location).String())
	}
	return writeLines(writer, "", lines)
}

func writeLines(writer io.Writer, header string, lines []string) error {
	if header != "" {
		if _, err := fmt.Fprintln(writer, header); err != nil {
			return errors.Wrap(err, "write header")
		}
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(writer, line); err != nil {
			return errors.Wrap(err, "write line")
		}
	}
	return nil
}
