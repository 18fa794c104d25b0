package isa

import (
	"maeriCompiler/src/reduction"

	"github.com/pkg/errors"
)

// Widths of the packed RN_Config stream.
const (
	LineWidth   = 32
	OpcodeWidth = 2
	EntryWidth  = 1 + OpcodeWidth
)

var ErrUnknownOpcode = errors.New("unknown opcode")

// Padding fills out fixed-width entries in the flat dumps.
const (
	SGRSPadding = "0"
	DBRSPadding = "00"
)

var sgrsOpcodes = map[reduction.SGRSMode]string{
	reduction.SGRSIdle:      "00",
	reduction.SGRSAddTwo:    "01",
	reduction.SGRSFlowLeft:  "10",
	reduction.SGRSFlowRight: "11",
}

var dbrsOpcodes = map[reduction.DBRSMode]string{
	reduction.DBRSIdle:     "00",
	reduction.DBRSAddOne:   "01",
	reduction.DBRSAddTwo:   "10",
	reduction.DBRSAddThree: "11",
}

func EncodeSGRS(mode reduction.SGRSMode) string {
	return sgrsOpcodes[mode]
}

func EncodeDBRS(mode reduction.DBRSMode) string {
	return dbrsOpcodes[mode]
}

func DecodeSGRS(opcode string) (reduction.SGRSMode, error) {
	for mode, bits := range sgrsOpcodes {
		if bits == opcode {
			return mode, nil
		}
	}
	return reduction.SGRSIdle, errors.Wrapf(ErrUnknownOpcode, "SGRS %q", opcode)
}

func DecodeDBRS(opcode string) (reduction.DBRSMode, error) {
	for mode, bits := range dbrsOpcodes {
		if bits == opcode {
			return mode, nil
		}
	}
	return reduction.DBRSIdle, errors.Wrapf(ErrUnknownOpcode, "DBRS %q", opcode)
}

// EncodeFlag renders a generate_output bit.
func EncodeFlag(flag bool) string {
	if flag {
		return "1"
	}
	return "0"
}
