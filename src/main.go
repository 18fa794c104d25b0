package main

import (
	"fmt"
	"maeriCompiler/src/compiler"
	"maeriCompiler/src/misc"
	"os"
	"path/filepath"
	"strings"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "[maeri] error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	command_line_parser := InitCommandLineParser()
	if err := command_line_parser.Parse(args); err != nil {
		return err
	}

	if command_line_parser.IsArgSet("help") {
		fmt.Printf("%s", command_line_parser.StringifyHelpMsgs())
		return nil
	}

	config_filepath := strings.TrimSpace(command_line_parser.StringParameter("config_filepath"))
	if config_filepath != "" {
		if err := misc.LoadConfigFile(command_line_parser, config_filepath); err != nil {
			return err
		}
	}

	command_line_validator := new(misc.CommandLineValidator)
	command_line_validator.Init(command_line_parser)
	if err := command_line_validator.Validate(); err != nil {
		return err
	}

	misc.ConfigureRuntime(command_line_parser)

	compiler_ := new(compiler.Compiler)
	if err := compiler_.Init(); err != nil {
		return err
	}
	if err := compiler_.Compile(); err != nil {
		return err
	}

	bin_dirpath := command_line_parser.StringParameter("bin_dirpath")
	args_filepath := filepath.Join(bin_dirpath, "args.txt")
	options_filepath := filepath.Join(bin_dirpath, "options.txt")

	args_file_dumper := new(misc.FileDumper)
	args_file_dumper.Init(args_filepath)
	if err := args_file_dumper.WriteLines([]string{command_line_parser.StringifyArgs()}); err != nil {
		return err
	}

	options_file_dumper := new(misc.FileDumper)
	options_file_dumper.Init(options_filepath)
	if err := options_file_dumper.WriteLines([]string{command_line_parser.StringifyOptions()}); err != nil {
		return err
	}

	misc.Logf(0, "reduction network configuration written to %s", bin_dirpath)
	return nil
}

func InitCommandLineParser() *misc.CommandLineParser {
	command_line_parser := new(misc.CommandLineParser)
	command_line_parser.Init()

	// level 0: stage progress only
	// level 1: level 0 + per-level adder activity and written files
	// level 2: level 1 + every switch reached by the configuration walk
	command_line_parser.AddOption(misc.INT, "verbose", "0", "verbosity of the compiler")

	command_line_parser.AddOption(
		misc.INT,
		"num_mult_switches",
		"64",
		"number of multiplier switches (power of two)",
	)
	command_line_parser.AddOption(misc.INT, "vn_size", "4", "number of multipliers per VN")
	command_line_parser.AddOption(misc.INT, "vn_num", "16", "number of VNs to map")
	command_line_parser.AddOption(
		misc.INT,
		"non_uniform",
		"0",
		"map VNs of different sizes read from vn_sizes_filepath (1=yes, 0=no)",
	)
	command_line_parser.AddOption(
		misc.STRING,
		"vn_sizes_filepath",
		"",
		"whitespace separated VN sizes for the non-uniform mapping",
	)

	command_line_parser.AddOption(
		misc.STRING,
		"layer_filepath",
		"",
		"YAML layer description for Layer_Info.vmh (optional)",
	)
	command_line_parser.AddOption(
		misc.STRING,
		"config_filepath",
		"",
		"YAML file supplying options not given on the command line (optional)",
	)

	command_line_parser.AddOption(
		misc.INT,
		"flat_dump",
		"0",
		"also write storage-ordered RN_SGRS.vmh and RN_DBRS.vmh (1=yes, 0=no)",
	)

	command_line_parser.AddOption(misc.STRING, "bin_dirpath", "bin", "path to the output directory")

	return command_line_parser
}
