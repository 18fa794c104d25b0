package misc

import (
	"os"
	"strings"

	"github.com/pkg/errors"
)

type CommandLineValidator struct {
	command_line_parser *CommandLineParser
}

func (this *CommandLineValidator) Init(command_line_parser *CommandLineParser) {
	this.command_line_parser = command_line_parser
}

// Validate checks the option values that do not depend on the tree. Placement
// limits are left to the compiler, which knows the tree geometry.
func (this *CommandLineValidator) Validate() error {
	num_mult_switches := this.command_line_parser.IntParameter("num_mult_switches")
	if num_mult_switches < 2 {
		return errors.New("num_mult_switches < 2")
	}
	if num_mult_switches&(num_mult_switches-1) != 0 {
		return errors.Errorf("num_mult_switches %d is not a power of two", num_mult_switches)
	}

	non_uniform := this.command_line_parser.IntParameter("non_uniform")
	if non_uniform != 0 && non_uniform != 1 {
		return errors.Errorf("non_uniform %d is not 0 or 1", non_uniform)
	}

	if non_uniform == 0 {
		if this.command_line_parser.IntParameter("vn_size") <= 0 {
			return errors.New("vn_size <= 0")
		}

		if this.command_line_parser.IntParameter("vn_num") < 0 {
			return errors.New("vn_num < 0")
		}
	} else {
		vn_sizes_filepath := strings.TrimSpace(this.command_line_parser.StringParameter("vn_sizes_filepath"))
		if vn_sizes_filepath == "" {
			return errors.New("non_uniform needs vn_sizes_filepath")
		}
		if _, err := os.Stat(vn_sizes_filepath); os.IsNotExist(err) {
			return errors.Errorf("vn_sizes_filepath %s does not exist", vn_sizes_filepath)
		}
	}

	layer_filepath := strings.TrimSpace(this.command_line_parser.StringParameter("layer_filepath"))
	if layer_filepath != "" {
		if _, err := os.Stat(layer_filepath); os.IsNotExist(err) {
			return errors.Errorf("layer_filepath %s does not exist", layer_filepath)
		}
	}

	flat_dump := this.command_line_parser.IntParameter("flat_dump")
	if flat_dump != 0 && flat_dump != 1 {
		return errors.Errorf("flat_dump %d is not 0 or 1", flat_dump)
	}

	if this.command_line_parser.IntParameter("verbose") < 0 {
		return errors.New("verbose < 0")
	}

	if strings.TrimSpace(this.command_line_parser.StringParameter("bin_dirpath")) == "" {
		return errors.New("bin_dirpath is empty")
	}

	return nil
}
