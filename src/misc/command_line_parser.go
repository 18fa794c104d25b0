package misc

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type OptionType int

const (
	INT OptionType = iota
	STRING
)

func (option_type OptionType) String() string {
	if option_type == STRING {
		return "string"
	}
	return "int"
}

type Option struct {
	option_type   OptionType
	name          string
	default_value string
	help_msg      string
}

type CommandLineParser struct {
	options      map[string]*Option
	option_names []string

	args       []string
	parameters map[string]string
}

func (this *CommandLineParser) Init() {
	this.options = make(map[string]*Option)
	this.option_names = make([]string, 0)

	this.args = make([]string, 0)
	this.parameters = make(map[string]string)

	this.AddOption(STRING, "help", "", "print this help message")
}

func (this *CommandLineParser) AddOption(
	option_type OptionType,
	name string,
	default_value string,
	help_msg string,
) {
	if _, found := this.options[name]; found {
		panic(errors.Errorf("option %s is already added", name))
	}

	this.options[name] = &Option{
		option_type:   option_type,
		name:          name,
		default_value: default_value,
		help_msg:      help_msg,
	}
	this.option_names = append(this.option_names, name)
}

// Parse reads "--name value" pairs. args[0] is the program name. "--help"
// takes no value.
func (this *CommandLineParser) Parse(args []string) error {
	this.args = append(this.args[:0], args...)

	for i := 1; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			return errors.Errorf("unexpected argument %q", arg)
		}

		name := strings.TrimPrefix(arg, "--")
		option, found := this.options[name]
		if !found {
			return errors.Errorf("unknown option --%s", name)
		}

		if name == "help" {
			this.parameters[name] = "1"
			continue
		}

		if i+1 >= len(args) {
			return errors.Errorf("option --%s expects a value", name)
		}
		i++

		if err := this.setParameter(option, args[i]); err != nil {
			return err
		}
	}
	return nil
}

// SetDefault fills an option that was not given on the command line.
func (this *CommandLineParser) SetDefault(name string, value string) error {
	option, found := this.options[name]
	if !found {
		return errors.Errorf("unknown option %s", name)
	}
	if this.IsArgSet(name) {
		return nil
	}
	return this.setParameter(option, value)
}

func (this *CommandLineParser) setParameter(option *Option, value string) error {
	if option.option_type == INT {
		if _, err := strconv.ParseInt(value, 10, 64); err != nil {
			return errors.Wrapf(err, "option --%s expects an int", option.name)
		}
	}
	this.parameters[option.name] = value
	return nil
}

func (this *CommandLineParser) HasOption(name string) bool {
	_, found := this.options[name]
	return found
}

func (this *CommandLineParser) IsArgSet(name string) bool {
	_, found := this.parameters[name]
	return found
}

func (this *CommandLineParser) IntParameter(name string) int64 {
	option := this.option(name, INT)

	value := option.default_value
	if parameter, found := this.parameters[name]; found {
		value = parameter
	}

	int_value, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		panic(errors.Wrapf(err, "default of option %s", name))
	}
	return int_value
}

func (this *CommandLineParser) StringParameter(name string) string {
	option := this.option(name, STRING)

	if parameter, found := this.parameters[name]; found {
		return parameter
	}
	return option.default_value
}

func (this *CommandLineParser) option(name string, option_type OptionType) *Option {
	option, found := this.options[name]
	if !found {
		panic(errors.Errorf("option %s is not added", name))
	}
	if option.option_type != option_type {
		panic(errors.Errorf("option %s is a %s option", name, option.option_type))
	}
	return option
}

func (this *CommandLineParser) StringifyHelpMsgs() string {
	var builder strings.Builder
	builder.WriteString("usage: maeriCompiler [--option value]...\n")
	for _, name := range this.option_names {
		option := this.options[name]
		builder.WriteString("  --" + name)
		if name != "help" {
			builder.WriteString(" <" + option.option_type.String() + ">")
		}
		builder.WriteString("\n      " + option.help_msg)
		if option.default_value != "" {
			builder.WriteString(" (default: " + option.default_value + ")")
		}
		builder.WriteString("\n")
	}
	return builder.String()
}

func (this *CommandLineParser) StringifyArgs() string {
	return strings.Join(this.args, " ")
}

// StringifyOptions lists every option with its effective value, sorted by
// name.
func (this *CommandLineParser) StringifyOptions() string {
	names := make([]string, 0, len(this.option_names))
	for _, name := range this.option_names {
		if name != "help" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		value := this.options[name].default_value
		if parameter, found := this.parameters[name]; found {
			value = parameter
		}
		lines = append(lines, name+": "+value)
	}
	return strings.Join(lines, "\n")
}
