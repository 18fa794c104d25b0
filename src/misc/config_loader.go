package misc

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type ConfigLoader struct{}

type runtimeConfig struct {
	numMultSwitches int
	vnSize          int
	vnNum           int
	nonUniform      bool
	vnSizesFilepath string
	layerFilepath   string
	binDirpath      string
	flatDump        bool
}

var globalConfig = runtimeConfig{
	numMultSwitches: 64,
	vnSize:          4,
	vnNum:           16,
	binDirpath:      "bin",
}

// LoadConfigFile reads a YAML mapping of option names to values and applies
// every entry whose option was not given on the command line.
func LoadConfigFile(parser *CommandLineParser, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config %s", path)
	}

	values := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &values); err != nil {
		return errors.Wrapf(err, "parse config %s", path)
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !parser.HasOption(name) {
			return errors.Errorf("config %s: unknown option %s", path, name)
		}
		if err := parser.SetDefault(name, stringifyConfigValue(values[name])); err != nil {
			return errors.Wrapf(err, "config %s", path)
		}
	}
	return nil
}

func stringifyConfigValue(value interface{}) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case bool:
		if typed {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprint(typed)
	}
}

func ConfigureRuntime(parser *CommandLineParser) {
	if parser == nil {
		return
	}

	globalConfig.numMultSwitches = int(parser.IntParameter("num_mult_switches"))
	globalConfig.vnSize = int(parser.IntParameter("vn_size"))
	globalConfig.vnNum = int(parser.IntParameter("vn_num"))
	globalConfig.nonUniform = parser.IntParameter("non_uniform") != 0
	globalConfig.vnSizesFilepath = resolvePath(parser.StringParameter("vn_sizes_filepath"))
	globalConfig.layerFilepath = resolvePath(parser.StringParameter("layer_filepath"))
	globalConfig.binDirpath = resolvePath(parser.StringParameter("bin_dirpath"))
	globalConfig.flatDump = parser.IntParameter("flat_dump") != 0

	SetRuntimeVerbosity(int(parser.IntParameter("verbose")))
	SetRuntimeVNPolicy(SelectVNPolicy(globalConfig.vnSize, globalConfig.nonUniform))
}

func (this *ConfigLoader) Init() {}

func (this *ConfigLoader) NumMultSwitches() int {
	return globalConfig.numMultSwitches
}

func (this *ConfigLoader) VNSize() int {
	return globalConfig.vnSize
}

func (this *ConfigLoader) VNNum() int {
	return globalConfig.vnNum
}

func (this *ConfigLoader) NonUniform() bool {
	return globalConfig.nonUniform
}

func (this *ConfigLoader) VNSizesFilepath() string {
	return globalConfig.vnSizesFilepath
}

func (this *ConfigLoader) LayerFilepath() string {
	return globalConfig.layerFilepath
}

func (this *ConfigLoader) BinDirpath() string {
	return globalConfig.binDirpath
}

func (this *ConfigLoader) FlatDump() bool {
	return globalConfig.flatDump
}

func resolvePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
