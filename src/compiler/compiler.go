package compiler

import (
	"bytes"
	"encoding/json"
	"maeriCompiler/src/misc"
	"maeriCompiler/src/reduction"
	"maeriCompiler/src/vmh"
	"maeriCompiler/src/workload"
	"path/filepath"

	"github.com/pkg/errors"
)

// Artifact file names written to bin_dirpath.
const (
	RNConfigFilename      = "RN_Config.vmh"
	SwitchListingFilename = "RN_Switches.txt"
	SGRSConfigFilename    = "RN_SGRS.vmh"
	DBRSConfigFilename    = "RN_DBRS.vmh"
	TileInfoFilename      = "Layer_Info.vmh"
	ReportFilename        = "rn_report.json"
)

type Artifact struct {
	Name string
	Data []byte
}

type Compiler struct {
	bin_dirpath       string
	num_mult_switches int
	vn_policy         misc.VNPolicy
	vn_workload       reduction.Workload
	layer_filepath    string
	flat_dump         bool

	tree *reduction.Tree
}

// Init reads the runtime configuration set up by misc.ConfigureRuntime and
// loads the VN size list of a non-uniform workload.
func (this *Compiler) Init() error {
	config_loader := new(misc.ConfigLoader)
	config_loader.Init()

	this.bin_dirpath = config_loader.BinDirpath()
	this.num_mult_switches = config_loader.NumMultSwitches()
	this.layer_filepath = config_loader.LayerFilepath()
	this.flat_dump = config_loader.FlatDump()
	this.vn_policy = misc.RuntimeVNPolicy()

	this.vn_workload = reduction.Workload{
		VNSize:     config_loader.VNSize(),
		VNNum:      config_loader.VNNum(),
		NonUniform: this.vn_policy == misc.VNPolicyNonUniform,
	}

	if this.vn_workload.NonUniform {
		vn_sizes, err := workload.LoadVNSizes(config_loader.VNSizesFilepath())
		if err != nil {
			return err
		}
		this.vn_workload.VNSizes = vn_sizes
	}
	return nil
}

func (this *Compiler) Tree() *reduction.Tree {
	return this.tree
}

// Compile builds every artifact in memory and only then writes them, so a
// failed compile leaves bin_dirpath untouched.
func (this *Compiler) Compile() error {
	artifacts, err := this.Build()
	if err != nil {
		return err
	}

	for _, artifact := range artifacts {
		file_dumper := new(misc.FileDumper)
		file_dumper.Init(filepath.Join(this.bin_dirpath, artifact.Name))
		if err := file_dumper.WriteBytes(artifact.Data); err != nil {
			return err
		}
		misc.Logf(1, "wrote %s", file_dumper.Path())
	}
	return nil
}

func (this *Compiler) Build() ([]Artifact, error) {
	misc.Logf(0, "compiling %d multiplier switches with the %s policy", this.num_mult_switches, this.vn_policy)

	tree, err := reduction.BuildTree(this.num_mult_switches)
	if err != nil {
		return nil, err
	}
	if err := tree.Assign(this.vn_workload); err != nil {
		return nil, errors.Wrap(err, "assign VNs")
	}
	misc.Logf(0, "placed %d VNs", len(tree.VNs()))

	if err := tree.Propagate(); err != nil {
		return nil, errors.Wrap(err, "propagate")
	}
	this.tree = tree
	this.logLevels()

	artifacts := make([]Artifact, 0)
	emit := func(name string, write func(buffer *bytes.Buffer) error) error {
		var buffer bytes.Buffer
		if err := write(&buffer); err != nil {
			return errors.Wrapf(err, "emit %s", name)
		}
		artifacts = append(artifacts, Artifact{Name: name, Data: buffer.Bytes()})
		return nil
	}

	if err := emit(RNConfigFilename, func(buffer *bytes.Buffer) error {
		return vmh.WriteVNConfig(buffer, tree)
	}); err != nil {
		return nil, err
	}

	if err := emit(SwitchListingFilename, func(buffer *bytes.Buffer) error {
		return vmh.WriteSwitchListing(buffer, tree)
	}); err != nil {
		return nil, err
	}

	if this.flat_dump {
		if err := emit(SGRSConfigFilename, func(buffer *bytes.Buffer) error {
			return vmh.WriteSGRSConfig(buffer, tree)
		}); err != nil {
			return nil, err
		}
		if err := emit(DBRSConfigFilename, func(buffer *bytes.Buffer) error {
			return vmh.WriteDBRSConfig(buffer, tree)
		}); err != nil {
			return nil, err
		}
	}

	if this.layer_filepath != "" {
		layer, err := workload.LoadLayer(this.layer_filepath)
		if err != nil {
			return nil, err
		}
		misc.Logf(0, "layer %s", layer)

		if err := emit(TileInfoFilename, func(buffer *bytes.Buffer) error {
			return vmh.WriteTileInfo(buffer, layer, this.num_mult_switches,
				this.vn_workload.VNSize, this.vn_workload.NumMappedVNs())
		}); err != nil {
			return nil, err
		}
	}

	report, err := this.EmitReport(artifacts)
	if err != nil {
		return nil, err
	}
	artifacts = append(artifacts, Artifact{Name: ReportFilename, Data: report})

	return artifacts, nil
}

type vnReport struct {
	ID                 int `json:"id"`
	Size               int `json:"size"`
	CompletionLevel    int `json:"completion_level"`
	CompletionPosition int `json:"completion_position"`
	CompletionID       int `json:"completion_id"`
}

type compileReport struct {
	NumMultSwitches  int        `json:"num_mult_switches"`
	NumLevels        int        `json:"num_levels"`
	NumAdderSwitches int        `json:"num_adder_switches"`
	Policy           string     `json:"policy"`
	NumOpcodes       int        `json:"num_opcodes"`
	VNs              []vnReport `json:"vns"`
	Artifacts        []string   `json:"artifacts"`
}

// EmitReport summarizes the compiled tree as indented JSON.
func (this *Compiler) EmitReport(artifacts []Artifact) ([]byte, error) {
	tree := this.tree

	report := compileReport{
		NumMultSwitches:  tree.NumMultSwitches,
		NumLevels:        tree.NumLevels,
		NumAdderSwitches: tree.NumAdderSwitches,
		Policy:           string(this.vn_policy),
		NumOpcodes:       len(vmh.Traverse(tree)),
		VNs:              make([]vnReport, 0),
		Artifacts:        make([]string, 0, len(artifacts)),
	}

	vns := tree.VNs()
	for vn_id := 0; vn_id < len(vns); vn_id++ {
		size, found := vns[vn_id]
		if !found {
			continue
		}
		node, _ := tree.Completion(vn_id)
		report.VNs = append(report.VNs, vnReport{
			ID:                 vn_id,
			Size:               size,
			CompletionLevel:    node.Level,
			CompletionPosition: node.Position,
			CompletionID:       tree.InorderID(node),
		})
	}

	for _, artifact := range artifacts {
		report.Artifacts = append(report.Artifacts, artifact.Name)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshal report")
	}
	return append(data, '\n'), nil
}

func (this *Compiler) logLevels() {
	tree := this.tree
	for level := 0; level < tree.NumLevels; level++ {
		active := 0
		for _, sgrs := range tree.Singles[level] {
			if sgrs.GenerateOutput {
				active++
			}
		}
		for _, dbrs := range tree.Doubles[level] {
			if dbrs.GenerateOutputLeft {
				active++
			}
			if dbrs.GenerateOutputRight {
				active++
			}
		}
		misc.Logf(1, "level %d: %d of %d adders active", level, active, tree.NumNodes(level))
	}

	for _, entry := range vmh.Traverse(tree) {
		misc.Logf(2, "%s", entry)
	}
}
