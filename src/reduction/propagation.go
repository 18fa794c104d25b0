package reduction

import (
	"sort"

	"github.com/pkg/errors"
)

// Propagate sweeps the tree from the leaf level up to the root. Every switch
// of a level picks its mode from the packets on its inputs, then the level's
// outputs are forwarded into the parents' ports.
func (tree *Tree) Propagate() error {
	for level := tree.LeafLevel(); level >= 0; level-- {
		if err := tree.processLevel(level); err != nil {
			return err
		}
		if level > 0 {
			if err := tree.forwardLevel(level); err != nil {
				return err
			}
		}
	}
	return tree.checkCompletions()
}

// Compile assigns the workload onto a fresh tree and propagates it.
func Compile(numMultSwitches int, workload Workload) (*Tree, error) {
	tree, err := BuildTree(numMultSwitches)
	if err != nil {
		return nil, err
	}
	if err := tree.Assign(workload); err != nil {
		return nil, err
	}
	if err := tree.Propagate(); err != nil {
		return nil, err
	}
	return tree, nil
}

func (tree *Tree) processLevel(level int) error {
	for index, sgrs := range tree.Singles[level] {
		if err := processSingle(sgrs); err != nil {
			return errors.Wrapf(err, "SGRS[%d][%d]", level, index)
		}
	}
	for index, dbrs := range tree.Doubles[level] {
		if err := processDouble(dbrs); err != nil {
			return errors.Wrapf(err, "DBRS[%d][%d]", level, index)
		}
	}

	for position := 0; position < tree.NumNodes(level); position++ {
		node := Node{Level: level, Position: position}
		packet := tree.output(tree.Locate(node))
		if packet == nil || !packet.Complete() {
			continue
		}
		if _, done := tree.completions[packet.VNID]; !done {
			tree.completions[packet.VNID] = node
		}
	}
	return nil
}

// forwardLevel moves every output of the level into its parent's port and
// links the port back to the child's inorder id. A child that took inputs but
// passes nothing up is still linked, so the configuration walk reaches it and
// everything below it.
func (tree *Tree) forwardLevel(level int) error {
	for position := 0; position < tree.NumNodes(level); position++ {
		child := Node{Level: level, Position: position}
		childLocation := tree.Locate(child)
		packet := tree.output(childLocation)
		if packet == nil && !tree.engaged(childLocation) {
			continue
		}
		// a DBRS half summing only a borrowed port never received a packet
		if err := tree.Inorder.Record(tree.InorderID(child), childLocation); err != nil {
			return err
		}

		parent, side := tree.Parent(child)
		location := tree.Locate(parent)
		port := portOf(location, side)
		if packet != nil {
			tree.putPacket(location, port, packet)
		}
		tree.connect(location, port, InputLink{State: LinkSwitch, Source: tree.InorderID(child)})
		if err := tree.Inorder.Record(tree.InorderID(parent), location); err != nil {
			return err
		}
	}
	return nil
}

// engaged reports whether any port of the node holds a packet or a link to a
// child switch.
func (tree *Tree) engaged(location Location) bool {
	for side := 0; side < 2; side++ {
		port := portOf(location, side)
		if tree.input(location, port) != nil || tree.link(location, port).State == LinkSwitch {
			return true
		}
	}
	return false
}

func (tree *Tree) checkCompletions() error {
	vnIDs := make([]int, 0, len(tree.vnSizes))
	for vnID := range tree.vnSizes {
		vnIDs = append(vnIDs, vnID)
	}
	sort.Ints(vnIDs)

	for _, vnID := range vnIDs {
		if _, ok := tree.completions[vnID]; !ok {
			return errors.Wrapf(ErrIncompleteReduction, "VN %d of size %d", vnID, tree.vnSizes[vnID])
		}
	}
	return nil
}

// processSingle sets the SGRS mode. With two different VNs on its inputs the
// switch can only pass one of them on, so the unfinished one wins.
func processSingle(sgrs *SingleReductionSwitch) error {
	left, right := sgrs.inputs[0], sgrs.inputs[1]
	sgrs.output = nil

	switch {
	case left == nil && right == nil:
		sgrs.Mode = SGRSIdle
	case left != nil && right != nil && left.VNID == right.VNID:
		sgrs.Mode = SGRSAddTwo
		sgrs.output = mergePackets([]*Packet{left, right})
	case right == nil:
		sgrs.Mode = SGRSFlowLeft
		sgrs.output = left
	case left == nil:
		sgrs.Mode = SGRSFlowRight
		sgrs.output = right
	case !left.Complete() && !right.Complete():
		return errors.Wrapf(ErrReductionConflict, "VN %d and VN %d", left.VNID, right.VNID)
	case !right.Complete():
		sgrs.Mode = SGRSFlowRight
		sgrs.output = right
	default:
		sgrs.Mode = SGRSFlowLeft
		sgrs.output = left
	}

	sgrs.GenerateOutput = sgrs.output != nil
	return nil
}

// portRun is a maximal sequence of occupied DBRS ports carrying one VN.
type portRun struct {
	vnID  int
	ports []int
}

func (run portRun) complete(inputs [4]*Packet) bool {
	return len(run.ports) == 1 && inputs[run.ports[0]].Complete()
}

func processDouble(dbrs *DoubleReductionSwitch) error {
	runs, err := selectRuns(dbrs.inputs, collectRuns(dbrs.inputs))
	if err != nil {
		return err
	}

	var halves [2][]int
	switch len(runs) {
	case 1:
		halves = splitRun(runs[0].ports)
	case 2:
		halves[HalfLeft] = runs[0].ports
		halves[HalfRight] = runs[1].ports
	}

	for _, half := range []Half{HalfLeft, HalfRight} {
		packets := make([]*Packet, 0, len(halves[half]))
		for _, port := range halves[half] {
			packets = append(packets, dbrs.inputs[port])
		}

		output := mergePackets(packets)
		mode := dbrsModeForInputs(len(packets))
		dbrs.outputs[half] = output
		dbrs.claimed[half] = output != nil
		dbrs.summed[half] = halves[half]
		dbrs.halfVN[half] = 0
		if output != nil {
			dbrs.halfVN[half] = output.VNID
		}

		if half == HalfLeft {
			dbrs.ModeLeft = mode
			dbrs.GenerateOutputLeft = output != nil
		} else {
			dbrs.ModeRight = mode
			dbrs.GenerateOutputRight = output != nil
		}
	}
	return nil
}

// collectRuns groups the occupied ports, left to right, into same-VN runs.
// Empty ports between two packets of one VN do not break the run.
func collectRuns(inputs [4]*Packet) []portRun {
	var runs []portRun
	for port, packet := range inputs {
		if packet == nil {
			continue
		}
		if last := len(runs) - 1; last >= 0 && runs[last].vnID == packet.VNID {
			runs[last].ports = append(runs[last].ports, port)
			continue
		}
		runs = append(runs, portRun{vnID: packet.VNID, ports: []int{port}})
	}
	return runs
}

// selectRuns trims the runs to the two a DBRS can output. Finished single-port
// sums are dropped from the right first; every other run needs an adder, even
// one that finishes here.
func selectRuns(inputs [4]*Packet, runs []portRun) ([]portRun, error) {
	for len(runs) > 2 {
		dropped := false
		for i := len(runs) - 1; i >= 0; i-- {
			if runs[i].complete(inputs) {
				runs = mergeAdjacent(append(runs[:i:i], runs[i+1:]...))
				dropped = true
				break
			}
		}
		if !dropped {
			return nil, errors.Wrapf(ErrReductionConflict, "%d VN flows on one DBRS with two adders", len(runs))
		}
	}
	return mergeAdjacent(runs), nil
}

func mergeAdjacent(runs []portRun) []portRun {
	var merged []portRun
	for _, run := range runs {
		if last := len(merged) - 1; last >= 0 && merged[last].vnID == run.vnID {
			merged[last].ports = append(merged[last].ports, run.ports...)
			continue
		}
		merged = append(merged, portRun{vnID: run.vnID, ports: append([]int(nil), run.ports...)})
	}
	return merged
}

// splitRun places a lone run onto the halves. A run spanning both outer
// ports is cut in the middle; otherwise it goes to the half that can reach
// all of its ports, borrowing the neighbour's inner port if needed.
func splitRun(ports []int) [2][]int {
	var halves [2][]int
	first, last := ports[0], ports[len(ports)-1]

	switch {
	case last <= 1:
		halves[HalfLeft] = ports
	case first >= 2:
		halves[HalfRight] = ports
	case first == 0 && last == 3:
		for _, port := range ports {
			if port < 2 {
				halves[HalfLeft] = append(halves[HalfLeft], port)
			} else {
				halves[HalfRight] = append(halves[HalfRight], port)
			}
		}
	case last <= 2:
		halves[HalfLeft] = ports
	default:
		halves[HalfRight] = ports
	}
	return halves
}
