package reduction

import (
	"fmt"
	"sort"
)

// SwitchKind distinguishes the two adder switch flavours in the tree.
type SwitchKind int

const (
	KindSingle SwitchKind = iota
	KindDouble
)

func (kind SwitchKind) String() string {
	if kind == KindDouble {
		return "DBRS"
	}
	return "SGRS"
}

// SGRSMode is the operating mode of a single reduction switch.
type SGRSMode int

const (
	SGRSIdle SGRSMode = iota
	SGRSAddTwo
	SGRSFlowLeft
	SGRSFlowRight
)

func (mode SGRSMode) String() string {
	switch mode {
	case SGRSAddTwo:
		return "AddTwo"
	case SGRSFlowLeft:
		return "FlowLeft"
	case SGRSFlowRight:
		return "FlowRight"
	default:
		return "Idle"
	}
}

// DBRSMode is the operating mode of one half of a double reduction switch.
// The count is the number of inputs the half sums; AddThree borrows the
// neighbouring half's inner port over the forwarding link.
type DBRSMode int

const (
	DBRSIdle DBRSMode = iota
	DBRSAddOne
	DBRSAddTwo
	DBRSAddThree
)

func (mode DBRSMode) String() string {
	switch mode {
	case DBRSAddOne:
		return "AddOne"
	case DBRSAddTwo:
		return "AddTwo"
	case DBRSAddThree:
		return "AddThree"
	default:
		return "Idle"
	}
}

func dbrsModeForInputs(count int) DBRSMode {
	switch count {
	case 1:
		return DBRSAddOne
	case 2:
		return DBRSAddTwo
	case 3:
		return DBRSAddThree
	default:
		return DBRSIdle
	}
}

// Half selects the Left (ports 0,1) or Right (ports 2,3) pair of a DBRS.
type Half int

const (
	HalfLeft Half = iota
	HalfRight
)

func (half Half) String() string {
	if half == HalfRight {
		return "R"
	}
	return "L"
}

// Ports returns the two DBRS input ports that belong to the half.
func (half Half) Ports() [2]int {
	if half == HalfRight {
		return [2]int{2, 3}
	}
	return [2]int{0, 1}
}

// LinkState tags what drives a switch input port.
type LinkState int

const (
	LinkNone LinkState = iota
	LinkMultiplier
	LinkUnconnected
	LinkSwitch
)

// InputLink records the source of one input port. Source is the multiplier
// index for LinkMultiplier and the child's inorder id for LinkSwitch.
type InputLink struct {
	State  LinkState
	Source int
}

func (link InputLink) String() string {
	switch link.State {
	case LinkMultiplier:
		return fmt.Sprintf("mult%d", link.Source)
	case LinkUnconnected:
		return "unconnected"
	case LinkSwitch:
		return fmt.Sprintf("id%d", link.Source)
	default:
		return "-"
	}
}

// ChildID reports the inorder id feeding the port, if a switch feeds it.
func (link InputLink) ChildID() (int, bool) {
	if link.State != LinkSwitch {
		return 0, false
	}
	return link.Source, true
}

// SingleReductionSwitch has two inputs and one output.
type SingleReductionSwitch struct {
	SwitchID       int
	Mode           SGRSMode
	GenerateOutput bool
	InputLinks     [2]InputLink

	inputs [2]*Packet
	output *Packet
}

func (sgrs *SingleReductionSwitch) PutPacket(packet *Packet, port int) {
	sgrs.inputs[port] = packet
}

func (sgrs *SingleReductionSwitch) Input(port int) *Packet {
	return sgrs.inputs[port]
}

func (sgrs *SingleReductionSwitch) Output() *Packet {
	return sgrs.output
}

func (sgrs *SingleReductionSwitch) Connect(link InputLink, port int) {
	sgrs.InputLinks[port] = link
}

func (sgrs *SingleReductionSwitch) NumVNs() int {
	return countVNs(sgrs.inputs[:])
}

func (sgrs *SingleReductionSwitch) HoldsVN(vnID int) bool {
	return holdsVN(sgrs.inputs[:], vnID)
}

func (sgrs *SingleReductionSwitch) FreePorts() int {
	return countFree(sgrs.inputs[:])
}

func (sgrs *SingleReductionSwitch) String() string {
	return fmt.Sprintf("mode=%s gen=%t in=[%s %s]", sgrs.Mode, sgrs.GenerateOutput,
		sgrs.InputLinks[0], sgrs.InputLinks[1])
}

// DoubleReductionSwitch is two adjacent adders of one level whose parents
// differ, packed with the forwarding link between them.
type DoubleReductionSwitch struct {
	SwitchID            int
	ModeLeft            DBRSMode
	ModeRight           DBRSMode
	GenerateOutputLeft  bool
	GenerateOutputRight bool
	InputLinks          [4]InputLink

	inputs  [4]*Packet
	outputs [2]*Packet
	halfVN  [2]int
	claimed [2]bool
	summed  [2][]int
}

func (dbrs *DoubleReductionSwitch) PutPacket(packet *Packet, port int) {
	dbrs.inputs[port] = packet
}

func (dbrs *DoubleReductionSwitch) Input(port int) *Packet {
	return dbrs.inputs[port]
}

func (dbrs *DoubleReductionSwitch) Output(half Half) *Packet {
	return dbrs.outputs[half]
}

func (dbrs *DoubleReductionSwitch) Connect(link InputLink, port int) {
	dbrs.InputLinks[port] = link
}

func (dbrs *DoubleReductionSwitch) NumVNs() int {
	return countVNs(dbrs.inputs[:])
}

func (dbrs *DoubleReductionSwitch) HoldsVN(vnID int) bool {
	return holdsVN(dbrs.inputs[:], vnID)
}

func (dbrs *DoubleReductionSwitch) FreePorts() int {
	return countFree(dbrs.inputs[:])
}

// HalfOccupied reports whether any input port of the half carries a packet.
func (dbrs *DoubleReductionSwitch) HalfOccupied(half Half) bool {
	for _, port := range half.Ports() {
		if dbrs.inputs[port] != nil {
			return true
		}
	}
	return false
}

// HalfVN returns the VN the half reduces after propagation.
func (dbrs *DoubleReductionSwitch) HalfVN(half Half) (int, bool) {
	return dbrs.halfVN[half], dbrs.claimed[half]
}

// InputPorts lists, ascending, the half's own ports plus any port of the other
// half it sums over the forwarding link.
func (dbrs *DoubleReductionSwitch) InputPorts(half Half) []int {
	own := half.Ports()
	ports := []int{own[0], own[1]}
	for _, port := range dbrs.summed[half] {
		if port != own[0] && port != own[1] {
			ports = append(ports, port)
		}
	}
	sort.Ints(ports)
	return ports
}

func (dbrs *DoubleReductionSwitch) Mode(half Half) DBRSMode {
	if half == HalfRight {
		return dbrs.ModeRight
	}
	return dbrs.ModeLeft
}

func (dbrs *DoubleReductionSwitch) GenerateOutput(half Half) bool {
	if half == HalfRight {
		return dbrs.GenerateOutputRight
	}
	return dbrs.GenerateOutputLeft
}

func (dbrs *DoubleReductionSwitch) String() string {
	return fmt.Sprintf("modeL=%s genL=%t modeR=%s genR=%t in=[%s %s %s %s]",
		dbrs.ModeLeft, dbrs.GenerateOutputLeft, dbrs.ModeRight, dbrs.GenerateOutputRight,
		dbrs.InputLinks[0], dbrs.InputLinks[1], dbrs.InputLinks[2], dbrs.InputLinks[3])
}

func countVNs(packets []*Packet) int {
	seen := make(map[int]bool)
	for _, packet := range packets {
		if packet != nil {
			seen[packet.VNID] = true
		}
	}
	return len(seen)
}

func holdsVN(packets []*Packet, vnID int) bool {
	for _, packet := range packets {
		if packet != nil && packet.VNID == vnID {
			return true
		}
	}
	return false
}

func countFree(packets []*Packet) int {
	free := 0
	for _, packet := range packets {
		if packet == nil {
			free++
		}
	}
	return free
}
