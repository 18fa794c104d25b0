package reduction

import "math/bits"

// Node is a structural adder position: Position counts from the left edge of
// the level, 0 <= Position < 2^Level.
type Node struct {
	Level    int
	Position int
}

// Location is where a node is stored: the switch kind, its index within the
// level and, for a DBRS, which half.
type Location struct {
	Kind  SwitchKind
	Level int
	Index int
	Half  Half
}

// NumNodes is the number of adder positions on a level, 2^level.
func (tree *Tree) NumNodes(level int) int {
	return 1 << level
}

// RootID is the inorder id of the root adder.
func (tree *Tree) RootID() int {
	return tree.NumAdderSwitches / 2
}

// stride is the distance between inorder ids of adjacent nodes on a level.
func (tree *Tree) stride(level int) int {
	return 1 << (tree.NumLevels - level)
}

// InorderID is the index the node takes in a flattened complete binary tree
// spanning [0, NumAdderSwitches). Leaves sit on even ids.
func (tree *Tree) InorderID(node Node) int {
	height := tree.NumLevels - 1 - node.Level
	return (1 << height) - 1 + node.Position*tree.stride(node.Level)
}

// NodeOf inverts InorderID. The number of trailing ones of the id is the
// node's height above the leaves.
func (tree *Tree) NodeOf(id int) (Node, bool) {
	if id < 0 || id >= tree.NumAdderSwitches {
		return Node{}, false
	}
	height := bits.TrailingZeros(uint(id + 1))
	level := tree.NumLevels - 1 - height
	if level < 0 {
		return Node{}, false
	}
	position := ((id+1)>>height - 1) / 2
	return Node{Level: level, Position: position}, true
}

// Locate maps a node to its storage. The two edge nodes of a level are SGRS,
// the inner nodes pair up into DBRS from the left.
func (tree *Tree) Locate(node Node) Location {
	last := tree.NumNodes(node.Level) - 1
	switch {
	case node.Position == 0:
		return Location{Kind: KindSingle, Level: node.Level, Index: 0}
	case node.Position == last:
		return Location{Kind: KindSingle, Level: node.Level, Index: 1}
	default:
		return Location{
			Kind:  KindDouble,
			Level: node.Level,
			Index: (node.Position - 1) / 2,
			Half:  Half((node.Position - 1) % 2),
		}
	}
}

// Parent returns the node one level up and the side (0 left, 1 right) the
// child drives.
func (tree *Tree) Parent(node Node) (Node, int) {
	return Node{Level: node.Level - 1, Position: node.Position / 2}, node.Position % 2
}

// portOf converts a node side into the physical port of its switch.
func portOf(location Location, side int) int {
	if location.Kind == KindDouble {
		return int(location.Half)*2 + side
	}
	return side
}

// leafPort returns the leaf node a multiplier feeds and the switch port.
func (tree *Tree) leafPort(multiplier int) (Node, Location, int) {
	node := Node{Level: tree.LeafLevel(), Position: multiplier / 2}
	location := tree.Locate(node)
	return node, location, portOf(location, multiplier%2)
}

func (tree *Tree) single(location Location) *SingleReductionSwitch {
	return tree.Singles[location.Level][location.Index]
}

func (tree *Tree) double(location Location) *DoubleReductionSwitch {
	return tree.Doubles[location.Level][location.Index]
}

func (tree *Tree) putPacket(location Location, port int, packet *Packet) {
	if location.Kind == KindDouble {
		tree.double(location).PutPacket(packet, port)
	} else {
		tree.single(location).PutPacket(packet, port)
	}
}

func (tree *Tree) connect(location Location, port int, link InputLink) {
	if location.Kind == KindDouble {
		tree.double(location).Connect(link, port)
	} else {
		tree.single(location).Connect(link, port)
	}
}

func (tree *Tree) input(location Location, port int) *Packet {
	if location.Kind == KindDouble {
		return tree.double(location).Input(port)
	}
	return tree.single(location).Input(port)
}

func (tree *Tree) link(location Location, port int) InputLink {
	if location.Kind == KindDouble {
		return tree.double(location).InputLinks[port]
	}
	return tree.single(location).InputLinks[port]
}

// output returns the packet a node produced during propagation.
func (tree *Tree) output(location Location) *Packet {
	if location.Kind == KindDouble {
		return tree.double(location).Output(location.Half)
	}
	return tree.single(location).Output()
}

// Resolve turns an inorder id into a storage location, or reports the slot
// as idle when neither map knows the id.
//
// Both halves of a DBRS map to the same (level, index). The half is decided
// against the structural left sibling, id - stride(level): the id is the
// Right half iff that sibling position belongs to the same DBRS.
func (tree *Tree) Resolve(id int) (Location, bool) {
	kind, slot, ok := tree.Inorder.Lookup(id)
	if !ok {
		return Location{}, false
	}
	location := Location{Kind: kind, Level: slot.Level, Index: slot.Index}
	if kind == KindDouble {
		location.Half = tree.halfOf(id, slot)
	}
	return location, true
}

func (tree *Tree) halfOf(id int, slot Slot) Half {
	sibling := id - tree.stride(slot.Level)
	node, ok := tree.NodeOf(sibling)
	if !ok || node.Level != slot.Level {
		return HalfLeft
	}
	location := tree.Locate(node)
	if location.Kind == KindDouble && location.Index == slot.Index {
		return HalfRight
	}
	return HalfLeft
}
