package reduction

import "github.com/pkg/errors"

// Policy selects how Assign lays VNs onto the leaf ports. The driver names
// the same choice with misc.VNPolicy.
type Policy int

const (
	PolicyUniform Policy = iota
	PolicySingleInput
	PolicyNonUniform
)

// Workload describes the VNs to map. VNSizes is only read by the
// non-uniform policy.
type Workload struct {
	VNSize     int
	VNNum      int
	NonUniform bool
	VNSizes    []int
}

func (workload Workload) Policy() Policy {
	switch {
	case workload.NonUniform:
		return PolicyNonUniform
	case workload.VNSize == 1:
		return PolicySingleInput
	default:
		return PolicyUniform
	}
}

// NumMappedVNs is the VN count handed to the tile info writer.
func (workload Workload) NumMappedVNs() int {
	if workload.NonUniform {
		return len(workload.VNSizes)
	}
	return workload.VNNum
}

// Assign populates the leaf level with one packet per claimed multiplier and
// drives every other leaf port unconnected. On error the tree is left
// partially populated and must be discarded.
func (tree *Tree) Assign(workload Workload) error {
	var err error
	switch workload.Policy() {
	case PolicySingleInput:
		err = tree.assignSingleInput(workload.VNNum)
	case PolicyNonUniform:
		err = tree.assignNonUniform(workload.VNSizes)
	default:
		err = tree.assignUniform(workload.VNSize, workload.VNNum)
	}
	if err != nil {
		return err
	}
	return tree.markIdlePorts()
}

// assignSingleInput gives VN k the leaf node k. A DBRS Right half takes its
// outer multiplier so neither half of a DBRS needs the forwarding link.
func (tree *Tree) assignSingleInput(vnNum int) error {
	maxVNs := tree.NumMultSwitches / 2
	if vnNum < 0 || vnNum > maxVNs {
		return errors.Wrapf(ErrTooManyVNs, "%d VNs of size 1, at most %d allowed", vnNum, maxVNs)
	}

	for vnID := 0; vnID < vnNum; vnID++ {
		multiplier := 2 * vnID
		location := tree.Locate(Node{Level: tree.LeafLevel(), Position: vnID})
		if location.Kind == KindDouble && location.Half == HalfRight {
			multiplier++
		}
		if err := tree.claim(multiplier, vnID, 1); err != nil {
			return err
		}
	}
	return nil
}

func (tree *Tree) assignUniform(vnSize int, vnNum int) error {
	if vnSize < 1 {
		return errors.Wrapf(ErrInvalidVNSize, "vn_size %d", vnSize)
	}
	if vnNum < 0 || vnNum*vnSize > tree.NumMultSwitches {
		return errors.Wrapf(ErrTooManyVNs, "%d VNs of size %d over %d multipliers",
			vnNum, vnSize, tree.NumMultSwitches)
	}

	for multiplier := 0; multiplier < vnNum*vnSize; multiplier++ {
		if err := tree.claim(multiplier, multiplier/vnSize, vnSize); err != nil {
			return err
		}
	}
	return nil
}

func (tree *Tree) assignNonUniform(vnSizes []int) error {
	total := 0
	for vnID, size := range vnSizes {
		if size <= 0 {
			return errors.Wrapf(ErrInvalidVNSize, "VN %d has size %d", vnID, size)
		}
		total += size
	}
	if total >= tree.NumMultSwitches {
		return errors.Wrapf(ErrVNSizeOverflow, "%d ports requested over %d multipliers",
			total, tree.NumMultSwitches)
	}

	cursor := 0
	for vnID, size := range vnSizes {
		next, err := tree.placeNonUniform(vnID, size, cursor)
		if err != nil {
			return err
		}
		cursor = next
	}
	return nil
}

// placeNonUniform claims the ports of one VN starting at cursor and returns
// the next free multiplier.
//
// When the VN starts inside a DBRS half already owned by another VN and fits
// in the DBRS's free ports, it is back-filled onto the last ports of the DBRS
// instead, so each half keeps a single owner. The ports skipped stay idle.
func (tree *Tree) placeNonUniform(vnID int, size int, cursor int) (int, error) {
	if cursor+size > tree.NumMultSwitches {
		return 0, errors.Wrapf(ErrVNSizeOverflow, "VN %d needs multipliers [%d, %d)",
			vnID, cursor, cursor+size)
	}

	_, location, port := tree.leafPort(cursor)

	if location.Kind == KindSingle {
		sgrs := tree.single(location)
		if sgrs.NumVNs() > 0 && !sgrs.HoldsVN(vnID) {
			return 0, errors.Wrapf(ErrPlacementConflict, "VN %d at multiplier %d, SGRS[%d][%d]",
				vnID, cursor, location.Level, location.Index)
		}
		if err := tree.claimRange(vnID, size, cursor); err != nil {
			return 0, err
		}
		// a single-input VN owns the whole port pair of an SGRS
		if size == 1 {
			return cursor + 2, nil
		}
		return cursor + size, nil
	}

	dbrs := tree.double(location)
	switch dbrs.NumVNs() {
	case 0:
	case 1:
		if dbrs.HalfOccupied(Half(port/2)) && size < dbrs.FreePorts() {
			base := cursor - port
			if err := tree.claimRange(vnID, size, base+4-size); err != nil {
				return 0, err
			}
			return base + 4, nil
		}
	default:
		return 0, errors.Wrapf(ErrPlacementConflict, "VN %d at multiplier %d, DBRS[%d][%d]",
			vnID, cursor, location.Level, location.Index)
	}

	if err := tree.claimRange(vnID, size, cursor); err != nil {
		return 0, err
	}
	return cursor + size, nil
}

func (tree *Tree) claimRange(vnID int, size int, first int) error {
	for multiplier := first; multiplier < first+size; multiplier++ {
		if err := tree.claim(multiplier, vnID, size); err != nil {
			return err
		}
	}
	return nil
}

// claim feeds one multiplier output of a VN into its leaf port.
func (tree *Tree) claim(multiplier int, vnID int, vnSize int) error {
	node, location, port := tree.leafPort(multiplier)
	tree.putPacket(location, port, NewPacket(vnID, vnSize))
	tree.connect(location, port, InputLink{State: LinkMultiplier, Source: multiplier})
	tree.vnSizes[vnID] = vnSize
	return tree.Inorder.Record(tree.InorderID(node), location)
}

// markIdlePorts drives every unclaimed leaf port unconnected.
func (tree *Tree) markIdlePorts() error {
	for multiplier := 0; multiplier < tree.NumMultSwitches; multiplier++ {
		node, location, port := tree.leafPort(multiplier)
		if tree.input(location, port) != nil {
			continue
		}
		tree.connect(location, port, InputLink{State: LinkUnconnected})
		if err := tree.Inorder.Record(tree.InorderID(node), location); err != nil {
			return err
		}
	}
	return nil
}
