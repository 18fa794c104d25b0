package reduction

import (
	"math/bits"

	"github.com/pkg/errors"
)

// Tree is the adder tree above NumMultSwitches multipliers. Switches are held
// per level; level NumLevels-1 is the leaf level fed by the multipliers.
type Tree struct {
	NumMultSwitches  int
	NumLevels        int
	NumAdderSwitches int

	Singles [][]*SingleReductionSwitch
	Doubles [][]*DoubleReductionSwitch
	Inorder *InorderMap

	vnSizes     map[int]int
	completions map[int]Node
}

// NumDBRS returns the number of double reduction switches on a level.
func NumDBRS(level int) int {
	if level < 1 {
		return 0
	}
	return (1 << (level - 1)) - 1
}

// NumSGRS returns the number of single reduction switches on a level.
func NumSGRS(level int) int {
	if level == 0 {
		return 1
	}
	return 2
}

// BuildTree allocates every switch of the tree with sequential ids.
func BuildTree(numMultSwitches int) (*Tree, error) {
	if numMultSwitches < 2 || numMultSwitches&(numMultSwitches-1) != 0 {
		return nil, errors.Wrapf(ErrNotPowerOfTwo, "got %d", numMultSwitches)
	}

	tree := &Tree{
		NumMultSwitches:  numMultSwitches,
		NumLevels:        bits.TrailingZeros(uint(numMultSwitches)),
		NumAdderSwitches: numMultSwitches - 1,
		Inorder:          NewInorderMap(),
		vnSizes:          make(map[int]int),
		completions:      make(map[int]Node),
	}

	tree.Singles = make([][]*SingleReductionSwitch, tree.NumLevels)
	tree.Doubles = make([][]*DoubleReductionSwitch, tree.NumLevels)

	sgrsID := 0
	dbrsID := 0
	for level := 0; level < tree.NumLevels; level++ {
		for sw := 0; sw < NumSGRS(level); sw++ {
			tree.Singles[level] = append(tree.Singles[level], &SingleReductionSwitch{SwitchID: sgrsID})
			sgrsID++
		}
		for sw := 0; sw < NumDBRS(level); sw++ {
			tree.Doubles[level] = append(tree.Doubles[level], &DoubleReductionSwitch{SwitchID: dbrsID})
			dbrsID++
		}
	}

	return tree, nil
}

// LeafLevel is the level the multipliers feed.
func (tree *Tree) LeafLevel() int {
	return tree.NumLevels - 1
}

// VNs returns the placed VN ids mapped to their sizes.
func (tree *Tree) VNs() map[int]int {
	vns := make(map[int]int, len(tree.vnSizes))
	for id, size := range tree.vnSizes {
		vns[id] = size
	}
	return vns
}

// Completion reports the node whose output first carries the full sum of a VN.
func (tree *Tree) Completion(vnID int) (Node, bool) {
	node, ok := tree.completions[vnID]
	return node, ok
}
