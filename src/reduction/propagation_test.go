package reduction

import (
	"errors"
	"testing"
)

func compileTree(t *testing.T, n int, workload Workload) *Tree {
	t.Helper()

	tree, err := Compile(n, workload)
	if err != nil {
		t.Fatalf("compile N=%d %+v: %v", n, workload, err)
	}
	return tree
}

func assertCompletion(t *testing.T, tree *Tree, vnID int, expected Node) {
	t.Helper()

	node, ok := tree.Completion(vnID)
	if !ok {
		t.Fatalf("VN %d never completes", vnID)
	}
	if node != expected {
		t.Fatalf("VN %d: expected completion at %+v, got %+v", vnID, expected, node)
	}
}

func TestPropagateUniformPairs(t *testing.T) {
	tree := compileTree(t, 8, Workload{VNSize: 2, VNNum: 4})

	for index, sgrs := range tree.Singles[2] {
		if sgrs.Mode != SGRSAddTwo || !sgrs.GenerateOutput {
			t.Fatalf("leaf SGRS %d: %s", index, sgrs)
		}
	}
	dbrs := tree.Doubles[2][0]
	if dbrs.ModeLeft != DBRSAddTwo || dbrs.ModeRight != DBRSAddTwo {
		t.Fatalf("leaf DBRS: %s", dbrs)
	}
	if vn, ok := dbrs.HalfVN(HalfRight); !ok || vn != 2 {
		t.Fatalf("expected DBRS Right half on VN 2, got %d %t", vn, ok)
	}

	for _, sgrs := range append(tree.Singles[1], tree.Singles[0]...) {
		if sgrs.Mode != SGRSFlowLeft || !sgrs.GenerateOutput {
			t.Fatalf("inner SGRS: %s", sgrs)
		}
	}

	for vnID := 0; vnID < 4; vnID++ {
		assertCompletion(t, tree, vnID, Node{Level: 2, Position: vnID})
	}

	if tree.Inorder.Len() != 7 {
		t.Fatalf("expected 7 recorded ids, got %d", tree.Inorder.Len())
	}

	root := tree.Singles[0][0]
	if id, ok := root.InputLinks[0].ChildID(); !ok || id != 1 {
		t.Fatalf("root left link: %s", root.InputLinks[0])
	}
	if id, ok := root.InputLinks[1].ChildID(); !ok || id != 5 {
		t.Fatalf("root right link: %s", root.InputLinks[1])
	}
}

func TestPropagateAddThree(t *testing.T) {
	tree := compileTree(t, 8, Workload{VNSize: 3, VNNum: 2})

	dbrs := tree.Doubles[2][0]
	if dbrs.ModeLeft != DBRSAddOne || dbrs.ModeRight != DBRSAddThree {
		t.Fatalf("leaf DBRS: %s", dbrs)
	}
	if tree.Singles[2][1].Mode != SGRSIdle || tree.Singles[2][1].GenerateOutput {
		t.Fatalf("idle SGRS: %s", tree.Singles[2][1])
	}
	if tree.Singles[1][0].Mode != SGRSAddTwo {
		t.Fatalf("level 1 SGRS 0: %s", tree.Singles[1][0])
	}
	if tree.Singles[1][1].Mode != SGRSFlowLeft {
		t.Fatalf("level 1 SGRS 1: %s", tree.Singles[1][1])
	}

	assertCompletion(t, tree, 0, Node{Level: 1, Position: 0})
	assertCompletion(t, tree, 1, Node{Level: 2, Position: 2})
}

func TestPropagateBackFill(t *testing.T) {
	tree := compileTree(t, 8, Workload{NonUniform: true, VNSizes: []int{3, 1, 2}})

	dbrs := tree.Doubles[2][0]
	if dbrs.ModeLeft != DBRSAddOne || dbrs.ModeRight != DBRSAddOne {
		t.Fatalf("leaf DBRS: %s", dbrs)
	}
	if vn, _ := dbrs.HalfVN(HalfLeft); vn != 0 {
		t.Fatalf("expected Left half on VN 0, got %d", vn)
	}
	if vn, _ := dbrs.HalfVN(HalfRight); vn != 1 {
		t.Fatalf("expected Right half on VN 1, got %d", vn)
	}

	assertCompletion(t, tree, 0, Node{Level: 1, Position: 0})
	assertCompletion(t, tree, 1, Node{Level: 2, Position: 2})
	assertCompletion(t, tree, 2, Node{Level: 2, Position: 3})
}

func TestPropagateSmallestTree(t *testing.T) {
	tree := compileTree(t, 2, Workload{VNSize: 2, VNNum: 1})

	if tree.RootID() != 0 {
		t.Fatalf("expected root id 0, got %d", tree.RootID())
	}
	root := tree.Singles[0][0]
	if root.Mode != SGRSAddTwo || !root.GenerateOutput {
		t.Fatalf("root: %s", root)
	}
	assertCompletion(t, tree, 0, Node{})

	single := compileTree(t, 2, Workload{VNSize: 1, VNNum: 1})
	if single.Singles[0][0].Mode != SGRSFlowLeft {
		t.Fatalf("root: %s", single.Singles[0][0])
	}
}

func TestPropagateLargerWorkloads(t *testing.T) {
	workloads := []Workload{
		{VNSize: 3, VNNum: 5},
		{VNSize: 5, VNNum: 3},
		{VNSize: 1, VNNum: 8},
		{VNSize: 4, VNNum: 4},
	}

	for _, workload := range workloads {
		tree := compileTree(t, 16, workload)
		for vnID := range tree.VNs() {
			if _, ok := tree.Completion(vnID); !ok {
				t.Fatalf("%+v: VN %d never completes", workload, vnID)
			}
		}
	}
}

func TestProcessSingleConflict(t *testing.T) {
	sgrs := &SingleReductionSwitch{}
	sgrs.PutPacket(NewPacket(0, 4), 0)
	sgrs.PutPacket(NewPacket(1, 4), 1)

	if err := processSingle(sgrs); !errors.Is(err, ErrReductionConflict) {
		t.Fatalf("expected ErrReductionConflict, got %v", err)
	}
}

func TestProcessSingleFlowsUnfinished(t *testing.T) {
	sgrs := &SingleReductionSwitch{}
	sgrs.PutPacket(NewPacket(0, 1), 0)
	sgrs.PutPacket(NewPacket(1, 4), 1)

	if err := processSingle(sgrs); err != nil {
		t.Fatalf("process: %v", err)
	}
	if sgrs.Mode != SGRSFlowRight || sgrs.Output().VNID != 1 {
		t.Fatalf("expected VN 1 to flow right: %s", sgrs)
	}
}

func TestProcessDoubleSplitsRun(t *testing.T) {
	cases := []struct {
		ports []int
		left  DBRSMode
		right DBRSMode
	}{
		{[]int{0, 1, 2, 3}, DBRSAddTwo, DBRSAddTwo},
		{[]int{0, 1, 2}, DBRSAddThree, DBRSIdle},
		{[]int{1, 2, 3}, DBRSIdle, DBRSAddThree},
		{[]int{2, 3}, DBRSIdle, DBRSAddTwo},
		{[]int{0, 3}, DBRSAddOne, DBRSAddOne},
	}

	for _, c := range cases {
		dbrs := &DoubleReductionSwitch{}
		for _, port := range c.ports {
			dbrs.PutPacket(NewPacket(7, 8), port)
		}
		if err := processDouble(dbrs); err != nil {
			t.Fatalf("%v: %v", c.ports, err)
		}
		if dbrs.ModeLeft != c.left || dbrs.ModeRight != c.right {
			t.Fatalf("%v: expected %s/%s, got %s", c.ports, c.left, c.right, dbrs)
		}
	}
}

func TestProcessDoubleDropsFinishedRun(t *testing.T) {
	dbrs := &DoubleReductionSwitch{}
	dbrs.PutPacket(NewPacket(0, 1), 0)
	dbrs.PutPacket(NewPacket(1, 4), 1)
	dbrs.PutPacket(NewPacket(2, 4), 2)
	dbrs.PutPacket(NewPacket(2, 4), 3)

	if err := processDouble(dbrs); err != nil {
		t.Fatalf("process: %v", err)
	}
	if dbrs.ModeLeft != DBRSAddOne || dbrs.ModeRight != DBRSAddTwo {
		t.Fatalf("unexpected modes: %s", dbrs)
	}
	if vn, _ := dbrs.HalfVN(HalfLeft); vn != 1 {
		t.Fatalf("expected Left half on VN 1, got %d", vn)
	}
}

func TestProcessDoubleConflict(t *testing.T) {
	dbrs := &DoubleReductionSwitch{}
	dbrs.PutPacket(NewPacket(0, 4), 0)
	dbrs.PutPacket(NewPacket(1, 4), 1)
	dbrs.PutPacket(NewPacket(2, 4), 2)

	if err := processDouble(dbrs); !errors.Is(err, ErrReductionConflict) {
		t.Fatalf("expected ErrReductionConflict, got %v", err)
	}
}

func TestPropagateIncomplete(t *testing.T) {
	tree := assignTree(t, 4, Workload{VNSize: 2, VNNum: 1})
	tree.vnSizes[5] = 2

	if err := tree.Propagate(); !errors.Is(err, ErrIncompleteReduction) {
		t.Fatalf("expected ErrIncompleteReduction, got %v", err)
	}
}

func TestPropagateRecordsBorrowingHalf(t *testing.T) {
	tree := compileTree(t, 16, Workload{VNSize: 2, VNNum: 4})

	// VN 2 and VN 3 meet on ports 0 and 1 of DBRS[2][0]; the Right half
	// forwards VN 3 from the borrowed port 1.
	location, ok := tree.Resolve(9)
	if !ok {
		t.Fatalf("id 9 not recorded")
	}
	expected := Location{Kind: KindDouble, Level: 2, Index: 0, Half: HalfRight}
	if location != expected {
		t.Fatalf("expected %+v, got %+v", expected, location)
	}

	dbrs := tree.Doubles[2][0]
	if vn, claimed := dbrs.HalfVN(HalfRight); !claimed || vn != 3 {
		t.Fatalf("expected Right half on VN 3, got %d (claimed=%t)", vn, claimed)
	}
	ports := dbrs.InputPorts(HalfRight)
	if len(ports) != 3 || ports[0] != 1 {
		t.Fatalf("expected ports [1 2 3], got %v", ports)
	}
}

func TestPropagateThreeFlowsOnOneDBRS(t *testing.T) {
	tree := assignTree(t, 64, Workload{VNSize: 9, VNNum: 5})

	for multiplier := 0; multiplier < 45; multiplier++ {
		_, location, port := tree.leafPort(multiplier)
		if packet := tree.input(location, port); packet == nil || packet.VNID != multiplier/9 {
			t.Fatalf("multiplier %d: expected VN %d, got %v", multiplier, multiplier/9, packet)
		}
	}

	// DBRS[3][1] sees VN 2 and VN 4 passing through its outer ports while
	// VN 3 finishes across ports 1 and 2: three flows for two adders.
	if err := tree.Propagate(); !errors.Is(err, ErrReductionConflict) {
		t.Fatalf("expected ErrReductionConflict, got %v", err)
	}
}

func TestProcessDoubleMiddleRunNeedsAnAdder(t *testing.T) {
	dbrs := &DoubleReductionSwitch{}
	dbrs.PutPacket(&Packet{VNID: 2, VNSize: 9, NumPSums: 3}, 0)
	dbrs.PutPacket(&Packet{VNID: 3, VNSize: 9, NumPSums: 5}, 1)
	dbrs.PutPacket(&Packet{VNID: 3, VNSize: 9, NumPSums: 4}, 2)
	dbrs.PutPacket(&Packet{VNID: 4, VNSize: 9, NumPSums: 4}, 3)

	if err := processDouble(dbrs); !errors.Is(err, ErrReductionConflict) {
		t.Fatalf("expected ErrReductionConflict, got %v", err)
	}
}
