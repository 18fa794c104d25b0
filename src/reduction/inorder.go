package reduction

import (
	"sort"

	"github.com/pkg/errors"
)

// Slot is a (level, index) storage coordinate.
type Slot struct {
	Level int
	Index int
}

// InorderMap binds inorder ids to switches, one map per switch kind. It only
// grows: ids are recorded as assignment and propagation touch switches, and
// an id missing from both maps is an idle slot.
type InorderMap struct {
	singles map[int]Slot
	doubles map[int]Slot
}

func NewInorderMap() *InorderMap {
	return &InorderMap{
		singles: make(map[int]Slot),
		doubles: make(map[int]Slot),
	}
}

// Record binds id to the location. Recording the same binding again is a
// no-op; binding an id to a different switch fails.
func (inorder *InorderMap) Record(id int, location Location) error {
	slot := Slot{Level: location.Level, Index: location.Index}
	if kind, existing, ok := inorder.Lookup(id); ok {
		if kind != location.Kind || existing != slot {
			return errors.Wrapf(ErrInorderCollision, "id %d: %s[%d][%d] vs %s[%d][%d]",
				id, kind, existing.Level, existing.Index, location.Kind, slot.Level, slot.Index)
		}
		return nil
	}
	if location.Kind == KindDouble {
		inorder.doubles[id] = slot
	} else {
		inorder.singles[id] = slot
	}
	return nil
}

func (inorder *InorderMap) Lookup(id int) (SwitchKind, Slot, bool) {
	if slot, ok := inorder.singles[id]; ok {
		return KindSingle, slot, true
	}
	if slot, ok := inorder.doubles[id]; ok {
		return KindDouble, slot, true
	}
	return KindSingle, Slot{}, false
}

func (inorder *InorderMap) Len() int {
	return len(inorder.singles) + len(inorder.doubles)
}

// IDs lists every recorded id in ascending order.
func (inorder *InorderMap) IDs() []int {
	ids := make([]int, 0, inorder.Len())
	for id := range inorder.singles {
		ids = append(ids, id)
	}
	for id := range inorder.doubles {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
