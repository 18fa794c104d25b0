package reduction

import "github.com/pkg/errors"

// Configuration errors.
var (
	ErrNotPowerOfTwo  = errors.New("num_mult_switches must be a power of two >= 2")
	ErrTooManyVNs     = errors.New("number of VNs exceeds the multiplier switches available")
	ErrInvalidVNSize  = errors.New("VN size must be positive")
	ErrVNSizeOverflow = errors.New("non-uniform VN sizes total exceeds the number of multiplier switches")
)

// Placement and reduction conflicts.
var (
	ErrPlacementConflict   = errors.New("one switch inputs two kinds of VNs")
	ErrReductionConflict   = errors.New("switch receives partial sums of two unfinished VNs")
	ErrIncompleteReduction = errors.New("VN partial sums never reduce to a complete sum")
	ErrInorderCollision    = errors.New("inorder id already bound to another switch")
)
