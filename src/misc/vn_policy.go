package misc

// VNPolicy names how virtual neurons are laid onto the multiplier switches.
type VNPolicy string

const (
	// VNPolicyUniform packs equally sized VNs left to right.
	VNPolicyUniform VNPolicy = "uniform"
	// VNPolicySingleInput gives every VN of size 1 its own leaf adder.
	VNPolicySingleInput VNPolicy = "single_input"
	// VNPolicyNonUniform places a list of VN sizes in order.
	VNPolicyNonUniform VNPolicy = "non_uniform"
)

func DefaultVNPolicy() VNPolicy {
	return VNPolicyUniform
}

// SelectVNPolicy picks the policy implied by the workload options.
func SelectVNPolicy(vn_size int, non_uniform bool) VNPolicy {
	switch {
	case non_uniform:
		return VNPolicyNonUniform
	case vn_size == 1:
		return VNPolicySingleInput
	default:
		return VNPolicyUniform
	}
}
