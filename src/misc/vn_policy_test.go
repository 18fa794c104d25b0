package misc

import "testing"

func TestSelectVNPolicy(t *testing.T) {
	cases := []struct {
		vn_size     int
		non_uniform bool
		expected    VNPolicy
	}{
		{4, false, VNPolicyUniform},
		{1, false, VNPolicySingleInput},
		{1, true, VNPolicyNonUniform},
		{3, true, VNPolicyNonUniform},
	}

	for _, c := range cases {
		if got := SelectVNPolicy(c.vn_size, c.non_uniform); got != c.expected {
			t.Fatalf("vn_size=%d non_uniform=%t: expected %s, got %s", c.vn_size, c.non_uniform, c.expected, got)
		}
	}
}

func TestDefaultVNPolicy(t *testing.T) {
	if DefaultVNPolicy() != VNPolicyUniform {
		t.Fatalf("expected default policy uniform, got %s", DefaultVNPolicy())
	}
}
