package reduction

import "fmt"

// Packet is the compile-time token for a partial sum of one VN. NumPSums
// counts the multiplier outputs already folded into it.
type Packet struct {
	VNID     int
	VNSize   int
	NumPSums int
}

func NewPacket(vnID int, vnSize int) *Packet {
	return &Packet{VNID: vnID, VNSize: vnSize, NumPSums: 1}
}

func (packet *Packet) Complete() bool {
	return packet.NumPSums >= packet.VNSize
}

func (packet *Packet) String() string {
	return fmt.Sprintf("vn=%d size=%d psums=%d", packet.VNID, packet.VNSize, packet.NumPSums)
}

// mergePackets folds same-VN packets into one. The inputs are left untouched.
func mergePackets(packets []*Packet) *Packet {
	if len(packets) == 0 {
		return nil
	}
	merged := *packets[0]
	for _, packet := range packets[1:] {
		merged.NumPSums += packet.NumPSums
	}
	return &merged
}
