package lneto8

// EtherType identifies the payload protocol carried by an Ethernet frame.
type EtherType uint16

// IsSize returns true if the EtherType field is actually the size of the
// 802.3 payload and should not be interpreted as an EtherType.
func (et EtherType) IsSize() bool { return et <= 1500 }

func (et EtherType) String() string {
	switch et {
	case EtherTypeIPv4:
		return "IPv4"
	case EtherTypeARP:
		return "ARP"
	case EtherTypeVLAN:
		return "VLAN"
	default:
		return "EtherType(" + itoa(uint16(et)) + ")"
	}
}

// Ethernet type field values exercised by this stack. The teacher library's
// constant table ran to several dozen RFC-numbered entries; an 8-bit stack
// speaking only IPv4/ARP has no use for AppleTalk or MPLS, so only the
// ethertypes this code actually dispatches on are kept.
const (
	EtherTypeIPv4 EtherType = 0x0800
	EtherTypeARP  EtherType = 0x0806
	EtherTypeVLAN EtherType = 0x8100
)

// IPToS represents the IPv4 Traffic Class (a.k.a Type of Service).
type IPToS uint8

// DS returns the top 6 bits of the IPv4 ToS holding the Differentiated Services field.
func (tos IPToS) DS() uint8 { return uint8(tos) >> 2 }

// ECN is the Explicit Congestion Notification subfield.
func (tos IPToS) ECN() uint8 { return uint8(tos & 0b11) }

// IPv4Flags holds the fragmentation field of an IPv4 header.
type IPv4Flags uint16

// DontFragment specifies whether the datagram may not be fragmented.
func (f IPv4Flags) DontFragment() bool { return f&0x4000 != 0 }

// MoreFragments is set on all fragments of a fragmented datagram except the last.
func (f IPv4Flags) MoreFragments() bool { return f&0x2000 != 0 }

// FragmentOffset specifies the offset of a fragment, in units of 8 bytes,
// relative to the start of the original unfragmented datagram.
func (f IPv4Flags) FragmentOffset() uint16 { return uint16(f) & 0x1fff }

// IPProto identifies the transport protocol carried by an IPv4 datagram.
// Only the protocols this stack decodes are enumerated; unrecognized
// protocol numbers are passed through unchanged as IPProto values and
// simply fail to match any of these constants.
type IPProto uint8

const (
	IPProtoICMP IPProto = 1
	IPProtoTCP  IPProto = 6
	IPProtoUDP  IPProto = 17
)

func (p IPProto) String() string {
	switch p {
	case IPProtoICMP:
		return "ICMP"
	case IPProtoTCP:
		return "TCP"
	case IPProtoUDP:
		return "UDP"
	default:
		return "IPProto(" + itoa(uint16(p)) + ")"
	}
}

// ARPOp is the ARP header's operation field.
type ARPOp uint16

const (
	ARPRequest ARPOp = 1
	ARPReply   ARPOp = 2
)

func (op ARPOp) String() string {
	switch op {
	case ARPRequest:
		return "request"
	case ARPReply:
		return "reply"
	default:
		return "ARPOp(" + itoa(uint16(op)) + ")"
	}
}

func itoa(v uint16) string {
	if v == 0 {
		return "0"
	}
	var buf [5]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}

// Header sizes for the fixed-format headers used throughout the stack.
const (
	SizeHeaderEthNoVLAN = 14
	SizeHeaderVLANTag   = 4
	SizeHeaderARPv4     = 28
	SizeHeaderIPv4      = 20
	SizeHeaderICMP      = 8
	SizeHeaderUDP       = 8
	SizeHeaderTCP       = 20
)
