// Package lneto8 implements a cooperative, allocation-free TCP/IP stack
// aimed at 8-bit microcontrollers talking to an SPI-attached Ethernet
// MAC+PHY. The stack runs entirely inside a super-loop: Periodic methods
// on [netstack.NetStack] and [timer.Wheel] are called back to back from
// main, and the only interrupt-driven input is a 1ms hardware tick fed to
// the clock package.
//
// Subpackages mirror the layers of the stack: ethernet, arp, ipv4, icmp,
// udp and tcp hold wire-format frame overlays; clock and timer provide
// the cooperative scheduling primitives; pqueue, socket and netstack wire
// the layers together; link abstracts the physical transport.
package lneto8

import (
	"strconv"
)

// MacAddr is an IEEE 802 6-byte hardware address.
type MacAddr [6]byte

// IsEmpty returns true if the address is the all-zero address.
func (m MacAddr) IsEmpty() bool {
	return m == MacAddr{}
}

// IsBroadcast returns true if the address is the all-ones broadcast address.
func (m MacAddr) IsBroadcast() bool {
	return m == MacAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
}

// Equal returns true if both addresses are byte-for-byte identical.
func (m MacAddr) Equal(other MacAddr) bool {
	return m == other
}

// String returns the canonical colon-separated hex representation.
func (m MacAddr) String() string {
	var buf [17]byte
	b := buf[:0]
	for i, v := range m {
		if i != 0 {
			b = append(b, ':')
		}
		if v < 16 {
			b = append(b, '0')
		}
		b = strconv.AppendUint(b, uint64(v), 16)
	}
	return string(b)
}

// BroadcastMAC returns the all-ones hardware broadcast address.
func BroadcastMAC() MacAddr {
	return MacAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
}

// IPv4Addr is a 4-byte IPv4 address held in network (big-endian) byte order.
type IPv4Addr [4]byte

// IsEmpty returns true if the address is 0.0.0.0.
func (ip IPv4Addr) IsEmpty() bool {
	return ip == IPv4Addr{}
}

// IsBroadcast returns true if the address is the limited broadcast address 255.255.255.255.
func (ip IPv4Addr) IsBroadcast() bool {
	return ip == IPv4Addr{0xff, 0xff, 0xff, 0xff}
}

// Equal returns true if both addresses are identical.
func (ip IPv4Addr) Equal(other IPv4Addr) bool {
	return ip == other
}

// MaskedEqual returns true if ip and other are equal once both are masked with mask.
// Used to decide whether a destination address is on the local subnet.
func (ip IPv4Addr) MaskedEqual(other IPv4Addr, mask IPv4Addr) bool {
	for i := range ip {
		if ip[i]&mask[i] != other[i]&mask[i] {
			return false
		}
	}
	return true
}

// String returns the dotted-decimal representation.
func (ip IPv4Addr) String() string {
	var buf [15]byte
	b := buf[:0]
	for i, v := range ip {
		if i != 0 {
			b = append(b, '.')
		}
		b = strconv.AppendUint(b, uint64(v), 10)
	}
	return string(b)
}

// HostConfig holds the local host's identity on the network: its hardware
// address, IPv4 address, subnet mask and default router. It is the
// argument to every package's Configure/Reset entry point, mirroring the
// teacher stack's StackEthernetConfig pattern.
type HostConfig struct {
	MAC     MacAddr
	IP      IPv4Addr
	Netmask IPv4Addr
	Router  IPv4Addr
}

// Validate returns an error if the configuration is missing required fields.
func (cfg HostConfig) Validate() error {
	if cfg.MAC.IsEmpty() {
		return ErrZeroSource
	}
	if cfg.IP.IsEmpty() {
		return ErrZeroSource
	}
	return nil
}

// OnLocalSubnet reports whether addr is reachable without going through cfg.Router.
func (cfg HostConfig) OnLocalSubnet(addr IPv4Addr) bool {
	return addr.MaskedEqual(cfg.IP, cfg.Netmask)
}

// NextHop returns the IPv4 address that an outbound packet to dst must be
// ARP-resolved against: dst itself if on-subnet or the limited broadcast
// address, else the default router.
func (cfg HostConfig) NextHop(dst IPv4Addr) IPv4Addr {
	if dst.IsBroadcast() || cfg.OnLocalSubnet(dst) {
		return dst
	}
	return cfg.Router
}

// Stats accumulates simple packet counters for a running stack, per
// spec §3's {link_up, packets_sent, bytes_sent, packets_received,
// bytes_received} plus the per-protocol breakdown the original
// firmware's status dump also reports. All fields are plain counters;
// callers running Periodic from a single goroutine need no
// synchronization, matching the stack's single-writer contract.
type Stats struct {
	LinkUp       bool
	RxFrames     uint32
	RxBytes      uint32
	TxFrames     uint32
	TxBytes      uint32
	RxDropped    uint32
	ARPRequests  uint32
	ARPReplies   uint32
	ICMPEchoes   uint32
	UDPDatagrams uint32
	TCPSegments  uint32
}
