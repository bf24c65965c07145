// Package ipv4 implements RFC 791 IPv4 header processing: a frame
// overlay, header checksum, and the size/version validation the stack
// runs before handing a datagram's payload to ICMP, UDP or TCP.
//
// This stack never originates or reassembles fragments; it accepts
// unfragmented, option-free datagrams (IHL==5) as produced by the
// Ethernet controllers it targets, matching the original firmware's
// ip_header_t, which carries no room for options.
package ipv4

import lneto8 "github.com/soypat/lneto8"

const sizeHeader = lneto8.SizeHeaderIPv4

// ToS represents the Traffic Class (a.k.a Type of Service).
type ToS = lneto8.IPToS

// Flags holds fragmentation field data of an IPv4 header.
type Flags uint16

// IsEvil returns true if the evil bit (the flags field's reserved top
// bit) is set, per RFC 3514.
func (f Flags) IsEvil() bool { return f&0x8000 != 0 }

// DontFragment reports whether the datagram must not be fragmented.
func (f Flags) DontFragment() bool { return f&0x4000 != 0 }

// MoreFragments reports whether further fragments follow this one.
func (f Flags) MoreFragments() bool { return f&0x2000 != 0 }

// FragmentOffset is the offset of this fragment, in 8-byte units, from
// the start of the original unfragmented datagram.
func (f Flags) FragmentOffset() uint16 { return uint16(f) & 0x1fff }
