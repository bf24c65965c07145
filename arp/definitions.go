// Package arp implements RFC 826 Address Resolution Protocol processing:
// a frame overlay for the wire header, a fixed 10-entry IPv4-to-MAC table
// with age-based eviction, and a resolver that rewrites request frames
// into replies in place and substitutes outbound frames with ARP
// requests when the destination MAC is unknown, queueing the original
// frame for later retransmission.
package arp

// HardwareEthernet is the ARP hardware-type field value for Ethernet,
// the only link layer this stack speaks.
const HardwareEthernet uint16 = 1

// SizeHeaderIPv4 is the wire size of an ARP header carrying IPv4-over-Ethernet
// addresses: 8 fixed bytes plus two 6-byte MACs and two 4-byte IPs.
const SizeHeaderIPv4 = 8 + 2*6 + 2*4

// MaxEntries bounds the number of simultaneously cached IP->MAC bindings,
// matching the original firmware's ARP_TABLE_SIZE.
const MaxEntries = 10

// MaxAge is the number of aging ticks (roughly 10s apart, see [Table.Age])
// an entry may go unrefreshed before it is considered stale and evicted,
// matching ARP_ENTRY_MAX_AGE (~20 minutes).
const MaxAge uint8 = 120
