// Package app holds the two application-level handlers spec §4.13 asks
// for: a UDP echo service bound to port 7, and a (deliberately
// unfinished, see DHCPClient) DHCP client stub.
package app

import (
	"github.com/soypat/lneto8/netstack"

	lneto8 "github.com/soypat/lneto8"
)

// EchoPort is the well-known UDP port the echo service listens on
// (RFC 862), matching the original firmware's app/echo.c.
const EchoPort = 7

// BindEcho registers the UDP echo service on ns, answering every
// datagram addressed to [EchoPort] with its own payload unchanged.
// Grounded on the original echo_handle, which does exactly a memcpy of
// the received payload back into the reply buffer and returns the
// received length: here the payload already lives in buf, so the
// handler need not copy anything, it just reports the same length back
// to [udp.BindTable.Decode], which handles swapping source/destination
// before retransmitting.
func BindEcho(ns *netstack.NetStack) error {
	return ns.UDP().Bind(EchoPort, func(buf []byte, src lneto8.IPv4Addr, srcPort uint16) int {
		return len(buf)
	})
}

// UnbindEcho removes the echo service registered by BindEcho.
func UnbindEcho(ns *netstack.NetStack) {
	ns.UDP().Unbind(EchoPort)
}
