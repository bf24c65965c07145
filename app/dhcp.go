package app

import (
	"github.com/soypat/lneto8/netstack"

	lneto8 "github.com/soypat/lneto8"
)

// DHCPState is the client's coarse connection state.
type DHCPState uint8

const (
	DHCPStateInit DHCPState = iota
	DHCPStateSelecting
	DHCPStateRequesting
	DHCPStateBound
	DHCPStateRenewing
)

// DHCPClientPort and DHCPServerPort are the well-known DHCP ports
// (RFC 2131), matching the original firmware's dhcp.h constants.
const (
	DHCPClientPort = 68
	DHCPServerPort = 67
)

// DHCPClient is an intentionally partial DHCPv4 client. The original
// firmware's dhcp.c/dhcp.h do not compile as shipped (redeclared
// locals, a `dchp_state`/`mask` typo the build never caught) and spec
// §9 explicitly withholds confirmation of the intended ACK/NAK and
// lease-renewal flow pending clarification, so this is carried as a
// documented stub rather than a guessed reimplementation: Start
// records the desire to acquire a lease and the xid to use, but does
// not yet send DISCOVER or drive the state machine to BOUND.
//
// TODO: once the lease-renewal semantics are confirmed, Start should
// bind DHCPClientPort, broadcast a DISCOVER, and drive
// Init->Selecting->Requesting->Bound on OFFER/ACK, arming T1 (0.5x
// lease) and T2 (0.875x lease) timers via a
// [github.com/soypat/lneto8/timer.Wheel] to trigger RENEWING/REBINDING.
type DHCPClient struct {
	State   DHCPState
	Lease   uint32 // seconds, 0 until a lease is bound
	Server  lneto8.IPv4Addr
	xid     uint32
	started bool
}

// Start marks the client as wanting a lease. It does not transmit a
// DISCOVER; see the TODO on [DHCPClient].
func (c *DHCPClient) Start(ns *netstack.NetStack, xid uint32) error {
	c.xid = xid
	c.State = DHCPStateSelecting
	c.started = true
	return nil
}

// Renew is a stub: lease renewal (T1/T2 timer arming, REQUEST retransmission)
// is left undone pending the open question in spec §9.
func (c *DHCPClient) Renew(ns *netstack.NetStack) error {
	return lneto8.ErrNotImplemented
}

// Active reports whether Start has been called.
func (c *DHCPClient) Active() bool { return c.started }
