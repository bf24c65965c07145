package tcp

import (
	"github.com/soypat/lneto8/ethernet"
	"github.com/soypat/lneto8/ipv4"

	lneto8 "github.com/soypat/lneto8"
)

// Session tracks the minimal per-connection state this stack keeps for
// one bound TCP port: the peer address and a [State] that only ever
// advances LISTEN -> SYN_RECEIVED -> ESTABLISHED. Data transfer, retransmission and
// graceful close are explicitly out of scope (spec §9); a session that
// reaches SYN_RECEIVED and receives anything other than the expected
// final ACK is reset and returned to LISTEN.
type Session struct {
	Peer     lneto8.IPv4Addr
	PeerPort uint16
	State    State
	peerISN  uint32
	ourISN   uint32
}

type binding struct {
	port    uint16
	session Session
	used    bool
}

// BindTable is a fixed 10-slot table of listening TCP ports, matching
// TCP_MAX_BINDINGS in the original firmware. Unlike [github.com/soypat/lneto8/udp.BindTable]
// there is no user callback: every bound port is a bare listener that
// answers the handshake and otherwise resets, per spec §9's explicit
// decision to leave data transfer unimplemented.
type BindTable struct {
	slots [MaxBindings]binding
}

// Listen marks port as listening. It returns [lneto8.ErrTableFull] if
// every slot is already bound.
func (t *BindTable) Listen(port uint16) error {
	free := -1
	for i := range t.slots {
		s := &t.slots[i]
		if s.used && s.port == port {
			return nil
		}
		if !s.used && free < 0 {
			free = i
		}
	}
	if free < 0 {
		return lneto8.ErrTableFull
	}
	t.slots[free] = binding{port: port, used: true, session: Session{State: StateListen}}
	return nil
}

// Unbind stops listening on port.
func (t *BindTable) Unbind(port uint16) bool {
	for i := range t.slots {
		s := &t.slots[i]
		if s.used && s.port == port {
			*s = binding{}
			return true
		}
	}
	return false
}

func (t *BindTable) find(port uint16) *binding {
	for i := range t.slots {
		s := &t.slots[i]
		if s.used && s.port == port {
			return s
		}
	}
	return nil
}

// Decode processes one inbound Ethernet+IPv4+TCP segment (buf starting
// at the Ethernet header, ipOff the offset of the IPv4 header) per
// spec §9's rejecting-stub design:
//
//   - no listener on the destination port: a RST is generated whenever
//     the inbound segment itself was not a RST, else dropped.
//   - listener in LISTEN receiving a bare SYN: reply SYN+ACK and
//     advance to SYN_RECEIVED.
//   - listener in SYN_RECEIVED receiving the expected final ACK:
//     advance to ESTABLISHED; any other segment resets the session
//     back to LISTEN.
//   - anything else (data transfer, FIN handling): dropped with a RST,
//     since this stack never implements a full RFC 793 state machine.
func (t *BindTable) Decode(buf []byte, ipOff int) (replyLen int, err error) {
	efrm, err := ethernet.NewFrame(buf)
	if err != nil {
		return 0, err
	}
	ifrm, err := ipv4.NewFrame(buf[ipOff:])
	if err != nil {
		return 0, nil
	}
	tfrm, err := NewFrame(ifrm.Payload())
	if err != nil {
		return 0, nil
	}
	var v lneto8.Validator
	tfrm.ValidateSize(&v)
	if v.Err() != nil {
		return 0, nil
	}
	if tfrm.Flags().Has(FlagRST) {
		return 0, nil // never answer a RST with a RST
	}

	b := t.find(tfrm.DestinationPort())
	if b == nil {
		return t.writeReset(efrm, ifrm, tfrm, ipOff), nil
	}

	peer := *ifrm.SourceAddr()
	switch b.session.State {
	case StateListen:
		if tfrm.Flags() != FlagSYN {
			return t.writeReset(efrm, ifrm, tfrm, ipOff), nil
		}
		b.session.Peer = peer
		b.session.PeerPort = tfrm.SourcePort()
		b.session.peerISN = tfrm.Seq()
		b.session.ourISN = tfrm.Seq() ^ 0x5a5a5a5a // arbitrary, no randomness source required by spec
		b.session.State = StateSynReceived
		return t.writeSynAck(efrm, ifrm, tfrm, ipOff, b), nil

	case StateSynReceived:
		expectedAck := b.session.ourISN + 1
		if !peer.Equal(b.session.Peer) || tfrm.SourcePort() != b.session.PeerPort ||
			tfrm.Flags() != FlagACK || tfrm.Ack() != expectedAck {
			b.session.State = StateListen
			return t.writeReset(efrm, ifrm, tfrm, ipOff), nil
		}
		b.session.State = StateEstablished
		return 0, nil

	default: // ESTABLISHED or otherwise: data transfer unimplemented.
		b.session.State = StateListen
		return t.writeReset(efrm, ifrm, tfrm, ipOff), nil
	}
}

func (t *BindTable) writeSynAck(efrm ethernet.Frame, ifrm ipv4.Frame, tfrm Frame, ipOff int, b *binding) int {
	ack := tfrm.Seq() + 1
	tfrm.SetDestinationPort(tfrm.SourcePort())
	tfrm.SetSourcePort(b.port)
	tfrm.SetSeq(b.session.ourISN)
	tfrm.SetAck(ack)
	tfrm.SetDataOffset(5)
	tfrm.SetFlags(FlagSYN | FlagACK)
	return t.finish(efrm, ifrm, tfrm, ipOff)
}

func (t *BindTable) writeReset(efrm ethernet.Frame, ifrm ipv4.Frame, tfrm Frame, ipOff int) int {
	var seq uint32
	if tfrm.Flags().Has(FlagACK) {
		seq = tfrm.Ack()
	}
	ack := tfrm.Seq() + 1
	srcPort, dstPort := tfrm.DestinationPort(), tfrm.SourcePort()
	tfrm.SetSourcePort(srcPort)
	tfrm.SetDestinationPort(dstPort)
	tfrm.SetSeq(seq)
	tfrm.SetAck(ack)
	tfrm.SetDataOffset(5)
	tfrm.SetFlags(FlagRST | FlagACK)
	return t.finish(efrm, ifrm, tfrm, ipOff)
}

func (t *BindTable) finish(efrm ethernet.Frame, ifrm ipv4.Frame, tfrm Frame, ipOff int) int {
	tfrm.SetWindowSize(0)
	tfrm.SetUrgentPtr(0)

	src, dst := *ifrm.SourceAddr(), *ifrm.DestinationAddr()
	*ifrm.SourceAddr() = dst
	*ifrm.DestinationAddr() = src
	ifrm.SetTotalLength(uint16(ifrm.HeaderLength() + sizeHeader))
	ifrm.SetProtocol(lneto8.IPProtoTCP)
	ifrm.SetCRC(0)
	ifrm.SetCRC(ifrm.CalculateHeaderCRC())

	tfrm.SetCRC(0)
	tfrm.SetCRC(tfrm.CalculateCRC(ifrm, sizeHeader))

	srcMAC, dstMAC := *efrm.SourceHardwareAddr(), *efrm.DestinationHardwareAddr()
	*efrm.SourceHardwareAddr() = dstMAC
	*efrm.DestinationHardwareAddr() = srcMAC

	return ipOff + int(ifrm.TotalLength())
}
