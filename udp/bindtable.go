package udp

import (
	"github.com/soypat/lneto8/ethernet"
	"github.com/soypat/lneto8/ipv4"

	lneto8 "github.com/soypat/lneto8"
)

// Handler processes the payload of a datagram delivered to a bound
// port, in place: it may overwrite buf's contents with reply data and
// returns the reply's length (0 for no reply), mirroring the original
// firmware's udp_inbound_t callback signature.
type Handler func(buf []byte, src lneto8.IPv4Addr, srcPort uint16) (replyLen int)

type binding struct {
	port    uint16
	handler Handler
	used    bool
}

// BindTable is a fixed 10-slot table mapping UDP destination ports to
// [Handler] callbacks, matching UDP_MAX_BINDINGS in the original
// firmware's udp_bindings array.
type BindTable struct {
	slots [MaxBindings]binding
}

// Bind registers handler to be called for datagrams addressed to port.
// It returns [lneto8.ErrTableFull] if every slot is already bound.
// Binding an already-bound port replaces its handler.
func (t *BindTable) Bind(port uint16, handler Handler) error {
	free := -1
	for i := range t.slots {
		s := &t.slots[i]
		if s.used && s.port == port {
			s.handler = handler
			return nil
		}
		if !s.used && free < 0 {
			free = i
		}
	}
	if free < 0 {
		return lneto8.ErrTableFull
	}
	t.slots[free] = binding{port: port, handler: handler, used: true}
	return nil
}

// Unbind removes the handler registered for port, if any. It reports
// whether a binding was found and removed.
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

func (t *BindTable) lookup(port uint16) (Handler, bool) {
	for i := range t.slots {
		s := &t.slots[i]
		if s.used && s.port == port {
			return s.handler, true
		}
	}
	return nil, false
}

// Decode processes one inbound Ethernet+IPv4+UDP datagram (buf starting
// at the Ethernet header, ipOff the offset of the IPv4 header) per spec
// §4.8: if no handler is bound to the destination port, the datagram is
// dropped silently; a non-zero UDP checksum is verified and mismatches
// are dropped; otherwise the bound handler runs and, if it produces a
// reply, buf is rewritten in place as the reply datagram and its total
// length returned.
func (t *BindTable) Decode(buf []byte, ipOff int) (replyLen int, err error) {
	efrm, err := ethernet.NewFrame(buf)
	if err != nil {
		return 0, err
	}
	ifrm, err := ipv4.NewFrame(buf[ipOff:])
	if err != nil {
		return 0, nil
	}
	ufrm, err := NewFrame(ifrm.Payload())
	if err != nil {
		return 0, nil
	}
	var v lneto8.Validator
	ufrm.ValidateSize(&v)
	if v.Err() != nil {
		return 0, nil
	}

	handler, ok := t.lookup(ufrm.DestinationPort())
	if !ok {
		return 0, nil
	}
	if crc := ufrm.CRC(); crc != 0 {
		want := ufrm.CRC()
		ufrm.SetCRC(0)
		got := ufrm.CalculateCRC(ifrm)
		ufrm.SetCRC(want)
		if got != want {
			return 0, nil
		}
	}

	srcIP := *ifrm.SourceAddr()
	srcPort := ufrm.SourcePort()
	payload := ufrm.Payload()

	n := handler(payload, srcIP, srcPort)
	if n <= 0 {
		return 0, nil
	}

	dstIP := srcIP
	dstPort := srcPort
	srcIP = *ifrm.DestinationAddr()
	srcPort = ufrm.DestinationPort()

	ufrm.SetSourcePort(srcPort)
	ufrm.SetDestinationPort(dstPort)
	ufrm.SetLength(uint16(sizeHeader + n))
	ufrm.SetCRC(0)

	*ifrm.SourceAddr() = srcIP
	*ifrm.DestinationAddr() = dstIP
	ifrm.SetTotalLength(uint16(ifrm.HeaderLength() + sizeHeader + n))
	ifrm.SetProtocol(lneto8.IPProtoUDP)
	ifrm.SetCRC(0)
	ifrm.SetCRC(ifrm.CalculateHeaderCRC())
	ufrm.SetCRC(ufrm.CalculateCRC(ifrm))

	srcMAC := *efrm.SourceHardwareAddr()
	dstMAC := *efrm.DestinationHardwareAddr()
	*efrm.SourceHardwareAddr() = dstMAC
	*efrm.DestinationHardwareAddr() = srcMAC

	return ipOff + int(ifrm.TotalLength()), nil
}
