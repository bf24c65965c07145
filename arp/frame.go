package arp

import (
	"encoding/binary"
	"fmt"
	"net/netip"

	lneto8 "github.com/soypat/lneto8"
)

// NewFrame returns a Frame over buf. An error is returned if buf is
// shorter than the fixed 28-byte IPv4-over-Ethernet ARP header; this
// stack never negotiates variable hardware/protocol address sizes, so
// unlike the teacher library's generic ARP frame this overlay is fixed
// to that one shape.
func NewFrame(buf []byte) (Frame, error) {
	if len(buf) < SizeHeaderIPv4 {
		return Frame{}, lneto8.ErrShortBuffer
	}
	return Frame{buf: buf[:SizeHeaderIPv4]}, nil
}

// Frame overlays the 28-byte ARP header used to resolve IPv4 addresses
// over Ethernet. See RFC 826.
type Frame struct {
	buf []byte
}

// RawData returns the underlying slice the Frame was created with.
func (afrm Frame) RawData() []byte { return afrm.buf }

// Hardware returns the hardware type and address length fields.
func (afrm Frame) Hardware() (htype uint16, length uint8) {
	return binary.BigEndian.Uint16(afrm.buf[0:2]), afrm.buf[4]
}

// SetHardware sets the hardware type and address length fields.
func (afrm Frame) SetHardware(htype uint16, length uint8) {
	binary.BigEndian.PutUint16(afrm.buf[0:2], htype)
	afrm.buf[4] = length
}

// Protocol returns the protocol (EtherType) and address length fields.
func (afrm Frame) Protocol() (etype lneto8.EtherType, length uint8) {
	return lneto8.EtherType(binary.BigEndian.Uint16(afrm.buf[2:4])), afrm.buf[5]
}

// SetProtocol sets the protocol (EtherType) and address length fields.
func (afrm Frame) SetProtocol(etype lneto8.EtherType, length uint8) {
	binary.BigEndian.PutUint16(afrm.buf[2:4], uint16(etype))
	afrm.buf[5] = length
}

// Operation returns the ARP opcode (request or reply).
func (afrm Frame) Operation() lneto8.ARPOp {
	return lneto8.ARPOp(binary.BigEndian.Uint16(afrm.buf[6:8]))
}

// SetOperation sets the ARP opcode field.
func (afrm Frame) SetOperation(op lneto8.ARPOp) {
	binary.BigEndian.PutUint16(afrm.buf[6:8], uint16(op))
}

// SenderHardwareAddr returns the sender's MAC address field.
func (afrm Frame) SenderHardwareAddr() *lneto8.MacAddr { return (*lneto8.MacAddr)(afrm.buf[8:14]) }

// SenderProtocolAddr returns the sender's IPv4 address field.
func (afrm Frame) SenderProtocolAddr() *lneto8.IPv4Addr { return (*lneto8.IPv4Addr)(afrm.buf[14:18]) }

// TargetHardwareAddr returns the target's MAC address field.
func (afrm Frame) TargetHardwareAddr() *lneto8.MacAddr { return (*lneto8.MacAddr)(afrm.buf[18:24]) }

// TargetProtocolAddr returns the target's IPv4 address field.
func (afrm Frame) TargetProtocolAddr() *lneto8.IPv4Addr { return (*lneto8.IPv4Addr)(afrm.buf[24:28]) }

// SwapSenderTarget exchanges the sender and target (hardware, protocol)
// address pairs in place, the core transform behind request->reply
// rewriting.
func (afrm Frame) SwapSenderTarget() {
	sh, sp := *afrm.SenderHardwareAddr(), *afrm.SenderProtocolAddr()
	*afrm.SenderHardwareAddr() = *afrm.TargetHardwareAddr()
	*afrm.SenderProtocolAddr() = *afrm.TargetProtocolAddr()
	*afrm.TargetHardwareAddr() = sh
	*afrm.TargetProtocolAddr() = sp
}

// ClearHeader zeros out the entire header.
func (afrm Frame) ClearHeader() {
	for i := range afrm.buf {
		afrm.buf[i] = 0
	}
}

// ValidateSize checks the frame's declared address lengths against the
// fixed IPv4-over-Ethernet shape this stack understands.
func (afrm Frame) ValidateSize(v *lneto8.Validator) {
	_, hlen := afrm.Hardware()
	_, plen := afrm.Protocol()
	if hlen != 6 || plen != 4 {
		v.AddError(lneto8.ErrInvalidLengthField)
	}
}

func (afrm Frame) String() string {
	htype, _ := afrm.Hardware()
	ptype, _ := afrm.Protocol()
	sender := netip.AddrFrom4(*afrm.SenderProtocolAddr())
	target := netip.AddrFrom4(*afrm.TargetProtocolAddr())
	return fmt.Sprintf("ARP %s HW=%d PROTO=%s SENDER=(%s,%s) TARGET=(%s,%s)",
		afrm.Operation().String(), htype, ptype.String(),
		afrm.SenderHardwareAddr().String(), sender.String(),
		afrm.TargetHardwareAddr().String(), target.String())
}
