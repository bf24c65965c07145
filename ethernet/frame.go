// Package ethernet overlays the 14-byte (18 with a single VLAN tag) IEEE
// 802.3 MAC header onto a caller-supplied buffer, following the frame
// overlay idiom used throughout this stack: no copying, no allocation,
// just typed accessors over a byte slice that outlives the call.
package ethernet

import (
	"encoding/binary"

	lneto8 "github.com/soypat/lneto8"
)

// NewFrame returns a Frame over buf. An error is returned if buf is
// shorter than the minimum (non-VLAN) header size. Callers should still
// call [Frame.ValidateSize] before trusting payload/VLAN accessors, since
// a short VLAN frame passes this initial check.
func NewFrame(buf []byte) (Frame, error) {
	if len(buf) < lneto8.SizeHeaderEthNoVLAN {
		return Frame{buf: nil}, lneto8.ErrShortBuffer
	}
	return Frame{buf: buf}, nil
}

// Frame encapsulates the raw bytes of an Ethernet frame, starting at the
// destination address (no preamble, no trailing FCS), and provides typed
// accessors over its fields. See IEEE 802.3.
type Frame struct {
	buf []byte
}

// RawData returns the underlying slice the Frame was created with.
func (efrm Frame) RawData() []byte { return efrm.buf }

// HeaderLength returns the header length: 14, or 18 if a VLAN tag is present.
func (efrm Frame) HeaderLength() int {
	if efrm.IsVLAN() {
		return 18
	}
	return lneto8.SizeHeaderEthNoVLAN
}

// Payload returns the data portion of the frame, handling VLAN tagging
// and an EtherType field that doubles as an 802.3 payload-length field.
func (efrm Frame) Payload() []byte {
	hl := efrm.HeaderLength()
	et := efrm.EtherTypeOrSize()
	if et.IsSize() {
		return efrm.buf[hl : hl+int(et)]
	}
	return efrm.buf[hl:]
}

// DestinationHardwareAddr returns the frame's destination MAC address.
func (efrm Frame) DestinationHardwareAddr() *lneto8.MacAddr {
	return (*lneto8.MacAddr)(efrm.buf[0:6])
}

// SourceHardwareAddr returns the frame's source MAC address.
func (efrm Frame) SourceHardwareAddr() *lneto8.MacAddr {
	return (*lneto8.MacAddr)(efrm.buf[6:12])
}

// IsBroadcast returns true if the destination address is the all-ones broadcast address.
func (efrm Frame) IsBroadcast() bool {
	return efrm.DestinationHardwareAddr().IsBroadcast()
}

// EtherTypeOrSize returns the EtherType/Size field. Callers should use
// [lneto8.EtherType.IsSize] to tell whether this is a valid EtherType or
// an 802.3 payload length.
func (efrm Frame) EtherTypeOrSize() lneto8.EtherType {
	return lneto8.EtherType(binary.BigEndian.Uint16(efrm.buf[12:14]))
}

// SetEtherType sets the EtherType/Size field.
func (efrm Frame) SetEtherType(v lneto8.EtherType) {
	binary.BigEndian.PutUint16(efrm.buf[12:14], uint16(v))
}

// VLANTag holds the priority (PCP), drop indicator (DEI) and VLAN ID bits
// of an 802.1Q VLAN tag.
type VLANTag uint16

// DropEligibleIndicator returns true if the DEI bit is set.
func (vt VLANTag) DropEligibleIndicator() bool { return vt&(1<<3) != 0 }

// PriorityCodePoint returns the 3-bit 802.1p class-of-service field.
func (vt VLANTag) PriorityCodePoint() uint8 { return uint8(vt & 0b111) }

// VLANIdentifier returns the 12-bit VLAN ID field.
func (vt VLANTag) VLANIdentifier() uint16 { return uint16(vt) >> 4 }

// VLANTag returns the tag field following the TPID=0x8100 marker. Call
// [Frame.ValidateSize] first to ensure this does not panic.
func (efrm Frame) VLANTag() VLANTag { return VLANTag(binary.BigEndian.Uint16(efrm.buf[14:16])) }

// SetVLAN sets the EtherType to [lneto8.EtherTypeVLAN], the tag field and
// the inner EtherType field in one call.
func (efrm Frame) SetVLAN(tag VLANTag, innerType lneto8.EtherType) {
	efrm.SetEtherType(lneto8.EtherTypeVLAN)
	binary.BigEndian.PutUint16(efrm.buf[14:16], uint16(tag))
	binary.BigEndian.PutUint16(efrm.buf[16:18], uint16(innerType))
}

// VLANEtherType returns the inner EtherType of a VLAN-tagged frame.
func (efrm Frame) VLANEtherType() lneto8.EtherType {
	return lneto8.EtherType(binary.BigEndian.Uint16(efrm.buf[16:18]))
}

// IsVLAN returns true if the EtherType/Size field equals [lneto8.EtherTypeVLAN].
func (efrm Frame) IsVLAN() bool {
	return efrm.EtherTypeOrSize() == lneto8.EtherTypeVLAN
}

// ClearHeader zeros out the fixed (non-VLAN) header fields.
func (efrm Frame) ClearHeader() {
	for i := range efrm.buf[:lneto8.SizeHeaderEthNoVLAN] {
		efrm.buf[i] = 0
	}
}

// ValidateSize checks the frame's EtherType/size fields against the
// actual buffer length, recording any inconsistency in v.
func (efrm Frame) ValidateSize(v *lneto8.Validator) {
	sz := efrm.EtherTypeOrSize()
	if sz.IsSize() && len(efrm.buf) < int(sz) {
		v.AddError(lneto8.ErrShortBuffer)
	}
	if sz == lneto8.EtherTypeVLAN && len(efrm.buf) < 18 {
		v.AddError(lneto8.ErrShortBuffer)
	}
}

func (efrm Frame) String() string {
	src := efrm.SourceHardwareAddr()
	dst := efrm.DestinationHardwareAddr()
	return "ETH " + src.String() + " -> " + dst.String() + " " + efrm.EtherTypeOrSize().String()
}
