package udp

import (
	"encoding/binary"

	"github.com/soypat/lneto8/ipv4"

	lneto8 "github.com/soypat/lneto8"
)

// NewFrame returns a Frame over buf. An error is returned if buf is
// shorter than the fixed 8-byte UDP header.
func NewFrame(buf []byte) (Frame, error) {
	if len(buf) < sizeHeader {
		return Frame{}, lneto8.ErrShortBuffer
	}
	return Frame{buf: buf}, nil
}

// Frame overlays a UDP datagram header. See RFC 768.
type Frame struct {
	buf []byte
}

// RawData returns the underlying slice the Frame was created with.
func (ufrm Frame) RawData() []byte { return ufrm.buf }

// SourcePort identifies the sending port. Must be non-zero.
func (ufrm Frame) SourcePort() uint16 { return binary.BigEndian.Uint16(ufrm.buf[0:2]) }

// SetSourcePort sets the source port field.
func (ufrm Frame) SetSourcePort(src uint16) { binary.BigEndian.PutUint16(ufrm.buf[0:2], src) }

// DestinationPort identifies the receiving port. Must be non-zero.
func (ufrm Frame) DestinationPort() uint16 { return binary.BigEndian.Uint16(ufrm.buf[2:4]) }

// SetDestinationPort sets the destination port field.
func (ufrm Frame) SetDestinationPort(dst uint16) { binary.BigEndian.PutUint16(ufrm.buf[2:4], dst) }

// Length is the length in bytes of the UDP header plus payload. Minimum
// is 8 (header only).
func (ufrm Frame) Length() uint16 { return binary.BigEndian.Uint16(ufrm.buf[4:6]) }

// SetLength sets the Length field.
func (ufrm Frame) SetLength(length uint16) { binary.BigEndian.PutUint16(ufrm.buf[4:6], length) }

// CRC returns the checksum field. Zero means no checksum was computed,
// per RFC 768; use [lneto8.NeverZeroChecksum] to avoid emitting it.
func (ufrm Frame) CRC() uint16 { return binary.BigEndian.Uint16(ufrm.buf[6:8]) }

// SetCRC sets the checksum field.
func (ufrm Frame) SetCRC(checksum uint16) { binary.BigEndian.PutUint16(ufrm.buf[6:8], checksum) }

// Payload returns the datagram's payload, delimited by Length. Call
// [Frame.ValidateSize] first to avoid a panic on a bad length.
func (ufrm Frame) Payload() []byte {
	return ufrm.buf[sizeHeader:ufrm.Length()]
}

// ClearHeader zeros out the header.
func (ufrm Frame) ClearHeader() {
	for i := range ufrm.buf[:sizeHeader] {
		ufrm.buf[i] = 0
	}
}

// CalculateCRC computes the RFC 768 checksum over the pseudo-header
// supplied by ifrm plus this datagram's header and payload, with the
// checksum field itself treated as zero.
func (ufrm Frame) CalculateCRC(ifrm ipv4.Frame) uint16 {
	var crc lneto8.CRC791
	ifrm.CRCWriteUDPPseudo(&crc)
	crc.AddUint16(ufrm.Length())
	crc.AddUint16(ufrm.SourcePort())
	crc.AddUint16(ufrm.DestinationPort())
	crc.AddUint16(ufrm.Length())
	crc.Write(ufrm.buf[sizeHeader:ufrm.Length()])
	return lneto8.NeverZeroChecksum(crc.Sum16())
}

// ValidateSize checks the frame's length field against the buffer it
// was created from.
func (ufrm Frame) ValidateSize(v *lneto8.Validator) {
	ul := ufrm.Length()
	if ul < sizeHeader {
		v.AddError(lneto8.ErrInvalidLengthField)
	}
	if int(ul) > len(ufrm.buf) {
		v.AddError(lneto8.ErrShortBuffer)
	}
}
