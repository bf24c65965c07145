package icmp

import (
	"encoding/binary"

	lneto8 "github.com/soypat/lneto8"
)

// NewFrame returns a Frame over buf. An error is returned if buf is
// shorter than the fixed 8-byte ICMP header.
func NewFrame(buf []byte) (Frame, error) {
	if len(buf) < sizeHeader {
		return Frame{}, lneto8.ErrShortBuffer
	}
	return Frame{buf: buf}, nil
}

// Frame overlays an ICMP message header. See RFC 792.
type Frame struct {
	buf []byte
}

// RawData returns the underlying slice the Frame was created with.
func (frm Frame) RawData() []byte { return frm.buf }

// Type returns the ICMP message type.
func (frm Frame) Type() Type { return Type(frm.buf[0]) }

// SetType sets the ICMP message type.
func (frm Frame) SetType(t Type) { frm.buf[0] = uint8(t) }

// Code returns the ICMP message code, further qualifying Type.
func (frm Frame) Code() uint8 { return frm.buf[1] }

// SetCode sets the ICMP message code.
func (frm Frame) SetCode(code uint8) { frm.buf[1] = code }

// CRC returns the checksum field.
func (frm Frame) CRC() uint16 { return binary.BigEndian.Uint16(frm.buf[2:4]) }

// SetCRC sets the checksum field.
func (frm Frame) SetCRC(crc uint16) { binary.BigEndian.PutUint16(frm.buf[2:4], crc) }

// Identifier returns the echo request/reply identifier field.
func (frm Frame) Identifier() uint16 { return binary.BigEndian.Uint16(frm.buf[4:6]) }

// SetIdentifier sets the echo identifier field.
func (frm Frame) SetIdentifier(id uint16) { binary.BigEndian.PutUint16(frm.buf[4:6], id) }

// SequenceNumber returns the echo request/reply sequence number field.
func (frm Frame) SequenceNumber() uint16 { return binary.BigEndian.Uint16(frm.buf[6:8]) }

// SetSequenceNumber sets the echo sequence number field.
func (frm Frame) SetSequenceNumber(seq uint16) { binary.BigEndian.PutUint16(frm.buf[6:8], seq) }

// Data returns the echo payload, the bytes following the 8-byte header
// up to the length given to [NewFrame].
func (frm Frame) Data() []byte { return frm.buf[sizeHeader:] }

// CalculateCRC computes the RFC 792 checksum over the whole message
// (header and data), treating the checksum field itself as zero.
func (frm Frame) CalculateCRC() uint16 {
	var crc lneto8.CRC791
	crc.AddUint16(uint16(frm.Type())<<8 | uint16(frm.Code()))
	crc.Write(frm.buf[4:])
	return crc.Sum16()
}

// ValidateSize checks that buf was at least long enough to hold the
// fixed ICMP header; Frame already enforces this at construction, so
// this mainly exists for symmetry with the other protocol overlays.
func (frm Frame) ValidateSize(v *lneto8.Validator) {
	if len(frm.buf) < sizeHeader {
		v.AddError(lneto8.ErrShortBuffer)
	}
}
