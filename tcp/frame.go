package tcp

import (
	"encoding/binary"
	"fmt"

	"github.com/soypat/lneto8/ipv4"

	lneto8 "github.com/soypat/lneto8"
)

// NewFrame returns a Frame over buf. An error is returned if buf is
// shorter than the fixed 20-byte header; this stack never parses TCP
// options, so unlike a general-purpose overlay DataOffset is read but
// not used to locate a variable-length options section.
func NewFrame(buf []byte) (Frame, error) {
	if len(buf) < sizeHeader {
		return Frame{}, lneto8.ErrShortBuffer
	}
	return Frame{buf: buf}, nil
}

// Frame overlays a TCP segment header. See RFC 793.
type Frame struct {
	buf []byte
}

// RawData returns the underlying slice the Frame was created with.
func (tfrm Frame) RawData() []byte { return tfrm.buf }

// SourcePort identifies the sending port. Must be non-zero.
func (tfrm Frame) SourcePort() uint16 { return binary.BigEndian.Uint16(tfrm.buf[0:2]) }

// SetSourcePort sets the source port field.
func (tfrm Frame) SetSourcePort(src uint16) { binary.BigEndian.PutUint16(tfrm.buf[0:2], src) }

// DestinationPort identifies the receiving port. Must be non-zero.
func (tfrm Frame) DestinationPort() uint16 { return binary.BigEndian.Uint16(tfrm.buf[2:4]) }

// SetDestinationPort sets the destination port field.
func (tfrm Frame) SetDestinationPort(dst uint16) { binary.BigEndian.PutUint16(tfrm.buf[2:4], dst) }

// Seq returns the sequence number. If SYN is set this is the initial
// sequence number and the first data octet is Seq()+1.
func (tfrm Frame) Seq() uint32 { return binary.BigEndian.Uint32(tfrm.buf[4:8]) }

// SetSeq sets the sequence number field.
func (tfrm Frame) SetSeq(seq uint32) { binary.BigEndian.PutUint32(tfrm.buf[4:8], seq) }

// Ack returns the acknowledgment number, valid only if ACK is set.
func (tfrm Frame) Ack() uint32 { return binary.BigEndian.Uint32(tfrm.buf[8:12]) }

// SetAck sets the acknowledgment number field.
func (tfrm Frame) SetAck(ack uint32) { binary.BigEndian.PutUint32(tfrm.buf[8:12], ack) }

// DataOffset returns the header length in 32-bit words (minimum 5).
func (tfrm Frame) DataOffset() uint8 { return tfrm.buf[12] >> 4 }

// SetDataOffset sets the DataOffset field.
func (tfrm Frame) SetDataOffset(words uint8) { tfrm.buf[12] = words << 4 }

// HeaderLength returns the header length in bytes, DataOffset*4.
func (tfrm Frame) HeaderLength() int { return int(tfrm.DataOffset()) * 4 }

// Flags returns the control bits.
func (tfrm Frame) Flags() Flags { return Flags(tfrm.buf[13]) }

// SetFlags sets the control bits.
func (tfrm Frame) SetFlags(f Flags) { tfrm.buf[13] = byte(f) }

// WindowSize returns the receive window size.
func (tfrm Frame) WindowSize() uint16 { return binary.BigEndian.Uint16(tfrm.buf[14:16]) }

// SetWindowSize sets the receive window size field.
func (tfrm Frame) SetWindowSize(wnd uint16) { binary.BigEndian.PutUint16(tfrm.buf[14:16], wnd) }

// CRC returns the checksum field.
func (tfrm Frame) CRC() uint16 { return binary.BigEndian.Uint16(tfrm.buf[16:18]) }

// SetCRC sets the checksum field.
func (tfrm Frame) SetCRC(crc uint16) { binary.BigEndian.PutUint16(tfrm.buf[16:18], crc) }

// UrgentPtr returns the urgent pointer field, valid only if URG is set.
func (tfrm Frame) UrgentPtr() uint16 { return binary.BigEndian.Uint16(tfrm.buf[18:20]) }

// SetUrgentPtr sets the urgent pointer field.
func (tfrm Frame) SetUrgentPtr(ptr uint16) { binary.BigEndian.PutUint16(tfrm.buf[18:20], ptr) }

// ClearHeader zeros out the fixed 20-byte header.
func (tfrm Frame) ClearHeader() {
	for i := range tfrm.buf[:sizeHeader] {
		tfrm.buf[i] = 0
	}
}

// CalculateCRC computes the RFC 793 checksum over the pseudo-header
// supplied by ifrm plus this segment's header and payload (up to
// length, total bytes from the start of the TCP header), with the
// checksum field itself treated as zero.
func (tfrm Frame) CalculateCRC(ifrm ipv4.Frame, length int) uint16 {
	var crc lneto8.CRC791
	ifrm.CRCWriteTCPPseudo(&crc)
	crc.Write(tfrm.buf[:length])
	return crc.Sum16()
}

// ValidateSize checks the frame's DataOffset field against the buffer
// it was created from. This stack rejects segments carrying options
// (DataOffset != 5) rather than parsing them.
func (tfrm Frame) ValidateSize(v *lneto8.Validator) {
	if tfrm.DataOffset() != 5 {
		v.AddError(lneto8.ErrInvalidLengthField)
	}
	if len(tfrm.buf) < sizeHeader {
		v.AddError(lneto8.ErrShortBuffer)
	}
}

func (tfrm Frame) String() string {
	return fmt.Sprintf("TCP %d->%d SEQ=%d ACK=%d FLAGS=%s WND=%d",
		tfrm.SourcePort(), tfrm.DestinationPort(), tfrm.Seq(), tfrm.Ack(), tfrm.Flags().String(), tfrm.WindowSize())
}
