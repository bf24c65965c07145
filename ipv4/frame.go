package ipv4

import (
	"encoding/binary"
	"fmt"
	"net/netip"

	lneto8 "github.com/soypat/lneto8"
)

// NewFrame returns a Frame over buf. An error is returned if the buffer
// is shorter than the fixed 20-byte header; this stack speaks no IP
// options, so unlike a general-purpose IPv4 overlay a Frame's header is
// always exactly sizeHeader bytes. Call [Frame.ValidateSize] before
// trusting TotalLength-derived slices.
func NewFrame(buf []byte) (Frame, error) {
	if len(buf) < sizeHeader {
		return Frame{}, lneto8.ErrShortBuffer
	}
	return Frame{buf: buf}, nil
}

// Frame overlays an RFC 791 IPv4 header.
type Frame struct {
	buf []byte
}

// RawData returns the underlying slice the Frame was created with.
func (ifrm Frame) RawData() []byte { return ifrm.buf }

// HeaderLength returns the header length in bytes, always sizeHeader
// for this stack since it accepts no IP options.
func (ifrm Frame) HeaderLength() int { return sizeHeader }

func (ifrm Frame) version() uint8 { return ifrm.buf[0] >> 4 }
func (ifrm Frame) ihl() uint8     { return ifrm.buf[0] & 0xf }

// VersionAndIHL returns the version and IHL (header length in 32-bit
// words) fields. Version should always be 4; IHL should always be 5.
func (ifrm Frame) VersionAndIHL() (version, IHL uint8) {
	v := ifrm.buf[0]
	return v >> 4, v & 0xf
}

// SetVersionAndIHL sets the version and IHL fields.
func (ifrm Frame) SetVersionAndIHL(version, IHL uint8) { ifrm.buf[0] = version<<4 | IHL&0xf }

// ToS returns the Type of Service field.
func (ifrm Frame) ToS() ToS { return ToS(ifrm.buf[1]) }

// SetToS sets the ToS field.
func (ifrm Frame) SetToS(tos ToS) { ifrm.buf[1] = byte(tos) }

// TotalLength returns the entire datagram size in bytes, header included.
func (ifrm Frame) TotalLength() uint16 { return binary.BigEndian.Uint16(ifrm.buf[2:4]) }

// SetTotalLength sets the TotalLength field.
func (ifrm Frame) SetTotalLength(tl uint16) { binary.BigEndian.PutUint16(ifrm.buf[2:4], tl) }

// ID identifies the datagram for reassembly purposes. This stack never
// fragments or reassembles, so it is carried through unexamined.
func (ifrm Frame) ID() uint16 { return binary.BigEndian.Uint16(ifrm.buf[4:6]) }

// SetID sets the ID field.
func (ifrm Frame) SetID(id uint16) { binary.BigEndian.PutUint16(ifrm.buf[4:6], id) }

// Flags returns the flags/fragment-offset field.
func (ifrm Frame) Flags() Flags { return Flags(binary.BigEndian.Uint16(ifrm.buf[6:8])) }

// SetFlags sets the flags/fragment-offset field.
func (ifrm Frame) SetFlags(flags Flags) { binary.BigEndian.PutUint16(ifrm.buf[6:8], uint16(flags)) }

// TTL returns the time-to-live field.
func (ifrm Frame) TTL() uint8 { return ifrm.buf[8] }

// SetTTL sets the TTL field.
func (ifrm Frame) SetTTL(ttl uint8) { ifrm.buf[8] = ttl }

// Protocol returns the encapsulated protocol: ICMP, TCP or UDP.
func (ifrm Frame) Protocol() lneto8.IPProto { return lneto8.IPProto(ifrm.buf[9]) }

// SetProtocol sets the Protocol field.
func (ifrm Frame) SetProtocol(proto lneto8.IPProto) { ifrm.buf[9] = uint8(proto) }

// CRC returns the header checksum field.
func (ifrm Frame) CRC() uint16 { return binary.BigEndian.Uint16(ifrm.buf[10:12]) }

// SetCRC sets the header checksum field.
func (ifrm Frame) SetCRC(cs uint16) { binary.BigEndian.PutUint16(ifrm.buf[10:12], cs) }

// CalculateHeaderCRC computes the RFC 791 checksum over the header with
// the checksum field itself treated as zero.
func (ifrm Frame) CalculateHeaderCRC() uint16 {
	var crc lneto8.CRC791
	crc.WriteEven(ifrm.buf[0:10])
	crc.WriteEven(ifrm.buf[12:20])
	return crc.Sum16()
}

// CRCWriteTCPPseudo feeds the TCP pseudo-header (RFC 793 §3.1) into crc:
// source/destination address, zero byte, protocol, and TCP segment length.
func (ifrm Frame) CRCWriteTCPPseudo(crc *lneto8.CRC791) {
	crc.WriteEven(ifrm.SourceAddr()[:])
	crc.WriteEven(ifrm.DestinationAddr()[:])
	crc.AddUint16(uint16(ifrm.Protocol()))
	crc.AddUint16(ifrm.TotalLength() - uint16(ifrm.HeaderLength()))
}

// CRCWriteUDPPseudo feeds the UDP pseudo-header (RFC 768) into crc:
// source/destination address and protocol.
func (ifrm Frame) CRCWriteUDPPseudo(crc *lneto8.CRC791) {
	crc.WriteEven(ifrm.SourceAddr()[:])
	crc.WriteEven(ifrm.DestinationAddr()[:])
	crc.AddUint16(uint16(ifrm.Protocol()))
}

// SourceAddr returns a pointer to the source address field.
func (ifrm Frame) SourceAddr() *lneto8.IPv4Addr { return (*lneto8.IPv4Addr)(ifrm.buf[12:16]) }

// DestinationAddr returns a pointer to the destination address field.
func (ifrm Frame) DestinationAddr() *lneto8.IPv4Addr { return (*lneto8.IPv4Addr)(ifrm.buf[16:20]) }

// Payload returns the datagram's payload, delimited by TotalLength.
// Call [Frame.ValidateSize] first to avoid a panic on a bad length.
func (ifrm Frame) Payload() []byte {
	return ifrm.buf[sizeHeader:ifrm.TotalLength()]
}

// ClearHeader zeros out the header.
func (ifrm Frame) ClearHeader() {
	for i := range ifrm.buf[:sizeHeader] {
		ifrm.buf[i] = 0
	}
}

// ValidateSize checks the frame's length fields against the buffer it
// was created from.
func (ifrm Frame) ValidateSize(v *lneto8.Validator) {
	tl := ifrm.TotalLength()
	if tl < sizeHeader {
		v.AddError(lneto8.ErrInvalidLengthField)
	}
	if int(tl) > len(ifrm.buf) {
		v.AddError(lneto8.ErrShortBuffer)
	}
	if ifrm.ihl() != 5 {
		v.AddError(lneto8.ErrInvalidLengthField)
	}
}

// ValidateExceptCRC runs ValidateSize plus the version check and, if the
// Validator was configured with CheckEvil, the RFC 3514 evil-bit check.
// The header checksum itself is left to the caller: most callers
// recompute it anyway to decide whether to accept the datagram.
func (ifrm Frame) ValidateExceptCRC(v *lneto8.Validator) {
	ifrm.ValidateSize(v)
	if ifrm.version() != 4 {
		v.AddError(lneto8.ErrInvalidLengthField)
	}
	if v.CheckingEvil() && ifrm.Flags().IsEvil() {
		v.AddError(lneto8.ErrPacketDrop)
	}
}

func (ifrm Frame) String() string {
	dst := netip.AddrFrom4(*ifrm.DestinationAddr())
	src := netip.AddrFrom4(*ifrm.SourceAddr())
	tl := int(ifrm.TotalLength())
	return fmt.Sprintf("IP %s SRC=%s DST=%s LEN=%d TTL=%d ID=%d ToS=0x%x",
		ifrm.Protocol().String(), src.String(), dst.String(), tl, ifrm.TTL(), ifrm.ID(), uint8(ifrm.ToS()))
}
