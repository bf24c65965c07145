package icmp

import (
	"github.com/soypat/lneto8/ethernet"
	"github.com/soypat/lneto8/ipv4"

	lneto8 "github.com/soypat/lneto8"
)

// EchoResponder answers ICMP echo requests addressed to Host in place,
// the Go equivalent of the original firmware's icmp_echo_reply: swap
// source/destination at both the Ethernet and IP layers, flip the
// message type, and recompute both checksums.
type EchoResponder struct {
	Host *lneto8.HostConfig
}

// Decode inspects one inbound Ethernet+IPv4+ICMP frame (buf starting at
// the Ethernet header, ipOff the offset of the IPv4 header within buf)
// and, if it is an echo request, rewrites buf into the reply in place
// and returns its length. It returns 0, nil for anything else.
func (r *EchoResponder) Decode(buf []byte, ipOff int) (replyLen int, err error) {
	efrm, err := ethernet.NewFrame(buf)
	if err != nil {
		return 0, err
	}
	ifrm, err := ipv4.NewFrame(buf[ipOff:])
	if err != nil {
		return 0, nil
	}
	icfrm, err := NewFrame(ifrm.Payload())
	if err != nil {
		return 0, nil
	}
	if icfrm.Type() != TypeEcho || icfrm.Code() != 0 {
		return 0, nil
	}

	srcMAC := *efrm.SourceHardwareAddr()
	*efrm.DestinationHardwareAddr() = srcMAC
	*efrm.SourceHardwareAddr() = r.Host.MAC

	srcIP := *ifrm.SourceAddr()
	*ifrm.DestinationAddr() = srcIP
	*ifrm.SourceAddr() = r.Host.IP

	icfrm.SetType(TypeEchoReply)
	icfrm.SetCode(0)
	icfrm.SetCRC(0)
	icfrm.SetCRC(icfrm.CalculateCRC())

	ifrm.SetCRC(0)
	ifrm.SetCRC(ifrm.CalculateHeaderCRC())

	return ipOff + int(ifrm.TotalLength()), nil
}
