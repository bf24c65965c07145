package icmp

import (
	"testing"

	"github.com/soypat/lneto8/ethernet"
	"github.com/soypat/lneto8/ipv4"

	lneto8 "github.com/soypat/lneto8"
)

func buildEchoRequest(data []byte) ([]byte, lneto8.MacAddr, lneto8.IPv4Addr) {
	const ipOff = 14
	buf := make([]byte, ipOff+20+8+len(data))
	efrm, _ := ethernet.NewFrame(buf)
	peerMAC := lneto8.MacAddr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}
	*efrm.SourceHardwareAddr() = peerMAC
	efrm.SetEtherType(lneto8.EtherTypeIPv4)

	ifrm, _ := ipv4.NewFrame(buf[ipOff:])
	ifrm.SetVersionAndIHL(4, 5)
	ifrm.SetTotalLength(uint16(20 + 8 + len(data)))
	ifrm.SetTTL(64)
	ifrm.SetProtocol(lneto8.IPProtoICMP)
	peerIP := lneto8.IPv4Addr{10, 0, 1, 77}
	*ifrm.SourceAddr() = peerIP
	*ifrm.DestinationAddr() = lneto8.IPv4Addr{10, 0, 1, 30}

	icfrm, _ := NewFrame(ifrm.Payload())
	icfrm.SetType(TypeEcho)
	icfrm.SetCode(0)
	icfrm.SetIdentifier(0x1234)
	icfrm.SetSequenceNumber(1)
	copy(icfrm.Data(), data)
	icfrm.SetCRC(icfrm.CalculateCRC())

	return buf, peerMAC, peerIP
}

func TestEchoResponderRewritesReply(t *testing.T) {
	host := &lneto8.HostConfig{
		MAC: lneto8.MacAddr{1, 2, 3, 4, 5, 6},
		IP:  lneto8.IPv4Addr{10, 0, 1, 30},
	}
	data := []byte("ping-payload")
	buf, peerMAC, peerIP := buildEchoRequest(data)

	r := EchoResponder{Host: host}
	n, err := r.Decode(buf, 14)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(buf) {
		t.Fatalf("expected reply length %d, got %d", len(buf), n)
	}

	efrm, _ := ethernet.NewFrame(buf)
	if *efrm.DestinationHardwareAddr() != peerMAC {
		t.Fatal("expected ethernet dest to be original sender")
	}
	if *efrm.SourceHardwareAddr() != host.MAC {
		t.Fatal("expected ethernet source to be host MAC")
	}

	ifrm, _ := ipv4.NewFrame(buf[14:])
	if !ifrm.DestinationAddr().Equal(peerIP) {
		t.Fatal("expected IP dest to be original sender")
	}
	if !ifrm.SourceAddr().Equal(host.IP) {
		t.Fatal("expected IP source to be host IP")
	}

	icfrm, _ := NewFrame(ifrm.Payload())
	if icfrm.Type() != TypeEchoReply {
		t.Fatal("expected echo reply type")
	}
	if string(icfrm.Data()) != string(data) {
		t.Fatal("expected echo payload preserved")
	}
	wantCRC := icfrm.CRC()
	icfrm.SetCRC(0)
	if icfrm.CalculateCRC() != wantCRC {
		t.Fatal("expected valid ICMP checksum after rewrite")
	}

	wantIPCRC := ifrm.CRC()
	ifrm.SetCRC(0)
	if ifrm.CalculateHeaderCRC() != wantIPCRC {
		t.Fatal("expected valid IP header checksum after rewrite")
	}
}

func TestEchoResponderIgnoresNonEcho(t *testing.T) {
	host := &lneto8.HostConfig{MAC: lneto8.MacAddr{1, 2, 3, 4, 5, 6}, IP: lneto8.IPv4Addr{10, 0, 1, 30}}
	buf, _, _ := buildEchoRequest(nil)
	ifrm, _ := ipv4.NewFrame(buf[14:])
	icfrm, _ := NewFrame(ifrm.Payload())
	icfrm.SetType(TypeDestinationUnreachable)

	r := EchoResponder{Host: host}
	n, err := r.Decode(buf, 14)
	if err != nil || n != 0 {
		t.Fatalf("expected no reply for non-echo ICMP, got %d %v", n, err)
	}
}
