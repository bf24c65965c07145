package udp

import (
	"testing"

	"github.com/soypat/lneto8/ethernet"
	"github.com/soypat/lneto8/ipv4"

	lneto8 "github.com/soypat/lneto8"
)

func buildDatagram(srcIP, dstIP lneto8.IPv4Addr, srcPort, dstPort uint16, payload []byte) []byte {
	const ipOff = 14
	buf := make([]byte, ipOff+20+sizeHeader+len(payload))
	efrm, _ := ethernet.NewFrame(buf)
	efrm.SetEtherType(lneto8.EtherTypeIPv4)

	ifrm, _ := ipv4.NewFrame(buf[ipOff:])
	ifrm.SetVersionAndIHL(4, 5)
	ifrm.SetTotalLength(uint16(20 + sizeHeader + len(payload)))
	ifrm.SetTTL(64)
	ifrm.SetProtocol(lneto8.IPProtoUDP)
	*ifrm.SourceAddr() = srcIP
	*ifrm.DestinationAddr() = dstIP

	ufrm, _ := NewFrame(ifrm.Payload())
	ufrm.SetSourcePort(srcPort)
	ufrm.SetDestinationPort(dstPort)
	ufrm.SetLength(uint16(sizeHeader + len(payload)))
	copy(ufrm.buf[sizeHeader:], payload)
	ufrm.SetCRC(0)
	ufrm.SetCRC(ufrm.CalculateCRC(ifrm))

	return buf
}

func TestBindTableEchoesViaHandler(t *testing.T) {
	var bt BindTable
	echoed := false
	err := bt.Bind(7, func(buf []byte, src lneto8.IPv4Addr, srcPort uint16) int {
		echoed = true
		return len(buf) // data already in place, echo it back unchanged
	})
	if err != nil {
		t.Fatal(err)
	}

	srcIP := lneto8.IPv4Addr{10, 0, 1, 50}
	dstIP := lneto8.IPv4Addr{10, 0, 1, 30}
	payload := []byte("hello")
	buf := buildDatagram(srcIP, dstIP, 4000, 7, payload)

	n, err := bt.Decode(buf, 14)
	if err != nil {
		t.Fatal(err)
	}
	if !echoed {
		t.Fatal("expected handler invoked")
	}
	if n == 0 {
		t.Fatal("expected reply length")
	}

	ifrm, _ := ipv4.NewFrame(buf[14:])
	ufrm, _ := NewFrame(ifrm.Payload())
	if ufrm.SourcePort() != 7 || ufrm.DestinationPort() != 4000 {
		t.Fatalf("expected ports swapped, got src=%d dst=%d", ufrm.SourcePort(), ufrm.DestinationPort())
	}
	if !ifrm.SourceAddr().Equal(dstIP) || !ifrm.DestinationAddr().Equal(srcIP) {
		t.Fatal("expected IP addresses swapped")
	}
	if string(ufrm.Payload()) != string(payload) {
		t.Fatalf("expected echoed payload, got %q", ufrm.Payload())
	}
}

func TestBindTableDropsUnboundPort(t *testing.T) {
	var bt BindTable
	buf := buildDatagram(lneto8.IPv4Addr{10, 0, 1, 50}, lneto8.IPv4Addr{10, 0, 1, 30}, 4000, 9999, []byte("x"))
	n, err := bt.Decode(buf, 14)
	if err != nil || n != 0 {
		t.Fatalf("expected silent drop for unbound port, got %d %v", n, err)
	}
}

func TestBindTableFull(t *testing.T) {
	var bt BindTable
	noop := func([]byte, lneto8.IPv4Addr, uint16) int { return 0 }
	for i := 0; i < MaxBindings; i++ {
		if err := bt.Bind(uint16(1000+i), noop); err != nil {
			t.Fatalf("unexpected error binding slot %d: %v", i, err)
		}
	}
	if err := bt.Bind(9999, noop); err != lneto8.ErrTableFull {
		t.Fatalf("expected ErrTableFull, got %v", err)
	}
}

func TestBindTableUnbind(t *testing.T) {
	var bt BindTable
	noop := func([]byte, lneto8.IPv4Addr, uint16) int { return 0 }
	bt.Bind(53, noop)
	if !bt.Unbind(53) {
		t.Fatal("expected unbind to succeed")
	}
	if bt.Unbind(53) {
		t.Fatal("expected second unbind to report no binding")
	}
}
