package socket

import (
	"testing"

	"github.com/soypat/lneto8/arp"
	"github.com/soypat/lneto8/ethernet"
	"github.com/soypat/lneto8/ipv4"
	"github.com/soypat/lneto8/netstack"

	lneto8 "github.com/soypat/lneto8"
)

type testLink struct {
	tx  [][]byte
	up  bool
	mac lneto8.MacAddr
}

func newTestLink() *testLink { return &testLink{up: true} }

func (l *testLink) LinkUp() bool     { return l.up }
func (l *testLink) RxPending() uint8 { return 0 }
func (l *testLink) Receive(buf []byte) (int, error) {
	return 0, nil
}
func (l *testLink) Send(buf []byte) error {
	cp := make([]byte, len(buf))
	copy(cp, buf)
	l.tx = append(l.tx, cp)
	return nil
}
func (l *testLink) SetMAC(mac lneto8.MacAddr) error {
	l.mac = mac
	return nil
}

func newTestStack(t *testing.T, host lneto8.HostConfig) (*netstack.NetStack, *testLink) {
	t.Helper()
	var ns netstack.NetStack
	ll := newTestLink()
	if err := ns.Configure(netstack.Config{Host: host, Link: ll}); err != nil {
		t.Fatal(err)
	}
	return &ns, ll
}

func testHost() lneto8.HostConfig {
	return lneto8.HostConfig{
		MAC:     lneto8.MacAddr{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01},
		IP:      lneto8.IPv4Addr{10, 0, 1, 30},
		Netmask: lneto8.IPv4Addr{255, 255, 255, 0},
		Router:  lneto8.IPv4Addr{10, 0, 1, 1},
	}
}

// S3 - outbound write with an unknown destination MAC substitutes an
// ARP request on the wire and queues the original datagram.
func TestScenarioS3UnknownMACQueuesAndRequests(t *testing.T) {
	host := testHost()
	ns, ll := newTestStack(t, host)
	pool := NewPool(ns)

	h, err := pool.Create(FamilyINET, TypeDgram)
	if err != nil {
		t.Fatal(err)
	}
	if err := pool.Bind(h, 9000, nil); err != nil {
		t.Fatal(err)
	}

	dest := lneto8.IPv4Addr{10, 0, 1, 99}
	n, err := pool.Write(h, dest, 4000, []byte("hi"))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("got %d want 2", n)
	}

	if len(ll.tx) != 1 {
		t.Fatalf("expected exactly one transmitted frame, got %d", len(ll.tx))
	}
	frame := ll.tx[0]
	efrm, err := ethernet.NewFrame(frame)
	if err != nil {
		t.Fatal(err)
	}
	if efrm.EtherTypeOrSize() != lneto8.EtherTypeARP {
		t.Fatalf("expected an ARP request on the wire, got ethertype %v", efrm.EtherTypeOrSize())
	}
	if !efrm.DestinationHardwareAddr().IsBroadcast() {
		t.Fatal("expected ARP request destination to be broadcast")
	}
	afrm, err := arp.NewFrame(frame[14:])
	if err != nil {
		t.Fatal(err)
	}
	if afrm.Operation() != lneto8.ARPRequest {
		t.Fatal("expected ARP request opcode")
	}
	if !afrm.TargetProtocolAddr().Equal(dest) {
		t.Fatalf("expected ARP request to target %v, got %v", dest, *afrm.TargetProtocolAddr())
	}
	if ns.Table().Len() != 0 {
		t.Fatal("expected no ARP binding yet")
	}
}

// S4 - writing to an off-subnet destination resolves against the
// default router, not the destination address itself.
func TestScenarioS4OffSubnetResolvesViaRouter(t *testing.T) {
	host := testHost()
	ns, ll := newTestStack(t, host)
	ns.Table().Update(host.Router, lneto8.MacAddr{1, 2, 3, 4, 5, 6})

	pool := NewPool(ns)
	h, err := pool.Create(FamilyINET, TypeDgram)
	if err != nil {
		t.Fatal(err)
	}
	if err := pool.Bind(h, 9000, nil); err != nil {
		t.Fatal(err)
	}

	dest := lneto8.IPv4Addr{8, 8, 8, 8}
	if _, err := pool.Write(h, dest, 53, []byte("q")); err != nil {
		t.Fatal(err)
	}

	if len(ll.tx) != 1 {
		t.Fatalf("expected exactly one transmitted frame, got %d", len(ll.tx))
	}
	frame := ll.tx[0]
	efrm, _ := ethernet.NewFrame(frame)
	if efrm.EtherTypeOrSize() != lneto8.EtherTypeIPv4 {
		t.Fatalf("expected the datagram to be resolved and sent as IPv4, got %v", efrm.EtherTypeOrSize())
	}
	if *efrm.DestinationHardwareAddr() != (lneto8.MacAddr{1, 2, 3, 4, 5, 6}) {
		t.Fatal("expected destination MAC resolved against the router, not 8.8.8.8")
	}
	ifrm, _ := ipv4.NewFrame(frame[14:])
	if !ifrm.DestinationAddr().Equal(dest) {
		t.Fatal("expected IP destination to remain the off-subnet address")
	}
}

func TestCreateExhaustsPool(t *testing.T) {
	host := testHost()
	ns, _ := newTestStack(t, host)
	pool := NewPool(ns)
	for i := 0; i < MaxSockets; i++ {
		if _, err := pool.Create(FamilyINET, TypeDgram); err != nil {
			t.Fatalf("unexpected error at %d: %v", i, err)
		}
	}
	if _, err := pool.Create(FamilyINET, TypeDgram); err != lneto8.ErrTableFull {
		t.Fatalf("got %v want ErrTableFull", err)
	}
}

func TestBindUnimplementedFamily(t *testing.T) {
	host := testHost()
	ns, _ := newTestStack(t, host)
	pool := NewPool(ns)
	h, err := pool.Create(FamilyINET, TypeStream)
	if err != nil {
		t.Fatal(err)
	}
	if err := pool.Bind(h, 80, nil); err != lneto8.ErrNotImplemented {
		t.Fatalf("got %v want ErrNotImplemented", err)
	}
}

func TestCloseUnbindsPort(t *testing.T) {
	host := testHost()
	ns, _ := newTestStack(t, host)
	pool := NewPool(ns)
	h, err := pool.Create(FamilyINET, TypeDgram)
	if err != nil {
		t.Fatal(err)
	}
	if err := pool.Bind(h, 12345, func([]byte, lneto8.IPv4Addr, uint16) int { return 0 }); err != nil {
		t.Fatal(err)
	}
	if err := pool.Close(h); err != nil {
		t.Fatal(err)
	}
	// Port should be free again.
	h2, err := pool.Create(FamilyINET, TypeDgram)
	if err != nil {
		t.Fatal(err)
	}
	if err := pool.Bind(h2, 12345, func([]byte, lneto8.IPv4Addr, uint16) int { return 0 }); err != nil {
		t.Fatal(err)
	}
}
