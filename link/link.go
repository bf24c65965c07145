// Package link defines the boundary between this stack and the
// Ethernet MAC+PHY controller it runs on top of, and a LoopbackLink
// test double standing in for a real SPI-attached controller (e.g. an
// ENC28J60) in tests.
package link

import lneto8 "github.com/soypat/lneto8"

// Link abstracts the Ethernet controller a [github.com/soypat/lneto8/netstack.NetStack]
// polls every super-loop iteration. A real implementation wraps a
// SPI-attached MAC+PHY such as the ENC28J60; RxPending/Receive/Send
// must never allocate or block beyond the underlying transfer.
type Link interface {
	// LinkUp reports whether the PHY reports a carrier.
	LinkUp() bool
	// RxPending reports how many received frames are buffered and
	// ready for Receive.
	RxPending() uint8
	// Receive copies the oldest buffered frame into buf and returns
	// its length. It returns [lneto8.ErrShortBuffer] if buf cannot
	// hold the frame.
	Receive(buf []byte) (int, error)
	// Send transmits buf as a single Ethernet frame.
	Send(buf []byte) error
	// SetMAC reprograms the controller's hardware address, used once at
	// boot to apply the burned-in or configured address before the
	// stack starts polling (spec §4.4's set_mac).
	SetMAC(mac lneto8.MacAddr) error
}

// LoopbackLink is an in-memory [Link] backed by a small FIFO of
// frames, standing in for wire transmission in tests: anything Sent
// becomes the next frame Received.
type LoopbackLink struct {
	fifo    [8][]byte
	head    int
	tail    int
	count   int
	up      bool
	dropped int
	mac     lneto8.MacAddr
}

// NewLoopbackLink returns a LoopbackLink with its link reported up.
func NewLoopbackLink() *LoopbackLink {
	return &LoopbackLink{up: true}
}

// SetLinkUp controls the value LinkUp reports, for simulating a
// cable-pull in tests.
func (l *LoopbackLink) SetLinkUp(up bool) { l.up = up }

func (l *LoopbackLink) LinkUp() bool { return l.up }

func (l *LoopbackLink) RxPending() uint8 {
	if l.count > 255 {
		return 255
	}
	return uint8(l.count)
}

// Send enqueues a copy of buf to be returned by a subsequent Receive.
// If the FIFO is full the frame is dropped and counted, mirroring a
// real controller's transmit-buffer exhaustion.
func (l *LoopbackLink) Send(buf []byte) error {
	if l.count == len(l.fifo) {
		l.dropped++
		return lneto8.ErrTableFull
	}
	cp := make([]byte, len(buf))
	copy(cp, buf)
	l.fifo[l.tail] = cp
	l.tail = (l.tail + 1) % len(l.fifo)
	l.count++
	return nil
}

func (l *LoopbackLink) Receive(buf []byte) (int, error) {
	if l.count == 0 {
		return 0, nil
	}
	frame := l.fifo[l.head]
	if len(frame) > len(buf) {
		return 0, lneto8.ErrShortBuffer
	}
	n := copy(buf, frame)
	l.fifo[l.head] = nil
	l.head = (l.head + 1) % len(l.fifo)
	l.count--
	return n, nil
}

// Dropped reports how many Sends were discarded due to a full FIFO.
func (l *LoopbackLink) Dropped() int { return l.dropped }

// SetMAC records mac for later retrieval by [LoopbackLink.MAC]. A real
// controller would reprogram its hardware address filter; this double
// has none.
func (l *LoopbackLink) SetMAC(mac lneto8.MacAddr) error {
	l.mac = mac
	return nil
}

// MAC returns the address last passed to SetMAC.
func (l *LoopbackLink) MAC() lneto8.MacAddr { return l.mac }
