// Package pqueue defers outbound frames that could not be sent because
// their destination MAC address was still unresolved, implementing the
// "(future work)"/"XXX: Unqueue packets" contract the original firmware
// left unfinished (spec §4.11, §9): [arp.Resolver.Encode] enqueues a
// frame on a cache miss, and [arp.Resolver.Decode] drains it again via
// Dequeue once an ARP reply binds the target IP.
//
// The original left no implementation to port, only a header comment
// describing the intent, so the fixed-capacity, compact-in-place shape
// here follows the same idiom as the teacher library's bounded slices
// (e.g. arp.Handler's pendingResponse/queries arrays): a flat array
// scanned linearly, no allocation after construction.
package pqueue

import lneto8 "github.com/soypat/lneto8"

// Size bounds the number of frames that may be queued awaiting ARP
// resolution at once. Several datagrams can legitimately target one
// unresolved IP (e.g. a burst of UDP writes before the first reply
// lands), so this is sized independently of and larger than the ARP
// table's own entry count.
const Size = 8

// MaxFrame bounds the size of a queued frame: the largest Ethernet
// frame this stack ever handles (1500 payload + 14 header), rounded up.
const MaxFrame = 1518

type entry struct {
	length int
	buf    [MaxFrame]byte
	target lneto8.IPv4Addr
	expiry uint32
	used   bool
}

// Queue is a fixed-capacity FIFO-ish store of frames awaiting ARP
// resolution, keyed by their unresolved destination IP. It implements
// [github.com/soypat/lneto8/arp.Enqueuer].
type Queue struct {
	entries [Size]entry
	now     uint32
	ttl     uint32
}

// SetTTL sets how many milliseconds (as measured by the caller's clock)
// a queued frame may wait for resolution before [Queue.Periodic] drops
// it. A zero TTL (the default) disables expiry.
func (q *Queue) SetTTL(ttl uint32) { q.ttl = ttl }

// Enqueue stores a copy of frame to be resent once target resolves, set
// to expire ttl milliseconds (from [Queue.SetTTL]) after the most
// recent [Queue.Periodic] call. It returns [lneto8.ErrTableFull] if
// every slot is occupied; the caller has no choice but to drop the
// frame, mirroring the protocol path's general "resource exhaustion
// never blocks" policy (spec §7).
//
// Enqueue takes no explicit timestamp so it satisfies
// [github.com/soypat/lneto8/arp.Enqueuer] directly, matching the shape
// [arp.Resolver.Encode] calls it with; the queue's notion of "now"
// advances once per [Queue.Periodic] call from the super-loop.
func (q *Queue) Enqueue(target lneto8.IPv4Addr, frame []byte) error {
	if len(frame) > MaxFrame {
		return lneto8.ErrShortBuffer
	}
	for i := range q.entries {
		e := &q.entries[i]
		if e.used {
			continue
		}
		e.length = copy(e.buf[:], frame)
		e.target = target
		e.expiry = q.now + q.ttl
		e.used = true
		return nil
	}
	return lneto8.ErrTableFull
}

// Dequeue removes and returns the queued frame addressed to target that
// sits in the lowest-numbered slot, if any. Insertion order is not
// recorded, so once freed slots are reused this is not necessarily the
// oldest frame for target. The returned slice aliases Queue's internal storage
// and is only valid until the next Enqueue/Dequeue call reusing that
// slot.
func (q *Queue) Dequeue(target lneto8.IPv4Addr) ([]byte, bool) {
	for i := range q.entries {
		e := &q.entries[i]
		if !e.used || !e.target.Equal(target) {
			continue
		}
		e.used = false
		return e.buf[:e.length], true
	}
	return nil, false
}

// Periodic drops every queued frame whose expiry has passed, per spec
// §4.11's "periodic() drops entries past expiry". It is a no-op when
// [Queue.SetTTL] has not been called (ttl == 0 leaves expiry in the
// past immediately, so callers that want expiry must configure a TTL
// before relying on this).
func (q *Queue) Periodic(now uint32) {
	q.now = now
	if q.ttl == 0 {
		return
	}
	for i := range q.entries {
		e := &q.entries[i]
		if e.used && now-e.expiry < 1<<31 {
			*e = entry{}
		}
	}
}

// Len reports how many frames are currently queued.
func (q *Queue) Len() int {
	n := 0
	for i := range q.entries {
		if q.entries[i].used {
			n++
		}
	}
	return n
}
