// Package timer implements the stack's cooperative timer wheel.
//
// The original firmware kept timers on an intrusive doubly-linked list,
// with timer_set calloc'ing a node and timer_clear freeing it back. An
// 8-bit target running this stack has no heap, so the Go port replaces the
// linked list with a fixed-capacity slab: timers live in an array and are
// addressed by a small integer Handle instead of a pointer, but the
// scheduling semantics - interval timers that re-arm themselves by adding
// their interval to their start time, single-shot timers that clear
// themselves when their callback returns false - are carried over
// unchanged from timer_periodic.
package timer

import "github.com/soypat/lneto8"

// MaxTimers bounds the number of timers the wheel can hold concurrently.
// The stack itself only ever needs one (ARP table aging, every 10s), so 8
// leaves ample headroom for application-level timers (e.g. a DHCP lease
// renewal) without requiring an allocator.
const MaxTimers = 8

// Handle identifies a timer previously registered with [Wheel.Set].
// The zero Handle never refers to a valid timer.
type Handle uint8

// Callback is invoked when a timer's interval elapses. Returning false
// clears the timer (equivalent to the original firmware's timer_clear);
// returning true re-arms it for another interval, like a periodic alarm.
type Callback func(now uint32) bool

type slot struct {
	start    uint32
	interval uint32
	cb       Callback
	used     bool
}

// Wheel is a fixed-capacity collection of cooperative timers, serviced by
// calling Periodic once per super-loop iteration. It performs no
// allocation after construction.
type Wheel struct {
	slots [MaxTimers]slot
}

// Set installs a new timer that fires every interval milliseconds,
// starting now, and returns its Handle. It returns [lneto8.ErrTableFull]
// if the wheel has no free slot.
func (w *Wheel) Set(now, interval uint32, cb Callback) (Handle, error) {
	for i := range w.slots {
		if !w.slots[i].used {
			w.slots[i] = slot{start: now, interval: interval, cb: cb, used: true}
			return Handle(i + 1), nil
		}
	}
	return 0, lneto8.ErrTableFull
}

// Clear removes a timer before it fires again. It is a no-op if h does
// not refer to an active timer.
func (w *Wheel) Clear(h Handle) {
	if !w.valid(h) {
		return
	}
	w.slots[h-1] = slot{}
}

// Reset re-arms h for another full interval measured from its last
// scheduled start, equivalent to the original firmware's timer_reset.
func (w *Wheel) Reset(h Handle) {
	if !w.valid(h) {
		return
	}
	s := &w.slots[h-1]
	s.start += s.interval
}

// Restart re-arms h for another full interval measured from now,
// equivalent to the original firmware's timer_restart.
func (w *Wheel) Restart(h Handle, now uint32) {
	if !w.valid(h) {
		return
	}
	w.slots[h-1].start = now
}

// Active reports whether h refers to a currently scheduled timer.
func (w *Wheel) Active(h Handle) bool {
	return w.valid(h) && w.slots[h-1].used
}

func (w *Wheel) valid(h Handle) bool {
	return h != 0 && int(h) <= len(w.slots) && w.slots[h-1].used
}

// Periodic checks every active timer against now and fires the callback
// of any whose interval has elapsed. A callback that mutates the wheel
// (clearing or re-setting a different timer) is safe to call from within
// Periodic: the original firmware's timer_periodic captures the next
// pointer before invoking each callback for exactly this reason, and the
// Go port iterates by fixed index instead, which is equally immune to
// slice mutation since Set only ever reuses already-cleared slots.
func (w *Wheel) Periodic(now uint32) {
	for i := range w.slots {
		s := &w.slots[i]
		if !s.used {
			continue
		}
		if now-s.start < s.interval {
			continue
		}
		cb := s.cb
		if cb == nil {
			continue
		}
		if cb(now) {
			s.start += s.interval
		} else {
			*s = slot{}
		}
	}
}
