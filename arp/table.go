package arp

import lneto8 "github.com/soypat/lneto8"

// Entry is one IPv4-to-MAC binding held by a [Table]. An entry is unused
// iff its IP is the zero address, mirroring the original firmware's
// "zero the ip_addr field" convention for a free slot.
type Entry struct {
	IP       lneto8.IPv4Addr
	MAC      lneto8.MacAddr
	ageTicks uint8
}

// Unused reports whether e holds no binding.
func (e *Entry) Unused() bool { return e.IP.IsEmpty() }

// Table is a fixed 10-entry cache of IPv4-to-MAC bindings, aged out on a
// ~10s periodic tick ([Table.Age]) and evicted under the same policy as
// the original firmware's arp_update: refresh an existing binding in
// place, else take the first unused slot, else evict the entry with the
// greatest modular age.
type Table struct {
	entries [MaxEntries]Entry
	time    uint8
}

// Lookup returns the MAC address bound to ip and true, or the zero
// address and false if ip has no current binding.
func (t *Table) Lookup(ip lneto8.IPv4Addr) (lneto8.MacAddr, bool) {
	for i := range t.entries {
		e := &t.entries[i]
		if !e.Unused() && e.IP.Equal(ip) {
			return e.MAC, true
		}
	}
	return lneto8.MacAddr{}, false
}

// Update inserts or refreshes the binding of ip to mac, per the
// insertion policy of spec §4.5: refresh an existing entry for ip,
// else use the first unused slot, else evict the modularly oldest
// entry. Updating the same (ip, mac) pair repeatedly is idempotent.
func (t *Table) Update(ip lneto8.IPv4Addr, mac lneto8.MacAddr) {
	if ip.IsEmpty() {
		return
	}
	for i := range t.entries {
		e := &t.entries[i]
		if !e.Unused() && e.IP.Equal(ip) {
			e.MAC = mac
			e.ageTicks = t.time
			return
		}
	}
	freeIdx := -1
	oldestIdx := 0
	var oldestAge uint8
	for i := range t.entries {
		e := &t.entries[i]
		if e.Unused() {
			if freeIdx < 0 {
				freeIdx = i
			}
			continue
		}
		age := t.time - e.ageTicks
		if age > oldestAge || i == 0 {
			oldestAge = age
			oldestIdx = i
		}
	}
	idx := freeIdx
	if idx < 0 {
		idx = oldestIdx
	}
	t.entries[idx] = Entry{IP: ip, MAC: mac, ageTicks: t.time}
}

// Age advances the table's modular aging clock by one tick and evicts
// any entry that has gone [MaxAge] ticks without a refresh. Call this
// roughly every 10 seconds, e.g. from a [github.com/soypat/lneto8/timer.Wheel] callback.
func (t *Table) Age() {
	t.time++
	for i := range t.entries {
		e := &t.entries[i]
		if !e.Unused() && t.time-e.ageTicks >= MaxAge {
			e.IP = lneto8.IPv4Addr{}
		}
	}
}

// Len reports the number of active (non-unused) entries.
func (t *Table) Len() int {
	n := 0
	for i := range t.entries {
		if !t.entries[i].Unused() {
			n++
		}
	}
	return n
}

// Entries returns a copy of every active entry, for diagnostics and tests.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, MaxEntries)
	for i := range t.entries {
		if !t.entries[i].Unused() {
			out = append(out, t.entries[i])
		}
	}
	return out
}
