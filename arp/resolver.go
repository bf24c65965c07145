package arp

import (
	"github.com/soypat/lneto8/ethernet"

	lneto8 "github.com/soypat/lneto8"
)

// Enqueuer defers an outbound frame until its destination MAC is
// resolved, and later gives it back up for resend once that IP binds.
// [github.com/soypat/lneto8/pqueue.Queue] implements this.
type Enqueuer interface {
	Enqueue(targetIP lneto8.IPv4Addr, frame []byte) error
	Dequeue(targetIP lneto8.IPv4Addr) ([]byte, bool)
}

// Resolver couples a [Table] to the host's identity and rewrites frames
// in place: [Resolver.Decode] turns inbound ARP requests into replies
// and feeds sender bindings into the table; [Resolver.Encode] turns an
// outbound IPv4 frame's destination MAC into a concrete address, or, on
// a cache miss, substitutes the frame with an ARP request and hands the
// original to an [Enqueuer] for later retry.
//
// Send, if non-nil, is invoked by [Resolver.Decode] with every frame
// released from Queue once an ARP reply resolves its target, implementing
// the original firmware's unfinished "unqueue packets for received
// destination" contract (spec §4.11).
type Resolver struct {
	Table Table
	Host  *lneto8.HostConfig
	Queue Enqueuer
	Send  func([]byte) error
}

// Decode processes one inbound Ethernet+ARP frame. buf must start at
// the Ethernet header. It returns the length of a reply frame to
// transmit (0 if none) per spec §4.5:
//
//   - REQUEST targeting our IP: insert/refresh the sender's binding,
//     rewrite the frame into a reply in place, and return its length.
//   - REPLY targeting our IP: insert/refresh the sender's binding and
//     flush any frames queued for that IP; no reply is sent.
//   - anything else: dropped silently.
func (r *Resolver) Decode(buf []byte) (replyLen int, err error) {
	efrm, err := ethernet.NewFrame(buf)
	if err != nil {
		return 0, err
	}
	payload := efrm.Payload()
	afrm, err := NewFrame(payload)
	if err != nil {
		return 0, nil // too short to be ARP, drop silently
	}
	var v lneto8.Validator
	afrm.ValidateSize(&v)
	if v.Err() != nil {
		return 0, nil
	}

	switch afrm.Operation() {
	case lneto8.ARPRequest:
		if !afrm.TargetProtocolAddr().Equal(r.Host.IP) {
			return 0, nil
		}
		r.Table.Update(*afrm.SenderProtocolAddr(), *afrm.SenderHardwareAddr())
		afrm.SwapSenderTarget()
		*afrm.SenderHardwareAddr() = r.Host.MAC
		afrm.SetOperation(lneto8.ARPReply)
		*efrm.DestinationHardwareAddr() = *afrm.TargetHardwareAddr()
		*efrm.SourceHardwareAddr() = r.Host.MAC
		return efrm.HeaderLength() + SizeHeaderIPv4, nil

	case lneto8.ARPReply:
		if afrm.TargetProtocolAddr().Equal(r.Host.IP) {
			sender := *afrm.SenderProtocolAddr()
			r.Table.Update(sender, *afrm.SenderHardwareAddr())
			r.flush(sender)
		}
		return 0, nil
	}
	return 0, nil
}

// flush resends every frame queued for ip now that it has a binding.
func (r *Resolver) flush(ip lneto8.IPv4Addr) {
	if r.Queue == nil {
		return
	}
	for {
		frame, ok := r.Queue.Dequeue(ip)
		if !ok {
			return
		}
		txLen, err := r.Encode(frame, len(frame))
		if err != nil || txLen == 0 || r.Send == nil {
			continue
		}
		r.Send(frame[:txLen])
	}
}

// Encode resolves the destination MAC for an outbound IPv4 frame
// already populated above the MAC layer (buf[0:14] Ethernet header,
// buf[14:len] the IPv4 datagram) per spec §4.5:
//
//   - destination 255.255.255.255: broadcast, resolved unconditionally.
//   - destination on-subnet: resolved against the destination itself.
//   - destination off-subnet: resolved against the default router.
//
// On a cache hit, the Ethernet header is filled in and len is returned
// unchanged. On a miss, buf is rewritten in place as an ARP request for
// the target, the original frame is hande to Queue.Enqueue for later
// retry, and the ARP frame's length is returned.
func (r *Resolver) Encode(buf []byte, length int) (txLen int, err error) {
	efrm, err := ethernet.NewFrame(buf)
	if err != nil {
		return 0, err
	}
	ip := buf[efrm.HeaderLength():length]
	dest := (*lneto8.IPv4Addr)(ip[16:20])

	var target lneto8.IPv4Addr
	broadcast := dest.IsBroadcast()
	if broadcast {
		*efrm.DestinationHardwareAddr() = lneto8.BroadcastMAC()
	} else {
		target = r.Host.NextHop(*dest)
		mac, ok := r.Table.Lookup(target)
		if !ok {
			if r.Queue != nil {
				qerr := r.Queue.Enqueue(target, buf[:length])
				if qerr != nil {
					return 0, qerr
				}
			}
			return r.writeRequest(efrm, target), nil
		}
		*efrm.DestinationHardwareAddr() = mac
	}
	*efrm.SourceHardwareAddr() = r.Host.MAC
	efrm.SetEtherType(lneto8.EtherTypeIPv4)
	return length, nil
}

// writeRequest overwrites buf in place with a broadcast ARP request for
// target, returning the resulting frame's total length.
func (r *Resolver) writeRequest(efrm ethernet.Frame, target lneto8.IPv4Addr) int {
	hl := efrm.HeaderLength()
	buf := efrm.RawData()
	afrm, err := NewFrame(buf[hl:])
	if err != nil {
		return 0
	}
	afrm.ClearHeader()
	afrm.SetHardware(HardwareEthernet, 6)
	afrm.SetProtocol(lneto8.EtherTypeIPv4, 4)
	afrm.SetOperation(lneto8.ARPRequest)
	*afrm.SenderHardwareAddr() = r.Host.MAC
	*afrm.SenderProtocolAddr() = r.Host.IP
	*afrm.TargetProtocolAddr() = target
	*efrm.DestinationHardwareAddr() = lneto8.BroadcastMAC()
	*efrm.SourceHardwareAddr() = r.Host.MAC
	efrm.SetEtherType(lneto8.EtherTypeARP)
	return hl + SizeHeaderIPv4
}
