// Package netstack wires every protocol layer together behind one
// entry point, [NetStack.Periodic], the top-level super-loop body
// (spec §4.12): pull each pending frame off the [link.Link], decode it
// through MAC -> ARP/IPv4 -> ICMP/UDP/TCP, and transmit whatever reply
// the decode produced, all synchronously and in place in a single
// scratch buffer.
//
// This mirrors the teacher library's internet.StackEthernet/StackBasic
// pair (Demux/Recv dispatch by ethertype or IP protocol onto registered
// handlers) collapsed into the fixed, non-pluggable protocol set this
// 8-bit target actually needs: there is no handler registry, just the
// four concrete layers spec.md names.
package netstack

import (
	"log/slog"

	"github.com/soypat/lneto8/arp"
	"github.com/soypat/lneto8/ethernet"
	"github.com/soypat/lneto8/icmp"
	"github.com/soypat/lneto8/internal"
	"github.com/soypat/lneto8/ipv4"
	"github.com/soypat/lneto8/link"
	"github.com/soypat/lneto8/pqueue"
	"github.com/soypat/lneto8/tcp"
	"github.com/soypat/lneto8/udp"

	lneto8 "github.com/soypat/lneto8"
)

// MaxFrame bounds the scratch buffer and every frame this stack will
// receive or transmit, per spec §6's 1500-octet Ethernet payload limit
// plus headroom for the 14-byte MAC header.
const MaxFrame = pqueue.MaxFrame

// Config bundles everything [NetStack.Configure] needs to bring up a
// stack instance, following the teacher library's
// StackEthernetConfig/Configure idiom (internet/stack-ethernet.go):
// a single struct validated and applied atomically rather than a long
// constructor argument list.
type Config struct {
	Host           lneto8.HostConfig
	Link           link.Link
	Log            *slog.Logger
	QueueTTLMillis uint32
}

// NetStack is the top-level object gluing together the host's identity,
// the link, the ARP table/resolver, the packet queue, and the
// ICMP/UDP/TCP layers. Every field below is a process-wide singleton
// per spec §5; there is exactly one NetStack per device, constructed
// once at boot and driven entirely by [NetStack.Periodic] from the
// super-loop.
type NetStack struct {
	host  lneto8.HostConfig
	link  link.Link
	arp   arp.Resolver
	queue pqueue.Queue
	icmp  icmp.EchoResponder
	udp   udp.BindTable
	tcp   tcp.BindTable
	stats lneto8.Stats
	buf   [MaxFrame]byte
	log   *slog.Logger
}

// Configure validates cfg and resets the stack to use it, mirroring
// the teacher's Configure-stamps-a-new-generation idiom (minus the
// connection-ID counter, which has no meaning for a single physical
// link that is never re-plugged into a different configuration at
// runtime on this target).
func (ns *NetStack) Configure(cfg Config) error {
	if err := cfg.Host.Validate(); err != nil {
		return err
	}
	if cfg.Link == nil {
		return lneto8.ErrZeroSource
	}
	if err := cfg.Link.SetMAC(cfg.Host.MAC); err != nil {
		return err
	}
	*ns = NetStack{
		host: cfg.Host,
		link: cfg.Link,
		log:  cfg.Log,
	}
	ns.arp.Host = &ns.host
	ns.arp.Queue = &ns.queue
	ns.arp.Send = ns.link.Send
	ns.icmp.Host = &ns.host
	ns.queue.SetTTL(cfg.QueueTTLMillis)
	return nil
}

// Host returns the stack's current identity. The returned value may be
// mutated by DHCP (see [github.com/soypat/lneto8/app.DHCPClient]); callers
// needing a live view should call Host again rather than caching it.
func (ns *NetStack) Host() *lneto8.HostConfig { return &ns.host }

// Table returns the stack's ARP cache, for diagnostics and the app
// packages that need to preload or inspect bindings.
func (ns *NetStack) Table() *arp.Table { return &ns.arp.Table }

// UDP returns the UDP port-binding table application handlers register
// against (spec §6 "one call - bind(port, callback) - per UDP or TCP
// port").
func (ns *NetStack) UDP() *udp.BindTable { return &ns.udp }

// TCP returns the TCP port-binding table.
func (ns *NetStack) TCP() *tcp.BindTable { return &ns.tcp }

// Stats returns a copy of the running packet counters.
func (ns *NetStack) Stats() lneto8.Stats { return ns.stats }

// Periodic is the network engine's super-loop body (spec §4.12): poll
// link state, drain every pending frame through Decode, and transmit
// whatever reply length Decode reports. now is the caller's current
// millisecond timestamp (from [github.com/soypat/lneto8/clock.Clock]),
// used to age the packet queue.
func (ns *NetStack) Periodic(now uint32) {
	ns.stats.LinkUp = ns.link.LinkUp()
	ns.queue.Periodic(now)
	for ns.link.RxPending() > 0 {
		n, err := ns.link.Receive(ns.buf[:])
		if err != nil || n == 0 {
			break
		}
		ns.stats.RxFrames++
		ns.stats.RxBytes += uint32(n)
		replyLen, err := ns.Decode(ns.buf[:n])
		if err != nil || replyLen == 0 {
			continue
		}
		if err := ns.link.Send(ns.buf[:replyLen]); err != nil {
			internal.LogAttrs(ns.log, slog.LevelError, "netstack:send", slog.String("err", err.Error()))
			continue
		}
		ns.stats.TxFrames++
		ns.stats.TxBytes += uint32(replyLen)
	}
}

// Decode demultiplexes one inbound Ethernet frame on its EtherType and,
// for IPv4, on its IP protocol number, per spec §4.12: ARP to
// [arp.Resolver.Decode], IPv4/ICMP to [icmp.EchoResponder.Decode],
// IPv4/UDP to [udp.BindTable.Decode], IPv4/TCP to [tcp.BindTable.Decode].
// Any length underrun or unrecognized ethertype/protocol drops the
// frame silently (spec §7): replyLen is 0 and err is nil.
func (ns *NetStack) Decode(buf []byte) (replyLen int, err error) {
	efrm, err := ethernet.NewFrame(buf)
	if err != nil {
		return 0, nil
	}
	if !efrm.IsBroadcast() && *efrm.DestinationHardwareAddr() != ns.host.MAC {
		return 0, nil
	}
	var v lneto8.Validator
	efrm.ValidateSize(&v)
	if v.Err() != nil {
		return 0, nil
	}
	const ipOff = lneto8.SizeHeaderEthNoVLAN
	switch efrm.EtherTypeOrSize() {
	case lneto8.EtherTypeARP:
		return ns.arp.Decode(buf)

	case lneto8.EtherTypeIPv4:
		ifrm, err := ipv4.NewFrame(buf[ipOff:])
		if err != nil {
			return 0, nil
		}
		v.Reset()
		ifrm.ValidateExceptCRC(&v)
		if v.Err() != nil {
			return 0, nil
		}
		if ifrm.CalculateHeaderCRC() != ifrm.CRC() {
			return 0, nil
		}
		if !ifrm.DestinationAddr().Equal(ns.host.IP) && !ifrm.DestinationAddr().IsBroadcast() {
			return 0, nil
		}
		switch ifrm.Protocol() {
		case lneto8.IPProtoICMP:
			ns.stats.ICMPEchoes++
			return ns.icmp.Decode(buf, ipOff)
		case lneto8.IPProtoUDP:
			ns.stats.UDPDatagrams++
			return ns.udp.Decode(buf, ipOff)
		case lneto8.IPProtoTCP:
			ns.stats.TCPSegments++
			return ns.tcp.Decode(buf, ipOff)
		}
		return 0, nil
	}
	return 0, nil
}

// Send resolves buf's destination MAC via ARP (queueing it and
// substituting an ARP request on a cache miss, spec §4.5) and hands
// the result to the link. It is the outbound counterpart callers above
// the IP layer (principally [github.com/soypat/lneto8/socket.Pool.Write])
// use instead of calling Link.Send directly, so every outbound frame
// passes through ARP resolution exactly once.
func (ns *NetStack) Send(buf []byte, length int) error {
	txLen, err := ns.arp.Encode(buf, length)
	if err != nil {
		return err
	}
	if txLen == 0 {
		return nil
	}
	if err := ns.link.Send(buf[:txLen]); err != nil {
		return err
	}
	ns.stats.TxFrames++
	ns.stats.TxBytes += uint32(txLen)
	return nil
}

// Buffer returns the stack's scratch buffer, valid for reuse only
// within one call to Periodic or Send (spec §3 PacketBuffer). Callers
// composing an outbound frame (e.g. [github.com/soypat/lneto8/socket.Pool])
// use this instead of keeping a buffer of their own, matching the
// "single process-wide scratch buffer" invariant.
func (ns *NetStack) Buffer() []byte { return ns.buf[:] }
