// Package udp implements RFC 768 UDP datagram processing: a frame
// overlay, the pseudo-header checksum, and a fixed 10-slot port
// binding table dispatching inbound datagrams to a callback, matching
// the original firmware's udp_bindings array.
package udp

const sizeHeader = 8

// MaxBindings bounds the number of simultaneously bound UDP ports,
// matching UDP_MAX_BINDINGS in the original firmware.
const MaxBindings = 10
