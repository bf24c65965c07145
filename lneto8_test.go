package lneto8

import "testing"

func TestMacAddrString(t *testing.T) {
	mac := MacAddr{0x00, 0x1b, 0x44, 0x11, 0x3a, 0xb7}
	const want = "00:1b:44:11:3a:b7"
	if got := mac.String(); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if mac.IsEmpty() || mac.IsBroadcast() {
		t.Fatal("unexpected classification")
	}
	if !BroadcastMAC().IsBroadcast() {
		t.Fatal("broadcast MAC not recognized")
	}
}

func TestIPv4AddrMaskedEqual(t *testing.T) {
	host := IPv4Addr{192, 168, 1, 10}
	mask := IPv4Addr{255, 255, 255, 0}
	onSubnet := IPv4Addr{192, 168, 1, 200}
	offSubnet := IPv4Addr{10, 0, 0, 1}
	if !host.MaskedEqual(onSubnet, mask) {
		t.Fatal("expected on-subnet match")
	}
	if host.MaskedEqual(offSubnet, mask) {
		t.Fatal("expected off-subnet mismatch")
	}
}

func TestHostConfigNextHop(t *testing.T) {
	cfg := HostConfig{
		IP:      IPv4Addr{192, 168, 1, 10},
		Netmask: IPv4Addr{255, 255, 255, 0},
		Router:  IPv4Addr{192, 168, 1, 1},
	}
	onSubnet := IPv4Addr{192, 168, 1, 55}
	if got := cfg.NextHop(onSubnet); got != onSubnet {
		t.Fatalf("expected direct delivery, got %v", got)
	}
	offSubnet := IPv4Addr{8, 8, 8, 8}
	if got := cfg.NextHop(offSubnet); got != cfg.Router {
		t.Fatalf("expected router %v, got %v", cfg.Router, got)
	}
	broadcast := IPv4Addr{255, 255, 255, 255}
	if got := cfg.NextHop(broadcast); got != broadcast {
		t.Fatalf("expected broadcast passthrough, got %v", got)
	}
}

func TestCRC791ZeroSum(t *testing.T) {
	// A buffer whose own checksum field is filled in should sum to 0 or
	// 0xffff when the checksum is verified by re-running the algorithm
	// over the buffer including the checksum field.
	buf := []byte{0x45, 0x00, 0x00, 0x1c, 0, 0, 0, 0, 64, 17, 0, 0, 192, 168, 1, 10, 192, 168, 1, 20}
	var crc CRC791
	crc.Write(buf[0:10])
	crc.Write(buf[12:20])
	sum := crc.Sum16()
	buf[10] = byte(sum >> 8)
	buf[11] = byte(sum)

	var verify CRC791
	verify.Write(buf[0:10])
	verify.Write(buf[12:20])
	verify.AddUint16(sum)
	if got := verify.Sum16(); got != 0 {
		t.Fatalf("checksum self-verification failed, got %#x", got)
	}
}

func TestCRC791OddLength(t *testing.T) {
	var crc CRC791
	crc.Write([]byte{0x01, 0x02, 0x03})
	// 0x0102 + 0x0300 (odd byte padded low) summed then complemented.
	want := checksum16(0x0102 + 0x0300)
	if got := crc.Sum16(); got != want {
		t.Fatalf("got %#x want %#x", got, want)
	}
}

func TestValidatorAccumulation(t *testing.T) {
	var v Validator
	v.AddError(ErrShortBuffer)
	v.AddError(ErrBadCRC) // dropped: allowMultiErrs defaults false
	if err := v.Err(); err != ErrShortBuffer {
		t.Fatalf("got %v want %v", err, ErrShortBuffer)
	}
	v.Reset()
	v.AllowMultiErrs(true)
	v.AddError(ErrShortBuffer)
	v.AddError(ErrBadCRC)
	if err := v.Err(); err == nil {
		t.Fatal("expected joined error")
	}
}
