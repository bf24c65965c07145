package ipv4

import (
	"math"
	"math/rand"
	"testing"

	lneto8 "github.com/soypat/lneto8"
)

func TestFrame(t *testing.T) {
	var buf [64]byte

	ifrm, err := NewFrame(buf[:])
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(1))
	const wantVersion = 4
	const wantIHL = 5
	v := new(lneto8.Validator)
	for i := 0; i < 100; i++ {
		wantToS := ToS(rng.Intn(4))
		ifrm.SetVersionAndIHL(wantVersion, wantIHL)
		ifrm.SetToS(wantToS)
		wantTotalLength := 4*uint16(wantIHL) + uint16(rng.Intn(len(buf)-sizeHeader))
		ifrm.SetTotalLength(wantTotalLength)
		wantID := uint16(rng.Intn(math.MaxUint16))
		ifrm.SetID(wantID)
		wantFlags := Flags(rng.Intn(16)) << 12
		ifrm.SetFlags(wantFlags)
		wantTTL := uint8(rng.Intn(256))
		ifrm.SetTTL(wantTTL)
		wantProtocol := lneto8.IPProto(rng.Intn(256))
		ifrm.SetProtocol(wantProtocol)
		wantCRC := uint16(rng.Intn(math.MaxUint16))
		ifrm.SetCRC(wantCRC)
		src := ifrm.SourceAddr()
		rng.Read(src[:])
		wantSrc := *src
		dst := ifrm.DestinationAddr()
		rng.Read(dst[:])
		wantDst := *dst

		ifrm.ValidateExceptCRC(v)
		if v.Err() != nil {
			t.Error(v.Err())
		}

		payload := ifrm.Payload()
		wantPayloadLen := int(wantTotalLength) - sizeHeader
		if len(payload) != wantPayloadLen {
			t.Errorf("want payload length %d, got %d", wantPayloadLen, len(payload))
		}

		if ver, ihl := ifrm.VersionAndIHL(); ver != wantVersion || ihl != wantIHL {
			t.Errorf("wanted IHL %d, got version,IHL %d,%d ", wantIHL, ver, ihl)
		}
		if tos := ifrm.ToS(); tos != wantToS {
			t.Errorf("wanted ToS %d, got %d", wantToS, tos)
		}
		if tl := ifrm.TotalLength(); tl != wantTotalLength {
			t.Errorf("wanted total length %d, got %d", wantTotalLength, tl)
		}
		if id := ifrm.ID(); id != wantID {
			t.Errorf("want ID %d, got %d", wantID, id)
		}
		if flags := ifrm.Flags(); flags != wantFlags {
			t.Errorf("want flags %d, got %d", wantFlags, flags)
		}
		if ttl := ifrm.TTL(); ttl != wantTTL {
			t.Errorf("want TTL %d, got %d", wantTTL, ttl)
		}
		if proto := ifrm.Protocol(); proto != wantProtocol {
			t.Errorf("want protocol %d, got %d", wantProtocol, proto)
		}
		if crc := ifrm.CRC(); crc != wantCRC {
			t.Errorf("want crc %d, got %d", wantCRC, crc)
		}
		if wantDst != *dst {
			t.Errorf("want dst addr %v, got %v", wantDst, dst)
		}
		if wantSrc != *src {
			t.Errorf("want src addr %v, got %v", wantSrc, src)
		}
	}
}

func TestFrameChecksumSelfConsistent(t *testing.T) {
	var buf [20]byte
	ifrm, err := NewFrame(buf[:])
	if err != nil {
		t.Fatal(err)
	}
	ifrm.SetVersionAndIHL(4, 5)
	ifrm.SetTotalLength(20)
	ifrm.SetTTL(64)
	ifrm.SetProtocol(lneto8.IPProtoUDP)
	*ifrm.SourceAddr() = lneto8.IPv4Addr{10, 0, 1, 30}
	*ifrm.DestinationAddr() = lneto8.IPv4Addr{10, 0, 1, 50}

	crc := ifrm.CalculateHeaderCRC()
	ifrm.SetCRC(crc)

	var sum lneto8.CRC791
	sum.WriteEven(buf[:])
	if sum.Sum16() != 0 {
		t.Errorf("expected zero checksum over header with CRC filled in, got %#x", sum.Sum16())
	}
}

func TestValidateRejectsBadIHL(t *testing.T) {
	var buf [20]byte
	ifrm, _ := NewFrame(buf[:])
	ifrm.SetVersionAndIHL(4, 6) // options not supported by this stack
	ifrm.SetTotalLength(20)
	var v lneto8.Validator
	ifrm.ValidateSize(&v)
	if v.Err() == nil {
		t.Fatal("expected error for non-5 IHL")
	}
}

func TestValidateEvilBit(t *testing.T) {
	var buf [20]byte
	ifrm, _ := NewFrame(buf[:])
	ifrm.SetVersionAndIHL(4, 5)
	ifrm.SetTotalLength(20)
	ifrm.SetFlags(Flags(0x8000))
	var v lneto8.Validator
	v.CheckEvil(true)
	ifrm.ValidateExceptCRC(&v)
	if v.Err() == nil {
		t.Fatal("expected evil-bit datagram to be flagged")
	}
}
