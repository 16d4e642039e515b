package velodyne

import (
	"encoding/binary"
	"testing"
)

// makeRawPacket builds a well-formed 1206-byte payload with the given
// per-block azimuths (centi-degrees), return mode, and product id. Every
// channel distance/intensity is a small deterministic pattern so tests
// can assert on specific values.
func makeRawPacket(azimuths [12]uint16, mode ReturnMode, product ProductID) []byte {
	raw := make([]byte, PacketSize)
	for i := 0; i < blocksPerPacket; i++ {
		off := i * blockSize
		binary.LittleEndian.PutUint16(raw[off:off+2], blockMarker)
		binary.LittleEndian.PutUint16(raw[off+2:off+4], azimuths[i])
		for c := 0; c < channelsPerBlock; c++ {
			base := off + 4 + c*3
			binary.LittleEndian.PutUint16(raw[base:base+2], uint16(100+c))
			raw[base+2] = byte(c)
		}
	}
	binary.LittleEndian.PutUint32(raw[tailOffset:tailOffset+4], 123456)
	raw[returnModeOffset] = byte(mode)
	raw[productIDOffset] = byte(product)
	return raw
}

func sequentialAzimuths(start, step uint16) [12]uint16 {
	var out [12]uint16
	for i := range out {
		out[i] = start + step*uint16(i)
	}
	return out
}

func TestParseWrongSize(t *testing.T) {
	_, err := Parse(make([]byte, 100))
	if err == nil {
		t.Fatal("expected error for wrong-size payload")
	}
}

func TestParseBadMarker(t *testing.T) {
	raw := makeRawPacket(sequentialAzimuths(0, 20), ReturnStrongest, ProductVLP16)
	raw[0] = 0x00
	_, err := Parse(raw)
	if err == nil {
		t.Fatal("expected error for bad block marker")
	}
}

func TestParseUnknownReturnMode(t *testing.T) {
	raw := makeRawPacket(sequentialAzimuths(0, 20), ReturnStrongest, ProductVLP16)
	raw[returnModeOffset] = 0x00
	_, err := Parse(raw)
	if err == nil {
		t.Fatal("expected error for unknown return mode")
	}
}

func TestParseUnknownProductID(t *testing.T) {
	raw := makeRawPacket(sequentialAzimuths(0, 20), ReturnStrongest, ProductVLP16)
	raw[productIDOffset] = 0xFF
	_, err := Parse(raw)
	if err == nil {
		t.Fatal("expected error for unknown product id")
	}
}

func TestParseRoundTrip(t *testing.T) {
	raw := makeRawPacket(sequentialAzimuths(100, 30), ReturnDual, ProductVLP32C)
	pkt, err := Parse(raw)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	out := pkt.Serialize()
	if len(out) != len(raw) {
		t.Fatalf("serialized length %d != original %d", len(out), len(raw))
	}
	for i := range raw {
		if raw[i] != out[i] {
			t.Fatalf("byte %d mismatch: got 0x%02x want 0x%02x", i, out[i], raw[i])
		}
	}
}

func TestFiringFormatDerivation(t *testing.T) {
	cases := []struct {
		mode    ReturnMode
		product ProductID
		want    FiringFormat
	}{
		{ReturnStrongest, ProductVLP16, Single16},
		{ReturnLast, ProductVLP32C, Single32},
		{ReturnDual, ProductVLP16, Dual16},
		{ReturnDual, ProductVLP32C, Dual32},
	}
	for _, c := range cases {
		raw := makeRawPacket(sequentialAzimuths(0, 20), c.mode, c.product)
		pkt, err := Parse(raw)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if got := pkt.FiringFormat(); got != c.want {
			t.Errorf("mode=%v product=%v: got %v, want %v", c.mode, c.product, got, c.want)
		}
	}
}
