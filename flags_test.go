package main

import "testing"

func TestParityEven(t *testing.T) {
	cases := []struct {
		b    byte
		even bool
	}{
		{0x00, true},  // zero bits set: even
		{0x01, false}, // one bit set: odd
		{0x03, true},  // two bits set: even
		{0xFF, true},  // eight bits set: even
		{0x0F, true},
		{0x07, false},
	}
	for _, c := range cases {
		if got := ParityEven(c.b); got != c.even {
			t.Errorf("ParityEven(0x%02X) = %v, want %v", c.b, got, c.even)
		}
	}
}

func TestFlagsPackUnpackRoundTrip(t *testing.T) {
	var bitfields [256]byte
	copy(bitfields[:9], []byte{0, 2, 4, 6, 7, 8, 9, 10, 11})

	var f Flags
	f.CF, f.ZF, f.OF = true, true, true

	word := f.Pack(bitfields)
	if word&flagsReservedBits != flagsReservedBits {
		t.Fatalf("packed word 0x%04X missing reserved bits 0x%04X", word, flagsReservedBits)
	}

	var g Flags
	g.Unpack(word, bitfields)
	if g != f {
		t.Fatalf("round trip mismatch: got %+v, want %+v", g, f)
	}
}

// TestPushfPopfIdempotence covers spec.md 8's PUSHF/POPF property: packing
// then unpacking a FLAGS word must reproduce every flag exactly, since
// execPushf/execPopf are built directly on Pack/Unpack.
func TestPushfPopfIdempotence(t *testing.T) {
	var bitfields [256]byte
	copy(bitfields[:9], []byte{0, 2, 4, 6, 7, 8, 9, 10, 11})

	all := Flags{CF: true, PF: false, AF: true, ZF: false, SF: true, TF: false, IF: true, DF: false, OF: true}
	word := all.Pack(bitfields)
	var back Flags
	back.Unpack(word, bitfields)
	if back != all {
		t.Fatalf("PUSHF/POPF round trip lost state: got %+v, want %+v", back, all)
	}
}

func TestStandardFlagBitPositionsFallsBackWhenUnconfigured(t *testing.T) {
	var empty [256]byte
	positions := standardFlagBitPositions(empty)
	want := [9]uint{0, 2, 4, 6, 7, 8, 9, 10, 11}
	if positions != want {
		t.Fatalf("fallback positions = %v, want %v", positions, want)
	}
}
