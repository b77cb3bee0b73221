package main

import "testing"

// TestVideoWriteMode1LatchRoundTrip covers spec.md 8's write-mode-1
// property: a mode-1 write copies the latch (loaded by the previous read)
// verbatim into VRAM, ignoring the host data byte entirely.
func TestVideoWriteMode1LatchRoundTrip(t *testing.T) {
	d := NewDisplay()
	addr := uint32(VideoApertureBase)
	d.vram[0] = 0xAA
	_ = d.VMemReadByte(addr) // loads d.latch = 0xAA

	d.gc[5] = 1 // write mode 1
	d.VMemWriteByte(addr+1, 0x00) // host byte is irrelevant in mode 1

	if got := d.vram[1]; got != 0xAA {
		t.Fatalf("mode-1 write wrote 0x%02X, want the latched 0xAA", got)
	}
}

func TestVideoWriteMode0SetResetAllOnes(t *testing.T) {
	d := NewDisplay()
	addr := uint32(VideoApertureBase)
	d.vram[0] = 0x00
	_ = d.VMemReadByte(addr) // latch = 0

	d.gc[5] = 0 // mode 0
	d.gc[1] = 0x01
	d.gc[0] = 0x01 // set/reset value bit 0 set
	d.gc[8] = 0xFF // mask: take the substituted value everywhere

	d.VMemWriteByte(addr, 0x00)
	if got := d.vram[0]; got != 0xFF {
		t.Fatalf("mode-0 set/reset wrote 0x%02X, want 0xFF", got)
	}
}

func TestVideoWriteMaskPreservesUnmaskedLatchBits(t *testing.T) {
	d := NewDisplay()
	addr := uint32(VideoApertureBase)
	d.vram[0] = 0xF0
	_ = d.VMemReadByte(addr) // latch = 0xF0

	d.gc[5] = 0
	d.gc[8] = 0x0F // only the low nibble is writable
	d.VMemWriteByte(addr, 0xFF)

	if got := d.vram[0]; got != 0xFF {
		// combined (rotate/set-reset pass-through of host=0xFF) masked with
		// 0x0F gives 0x0F, OR'd with latch&^mask (0xF0&0xF0=0xF0) = 0xFF.
		t.Fatalf("masked write = 0x%02X, want 0xFF", got)
	}
}

func TestVideoApertureRoutesThroughDisplay(t *testing.T) {
	io := NewIOBus()
	mem := NewMemory(io)
	d := NewDisplay()
	mem.AttachVideo(d)

	// mode 0 with gc[8]=0 (reset default) masks every bit to the latch, so
	// exercise mode 1 (pure latch passthrough) to observe an explicit
	// value round trip through Memory instead.
	d.gc[5] = 1
	d.latch = 0x77
	mem.WriteByte(VideoApertureBase+6, 0x00)
	if got := mem.ReadByte(VideoApertureBase + 6); got != 0x77 {
		t.Fatalf("aperture round trip = 0x%02X, want 0x77", got)
	}
}

func TestDACWriteCyclesRGBSubIndex(t *testing.T) {
	d := NewDisplay()
	d.dacWriteIdx = 10
	d.writeDAC(0x3F) // R
	d.writeDAC(0x20) // G
	d.writeDAC(0x01) // B
	if d.dacPalette[10] != [3]byte{0x3F, 0x20, 0x01} {
		t.Fatalf("DAC entry 10 = %v, want [0x3F 0x20 0x01]", d.dacPalette[10])
	}
	if d.dacWriteIdx != 11 {
		t.Fatalf("dacWriteIdx after a full RGB triple = %d, want 11", d.dacWriteIdx)
	}
}

func TestResetCGAPaletteSeedsSixteenEntries(t *testing.T) {
	d := NewDisplay()
	for i, want := range cgaCanonicalPalette {
		if d.dacPalette[i] != want {
			t.Fatalf("dacPalette[%d] = %v, want %v", i, d.dacPalette[i], want)
		}
	}
}
