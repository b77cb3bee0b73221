package main

import "testing"

// TestRepMovsbWithZeroCountIsNoOp covers the review finding that REP with
// CX==0 executed the string body once before testing CX, underflowing to
// 0xFFFF and running 65536 iterations. Per 8086tiny_new.cpp's pre-tested
// loop, REP MOVSB with CX==0 must not touch memory or SI/DI at all.
func TestRepMovsbWithZeroCountIsNoOp(t *testing.T) {
	c := newTestCPU()
	c.mem.SetReg16(RegDS, 0)
	c.mem.SetReg16(RegES, 0)
	c.mem.SetReg16(RegSI, 0x2000)
	c.mem.SetReg16(RegDI, 0x3000)
	c.mem.SetReg16(RegCX, 0)
	c.mem.WriteByte(0x2000, 0xAB)
	c.mem.WriteByte(0x3000, 0xCD)

	c.repOverrideEn = 1
	c.repMode = 0
	c.iW = 0
	c.rawOpcode = 0xA4 // MOVSB
	c.execStringMovStosLods()

	if v := c.mem.ReadByte(0x3000); v != 0xCD {
		t.Fatalf("REP MOVSB with CX=0 wrote to the destination: got 0x%02X, want untouched 0xCD", v)
	}
	if si := c.mem.GetReg16(RegSI); si != 0x2000 {
		t.Fatalf("REP MOVSB with CX=0 advanced SI to 0x%04X, want unchanged 0x2000", si)
	}
	if di := c.mem.GetReg16(RegDI); di != 0x3000 {
		t.Fatalf("REP MOVSB with CX=0 advanced DI to 0x%04X, want unchanged 0x3000", di)
	}
	if cx := c.mem.GetReg16(RegCX); cx != 0 {
		t.Fatalf("REP MOVSB with CX=0 left CX at 0x%04X, want 0 (no underflow)", cx)
	}
}

// TestRepMovsbCopiesExactCount is the companion positive case: a nonzero
// CX still copies exactly that many bytes and leaves CX at zero.
func TestRepMovsbCopiesExactCount(t *testing.T) {
	c := newTestCPU()
	c.mem.SetReg16(RegDS, 0)
	c.mem.SetReg16(RegES, 0)
	c.mem.SetReg16(RegSI, 0x2000)
	c.mem.SetReg16(RegDI, 0x3000)
	c.mem.SetReg16(RegCX, 3)
	for i := 0; i < 3; i++ {
		c.mem.WriteByte(uint32(0x2000+i), byte(0x10+i))
	}

	c.repOverrideEn = 1
	c.repMode = 0
	c.iW = 0
	c.rawOpcode = 0xA4
	c.execStringMovStosLods()

	for i := 0; i < 3; i++ {
		if v := c.mem.ReadByte(uint32(0x3000 + i)); v != byte(0x10+i) {
			t.Fatalf("byte %d = 0x%02X, want 0x%02X", i, v, 0x10+i)
		}
	}
	if cx := c.mem.GetReg16(RegCX); cx != 0 {
		t.Fatalf("CX after REP MOVSB with count 3 = 0x%04X, want 0", cx)
	}
}
