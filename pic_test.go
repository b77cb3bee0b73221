package main

import "testing"

func TestPICDefaultsAllMasked(t *testing.T) {
	p := NewPIC()
	if p.imr != 0xFF {
		t.Fatalf("imr after NewPIC = 0x%02X, want 0xFF (all masked)", p.imr)
	}
	if _, ok := p.Pending(); ok {
		t.Fatal("Pending() should report nothing ready while fully masked")
	}
}

// TestPICFixedPriorityArbitration covers spec.md 8: IRQ0 must win over a
// simultaneously pending lower-priority IRQ1.
func TestPICFixedPriorityArbitration(t *testing.T) {
	p := NewPIC()
	p.imr = 0x00 // unmask everything
	p.Raise(1)
	p.Raise(0)
	irq, ok := p.Pending()
	if !ok || irq != 0 {
		t.Fatalf("Pending() = (%d, %v), want (0, true)", irq, ok)
	}
}

func TestPICInServiceBlocksLowerPriority(t *testing.T) {
	p := NewPIC()
	p.imr = 0x00
	p.Raise(0)
	irq, _ := p.Pending()
	p.Acknowledge(irq)

	p.Raise(3) // lower priority than the in-service IRQ0
	if _, ok := p.Pending(); ok {
		t.Fatal("a lower-priority IRQ must not preempt an in-service higher-priority one")
	}
}

func TestPICNonSpecificEOIClearsHighestInService(t *testing.T) {
	p := NewPIC()
	p.imr = 0x00
	p.Raise(0)
	p.Raise(1)
	irq0, _ := p.Pending()
	p.Acknowledge(irq0)
	irq1, ok := p.Pending()
	if ok {
		t.Fatalf("IRQ1 should still be blocked by in-service IRQ0, got ready irq=%d", irq1)
	}

	p.handleCommand(0x20) // non-specific EOI
	irq1, ok = p.Pending()
	if !ok || irq1 != 1 {
		t.Fatalf("after EOI, Pending() = (%d, %v), want (1, true)", irq1, ok)
	}
}

func TestPICAcknowledgeReturnsBaseOffsetVector(t *testing.T) {
	p := NewPIC()
	p.base = 0x08
	if v := p.Acknowledge(1); v != 0x09 {
		t.Fatalf("Acknowledge(1) with base 0x08 = 0x%02X, want 0x09", v)
	}
}

func TestPICICWSequenceProgramsVectorBase(t *testing.T) {
	p := NewPIC()
	p.handleCommand(0x11) // ICW1, ICW4 needed
	p.handleData(0x08)    // ICW2: base 0x08
	p.handleData(0x00)    // ICW3
	p.handleData(0x01)    // ICW4
	p.handleData(0xFC)    // OCW1: mask register
	if p.base != 0x08 {
		t.Fatalf("base after ICW sequence = 0x%02X, want 0x08", p.base)
	}
	if p.imr != 0xFC {
		t.Fatalf("imr after OCW1 = 0x%02X, want 0xFC", p.imr)
	}
}
