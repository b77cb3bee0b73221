package main

import "testing"

// fakeSerialBackend is a controllable SerialBackend for exercising UartPort
// without a real transport.
type fakeSerialBackend struct {
	inbound       []byte
	sent          []byte
	dcd, cts, dsr, ri bool
	rtsAsserted   bool
	closed        bool
}

func (f *fakeSerialBackend) Poll() []byte {
	b := f.inbound
	f.inbound = nil
	return b
}

func (f *fakeSerialBackend) Send(b []byte) (int, bool) {
	f.sent = append(f.sent, b...)
	return len(b), true
}

func (f *fakeSerialBackend) LineState() (dcd, cts, dsr, ri bool) {
	return f.dcd, f.cts, f.dsr, f.ri
}

func (f *fakeSerialBackend) SetRTS(asserted bool) { f.rtsAsserted = asserted }
func (f *fakeSerialBackend) Close()               { f.closed = true }

// TestSerialIIRPriorityOrder covers spec.md 4.9: line status outranks RX
// ready, which outranks THR empty, which outranks a modem-status delta.
func TestSerialIIRPriorityOrder(t *testing.T) {
	p := NewUartPort(0, NewPIC())
	p.ier = 0x0F // enable all four interrupt sources

	p.lsr |= lsrDataReady
	p.msr |= msrDCTS
	if got := p.iir(); got != iirRXReady {
		t.Fatalf("iir() with RX ready + modem delta = 0x%02X, want 0x%02X (RX ready wins)", got, iirRXReady)
	}

	p.lsr |= 0x02 // an overrun/parity/framing bit: line status
	if got := p.iir(); got != iirLineStat {
		t.Fatalf("iir() with line status set = 0x%02X, want 0x%02X (line status wins)", got, iirLineStat)
	}
}

func TestSerialIIRNoInterruptWhenIdle(t *testing.T) {
	p := NewUartPort(0, NewPIC())
	if got := p.iir(); got != iirNoInt {
		t.Fatalf("iir() on an idle freshly-reset port = 0x%02X, want 0x%02X", got, iirNoInt)
	}
	if p.hasPendingInterrupt() {
		t.Fatal("hasPendingInterrupt should be false on an idle port")
	}
}

// TestSerialServiceDrainsBackendIntoRXFIFO covers spec.md 4.9/4.11: bytes
// the backend reports via Poll land in the RX FIFO and set LSR's data-ready
// bit, bounded by the FIFO's fixed depth.
func TestSerialServiceDrainsBackendIntoRXFIFO(t *testing.T) {
	p := NewUartPort(0, NewPIC())
	fb := &fakeSerialBackend{inbound: []byte{0x41, 0x42, 0x43}}
	p.SetBackend(fb)

	p.Service()
	if len(p.rxFIFO) != 3 {
		t.Fatalf("rxFIFO length after Service = %d, want 3", len(p.rxFIFO))
	}
	if p.lsr&lsrDataReady == 0 {
		t.Fatal("LSR data-ready bit should be set after Service drains inbound bytes")
	}

	got, ok := p.In(p.base) // RBR read
	if !ok || got != 0x41 {
		t.Fatalf("popRX via In() = (0x%02X, %v), want (0x41, true)", got, ok)
	}
}

// TestSerialServiceFlushesTXFIFO covers the outbound half: bytes queued via
// the THR port are handed to the backend's Send and drained from txFIFO.
func TestSerialServiceFlushesTXFIFO(t *testing.T) {
	p := NewUartPort(0, NewPIC())
	fb := &fakeSerialBackend{}
	p.SetBackend(fb)

	p.Out(p.base, 0x58) // THR write ('X')
	if len(p.txFIFO) != 1 {
		t.Fatalf("txFIFO length after THR write = %d, want 1", len(p.txFIFO))
	}
	p.Service()
	if len(p.txFIFO) != 0 {
		t.Fatalf("txFIFO length after Service = %d, want 0 (drained to backend)", len(p.txFIFO))
	}
	if len(fb.sent) != 1 || fb.sent[0] != 0x58 {
		t.Fatalf("backend.sent = %v, want [0x58]", fb.sent)
	}
}

// TestSerialLCRDivisorLatchGating covers the DLAB-gated register aliasing at
// offsets 0/1: with DLAB clear those are RBR/THR and IER, with DLAB set they
// are the divisor latch's low/high bytes.
func TestSerialLCRDivisorLatchGating(t *testing.T) {
	p := NewUartPort(0, NewPIC())
	p.Out(p.base+3, 0x80) // LCR: set DLAB
	p.Out(p.base+0, 0x34) // DLL
	p.Out(p.base+1, 0x12) // DLM
	if p.divisorLatch != 0x1234 {
		t.Fatalf("divisorLatch = 0x%04X, want 0x1234", p.divisorLatch)
	}

	p.Out(p.base+3, 0x03) // LCR: clear DLAB, 8N1
	p.Out(p.base+1, 0x0F) // now targets IER, not DLM
	if p.ier != 0x0F {
		t.Fatalf("ier after DLAB cleared = 0x%02X, want 0x0F", p.ier)
	}
	if p.divisorLatch != 0x1234 {
		t.Fatalf("divisorLatch mutated by an IER write: got 0x%04X", p.divisorLatch)
	}
}

// TestSerialBankRoutesIRQBySourcePorts covers spec.md 4.9's fold of four
// ports into two shared lines: ports 0/2 share IRQ12, ports 1/3 share IRQ11.
func TestSerialBankRoutesIRQBySourcePorts(t *testing.T) {
	pic := NewPIC()
	pic.imr = 0x00
	b := NewSerialBank(pic)
	fb := &fakeSerialBackend{inbound: []byte{0x01}}
	b.Ports[0].SetBackend(fb)
	b.Ports[0].ier = 0x01 // enable RX-ready interrupt

	b.Service()
	irq, ok := pic.Pending()
	if !ok {
		t.Fatal("expected a pending IRQ after port 0 reported RX ready")
	}
	if irq != serialIRQ[0] {
		t.Fatalf("Pending() irq = %d, want serialIRQ[0] = %d", irq, serialIRQ[0])
	}
}

func TestSerialOwnsRejectsForeignPorts(t *testing.T) {
	p := NewUartPort(0, NewPIC())
	if p.owns(p.base + 8) {
		t.Fatal("owns() must not claim the port one past the 8-register window")
	}
	if !p.owns(p.base + 7) {
		t.Fatal("owns() must claim the scratch register at base+7")
	}
}

func TestSerialSetBackendClosesPrevious(t *testing.T) {
	p := NewUartPort(0, NewPIC())
	first := &fakeSerialBackend{}
	p.SetBackend(first)
	second := &fakeSerialBackend{}
	p.SetBackend(second)
	if !first.closed {
		t.Fatal("SetBackend should Close() the previously installed backend")
	}
}
