// serial_mouse.go - the MOUSE SerialBackend: a Microsoft-protocol serial
// mouse fed by host pointer deltas.
//
// Grounded on other_examples/andreas-jonsson-virtualxt__smouse.go's
// RTS-rising-edge identification handshake (spec.md 12's supplemented
// cross-check): the guest driver asserts RTS once at init, and the mouse
// must answer with a single 'M' byte before the first movement packet.
package main

// mouseBackend translates host MouseEvent samples pushed in by the main
// loop into three-byte Microsoft serial-mouse packets.
type mouseBackend struct {
	pending  []byte
	rtsSeen  bool
	lastRTS  bool
}

func NewMouseBackend() *mouseBackend {
	return &mouseBackend{}
}

// PushEvent is called by the main loop (spec.md 4.11 step 3, "push mouse
// deltas to the serial mouse backend") once per polled host MouseEvent.
func (m *mouseBackend) PushEvent(ev MouseEvent) {
	dx := clampMouseDelta(ev.DX)
	dy := clampMouseDelta(ev.DY)

	// Microsoft protocol bit layout: byte0 = 01 LB RB Y7 Y6 X7 X6,
	// byte1 = 00 X5..X0, byte2 = 00 Y5..Y0.
	b0 := byte(0x40)
	if ev.Buttons&0x01 != 0 {
		b0 |= 0x20
	}
	if ev.Buttons&0x02 != 0 {
		b0 |= 0x10
	}
	b0 |= byte(dx>>6) & 0x03
	b0 |= (byte(dy>>6) & 0x03) << 2

	b1 := byte(dx) & 0x3F
	b2 := byte(dy) & 0x3F

	m.pending = append(m.pending, b0, b1, b2)
}

func clampMouseDelta(v int) int {
	if v > 127 {
		return 127
	}
	if v < -128 {
		return -128
	}
	return v
}

func (m *mouseBackend) Poll() []byte {
	if len(m.pending) == 0 {
		return nil
	}
	out := m.pending
	m.pending = nil
	return out
}

func (m *mouseBackend) Send(b []byte) (int, bool) { return len(b), true }

func (m *mouseBackend) LineState() (dcd, cts, dsr, ri bool) {
	return true, true, true, false
}

// SetRTS implements the identification handshake: a rising edge on RTS
// (the guest driver's init probe) queues a single 'M' identifier byte
// ahead of any movement packets.
func (m *mouseBackend) SetRTS(asserted bool) {
	if asserted && !m.lastRTS {
		m.pending = append([]byte{'M'}, m.pending...)
	}
	m.lastRTS = asserted
}

func (m *mouseBackend) Close() {}
