// pit.go - M3: an 8253-equivalent three-channel programmable interval
// timer, ports 0x40-0x43.
//
// Grounded on spec.md 4.5's per-channel state machine and the teacher's
// device-as-IOHandler pattern; the accumulator-with-carried-remainder
// tick update matches how the teacher paces its own frame timer against
// a host clock running at a different rate than the emulated one.
package main

// pitChannel is one of the three 8253 down-counters.
type pitChannel struct {
	bcd     bool
	mode    byte // 0..5
	rlMode  byte // 0=latch pending, 1=LSB, 2=MSB, 3=LSB then MSB
	count   int32
	reload  int32 // the value committed by the last full write ("reset_count")
	latch   int32 // -1 = no latch pending
	lsbNext bool  // for rlMode==3: true if the next byte written/read is the LSB

	// T2_out and T2_ultrasonic are only meaningful on channel 2 but kept
	// uniformly since spec.md 4.5 describes them per-channel state.
	out         bool
	ultrasonic  bool
}

// PIT is the three-channel timer. IRQ0Pending counts channel-0 underflows
// not yet delivered as an interrupt; the main loop drains it one at a
// time, per spec.md's "IRQ0 is never coalesced below 1" rule.
type PIT struct {
	ch [3]pitChannel

	IRQ0Pending int
	IntPeriodMS int

	accum float64 // fractional PIT ticks carried across TickUpdate calls
}

func NewPIT() *PIT {
	p := &PIT{}
	p.ColdReset()
	return p
}

// ColdReset applies spec.md 4.5's reset values: channel 0 zeroed (reload 0
// treated as 65536), channels 1 and 2 reload 1024, LSB-toggle true.
func (p *PIT) ColdReset() {
	for i := range p.ch {
		p.ch[i] = pitChannel{latch: -1, lsbNext: true, rlMode: 3}
	}
	p.ch[0].reload, p.ch[0].count = 0, 0
	p.ch[1].reload, p.ch[1].count = 1024, 1024
	p.ch[2].reload, p.ch[2].count = 1024, 1024
	p.IRQ0Pending = 0
	p.accum = 0
	p.recomputeIntPeriod()
}

func effectiveReload(reload int32) int32 {
	if reload == 0 {
		return 65536
	}
	return reload
}

func (p *PIT) recomputeIntPeriod() {
	ms := effectiveReload(p.ch[0].reload) * 1000 / pitClockHz
	if ms < 1 {
		ms = 1
	}
	p.IntPeriodMS = int(ms)
}

func (p *PIT) In(port uint16) (byte, bool) {
	switch port {
	case PortPITBase, PortPITBase + 1, PortPITBase + 2:
		return p.readData(int(port - PortPITBase)), true
	}
	return 0, false
}

func (p *PIT) Out(port uint16, v byte) {
	switch port {
	case PortPITBase, PortPITBase + 1, PortPITBase + 2:
		p.writeData(int(port-PortPITBase), v)
	case PortPITBase + 3:
		p.writeControl(v)
	}
}

// writeData implements spec.md 4.5's "write timer" contract.
func (p *PIT) writeData(ch int, v byte) {
	c := &p.ch[ch]
	var commit bool
	var full int32

	switch c.rlMode {
	case 1: // LSB only
		full = int32(v)
		commit = true
	case 2: // MSB only
		full = int32(v) << 8
		commit = true
	case 3: // alternate, LSB first
		if c.lsbNext {
			c.reload = int32(v) // stash LSB in reload until MSB arrives
			c.lsbNext = false
			return
		}
		full = int32(v)<<8 | (c.reload & 0xFF)
		c.lsbNext = true
		commit = true
	}
	if !commit {
		return
	}

	c.reload = full
	if c.mode == 0 {
		c.count = full
	}
	if ch == 0 {
		p.recomputeIntPeriod()
	}
	if ch == 2 {
		c.ultrasonic = effectiveReload(full) < 80
	}
}

// readData implements spec.md 4.5's "read data" contract.
func (p *PIT) readData(ch int) byte {
	c := &p.ch[ch]
	var v int32
	if c.latch >= 0 {
		v = c.latch
	} else {
		v = c.count
	}
	switch c.rlMode {
	case 1:
		if c.latch >= 0 {
			c.latch = -1
		}
		return byte(v)
	case 2:
		if c.latch >= 0 {
			c.latch = -1
		}
		return byte(v >> 8)
	default: // 3: alternate LSB then MSB
		if c.lsbNext {
			c.lsbNext = false
			return byte(v)
		}
		c.lsbNext = true
		if c.latch >= 0 {
			c.latch = -1
		}
		return byte(v >> 8)
	}
}

// writeControl implements the port-0x43 mode/control-word contract.
func (p *PIT) writeControl(v byte) {
	ch := int(v>>6) & 3
	if ch == 3 { // read-back command, not modeled beyond ignoring it
		return
	}
	c := &p.ch[ch]

	rl := (v >> 4) & 3
	if rl == 0 {
		c.latch = c.count
		return
	}
	c.rlMode = rl
	c.lsbNext = true

	c.mode = (v >> 1) & 7
	c.bcd = v&1 != 0
}

// TickUpdate advances channels 0 and 2 (channel 1 is not advanced) by the
// PIT ticks corresponding to cpuTicks elapsed CPU ticks at cpuHz, carrying
// the fractional remainder across calls per spec.md 4.5.
func (p *PIT) TickUpdate(cpuTicks int, cpuHz float64) {
	p.accum += float64(cpuTicks) * pitClockHz / cpuHz
	whole := int32(p.accum)
	p.accum -= float64(whole)
	if whole <= 0 {
		return
	}

	c0 := &p.ch[0]
	c0.count -= whole
	for c0.count <= 0 {
		c0.count += effectiveReload(c0.reload)
		p.IRQ0Pending++
	}

	c2 := &p.ch[2]
	prevCount := c2.count
	c2.count -= whole
	reload2 := effectiveReload(c2.reload)
	switch c2.mode {
	case 2: // rate generator: pulse T2_out true briefly on the reload edge
		c2.out = false
		for c2.count <= 0 {
			c2.count += reload2
			c2.out = true
		}
	case 3: // square wave
		for c2.count <= 0 {
			c2.count += reload2
		}
		c2.out = c2.count >= reload2/2
	default:
		c2.out = c2.count > 0
		_ = prevCount
	}
}
