// cpu_jump.go - conditional/unconditional control transfer, LOOP family,
// XCHG, IN/OUT, INT3/INT/INTO, LOCK/HLT, and the prefix classes (which are
// consumed directly in CPU.Step and are unreachable in normal operation;
// their handlers exist so the dispatch table stays exhaustive against
// spec.md's xlat_class range).
package main

const condNone = 0xFF

func (c *CPU) resolveCondTerm(v byte) bool {
	if v == condNone {
		return false
	}
	return c.Flags.get(flagIndex(v))
}

// execCondJump is xlat_class 0, spec.md 4.3's row 0.
func (c *CPU) execCondJump() bool {
	rel := c.fetchByte()
	idx := (c.rawOpcode >> 1) & 7
	a := c.resolveCondTerm(c.tables.CondJumpA[idx])
	b := c.resolveCondTerm(c.tables.CondJumpB[idx])
	cc := c.resolveCondTerm(c.tables.CondJumpC[idx])
	d := c.resolveCondTerm(c.tables.CondJumpD[idx])
	inner := a || b || (cc != d)
	taken := (c.iW == 1) != inner
	if taken {
		ip := c.mem.GetReg16(RegIP)
		c.mem.SetReg16(RegIP, ip+SignExtendByte(rel))
	}
	return false
}

// execLoop is xlat_class 13: LOOP/LOOPZ/LOOPNZ/JCXZ.
func (c *CPU) execLoop() bool {
	rel := c.fetchByte()
	cx := c.mem.GetReg16(RegCX)
	taken := false
	switch c.rawOpcode {
	case 0xE0: // LOOPNZ/LOOPNE
		cx--
		c.mem.SetReg16(RegCX, cx)
		taken = cx != 0 && !c.Flags.ZF
	case 0xE1: // LOOPZ/LOOPE
		cx--
		c.mem.SetReg16(RegCX, cx)
		taken = cx != 0 && c.Flags.ZF
	case 0xE2: // LOOP
		cx--
		c.mem.SetReg16(RegCX, cx)
		taken = cx != 0
	case 0xE3: // JCXZ
		taken = cx == 0
	}
	if taken {
		ip := c.mem.GetReg16(RegIP)
		c.mem.SetReg16(RegIP, ip+SignExtendByte(rel))
	}
	return false
}

// execJmpCallDirect is xlat_class 14: near/short/far direct JMP and near
// direct CALL.
func (c *CPU) execJmpCallDirect() bool {
	switch c.rawOpcode {
	case 0xE8:
		rel := c.fetchWord()
		ip := c.mem.GetReg16(RegIP)
		c.push16(ip)
		c.mem.SetReg16(RegIP, ip+rel)
	case 0xE9:
		rel := c.fetchWord()
		ip := c.mem.GetReg16(RegIP)
		c.mem.SetReg16(RegIP, ip+rel)
	case 0xEB:
		rel := c.fetchByte()
		ip := c.mem.GetReg16(RegIP)
		c.mem.SetReg16(RegIP, ip+SignExtendByte(rel))
	case 0xEA:
		off := c.fetchWord()
		seg := c.fetchWord()
		c.mem.SetReg16(RegCS, seg)
		c.mem.SetReg16(RegIP, off)
	}
	return false
}

// execXchgAccum is xlat_class 16 (opcodes 0x90..0x97): XCHG AX, r16
// (0x90 is the AX,AX identity form, i.e. NOP).
func (c *CPU) execXchgAccum() bool {
	reg := int(c.rawOpcode & 7)
	if reg == RegAX {
		return false
	}
	ax := c.mem.GetReg16(RegAX)
	other := c.mem.GetReg16(reg)
	c.mem.SetReg16(RegAX, other)
	c.mem.SetReg16(reg, ax)
	return false
}

// execXchgRegRM is xlat_class 24 (opcodes 0x86/0x87): the early-exit
// no-op when source and destination addresses coincide is a testable
// property (spec.md 8).
func (c *CPU) execXchgRegRM() bool {
	if c.opToAddr == c.opFromAddr {
		return false
	}
	a := c.readOperand(c.opToAddr, c.iW)
	b := c.readOperand(c.opFromAddr, c.iW)
	c.writeOperand(c.opToAddr, c.iW, b)
	c.writeOperand(c.opFromAddr, c.iW, a)
	return false
}

func (c *CPU) execIn() bool {
	var port uint16
	if c.rawOpcode == 0xE4 || c.rawOpcode == 0xE5 {
		port = uint16(c.fetchByte())
	} else {
		port = c.mem.GetReg16(RegDX)
	}
	if c.iW == 0 {
		c.mem.SetReg8(0, c.io.In(port))
	} else {
		lo := c.io.In(port)
		hi := c.io.In(port + 1)
		c.mem.SetReg16(RegAX, uint16(lo)|uint16(hi)<<8)
	}
	return false
}

func (c *CPU) execOut() bool {
	var port uint16
	if c.rawOpcode == 0xE6 || c.rawOpcode == 0xE7 {
		port = uint16(c.fetchByte())
	} else {
		port = c.mem.GetReg16(RegDX)
	}
	if c.iW == 0 {
		c.io.Out(port, c.mem.GetReg8(0))
	} else {
		v := c.mem.GetReg16(RegAX)
		c.io.Out(port, byte(v))
		c.io.Out(port+1, byte(v>>8))
	}
	return false
}

// execRepPrefix and execSegOverridePrefix exist for dispatch-table
// exhaustiveness; CPU.Step consumes REP and segment-override prefix
// bytes directly before classification, so these are unreachable in
// normal operation.
func (c *CPU) execRepPrefix() bool {
	c.logUnknown("REP prefix reached dispatch instead of being pre-consumed")
	return false
}

func (c *CPU) execSegOverridePrefix() bool {
	c.logUnknown("segment override prefix reached dispatch instead of being pre-consumed")
	return false
}

func (c *CPU) execInt3() bool {
	c.injectInterrupt(3)
	return false
}

func (c *CPU) execIntImm8() bool {
	n := c.fetchByte()
	c.injectInterrupt(int(n))
	return false
}

func (c *CPU) execInto() bool {
	if c.Flags.OF {
		c.injectInterrupt(4)
	}
	return false
}

func (c *CPU) execLock() bool { return false }

func (c *CPU) execHlt() bool {
	c.Halted = true
	return false
}
