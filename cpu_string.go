// cpu_string.go - REP-aware string operations: MOVS/STOS/LODS,
// CMPS/SCAS, and the 80186 INS/OUTS pair.
//
// REP is modeled by running the whole repetition inside the class
// handler rather than one iteration per CPU.Step call, the same
// simplification other_examples/andreas-jonsson-virtualxt__processor.go's
// string-op loop makes: the guest cannot observe an interrupt landing
// mid-repetition in this core's cooperative single-thread model, so
// looping to completion here is behavior-preserving and far simpler than
// threading repeat state across Step calls.
package main

func (c *CPU) segForString() int {
	seg := RegDS
	if c.segOverrideEn > 0 {
		seg = c.segOverride
	}
	return seg
}

func (c *CPU) siAddr() uint32 {
	seg := c.segForString()
	return uint32(c.mem.GetReg16(seg))*16 + uint32(c.mem.GetReg16(RegSI))
}

func (c *CPU) diAddr() uint32 {
	return uint32(c.mem.GetReg16(RegES))*16 + uint32(c.mem.GetReg16(RegDI))
}

func (c *CPU) advanceIndex(reg int, iw byte) {
	step := int16(1)
	if iw == 1 {
		step = 2
	}
	if c.Flags.DF {
		step = -step
	}
	cur := c.mem.GetReg16(reg)
	c.mem.SetReg16(reg, uint16(int16(cur)+step))
}

func (c *CPU) accumAddr() uint32 {
	if c.iW == 1 {
		return Reg16Addr(RegAX)
	}
	return Reg8Addr(RegAX)
}

// execStringMovStosLods is xlat_class 17.
func (c *CPU) execStringMovStosLods() bool {
	rep := c.repOverrideEn > 0
	if rep && c.mem.GetReg16(RegCX) == 0 {
		return false
	}
	for {
		switch c.rawOpcode {
		case 0xA4, 0xA5: // MOVS
			v := c.readOperand(c.siAddr(), c.iW)
			c.writeOperand(c.diAddr(), c.iW, v)
			c.advanceIndex(RegSI, c.iW)
			c.advanceIndex(RegDI, c.iW)
		case 0xAA, 0xAB: // STOS
			c.writeOperand(c.diAddr(), c.iW, c.readOperand(c.accumAddr(), c.iW))
			c.advanceIndex(RegDI, c.iW)
		case 0xAC, 0xAD: // LODS
			c.writeOperand(c.accumAddr(), c.iW, c.readOperand(c.siAddr(), c.iW))
			c.advanceIndex(RegSI, c.iW)
		}
		if !rep {
			break
		}
		cx := c.mem.GetReg16(RegCX) - 1
		c.mem.SetReg16(RegCX, cx)
		if cx == 0 {
			break
		}
	}
	return false
}

// execStringCmpsScas is xlat_class 18, with the REPE/REPNE early exit on
// ZF mismatch spec.md 4.3 describes.
func (c *CPU) execStringCmpsScas() bool {
	rep := c.repOverrideEn > 0
	if rep && c.mem.GetReg16(RegCX) == 0 {
		return false
	}
	mask := maskOf(c.iW)
	for {
		var dest, src uint32
		switch c.rawOpcode {
		case 0xA6, 0xA7: // CMPS
			dest = c.readOperand(c.siAddr(), c.iW)
			src = c.readOperand(c.diAddr(), c.iW)
			c.advanceIndex(RegSI, c.iW)
			c.advanceIndex(RegDI, c.iW)
		case 0xAE, 0xAF: // SCAS
			dest = c.readOperand(c.accumAddr(), c.iW)
			src = c.readOperand(c.diAddr(), c.iW)
			c.advanceIndex(RegDI, c.iW)
		}
		result := dest - src
		c.opDest, c.opSource, c.opResult = dest, src, result&mask
		c.Flags.CF = result&mask > dest&mask
		c.commitFlags()
		if !rep {
			break
		}
		cx := c.mem.GetReg16(RegCX) - 1
		c.mem.SetReg16(RegCX, cx)
		if cx == 0 {
			break
		}
		wantZF := c.repMode == 1
		if c.Flags.ZF != wantZF {
			break
		}
	}
	return false
}

// execInsStr is xlat_class 59 (0x6C/0x6D): INSB/INSW.
func (c *CPU) execInsStr() bool {
	rep := c.repOverrideEn > 0
	if rep && c.mem.GetReg16(RegCX) == 0 {
		return false
	}
	for {
		port := c.mem.GetReg16(RegDX)
		if c.iW == 0 {
			c.mem.WriteByte(c.diAddr(), c.io.In(port))
		} else {
			lo := c.io.In(port)
			hi := c.io.In(port + 1)
			c.mem.WriteWord(c.diAddr(), uint16(lo)|uint16(hi)<<8)
		}
		c.advanceIndex(RegDI, c.iW)
		if !rep {
			break
		}
		cx := c.mem.GetReg16(RegCX) - 1
		c.mem.SetReg16(RegCX, cx)
		if cx == 0 {
			break
		}
	}
	return false
}

// execOutsStr is xlat_class 60 (0x6E/0x6F): OUTSB/OUTSW.
func (c *CPU) execOutsStr() bool {
	rep := c.repOverrideEn > 0
	if rep && c.mem.GetReg16(RegCX) == 0 {
		return false
	}
	for {
		port := c.mem.GetReg16(RegDX)
		v := c.readOperand(c.siAddr(), c.iW)
		c.io.Out(port, byte(v))
		if c.iW == 1 {
			c.io.Out(port+1, byte(v>>8))
		}
		c.advanceIndex(RegSI, c.iW)
		if !rep {
			break
		}
		cx := c.mem.GetReg16(RegCX) - 1
		c.mem.SetReg16(RegCX, cx)
		if cx == 0 {
			break
		}
	}
	return false
}
