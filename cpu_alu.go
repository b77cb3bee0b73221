// cpu_alu.go - ALU group, unary/mul/div/test, decimal adjust, sign
// extension and flag-only classes.
//
// Grounded on cpu_x86_grp.go's opGrp1_Eb_Ib/opGrp1_Ev_Iv switch-on-op
// shape, generalized from the teacher's fixed 8/16/32-bit trio to the
// spec's 8/16-bit pair driven by c.iW.
package main

// aluOp applies ALU sub-operation opIdx (0=ADD..7=CMP, 8=MOV) to
// dest/src at addr toAddr, writing the result back except for CMP/TEST.
// It sets opDest/opSource/opResult for the generic flag-commit contract
// and stores CF in c.Flags itself, since ADD/SUB/CMP fix CF outside the
// generic AO_ARITH bitmask. It returns nothing.
func (c *CPU) aluOp(opIdx byte, toAddr uint32, dest, src uint32) {
	c.opDest = dest
	c.opSource = src
	mask := maskOf(c.iW)

	switch opIdx {
	case 0: // ADD
		result := dest + src
		c.opResult = result & mask
		c.Flags.CF = c.opResult < dest&mask
		c.writeOperand(toAddr, c.iW, c.opResult)
	case 1: // OR
		c.opResult = (dest | src) & mask
		c.writeOperand(toAddr, c.iW, c.opResult)
	case 2: // ADC
		var carry uint32
		if c.Flags.CF {
			carry = 1
		}
		result := dest + src + carry
		c.opResult = result & mask
		c.Flags.CF = result > mask
		c.writeOperand(toAddr, c.iW, c.opResult)
	case 3: // SBB
		var borrow uint32
		if c.Flags.CF {
			borrow = 1
		}
		result := dest - src - borrow
		c.opResult = result & mask
		c.Flags.CF = dest&mask < (src+borrow)&mask
		c.writeOperand(toAddr, c.iW, c.opResult)
	case 4: // AND
		c.opResult = (dest & src) & mask
		c.writeOperand(toAddr, c.iW, c.opResult)
	case 5: // SUB
		result := dest - src
		c.opResult = result & mask
		c.Flags.CF = c.opResult > dest&mask
		c.writeOperand(toAddr, c.iW, c.opResult)
	case 6: // XOR
		c.opResult = (dest ^ src) & mask
		c.writeOperand(toAddr, c.iW, c.opResult)
	case 7: // CMP
		result := dest - src
		c.opResult = result & mask
		c.Flags.CF = c.opResult > dest&mask
	case 8: // MOV
		c.opResult = src & mask
		c.writeOperand(toAddr, c.iW, c.opResult)
	}
}

// execALUOrMov is xlat_class 9: ADD/OR/ADC/SBB/AND/SUB/XOR/CMP/MOV
// between a register and an r/m operand, sub-op selected by extra.
func (c *CPU) execALUOrMov() bool {
	dest := c.readOperand(c.opToAddr, c.iW)
	src := c.readOperand(c.opFromAddr, c.iW)
	c.aluOp(c.extra, c.opToAddr, dest, src)
	return true
}

// execALUAccumImm is xlat_class 7: ALU AL/AX, imm. It synthesizes the
// register-direct addressing spec.md 4.3 describes then falls through to
// the shared ALU core.
func (c *CPU) execALUAccumImm() bool {
	c.extra = (c.rawOpcode >> 3) & 7
	c.mod, c.rm = 3, 0
	toAddr := Reg8Addr(RegAX)
	if c.iW == 1 {
		toAddr = Reg16Addr(RegAX)
	}
	c.opToAddr = toAddr
	var imm uint32
	if c.iW == 0 {
		imm = uint32(c.fetchByte())
	} else {
		imm = uint32(c.fetchWord())
	}
	dest := c.readOperand(toAddr, c.iW)
	c.aluOp(c.extra, toAddr, dest, imm)
	return true
}

// execALURegImm is xlat_class 8: ALU r/m, imm (opcodes 0x80/0x81/0x83).
// The sub-operation is the ModR/M reg field, per the classic Group 1
// encoding; the immediate width/sign-extension depends on which of the
// three opcodes was fetched.
func (c *CPU) execALURegImm() bool {
	var imm uint32
	switch c.rawOpcode {
	case 0x83:
		imm = uint32(SignExtendByte(c.fetchByte()))
	case 0x80:
		imm = uint32(c.fetchByte())
	default: // 0x81
		imm = uint32(c.fetchWord())
	}
	dest := c.readOperand(c.opToAddr, c.iW)
	c.aluOp(c.reg, c.opToAddr, dest, imm)
	return true
}

// execTestRegRM is xlat_class 15: TEST r, r/m (AND for flags only).
func (c *CPU) execTestRegRM() bool {
	dest := c.readOperand(c.opToAddr, c.iW)
	src := c.readOperand(c.opFromAddr, c.iW)
	c.opDest, c.opSource = dest, src
	c.opResult = (dest & src) & maskOf(c.iW)
	c.Flags.CF = false
	c.Flags.OF = false
	return true
}

// execTestAccumImm is xlat_class 47: TEST AL/AX, imm.
func (c *CPU) execTestAccumImm() bool {
	addr := Reg8Addr(RegAX)
	if c.iW == 1 {
		addr = Reg16Addr(RegAX)
	}
	var imm uint32
	if c.iW == 0 {
		imm = uint32(c.fetchByte())
	} else {
		imm = uint32(c.fetchWord())
	}
	dest := c.readOperand(addr, c.iW)
	c.opDest, c.opSource = dest, imm
	c.opResult = (dest & imm) & maskOf(c.iW)
	c.Flags.CF = false
	c.Flags.OF = false
	return true
}

// execGroupUnaryMulDivTest is xlat_class 6 (Group 3): TEST/NOT/NEG/MUL/
// IMUL/DIV/IDIV r/m, sub-op selected by the ModR/M reg field.
func (c *CPU) execGroupUnaryMulDivTest() bool {
	switch c.reg {
	case 0, 1: // TEST r/m, imm
		var imm uint32
		if c.iW == 0 {
			imm = uint32(c.fetchByte())
		} else {
			imm = uint32(c.fetchWord())
		}
		dest := c.readOperand(c.rmAddr, c.iW)
		c.opDest, c.opSource = dest, imm
		c.opResult = (dest & imm) & maskOf(c.iW)
		c.Flags.CF = false
		c.Flags.OF = false
		return true
	case 2: // NOT
		v := c.readOperand(c.rmAddr, c.iW)
		c.writeOperand(c.rmAddr, c.iW, ^v&maskOf(c.iW))
		return false
	case 3: // NEG
		v := c.readOperand(c.rmAddr, c.iW)
		result := (0 - v) & maskOf(c.iW)
		c.writeOperand(c.rmAddr, c.iW, result)
		c.opDest, c.opSource, c.opResult = 0, v, result
		// SZP is set here and false returned, so class 6's OC_LOGIC
		// commit does not clear the CF set below.
		c.setSZPFromResult(result, c.iW)
		c.Flags.CF = result != 0
		c.Flags.OF = false
		return false
	case 4: // MUL
		c.execMul()
		return false
	case 5: // IMUL
		c.execImul()
		return false
	case 6: // DIV
		c.execDiv()
		return false
	case 7: // IDIV
		c.execIdiv()
		return false
	}
	return false
}

func (c *CPU) execMul() {
	a := c.readOperand(c.rmAddr, c.iW)
	if c.iW == 0 {
		al := uint32(c.mem.GetReg8(0))
		result := al * (a & 0xFF)
		c.mem.SetReg16(RegAX, uint16(result))
		hi := result >> 8
		of := hi != 0
		c.Flags.CF, c.Flags.OF = of, of
	} else {
		ax := uint32(c.mem.GetReg16(RegAX))
		result := ax * (a & 0xFFFF)
		c.mem.SetReg16(RegAX, uint16(result))
		c.mem.SetReg16(RegDX, uint16(result>>16))
		of := (result >> 16) != 0
		c.Flags.CF, c.Flags.OF = of, of
	}
}

func (c *CPU) execImul() {
	a := int32(int16(int8(byte(c.readOperand(c.rmAddr, c.iW)))))
	if c.iW == 1 {
		a = int32(int16(c.readOperand(c.rmAddr, c.iW)))
	}
	if c.iW == 0 {
		al := int32(int8(c.mem.GetReg8(0)))
		result := al * a
		c.mem.SetReg16(RegAX, uint16(int16(result)))
		of := result != int32(int8(byte(result)))
		c.Flags.CF, c.Flags.OF = of, of
	} else {
		ax := int32(int16(c.mem.GetReg16(RegAX)))
		result := int64(ax) * int64(a)
		c.mem.SetReg16(RegAX, uint16(result))
		c.mem.SetReg16(RegDX, uint16(result>>16))
		of := result != int64(int32(int16(uint16(result))))
		c.Flags.CF, c.Flags.OF = of, of
	}
}

func (c *CPU) execDiv() {
	divisor := c.readOperand(c.rmAddr, c.iW)
	if c.iW == 0 {
		if divisor&0xFF == 0 {
			c.injectInterrupt(0)
			return
		}
		dividend := uint32(c.mem.GetReg16(RegAX))
		q := dividend / (divisor & 0xFF)
		r := dividend % (divisor & 0xFF)
		if q > 0xFF {
			c.injectInterrupt(0)
			return
		}
		c.mem.SetReg8(0, byte(q))
		c.mem.SetReg8(4, byte(r))
	} else {
		dividend := uint32(c.mem.GetReg16(RegDX))<<16 | uint32(c.mem.GetReg16(RegAX))
		div := divisor & 0xFFFF
		if div == 0 {
			c.injectInterrupt(0)
			return
		}
		q := dividend / div
		r := dividend % div
		if q > 0xFFFF {
			c.injectInterrupt(0)
			return
		}
		c.mem.SetReg16(RegAX, uint16(q))
		c.mem.SetReg16(RegDX, uint16(r))
	}
}

func (c *CPU) execIdiv() {
	divisor := c.readOperand(c.rmAddr, c.iW)
	if c.iW == 0 {
		d := int16(int8(byte(divisor)))
		if d == 0 {
			c.injectInterrupt(0)
			return
		}
		dividend := int16(c.mem.GetReg16(RegAX))
		q := dividend / d
		r := dividend % d
		if q > 127 || q < -128 {
			c.injectInterrupt(0)
			return
		}
		c.mem.SetReg8(0, byte(q))
		c.mem.SetReg8(4, byte(r))
	} else {
		d := int32(int16(divisor))
		if d == 0 {
			c.injectInterrupt(0)
			return
		}
		dividend := int32(int16(c.mem.GetReg16(RegDX)))<<16 | int32(c.mem.GetReg16(RegAX))
		q := dividend / d
		r := dividend % d
		if q > 32767 || q < -32768 {
			c.injectInterrupt(0)
			return
		}
		c.mem.SetReg16(RegAX, uint16(int16(q)))
		c.mem.SetReg16(RegDX, uint16(int16(r)))
	}
}

// execDaaDas is xlat_class 28.
func (c *CPU) execDaaDas() bool {
	al := c.mem.GetReg8(0)
	isDas := c.rawOpcode == 0x2F
	oldAL, oldCF := al, c.Flags.CF
	c.Flags.CF = false
	if al&0x0F > 9 || c.Flags.AF {
		if isDas {
			c.Flags.CF = oldCF || al < 6
			al -= 6
		} else {
			c.Flags.CF = oldCF || (uint16(al)+6) > 0xFF
			al += 6
		}
		c.Flags.AF = true
	} else {
		c.Flags.AF = false
	}
	if oldAL > 0x99 || oldCF {
		if isDas {
			al -= 0x60
		} else {
			al += 0x60
		}
		c.Flags.CF = true
	}
	c.mem.SetReg8(0, al)
	c.setSZPFromResult(uint32(al), 0)
	return false
}

// execAaaAas is xlat_class 29.
func (c *CPU) execAaaAas() bool {
	al := c.mem.GetReg8(0)
	ah := c.mem.GetReg8(4)
	isAas := c.rawOpcode == 0x3F
	if al&0x0F > 9 || c.Flags.AF {
		if isAas {
			al -= 6
			ah--
		} else {
			al += 6
			ah++
		}
		c.Flags.AF = true
		c.Flags.CF = true
	} else {
		c.Flags.AF = false
		c.Flags.CF = false
	}
	al &= 0x0F
	c.mem.SetReg8(0, al)
	c.mem.SetReg8(4, ah)
	return false
}

func (c *CPU) execCbw() bool {
	al := c.mem.GetReg8(0)
	c.mem.SetReg16(RegAX, uint16(int16(int8(al))))
	return false
}

func (c *CPU) execCwd() bool {
	ax := int16(c.mem.GetReg16(RegAX))
	if ax < 0 {
		c.mem.SetReg16(RegDX, 0xFFFF)
	} else {
		c.mem.SetReg16(RegDX, 0)
	}
	return false
}

// execAam is xlat_class 41: AH = AL / divisor, AL = AL % divisor,
// raising INT 0 on divisor 0.
func (c *CPU) execAam() bool {
	divisor := c.fetchByte()
	if divisor == 0 {
		c.injectInterrupt(0)
		return false
	}
	al := c.mem.GetReg8(0)
	c.mem.SetReg8(4, al/divisor)
	c.mem.SetReg8(0, al%divisor)
	c.setSZPFromResult(uint32(c.mem.GetReg8(0)), 0)
	return false
}

// execAad is xlat_class 42: AL = AH*base+AL, AH = 0.
func (c *CPU) execAad() bool {
	base := c.fetchByte()
	ah := c.mem.GetReg8(4)
	al := c.mem.GetReg8(0)
	result := byte(uint16(ah)*uint16(base) + uint16(al))
	c.mem.SetReg8(0, result)
	c.mem.SetReg8(4, 0)
	c.setSZPFromResult(uint32(result), 0)
	return false
}

func (c *CPU) execSalc() bool {
	if c.Flags.CF {
		c.mem.SetReg8(0, 0xFF)
	} else {
		c.mem.SetReg8(0, 0x00)
	}
	return false
}

// execXlat is xlat_class 44 (0xD7): AL = [seg:BX+AL], honoring a segment
// override prefix the same way the other string-adjacent ops do (default
// DS, per spec.md 4.3's "Segment override" note).
func (c *CPU) execXlat() bool {
	seg := c.mem.GetReg16(c.segForString())
	bx := c.mem.GetReg16(RegBX)
	al := c.mem.GetReg8(0)
	addr := uint32(seg)*16 + uint32(bx+uint16(al))
	c.mem.SetReg8(0, c.mem.ReadByte(addr))
	return false
}

func (c *CPU) execCmc() bool {
	c.Flags.CF = !c.Flags.CF
	return false
}

// execFlagSetClear is xlat_class 46: CLC/STC/CLI/STI/CLD/STD, selected
// directly by the raw opcode.
func (c *CPU) execFlagSetClear() bool {
	switch c.rawOpcode {
	case 0xF8:
		c.Flags.CF = false
	case 0xF9:
		c.Flags.CF = true
	case 0xFA:
		c.Flags.IF = false
	case 0xFB:
		c.Flags.IF = true
	case 0xFC:
		c.Flags.DF = false
	case 0xFD:
		c.Flags.DF = true
	}
	return false
}
