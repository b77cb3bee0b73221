// cpu_operands.go - width-generic operand read/write and the flag-commit
// contract shared by every ALU-flavored class handler.
//
// Grounded on cpu_x86_grp.go's setFlagsArith8/16 and setFlagsLogic8/16:
// the teacher parameterizes flag computation on operand width by pairs of
// near-duplicate functions; here the width is threaded as a parameter
// instead (spec.md 9's "Mega-macro for memory vs. register operand"
// reimplementation note: "parameterize the ALU on operand width").
package main

func (c *CPU) readOperand(addr uint32, iw byte) uint32 {
	if iw == 0 {
		return uint32(c.mem.ReadByte(addr))
	}
	return uint32(c.mem.ReadWord(addr))
}

func (c *CPU) writeOperand(addr uint32, iw byte, v uint32) {
	if iw == 0 {
		c.mem.WriteByte(addr, byte(v))
	} else {
		c.mem.WriteWord(addr, uint16(v))
	}
}

func widthOf(iw byte) int {
	if iw == 0 {
		return 8
	}
	return 16
}

func maskOf(iw byte) uint32 {
	if iw == 0 {
		return 0xFF
	}
	return 0xFFFF
}

func signBit(v uint32, width int) bool {
	return (v>>(width-1))&1 != 0
}

// commitFlags realizes spec.md 4.3's flag-update contract from
// c.opDest/opSource/opResult and c.flagsType, using c.iW for width.
func (c *CPU) commitFlags() {
	if c.flagsType == 0 {
		return
	}
	width := widthOf(c.iW)
	mask := maskOf(c.iW)
	result := c.opResult & mask

	if c.flagsType&flagsSZP != 0 {
		c.Flags.SF = signBit(result, width)
		c.Flags.ZF = result == 0
		c.Flags.PF = ParityEven(byte(result & 0xFF))
	}
	if c.flagsType&flagsAOArith != 0 {
		c.Flags.AF = (c.opSource^c.opDest^c.opResult)&0x10 != 0
		if result == c.opDest&mask {
			c.Flags.OF = false
		} else {
			c.Flags.OF = c.Flags.CF != signBit(c.opSource^c.opDest^c.opResult, width)
		}
	}
	if c.flagsType&flagsOCLogic != 0 {
		c.Flags.CF = false
		c.Flags.OF = false
	}
}

// setSZPFromResult applies just the SZP triple for classes (INC/DEC,
// shifts, some string ops) that update SZP but compute CF/OF themselves.
func (c *CPU) setSZPFromResult(result uint32, iw byte) {
	width := widthOf(iw)
	mask := maskOf(iw)
	r := result & mask
	c.Flags.SF = signBit(r, width)
	c.Flags.ZF = r == 0
	c.Flags.PF = ParityEven(byte(r & 0xFF))
}
