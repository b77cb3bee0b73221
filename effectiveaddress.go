// effectiveaddress.go - the L3 effective-address unit
//
// Grounded on other_examples/andreas-jonsson-virtualxt__lookup.go's
// modRMLookup: a function table indexed by the ModR/M byte's mod/rm bits
// resolving straight to a segment:offset pair, cross-checked against
// spec.md 4.2's row/TABLE algorithm. Rather than reproduce the BIOS-style
// generic TABLE[row+k][rm] indirection (whose backing values would be
// another BIOS-supplied table this emulator has no image bytes for), the
// sixteen-bit-addressing base/index/segment rules are expressed directly
// as the two small lookup arrays every 8086-class decoder ships with.
package main

// eaBaseReg and eaIndexReg give the two registers summed to form a
// register-indirect address, indexed by rm (0..7). RegZERO stands in for
// "no such register" so the sum still type-checks as a register read.
var eaBaseReg = [8]int{RegBX, RegBX, RegBP, RegBP, RegSI, RegDI, RegBP, RegBX}
var eaIndexReg = [8]int{RegSI, RegDI, RegSI, RegDI, RegZERO, RegZERO, RegZERO, RegZERO}

// eaDefaultSeg gives the default segment register for each rm when
// mod != 3, overridden by an active segment-override prefix. rm==6 with
// mod==0 is disp16-only (no base) and defaults to DS; every other base
// through BP defaults to SS.
var eaDefaultSeg = [8]int{RegDS, RegDS, RegSS, RegSS, RegDS, RegDS, RegSS, RegDS}

// eaUsesDisp16Only marks rm==6, mod==0 as the disp16-with-no-base special
// case from the classic 8086 ModR/M table.
func eaUsesDisp16Only(mod, rm byte) bool { return mod == 0 && rm == 6 }

// ResolveEffectiveAddress implements spec.md 4.2. mod, rm, reg come from
// the just-fetched ModR/M byte; disp is i_data1 already sign-extended (or
// zeroed) by the caller per mod; segOverrideEn/segOverride come from the
// instruction working set's prefix counters.
func ResolveEffectiveAddress(mem *Memory, mod, rm, reg byte, iw, id byte, disp uint16, segOverrideEn int, segOverride int) (rmAddr, opFromAddr, opToAddr uint32) {
	if mod == 3 {
		rmAddr = registerOperandAddr(rm, iw)
	} else {
		var addr16 uint16
		if eaUsesDisp16Only(mod, rm) {
			addr16 = disp
		} else {
			addr16 = mem.GetReg16(eaBaseReg[rm]) + mem.GetReg16(eaIndexReg[rm]) + disp
		}
		segIdx := eaDefaultSeg[rm]
		if eaUsesDisp16Only(mod, rm) {
			segIdx = RegDS
		}
		if segOverrideEn > 0 {
			segIdx = segOverride
		}
		rmAddr = uint32(mem.GetReg16(segIdx))*16 + uint32(addr16)
	}

	regAddr := registerOperandAddr(reg, iw)

	opFromAddr, opToAddr = rmAddr, regAddr
	if id == 1 {
		opFromAddr, opToAddr = regAddr, rmAddr
	}
	return
}

// registerOperandAddr gives the register-bank address for a register
// index in the ModR/M's rm/reg field space (0..7), honoring the 8-bit
// register interleave when iw==0.
func registerOperandAddr(index byte, iw byte) uint32 {
	if iw == 0 {
		return Reg8Addr(int(index))
	}
	return Reg16Addr(int(index))
}

// EAOffset16 returns just the 16-bit segment-relative offset an
// operand's ModR/M would compute, without the segment multiply — used by
// LEA, which loads that offset itself rather than the memory it names.
func EAOffset16(mem *Memory, mod, rm byte, disp uint16) uint16 {
	if eaUsesDisp16Only(mod, rm) {
		return disp
	}
	return mem.GetReg16(eaBaseReg[rm]) + mem.GetReg16(eaIndexReg[rm]) + disp
}

// SignExtendByte sign-extends an 8-bit displacement/immediate to 16 bits,
// used for mod==1 displacements and byte-immediate ALU/shift forms.
func SignExtendByte(b byte) uint16 {
	return uint16(int16(int8(b)))
}
