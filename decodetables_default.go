// decodetables_default.go - a built-in classic 8086/80186 decode table
// set, used whenever LoadBIOS cannot find a real BIOS image to source
// the tables from (spec.md 7's "BIOS load failure... the guest observes
// a zeroed ROM" path would otherwise leave every table zeroed and the
// CPU unable to execute anything, which is unhelpful for local testing
// and for booting the emulator against a plain boot-sector image that
// carries no BIOS of its own).
//
// The byte values here are this codebase's own contract, not a
// reverse-engineered BIOS asset: spec.md 4.1 specifies the table
// *layout* and how the CPU consults it, not particular byte values,
// since those come from whatever BIOS image ships with a real
// deployment. DefaultDecodeTables documents the concrete class/extra
// mapping this VM uses when no such image is supplied. See DESIGN.md.
package main

// DefaultDecodeTables builds the twelve tables from a hardcoded classic
// 8086/80186/NEC-V20 opcode map, without requiring a BIOS image.
func DefaultDecodeTables() *DecodeTables {
	t := &DecodeTables{}
	t.ParityFlag = BuildParityTable()

	for i := 0; i < 256; i++ {
		t.XlatOpcode[i] = 69 // default: unsupported/bad, logged only
	}

	setRange := func(lo, hi int, class byte) {
		for i := lo; i <= hi; i++ {
			t.XlatOpcode[i] = class
		}
	}
	set := func(op int, class byte) { t.XlatOpcode[op] = class }

	// Conditional short jumps 0x70..0x7F -> class 0.
	setRange(0x70, 0x7F, 0)

	// MOV r, imm 0xB0..0xBF -> class 1.
	setRange(0xB0, 0xBF, 1)

	// INC/DEC r16 0x40..0x4F -> class 2 (falls through to 5 per spec).
	setRange(0x40, 0x4F, 2)

	// PUSH/POP r16 0x50..0x5F.
	setRange(0x50, 0x57, 3)
	setRange(0x58, 0x5F, 4)

	// Group5 INC/DEC/JMP/CALL/PUSH r/m: 0xFE, 0xFF -> class 5.
	set(0xFE, 5)
	set(0xFF, 5)

	// Group3 unary/MUL/DIV/TEST r/m: 0xF6, 0xF7 -> class 6.
	set(0xF6, 6)
	set(0xF7, 6)

	// ALU AL/AX, imm: 0x04,0x0C,0x14,0x1C,0x24,0x2C,0x34,0x3C (byte) and
	// +1 (word) for ADD/OR/ADC/SBB/AND/SUB/XOR/CMP.
	aluAccumImm := []int{0x04, 0x05, 0x0C, 0x0D, 0x14, 0x15, 0x1C, 0x1D,
		0x24, 0x25, 0x2C, 0x2D, 0x34, 0x35, 0x3C, 0x3D}
	for _, op := range aluAccumImm {
		set(op, 7)
	}

	// ALU r/m, imm: 0x80, 0x81, 0x82, 0x83 -> class 8.
	set(0x80, 8)
	set(0x81, 8)
	set(0x82, 8)
	set(0x83, 8)

	// ALU / MOV r, r/m: 0x00..0x3B skipping the accum-imm slots above,
	// plus MOV 0x88..0x8B.
	aluRegRM := []int{
		0x00, 0x01, 0x02, 0x03, 0x08, 0x09, 0x0A, 0x0B,
		0x10, 0x11, 0x12, 0x13, 0x18, 0x19, 0x1A, 0x1B,
		0x20, 0x21, 0x22, 0x23, 0x28, 0x29, 0x2A, 0x2B,
		0x30, 0x31, 0x32, 0x33, 0x38, 0x39, 0x3A, 0x3B,
		0x88, 0x89, 0x8A, 0x8B,
	}
	for _, op := range aluRegRM {
		set(op, 9)
	}
	extraForALURegRM := map[int]byte{
		0x00: 0, 0x01: 0, 0x02: 0, 0x03: 0,
		0x08: 1, 0x09: 1, 0x0A: 1, 0x0B: 1,
		0x10: 2, 0x11: 2, 0x12: 2, 0x13: 2,
		0x18: 3, 0x19: 3, 0x1A: 3, 0x1B: 3,
		0x20: 4, 0x21: 4, 0x22: 4, 0x23: 4,
		0x28: 5, 0x29: 5, 0x2A: 5, 0x2B: 5,
		0x30: 6, 0x31: 6, 0x32: 6, 0x33: 6,
		0x38: 7, 0x39: 7, 0x3A: 7, 0x3B: 7,
		0x88: 8, 0x89: 8, 0x8A: 8, 0x8B: 8,
	}
	for op, ex := range extraForALURegRM {
		t.XlatSubfunction[op] = ex
	}

	// MOV sreg/LEA/POP r/m: 0x8C, 0x8D, 0x8E, 0x8F.
	set(0x8C, 10)
	set(0x8D, 10)
	set(0x8E, 10)
	set(0x8F, 10)

	// MOV A,[loc]: 0xA0..0xA3.
	setRange(0xA0, 0xA3, 11)

	// Shifts/rotates: 0xD0..0xD3, 0xC0, 0xC1.
	setRange(0xD0, 0xD3, 12)
	set(0xC0, 12)
	set(0xC1, 12)

	// LOOP family 0xE0..0xE3.
	setRange(0xE0, 0xE3, 13)

	// JMP/CALL near/far 0xE8, 0xE9, 0xEA, 0xEB.
	set(0xE8, 14)
	set(0xE9, 14)
	set(0xEA, 14)
	set(0xEB, 14)

	// TEST r, r/m: 0x84, 0x85.
	set(0x84, 15)
	set(0x85, 15)

	// XCHG AX, r16: 0x90..0x97.
	setRange(0x90, 0x97, 16)

	// MOVS/STOS/LODS.
	set(0xA4, 17)
	set(0xA5, 17)
	set(0xAA, 17)
	set(0xAB, 17)
	set(0xAC, 17)
	set(0xAD, 17)

	// CMPS/SCAS.
	set(0xA6, 18)
	set(0xA7, 18)
	set(0xAE, 18)
	set(0xAF, 18)

	// RET/RETF/IRET: 0xC2, 0xC3, 0xCA, 0xCB, 0xCF.
	set(0xC2, 19)
	set(0xC3, 19)
	set(0xCA, 19)
	set(0xCB, 19)
	set(0xCF, 19)

	// MOV r/m, imm: 0xC6, 0xC7.
	set(0xC6, 20)
	set(0xC7, 20)

	// IN/OUT: 0xE4..0xE7, 0xEC..0xEF.
	set(0xE4, 21)
	set(0xE5, 21)
	set(0xEC, 21)
	set(0xED, 21)
	set(0xE6, 22)
	set(0xE7, 22)
	set(0xEE, 22)
	set(0xEF, 22)

	// REP prefixes 0xF2, 0xF3 -> class 23 (consumed by CPU.Step directly).
	set(0xF2, 23)
	set(0xF3, 23)

	// XCHG r, r/m: 0x86, 0x87.
	set(0x86, 24)
	set(0x87, 24)

	// PUSH/POP seg: 0x06,0x0E,0x16,0x1E (push), 0x07,0x17,0x1F (pop; 0x0F
	// is the two-byte escape prefix and is handled below, not POP CS).
	set(0x06, 25)
	set(0x0E, 25)
	set(0x16, 25)
	set(0x1E, 25)
	set(0x07, 26)
	set(0x17, 26)
	set(0x1F, 26)

	// Segment-override prefixes 0x26,0x2E,0x36,0x3E -> class 27.
	set(0x26, 27)
	set(0x2E, 27)
	set(0x36, 27)
	set(0x3E, 27)

	set(0x27, 28) // DAA
	set(0x2F, 28) // DAS (shares the decimal-adjust class; raw opcode disambiguates)
	set(0x37, 29) // AAA
	set(0x3F, 29) // AAS

	set(0x98, 30) // CBW
	set(0x99, 31) // CWD

	set(0x9A, 32) // CALL FAR imm

	set(0x9C, 33) // PUSHF
	set(0x9D, 34) // POPF
	set(0x9E, 35) // SAHF
	set(0x9F, 36) // LAHF

	set(0xC4, 37) // LES
	set(0xC5, 37) // LDS

	set(0xCC, 38) // INT 3
	set(0xCD, 39) // INT imm8
	set(0xCE, 40) // INTO

	set(0xD4, 41) // AAM
	set(0xD5, 42) // AAD

	set(0xD6, 43) // SALC
	set(0xD7, 44) // XLAT

	set(0xF5, 45) // CMC
	set(0xF8, 46) // CLC
	set(0xF9, 46) // STC
	set(0xFA, 46) // CLI
	set(0xFB, 46) // STI
	set(0xFC, 46) // CLD
	set(0xFD, 46) // STD

	set(0xA8, 47) // TEST AL, imm
	set(0xA9, 47) // TEST AX, imm

	set(0xF0, 48) // LOCK
	set(0xF4, 49) // HLT

	set(0x0F, 50) // emulator escape

	// 80186/V20 extensions.
	set(0xC8, 51) // ENTER
	set(0xC9, 52) // LEAVE
	set(0x60, 53) // PUSHA
	set(0x61, 54) // POPA
	set(0x62, 55) // BOUND
	set(0x6A, 56) // PUSH imm8
	set(0x68, 57) // PUSH imm16
	set(0x69, 58) // IMUL r, r/m, imm16
	set(0x6B, 58) // IMUL r, r/m, imm8
	set(0x6C, 59) // INSB
	set(0x6D, 59) // INSW
	set(0x6E, 60) // OUTSB
	set(0x6F, 60) // OUTSW

	buildSizeTables(t)
	buildFlagTables(t)
	buildCondJumpTables(t)
	buildFlagsBitfields(t)

	return t
}

// buildSizeTables fills BASE_INST_SIZE/I_W_SIZE/I_MOD_SIZE. This
// emulator advances IP emergently through fetchByte/fetchWord rather
// than from these tables (see cpu_dispatch.go's IPDelta doc comment),
// but IPDelta and its test in cpu_test.go still verify the
// spec-mandated formula against these values.
func buildSizeTables(t *DecodeTables) {
	for i := 0; i < 256; i++ {
		t.BaseInstSize[i] = 1
	}
	for i := 0; i < 256; i++ {
		if classHasModRM(t.XlatOpcode[i]) {
			t.IModSize[i] = 1
		}
	}
	wSizeOps := map[int]byte{
		0xB8: 1, 0xB9: 1, 0xBA: 1, 0xBB: 1, 0xBC: 1, 0xBD: 1, 0xBE: 1, 0xBF: 1,
	}
	for op, w := range wSizeOps {
		t.IWSize[op] = w
	}
}

// buildFlagTables fills STD_FLAGS with the bitmask spec.md 4.3 assigns
// per class: arithmetic classes get SZP|AO_ARITH, logic classes get
// SZP|OC_LOGIC, compare/test get SZP only where CF/OF are cleared by the
// AND semantics, and non-flag classes get 0.
func buildFlagTables(t *DecodeTables) {
	arith := map[byte]bool{2: true, 5: true, 7: true, 8: true, 9: true, 12: true, 28: true, 29: true}
	logic := map[byte]bool{15: true, 47: true, 6: true}
	for i := 0; i < 256; i++ {
		class := t.XlatOpcode[i]
		switch {
		case arith[class]:
			t.StdFlags[i] = flagsSZP | flagsAOArith
		case logic[class]:
			t.StdFlags[i] = flagsSZP | flagsOCLogic
		}
	}
}

// buildCondJumpTables works out the COND_JUMP_DECODE_A/B/C/D scheme so
// that Predicate = i_w XOR (A OR B OR (C XOR D)) reproduces the eight
// classic 8086 conditional-jump pairs, indexed by (raw>>1)&7.
func buildCondJumpTables(t *DecodeTables) {
	type row struct{ a, b, c, d byte }
	// index: 0=O,1=B/C,2=E/Z,3=BE,4=S,5=P,6=L,7=LE
	rows := [8]row{
		{byte(flagOF), condNone, condNone, condNone},                 // JO/JNO
		{byte(flagCF), condNone, condNone, condNone},                 // JB/JAE
		{byte(flagZF), condNone, condNone, condNone},                 // JE/JNE
		{byte(flagCF), byte(flagZF), condNone, condNone},             // JBE/JA (CF or ZF)
		{byte(flagSF), condNone, condNone, condNone},                 // JS/JNS
		{byte(flagPF), condNone, condNone, condNone},                 // JP/JNP
		{condNone, condNone, byte(flagSF), byte(flagOF)},             // JL/JGE (SF xor OF)
		{byte(flagZF), condNone, byte(flagSF), byte(flagOF)},         // JLE/JG (ZF or (SF xor OF))
	}
	for i, r := range rows {
		t.CondJumpA[i] = r.a
		t.CondJumpB[i] = r.b
		t.CondJumpC[i] = r.c
		t.CondJumpD[i] = r.d
	}
}

// buildFlagsBitfields fills the FLAGS_BITFIELDS table with the classic
// 8086 bit positions (index order flagCF..flagOF, held in the first nine
// bytes; the remaining 247 bytes of the 256-byte table are unused).
func buildFlagsBitfields(t *DecodeTables) {
	positions := [9]byte{0, 2, 4, 6, 7, 8, 9, 10, 11}
	copy(t.FlagsBitfields[:9], positions[:])
}
