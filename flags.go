// flags.go - the L1 flag unit: CF/PF/AF/ZF/SF/TF/IF/DF/OF and the packed
// FLAGS word.
//
// Grounded on cpu_x86.go's flag-bit-position constants and cpu_x86_grp.go's
// setFlagsArith8/16/setFlagsLogic8/16 helpers, generalized to the nine
// discrete flag bytes spec.md 3 describes plus the BIOS-supplied bit
// position table (FLAGS_BITFIELDS) instead of a fixed bit layout.

package main

// Flags holds the nine 8086 flag bits as individual booleans, matching
// spec.md's "Nine individual bytes" data model rather than a single packed
// word, so flag-update contracts can be expressed per-bit.
type Flags struct {
	CF, PF, AF, ZF, SF, TF, IF, DF, OF bool
}

func (f *Flags) Reset() {
	*f = Flags{}
}

// flagsReservedBits are always set in the packed word (0xF002), matching
// the real 8086 FLAGS register's reserved bits.
const flagsReservedBits = 0xF002

// flagIndex names the nine flags in the order FLAGS_BITFIELDS (decode
// table 19) gives their bit positions.
type flagIndex int

const (
	flagCF flagIndex = iota
	flagPF
	flagAF
	flagZF
	flagSF
	flagTF
	flagIF
	flagDF
	flagOF
	flagCount
)

func (f *Flags) get(i flagIndex) bool {
	switch i {
	case flagCF:
		return f.CF
	case flagPF:
		return f.PF
	case flagAF:
		return f.AF
	case flagZF:
		return f.ZF
	case flagSF:
		return f.SF
	case flagTF:
		return f.TF
	case flagIF:
		return f.IF
	case flagDF:
		return f.DF
	case flagOF:
		return f.OF
	}
	return false
}

func (f *Flags) set(i flagIndex, v bool) {
	switch i {
	case flagCF:
		f.CF = v
	case flagPF:
		f.PF = v
	case flagAF:
		f.AF = v
	case flagZF:
		f.ZF = v
	case flagSF:
		f.SF = v
	case flagTF:
		f.TF = v
	case flagIF:
		f.IF = v
	case flagDF:
		f.DF = v
	case flagOF:
		f.OF = v
	}
}

// Pack assembles the FLAGS word using the BIOS-supplied bit positions in
// the first nine bytes of bitfields (the FLAGS_BITFIELDS decode table,
// index order flagCF..flagOF), falling back to the classic 8086 layout
// when a position is zero (unconfigured).
func (f *Flags) Pack(bitfields [256]byte) uint16 {
	positions := standardFlagBitPositions(bitfields)
	var word uint16 = flagsReservedBits
	for i := flagIndex(0); i < flagCount; i++ {
		if f.get(i) {
			word |= 1 << positions[i]
		}
	}
	return word
}

func (f *Flags) Unpack(word uint16, bitfields [256]byte) {
	positions := standardFlagBitPositions(bitfields)
	for i := flagIndex(0); i < flagCount; i++ {
		f.set(i, word&(1<<positions[i]) != 0)
	}
}

// standardFlagBitPositions returns the classic 8086 bit position for each
// flag, letting a zeroed BIOS table (no decode tables loaded yet) still
// produce a sane packed word during early boot/reset.
func standardFlagBitPositions(bitfields [256]byte) [9]uint {
	std := [9]uint{0, 2, 4, 6, 7, 8, 9, 10, 11}
	var out [9]uint
	for i := range out {
		if bitfields[i] != 0 {
			out[i] = uint(bitfields[i])
		} else {
			out[i] = std[i]
		}
	}
	return out
}

// ParityEven reports the even-parity bit of the low byte: 1 XOR popcount&1.
func ParityEven(b byte) bool {
	p := b
	p ^= p >> 4
	p ^= p >> 2
	p ^= p >> 1
	return p&1 == 0
}
