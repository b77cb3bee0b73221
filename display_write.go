// display_write.go - the four planar-latch write modes spec.md 4.10
// describes, keyed off Graphics Controller register 5.
//
// Grounded on the VGA/CGA "latch" write-mode algorithm as spec.md 4.10
// states it directly; this file is a straight translation of that
// paragraph into four small functions rather than modeled on any single
// teacher file, since the teacher's own CPU core has no video subsystem
// of this kind (see DESIGN.md).
package main

// writePlanes implements spec.md 4.10's Video memory contract for a
// single host byte write at vram offset off.
func (d *Display) writePlanes(off uint32, host byte) {
	mode := d.gc[5] & 0x03
	switch mode {
	case 1:
		d.vram[off] = d.latch
	case 2:
		expanded := expand(host & 0x01)
		d.vram[off] = d.combine(expanded, off)
	default: // 0 and 3 share the rotate/set-reset/logic-op/mask pipeline
		rotated := d.rotate(host)
		substituted := d.setReset(rotated)
		d.vram[off] = d.combine(substituted, off)
	}
}

// rotate applies GC register 3 bits 0..2 (rotate count) to host.
func (d *Display) rotate(host byte) byte {
	count := d.gc[3] & 0x07
	return host>>count | host<<(8-count)
}

// setReset applies GC register 0 (set/reset value) and register 1
// (set/reset enable) per plane; this single-plane model folds all four
// planes into one byte, so the substitution is all-or-nothing per byte
// rather than per bit-plane, matching the mode-0/mode-3 write path
// spec.md 4.10 describes for a byte-oriented aperture.
func (d *Display) setReset(rotated byte) byte {
	if d.gc[1] == 0 {
		return rotated
	}
	return expand(d.gc[0] & 0x01)
}

func expand(bit byte) byte {
	if bit != 0 {
		return 0xFF
	}
	return 0x00
}

// combine applies the logic op (GC reg 3 bits 3..4) against the latch,
// then the bit mask (GC reg 8): bits set in the mask take the combined
// value, bits clear in the mask keep the latch's bits.
func (d *Display) combine(value byte, off uint32) byte {
	latch := d.latch
	var combined byte
	switch (d.gc[3] >> 3) & 0x03 {
	case 0:
		combined = value
	case 1:
		combined = value & latch
	case 2:
		combined = value | latch
	case 3:
		combined = value ^ latch
	}
	mask := d.gc[8]
	return combined&mask | latch&^mask
}

// cgaCanonicalPalette is the sixteen fixed CGA colours expanded into the
// first sixteen DAC slots on reset/mode-change, as 6-bit-per-component
// (0..63) values.
var cgaCanonicalPalette = [16][3]byte{
	{0, 0, 0}, {0, 0, 42}, {0, 42, 0}, {0, 42, 42},
	{42, 0, 0}, {42, 0, 42}, {42, 21, 0}, {42, 42, 42},
	{21, 21, 21}, {21, 21, 63}, {21, 63, 21}, {21, 63, 63},
	{63, 21, 21}, {63, 21, 63}, {63, 63, 21}, {63, 63, 63},
}
