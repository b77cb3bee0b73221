// bios.go - loads a BIOS image into guest memory at F000:0100 and
// populates the decode tables from it, falling back to
// DefaultDecodeTables when no image is available.
//
// Grounded on spec.md 6.4's BIOS image layout and 7's "BIOS load
// failure... Host is expected to surface this; the guest observes a
// zeroed ROM" policy, adapted so local runs without a real BIOS image
// still boot into a usable instruction set rather than an all-zero
// (permanently invalid-opcode) ROM.
package main

import "os"

// LoadBIOS reads path into guest memory at F000:0100 and returns the
// decode tables built from it. A file that cannot be read is logged and
// returned as an error (ColdStart discards it and proceeds); an image with
// no decode-table table of contents is logged but is not an error. In both
// cases DefaultDecodeTables is returned so the CPU still has a working
// instruction set.
func LoadBIOS(mem *Memory, path string) (*DecodeTables, error) {
	base := uint32(BIOSLoadSegment)*16 + BIOSLoadOffset
	if path == "" {
		ie86log.Printf("no BIOS image configured, using built-in decode tables")
		return DefaultDecodeTables(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		ie86log.Printf("BIOS load failed (%v), guest ROM left zeroed", err)
		return DefaultDecodeTables(), err
	}
	if len(data) > BIOSImageMax {
		data = data[:BIOSImageMax]
	}
	for i, b := range data {
		mem.WriteByte(base+uint32(i), b)
	}

	if !hasTableOfContents(mem) {
		ie86log.Printf("BIOS image at %s carries no decode-table TOC, using built-in decode tables", path)
		return DefaultDecodeTables(), nil
	}
	return LoadDecodeTables(mem), nil
}

// hasTableOfContents is a light sanity check: a real BIOS's 20-entry
// table-of-contents should contain at least one non-zero pointer in
// the twelve consulted-table slots (entries 8..19).
func hasTableOfContents(mem *Memory) bool {
	tocBase := uint32(BIOSLoadSegment)*16 + BIOSTableTOCOff
	for i := tblXlatOpcode; i <= tblFlagsBitfields; i++ {
		if mem.ReadWord(tocBase+uint32(8+i)*2) != 0 {
			return true
		}
	}
	return false
}
