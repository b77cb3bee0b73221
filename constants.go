// constants.go - shared sizing, register-index and port-map constants

package main

// Register bank slot indices. The sixteen 16-bit register slots are
// aliased into the memory-mapped register bank so that register-operand
// and memory-operand decode paths share one implementation.
const (
	RegAX = iota
	RegCX
	RegDX
	RegBX
	RegSP
	RegBP
	RegSI
	RegDI
	RegES
	RegCS
	RegSS
	RegDS
	RegZERO
	RegSCRATCH
	RegIP
	RegTMP
)

const (
	// GuestRAMSize is the flat guest address space: 1 MiB plus 65 520 B of
	// headroom so a 16-bit segment:offset wrap at the top of the address
	// space never indexes past the end of the backing array.
	GuestRAMSize = 0x100000 + 0xFFF0

	// RegisterBankBase is where the sixteen 16-bit register slots are
	// aliased into guest memory; RegisterBankSize covers the whole
	// advertised bank even though only the first 32 bytes are occupied by
	// register slots today.
	RegisterBankBase = 0xF0000
	RegisterBankSize = 0x100

	// VideoApertureBase and VideoApertureEnd bound the range routed
	// through the display adapter instead of the flat backing array.
	VideoApertureBase = 0xA0000
	VideoApertureEnd  = 0xC0000

	// BIOSLoadSegment and BIOSLoadOffset give the fixed location a BIOS
	// image is copied to before the decode tables are populated from it.
	BIOSLoadSegment = 0xF000
	BIOSLoadOffset  = 0x0100
	BIOSTableTOCOff = 0x0081
	BIOSImageMax    = 0x10000 - BIOSLoadOffset
)

// I/O port map (spec.md 6.5).
const (
	PortPICBase       = 0x20
	PortPITBase       = 0x40
	PortKeyboardData  = 0x60
	PortKeyboardCmd   = 0x64
	PortSpeakerGate   = 0x61
	PortJoystick      = 0x201
	PortCRTCIndexMono = 0x3B4
	PortCRTCDataMono  = 0x3B5
	PortCRTCIndex     = 0x3D4
	PortCRTCData      = 0x3D5
	PortStatusMono    = 0x3BA
	PortStatusColor   = 0x3DA
	PortACIndex       = 0x3C0
	PortACData        = 0x3C1
	PortMiscOutW      = 0x3C2
	PortMiscOutR      = 0x3CC
	PortSeqIndex      = 0x3C4
	PortSeqData       = 0x3C5
	PortDACPelMask    = 0x3C6
	PortDACReadIndex  = 0x3C7
	PortDACWriteIndex = 0x3C8
	PortDACData       = 0x3C9
	PortGCIndex       = 0x3CE
	PortGCData        = 0x3CF
	PortModeControl   = 0x3D8
	PortColourControl = 0x3D9
)

// Serial UART bases and IRQ lines, in port order COM1..COM4.
var serialBaseIO = [4]uint16{0x3F8, 0x2F8, 0x3E8, 0x2E8}
var serialIRQ = [4]int{4, 3, 4, 3}

// IRQ debounce, per spec.md 3 (Invariants) and 9 (Open questions).
const irq8DebounceInstructions = 300

// PIT input clock, Hz.
const pitClockHz = 1193181
