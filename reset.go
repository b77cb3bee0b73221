// reset.go - cold and soft reset orchestration, spec.md 4.11 step 6 and
// 3's Lifetimes paragraph.
//
// Grounded on the teacher's Reset()-then-run lifecycle (cpu_x86.go's
// Reset zeroes CPU state before the runner's main loop starts); this VM
// generalizes that into a machine-wide cold-start sequence spanning
// memory, decode tables, the register file's boot values, and the HD
// sector count seed spec.md 6.3 requires.
package main

// Machine bundles every subsystem the main loop and reset sequence
// coordinate.
type Machine struct {
	Mem     *Memory
	IO      *IOBus
	CPU     *CPU
	PIC     *PIC
	PIT     *PIT
	Keyboard *Keyboard
	Speaker *Speaker
	Serial  *SerialBank
	Display *Display
	Host    Host

	biosPath string
	fdPath   string
	hdPath   string

	hd *FileDisk
	fd *FileDisk
}

// NewMachine wires every subsystem together, claiming its I/O ports on
// the shared bus, matching spec.md 6.5's port-map ownership table.
func NewMachine(host Host, biosPath, fdPath, hdPath string) *Machine {
	io := NewIOBus()
	mem := NewMemory(io)
	pic := NewPIC()
	pit := NewPIT()
	kbd := NewKeyboard(pic)
	spk := NewSpeaker(pit, 44100)
	serial := NewSerialBank(pic)
	display := NewDisplay()
	mem.AttachVideo(display)

	cpu := NewCPU(mem, io, pic, host)

	io.ClaimRange(PortPICBase, PortPICBase+1, pic)
	io.ClaimRange(PortPITBase, PortPITBase+3, pit)
	io.Claim(PortKeyboardData, kbd)
	io.Claim(PortKeyboardCmd, kbd)
	io.Claim(PortSpeakerGate, spk)
	for _, base := range serialBaseIO {
		io.ClaimRange(base, base+7, serial)
	}
	displayPorts := []uint16{
		PortCRTCIndexMono, PortCRTCDataMono, PortCRTCIndex, PortCRTCData,
		PortStatusMono, PortStatusColor, PortACIndex, PortACData,
		PortMiscOutW, PortMiscOutR, PortSeqIndex, PortSeqData,
		PortDACReadIndex, PortDACWriteIndex, PortDACData,
		PortGCIndex, PortGCData, PortModeControl, PortColourControl,
	}
	for _, p := range displayPorts {
		io.Claim(p, display)
	}

	m := &Machine{
		Mem: mem, IO: io, CPU: cpu, PIC: pic, PIT: pit,
		Keyboard: kbd, Speaker: spk, Serial: serial, Display: display,
		Host: host, biosPath: biosPath, fdPath: fdPath, hdPath: hdPath,
	}
	m.ColdStart()
	return m
}

// ColdStart implements spec.md 4.11 step 6: zero RAM, reopen disks,
// reload the BIOS, reset CS:IP, seed CX:AX with the HD sector count, and
// rebuild the decode tables. It is also the very first machine
// initialization at process start.
func (m *Machine) ColdStart() {
	m.Mem.Zero()
	m.PIC.irr, m.PIC.isr, m.PIC.imr = 0, 0, 0xFF
	m.PIT.ColdReset()
	m.Display.ColdReset()
	m.CPU.ColdReset()

	m.reopenDisks()

	tables, _ := LoadBIOS(m.Mem, m.biosPath)
	m.CPU.SetDecodeTables(tables)

	m.Mem.SetReg16(RegCS, BIOSLoadSegment)
	m.Mem.SetReg16(RegIP, BIOSLoadOffset)
	m.Mem.SetReg16(RegSS, 0)
	m.Mem.SetReg16(RegSP, 0xFFFE)

	m.seedHDSectorCount()
}

func (m *Machine) reopenDisks() {
	if m.hd != nil {
		m.hd.Close()
		m.hd = nil
	}
	if m.fd != nil {
		m.fd.Close()
		m.fd = nil
	}
	if m.hdPath != "" {
		if d, err := OpenDisk(m.hdPath, false); err == nil {
			m.hd = d
			m.CPU.SetDisk(0, d)
		} else {
			ie86log.Printf("HD image open failed: %v", err)
		}
	}
	if m.fdPath != "" {
		if d, err := OpenDisk(m.fdPath, false); err == nil {
			m.fd = d
			m.CPU.SetDisk(1, d)
		} else {
			ie86log.Printf("FD image open failed: %v", err)
		}
	}
	if m.biosPath != "" {
		if d, err := OpenDisk(m.biosPath, true); err == nil {
			m.CPU.SetDisk(2, d)
		}
	}
}

// ReopenFD implements the "FD handle is re-opened when the Host reports
// a media swap" lifetime rule from spec.md 3.
func (m *Machine) ReopenFD(path string) {
	m.fdPath = path
	if m.fd != nil {
		m.fd.Close()
		m.fd = nil
	}
	if path == "" {
		m.CPU.SetDisk(1, nil)
		return
	}
	d, err := OpenDisk(path, false)
	if err != nil {
		ie86log.Printf("FD reopen failed: %v", err)
		return
	}
	m.fd = d
	m.CPU.SetDisk(1, d)
}

func (m *Machine) seedHDSectorCount() {
	if m.hd == nil {
		return
	}
	info, err := m.hd.f.Stat()
	if err != nil {
		return
	}
	sectors := uint32(info.Size() / 512)
	m.Mem.SetReg16(RegAX, uint16(sectors))
	m.Mem.SetReg16(RegCX, uint16(sectors>>16))
}
