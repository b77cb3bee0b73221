// cpu_escape.go - xlat_class 50: emulator escapes (0F 00..03).
//
// Non-Intel opcodes reserved by this VM to expose host stdout, RTC, and
// disk services without inventing new I/O ports, per spec.md 4.3's
// "Emulator escapes" contract and 9's guidance to keep this pattern
// intact.
package main

import "time"

const (
	escapePutCharAL = 0
	escapeGetRTC    = 1
	escapeDiskRead  = 2
	escapeDiskWrite = 3
)

func (c *CPU) execEscape() bool {
	sub := c.fetchByte()
	switch sub {
	case escapePutCharAL:
		c.host.PutChar(c.mem.GetReg8(0))
	case escapeGetRTC:
		c.doGetRTC()
	case escapeDiskRead:
		c.doDiskTransfer(false)
	case escapeDiskWrite:
		c.doDiskTransfer(true)
	default:
		c.logUnknown("unrecognized emulator escape sub-opcode")
	}
	return false
}

// doGetRTC writes the documented 38-byte record (spec.md 9's Open
// Questions: six tm_* fields as int16 within a fixed 36-byte span,
// followed by a 16-bit millisecond field) at ES:BX.
func (c *CPU) doGetRTC() {
	es := c.mem.GetReg16(RegES)
	bx := c.mem.GetReg16(RegBX)
	base := uint32(es)*16 + uint32(bx)
	now := time.Now()

	fields := [6]int16{
		int16(now.Second()),
		int16(now.Minute()),
		int16(now.Hour()),
		int16(now.Day()),
		int16(int(now.Month()) - 1),
		int16(now.Year() - 1900),
	}
	for i, v := range fields {
		c.mem.WriteWord(base+uint32(i*2), uint16(v))
	}
	for off := uint32(12); off < 36; off++ {
		c.mem.WriteByte(base+off, 0)
	}
	c.mem.WriteWord(base+36, uint16(now.Nanosecond()/1_000_000))
}

// doDiskTransfer implements spec.md 4.3's DISK_READ/DISK_WRITE contract:
// seek disk[DL] to BP*512 bytes, transfer AX bytes to/from ES:BX, AL
// receives the byte count actually moved (0 on seek failure).
func (c *CPU) doDiskTransfer(write bool) {
	slot := c.mem.GetReg8(2) // DL
	bp := c.mem.GetReg16(RegBP)
	ax := c.mem.GetReg16(RegAX)
	es := c.mem.GetReg16(RegES)
	bx := c.mem.GetReg16(RegBX)
	base := uint32(es)*16 + uint32(bx)

	if int(slot) >= len(c.disks) || c.disks[slot] == nil {
		c.mem.SetReg8(0, 0)
		return
	}
	disk := c.disks[slot]
	if !disk.Seek(int64(bp) * 512) {
		c.mem.SetReg8(0, 0)
		return
	}

	if write {
		buf := make([]byte, ax)
		for i := range buf {
			buf[i] = c.mem.ReadByte(base + uint32(i))
		}
		n, _ := disk.Write(buf)
		c.mem.SetReg8(0, byte(n))
	} else {
		buf := make([]byte, ax)
		n, _ := disk.Read(buf)
		for i := 0; i < n; i++ {
			c.mem.WriteByte(base+uint32(i), buf[i])
		}
		c.mem.SetReg8(0, byte(n))
	}
}
