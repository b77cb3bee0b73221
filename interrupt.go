// interrupt.go - M2: the real-mode interrupt-vector dispatch every INT,
// INTO, INT3, and IRQ delivery in this VM funnels through.
//
// Grounded on spec.md 4.4: push FLAGS/CS/IP, clear IF and TF, then load
// CS:IP from the four-byte vector at physical address 4*n. This is the
// one piece of control flow every exec* interrupt call site (software
// interrupts, DIV/IDIV/AAM faults, and the hardware IRQ delivery in
// mainloop.go's serviceInterrupts) shares, so it lives on CPU rather than
// duplicated per site.
package main

func (c *CPU) injectInterrupt(n int) {
	c.push16(c.Flags.Pack(c.tables.FlagsBitfields))
	c.push16(c.mem.GetReg16(RegCS))
	c.push16(c.mem.GetReg16(RegIP))

	c.Flags.IF = false
	c.Flags.TF = false

	vec := uint32(n) * 4
	off := c.mem.ReadWord(vec)
	seg := c.mem.ReadWord(vec + 2)
	c.mem.SetReg16(RegIP, off)
	c.mem.SetReg16(RegCS, seg)
}
