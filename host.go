// host.go - the Host boundary between the CPU/platform fabric and
// whatever frontend is presenting the guest to a human: a window, a
// headless test harness, or a terminal.
//
// Grounded on the teacher's backend-selection pattern (its ebiten- and
// headless-tagged files implementing a shared interface the core never
// type-switches on) and spec.md 6.1's Host adapter contract. Port I/O,
// video-aperture reads/writes, and IRQ arbitration are already modeled
// directly by IOBus, VideoAperture, and PIC in this codebase, so Host
// itself is narrowed to what those objects cannot do on their own:
// window/input lifecycle, audio device access, and the level-triggered
// exit/reset/FD-change signals spec.md 6.1 lists.
package main

// Host is everything the main loop needs from whatever is presenting the
// guest, independent of which concrete frontend main.go wires in.
type Host interface {
	// Initialise hands the frontend a reference to guest RAM (for a
	// debugger overlay or memory-mapped display surface); Cleanup tears
	// it down.
	Initialise(mem *Memory) bool
	SetInstance(handle any)
	Cleanup()

	// Level-triggered signals the main loop polls at each 4ms boundary.
	ExitEmulation() bool
	Reset() bool
	FDChanged() bool

	// Filenames the boot sequence uses to (re)open disk images; an empty
	// string disables the corresponding slot (spec.md 6.1's "absent
	// entries disable the corresponding slot").
	GetBIOSFilename() string
	GetFDImageFilename() string
	GetHDImageFilename() string

	// PutChar handles the PUTCHAR_AL emulator escape (0F 00): one guest
	// character destined for the host's console/log surface.
	PutChar(b byte)

	// PollKeyEvents/PollMouseEvents report host input the keyboard
	// controller and serial mouse should translate into guest-visible
	// state.
	PollKeyEvents() []KeyEvent
	PollMouseEvents() []MouseEvent

	// DrawFrame hands the decoded RGB framebuffer to the frontend, called
	// at the ~4ms boundary alongside the rest of the video refresh.
	DrawFrame(frame *Frame)

	// CheckBreakPoints gives a host debugger the chance to stop just
	// after IRQ injection; the core never inspects the result.
	CheckBreakPoints()

	// AudioSink exposes the PCM sink the speaker sampler writes into;
	// nil is valid and means audio is discarded.
	AudioSink() AudioSink
}

// KeyEvent is a single host key transition, translated by keyboard.go into
// Set-1 scan codes.
type KeyEvent struct {
	Code    int
	Pressed bool
}

// MouseEvent is a single host pointer sample, translated by
// serial_mouse.go into Microsoft-protocol packets.
type MouseEvent struct {
	DX, DY  int
	Buttons byte
}

// AudioSink accepts PCM samples produced by the speaker sampler.
type AudioSink interface {
	WriteSamples(samples []int16) (int, error)
}
