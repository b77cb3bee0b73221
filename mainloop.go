// mainloop.go - H2: the cooperative main loop, one guest instruction per
// iteration, pacing PIT/audio/video updates off elapsed CPU ticks.
//
// Grounded on spec.md 4.11's seven-step per-iteration order and 5's
// concurrency model (single cooperative thread; audio and window pumping
// are the only things that get their own goroutine). errgroup coordinates
// the audio-drain goroutine against the main loop's shutdown the way the
// teacher uses it to join its own background workers cleanly on exit.
package main

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	cpuClockHz        = 4_770_000
	frameIntervalTicks = 4 * cpuClockHz / 1000 // ~4ms of CPU ticks at 4.77MHz
)

// RunMainLoop drives m until the Host signals exit, per spec.md 4.11.
// ctx cancellation stops the loop cooperatively, matching spec.md 5's
// "cancellation is cooperative" rule.
func RunMainLoop(ctx context.Context, m *Machine) error {
	g, gctx := errgroup.WithContext(ctx)

	audioTick := make(chan struct{}, 1)
	g.Go(func() error {
		return runAudioDrain(gctx, m, audioTick)
	})

	g.Go(func() error {
		return runCPULoop(gctx, m, audioTick)
	})

	return g.Wait()
}

// runAudioDrain flushes the speaker's ring buffer to the Host's Audio
// Sink roughly every 16ms, its own goroutine per spec.md 5 ("the Audio
// Sink owns its own output thread").
func runAudioDrain(ctx context.Context, m *Machine, tick <-chan struct{}) error {
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.Speaker.Drain(m.Host.AudioSink())
			return nil
		case <-ticker.C:
			m.Speaker.Drain(m.Host.AudioSink())
		case <-tick:
			m.Speaker.Drain(m.Host.AudioSink())
		}
	}
}

// runCPULoop implements spec.md 4.11's per-iteration steps 1-7.
func runCPULoop(ctx context.Context, m *Machine, audioTick chan<- struct{}) error {
	var frameAccum int
	nextFrameDeadline := time.Now().Add(4 * time.Millisecond)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// 1. Fetch/decode/execute/commit/advance.
		ticks := m.CPU.Step()

		// 2. Advance PIT and speaker sampling by elapsed CPU ticks.
		m.PIT.TickUpdate(ticks, cpuClockHz)
		m.Speaker.TickUpdate(ticks, cpuClockHz)
		m.Keyboard.Step()

		frameAccum += ticks
		if frameAccum >= frameIntervalTicks {
			frameAccum -= frameIntervalTicks
			m.runFrameBoundary(&nextFrameDeadline)
			select {
			case audioTick <- struct{}{}:
			default:
			}
		}

		// 4. Deliver a latched single-step trap.
		if m.CPU.tfPending {
			m.CPU.injectInterrupt(1)
			m.CPU.tfPending = false
		}

		// 5. IRQ arbitration: no prefix active, IF set, TF clear.
		m.serviceInterrupts()

		// 6. Host-requested reset.
		if m.Host.Reset() {
			m.ColdStart()
		}

		// 7. Host-requested exit.
		if m.Host.ExitEmulation() {
			return nil
		}
	}
}

// runFrameBoundary implements spec.md 4.11 step 3: flush video, poll
// input, service serial, and pace to the next 4ms wall-clock boundary
// (never to a missed deadline, per spec.md 5's timeout rule).
func (m *Machine) runFrameBoundary(nextDeadline *time.Time) {
	m.Display.StartRetrace()
	frame := m.Display.Render()
	m.Host.DrawFrame(frame)
	m.Display.EndRetrace()

	for _, ev := range m.Host.PollKeyEvents() {
		m.Keyboard.TranslateAndEnqueue(ev)
	}
	if mouse, ok := m.mouseBackend(); ok {
		for _, ev := range m.Host.PollMouseEvents() {
			mouse.PushEvent(ev)
		}
	}
	m.Serial.Service()

	now := time.Now()
	if now.Before(*nextDeadline) {
		time.Sleep((*nextDeadline).Sub(now))
		*nextDeadline = nextDeadline.Add(4 * time.Millisecond)
	} else {
		*nextDeadline = now.Add(4 * time.Millisecond)
	}
}

// mouseBackend finds a configured mouse backend among the serial ports,
// if any port was set up as MOUSE.
func (m *Machine) mouseBackend() (*mouseBackend, bool) {
	for _, p := range m.Serial.Ports {
		if mb, ok := p.backend.(*mouseBackend); ok {
			return mb, true
		}
	}
	return nil, false
}

// serviceInterrupts implements spec.md 4.11 step 5 and 3's IRQ8 debounce
// invariant. IRQ0/IRQ8 pending pulses are counted directly from
// PIT.IRQ0Pending rather than folded through the PIC's one-bit-per-line
// request register, since spec.md 8's testable property requires the
// delivered pulse count to track the underflow count exactly (a real
// 8259 request line cannot represent "pending twice").
func (m *Machine) serviceInterrupts() {
	if m.CPU.segOverrideEn != 0 || m.CPU.repOverrideEn != 0 {
		return
	}
	if !m.CPU.Flags.IF || m.CPU.Flags.TF {
		return
	}

	if m.PIT.IRQ0Pending > 0 {
		m.PIT.IRQ0Pending--
		if m.CPU.InstrCount-m.CPU.lastIRQ8Instr >= irq8DebounceInstructions {
			m.CPU.lastIRQ8Instr = m.CPU.InstrCount
			m.CPU.injectInterrupt(8)
			m.Host.CheckBreakPoints()
		}
		return
	}

	irq, ok := m.PIC.Pending()
	if !ok {
		return
	}
	vector := m.PIC.Acknowledge(irq)
	m.CPU.injectInterrupt(vector)
	m.Host.CheckBreakPoints()
}
