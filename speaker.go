// speaker.go - M6: the speaker sampler, port 0x61 plus a PCM ring buffer
// drained to the Host's Audio Sink.
//
// Grounded on spec.md 4.8's AND-of-gate-and-latch sampling rule and the
// teacher's bounded ring-buffer producer/consumer pattern for audio,
// since the sampler runs on the cooperative main-loop thread while the
// Audio Sink owns its own output thread (spec.md 5).
package main

const (
	speakerVolumeSample  = 8000
	speakerRingCapacity  = 1 << 14 // samples; generous headroom for a ~16ms drain cadence
)

// Speaker holds the two gate booleans spec.md 4.8 names and a ring buffer
// of generated PCM samples awaiting an Audio Sink drain.
type Speaker struct {
	SpkrData   bool // port 0x61 bit 1
	SpkrT2Gate bool // port 0x61 bit 0

	pit *PIT

	ring     [speakerRingCapacity]int16
	ringHead int
	ringTail int
	ringLen  int

	accum      float64
	sampleRate float64
}

func NewSpeaker(pit *PIT, sampleRate int) *Speaker {
	return &Speaker{pit: pit, sampleRate: float64(sampleRate)}
}

func (s *Speaker) In(port uint16) (byte, bool) {
	if port != PortSpeakerGate {
		return 0, false
	}
	var v byte
	if s.SpkrT2Gate {
		v |= 0x01
	}
	if s.SpkrData {
		v |= 0x02
	}
	if s.pit != nil && s.pit.ch[2].out {
		v |= 0x20 // T2 output bit, polled by BIOS speaker-test loops
	}
	return v, true
}

func (s *Speaker) Out(port uint16, v byte) {
	if port != PortSpeakerGate {
		return
	}
	s.SpkrT2Gate = v&0x01 != 0
	s.SpkrData = v&0x02 != 0
}

// sample computes one PCM value per spec.md 4.8's contract.
func (s *Speaker) sample() int16 {
	if !s.SpkrT2Gate {
		if s.SpkrData {
			return speakerVolumeSample
		}
		return 0
	}
	if s.pit != nil && s.pit.ch[2].ultrasonic {
		return 0
	}
	if s.pit != nil && s.pit.ch[2].out {
		return speakerVolumeSample
	}
	return -speakerVolumeSample
}

func (s *Speaker) push(v int16) {
	if s.ringLen == speakerRingCapacity {
		s.ringHead = (s.ringHead + 1) % speakerRingCapacity
		s.ringLen--
	}
	s.ring[s.ringTail] = v
	s.ringTail = (s.ringTail + 1) % speakerRingCapacity
	s.ringLen++
}

// TickUpdate advances the sample clock by cpuTicks elapsed CPU ticks at
// cpuHz, pushing every sample boundary crossed into the ring buffer.
func (s *Speaker) TickUpdate(cpuTicks int, cpuHz float64) {
	s.accum += float64(cpuTicks) * s.sampleRate / cpuHz
	for s.accum >= 1 {
		s.accum--
		s.push(s.sample())
	}
}

// Drain hands every buffered sample to sink and empties the ring, the
// "drained every ~16ms" step spec.md 4.8 describes.
func (s *Speaker) Drain(sink AudioSink) {
	if s.ringLen == 0 || sink == nil {
		return
	}
	buf := make([]int16, s.ringLen)
	for i := range buf {
		buf[i] = s.ring[(s.ringHead+i)%speakerRingCapacity]
	}
	sink.WriteSamples(buf)
	s.ringHead = s.ringTail
	s.ringLen = 0
}
