// audiosink_oto.go - the Audio Sink backed by oto, playing the speaker
// sampler's PCM ring buffer through the host's audio device.
//
// Grounded on the teacher's oto-backed AudioOutput (context setup once,
// a persistent player fed by successive WriteSamples calls rather than
// a new player per buffer).
package main

import (
	"bytes"
	"encoding/binary"

	"github.com/ebitengine/oto/v3"
)

// OtoAudioSink adapts int16 mono PCM samples to oto's byte-stream player
// contract (16-bit little-endian, stereo-duplicated since oto's default
// context here is opened in stereo like the teacher's own setup).
type OtoAudioSink struct {
	ctx    *oto.Context
	player *oto.Player
}

func NewOtoAudioSink(sampleRate int) (*OtoAudioSink, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	sink := &OtoAudioSink{ctx: ctx}
	sink.player = ctx.NewPlayer(sink)
	sink.player.Play()
	return sink, nil
}

// WriteSamples pushes mono samples into the player's read buffer as
// interleaved stereo, duplicating each sample across both channels.
func (s *OtoAudioSink) WriteSamples(samples []int16) (int, error) {
	buf := new(bytes.Buffer)
	for _, v := range samples {
		binary.Write(buf, binary.LittleEndian, v)
		binary.Write(buf, binary.LittleEndian, v)
	}
	_, err := s.player.Write(buf.Bytes())
	if err != nil {
		return 0, err
	}
	return len(samples), nil
}

// Read satisfies oto.NewPlayer's io.Reader source requirement; audio is
// pushed via WriteSamples/player.Write rather than pulled here, so Read
// is unused in practice but required to construct the player.
func (s *OtoAudioSink) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}
