// audiosink_headless.go - a discard AudioSink for HeadlessHost and tests,
// so Speaker.Drain always has somewhere to write without pulling in oto.
package main

// DiscardAudioSink accepts and drops every sample; WriteSamples always
// reports success so callers never see backpressure from a silent sink.
type DiscardAudioSink struct {
	TotalSamples int
}

func (s *DiscardAudioSink) WriteSamples(samples []int16) (int, error) {
	s.TotalSamples += len(samples)
	return len(samples), nil
}
