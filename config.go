// config.go - default.cfg parsing (spec.md 6.2), section-oriented via
// gopkg.in/ini.v1.
//
// Grounded on the dependency surface of the rcornwell-S370 example repo
// (an INI/section-oriented sibling emulator retrieved in the pack): its
// convention of one struct field per config section is reused here, each
// field filled by an explicit Section/Key lookup instead of hand-rolled
// line scanning.
package main

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// SerialBackendKind enumerates the four backend grammars spec.md 6.2
// accepts for a COM port mapping line.
type SerialBackendKind int

const (
	SerialUnused SerialBackendKind = iota
	SerialMouse
	SerialTCPServer
	SerialTCPClient
	SerialHostCom
)

// SerialBackendConfig is one COM port's parsed mapping line.
type SerialBackendConfig struct {
	Kind SerialBackendKind
	Port string // SERIAL_SERVER's listen port
	Addr string // SERIAL_CLIENT's remote "<addr>:<port>"
	Dev  string // COM:<device-name>'s host device path
}

// Config is the parsed form of default.cfg. Absent sections keep the
// value DefaultConfig gives them.
type Config struct {
	BIOSPath string
	FDPath   string
	HDPath   string

	CPUSpeedHz int

	COM [4]SerialBackendConfig

	SoundEnable     bool
	SoundSampleRate int
	SoundVolume     int
}

// DefaultConfig gives the values used when default.cfg or a section
// within it is absent.
func DefaultConfig() Config {
	return Config{
		CPUSpeedHz:      cpuClockHz,
		SoundEnable:     true,
		SoundSampleRate: 44100,
		SoundVolume:     8000,
	}
}

// LoadConfig parses path, falling back to DefaultConfig()'s field values
// section-by-section on any parse or read failure, per spec.md 7's
// "Configuration parse failure — treated as absence of the offending
// section" policy.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := ini.Load(path)
	if err != nil {
		ie86log.Printf("config load failed (%v), using defaults", err)
		return cfg, err
	}

	if sec := f.Section("BIOS"); sec != nil {
		cfg.BIOSPath = filenameOrDisabled(sec.Key("FILENAME").String())
	}
	if sec := f.Section("FD"); sec != nil {
		cfg.FDPath = filenameOrDisabled(sec.Key("FILENAME").String())
	}
	if sec := f.Section("HD"); sec != nil {
		cfg.HDPath = filenameOrDisabled(sec.Key("FILENAME").String())
	}
	if sec := f.Section("CPU_SPEED"); sec != nil {
		if hz, err := sec.Key("HZ").Int(); err == nil && hz > 0 {
			cfg.CPUSpeedHz = hz
		}
	}
	for i := 0; i < 4; i++ {
		name := fmt.Sprintf("COM%d", i+1)
		if sec := f.Section(name); sec != nil {
			cfg.COM[i] = parseSerialMapping(sec.Key("MAPPING").String())
		}
	}
	if sec := f.Section("SOUND_ENABLE"); sec != nil {
		cfg.SoundEnable = sec.Key("VALUE").MustBool(cfg.SoundEnable)
	}
	if sec := f.Section("SOUND_SAMPLE_RATE"); sec != nil {
		cfg.SoundSampleRate = sec.Key("VALUE").MustInt(cfg.SoundSampleRate)
	}
	if sec := f.Section("SOUND_VOLUME"); sec != nil {
		cfg.SoundVolume = sec.Key("VALUE").MustInt(cfg.SoundVolume)
	}

	return cfg, nil
}

func filenameOrDisabled(v string) string {
	if strings.EqualFold(strings.TrimSpace(v), "NIL") {
		return ""
	}
	return v
}

// parseSerialMapping implements spec.md 6.2's four grammars for a COM
// port mapping line.
func parseSerialMapping(v string) SerialBackendConfig {
	v = strings.TrimSpace(v)
	switch {
	case strings.EqualFold(v, "UNUSED"), v == "":
		return SerialBackendConfig{Kind: SerialUnused}
	case strings.EqualFold(v, "MOUSE"):
		return SerialBackendConfig{Kind: SerialMouse}
	case strings.HasPrefix(strings.ToUpper(v), "SERIAL_SERVER:"):
		return SerialBackendConfig{Kind: SerialTCPServer, Port: v[len("SERIAL_SERVER:"):]}
	case strings.HasPrefix(strings.ToUpper(v), "SERIAL_CLIENT:"):
		rest := v[len("SERIAL_CLIENT:"):]
		return SerialBackendConfig{Kind: SerialTCPClient, Addr: rest}
	case strings.HasPrefix(strings.ToUpper(v), "COM:"):
		return SerialBackendConfig{Kind: SerialHostCom, Dev: v[len("COM:"):]}
	}
	return SerialBackendConfig{Kind: SerialUnused}
}

// BuildBackend instantiates the live SerialBackend a SerialBackendConfig
// describes.
func (c SerialBackendConfig) BuildBackend() SerialBackend {
	switch c.Kind {
	case SerialMouse:
		return NewMouseBackend()
	case SerialTCPServer:
		return NewTCPServerBackend(c.Port)
	case SerialTCPClient:
		host, port, ok := splitHostPort(c.Addr)
		if !ok {
			return NullSerialBackend{}
		}
		return NewTCPClientBackend(host + ":" + port)
	case SerialHostCom:
		if b, err := NewHostComBackend(c.Dev); err == nil {
			return b
		}
		return NullSerialBackend{}
	}
	return NullSerialBackend{}
}

func splitHostPort(addr string) (string, string, bool) {
	idx := strings.LastIndex(addr, ":")
	if idx < 0 {
		return "", "", false
	}
	host, port := addr[:idx], addr[idx+1:]
	if _, err := strconv.Atoi(port); err != nil {
		return "", "", false
	}
	return host, port, true
}
