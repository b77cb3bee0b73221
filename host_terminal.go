// host_terminal.go - the headless terminal Host backend for `-text` runs:
// raw stdin capture feeding the keyboard port, with no window system
// involved. DrawFrame only homes the cursor; it renders no text.
//
// Grounded on the teacher's terminal_host.go raw-mode stdin reader,
// generalized from the teacher's own line-oriented terminal I/O to this
// VM's byte-at-a-time keyboard FIFO feed.
package main

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

// TerminalHost reads raw keystrokes from stdin without a window. It does
// not render frames: DrawFrame only homes the cursor.
type TerminalHost struct {
	mu sync.Mutex

	biosPath, fdPath, hdPath string

	oldState *term.State
	reader   *bufio.Reader

	exitRequested bool
	lastFrame     string

	audio AudioSink
}

func NewTerminalHost(biosPath, fdPath, hdPath string) (*TerminalHost, error) {
	h := &TerminalHost{biosPath: biosPath, fdPath: fdPath, hdPath: hdPath}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		old, err := term.MakeRaw(int(os.Stdin.Fd()))
		if err != nil {
			return nil, err
		}
		h.oldState = old
	}
	h.reader = bufio.NewReader(os.Stdin)
	return h, nil
}

func (h *TerminalHost) Initialise(mem *Memory) bool { return true }
func (h *TerminalHost) SetInstance(handle any)       {}

func (h *TerminalHost) Cleanup() {
	if h.oldState != nil {
		term.Restore(int(os.Stdin.Fd()), h.oldState)
	}
}

func (h *TerminalHost) ExitEmulation() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.exitRequested
}

func (h *TerminalHost) Reset() bool      { return false }
func (h *TerminalHost) FDChanged() bool  { return false }

func (h *TerminalHost) GetBIOSFilename() string    { return h.biosPath }
func (h *TerminalHost) GetFDImageFilename() string { return h.fdPath }
func (h *TerminalHost) GetHDImageFilename() string { return h.hdPath }

func (h *TerminalHost) PutChar(b byte) { fmt.Fprintf(os.Stdout, "%c", b) }

// PollKeyEvents does a non-blocking-in-spirit read: raw mode means bytes
// are available immediately as typed, but the read itself would block if
// nothing is buffered, so this is called only after checking Buffered().
func (h *TerminalHost) PollKeyEvents() []KeyEvent {
	var events []KeyEvent
	for h.reader.Buffered() > 0 {
		b, err := h.reader.ReadByte()
		if err != nil {
			break
		}
		if b == 0x03 { // Ctrl+C exits the terminal frontend
			h.mu.Lock()
			h.exitRequested = true
			h.mu.Unlock()
			continue
		}
		if code, ok := asciiToVK(rune(b)); ok {
			events = append(events, KeyEvent{Code: code, Pressed: true}, KeyEvent{Code: code, Pressed: false})
		}
	}
	return events
}

func (h *TerminalHost) PollMouseEvents() []MouseEvent { return nil }

// DrawFrame moves the terminal cursor home and draws nothing else;
// neither text-mode cells nor graphics modes are rendered.
func (h *TerminalHost) DrawFrame(f *Frame) {
	if f == nil || f.Width == 0 {
		return
	}
	fmt.Fprintf(os.Stdout, "\x1b[H") // home cursor; a full renderer would
	// walk the text-mode character/attribute cells directly rather than
	// the decoded RGB Frame, out of scope for this minimal terminal path.
}

func (h *TerminalHost) CheckBreakPoints()    {}
func (h *TerminalHost) AudioSink() AudioSink { return h.audio }
