// host_ebiten.go - the windowed Host backend: presents the decoded
// framebuffer, pumps keyboard/mouse events, and overlays a status line,
// all through ebiten.
//
// Grounded on the teacher's EbitenOutput (its ebiten.Game implementation
// driving Update/Draw/Layout against a shared framebuffer texture and a
// basicfont status line) generalized from the teacher's own display
// model to this VM's Frame type.
package main

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// EbitenHost is the windowed frontend. It implements both Host and
// ebiten.Game; main.go runs it via ebiten.RunGame.
type EbitenHost struct {
	mu sync.Mutex

	frame   *Frame
	texture *ebiten.Image

	keyEvents   []KeyEvent
	mouseEvents []MouseEvent
	pressed     map[ebiten.Key]bool

	exitRequested bool
	resetRequested bool
	fdChanged      bool

	biosPath, fdPath, hdPath string

	audio AudioSink

	mips int
	font font.Face

	clipboardEnabled bool
}

func NewEbitenHost(biosPath, fdPath, hdPath string, audio AudioSink) *EbitenHost {
	h := &EbitenHost{
		pressed:  make(map[ebiten.Key]bool),
		biosPath: biosPath, fdPath: fdPath, hdPath: hdPath,
		audio: audio,
		font:  basicfont.Face7x13,
	}
	if err := clipboard.Init(); err == nil {
		h.clipboardEnabled = true
	}
	return h
}

func (h *EbitenHost) Initialise(mem *Memory) bool { return true }
func (h *EbitenHost) SetInstance(handle any)       {}
func (h *EbitenHost) Cleanup()                     {}

func (h *EbitenHost) ExitEmulation() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.exitRequested
}

func (h *EbitenHost) Reset() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	v := h.resetRequested
	h.resetRequested = false
	return v
}

func (h *EbitenHost) FDChanged() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	v := h.fdChanged
	h.fdChanged = false
	return v
}

func (h *EbitenHost) GetBIOSFilename() string    { return h.biosPath }
func (h *EbitenHost) GetFDImageFilename() string { return h.fdPath }
func (h *EbitenHost) GetHDImageFilename() string { return h.hdPath }

func (h *EbitenHost) PutChar(b byte) { fmt.Printf("%c", b) }

func (h *EbitenHost) PollKeyEvents() []KeyEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	ev := h.keyEvents
	h.keyEvents = nil
	return ev
}

func (h *EbitenHost) PollMouseEvents() []MouseEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	ev := h.mouseEvents
	h.mouseEvents = nil
	return ev
}

func (h *EbitenHost) DrawFrame(f *Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frame = f
}

func (h *EbitenHost) CheckBreakPoints() {}

func (h *EbitenHost) AudioSink() AudioSink { return h.audio }

// Update implements ebiten.Game: it drains ebiten's own key state into
// KeyEvents plus the Ctrl+Shift+V clipboard-paste injection spec_full's
// domain-stack table names. It produces no MouseEvents.
func (h *EbitenHost) Update() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for vk, ourCode := range ebitenKeyMap {
		down := ebiten.IsKeyPressed(vk)
		if down != h.pressed[vk] {
			h.pressed[vk] = down
			h.keyEvents = append(h.keyEvents, KeyEvent{Code: ourCode, Pressed: down})
		}
	}

	if h.clipboardEnabled &&
		ebiten.IsKeyPressed(ebiten.KeyControl) && ebiten.IsKeyPressed(ebiten.KeyShift) &&
		inpututilKeyJustPressed(ebiten.KeyV) {
		text := clipboard.Read(clipboard.FmtText)
		for _, r := range string(text) {
			if code, ok := asciiToVK(r); ok {
				h.keyEvents = append(h.keyEvents, KeyEvent{Code: code, Pressed: true})
				h.keyEvents = append(h.keyEvents, KeyEvent{Code: code, Pressed: false})
			}
		}
	}

	if ebiten.IsWindowBeingClosed() {
		h.exitRequested = true
	}
	return nil
}

func (h *EbitenHost) Draw(screen *ebiten.Image) {
	h.mu.Lock()
	f := h.frame
	h.mu.Unlock()
	if f == nil || f.Width == 0 {
		return
	}
	if h.texture == nil || h.texture.Bounds().Dx() != f.Width || h.texture.Bounds().Dy() != f.Height {
		h.texture = ebiten.NewImage(f.Width, f.Height)
	}
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i := 0; i < f.Width*f.Height; i++ {
		img.Pix[i*4] = f.Pix[i*3]
		img.Pix[i*4+1] = f.Pix[i*3+1]
		img.Pix[i*4+2] = f.Pix[i*3+2]
		img.Pix[i*4+3] = 0xFF
	}
	h.texture.WritePixels(img.Pix)
	screen.DrawImage(h.texture, nil)

	status := fmt.Sprintf("MIPS %d", h.mips)
	text2Draw(screen, status, 4, screen.Bounds().Dy()-4, h.font, color.White)
}

func (h *EbitenHost) Layout(outsideWidth, outsideHeight int) (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.frame == nil {
		return 640, 480
	}
	return h.frame.Width, h.frame.Height
}

// text2Draw wraps ebitenutil's debug-print helper so the status line
// uses the same basicfont metrics as ebitenutil.DebugPrintAt.
func text2Draw(screen *ebiten.Image, s string, x, y int, face font.Face, clr color.Color) {
	ebitenutil.DebugPrintAt(screen, s, x, y-basicfont.Face7x13.Height)
}

// ebitenKeyMap is a small excerpt of the full host-to-guest key mapping,
// covering the ranges keyboard.go's set1Lookup understands.
var ebitenKeyMap = map[ebiten.Key]int{
	ebiten.KeyA: 'A', ebiten.KeyB: 'B', ebiten.KeyC: 'C', ebiten.KeyD: 'D',
	ebiten.KeyEnter: vkEnter, ebiten.KeyEscape: vkEscape, ebiten.KeySpace: vkSpace,
	ebiten.KeyBackspace: vkBackspace, ebiten.KeyTab: vkTab,
	ebiten.KeyArrowUp: vkUp, ebiten.KeyArrowDown: vkDown,
	ebiten.KeyArrowLeft: vkLeft, ebiten.KeyArrowRight: vkRight,
}

// inpututilKeyJustPressed is a tiny indirection so a single call site
// controls the exact ebiten API used for edge-detection, since the
// pack's ebiten example imports inpututil directly for this purpose.
func inpututilKeyJustPressed(k ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(k)
}

// runEbitenGame configures the window and blocks in ebiten's own run
// loop until the window closes; RunMainLoop drives the machine on a
// separate goroutine feeding h.frame via DrawFrame.
func runEbitenGame(h *EbitenHost) error {
	ebiten.SetWindowTitle("ie86")
	ebiten.SetWindowResizable(true)
	ebiten.SetWindowSize(640, 480)
	return ebiten.RunGame(h)
}

func asciiToVK(r rune) (int, bool) {
	if r >= 'a' && r <= 'z' {
		return int(r - 'a' + 'A'), true
	}
	if r >= 'A' && r <= 'Z' {
		return int(r), true
	}
	if r == ' ' {
		return vkSpace, true
	}
	if r == '\n' {
		return vkEnter, true
	}
	return 0, false
}
