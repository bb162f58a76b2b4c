// Package tray puts the timer controls in the system tray. Menu clicks are
// posted to the timer engine, never applied here.
package tray

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"

	"fyne.io/systray"

	"github.com/xvierd/breakr/internal/domain"
	"github.com/xvierd/breakr/internal/logger"
	"github.com/xvierd/breakr/internal/ports"
)

// Action is a tray menu entry.
type Action int

const (
	ActionShow Action = iota
	ActionToggle
	ActionQuit
)

// menuItem is the part of *systray.MenuItem the tray uses.
type menuItem interface {
	SetTitle(title string)
	Clicked() <-chan struct{}
}

type systrayItem struct {
	*systray.MenuItem
}

func (i systrayItem) Clicked() <-chan struct{} {
	return i.ClickedCh
}

// backend abstracts the systray package for tests.
type backend interface {
	run(onReady, onExit func()) (start, end func())
	setIcon(icon []byte)
	setTooltip(text string)
	addItem(title, tooltip string) menuItem
}

type systrayBackend struct{}

func (systrayBackend) run(onReady, onExit func()) (func(), func()) {
	return systray.RunWithExternalLoop(onReady, onExit)
}

func (systrayBackend) setIcon(icon []byte) {
	systray.SetIcon(icon)
	systray.SetTitle("breakr")
}

func (systrayBackend) setTooltip(text string) {
	systray.SetTooltip(text)
}

func (systrayBackend) addItem(title, tooltip string) menuItem {
	return systrayItem{systray.AddMenuItem(title, tooltip)}
}

// Tray is the tray icon and its three-entry menu.
type Tray struct {
	controller ports.Controller
	onShow     func()
	icon       []byte
	backend    backend

	mu     sync.Mutex
	toggle menuItem
	label  string
	end    func()
	wg     sync.WaitGroup
}

// New creates a tray over controller. onShow re-opens the timer screen.
// iconPath may name a PNG; a generated icon is used when it cannot be read.
func New(controller ports.Controller, onShow func(), iconPath string) *Tray {
	icon, err := os.ReadFile(iconPath)
	if err != nil || len(icon) == 0 {
		icon = defaultIcon()
	}
	return &Tray{
		controller: controller,
		onShow:     onShow,
		icon:       icon,
		backend:    systrayBackend{},
	}
}

// Start shows the icon and serves menu clicks until ctx is done or Stop.
func (t *Tray) Start(ctx context.Context) {
	ready := make(chan struct{})
	start, end := t.backend.run(func() {
		t.setup(ctx)
		close(ready)
	}, func() {
		logger.Debug("tray exited")
	})

	t.mu.Lock()
	t.end = end
	t.mu.Unlock()

	start()
	t.controller.Subscribe(t.onSnapshot)

	go func() {
		select {
		case <-ready:
			t.onSnapshot(t.controller.Snapshot())
		case <-ctx.Done():
		}
	}()
}

func (t *Tray) setup(ctx context.Context) {
	t.backend.setIcon(t.icon)
	t.backend.setTooltip("breakr")

	show := t.backend.addItem("Show", "Show the timer")
	toggle := t.backend.addItem("Start", "Start or pause the timer")
	quit := t.backend.addItem("Quit", "Quit breakr")

	t.mu.Lock()
	t.toggle = toggle
	t.label = "Start"
	t.mu.Unlock()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-show.Clicked():
				t.Handle(ActionShow)
			case <-toggle.Clicked():
				t.Handle(ActionToggle)
			case <-quit.Clicked():
				t.Handle(ActionQuit)
				return
			}
		}
	}()
}

// Handle carries out a menu action.
func (t *Tray) Handle(action Action) {
	switch action {
	case ActionShow:
		if t.onShow != nil {
			t.onShow()
		}
	case ActionToggle:
		t.controller.Post(domain.Toggle{})
	case ActionQuit:
		t.controller.Post(domain.Quit{})
	}
}

// onSnapshot runs on the engine goroutine and must not block.
func (t *Tray) onSnapshot(snap domain.Snapshot) {
	label := ToggleLabel(snap)

	t.mu.Lock()
	item := t.toggle
	changed := item != nil && label != t.label
	if changed {
		t.label = label
	}
	t.mu.Unlock()

	if changed {
		item.SetTitle(label)
	}
	if item != nil {
		t.backend.setTooltip(Tooltip(snap))
	}
}

// Stop removes the icon.
func (t *Tray) Stop() {
	t.mu.Lock()
	end := t.end
	t.end = nil
	t.mu.Unlock()
	if end != nil {
		end()
	}
}

// ToggleLabel returns the title of the start/pause entry for snap.
func ToggleLabel(snap domain.Snapshot) string {
	switch {
	case snap.Phase == domain.PhasePaused:
		return "Resume"
	case snap.Running:
		return "Pause"
	default:
		return "Start"
	}
}

// Tooltip returns the hover text for snap.
func Tooltip(snap domain.Snapshot) string {
	if snap.Phase == domain.PhaseIdle {
		return "breakr: ready"
	}
	return fmt.Sprintf("breakr: %s %s", snap.ActivePhase().Label(), domain.FormatClock(snap.Remaining))
}

// defaultIcon draws a filled circle as a 22x22 PNG.
func defaultIcon() []byte {
	const size = 22
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	fill := color.NRGBA{R: 0x4E, G: 0xCD, B: 0xC4, A: 0xFF}
	c := float64(size-1) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-c, float64(y)-c
			if dx*dx+dy*dy <= c*c {
				img.Set(x, y, fill)
			}
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
