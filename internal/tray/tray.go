// Package tray puts the judge in the system tray with a start button and the
// last verdict.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the judge's system tray menu.
type Tray struct {
	mu      sync.RWMutex
	onStart func()
	onQuit  func()
	last    string

	menuLast *systray.MenuItem
}

// New creates a Tray.
func New() *Tray {
	return &Tray{}
}

// OnStart sets the callback for the "Start round" item.
func (t *Tray) OnStart(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onStart = fn
}

// OnQuit sets the callback for the "Quit" item.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run shows the tray. It blocks until Quit.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit removes the tray and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("RPS")
	systray.SetTooltip("Rock-Paper-Scissors judge")

	menuStart := systray.AddMenuItem("Start round", "Broadcast a round start")
	systray.AddSeparator()

	t.mu.Lock()
	t.menuLast = systray.AddMenuItem(lastLabel(t.last), "Last verdict")
	t.menuLast.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Stop the judge")

	go func() {
		for {
			select {
			case <-menuStart.ClickedCh:
				t.handleStart()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) handleStart() {
	t.mu.RLock()
	callback := t.onStart
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
	systray.Quit()
}

// SetLastResult shows result in the menu. It may be called before Run.
func (t *Tray) SetLastResult(result string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = result
	if t.menuLast != nil {
		t.menuLast.SetTitle(lastLabel(result))
	}
}

// LastResult returns the verdict currently shown.
func (t *Tray) LastResult() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last
}

func lastLabel(result string) string {
	if result == "" {
		return "Last: none"
	}
	return "Last: " + result
}
