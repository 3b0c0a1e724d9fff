package tray

import "testing"

func TestLastLabel(t *testing.T) {
	if got := lastLabel(""); got != "Last: none" {
		t.Errorf("lastLabel(\"\") = %q", got)
	}
	if got := lastLabel("win"); got != "Last: win" {
		t.Errorf("lastLabel(win) = %q", got)
	}
}

func TestTray_SetLastResultBeforeRun(t *testing.T) {
	tr := New()
	tr.SetLastResult("draw")
	if got := tr.LastResult(); got != "draw" {
		t.Errorf("LastResult() = %q, want draw", got)
	}
}

func TestTray_HandleStart(t *testing.T) {
	tr := New()
	tr.handleStart() // no callback set

	clicks := 0
	tr.OnStart(func() { clicks++ })
	tr.handleStart()
	tr.handleStart()

	if clicks != 2 {
		t.Errorf("clicks = %d, want 2", clicks)
	}
}
