package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/servo"
)

func TestDutyCycle(t *testing.T) {
	tests := []struct {
		angle int
		want  int
	}{
		{0, 500_000},
		{90, 1_500_000},
		{180, 2_500_000},
		{-10, 500_000},
		{270, 2_500_000},
	}
	for _, tt := range tests {
		if got := dutyCycle(tt.angle); got != tt.want {
			t.Errorf("dutyCycle(%d) = %d, want %d", tt.angle, got, tt.want)
		}
	}
}

func TestApply(t *testing.T) {
	chip := t.TempDir()
	pwm := filepath.Join(chip, "pwm2")
	if err := os.Mkdir(pwm, 0755); err != nil {
		t.Fatal(err)
	}

	if err := apply(chip, servo.Request{Channel: 2, Angle: 90}); err != nil {
		t.Fatalf("apply() error = %v", err)
	}

	for attr, want := range map[string]string{
		"period":     "20000000",
		"duty_cycle": "1500000",
		"enable":     "1",
	} {
		got, err := os.ReadFile(filepath.Join(pwm, attr))
		if err != nil {
			t.Fatalf("read %s: %v", attr, err)
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", attr, got, want)
		}
	}
}

func TestApply_BadChannel(t *testing.T) {
	if err := apply(t.TempDir(), servo.Request{Channel: 16}); err == nil {
		t.Fatal("expected error for channel 16")
	}
}
