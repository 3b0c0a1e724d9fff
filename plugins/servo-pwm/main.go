// Package main is a servo helper that drives Linux sysfs PWM channels.
// It reads one servo.Request from stdin and writes a servo.Response to stdout.
//
// The PWM chip is taken from RPS_PWM_CHIP (default /sys/class/pwm/pwmchip0);
// servo channel N maps to pwmN on that chip.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/qwo877/Rock-Paper-Scissors-Robot/internal/servo"
)

const (
	defaultChip = "/sys/class/pwm/pwmchip0"

	periodNs   = 20_000_000 // 50 Hz
	minPulseNs = 500_000
	maxPulseNs = 2_500_000
)

func main() {
	var req servo.Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("failed to decode request: %w", err))
		return
	}

	chip := os.Getenv("RPS_PWM_CHIP")
	if chip == "" {
		chip = defaultChip
	}
	writeResponse(apply(chip, req))
}

// dutyCycle maps an angle to a pulse width in nanoseconds.
func dutyCycle(angle int) int {
	angle = servo.Clamp(angle)
	return minPulseNs + (maxPulseNs-minPulseNs)*angle/servo.MaxAngle
}

func apply(chip string, req servo.Request) error {
	if !servo.ValidChannel(req.Channel) {
		return fmt.Errorf("channel %d out of range", req.Channel)
	}

	pwm := filepath.Join(chip, "pwm"+strconv.Itoa(req.Channel))
	if _, err := os.Stat(pwm); os.IsNotExist(err) {
		if err := writeAttr(filepath.Join(chip, "export"), req.Channel); err != nil {
			return err
		}
	}

	if err := writeAttr(filepath.Join(pwm, "period"), periodNs); err != nil {
		return err
	}
	if err := writeAttr(filepath.Join(pwm, "duty_cycle"), dutyCycle(req.Angle)); err != nil {
		return err
	}
	return writeAttr(filepath.Join(pwm, "enable"), 1)
}

func writeAttr(path string, v int) error {
	if err := os.WriteFile(path, []byte(strconv.Itoa(v)), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeResponse(err error) {
	resp := servo.Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
