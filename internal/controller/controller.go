// Package controller provides an emulated input source: live manual input or
// a finite scripted sequence, for automated scenarios and tests.
package controller

import "github.com/davral/wheelsim/internal/chair"

type Emulated struct {
	input       chair.ControllerInput
	connected   bool
	script      []chair.ControllerInput
	scriptIndex int
}

func New() *Emulated {
	return &Emulated{connected: true}
}

// ReadInput advances one script entry per call while a script is loaded;
// after exhaustion the final played value repeats indefinitely. A
// disconnected controller always reads neutral.
func (c *Emulated) ReadInput() chair.ControllerInput {
	if !c.connected {
		return chair.ControllerInput{}
	}
	if c.scriptIndex < len(c.script) {
		c.input = c.script[c.scriptIndex]
		c.scriptIndex++
	}
	return c.input
}

func (c *Emulated) Connected() bool {
	return c.connected
}

// SetInput sets manual input with axes clamped to [-1, 1]. Manual control
// takes priority: any loaded script is discarded.
func (c *Emulated) SetInput(input chair.ControllerInput) {
	input.Linear = chair.Clamp(input.Linear, -1, 1)
	input.Angular = chair.Clamp(input.Angular, -1, 1)
	c.input = input
	c.script = nil
	c.scriptIndex = 0
}

// LoadScript installs a playback sequence starting at its first entry.
func (c *Emulated) LoadScript(script []chair.ControllerInput) {
	c.script = script
	c.scriptIndex = 0
}

// ResetScript rewinds playback to the beginning.
func (c *Emulated) ResetScript() {
	c.scriptIndex = 0
}

// ClearScript drops the script and returns to neutral input.
func (c *Emulated) ClearScript() {
	c.script = nil
	c.scriptIndex = 0
	c.input = chair.ControllerInput{}
}

// Disconnect simulates the controller dropping off; input goes neutral.
func (c *Emulated) Disconnect() {
	c.connected = false
	c.input = chair.ControllerInput{}
}

func (c *Emulated) Connect() {
	c.connected = true
}
