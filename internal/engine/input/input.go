// Package input polls SDL events and maps keys to game actions.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
)

// Action is a key binding.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionPause
	ActionToggleFPS
	ActionScreenshot
	ActionDumpTerrain
)

// Event is a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Action Action
	Width  int
	Height int
}

// Bindings maps scancodes to actions.
type Bindings map[sdl.Scancode]Action

// DefaultBindings returns the standard key layout.
func DefaultBindings() Bindings {
	return Bindings{
		sdl.SCANCODE_ESCAPE: ActionQuit,
		sdl.SCANCODE_Q:      ActionQuit,
		sdl.SCANCODE_P:      ActionPause,
		sdl.SCANCODE_F:      ActionToggleFPS,
		sdl.SCANCODE_F11:    ActionScreenshot,
		sdl.SCANCODE_S:      ActionDumpTerrain,
	}
}

// Input collects the events of one frame.
type Input struct {
	bindings Bindings
	events   []Event
}

// New creates an input handler. A nil map uses DefaultBindings.
func New(bindings Bindings) *Input {
	if bindings == nil {
		bindings = DefaultBindings()
	}
	return &Input{
		bindings: bindings,
		events:   make([]Event, 0, 16),
	}
}

// Update polls SDL and reports whether the game should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit, Action: ActionQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
				continue
			}
			ev := i.Key(e.Keysym.Scancode)
			if ev.Action == ActionQuit {
				quit = true
			}
			i.events = append(i.events, ev)
		}
	}
	return quit
}

// Key translates a key press.
func (i *Input) Key(code sdl.Scancode) Event {
	return Event{Type: EventKeyDown, Key: code, Action: i.bindings[code]}
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Triggered reports whether action fired this frame.
func (i *Input) Triggered(action Action) bool {
	for _, e := range i.events {
		if e.Action == action {
			return true
		}
	}
	return false
}
