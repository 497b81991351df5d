// Package input polls ebiten for the mouse and the keyboard shortcuts.
package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Action is a keyboard shortcut
type Action int

const (
	ActionNone Action = iota
	ActionTogglePause
	ActionSpeed1
	ActionSpeed2
	ActionCopyReport
	ActionClearSelection
)

// keyActions in check order; one action per frame
var keyActions = []struct {
	key    ebiten.Key
	action Action
}{
	{ebiten.KeySpace, ActionTogglePause},
	{ebiten.Key1, ActionSpeed1},
	{ebiten.Key2, ActionSpeed2},
	{ebiten.KeyC, ActionCopyReport},
	{ebiten.KeyEscape, ActionClearSelection},
}

// InputState tracks mouse and keyboard state per frame
type InputState struct {
	MouseX, MouseY   int
	LeftJustPressed  bool
	LeftJustReleased bool
	RightJustPressed bool
	Shift            bool
	Action           Action

	// Drag
	DragStartX, DragStartY int
	Dragging               bool
	DragThreshold          int
	dragEnded              bool
}

func NewInputState() *InputState {
	return &InputState{DragThreshold: 5}
}

// Update should be called every frame
func (s *InputState) Update() {
	s.MouseX, s.MouseY = ebiten.CursorPosition()
	s.LeftJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	s.LeftJustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	s.RightJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	s.Shift = ebiten.IsKeyPressed(ebiten.KeyShift)

	leftDown := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	s.dragEnded = false
	if s.LeftJustPressed {
		s.DragStartX, s.DragStartY = s.MouseX, s.MouseY
		s.Dragging = false
	}
	if leftDown && !s.Dragging {
		dx := s.MouseX - s.DragStartX
		dy := s.MouseY - s.DragStartY
		if dx*dx+dy*dy > s.DragThreshold*s.DragThreshold {
			s.Dragging = true
		}
	}
	if !leftDown && s.Dragging {
		s.Dragging = false
		s.dragEnded = s.LeftJustReleased
	}

	s.Action = ActionNone
	for _, ka := range keyActions {
		if inpututil.IsKeyJustPressed(ka.key) {
			s.Action = ka.action
			break
		}
	}
}

// Clicked reports a left click that was not the end of a drag
func (s *InputState) Clicked() bool {
	return s.LeftJustReleased && !s.dragEnded
}

// DragRect returns the selection rectangle while dragging, or the finished
// rectangle on the frame the drag ends
func (s *InputState) DragRect() (x1, y1, x2, y2 int, active bool) {
	if !s.Dragging && !s.dragEnded {
		return 0, 0, 0, 0, false
	}
	return s.DragStartX, s.DragStartY, s.MouseX, s.MouseY, true
}

// DragFinished reports whether a drag ended this frame
func (s *InputState) DragFinished() bool {
	return s.dragEnded
}
