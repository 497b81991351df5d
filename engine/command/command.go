// Package command defines player commands, their binary and JSON encodings,
// and replay files.
package command

import (
	"encoding/binary"
	"fmt"
	"io"
	"strconv"

	"github.com/1siamBot/tactical-command/engine/core"
)

// Type identifies a player command
type Type uint8

const (
	CmdSpawn Type = iota
	CmdBuild
	CmdBuildAt
	CmdSelect
	CmdClearSelection
	CmdMove
	CmdTogglePause
	CmdSetSpeed
)

var typeNames = [...]string{
	CmdSpawn:          "spawn",
	CmdBuild:          "build",
	CmdBuildAt:        "build_at",
	CmdSelect:         "select",
	CmdClearSelection: "clear_selection",
	CmdMove:           "move",
	CmdTogglePause:    "toggle_pause",
	CmdSetSpeed:       "set_speed",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("cmd(%d)", uint8(t))
}

// MarshalText encodes the type by name
func (t Type) MarshalText() ([]byte, error) {
	if int(t) >= len(typeNames) {
		return nil, fmt.Errorf("unknown command type %d", uint8(t))
	}
	return []byte(typeNames[t]), nil
}

// UnmarshalText decodes a type name
func (t *Type) UnmarshalText(b []byte) error {
	for i, n := range typeNames {
		if n == string(b) {
			*t = Type(i)
			return nil
		}
	}
	return fmt.Errorf("unknown command type %q", b)
}

// Command is a deterministic player action stamped with the tick it was
// issued on
type Command struct {
	Tick     uint64  `json:"tick,omitempty"`
	Type     Type    `json:"type"`
	UnitID   string  `json:"unitId,omitempty"`
	Additive bool    `json:"additive,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Param    string  `json:"param,omitempty"` // unit or building type, speed
}

// ---- Constructors ----

func Spawn(t core.UnitType) Command { return Command{Type: CmdSpawn, Param: string(t)} }

func Build(t core.BuildingType) Command { return Command{Type: CmdBuild, Param: string(t)} }

func BuildAt(t core.BuildingType, pos core.Position) Command {
	return Command{Type: CmdBuildAt, Param: string(t), X: pos.X, Y: pos.Y}
}

func Select(id string, additive bool) Command {
	return Command{Type: CmdSelect, UnitID: id, Additive: additive}
}

func ClearSelection() Command { return Command{Type: CmdClearSelection} }

func Move(pos core.Position) Command { return Command{Type: CmdMove, X: pos.X, Y: pos.Y} }

func TogglePause() Command { return Command{Type: CmdTogglePause} }

func SetSpeed(s float64) Command {
	return Command{Type: CmdSetSpeed, Param: strconv.FormatFloat(s, 'g', -1, 64)}
}

// Position returns the command's grid coordinates
func (c Command) Position() core.Position {
	return core.Position{X: c.X, Y: c.Y}
}

// Speed parses the speed multiplier of a CmdSetSpeed
func (c Command) Speed() (float64, error) {
	s, err := strconv.ParseFloat(c.Param, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", core.ErrInvalidSpeed, c.Param)
	}
	return s, nil
}

func (c Command) String() string {
	switch c.Type {
	case CmdSelect:
		return fmt.Sprintf("%s %s additive=%t", c.Type, c.UnitID, c.Additive)
	case CmdMove:
		return fmt.Sprintf("%s %s", c.Type, c.Position())
	case CmdBuildAt:
		return fmt.Sprintf("%s %s %s", c.Type, c.Param, c.Position())
	}
	if c.Param != "" {
		return fmt.Sprintf("%s %s", c.Type, c.Param)
	}
	return c.Type.String()
}

// ---- Binary codec ----

// Encode writes a command in little-endian binary
func (c *Command) Encode(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, c.Tick); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, c.Type); err != nil {
		return err
	}
	if err := writeString(w, c.UnitID); err != nil {
		return err
	}
	var additive uint8
	if c.Additive {
		additive = 1
	}
	if err := binary.Write(w, binary.LittleEndian, additive); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, c.X); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, c.Y); err != nil {
		return err
	}
	return writeString(w, c.Param)
}

// Decode reads a command written by Encode. It returns io.EOF only when r is
// exhausted before the first byte.
func (c *Command) Decode(r io.Reader) error {
	if err := binary.Read(r, binary.LittleEndian, &c.Tick); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &c.Type); err != nil {
		return unexpected(err)
	}
	var err error
	if c.UnitID, err = readString(r); err != nil {
		return unexpected(err)
	}
	var additive uint8
	if err := binary.Read(r, binary.LittleEndian, &additive); err != nil {
		return unexpected(err)
	}
	c.Additive = additive != 0
	if err := binary.Read(r, binary.LittleEndian, &c.X); err != nil {
		return unexpected(err)
	}
	if err := binary.Read(r, binary.LittleEndian, &c.Y); err != nil {
		return unexpected(err)
	}
	if c.Param, err = readString(r); err != nil {
		return unexpected(err)
	}
	return nil
}

func writeString(w io.Writer, s string) error {
	if len(s) > 0xFFFF {
		return fmt.Errorf("string field too long: %d bytes", len(s))
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// unexpected turns a mid-record EOF into io.ErrUnexpectedEOF
func unexpected(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
