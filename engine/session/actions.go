package session

import (
	"fmt"

	"github.com/1siamBot/tactical-command/engine/command"
	"github.com/1siamBot/tactical-command/engine/core"
	"github.com/1siamBot/tactical-command/engine/systems"
)

// SpawnUnit trains a player unit beside the player base
func (s *Session) SpawnUnit(t core.UnitType) error {
	return s.Apply(command.Spawn(t))
}

// BuildStructure places a building beside the player base
func (s *Session) BuildStructure(t core.BuildingType) error {
	return s.Apply(command.Build(t))
}

// BuildStructureAt places a building on a chosen cell
func (s *Session) BuildStructureAt(t core.BuildingType, pos core.Position) error {
	return s.Apply(command.BuildAt(t, pos))
}

// SelectUnit selects, or with additive toggles, a player unit
func (s *Session) SelectUnit(id string, additive bool) error {
	return s.Apply(command.Select(id, additive))
}

// ClearSelection deselects everything
func (s *Session) ClearSelection() error {
	return s.Apply(command.ClearSelection())
}

// MoveSelected orders the selection to pos
func (s *Session) MoveSelected(pos core.Position) error {
	return s.Apply(command.Move(pos))
}

// TogglePause pauses or resumes the game
func (s *Session) TogglePause() error {
	return s.Apply(command.TogglePause())
}

// SetSpeed changes the game speed multiplier
func (s *Session) SetSpeed(speed float64) error {
	return s.Apply(command.SetSpeed(speed))
}

// Apply executes a command against the world. The command is stamped with the
// current tick and recorded whether or not it succeeds, so replays consume the
// placement RNG identically.
func (s *Session) Apply(cmd command.Command) error {
	cmd.Tick = s.World.TickCount
	err := s.exec(cmd)
	s.World.Bus.Dispatch()

	if s.recorder != nil {
		if rerr := s.recorder.Record(cmd); rerr != nil {
			s.log.Error("record command", "cmd", cmd.String(), "error", rerr)
		}
	}
	s.stats.Commands++
	if err != nil {
		s.stats.Rejected++
		s.log.Debug("command rejected", "cmd", cmd.String(), "tick", cmd.Tick, "error", err)
		return err
	}
	s.log.Debug("command applied", "cmd", cmd.String(), "tick", cmd.Tick)
	return nil
}

func (s *Session) exec(cmd command.Command) error {
	w, bal := s.World, s.Balance
	switch cmd.Type {
	case command.CmdSpawn:
		t, err := core.ParseUnitType(cmd.Param)
		if err != nil {
			return err
		}
		_, err = systems.SpawnUnit(w, bal, t)
		return err
	case command.CmdBuild:
		t, err := core.ParseBuildingType(cmd.Param)
		if err != nil {
			return err
		}
		_, err = systems.BuildStructure(w, bal, t, s.rng)
		return err
	case command.CmdBuildAt:
		t, err := core.ParseBuildingType(cmd.Param)
		if err != nil {
			return err
		}
		_, err = systems.BuildStructureAt(w, bal, t, cmd.Position())
		return err
	case command.CmdSelect:
		return systems.SelectUnit(w, cmd.UnitID, cmd.Additive)
	case command.CmdClearSelection:
		systems.ClearSelection(w)
		return nil
	case command.CmdMove:
		return systems.MoveSelected(w, cmd.Position())
	case command.CmdTogglePause:
		systems.TogglePause(w)
		if !w.Paused {
			s.Loop.Reset()
		}
		return nil
	case command.CmdSetSpeed:
		speed, err := cmd.Speed()
		if err != nil {
			return err
		}
		return systems.SetSpeed(w, bal, speed)
	}
	return fmt.Errorf("unknown command %s", cmd.Type)
}
