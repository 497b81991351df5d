package core

// Team identifies a side of the battle
type Team string

const (
	TeamPlayer Team = "player" // human controlled
	TeamEnemy  Team = "enemy"  // computer controlled
)

// Opponent returns the opposing team
func (t Team) Opponent() Team {
	if t == TeamPlayer {
		return TeamEnemy
	}
	return TeamPlayer
}

// Color returns the team's RGBA colour as 0xRRGGBBAA
func (t Team) Color() uint32 {
	if t == TeamPlayer {
		return 0x0EA5E9FF
	}
	return 0xEA384CFF
}
