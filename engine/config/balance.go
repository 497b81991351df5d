// Package config holds the game balance tables and server settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/1siamBot/tactical-command/engine/core"
	"gopkg.in/yaml.v3"
)

// UnitDef defines the stats a unit type spawns with
type UnitDef struct {
	Health float64 `yaml:"health" json:"health"`
	Damage float64 `yaml:"damage" json:"damage"`
	Range  float64 `yaml:"range" json:"range"`
	Speed  float64 `yaml:"speed" json:"speed"`
	Cost   int     `yaml:"cost" json:"cost"`
}

// BuildingDef defines a building type
type BuildingDef struct {
	Health    float64 `yaml:"health" json:"health"`
	Cost      int     `yaml:"cost" json:"cost"`
	Buildable bool    `yaml:"buildable" json:"buildable"`
}

// RuleDef describes one enemy reinforcement wave
type RuleDef struct {
	Name     string        `yaml:"name"`
	When     string        `yaml:"when"` // expr boolean condition
	Spawn    core.UnitType `yaml:"spawn"`
	Count    int           `yaml:"count"`
	Cooldown uint64        `yaml:"cooldown"` // ticks between firings
}

// MinGridSize fits the starting layout: player base at x=2, player units up to
// x=5 and the enemy infantry at GridSize-5, to the right of them
const MinGridSize = 12

// Balance holds every simulation tunable
type Balance struct {
	GridSize          int           `yaml:"grid_size"`
	StartingResources int           `yaml:"starting_resources"`
	TickInterval      time.Duration `yaml:"tick_interval"`
	MoveStep          float64       `yaml:"move_step"`         // tiles per tick per point of speed
	ConstructionStep  float64       `yaml:"construction_step"` // percent per tick
	DamageScale       float64       `yaml:"damage_scale"`      // fraction of damage dealt per tick
	Speeds            []float64     `yaml:"speeds"`
	PlayerReturnFire  bool          `yaml:"player_return_fire"`

	Units          map[core.UnitType]UnitDef         `yaml:"-"`
	Buildings      map[core.BuildingType]BuildingDef `yaml:"-"`
	Reinforcements []RuleDef                         `yaml:"reinforcements"`
}

// Default returns the stock balance
func Default() *Balance {
	return &Balance{
		GridSize:          20,
		StartingResources: 1000,
		TickInterval:      core.DefaultTickInterval,
		MoveStep:          0.05,
		ConstructionStep:  0.5,
		DamageScale:       0.1,
		Speeds:            []float64{1, 2},
		Units: map[core.UnitType]UnitDef{
			core.UnitInfantry: {Health: 100, Damage: 10, Range: 2, Speed: 1.5, Cost: 50},
			core.UnitTank:     {Health: 300, Damage: 40, Range: 3, Speed: 1, Cost: 150},
			core.UnitAircraft: {Health: 150, Damage: 25, Range: 5, Speed: 3, Cost: 200},
		},
		Buildings: map[core.BuildingType]BuildingDef{
			core.BuildingBase:     {Health: 1000, Cost: 0},
			core.BuildingBarracks: {Health: 500, Cost: 200, Buildable: true},
			core.BuildingFactory:  {Health: 600, Cost: 300, Buildable: true},
			core.BuildingAirfield: {Health: 400, Cost: 350, Buildable: true},
		},
	}
}

// Unit returns the definition for a unit type
func (b *Balance) Unit(t core.UnitType) (UnitDef, error) {
	def, ok := b.Units[t]
	if !ok {
		return UnitDef{}, fmt.Errorf("%w: %q", core.ErrUnknownUnitType, t)
	}
	return def, nil
}

// Building returns the definition for a building type
func (b *Balance) Building(t core.BuildingType) (BuildingDef, error) {
	def, ok := b.Buildings[t]
	if !ok {
		return BuildingDef{}, fmt.Errorf("%w: %q", core.ErrUnknownBuildingType, t)
	}
	return def, nil
}

// AllowsSpeed reports whether s is one of the configured speed multipliers
func (b *Balance) AllowsSpeed(s float64) bool {
	for _, v := range b.Speeds {
		if v == s {
			return true
		}
	}
	return false
}

// Validate checks the balance for values the simulation cannot run with
func (b *Balance) Validate() error {
	var errs []error
	if b.GridSize < MinGridSize {
		errs = append(errs, fmt.Errorf("grid_size must be >= %d to fit the starting layout, got %d", MinGridSize, b.GridSize))
	}
	if b.StartingResources < 0 {
		errs = append(errs, fmt.Errorf("starting_resources must be >= 0, got %d", b.StartingResources))
	}
	if b.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick_interval must be > 0, got %v", b.TickInterval))
	}
	if b.MoveStep <= 0 {
		errs = append(errs, fmt.Errorf("move_step must be > 0, got %v", b.MoveStep))
	}
	if b.ConstructionStep <= 0 {
		errs = append(errs, fmt.Errorf("construction_step must be > 0, got %v", b.ConstructionStep))
	}
	if b.DamageScale < 0 {
		errs = append(errs, fmt.Errorf("damage_scale must be >= 0, got %v", b.DamageScale))
	}
	if len(b.Speeds) == 0 {
		errs = append(errs, errors.New("speeds must not be empty"))
	}
	for _, s := range b.Speeds {
		if s <= 0 {
			errs = append(errs, fmt.Errorf("speed %v must be > 0", s))
		}
	}
	for _, t := range core.UnitTypes {
		def, ok := b.Units[t]
		if !ok {
			errs = append(errs, fmt.Errorf("missing unit definition %q", t))
			continue
		}
		if def.Health <= 0 || def.Speed <= 0 || def.Cost < 0 || def.Range < 0 {
			errs = append(errs, fmt.Errorf("unit %q: health and speed must be > 0, cost and range >= 0", t))
		}
	}
	for _, t := range core.BuildingTypes {
		def, ok := b.Buildings[t]
		if !ok {
			errs = append(errs, fmt.Errorf("missing building definition %q", t))
			continue
		}
		if def.Health <= 0 || def.Cost < 0 {
			errs = append(errs, fmt.Errorf("building %q: health must be > 0 and cost >= 0", t))
		}
	}
	for i, r := range b.Reinforcements {
		if r.When == "" {
			errs = append(errs, fmt.Errorf("reinforcement %d (%s): empty condition", i, r.Name))
		}
		if _, ok := b.Units[r.Spawn]; !ok {
			errs = append(errs, fmt.Errorf("reinforcement %d (%s): unknown unit %q", i, r.Name, r.Spawn))
		}
		if r.Count <= 0 {
			errs = append(errs, fmt.Errorf("reinforcement %d (%s): count must be > 0", i, r.Name))
		}
	}
	return errors.Join(errs...)
}

// unitPatch and buildingPatch let a file override single fields
type unitPatch struct {
	Health *float64 `yaml:"health"`
	Damage *float64 `yaml:"damage"`
	Range  *float64 `yaml:"range"`
	Speed  *float64 `yaml:"speed"`
	Cost   *int     `yaml:"cost"`
}

type buildingPatch struct {
	Health    *float64 `yaml:"health"`
	Cost      *int     `yaml:"cost"`
	Buildable *bool    `yaml:"buildable"`
}

type catalogPatch struct {
	Units     map[string]unitPatch     `yaml:"units"`
	Buildings map[string]buildingPatch `yaml:"buildings"`
}

// Parse decodes YAML over the default balance and validates the result
func Parse(data []byte) (*Balance, error) {
	b := Default()
	if err := yaml.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("decode balance: %w", err)
	}
	var f catalogPatch
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode balance catalog: %w", err)
	}
	for name, p := range f.Units {
		t, err := core.ParseUnitType(name)
		if err != nil {
			return nil, fmt.Errorf("balance units: %w", err)
		}
		def := b.Units[t]
		setIf(&def.Health, p.Health)
		setIf(&def.Damage, p.Damage)
		setIf(&def.Range, p.Range)
		setIf(&def.Speed, p.Speed)
		setIf(&def.Cost, p.Cost)
		b.Units[t] = def
	}
	for name, p := range f.Buildings {
		t, err := core.ParseBuildingType(name)
		if err != nil {
			return nil, fmt.Errorf("balance buildings: %w", err)
		}
		def := b.Buildings[t]
		setIf(&def.Health, p.Health)
		setIf(&def.Cost, p.Cost)
		setIf(&def.Buildable, p.Buildable)
		b.Buildings[t] = def
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("invalid balance: %w", err)
	}
	return b, nil
}

// Load reads a balance YAML file. An empty path yields the defaults.
func Load(path string) (*Balance, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read balance %s: %w", path, err)
	}
	return Parse(data)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
