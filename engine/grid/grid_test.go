package grid

import (
	"testing"

	"github.com/1siamBot/tactical-command/engine/core"
)

func TestCellAt(t *testing.T) {
	l := NewLayout(20, 0, 30)
	cases := []struct {
		px, py int
		want   core.Position
		ok     bool
	}{
		{0, 30, core.Position{X: 0, Y: 0}, true},
		{39, 69, core.Position{X: 0, Y: 0}, true},
		{40, 70, core.Position{X: 1, Y: 1}, true},
		{799, 829, core.Position{X: 19, Y: 19}, true},
		{800, 100, core.Position{}, false},
		{10, 29, core.Position{}, false},
	}
	for _, c := range cases {
		got, ok := l.CellAt(c.px, c.py)
		if ok != c.ok || got != c.want {
			t.Errorf("CellAt(%d, %d) = %v, %v; want %v, %v", c.px, c.py, got, ok, c.want, c.ok)
		}
	}
}

func TestCellCenterRoundTrip(t *testing.T) {
	l := NewLayout(20, 10, 30)
	p := core.Position{X: 4, Y: 10}
	x, y := l.CellCenter(p)
	if x != 10+4*40+20 || y != 30+10*40+20 {
		t.Fatalf("CellCenter = (%v, %v)", x, y)
	}
	got, ok := l.CellAt(int(x), int(y))
	if !ok || got != p {
		t.Fatalf("CellAt(center) = %v, %v; want %v", got, ok, p)
	}
}

func TestUnitAtPicksClosest(t *testing.T) {
	l := NewLayout(20, 0, 0)
	a := &core.Unit{ID: "a", Position: core.Position{X: 4, Y: 10}}
	b := &core.Unit{ID: "b", Position: core.Position{X: 4.2, Y: 10}}
	units := []*core.Unit{a, b}

	// centre of b is at x = 4.2*40 + 20 = 188
	if got := l.UnitAt(units, 187, 420); got != b {
		t.Fatalf("UnitAt = %v, want b", got)
	}
	if got := l.UnitAt(units, 400, 400); got != nil {
		t.Fatalf("UnitAt on empty cell = %v", got)
	}
}
