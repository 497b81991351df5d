package render

import (
	"image"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/1siamBot/tactical-command/engine/core"
	"github.com/hajimehoshi/ebiten/v2"
)

// SpriteSet holds optional unit and building images. Missing images fall
// back to flat shapes.
type SpriteSet struct {
	Units     map[core.UnitType]*ebiten.Image
	Buildings map[core.BuildingType]*ebiten.Image
}

// LoadSprites reads <dir>/units/<type>.png and <dir>/buildings/<type>.png
func LoadSprites(dir string) *SpriteSet {
	s := &SpriteSet{
		Units:     make(map[core.UnitType]*ebiten.Image),
		Buildings: make(map[core.BuildingType]*ebiten.Image),
	}
	if dir == "" {
		return s
	}
	for _, t := range core.UnitTypes {
		if img := loadFromFile(filepath.Join(dir, "units", string(t)+".png")); img != nil {
			s.Units[t] = img
		}
	}
	for _, t := range core.BuildingTypes {
		if img := loadFromFile(filepath.Join(dir, "buildings", string(t)+".png")); img != nil {
			s.Buildings[t] = img
		}
	}
	slog.Debug("sprites loaded", "dir", dir, "units", len(s.Units), "buildings", len(s.Buildings))
	return s
}

func (s *SpriteSet) unit(t core.UnitType) *ebiten.Image {
	if s == nil {
		return nil
	}
	return s.Units[t]
}

func (s *SpriteSet) building(t core.BuildingType) *ebiten.Image {
	if s == nil {
		return nil
	}
	return s.Buildings[t]
}

// drawSprite scales img into a size x size box. Enemy sprites are tinted red.
func (r *Renderer) drawSprite(screen, img *ebiten.Image, team core.Team, x, y, size, alpha float32) bool {
	if img == nil {
		return false
	}
	sw, sh := img.Bounds().Dx(), img.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(size)/float64(sw), float64(size)/float64(sh))
	op.GeoM.Translate(float64(x), float64(y))
	if team == core.TeamEnemy {
		op.ColorScale.Scale(1.5, 0.6, 0.6, 1.0)
	}
	op.ColorScale.ScaleAlpha(alpha)
	screen.DrawImage(img, op)
	return true
}

func loadFromFile(path string) *ebiten.Image {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		slog.Warn("could not decode sprite", "path", path, "err", err)
		return nil
	}
	return ebiten.NewImageFromImage(img)
}
