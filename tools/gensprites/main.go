// gensprites writes placeholder unit and building sprites for the client.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/1siamBot/tactical-command/engine/core"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const size = 64

var (
	hull    = color.RGBA{70, 110, 200, 255}
	hullDk  = color.RGBA{45, 70, 140, 255}
	shadow  = color.RGBA{0, 0, 0, 60}
	outline = color.RGBA{20, 20, 30, 255}
	label   = color.RGBA{240, 240, 240, 255}
)

func main() {
	out := flag.String("out", "assets", "output directory")
	flag.Parse()

	if err := generate(*out); err != nil {
		fmt.Fprintln(os.Stderr, "gensprites:", err)
		os.Exit(1)
	}
}

func generate(dir string) error {
	unitDir := filepath.Join(dir, "units")
	buildingDir := filepath.Join(dir, "buildings")
	for _, d := range []string{unitDir, buildingDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}

	for _, t := range core.UnitTypes {
		img := image.NewRGBA(image.Rect(0, 0, size, size))
		unitSprite(img, t)
		if err := savePNG(filepath.Join(unitDir, string(t)+".png"), img); err != nil {
			return err
		}
	}
	for _, t := range core.BuildingTypes {
		img := image.NewRGBA(image.Rect(0, 0, size, size))
		buildingSprite(img, t)
		if err := savePNG(filepath.Join(buildingDir, string(t)+".png"), img); err != nil {
			return err
		}
	}
	return nil
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	fmt.Println("  →", path)
	return f.Close()
}

func unitSprite(img *image.RGBA, t core.UnitType) {
	c := size / 2
	fillCircle(img, c+2, c+3, c-6, shadow)
	switch t {
	case core.UnitTank:
		fillRect(img, 10, 14, size-20, size-28, hullDk)
		fillRect(img, 14, 18, size-28, size-36, hull)
		fillRect(img, c-2, 4, 5, c-4, outline)
	case core.UnitAircraft:
		fillRect(img, c-4, 6, 8, size-12, hull)
		fillRect(img, 6, c-6, size-12, 10, hullDk)
		fillRect(img, c-12, size-14, 24, 6, hullDk)
	default:
		fillCircle(img, c, c, c-10, hullDk)
		fillCircle(img, c, c, c-14, hull)
	}
	stamp(img, string(t))
}

func buildingSprite(img *image.RGBA, t core.BuildingType) {
	fillRect(img, 6, 8, size-10, size-10, shadow)
	fillRect(img, 2, 2, size-8, size-8, hullDk)
	fillRect(img, 6, 6, size-16, size-16, hull)
	if t == core.BuildingBase {
		fillCircle(img, size/2-2, size/2-2, 10, hullDk)
	}
	stamp(img, string(t))
}

// stamp writes the first letter of name in the bottom-left corner
func stamp(img *image.RGBA, name string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(label),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(4, size-4),
	}
	d.DrawString(strings.ToUpper(name[:1]))
}

func fillRect(img *image.RGBA, x, y, w, h int, c color.RGBA) {
	for py := y; py < y+h; py++ {
		for px := x; px < x+w; px++ {
			setPixelBlend(img, px, py, c)
		}
	}
}

func fillCircle(img *image.RGBA, cx, cy, r int, c color.RGBA) {
	for py := cy - r; py <= cy+r; py++ {
		for px := cx - r; px <= cx+r; px++ {
			dx, dy := px-cx, py-cy
			if dx*dx+dy*dy <= r*r {
				setPixelBlend(img, px, py, c)
			}
		}
	}
}

func setPixelBlend(img *image.RGBA, x, y int, c color.RGBA) {
	if !(image.Point{X: x, Y: y}.In(img.Bounds())) {
		return
	}
	existing := img.RGBAAt(x, y)
	if existing.A == 0 {
		img.SetRGBA(x, y, c)
		return
	}
	alpha := float64(c.A) / 255.0
	img.SetRGBA(x, y, color.RGBA{
		R: uint8(float64(existing.R)*(1-alpha) + float64(c.R)*alpha),
		G: uint8(float64(existing.G)*(1-alpha) + float64(c.G)*alpha),
		B: uint8(float64(existing.B)*(1-alpha) + float64(c.B)*alpha),
		A: 255,
	})
}
