package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/1siamBot/tactical-command/engine/core"
)

func TestGenerateWritesEverySprite(t *testing.T) {
	dir := t.TempDir()
	if err := generate(dir); err != nil {
		t.Fatalf("generate: %v", err)
	}
	check := func(path string) {
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("open %s: %v", path, err)
		}
		defer f.Close()
		img, err := png.Decode(f)
		if err != nil {
			t.Fatalf("decode %s: %v", path, err)
		}
		if b := img.Bounds(); b.Dx() != size || b.Dy() != size {
			t.Errorf("%s is %v", path, b)
		}
	}
	for _, u := range core.UnitTypes {
		check(filepath.Join(dir, "units", string(u)+".png"))
	}
	for _, b := range core.BuildingTypes {
		check(filepath.Join(dir, "buildings", string(b)+".png"))
	}
}
