package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/simcore/ecs/component"
)

// LoadSprite loads the image at path from the filesystem and registers it for
// handle. A handle that already has a sprite is left as is.
func LoadSprite(handle component.MeshHandle, path string) (*ebiten.Image, error) {
	if handle == 0 || path == "" {
		return nil, fmt.Errorf("render: empty sprite handle or path")
	}
	if img := Sprite(handle); img != nil {
		return img, nil
	}
	img, err := loadImageFromFS(path)
	if err != nil {
		return nil, err
	}
	RegisterSprite(handle, img)
	return img, nil
}

func loadImageFromFS(path string) (*ebiten.Image, error) {
	tried := []string{path, filepath.Join("assets", path), filepath.Base(path)}
	for _, p := range tried {
		if b, err := os.ReadFile(p); err == nil {
			if im, _, err := image.Decode(bytes.NewReader(b)); err == nil {
				return ebiten.NewImageFromImage(im), nil
			}
		}
	}
	return nil, fmt.Errorf("render: failed to load image %s", path)
}
