package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/simcore/ecs/component"
)

var sprites = map[component.MeshHandle]*ebiten.Image{}

// RegisterSprite stores the image drawn for a mesh handle.
func RegisterSprite(handle component.MeshHandle, img *ebiten.Image) {
	if handle == 0 || img == nil {
		return
	}
	sprites[handle] = img
}

// Sprite returns the image for a mesh handle, or nil.
func Sprite(handle component.MeshHandle) *ebiten.Image {
	if handle == 0 {
		return nil
	}
	return sprites[handle]
}
