package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/simcore/ecs"
	"github.com/milk9111/simcore/ecs/component"
	"github.com/milk9111/simcore/ecs/render"
	"github.com/milk9111/simcore/prefabs"
	"golang.org/x/image/colornames"
)

const (
	screenWidth  = 1280
	screenHeight = 720
	panSpeed     = 0.2
)

type viewer struct {
	sceneName string
	scene     *prefabs.Scene
	renderer  *render.DebugRenderer
	watcher   *prefabs.Watcher
	paused    bool
	stepOnce  bool
	dt        float64
}

func newViewer(sceneName string, dt float64) (*viewer, error) {
	v := &viewer{sceneName: sceneName, renderer: render.NewDebugRenderer(), dt: dt}
	v.renderer.Camera.Y = 3
	if err := v.reload(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *viewer) reload() error {
	spec, err := prefabs.LoadScene(v.sceneName)
	if err != nil {
		return err
	}
	scene, err := prefabs.BuildScene(spec)
	if err != nil {
		return err
	}
	v.scene = scene
	loadSprites(scene.World.ECS())
	return nil
}

func loadSprites(w *ecs.World) {
	models, err := ecs.Store[component.Model](w)
	if err != nil {
		return
	}
	for _, m := range models.Values() {
		if _, err := render.LoadSprite(m.Mesh, m.Name); err != nil {
			log.Printf("viewer: sprite %s: %v", m.Name, err)
		}
	}
}

func (v *viewer) Update() error {
	if v.watcher != nil {
		select {
		case change, ok := <-v.watcher.Changes:
			if ok && change.Scene == prefabs.SceneName(v.sceneName) {
				if err := v.reload(); err != nil {
					log.Printf("viewer: reload after %s: %v", change.Path, err)
				} else {
					log.Printf("viewer: reloaded %s", v.sceneName)
				}
			}
		default:
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.paused = !v.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		v.stepOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := v.reload(); err != nil {
			log.Printf("viewer: reload: %v", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		v.renderer.Normals = !v.renderer.Normals
	}

	cam := &v.renderer.Camera
	step := panSpeed * 40 / cam.Zoom
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		cam.X -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		cam.X += step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		cam.Y += step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		cam.Y -= step
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		cam.Zoom *= 1 + 0.1*wy
		if cam.Zoom < 2 {
			cam.Zoom = 2
		}
	}

	if !v.paused || v.stepOnce {
		v.scene.World.Update(v.dt)
		v.stepOnce = false
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)
	v.renderer.Draw(screen, v.scene.World.ECS(), v.scene.World.Collisions())

	state := "running"
	if v.paused {
		state = "paused"
	}
	render.DrawText(screen, fmt.Sprintf("%s [%s]  space: pause  .: step  r: reload  n: normals\n%s\nfps %.0f",
		v.scene.Name, state, v.scene.World.Stats(), ebiten.ActualFPS()))
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	sceneName := flag.String("scene", "stack", "scene name in prefabs/ (.yaml optional)")
	watch := flag.Bool("watch", false, "reload the scene when prefabs/*.yaml changes")
	flag.Parse()

	v, err := newViewer(*sceneName, 1.0/60.0)
	if err != nil {
		log.Fatal(err)
	}
	if *watch {
		w, err := prefabs.NewWatcher("prefabs")
		if err != nil {
			log.Fatalf("viewer: watch prefabs: %v", err)
		}
		defer w.Close()
		v.watcher = w
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("simcore viewer - " + *sceneName)

	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}
