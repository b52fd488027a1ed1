// Sandbox runs a scene headless and logs physics stats.
//
// Profiling:
// go run ./cmd/sandbox -scene rain -ticks 20000 -profile cpu
// go tool pprof -http=":8000" cpu.pprof
package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/milk9111/simcore/ecs/system"
	"github.com/milk9111/simcore/prefabs"
	"github.com/pkg/profile"
)

type run struct {
	scene    *prefabs.Scene
	triggers int
}

func load(name string) (*run, error) {
	spec, err := prefabs.LoadScene(name)
	if err != nil {
		return nil, err
	}
	scene, err := prefabs.BuildScene(spec)
	if err != nil {
		return nil, err
	}
	r := &run{scene: scene}
	scene.World.AddTriggerCallback(func(system.Collision) { r.triggers++ })
	return r, nil
}

func main() {
	sceneName := flag.String("scene", "drop", "scene name in prefabs/ (.yaml optional)")
	ticks := flag.Int("ticks", 600, "ticks to run; 0 runs until interrupted (requires -watch)")
	dt := flag.Float64("dt", 1.0/60.0, "seconds passed to each update")
	every := flag.Int("every", 60, "log stats every N ticks, 0 disables")
	watch := flag.Bool("watch", false, "run in real time and reload the scene when prefabs/*.yaml changes")
	prof := flag.String("profile", "", "write a cpu or mem profile to the working directory")
	list := flag.Bool("list", false, "list embedded scenes and exit")
	flag.Parse()

	if *list {
		for _, name := range prefabs.Scenes() {
			fmt.Println(name)
		}
		return
	}
	if *dt <= 0 {
		log.Fatalf("sandbox: -dt must be positive, got %v", *dt)
	}
	if *ticks <= 0 && !*watch {
		log.Fatal("sandbox: -ticks must be positive without -watch")
	}

	switch *prof {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		log.Fatalf("sandbox: unknown profile mode %q", *prof)
	}

	r, err := load(*sceneName)
	if err != nil {
		log.Fatal(err)
	}

	var changes <-chan prefabs.SceneChange
	var pace <-chan time.Time
	if *watch {
		w, err := prefabs.NewWatcher("prefabs")
		if err != nil {
			log.Fatalf("sandbox: watch prefabs: %v", err)
		}
		defer w.Close()
		changes = w.Changes

		ticker := time.NewTicker(time.Duration(*dt * float64(time.Second)))
		defer ticker.Stop()
		pace = ticker.C
	}

	start := time.Now()
	for tick := 1; *ticks <= 0 || tick <= *ticks; tick++ {
		if pace != nil {
			<-pace
			select {
			case change, ok := <-changes:
				if !ok {
					changes = nil
					break
				}
				if change.Scene != prefabs.SceneName(*sceneName) {
					break
				}
				next, err := load(*sceneName)
				if err != nil {
					log.Printf("sandbox: reload after %s: %v", change.Path, err)
					break
				}
				r = next
				log.Printf("sandbox: reloaded %s after change to %s", *sceneName, change.Path)
			default:
			}
		}

		r.scene.World.Update(*dt)
		if *every > 0 && tick%*every == 0 {
			log.Printf("sandbox: %s", r.scene.World.Stats())
		}
	}

	stats := r.scene.World.Stats()
	log.Printf("sandbox: %s finished in %v: %s, trigger callbacks=%d", r.scene.Name, time.Since(start), stats, r.triggers)

	names := make([]string, 0, len(r.scene.Entities))
	for name := range r.scene.Entities {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		e := r.scene.Entities[name]
		t, ok := r.scene.World.Transform(e)
		if !ok {
			continue
		}
		body, _ := r.scene.World.Body(e)
		log.Printf("sandbox: %-12s %s pos=(%.3f, %.3f, %.3f) vel=(%.3f, %.3f, %.3f)", name, e,
			t.Position.X(), t.Position.Y(), t.Position.Z(),
			body.Velocity.X(), body.Velocity.Y(), body.Velocity.Z())
	}
}
