// Profiling:
// go build ./profile/transform
// SOAECS_PROFILE=cpu ./transform
// go tool pprof -http=":8000" -nodefraction=0.001 ./transform cpu.pprof

package main

import (
	"os"

	"github.com/edwinsyarief/soaecs"
	"github.com/edwinsyarief/soaecs/config"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/profile"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("failed to load config")
	}
	logger := cfg.Logger().With().Str("harness", "transform").Logger()

	var p interface{ Stop() }
	switch cfg.Profile {
	case "mem":
		p = profile.Start(profile.MemProfileAllocs, profile.ProfilePath(cfg.ProfilePath), profile.NoShutdownHook, profile.Quiet)
	case "cpu":
		p = profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.ProfilePath), profile.NoShutdownHook, profile.Quiet)
	}
	reallocs := run(cfg, logger)
	if p != nil {
		p.Stop()
	}
	logger.Info().Int("reallocations", reallocs).Msg("done")
}

// run assigns transforms to fresh entities, moves them a few times and destroys them again.
func run(cfg config.Config, logger zerolog.Logger) int {
	reallocs := 0
	for range cfg.Rounds {
		bus := &soaecs.EventBus{}
		soaecs.Subscribe(bus, func(soaecs.ColumnsReallocated) { reallocs++ })

		a := soaecs.NewEntityAllocator(cfg.MinFreedBuildup, soaecs.WithEventBus(bus))
		tc := soaecs.NewTransformComponent(a, cfg.InitialCapacity, soaecs.WithLogger(logger), soaecs.WithEventBus(bus))

		ents := make([]soaecs.Entity, 0, cfg.Entities)
		for range cfg.Iterations {
			ents = ents[:0]
			parent := soaecs.RootInstance
			for k := range cfg.Entities {
				e := a.Create()
				ents = append(ents, e)
				desc := soaecs.IdentityTransform()
				desc.Position = mgl32.Vec3{float32(k), 0, 0}
				inst := tc.Assign(e, desc, parent)
				if k%8 == 0 {
					parent = inst
				}
			}
			angle := mgl32.QuatRotate(0.1, mgl32.Vec3{0, 1, 0})
			tc.Each(func(i soaecs.Instance) {
				tc.SetPositionAndRotation(i, tc.Position(i).Add(mgl32.Vec3{0, 1, 0}), angle.Mul(tc.Rotation(i)))
			})
			for _, e := range ents {
				a.Destroy(e)
			}
		}
	}
	return reallocs
}
