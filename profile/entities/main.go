// Profiling:
// go build ./profile/entities
// SOAECS_PROFILE=mem ./entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

package main

import (
	"os"

	"github.com/edwinsyarief/soaecs"
	"github.com/edwinsyarief/soaecs/config"
	"github.com/pkg/profile"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := zerolog.New(os.Stderr)
		l.Fatal().Err(err).Msg("failed to load config")
	}
	logger := cfg.Logger().With().Str("harness", "entities").Logger()

	var p interface{ Stop() }
	switch cfg.Profile {
	case "mem":
		p = profile.Start(profile.MemProfileAllocs, profile.ProfilePath(cfg.ProfilePath), profile.NoShutdownHook, profile.Quiet)
	case "cpu":
		p = profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.ProfilePath), profile.NoShutdownHook, profile.Quiet)
	}
	created, parked := run(cfg, logger)
	if p != nil {
		p.Stop()
	}
	logger.Info().Int("created", created).Int("parked", parked).Msg("done")
}

// run churns an allocator: every iteration creates a batch and destroys all of it again, so the
// free list and the reuse delay are exercised on every round.
func run(cfg config.Config, logger zerolog.Logger) (created, parked int) {
	for round := range cfg.Rounds {
		bus := &soaecs.EventBus{}
		soaecs.Subscribe(bus, func(soaecs.EntityCreated) { created++ })

		a := soaecs.NewEntityAllocator(cfg.MinFreedBuildup, soaecs.WithLogger(logger), soaecs.WithEventBus(bus))
		ents := make([]soaecs.Entity, 0, cfg.Entities)
		for range cfg.Iterations {
			ents = ents[:0]
			for range cfg.Entities {
				ents = append(ents, a.Create())
			}
			for _, e := range ents {
				a.Destroy(e)
			}
		}
		parked += a.Parked()
		logger.Debug().
			Int("round", round).
			Int("slots", a.Cap()).
			Int("free", a.FreeLen()).
			Msg("round finished")
	}
	return created, parked
}
