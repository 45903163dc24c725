// Package cascade parses simulation flags and runs the transport
// driver: it fires identical probes at a nuclear target, records each
// event, tallies fates and persists the run summary.
package cascade

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"time"

	engine "github.com/hadronlab/cascade/internal/cascade"
	"github.com/hadronlab/cascade/internal/event"
	"github.com/hadronlab/cascade/internal/hadrodata"
	hadrosqlite "github.com/hadronlab/cascade/internal/hadrodata/sqlite"
	"github.com/hadronlab/cascade/internal/hep"
	"github.com/hadronlab/cascade/internal/nuclear"
	"github.com/hadronlab/cascade/internal/phasespace"
	entrypoint "github.com/hadronlab/cascade/internal/platform/cmd"
	"github.com/hadronlab/cascade/internal/random"
	"github.com/hadronlab/cascade/internal/storage"
	storebbolt "github.com/hadronlab/cascade/internal/storage/bbolt"
	storesqlite "github.com/hadronlab/cascade/internal/storage/sqlite"
	"github.com/hadronlab/cascade/internal/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Config holds cascade command configuration.
type Config struct {
	Events        int     `env:"CASCADE_EVENTS" envDefault:"1000"`
	Seed          int64   `env:"CASCADE_SEED" envDefault:"0"`
	Probe         string  `env:"CASCADE_PROBE" envDefault:"pi+"`
	ProbeKE       float64 `env:"CASCADE_PROBE_KE_MEV" envDefault:"165"`
	TargetA       int     `env:"CASCADE_TARGET_A" envDefault:"56"`
	TargetZ       int     `env:"CASCADE_TARGET_Z" envDefault:"26"`
	DoFermi       bool    `env:"CASCADE_FERMI" envDefault:"true"`
	FermiScale    float64 `env:"CASCADE_FERMI_SCALE" envDefault:"1.0"`
	RemovalEnergy float64 `env:"CASCADE_REMOVAL_ENERGY_GEV" envDefault:"0.007"`
	FractionsDB   string  `env:"CASCADE_FRACTIONS_DB"`
	RunsDB        string  `env:"CASCADE_RUNS_DB"`
	RunsDriver    string  `env:"CASCADE_RUNS_DRIVER" envDefault:"sqlite"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Events, "events", cfg.Events, "Number of probe events to simulate")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed (0 picks a fresh seed)")
	fs.StringVar(&cfg.Probe, "probe", cfg.Probe, "Probe species (pi+, pi-, pi0, p, n, K+, K-)")
	fs.Float64Var(&cfg.ProbeKE, "ke", cfg.ProbeKE, "Probe kinetic energy in MeV")
	fs.IntVar(&cfg.TargetA, "target-a", cfg.TargetA, "Target mass number")
	fs.IntVar(&cfg.TargetZ, "target-z", cfg.TargetZ, "Target charge")
	fs.BoolVar(&cfg.DoFermi, "fermi", cfg.DoFermi, "Enable Fermi motion of struck nucleons")
	fs.Float64Var(&cfg.FermiScale, "fermi-scale", cfg.FermiScale, "Scale factor on sampled Fermi momenta")
	fs.Float64Var(&cfg.RemovalEnergy, "removal-energy", cfg.RemovalEnergy, "Nucleon removal energy in GeV")
	fs.StringVar(&cfg.FractionsDB, "fractions-db", cfg.FractionsDB, "SQLite fraction table path (empty uses built-ins)")
	fs.StringVar(&cfg.RunsDB, "runs-db", cfg.RunsDB, "Run store path (empty disables persistence)")
	fs.StringVar(&cfg.RunsDriver, "runs-driver", cfg.RunsDriver, "Run store driver: sqlite or bolt")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for obvious mistakes.
func (cfg Config) Validate() error {
	if cfg.Events <= 0 {
		return fmt.Errorf("events must be positive, got %d", cfg.Events)
	}
	if cfg.ProbeKE <= 0 {
		return fmt.Errorf("probe kinetic energy must be positive, got %.1f", cfg.ProbeKE)
	}
	if cfg.TargetA < 1 || cfg.TargetZ < 0 || cfg.TargetZ > cfg.TargetA {
		return fmt.Errorf("unphysical target A=%d Z=%d", cfg.TargetA, cfg.TargetZ)
	}
	if _, ok := hep.ParseCode(cfg.Probe); !ok {
		return fmt.Errorf("unknown probe species %q", cfg.Probe)
	}
	switch cfg.RunsDriver {
	case "sqlite", "bolt":
	default:
		return fmt.Errorf("unknown runs driver %q", cfg.RunsDriver)
	}
	return nil
}

// Run executes the simulation under the shared telemetry entrypoint.
func Run(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceCascade, func(ctx context.Context) error {
		return simulate(ctx, cfg)
	})
}

// runStores bundles the optional persistence backends.
type runStores struct {
	runs  storage.RunStore
	tel   storage.TelemetryStore
	close func() error
}

func openStores(cfg Config) (runStores, error) {
	if cfg.RunsDB == "" {
		return runStores{close: func() error { return nil }}, nil
	}
	switch cfg.RunsDriver {
	case "bolt":
		store, err := storebbolt.Open(cfg.RunsDB)
		if err != nil {
			return runStores{}, fmt.Errorf("open bolt run store: %w", err)
		}
		return runStores{runs: store, tel: store, close: store.Close}, nil
	default:
		store, err := storesqlite.Open(cfg.RunsDB)
		if err != nil {
			return runStores{}, fmt.Errorf("open sqlite run store: %w", err)
		}
		return runStores{runs: store, tel: store, close: store.Close}, nil
	}
}

// loadFractions returns the fraction table, seeding the database with
// built-ins on first use.
func loadFractions(ctx context.Context, cfg Config) (*hadrodata.Table, error) {
	if cfg.FractionsDB == "" {
		return hadrodata.Defaults(), nil
	}
	store, err := hadrosqlite.Open(cfg.FractionsDB)
	if err != nil {
		return nil, fmt.Errorf("open fraction store: %w", err)
	}
	defer func() { _ = store.Close() }()

	empty, err := store.Empty(ctx)
	if err != nil {
		return nil, err
	}
	if empty {
		if err := store.SaveTable(ctx, hadrodata.Defaults()); err != nil {
			return nil, fmt.Errorf("seed fraction store: %w", err)
		}
	}
	return store.LoadTable(ctx)
}

func simulate(ctx context.Context, cfg Config) error {
	seed := cfg.Seed
	if seed == 0 {
		var err error
		if seed, err = random.NewSeed(); err != nil {
			return err
		}
	}
	rng := random.NewStream(seed)

	probeCode, _ := hep.ParseCode(cfg.Probe)
	fractions, err := loadFractions(ctx, cfg)
	if err != nil {
		return err
	}

	eng, err := engine.New(
		engine.Config{DoFermi: cfg.DoFermi, FermiScale: cfg.FermiScale, RemovalEnergy: cfg.RemovalEnergy},
		fractions,
		hadrodata.NewAngleModel(),
		nuclear.NewFermiGas(),
		phasespace.New(),
	)
	if err != nil {
		return err
	}

	stores, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = stores.close() }()
	emitter := telemetry.NewEmitter(stores.tel)

	tracer := otel.Tracer("cascade")
	ctx, span := tracer.Start(ctx, "simulate", trace.WithAttributes(
		attribute.String("probe", cfg.Probe),
		attribute.Float64("ke_mev", cfg.ProbeKE),
		attribute.Int("target_a", cfg.TargetA),
		attribute.Int("target_z", cfg.TargetZ),
		attribute.Int64("seed", seed),
	))
	defer span.End()

	log.Printf("simulating %d %s events at %.1f MeV on A=%d Z=%d (seed %d)",
		cfg.Events, cfg.Probe, cfg.ProbeKE, cfg.TargetA, cfg.TargetZ, seed)
	_ = emitter.Eventf(ctx, telemetry.SeverityInfo, telemetry.KindRunStarted,
		fmt.Sprintf("probe=%s ke=%.1f seed=%d", cfg.Probe, cfg.ProbeKE, seed))

	tally := make(map[string]int)
	degraded := 0
	finalParticles := 0
	events := 0
	for i := 0; i < cfg.Events; i++ {
		if err := ctx.Err(); err != nil {
			log.Printf("stopping after %d events: %v", events, err)
			break
		}

		rec := newProbeRecord(probeCode, cfg.ProbeKE)
		rem := engine.NewRemnant(cfg.TargetA, cfg.TargetZ)
		fate, err := eng.Step(rng, rec, 1, &rem)
		tally[fate.String()]++
		if err != nil {
			degraded++
			_ = emitter.Eventf(ctx, telemetry.SeverityWarn, degradeKind(err), err.Error())
		}
		finalParticles += len(rec.FinalState())
		events++
	}

	for fate, count := range tally {
		log.Printf("fate %-16s %6d (%.1f%%)", fate, count, 100*float64(count)/float64(events))
	}
	log.Printf("%d events, %d degraded, %d final-state particles", events, degraded, finalParticles)
	_ = emitter.Eventf(ctx, telemetry.SeverityInfo, telemetry.KindRunCompleted,
		fmt.Sprintf("events=%d degraded=%d", events, degraded))

	if stores.runs != nil {
		run := storage.RunSummary{
			ID:             fmt.Sprintf("run-%d-%d", seed, time.Now().UTC().UnixMilli()),
			Seed:           seed,
			Probe:          cfg.Probe,
			KEMeV:          cfg.ProbeKE,
			TargetA:        cfg.TargetA,
			TargetZ:        cfg.TargetZ,
			Events:         events,
			Fates:          tally,
			Degraded:       degraded,
			FinalParticles: finalParticles,
			CreatedAt:      time.Now().UTC(),
		}
		if err := stores.runs.SaveRun(ctx, run); err != nil {
			return fmt.Errorf("save run summary: %w", err)
		}
		log.Printf("saved run %s", run.ID)
	}
	return nil
}

// newProbeRecord seeds an event record with the primary particle and
// its in-flight copy entering the nucleus along z.
func newProbeRecord(code hep.Code, keMeV float64) *event.Record {
	m := code.Mass()
	e := m + keMeV/1000
	pz := math.Sqrt(math.Max(e*e-m*m, 0))
	p4 := hep.FourVec{E: e, P: hep.Vec3{Z: pz}}

	rec := event.NewRecord()
	rec.Append(event.Particle{Code: code, P4: p4, Status: event.StatusDecayed, Mother: -1, Rescatter: event.RescatterUnset})
	rec.Append(event.Particle{Code: code, P4: p4, Status: event.StatusInFlight, Mother: 0, Rescatter: event.RescatterUnset})
	return rec
}

func degradeKind(err error) string {
	switch {
	case errors.Is(err, engine.ErrSamplingDeadlock):
		return telemetry.KindSamplingDeadlock
	case errors.Is(err, engine.ErrKinematics):
		return telemetry.KindRetriesExhausted
	default:
		return telemetry.KindParticleDegraded
	}
}
