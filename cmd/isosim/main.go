package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/isorts/sim/internal/config"
	"github.com/isorts/sim/internal/data"
	"github.com/isorts/sim/internal/engine"
	"github.com/isorts/sim/internal/frontend"
	"github.com/isorts/sim/internal/gamemap"
	"github.com/isorts/sim/internal/scripting"
	"github.com/isorts/sim/internal/termview"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const terminalLogFile = "isosim.log"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := "config/server.toml"
	if p := os.Getenv("ISOSIM_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	terminal := cfg.View.Mode == "terminal"

	log, err := newLogger(cfg.Logging, terminal)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	m := gamemap.New(cfg.Simulation.MapSize, rand.New(rand.NewSource(seed)))
	log.Info("map generated", zap.Int("size", m.Size()), zap.Int64("seed", seed))

	catalogs, err := data.LoadCatalogs(cfg.Data.Bodies, cfg.Data.Buildings, cfg.Data.Animations)
	if err != nil {
		return fmt.Errorf("load catalogs: %w", err)
	}
	log.Info("catalogs loaded",
		zap.Int("bodies", catalogs.Bodies.Count()),
		zap.Int("buildings", catalogs.Buildings.Count()),
		zap.Int("animation_sets", catalogs.Animations.Count()),
	)

	eng := engine.New(m, engine.Options{
		Catalogs:        catalogs,
		PathIterations:  cfg.Simulation.PathIterations,
		WaypointEpsilon: cfg.Simulation.WaypointEpsilon,
		GameSpeed:       cfg.Simulation.GameSpeed,
		CommandBuffer:   cfg.Simulation.CommandBuffer,
		Log:             log,
	})

	scripts, err := scripting.NewEngine(cfg.Scripting.Dir, eng, log.Named("lua"))
	if err != nil {
		return fmt.Errorf("init scripting: %w", err)
	}
	defer scripts.Close()
	scripts.Subscribe(eng.Bus())
	if cfg.Scripting.Scenario != "" {
		if err := scripts.LoadScenario(cfg.Scripting.Scenario); err != nil {
			return fmt.Errorf("scenario: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var serveErr chan error
	if cfg.Frontend.Enabled {
		serveErr = make(chan error, 1)
		srv := frontend.NewServer(cfg.Frontend, eng, log.Named("frontend"))
		ln, err := srv.Listen()
		if err != nil {
			return err
		}
		if err := eng.AddSystem(frontend.NewSnapshotSystem(eng.World(), srv.Hub(), cfg.Frontend.SnapshotEvery)); err != nil {
			return err
		}
		go func() { serveErr <- srv.Serve(ctx, ln) }()
	}

	if terminal {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("open terminal: %w", err)
		}
		defer screen.Fini()
		view := termview.New(eng.World(), screen, eng, stop, log.Named("view"))
		view.Start()
		if err := eng.AddSystem(view); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()
	log.Info("simulation running", zap.Duration("tick", cfg.Simulation.TickRate))

	for {
		select {
		case <-ticker.C:
			eng.Tick()
		case err := <-serveErr:
			return err
		case <-ctx.Done():
			log.Info("shutting down", zap.Uint64("tick", eng.World().Time.Tick))
			if serveErr != nil {
				return <-serveErr
			}
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig, terminal bool) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		if !terminal {
			zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	// The terminal view owns the screen.
	if terminal {
		zapCfg.OutputPaths = []string{terminalLogFile}
	}

	return zapCfg.Build()
}
