package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/DinnerBuffet/CubicChunks/internal/config"
	"github.com/DinnerBuffet/CubicChunks/internal/storage"
	"github.com/DinnerBuffet/CubicChunks/internal/world"
)

func main() {
	cfg := config.DefaultConfig()

	var (
		configPath = flag.String("config", "", "YAML config or preset file")
		envFile    = flag.String("env", ".env", "dotenv file with CUBIC_* overrides")
		cx         = flag.Int("x", 0, "pre-generation centre cube x")
		cz         = flag.Int("z", 0, "pre-generation centre cube z")
		importDir  = flag.String("import", "", "import region files from this directory before generating")
		exportDir  = flag.String("export", "", "export the stored world as region files to this directory")
	)
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "world seed")
	flag.StringVar(&cfg.GeneratorType, "generator", cfg.GeneratorType, "terrain generator (default, flat)")
	flag.StringVar(&cfg.LivePolicy, "live", cfg.LivePolicy, "stage of newly provided cubes (stamp, generate, deferred)")
	flag.BoolVar(&cfg.SkipShaping, "skip-shaping", cfg.SkipShaping, "leave new cubes empty")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "population workers")
	flag.IntVar(&cfg.PregenRadius, "radius", cfg.PregenRadius, "pre-generation radius in cubes")
	flag.IntVar(&cfg.PregenY, "y", cfg.PregenY, "pre-generation centre cube y")
	flag.StringVar(&cfg.TargetStage, "stage", cfg.TargetStage, "stage to populate cubes to")
	flag.StringVar(&cfg.WorldDir, "world", cfg.WorldDir, "world directory")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flag.Parse()

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	fromFile := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if fromFile, err = config.LoadFile(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if err := config.LoadEnv(fromFile, *envFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	config.Merge(cfg, fromFile, explicit)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := runOptions{cx: *cx, cz: *cz, importDir: *importDir, exportDir: *exportDir}
	if err := run(ctx, cfg, opts, log); err != nil {
		log.Error("run failed", "error", err)
		os.Exit(1)
	}
}

type runOptions struct {
	cx, cz    int
	importDir string
	exportDir string
}

func run(ctx context.Context, cfg *config.Config, opts runOptions, log *slog.Logger) error {
	pipeline, err := cfg.Pipeline()
	if err != nil {
		return err
	}
	live, err := cfg.Live()
	if err != nil {
		return err
	}
	target, err := cfg.Target()
	if err != nil {
		return err
	}

	store, err := storage.Open(ctx, cfg.WorldDir, log)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.EnsureMeta(&storage.Meta{Seed: cfg.Seed, Generator: cfg.GeneratorType}); err != nil {
		return err
	}

	if opts.importDir != "" {
		if _, err := store.ImportRegions(ctx, opts.importDir); err != nil {
			return fmt.Errorf("import regions: %w", err)
		}
	}

	provider := world.NewProvider(pipeline, world.Options{
		Live:        live,
		Source:      store,
		SkipShaping: cfg.SkipShaping,
		Logger:      log,
	})

	log.Info("pre-generating",
		"generator", cfg.GeneratorType,
		"seed", cfg.Seed,
		"live", live,
		"centre", fmt.Sprintf("%d,%d,%d", opts.cx, cfg.PregenY, opts.cz),
		"radius", cfg.PregenRadius,
		"target", target,
	)

	start := time.Now()
	pop := world.NewPopulator(provider, cfg.Workers, log)
	advanced, popErr := pop.PopulateRegion(ctx, opts.cx, cfg.PregenY, opts.cz, cfg.PregenRadius, target)
	pop.Stop()

	// Save whatever was generated, even when interrupted.
	saveCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	saved, err := store.SaveProvider(saveCtx, provider)
	if err != nil {
		return fmt.Errorf("save world: %w", err)
	}

	total, err := store.CountCubes(saveCtx)
	if err != nil {
		return err
	}
	log.Info("done",
		"columns", provider.Len(),
		"advanced", advanced,
		"saved", saved,
		"stored", total,
		"elapsed", time.Since(start),
	)

	if opts.exportDir != "" && popErr == nil {
		if _, err := store.ExportRegions(saveCtx, opts.exportDir); err != nil {
			return fmt.Errorf("export regions: %w", err)
		}
	}

	if errors.Is(popErr, context.Canceled) {
		log.Info("interrupted")
		return nil
	}
	return popErr
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
