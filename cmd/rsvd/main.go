// SPDX-License-Identifier: MIT

// Command rsvd sweeps compression ratios over a synthetic matrix with a known
// spectrum and reports, per ratio, the selected rank, the fraction of
// parameters retained, the reconstruction error and the elapsed time.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/katalvlaran/lowrank/internal/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "rsvd:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}
	log, err := cfg.LogLevel.Logger()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m, sigma, err := buildMatrix(cfg.Matrix)
	if err != nil {
		return err
	}
	log.Info("input ready",
		zap.Int("rows", cfg.Matrix.Rows), zap.Int("cols", cfg.Matrix.Cols),
		zap.Float64("decay", cfg.Matrix.Decay), zap.Uint64("seed", cfg.Matrix.Seed))

	results, err := sweep(ctx, log, cfg, m, sigma, true)
	if err != nil {
		return err
	}
	for _, r := range results {
		log.Info("decomposed",
			zap.Float64("ratio", r.Ratio),
			zap.Int("rank", r.Rank),
			zap.Float64("parameters_retained", r.Retained),
			zap.Float64("spectral_error", r.Spectral),
			zap.Float64("optimal_error", r.Optimal),
			zap.Float64("relative_error", r.Relative),
			zap.Duration("elapsed", r.Elapsed),
			zap.String("file", r.OutputFile))
	}
	return nil
}

// parseFlags loads the optional config file and applies explicitly set flags on top.
func parseFlags(args []string) (config.Config, error) {
	fs := flag.NewFlagSet("rsvd", flag.ContinueOnError)
	var (
		path        = fs.String("config", "", "JSON config file")
		rows        = fs.Int("rows", 0, "matrix rows")
		cols        = fs.Int("cols", 0, "matrix columns")
		decay       = fs.Float64("decay", 0, "smallest singular value (largest is 1)")
		matrixSeed  = fs.Uint64("matrix-seed", 0, "seed of the synthetic matrix")
		ratios      = fs.String("ratios", "", "comma-separated compression ratios in (0, 1]")
		concurrency = fs.Int("concurrency", 0, "ratios decomposed in parallel")
		oversamples = fs.Int("oversamples", 0, "extra sketch columns")
		powerIters  = fs.Int("power-iterations", 0, "power-iteration rounds")
		normalizer  = fs.String("normalizer", "", "power-iteration normalizer: qr, lu or none")
		backend     = fs.String("backend", "", "linear-algebra backend: gonum or native")
		seed        = fs.Uint64("seed", 0, "sketch seed (unseeded when not set)")
		output      = fs.String("out", "", "directory for zstd-compressed factors")
		logLevel    = fs.String("log-level", "", "debug, info, warn or error")
	)
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg := config.Default()
	if *path != "" {
		var err error
		if cfg, err = config.Load(*path); err != nil {
			return cfg, err
		}
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rows":
			cfg.Matrix.Rows = *rows
		case "cols":
			cfg.Matrix.Cols = *cols
		case "decay":
			cfg.Matrix.Decay = *decay
		case "matrix-seed":
			cfg.Matrix.Seed = *matrixSeed
		case "ratios":
			cfg.Sweep.Ratios, err = parseRatios(*ratios)
		case "concurrency":
			cfg.Sweep.Concurrency = *concurrency
		case "oversamples":
			cfg.Decomp.Oversamples = *oversamples
		case "power-iterations":
			cfg.Decomp.PowerIterations = *powerIters
		case "normalizer":
			cfg.Decomp.Normalizer = *normalizer
		case "backend":
			cfg.Decomp.Backend = *backend
		case "seed":
			cfg.Decomp.Seed = seed
		case "out":
			cfg.Output = *output
		case "log-level":
			cfg.LogLevel = config.LogLevel(*logLevel)
		}
	})
	if err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func parseRatios(s string) ([]float64, error) {
	var out []float64
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		r, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("ratio %q: %w", field, err)
		}
		out = append(out, r)
	}
	return out, nil
}
