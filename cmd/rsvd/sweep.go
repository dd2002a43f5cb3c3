// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/lowrank/internal/codec"
	"github.com/katalvlaran/lowrank/internal/config"
	"github.com/katalvlaran/lowrank/internal/synth"
	"github.com/katalvlaran/lowrank/matrix"
	"github.com/katalvlaran/lowrank/rsvd"
)

// Result is one point of a ratio sweep.
type Result struct {
	Ratio      float64
	Rank       int
	Retained   float64 // fraction of dense parameters kept
	Spectral   float64 // ‖M − USVᵀ‖₂
	Optimal    float64 // σ_{k+1} of M, the best achievable spectral error
	Relative   float64 // Frobenius error relative to ‖M‖_F
	Elapsed    time.Duration
	OutputFile string
}

// buildMatrix returns the synthetic input and its exact singular values.
func buildMatrix(c config.Matrix) (*matrix.Dense, []float64, error) {
	sigma, err := synth.Geometric(min(c.Rows, c.Cols), 1, c.Decay)
	if err != nil {
		return nil, nil, err
	}
	m, err := synth.WithSpectrum(c.Rows, c.Cols, sigma, c.Seed)
	if err != nil {
		return nil, nil, err
	}
	return m, sigma, nil
}

// sweep decomposes m once per ratio with at most cfg.Sweep.Concurrency calls in flight.
func sweep(ctx context.Context, log *zap.Logger, cfg config.Config, m *matrix.Dense, sigma []float64, showProgress bool) ([]Result, error) {
	opts, err := cfg.Decomp.Options()
	if err != nil {
		return nil, err
	}
	opts = append(opts, rsvd.WithLogger(log.Named("rsvd")))

	if cfg.Output != "" {
		if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = progressbar.Default(int64(len(cfg.Sweep.Ratios)), "Decomposing")
		defer bar.Finish()
	}

	results := make([]Result, len(cfg.Sweep.Ratios))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Sweep.Concurrency)
	for i, ratio := range cfg.Sweep.Ratios {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := decomposeOne(cfg, m, sigma, ratio, opts)
			if err != nil {
				return fmt.Errorf("ratio %v: %w", ratio, err)
			}
			results[i] = res
			log.Debug("ratio done", zap.Float64("ratio", ratio), zap.Int("rank", res.Rank), zap.Duration("elapsed", res.Elapsed))
			if bar != nil {
				bar.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func decomposeOne(cfg config.Config, m *matrix.Dense, sigma []float64, ratio float64, opts []rsvd.Option) (Result, error) {
	start := time.Now()
	f, err := rsvd.DecomposeAdaptive(m, ratio, opts...)
	if err != nil {
		return Result{}, err
	}
	elapsed := time.Since(start)

	rows, cols := m.Shape()
	retained, err := rsvd.ParametersRetained(rows, cols, f.Rank())
	if err != nil {
		return Result{}, err
	}
	spectral, err := f.SpectralError(m)
	if err != nil {
		return Result{}, err
	}
	relative, err := f.RelativeError(m)
	if err != nil {
		return Result{}, err
	}
	res := Result{
		Ratio:    ratio,
		Rank:     f.Rank(),
		Retained: retained,
		Spectral: spectral,
		Relative: relative,
		Elapsed:  elapsed,
	}
	if f.Rank() < len(sigma) {
		res.Optimal = sigma[f.Rank()]
	}
	if cfg.Output != "" {
		res.OutputFile = filepath.Join(cfg.Output, fmt.Sprintf("factors_r%.2f.lrf", ratio))
		if err := codec.WriteFile(res.OutputFile, f); err != nil {
			return Result{}, fmt.Errorf("write factors: %w", err)
		}
	}
	return res, nil
}
