// SPDX-License-Identifier: MIT

package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/katalvlaran/lowrank/linalg"
	"github.com/katalvlaran/lowrank/rsvd"
)

// ParseConfig parses the raw JSON configuration on top of Default.
func ParseConfig(raw []byte) (config Config, err error) {
	config = Default()
	err = json.Unmarshal(raw, &config)
	if err != nil {
		return config, fmt.Errorf("unmarshal config: %v", err)
	}
	return config, config.Validate()
}

// Load reads and parses a JSON configuration file.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(raw)
}

type Config struct {
	LogLevel LogLevel  `json:"log_level"`
	Matrix   Matrix    `json:"matrix"`
	Sweep    Sweep     `json:"sweep"`
	Decomp   Decompose `json:"decompose"`
	Output   string    `json:"output"`
}

// Matrix describes the synthetic input: a rows×cols matrix whose singular
// values decay geometrically from 1 down to Decay.
type Matrix struct {
	Rows  int     `json:"rows"`
	Cols  int     `json:"cols"`
	Decay float64 `json:"decay"`
	Seed  uint64  `json:"seed"`
}

type Sweep struct {
	Ratios      []float64 `json:"ratios"`
	Concurrency int       `json:"concurrency"`
}

type Decompose struct {
	Oversamples     int     `json:"oversamples"`
	PowerIterations int     `json:"power_iterations"`
	Normalizer      string  `json:"normalizer"`
	Seed            *uint64 `json:"seed"`
	Backend         string  `json:"backend"`
}

// Default mirrors the library defaults and the usual ratio sweep.
func Default() Config {
	return Config{
		LogLevel: LogLevelInfo,
		Matrix:   Matrix{Rows: 512, Cols: 256, Decay: 1e-3, Seed: 1},
		Sweep:    Sweep{Ratios: []float64{0.1, 0.2, 0.3, 0.4, 0.5}, Concurrency: 2},
		Decomp: Decompose{
			Oversamples:     rsvd.DefaultOversamples,
			PowerIterations: rsvd.DefaultPowerIterations,
			Normalizer:      rsvd.DefaultNormalizer.String(),
			Backend:         linalg.NameGonum,
		},
	}
}

func (c Config) Validate() error {
	if c.Matrix.Rows < 1 || c.Matrix.Cols < 1 {
		return fmt.Errorf("config: matrix must be at least 1x1, got %dx%d", c.Matrix.Rows, c.Matrix.Cols)
	}
	if !(c.Matrix.Decay > 0 && c.Matrix.Decay <= 1) {
		return fmt.Errorf("config: matrix decay must be in (0, 1], got %v", c.Matrix.Decay)
	}
	if len(c.Sweep.Ratios) == 0 {
		return fmt.Errorf("config: sweep needs at least one ratio")
	}
	for _, r := range c.Sweep.Ratios {
		if _, err := rsvd.SelectRank(c.Matrix.Rows, c.Matrix.Cols, r); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if c.Sweep.Concurrency < 1 {
		return fmt.Errorf("config: sweep concurrency must be >= 1, got %d", c.Sweep.Concurrency)
	}
	if _, err := rsvd.ParseNormalizer(c.Decomp.Normalizer); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, ok := linalg.ByName(c.Decomp.Backend); !ok {
		return fmt.Errorf("config: unknown backend %q", c.Decomp.Backend)
	}
	return nil
}

// Options translates the decompose section into rsvd options.
func (c Decompose) Options() ([]rsvd.Option, error) {
	n, err := rsvd.ParseNormalizer(c.Normalizer)
	if err != nil {
		return nil, err
	}
	be, ok := linalg.ByName(c.Backend)
	if !ok {
		return nil, fmt.Errorf("unknown backend %q", c.Backend)
	}
	opts := []rsvd.Option{
		rsvd.WithOversamples(c.Oversamples),
		rsvd.WithPowerIterations(c.PowerIterations),
		rsvd.WithNormalizer(n),
		rsvd.WithBackend(be),
	}
	if c.Seed != nil {
		opts = append(opts, rsvd.WithSeed(*c.Seed))
	}
	return opts, nil
}
