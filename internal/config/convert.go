package config

import (
	"fmt"

	"github.com/mrsinham/digitforge/internal/compose"
	imaging "github.com/mrsinham/digitforge/internal/image"
	"github.com/mrsinham/digitforge/internal/sequence"
	"github.com/mrsinham/digitforge/internal/util"
)

// ToDatasetOptions converts c to generation options. Logger and progress
// hooks are left for the caller.
func (c *Config) ToDatasetOptions() (sequence.DatasetOptions, error) {
	minSpacing, maxSpacing, err := util.ParseRange(c.Spacing)
	if err != nil {
		return sequence.DatasetOptions{}, fmt.Errorf("spacing: %w", err)
	}

	var digits []int
	if c.Digits != "" {
		if digits, err = util.ParseDigits(c.Digits); err != nil {
			return sequence.DatasetOptions{}, err
		}
	}

	interp, err := imaging.ParseInterpolation(c.Interpolation)
	if err != nil {
		return sequence.DatasetOptions{}, err
	}
	relax, err := compose.ParseRelaxation(c.Relaxation)
	if err != nil {
		return sequence.DatasetOptions{}, err
	}

	return sequence.DatasetOptions{
		OutputDir:     c.OutputDir,
		Count:         c.Count,
		Digits:        digits,
		Length:        c.Length,
		MinSpacing:    minSpacing,
		MaxSpacing:    maxSpacing,
		Width:         c.Width,
		Seed:          c.Seed,
		Workers:       c.Workers,
		Format:        c.Format,
		Scale:         c.Scale,
		Interpolation: interp,
		Noise:         c.Noise,
		Compose: compose.Options{
			WalkSteps:   c.WalkSteps,
			MaxAttempts: c.MaxAttempts,
			Relaxation:  relax,
		},
	}, nil
}

// FromDatasetOptions converts options back to a Config, e.g. to save the
// job that produced a dataset. Source and DataDir are not part of the
// options and stay empty.
func FromDatasetOptions(o sequence.DatasetOptions) Config {
	c := Config{
		Length:        o.Length,
		Spacing:       util.FormatRange(o.MinSpacing, o.MaxSpacing),
		Width:         o.Width,
		Count:         o.Count,
		Seed:          o.Seed,
		Workers:       o.Workers,
		OutputDir:     o.OutputDir,
		Format:        o.Format,
		Scale:         o.Scale,
		Interpolation: o.Interpolation.String(),
		Noise:         o.Noise,
		Relaxation:    o.Compose.Relaxation.String(),
		WalkSteps:     o.Compose.WalkSteps,
		MaxAttempts:   o.Compose.MaxAttempts,
	}
	if len(o.Digits) > 0 {
		c.Digits = util.FormatDigits(o.Digits)
	}
	return c
}
