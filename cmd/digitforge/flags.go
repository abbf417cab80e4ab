package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrsinham/digitforge/internal/compose"
	"github.com/mrsinham/digitforge/internal/config"
)

// jobFlags binds the job parameters shared by generate and dataset.
// Explicit flags override the config file, which overrides the
// environment and the defaults.
type jobFlags struct {
	configPath string
	values     config.Config
}

func (j *jobFlags) register(cmd *cobra.Command) {
	d := config.Default()
	f := cmd.Flags()
	f.StringVarP(&j.configPath, "config", "c", "", "job file (.yaml, .yml or .toml)")
	f.StringVar(&j.values.Source, "source", d.Source, "tile source: mnist or glyph")
	f.StringVar(&j.values.DataDir, "data-dir", "", "MNIST directory (default $"+config.EnvDataDir+")")
	f.StringVarP(&j.values.Digits, "digits", "d", "", "digit sequence, e.g. 3141")
	f.StringVar(&j.values.Spacing, "spacing", d.Spacing, "spacing between digits as MIN-MAX pixels")
	f.IntVarP(&j.values.Width, "width", "w", 0, "image width in pixels (0 = middle of the feasible range)")
	f.Int64Var(&j.values.Seed, "seed", 0, "seed for reproducibility (0 = derived from the output path)")
	f.Float64Var(&j.values.Scale, "scale", d.Scale, "scale factor applied to the finished image")
	f.StringVar(&j.values.Interpolation, "interpolation", "nearest", "scaling kernel: nearest, bilinear, catmullrom")
	f.Float64Var(&j.values.Noise, "noise", 0, "background noise amount (0-1)")
	f.StringVar(&j.values.Relaxation, "relaxation", "cells", "spacing sampler relaxation: cells or endpoints")
	f.IntVar(&j.values.WalkSteps, "walk-steps", compose.DefaultWalkSteps, "hit-and-run steps per spacing draw")
	f.IntVar(&j.values.MaxAttempts, "max-attempts", 0, "spacing draws before giving up (0 = unlimited)")
}

// registerDataset adds the batch flags.
func (j *jobFlags) registerDataset(cmd *cobra.Command) {
	d := config.Default()
	f := cmd.Flags()
	f.IntVarP(&j.values.Count, "count", "n", d.Count, "number of images")
	f.IntVarP(&j.values.Length, "length", "l", 0, "random sequence length when --digits is not set")
	f.IntVar(&j.values.Workers, "workers", 0, "parallel workers (0 = CPU cores)")
	f.StringVarP(&j.values.Format, "format", "f", d.Format, "image format: png, bmp, tiff or dcm")
	f.StringVarP(&j.values.OutputDir, "output", "o", d.OutputDir, "output directory")
}

// resolve merges defaults, the config file, the environment and the flags
// the user set.
func (j *jobFlags) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if j.configPath != "" {
		loaded, err := config.Load(j.configPath)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	v := j.values
	overrides := []struct {
		flag  string
		apply func()
	}{
		{"source", func() { cfg.Source = v.Source }},
		{"data-dir", func() { cfg.DataDir = v.DataDir }},
		{"digits", func() { cfg.Digits = v.Digits }},
		{"spacing", func() { cfg.Spacing = v.Spacing }},
		{"width", func() { cfg.Width = v.Width }},
		{"seed", func() { cfg.Seed = v.Seed }},
		{"scale", func() { cfg.Scale = v.Scale }},
		{"interpolation", func() { cfg.Interpolation = v.Interpolation }},
		{"noise", func() { cfg.Noise = v.Noise }},
		{"relaxation", func() { cfg.Relaxation = v.Relaxation }},
		{"walk-steps", func() { cfg.WalkSteps = v.WalkSteps }},
		{"max-attempts", func() { cfg.MaxAttempts = v.MaxAttempts }},
		{"count", func() { cfg.Count = v.Count }},
		{"length", func() { cfg.Length = v.Length }},
		{"workers", func() { cfg.Workers = v.Workers }},
		{"format", func() { cfg.Format = v.Format }},
		{"output", func() { cfg.OutputDir = v.OutputDir }},
	}
	for _, o := range overrides {
		if cmd.Flags().Changed(o.flag) {
			o.apply()
		}
	}

	cfg.ApplyEnv()
	if cfg.Source == config.SourceMNIST && cfg.DataDir == "" {
		return nil, fmt.Errorf("no MNIST directory: use --data-dir, set %s, or --source glyph", config.EnvDataDir)
	}
	return &cfg, nil
}
