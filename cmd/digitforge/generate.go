package main

import (
	"fmt"
	"image"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrsinham/digitforge/internal/export"
	imaging "github.com/mrsinham/digitforge/internal/image"
	"github.com/mrsinham/digitforge/internal/sequence"
	"github.com/mrsinham/digitforge/internal/util"
)

func newGenerateCmd() *cobra.Command {
	var (
		jf     jobFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one digit sequence image",
		Example: `  digitforge generate --digits 3141 --spacing 2-6 --width 130 -o pi.png
  digitforge generate --source glyph -d 42 --spacing 0-10 -o answer.tiff`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := jf.resolve(cmd)
			if err != nil {
				return err
			}
			if cfg.Digits == "" {
				return fmt.Errorf("--digits is required")
			}
			opts, err := cfg.ToDatasetOptions()
			if err != nil {
				return err
			}
			seqOpts := opts.ImageOptions(opts.Digits)
			if err := seqOpts.Validate(); err != nil {
				return err
			}
			if opts.Scale == 0 {
				opts.Scale = 1
			}

			src, err := openSource(cfg, logger)
			if err != nil {
				return err
			}

			seed := cfg.Seed
			if seed == 0 {
				seed = util.SeedFromString(output)
			}
			logger.Debug("generating", "digits", cfg.Digits, "seed", seed)
			rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))

			res, err := sequence.GenerateContext(ctx, src, seqOpts, rng)
			if err != nil {
				return err
			}
			img, err := imaging.Scale(res.Image, opts.Scale, opts.Interpolation)
			if err != nil {
				return err
			}
			if err := imaging.AddNoise(img, opts.Noise, rng); err != nil {
				return err
			}

			meta := export.Metadata{Run: fmt.Sprintf("%d", seed), Instance: 1, Digits: seqOpts.Digits, Gaps: res.Gaps}
			if err := writeOutput(output, img, meta); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: digits %s, width %d, gaps %s\n",
				output, cfg.Digits, res.Image.Bounds().Dx(), joinInts(res.Gaps))
			return nil
		},
	}

	jf.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "sequence.png", "output file; the extension selects the format (.png, .bmp, .tiff, .dcm)")
	return cmd
}

// writeOutput writes img to path in the format named by its extension.
func writeOutput(path string, img *image.Gray, meta export.Metadata) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == sequence.FormatDICOM {
		return export.WriteDICOM(path, img, meta)
	}
	format, err := imaging.ParseFormat(ext)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := imaging.Encode(f, img, format); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
