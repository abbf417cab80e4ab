package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrsinham/digitforge/internal/config"
	"github.com/mrsinham/digitforge/internal/export"
	imaging "github.com/mrsinham/digitforge/internal/image"
	"github.com/mrsinham/digitforge/internal/util"
	"github.com/mrsinham/digitforge/internal/verify"
)

func newVerifyCmd() *cobra.Command {
	var (
		source  string
		dataDir string
		spacing string
	)

	cmd := &cobra.Command{
		Use:   "verify DIR",
		Short: "Decode every image of a dataset and compare it with its manifest",
		Long: `verify reads DIR/manifest.csv, recovers the digits of each PNG, BMP or TIFF
image by matching tiles against the tile source, and reports images that do
not decode to their recorded digits. Images must be unscaled and noise free.`,
		Example: `  digitforge verify train --data-dir ./mnist
  digitforge verify out --source glyph --spacing 0-8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			dir := args[0]

			f, err := os.Open(filepath.Join(dir, export.ManifestFile))
			if err != nil {
				return fmt.Errorf("open manifest: %w", err)
			}
			entries, err := export.ReadManifest(f)
			_ = f.Close()
			if err != nil {
				return err
			}

			minGap, maxGap := gapRange(entries)
			if spacing != "" {
				if minGap, maxGap, err = util.ParseRange(spacing); err != nil {
					return err
				}
			}

			cfg := config.Config{Source: source, DataDir: dataDir}
			cfg.ApplyEnv()
			src, err := openSource(&cfg, logger)
			if err != nil {
				return err
			}

			var (
				failed  []string
				checked int
			)
			for _, e := range entries {
				if err := ctx.Err(); err != nil {
					return err
				}
				if strings.EqualFold(filepath.Ext(e.File), ".dcm") {
					logger.Warn("skipping DICOM image", "file", e.File)
					continue
				}
				checked++
				got, err := decodeEntry(filepath.Join(dir, e.File), e, minGap, maxGap, src)
				if err != nil {
					logger.Debug("decode failed", "file", e.File, "err", err)
					failed = append(failed, e.File)
					continue
				}
				if !slices.Equal(got.Digits, e.Digits) {
					logger.Debug("digit mismatch", "file", e.File, "want", util.FormatDigits(e.Digits), "got", util.FormatDigits(got.Digits))
					failed = append(failed, e.File)
				}
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "verified %d/%d images\n", checked-len(failed), checked)
			if len(failed) > 0 {
				_, _ = fmt.Fprintf(out, "failed: %s\n", strings.Join(failed, ", "))
				return fmt.Errorf("%d of %d images did not decode to their digits", len(failed), checked)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&source, "source", config.SourceMNIST, "tile source used to build the dataset: mnist or glyph")
	f.StringVar(&dataDir, "data-dir", "", "MNIST directory (default $"+config.EnvDataDir+")")
	f.StringVar(&spacing, "spacing", "", "spacing range MIN-MAX (default: the range of the manifest gaps)")
	return cmd
}

func decodeEntry(path string, e export.Entry, minGap, maxGap int, lookup verify.Lookup) (*verify.Decoded, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	img, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return verify.Decode(img, len(e.Digits), minGap, maxGap, lookup)
}

// gapRange returns the smallest and largest gap recorded in entries.
func gapRange(entries []export.Entry) (lo, hi int) {
	first := true
	for _, e := range entries {
		for _, g := range e.Gaps {
			if first {
				lo, hi, first = g, g, false
				continue
			}
			lo, hi = min(lo, g), max(hi, g)
		}
	}
	return lo, hi
}
