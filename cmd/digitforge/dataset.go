package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrsinham/digitforge/internal/sequence"
)

func newDatasetCmd() *cobra.Command {
	var (
		jf         jobFlags
		saveConfig string
	)

	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Generate a batch of digit sequence images with a manifest",
		Example: `  digitforge dataset --length 5 --spacing 0-8 --count 1000 -o train
  digitforge dataset --config job.yaml --workers 8
  digitforge dataset --source glyph -d 2026 -n 10 -f dcm -o dicom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := jf.resolve(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if saveConfig != "" {
				if err := cfg.Save(saveConfig); err != nil {
					return err
				}
				logger.Info("saved job", "path", saveConfig)
			}

			opts, err := cfg.ToDatasetOptions()
			if err != nil {
				return err
			}
			opts.Logger = logger

			src, err := openSource(cfg, logger)
			if err != nil {
				return err
			}

			p := newProgress(logger)
			images, err := sequence.GenerateDataset(ctx, src, opts)
			if err != nil {
				return err
			}
			p.done(fmt.Sprintf("Generated %d images", len(images)))

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderSummary(cfg, opts, len(images)))
			return nil
		},
	}

	jf.register(cmd)
	jf.registerDataset(cmd)
	cmd.Flags().StringVar(&saveConfig, "save-config", "", "write the resolved job to this YAML file")
	return cmd
}
