package main

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/mrsinham/digitforge/internal/config"
	"github.com/mrsinham/digitforge/internal/glyph"
	"github.com/mrsinham/digitforge/internal/mnist"
	"github.com/mrsinham/digitforge/internal/sequence"
	"github.com/mrsinham/digitforge/internal/verify"
)

// tileSource hands out tiles and maps them back to labels.
type tileSource interface {
	sequence.TileSource
	verify.Lookup
}

func openSource(cfg *config.Config, logger *log.Logger) (tileSource, error) {
	switch cfg.Source {
	case config.SourceGlyph:
		logger.Debug("using built-in glyph tiles")
		return glyph.New(glyph.Options{}), nil
	case config.SourceMNIST:
		p := newProgress(logger)
		ds, err := mnist.Load(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("load MNIST from %s: %w", cfg.DataDir, err)
		}
		p.done(fmt.Sprintf("Loaded %d MNIST tiles", ds.Len()))
		return ds, nil
	default:
		return nil, fmt.Errorf("invalid source: %s (valid: mnist, glyph)", cfg.Source)
	}
}
