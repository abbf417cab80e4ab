package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mrsinham/digitforge/internal/config"
	"github.com/mrsinham/digitforge/internal/export"
	"github.com/mrsinham/digitforge/internal/sequence"
)

var (
	summaryPanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(1, 2)

	summaryTitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("63")).
		Bold(true).
		MarginBottom(1)

	summaryLabelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("244"))

	summaryValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Bold(true)
)

// renderSummary describes a finished dataset run.
func renderSummary(cfg *config.Config, opts sequence.DatasetOptions, count int) string {
	var sb strings.Builder

	sb.WriteString(summaryTitleStyle.Render("Dataset Summary"))
	sb.WriteString("\n")

	digits := cfg.Digits
	if digits == "" {
		digits = fmt.Sprintf("random, %d digits", cfg.Length)
	}
	width := "auto"
	if cfg.Width > 0 {
		width = fmt.Sprintf("%d px", cfg.Width)
	}

	params := []struct {
		label string
		value string
	}{
		{"Images", fmt.Sprintf("%d", count)},
		{"Digits", digits},
		{"Spacing", cfg.Spacing + " px"},
		{"Width", width},
		{"Source", cfg.Source},
		{"Format", cfg.Format},
		{"Seed", fmt.Sprintf("%d", opts.EffectiveSeed())},
		{"Output Directory", cfg.OutputDir},
		{"Manifest", export.ManifestFile},
	}

	for _, p := range params {
		sb.WriteString(summaryLabelStyle.Render(p.label + ": "))
		sb.WriteString(summaryValueStyle.Render(p.value))
		sb.WriteString("\n")
	}

	return summaryPanelStyle.Render(strings.TrimSuffix(sb.String(), "\n"))
}
