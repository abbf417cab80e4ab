package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mrsinham/digitforge/internal/util"
)

// ManifestFile is the manifest name inside a dataset directory.
const ManifestFile = "manifest.csv"

var manifestHeader = []string{"file", "digits", "width", "gaps"}

// Entry is one manifest row. File is relative to the manifest.
type Entry struct {
	File   string
	Digits []int
	Width  int
	Gaps   []int
}

// ManifestWriter writes manifest rows. It is not safe for concurrent use.
type ManifestWriter struct {
	w      *csv.Writer
	header bool
}

// NewManifestWriter returns a writer emitting rows to w.
func NewManifestWriter(w io.Writer) *ManifestWriter {
	return &ManifestWriter{w: csv.NewWriter(w)}
}

// Write appends e, preceded by the header on the first call.
func (m *ManifestWriter) Write(e Entry) error {
	if !m.header {
		if err := m.w.Write(manifestHeader); err != nil {
			return err
		}
		m.header = true
	}
	gaps := make([]string, len(e.Gaps))
	for i, g := range e.Gaps {
		gaps[i] = strconv.Itoa(g)
	}
	return m.w.Write([]string{e.File, util.FormatDigits(e.Digits), strconv.Itoa(e.Width), strings.Join(gaps, " ")})
}

// Flush writes buffered rows and reports any write error.
func (m *ManifestWriter) Flush() error {
	m.w.Flush()
	return m.w.Error()
}

// ReadManifest parses a manifest written by ManifestWriter.
func ReadManifest(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(manifestHeader)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if strings.Join(records[0], ",") != strings.Join(manifestHeader, ",") {
		return nil, fmt.Errorf("read manifest: unexpected header %v", records[0])
	}

	entries := make([]Entry, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		digits, err := util.ParseDigits(rec[1])
		if err != nil {
			return nil, fmt.Errorf("manifest line %d: %w", line, err)
		}
		width, err := strconv.Atoi(rec[2])
		if err != nil {
			return nil, fmt.Errorf("manifest line %d: invalid width: %w", line, err)
		}
		var gaps []int
		for _, f := range strings.Fields(rec[3]) {
			g, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("manifest line %d: invalid gap: %w", line, err)
			}
			gaps = append(gaps, g)
		}
		entries = append(entries, Entry{File: rec[0], Digits: digits, Width: width, Gaps: gaps})
	}
	return entries, nil
}
