package sequence

import (
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/mrsinham/digitforge/internal/compose"
	"github.com/mrsinham/digitforge/internal/export"
	imaging "github.com/mrsinham/digitforge/internal/image"
	"github.com/mrsinham/digitforge/internal/util"
)

// FormatDICOM selects DICOM output in DatasetOptions.Format.
const FormatDICOM = "dcm"

// DatasetOptions describes a batch of sequence images.
type DatasetOptions struct {
	OutputDir string
	Count     int

	// Digits fixes the sequence of every image. When empty, each image
	// gets Length random digits.
	Digits []int
	Length int

	MinSpacing int
	MaxSpacing int
	Width      int // 0 = middle of the feasible range

	Seed    int64 // 0 = derived from OutputDir
	Workers int   // 0 = one per CPU

	Format        string // png, bmp, tiff or dcm
	Scale         float64
	Interpolation imaging.Interpolation
	Noise         float64

	Compose compose.Options

	Logger           *log.Logger               // nil = silent
	ProgressCallback func(current, total int) // optional
}

// GeneratedImage records one written image.
type GeneratedImage struct {
	Path   string
	Digits []int
	Width  int
	Gaps   []int
}

type imageTask struct {
	index int
	seed  uint64
	path  string
}

// EffectiveSeed returns opts.Seed, or a seed hashed from OutputDir when
// Seed is zero, so that the same directory always gets the same images.
func (o DatasetOptions) EffectiveSeed() int64 {
	if o.Seed != 0 {
		return o.Seed
	}
	return util.SeedFromString(o.OutputDir)
}

// Validate checks the batch parameters and the per-image options.
func (o DatasetOptions) Validate() error {
	if o.OutputDir == "" {
		return fmt.Errorf("%w: no output directory", ErrInvalidOptions)
	}
	if o.Count <= 0 {
		return fmt.Errorf("%w: count must be > 0, got %d", ErrInvalidOptions, o.Count)
	}
	if len(o.Digits) == 0 && o.Length <= 0 {
		return fmt.Errorf("%w: either digits or a positive length is required", ErrInvalidOptions)
	}
	if o.Scale < 0 {
		return fmt.Errorf("%w: negative scale %g", ErrInvalidOptions, o.Scale)
	}
	if o.Noise < 0 || o.Noise > 1 {
		return fmt.Errorf("%w: noise %g outside 0-1", ErrInvalidOptions, o.Noise)
	}
	if _, err := o.ext(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return o.ImageOptions(nil).Validate()
}

func (o DatasetOptions) ext() (string, error) {
	if strings.EqualFold(o.Format, FormatDICOM) {
		return "." + FormatDICOM, nil
	}
	f, err := imaging.ParseFormat(o.Format)
	if err != nil {
		return "", err
	}
	return f.Ext(), nil
}

// ImageOptions returns the Options of one image. Nil digits stand for
// the random sequence of the configured length.
func (o DatasetOptions) ImageOptions(digits []int) Options {
	if digits == nil {
		digits = o.Digits
	}
	if len(digits) == 0 {
		digits = make([]int, o.Length)
	}
	return Options{
		Digits:     digits,
		MinSpacing: o.MinSpacing,
		MaxSpacing: o.MaxSpacing,
		Width:      o.Width,
		Compose:    o.Compose,
	}
}

// GenerateDataset writes opts.Count sequence images and a manifest into
// opts.OutputDir. Images are produced in parallel; each one uses its own
// random source derived from the seed and its index, so the output does
// not depend on the number of workers.
func GenerateDataset(ctx context.Context, src TileSource, opts DatasetOptions) ([]GeneratedImage, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Scale == 0 {
		opts.Scale = 1
	}
	ext, _ := opts.ext()

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	seed := opts.EffectiveSeed()
	if opts.Seed != 0 {
		logger.Info("using seed", "seed", seed)
	} else {
		logger.Info("auto-generated seed", "seed", seed, "dir", opts.OutputDir)
	}

	tasks := make([]imageTask, opts.Count)
	for i := range tasks {
		h := fnv.New64a()
		_, _ = fmt.Fprintf(h, "%d_image_%d", seed, i)
		tasks[i] = imageTask{
			index: i,
			seed:  h.Sum64(),
			path:  filepath.Join(opts.OutputDir, fmt.Sprintf("seq_%06d%s", i, ext)),
		}
	}

	numWorkers := opts.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(tasks) {
		numWorkers = len(tasks)
	}
	logger.Debug("generating images", "count", len(tasks), "workers", numWorkers)

	type result struct {
		index int
		image GeneratedImage
		err   error
	}
	taskChan := make(chan imageTask, len(tasks))
	resultChan := make(chan result, len(tasks))

	run := strconv.FormatInt(seed, 10)
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range taskChan {
				if err := ctx.Err(); err != nil {
					resultChan <- result{index: task.index, err: err}
					continue
				}
				img, err := generateImage(ctx, src, opts, task, run)
				resultChan <- result{index: task.index, image: img, err: err}
			}
		}()
	}

	for _, task := range tasks {
		taskChan <- task
	}
	close(taskChan)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	images := make([]GeneratedImage, len(tasks))
	completed := 0
	var firstErr error
	for r := range resultChan {
		if r.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("generate image %d: %w", r.index, r.err)
		}
		images[r.index] = r.image
		completed++
		if opts.ProgressCallback != nil {
			opts.ProgressCallback(completed, len(tasks))
		}
		if completed%max(1, len(tasks)/10) == 0 || completed == len(tasks) {
			logger.Info("progress", "done", completed, "total", len(tasks))
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	if err := writeManifest(opts.OutputDir, images); err != nil {
		return nil, err
	}
	logger.Info("dataset written", "images", len(images), "dir", opts.OutputDir)
	return images, nil
}

func generateImage(ctx context.Context, src TileSource, opts DatasetOptions, task imageTask, run string) (GeneratedImage, error) {
	rng := rand.New(rand.NewPCG(task.seed, task.seed))

	digits := opts.Digits
	if len(digits) == 0 {
		digits = util.RandomDigits(rng, opts.Length)
	}
	res, err := GenerateContext(ctx, src, opts.ImageOptions(digits), rng)
	if err != nil {
		return GeneratedImage{}, err
	}

	img, err := imaging.Scale(res.Image, opts.Scale, opts.Interpolation)
	if err != nil {
		return GeneratedImage{}, err
	}
	if opts.Noise > 0 {
		if err := imaging.AddNoise(img, opts.Noise, rng); err != nil {
			return GeneratedImage{}, err
		}
	}

	if strings.EqualFold(opts.Format, FormatDICOM) {
		meta := export.Metadata{Run: run, Instance: task.index + 1, Digits: digits, Gaps: res.Gaps}
		if err := export.WriteDICOM(task.path, img, meta); err != nil {
			return GeneratedImage{}, err
		}
	} else {
		format, _ := imaging.ParseFormat(opts.Format)
		if err := writeImage(task.path, img, format); err != nil {
			return GeneratedImage{}, err
		}
	}

	return GeneratedImage{
		Path:   task.path,
		Digits: digits,
		Width:  res.Image.Bounds().Dx(),
		Gaps:   res.Gaps,
	}, nil
}

func writeImage(path string, img *image.Gray, format imaging.Format) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := imaging.Encode(f, img, format); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func writeManifest(dir string, images []GeneratedImage) error {
	f, err := os.Create(filepath.Join(dir, export.ManifestFile))
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	mw := export.NewManifestWriter(f)
	for _, img := range images {
		entry := export.Entry{File: filepath.Base(img.Path), Digits: img.Digits, Width: img.Width, Gaps: img.Gaps}
		if err := mw.Write(entry); err != nil {
			_ = f.Close()
			return fmt.Errorf("write manifest: %w", err)
		}
	}
	if err := mw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("write manifest: %w", err)
	}
	return f.Close()
}
