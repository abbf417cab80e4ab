package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"github.com/mrsinham/digitforge/internal/config"
	"github.com/mrsinham/digitforge/internal/export"
	imaging "github.com/mrsinham/digitforge/internal/image"
)

// binaryPath holds the path to the compiled binary (set once in TestMain)
var binaryPath string

// testContext holds state for a single scenario
type testContext struct {
	tmpDir   string
	exitCode int
	output   string
}

// buildBinary compiles the digitforge binary once
func buildBinary() (string, error) {
	tmpFile, err := os.CreateTemp("", "digitforge-test-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	_ = tmpFile.Close()

	cmd := exec.Command("go", "build", "-o", tmpFile.Name(), ".")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("build failed: %w\n%s", err, stderr.String())
	}
	return tmpFile.Name(), nil
}

// TestMain compiles the binary once before running all tests
func TestMain(m *testing.M) {
	var err error
	binaryPath, err = buildBinary()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build binary: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	_ = os.Remove(binaryPath)
	os.Exit(code)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	tc := &testContext{}

	sc.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tmpDir, err := os.MkdirTemp("", "digitforge-e2e-*")
		if err != nil {
			return ctx, err
		}
		tc.tmpDir = tmpDir
		return ctx, nil
	})

	sc.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if tc.tmpDir != "" {
			_ = os.RemoveAll(tc.tmpDir)
		}
		return ctx, nil
	})

	sc.Step(`^digitforge is built$`, tc.digitforgeIsBuilt)
	sc.Step(`^a config file "([^"]*)" with:$`, tc.aConfigFileWith)
	sc.Step(`^I run digitforge with "([^"]*)"$`, tc.iRunDigitforgeWith)
	sc.Step(`^the exit code should be (\d+)$`, tc.theExitCodeShouldBe)
	sc.Step(`^the output should contain "([^"]*)"$`, tc.theOutputShouldContain)
	sc.Step(`^the output should list (\d+) compositions of (\d+) into (\d+) parts within (\d+)-(\d+)$`, tc.theOutputShouldListCompositions)
	sc.Step(`^"([^"]*)" should contain (\d+) "([^"]*)" images$`, tc.shouldContainImages)
	sc.Step(`^the manifest in "([^"]*)" should list (\d+) images$`, tc.theManifestShouldList)
	sc.Step(`^"([^"]*)" should be a (\d+) pixel wide image$`, tc.shouldBeWide)
	sc.Step(`^"([^"]*)" should exist$`, tc.shouldExist)
}

func (tc *testContext) path(p string) string {
	return strings.ReplaceAll(p, "{tmpdir}", tc.tmpDir)
}

func (tc *testContext) digitforgeIsBuilt() error {
	if binaryPath == "" {
		return fmt.Errorf("binary not built")
	}
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		return fmt.Errorf("binary does not exist at %s", binaryPath)
	}
	return nil
}

func (tc *testContext) aConfigFileWith(path string, content *godog.DocString) error {
	return os.WriteFile(tc.path(path), []byte(content.Content), 0644)
}

func (tc *testContext) iRunDigitforgeWith(args string) error {
	cmd := exec.Command(binaryPath, splitArgs(tc.path(args))...)
	cmd.Dir = tc.tmpDir
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, config.EnvDataDir+"=") {
			cmd.Env = append(cmd.Env, kv)
		}
	}
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	tc.output = output.String()

	if exitErr, ok := err.(*exec.ExitError); ok {
		tc.exitCode = exitErr.ExitCode()
	} else if err != nil {
		return fmt.Errorf("failed to run command: %w", err)
	} else {
		tc.exitCode = 0
	}
	return nil
}

func (tc *testContext) theExitCodeShouldBe(expected int) error {
	if tc.exitCode != expected {
		return fmt.Errorf("expected exit code %d, got %d\nOutput:\n%s", expected, tc.exitCode, tc.output)
	}
	return nil
}

func (tc *testContext) theOutputShouldContain(expected string) error {
	if !strings.Contains(tc.output, expected) {
		return fmt.Errorf("output does not contain %q\nOutput:\n%s", expected, tc.output)
	}
	return nil
}

func (tc *testContext) theOutputShouldListCompositions(count, n, k, a, b int) error {
	found := 0
	for _, line := range strings.Split(tc.output, "\n") {
		fields := strings.Fields(line)
		if len(fields) != k {
			continue
		}
		sum := 0
		for _, f := range fields {
			v, err := strconv.Atoi(f)
			if err != nil {
				return fmt.Errorf("unexpected output line %q", line)
			}
			if v < a || v > b {
				return fmt.Errorf("part %d outside %d-%d in %q", v, a, b, line)
			}
			sum += v
		}
		if sum != n {
			return fmt.Errorf("%q sums to %d, want %d", line, sum, n)
		}
		found++
	}
	if found != count {
		return fmt.Errorf("found %d compositions, want %d\nOutput:\n%s", found, count, tc.output)
	}
	return nil
}

func (tc *testContext) shouldContainImages(dir string, count int, ext string) error {
	files, err := filepath.Glob(filepath.Join(tc.path(dir), "*."+ext))
	if err != nil {
		return err
	}
	if len(files) != count {
		return fmt.Errorf("expected %d .%s files, found %d", count, ext, len(files))
	}
	return nil
}

func (tc *testContext) theManifestShouldList(dir string, count int) error {
	f, err := os.Open(filepath.Join(tc.path(dir), export.ManifestFile))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	entries, err := export.ReadManifest(f)
	if err != nil {
		return err
	}
	if len(entries) != count {
		return fmt.Errorf("manifest lists %d images, want %d", len(entries), count)
	}
	return nil
}

func (tc *testContext) shouldBeWide(path string, width int) error {
	f, err := os.Open(tc.path(path))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	img, err := imaging.Decode(f)
	if err != nil {
		return err
	}
	if got := img.Bounds().Dx(); got != width {
		return fmt.Errorf("image is %d pixels wide, want %d", got, width)
	}
	return nil
}

func (tc *testContext) shouldExist(path string) error {
	if _, err := os.Stat(tc.path(path)); os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", tc.path(path))
	}
	return nil
}

// splitArgs splits a command line string into arguments
func splitArgs(s string) []string {
	var args []string
	var current strings.Builder
	inQuote := false

	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == ' ' && !inQuote:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}
