package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/mrsinham/digitforge/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestComposeCommand(t *testing.T) {
	out, err := execute(t, "compose", "12", "4", "1", "5", "-n", "3", "--seed", "5")
	if err != nil {
		t.Fatalf("compose failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}

	again, err := execute(t, "compose", "12", "4", "1", "5", "-n", "3", "--seed", "5")
	if err != nil {
		t.Fatalf("compose failed: %v", err)
	}
	if again != out {
		t.Errorf("same seed gave different output:\n%s\n%s", out, again)
	}

	if _, err := execute(t, "compose", "12", "4", "x", "5"); err == nil {
		t.Error("compose with a non-numeric argument succeeded")
	}
	if _, err := execute(t, "compose", "12", "4", "1", "5", "--relaxation", "grid"); err == nil {
		t.Error("compose with an unknown relaxation succeeded")
	}
}

func TestGenerateCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "seq.bmp")
	stdout, err := execute(t, "generate", "--source", "glyph", "-d", "805", "--spacing", "1-3", "-o", out)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !strings.Contains(stdout, "digits 805") {
		t.Errorf("unexpected output: %s", stdout)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not written: %v", err)
	}

	if _, err := execute(t, "generate", "--source", "glyph", "-o", out); err == nil {
		t.Error("generate without digits succeeded")
	}
	if _, err := execute(t, "generate", "--source", "glyph", "-d", "1", "-o", filepath.Join(t.TempDir(), "x.gif")); err == nil {
		t.Error("generate with an unsupported extension succeeded")
	}
}

func TestJobFlags_Precedence(t *testing.T) {
	t.Setenv(config.EnvDataDir, "/env/mnist")

	dir := t.TempDir()
	job := filepath.Join(dir, "job.yaml")
	content := "spacing: 3-9\ncount: 7\nformat: tiff\ndigits: \"12\"\n"
	if err := os.WriteFile(job, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	var jf jobFlags
	cmd := &cobra.Command{Use: "test"}
	jf.register(cmd)
	jf.registerDataset(cmd)
	if err := cmd.ParseFlags([]string{"--config", job, "--count", "3", "--seed", "8"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	cfg, err := jf.resolve(cmd)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if cfg.Count != 3 || cfg.Seed != 8 {
		t.Errorf("flags did not override the file: count=%d seed=%d", cfg.Count, cfg.Seed)
	}
	if cfg.Spacing != "3-9" || cfg.Format != "tiff" || cfg.Digits != "12" {
		t.Errorf("file values lost: %+v", cfg)
	}
	if cfg.OutputDir != config.Default().OutputDir {
		t.Errorf("OutputDir = %q, want the default", cfg.OutputDir)
	}
	if cfg.DataDir != "/env/mnist" {
		t.Errorf("DataDir = %q, want the environment value", cfg.DataDir)
	}
}

func TestJobFlags_NoMNIST(t *testing.T) {
	t.Setenv(config.EnvDataDir, "")

	var jf jobFlags
	cmd := &cobra.Command{Use: "test"}
	jf.register(cmd)
	if err := cmd.ParseFlags([]string{"--digits", "1"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	if _, err := jf.resolve(cmd); err == nil {
		t.Error("resolve without an MNIST directory succeeded")
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("expected the default logger without a context logger")
	}

	var buf bytes.Buffer
	l := newLogger(&buf, log.DebugLevel)
	ctx := withLogger(context.Background(), l)
	if loggerFromContext(ctx) != l {
		t.Error("expected the context logger")
	}

	newProgress(l).done("Finished")
	if !strings.Contains(buf.String(), "Finished (") {
		t.Errorf("progress output = %q", buf.String())
	}
}
