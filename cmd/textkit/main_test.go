package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func decodeSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("output %s: %v", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestRunSingle(t *testing.T) {
	out := filepath.Join(t.TempDir(), "hello.png")
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-o", out, "-width", "200", "-height", "50", "Hello"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v (stderr %q)", err, stderr.String())
	}
	if w, h := decodeSize(t, out); w != 200 || h != 50 {
		t.Errorf("image %dx%d, want 200x50", w, h)
	}
	if !strings.Contains(stdout.String(), "hello.png: 200x50") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestRunSeveral(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-o", filepath.Join(dir, "out.png"), "one", "two", "three"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, name := range []string{"out-1.png", "out-2.png", "out-3.png"} {
		if w, h := decodeSize(t, filepath.Join(dir, name)); w == 0 || h == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestRunFitAndAutoScroll(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	fit := filepath.Join(dir, "fit.png")
	if err := run(context.Background(), []string{"-o", fit, "-fit", "-width", "120", "-height", "40", "-markup", "<b>Fit</b>"}, &stdout, &stderr); err != nil {
		t.Fatalf("run -fit: %v", err)
	}
	if w, h := decodeSize(t, fit); w != 120 || h != 40 {
		t.Errorf("fit image %dx%d, want 120x40", w, h)
	}

	scroll := filepath.Join(dir, "scroll.png")
	if err := run(context.Background(), []string{"-o", scroll, "-autoscroll", "-width", "400", "marquee"}, &stdout, &stderr); err != nil {
		t.Fatalf("run -autoscroll: %v", err)
	}
	if w, _ := decodeSize(t, scroll); w != 400 {
		t.Errorf("scroll image width %d, want the box width 400", w)
	}
}

func TestRunConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "textkit.yaml")
	logPath := filepath.Join(dir, "textkit.log")
	body := "font:\n  point_size: 30\nlogging:\n  level: debug\n  file: " + logPath + "\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-config", cfgPath, "-o", filepath.Join(dir, "a.png"), "config"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stdout.String(), "30pt") {
		t.Errorf("point size from the configuration not used: %q", stdout.String())
	}
	data, err := os.ReadFile(logPath)
	if err != nil || !bytes.Contains(data, []byte("task manager started")) {
		t.Errorf("log file %q, err %v", data, err)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no text", []string{}, "no text"},
		{"color", []string{"-color", "mauve-ish", "x"}, "unknown color"},
		{"modes", []string{"-fit", "-autoscroll", "x"}, "exclude"},
		{"config", []string{"-config", "/does/not/exist.yaml", "x"}, "config"},
		{"fit without box", []string{"-fit", "-o", filepath.Join(t.TempDir(), "x.png"), "x"}, "invalid box size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(context.Background(), tt.args, &stdout, &stderr)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("run error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		base string
		i, n int
		want string
	}{
		{"text.png", 0, 1, "text.png"},
		{"text.png", 0, 2, "text-1.png"},
		{"dir/out.png", 2, 3, "dir/out-3.png"},
		{"noext", 1, 2, "noext-2"},
	}
	for _, tt := range tests {
		if got := outputName(tt.base, tt.i, tt.n); got != tt.want {
			t.Errorf("outputName(%q, %d, %d) = %q, want %q", tt.base, tt.i, tt.n, got, tt.want)
		}
	}
}
