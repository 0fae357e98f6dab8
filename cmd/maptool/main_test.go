package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunNewInfoValidate(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	if code := run([]string{"new", "-seed", "3", "-size", "12", "-dir", dir}, &stdout, &stderr); code != 0 {
		t.Fatalf("new exited %d: %s", code, stderr.String())
	}
	path := filepath.Join(dir, "map.json")
	if !strings.Contains(stdout.String(), path) {
		t.Errorf("new output %q lacks %s", stdout.String(), path)
	}

	stdout.Reset()
	if code := run([]string{"info", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("info exited %d: %s", code, stderr.String())
	}
	for _, want := range []string{"Size:      12x12", "Buildings: 0", "grass", "water", "road"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("info output lacks %q:\n%s", want, stdout.String())
		}
	}

	stdout.Reset()
	if code := run([]string{"validate", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("validate exited %d: %s", code, stderr.String())
	}
	if got := stdout.String(); got != path+": ok\n" {
		t.Errorf("validate output = %q", got)
	}
}

func TestRunPNG(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	if code := run([]string{"new", "-size", "10", "-dir", dir}, &stdout, &stderr); code != 0 {
		t.Fatalf("new exited %d: %s", code, stderr.String())
	}

	out := filepath.Join(dir, "out", "top.png")
	if code := run([]string{"png", "-o", out, filepath.Join(dir, "map.json")}, &stdout, &stderr); code != 0 {
		t.Fatalf("png exited %d: %s", code, stderr.String())
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 10 || cfg.Height != 10 {
		t.Errorf("image is %dx%d, want 10x10", cfg.Width, cfg.Height)
	}

	// Default output sits next to the map.
	if code := run([]string{"png", filepath.Join(dir, "map.json")}, &stdout, &stderr); code != 0 {
		t.Fatalf("png exited %d: %s", code, stderr.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "map.png")); err != nil {
		t.Error(err)
	}
}

func TestRunValidateFails(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		data string
	}{
		{"corrupt", "{not json"},
		{"missing elevations", `{"width":1,"height":1,"tiles":[0]}`},
		{"dimension mismatch", `{"width":2,"height":2,"tiles":[0],"elevations":[0,0,0,0]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".json")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			var stdout, stderr bytes.Buffer
			if code := run([]string{"validate", path}, &stdout, &stderr); code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			if !strings.HasPrefix(stderr.String(), "Error: ") {
				t.Errorf("stderr = %q", stderr.String())
			}
		})
	}
}

func TestRunUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
		out  string
	}{
		{"no command", nil, 1, ""},
		{"unknown", []string{"frobnicate"}, 1, "Unknown command: frobnicate"},
		{"help", []string{"help"}, 0, ""},
		{"info without file", []string{"info"}, 1, "missing map file"},
		{"missing file", []string{"info", filepath.Join(t.TempDir(), "nope.json")}, 1, "Error: "},
		{"bad flag", []string{"new", "-size", "x"}, 1, ""},
		{"bad size", []string{"new", "-size", "0", "-dir", t.TempDir()}, 1, "invalid config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != tt.code {
				t.Fatalf("exit code = %d, want %d", code, tt.code)
			}
			if tt.out != "" && !strings.Contains(stderr.String(), tt.out) {
				t.Errorf("stderr %q lacks %q", stderr.String(), tt.out)
			}
		})
	}
}
