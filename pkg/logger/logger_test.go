package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func captureStdOut(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = orig

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read pipe: %v", err)
	}
	return string(data)
}

func TestInit_DevStd_TextOutput(t *testing.T) {
	out := captureStdOut(t, func() {
		Init(Config{
			Service: "edu-service",
			Version: "v0.1.0",
			Env:     EnvDev,
			Backend: BackendStd,
			Level:   slog.LevelDebug,
		})
		slog.Info("hello")
	})

	if strings.Contains(out, "{") {
		t.Fatalf("expected text output in dev/std, got JSON: %s", out)
	}
	if !strings.Contains(out, "hello") {
		t.Fatalf("message missing: %s", out)
	}
	if !strings.Contains(out, "service=edu-service") {
		t.Fatalf("service attr missing: %s", out)
	}
}

func TestInit_ProdZap_JSONOutput(t *testing.T) {
	out := captureStdOut(t, func() {
		Init(Config{
			Service: "edu-service",
			Env:     EnvProd,
			Backend: BackendZap,
		})
		slog.Info("hello")
	})

	if !strings.Contains(out, "{") {
		t.Fatalf("expected JSON output in prod/zap: %s", out)
	}
	if !strings.Contains(out, "hello") {
		t.Fatalf("message missing: %s", out)
	}
}

func TestDetectEnv(t *testing.T) {
	cases := map[string]Env{
		"prod":       EnvProd,
		"production": EnvProd,
		"stage":      EnvStage,
		"staging":    EnvStage,
		"dev":        EnvDev,
		"":           EnvDev,
		"garbage":    EnvDev,
	}

	for raw, want := range cases {
		t.Setenv("APP_ENV", raw)
		if got := DetectEnv(); got != want {
			t.Fatalf("APP_ENV=%q: got %v, want %v", raw, got, want)
		}
	}
}
