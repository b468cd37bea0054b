package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
server:
  httpAddr: ":9090"
security:
  password:
    minLength: 8
  jwt:
    privateKeyPath: "./keys/private.pem"
    publicKeyPath: "./keys/public.pem"
    issuer: "edu-service"
    accessTTL: 15m
postgres:
  dsn: "postgres://u:p@localhost:5432/edu"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Server.HTTPAddr != ":9090" {
		t.Fatalf("httpAddr: got %q", cfg.Server.HTTPAddr)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Fatalf("shutdownTimeout default: got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Logging.Service != "edu-service" || cfg.Logging.Backend != "std" {
		t.Fatalf("logging defaults: %+v", cfg.Logging)
	}
	if cfg.Storage.Root != "./uploads" {
		t.Fatalf("storage default: got %q", cfg.Storage.Root)
	}
}

func TestLoadConfig_MissingDSN(t *testing.T) {
	body := `
security:
  password:
    minLength: 6
  jwt:
    privateKeyPath: "./keys/private.pem"
    publicKeyPath: "./keys/public.pem"
    issuer: "edu-service"
    accessTTL: 15m
`
	if _, err := LoadConfig(writeConfig(t, body)); err == nil {
		t.Fatalf("expected error for missing postgres.dsn")
	}
}

func TestLoadConfig_BadJWT(t *testing.T) {
	body := `
security:
  password:
    minLength: 6
  jwt:
    publicKeyPath: "./keys/public.pem"
    issuer: "edu-service"
    accessTTL: 15m
postgres:
  dsn: "postgres://u:p@localhost:5432/edu"
`
	if _, err := LoadConfig(writeConfig(t, body)); err == nil {
		t.Fatalf("expected error for missing privateKeyPath")
	}
}
