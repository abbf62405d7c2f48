package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Port int `env:"BOOKSHARE_TEST_PORT" envDefault:"123"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("BOOKSHARE_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("expected default addr, got %q", cfg.Addr)
	}
	if cfg.CatalogSource != "public/books.json" {
		t.Errorf("expected default catalog source, got %q", cfg.CatalogSource)
	}
	if cfg.CatalogLoadTimeout != 10*time.Second {
		t.Errorf("expected 10s load timeout, got %s", cfg.CatalogLoadTimeout)
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Errorf("expected no CORS origins, got %v", cfg.AllowedOrigins)
	}
	if cfg.TrustProxyHeaders {
		t.Error("expected proxy headers untrusted by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CATALOG_SOURCE", "https://example.com/books.json")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("ENABLE_HSTS", "true")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.CatalogSource != "https://example.com/books.json" {
		t.Errorf("expected overridden source, got %q", cfg.CatalogSource)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("expected two origins, got %v", cfg.AllowedOrigins)
	}
	if !cfg.EnableHSTS {
		t.Error("expected HSTS enabled")
	}
	if !cfg.TrustProxyHeaders {
		t.Error("expected proxy headers trusted")
	}
}

func TestLoadEnvFiles_DoesNotOverrideExistingEnv(t *testing.T) {
	tmp := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmp, ".env"), []byte("CATALOG_SOURCE=from_file\nAPP_ADDR=:9999\n"), 0o644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Chdir(tmp)
	t.Setenv("CATALOG_SOURCE", "from_env")
	t.Setenv("APP_ADDR", "")
	os.Unsetenv("APP_ADDR")

	LoadEnvFiles()

	if got := os.Getenv("CATALOG_SOURCE"); got != "from_env" {
		t.Fatalf("expected existing env to win, got %q", got)
	}
	if got := os.Getenv("APP_ADDR"); got != ":9999" {
		t.Fatalf("expected value from .env, got %q", got)
	}
}
