package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Database: DatabaseConfig{
			DSN: "postgres://localhost:5432/magicsearch",
		},
		Auth: AuthConfig{JWTSecret: "test-secret"},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingDSN(t *testing.T) {
	cfg := validConfig()
	cfg.Database.DSN = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing database dsn")
	}
}

func TestValidate_MissingJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing jwt secret")
	}
}

func TestValidate_MaxKBelowDefaultK(t *testing.T) {
	cfg := validConfig()
	cfg.Search.DefaultK = 50
	cfg.Search.MaxK = 10

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for max_k < default_k")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 30 {
		t.Errorf("expected WriteTimeoutSec=30, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Database.MaxConns != 8 {
		t.Errorf("expected MaxConns=8, got %d", cfg.Database.MaxConns)
	}
	if cfg.Database.ReadinessTimeout != 10 {
		t.Errorf("expected ReadinessTimeout=10, got %d", cfg.Database.ReadinessTimeout)
	}
	if cfg.Search.DefaultK != 5 {
		t.Errorf("expected DefaultK=5, got %d", cfg.Search.DefaultK)
	}
	if cfg.Search.MaxK != 100 {
		t.Errorf("expected MaxK=100, got %d", cfg.Search.MaxK)
	}
	if cfg.Embedding.Model != "Qwen/Qwen3-Embedding-8B" {
		t.Errorf("unexpected default model %q", cfg.Embedding.Model)
	}
	if cfg.Embedding.Dimensions != 1024 {
		t.Errorf("expected Dimensions=1024, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Embedding.TimeoutSec != 30 {
		t.Errorf("expected embedding TimeoutSec=30, got %d", cfg.Embedding.TimeoutSec)
	}
	if cfg.Auth.TokenTTLMin != 60 {
		t.Errorf("expected TokenTTLMin=60, got %d", cfg.Auth.TokenTTLMin)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database:  DatabaseConfig{MaxConns: 16, ReadinessTimeout: 15},
		Search:    SearchConfig{DefaultK: 10, MaxK: 500},
		Embedding: EmbeddingConfig{Model: "custom-model", Dimensions: 512, TimeoutSec: 5},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Database.MaxConns != 16 {
		t.Errorf("expected MaxConns=16, got %d", cfg.Database.MaxConns)
	}
	if cfg.Search.DefaultK != 10 {
		t.Errorf("expected DefaultK=10, got %d", cfg.Search.DefaultK)
	}
	if cfg.Embedding.Model != "custom-model" {
		t.Errorf("expected model preserved, got %q", cfg.Embedding.Model)
	}
	if cfg.Embedding.Dimensions != 512 {
		t.Errorf("expected Dimensions=512, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Embedding.TimeoutSec != 5 {
		t.Errorf("expected embedding TimeoutSec=5, got %d", cfg.Embedding.TimeoutSec)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("MS_TEST_SECRET", "s3cret")

	in := []byte("secret: ${MS_TEST_SECRET}\nport: ${MS_TEST_PORT:-8080}\n")
	out := string(expandEnvVars(in))

	want := "secret: s3cret\nport: 8080\n"
	if out != want {
		t.Errorf("unexpected expansion:\ngot:  %q\nwant: %q", out, want)
	}
}
