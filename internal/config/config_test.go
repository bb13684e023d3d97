package config

import (
	"strings"
	"testing"
	"time"
)

// clearEnv unsets every variable Load reads so host env cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "READ_TIMEOUT", "READ_HEADER_TIMEOUT", "WRITE_TIMEOUT", "IDLE_TIMEOUT",
		"MAX_HEADER_BYTES", "GIN_MODE", "LOG_LEVEL", "LOG_PRETTY", "SWAGGER_ENABLED",
		"API_BASE_PATH", "DB_PATH", "MAX_MESSAGE_RUNES", "LOG_BUFFER", "CRON_SECRET",
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "OPENAI_MODEL", "OPENAI_MAX_TOKENS",
		"ENHANCE_TIMEOUT", "RATE_RPS", "RATE_BURST", "CORS_ALLOWED_ORIGINS",
		"ENABLE_HSTS", "HSTS_MAX_AGE", "OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT",
		"OTEL_EXPORTER_OTLP_INSECURE", "OTEL_SERVICE_NAME", "OTEL_TRACES_SAMPLER_ARG",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.GinMode != "release" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if cfg.APIBasePath != "/api/v1" || cfg.DBPath != "engine.db" {
		t.Fatalf("unexpected app defaults: %+v", cfg)
	}
	if cfg.MaxMessageRunes != 2000 || cfg.LogBuffer != 256 {
		t.Fatalf("unexpected pipeline defaults: %+v", cfg)
	}
	if cfg.LLM.Model != "gpt-3.5-turbo" || cfg.LLM.MaxTokens != 300 || cfg.LLM.Timeout != 10*time.Second {
		t.Fatalf("unexpected LLM defaults: %+v", cfg.LLM)
	}
	if cfg.LLM.APIKey != "" || cfg.CronSecret != "" {
		t.Fatalf("secrets must default empty: %+v", cfg)
	}
	if cfg.OTEL.ServiceName != "chatbot-engine" || !cfg.OTEL.Insecure || cfg.OTEL.SampleRatio != 1.0 {
		t.Fatalf("unexpected OTEL defaults: %+v", cfg.OTEL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "WARNING") // normalized to warn
	t.Setenv("GIN_MODE", "weird")    // normalized to release
	t.Setenv("API_BASE_PATH", "api/v2/")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ENHANCE_TIMEOUT", "3s")
	t.Setenv("CRON_SECRET", "s3cret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || cfg.LogLevel != "warn" || cfg.GinMode != "release" {
		t.Fatalf("normalization failed: %+v", cfg)
	}
	if cfg.APIBasePath != "/api/v2" {
		t.Fatalf("base path not normalized: %q", cfg.APIBasePath)
	}
	if cfg.LLM.APIKey != "sk-test" || cfg.LLM.Timeout != 3*time.Second || cfg.CronSecret != "s3cret" {
		t.Fatalf("unexpected LLM/cron config: %+v", cfg)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("CSV parsing failed: %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name, key, val, wantSub string
	}{
		{"bad log level", "LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"negative runes", "MAX_MESSAGE_RUNES", "-1", "MAX_MESSAGE_RUNES"},
		{"zero buffer", "LOG_BUFFER", "0", "LOG_BUFFER"},
		{"zero tokens", "OPENAI_MAX_TOKENS", "0", "OPENAI_MAX_TOKENS"},
		{"negative rps", "RATE_RPS", "-1", "RATE_RPS"},
		{"zero burst", "RATE_BURST", "0", "RATE_BURST"},
		{"bad sampler", "OTEL_TRACES_SAMPLER_ARG", "1.5", "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(c.key, c.val)
			if _, err := Load(); err == nil || !strings.Contains(err.Error(), c.wantSub) {
				t.Fatalf("expected error mentioning %s, got %v", c.wantSub, err)
			}
		})
	}
}

func TestMustLoad_PanicsOnInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "nope")
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	_ = MustLoad()
}

func TestNormalizeBasePath(t *testing.T) {
	cases := map[string]string{
		"":        "/",
		"/":       "/",
		"api":     "/api",
		"/api/":   "/api",
		"/api/v1": "/api/v1",
	}
	for in, want := range cases {
		if got := normalizeBasePath(in); got != want {
			t.Errorf("normalizeBasePath(%q) = %q, want %q", in, got, want)
		}
	}
}
