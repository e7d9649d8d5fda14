package config_test

import (
	"strings"
	"testing"

	"github.com/bytefixx/gridcalc/internal/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("gridcalc-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Conversion.GridZone != "Zone I" {
		t.Errorf("expected grid zone Zone I, got %q", cfg.Conversion.GridZone)
	}
	if cfg.Conversion.DefaultESMZone != "Zone I" {
		t.Errorf("expected default ESM zone Zone I, got %q", cfg.Conversion.DefaultESMZone)
	}
	if cfg.Telemetry.ServiceName != "gridcalc-test" {
		t.Errorf("expected service name gridcalc-test, got %q", cfg.Telemetry.ServiceName)
	}
	if cfg.Valkey.Enabled || cfg.NATS.Enabled {
		t.Error("expected optional backends disabled by default")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("GRIDCALC_SERVER_PORT", "9090")
	t.Setenv("GRIDCALC_CONVERSION_GRID_ZONE", "Zone IIa")
	t.Setenv("GRIDCALC_LOG_FORMAT", "text")

	cfg, err := config.Load("gridcalc-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Conversion.GridZone != "Zone IIa" {
		t.Errorf("expected Zone IIa, got %q", cfg.Conversion.GridZone)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("expected text log format, got %q", cfg.Log.Format)
	}
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("GRIDCALC_SERVER_PORT", "70000")

	_, err := config.Load("gridcalc-test")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "server.port") {
		t.Errorf("expected server.port in error, got %v", err)
	}
}

func validConfig() config.Config {
	return config.Config{
		Server:    config.ServerConfig{Port: 8080, ReadTimeout: 10, WriteTimeout: 30, BodyLimitMB: 8},
		NATS:      config.NATSConfig{URL: "nats://localhost:4222"},
		Valkey:    config.ValkeyConfig{Addr: "localhost:6379"},
		Telemetry: config.TelemetryConfig{ServiceName: "gridcalc", OTLPAddr: "localhost:4317"},
		Log:       config.LogConfig{Level: "info", Format: "json"},
		Conversion: config.ConversionConfig{
			DefaultESMZone:  "Zone I",
			GridZone:        "Zone I",
			BatchZone:       "Zone I",
			CacheTTLSeconds: 3600,
			MaxBatchRows:    1000,
		},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Log.Format = "xml"
	cfg.Conversion.GridZone = ""
	cfg.Conversion.MaxBatchRows = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"server.port", "log.format", "conversion.grid_zone", "conversion.max_batch_rows"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in error, got %v", want, err)
		}
	}
}

func TestValidate_EnabledBackendsNeedAddresses(t *testing.T) {
	cfg := validConfig()
	cfg.NATS = config.NATSConfig{Enabled: true}
	cfg.Valkey = config.ValkeyConfig{Enabled: true}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "nats.url") || !strings.Contains(err.Error(), "valkey.addr") {
		t.Errorf("expected nats.url and valkey.addr in error, got %v", err)
	}
}
