package config

import (
	"reflect"
	"testing"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("Expected an error when DATABASE_URL is empty")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://sortwatch:x@localhost:5432/warehouse")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.WindowDays != 7 {
		t.Errorf("WindowDays=%d, want 7", cfg.WindowDays)
	}
	if cfg.AggTrailingDays != 6 || cfg.AggLeadingDays != 4 {
		t.Errorf("Aggregate window (%d, %d), want (6, 4)", cfg.AggTrailingDays, cfg.AggLeadingDays)
	}
	if want := []string{"AMZL", "AMXL"}; !reflect.DeepEqual(cfg.CarrierPrefixes, want) {
		t.Errorf("CarrierPrefixes=%v, want %v", cfg.CarrierPrefixes, want)
	}
	if cfg.Object.Bucket != "backlog-reports" {
		t.Errorf("Object bucket=%q, want backlog-reports", cfg.Object.Bucket)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://sortwatch:x@localhost:5432/warehouse")
	t.Setenv("WINDOW_DAYS", "14")
	t.Setenv("CARRIER_PREFIXES", " AMZL , CUSTOM ")
	t.Setenv("OBJECT_USE_SSL", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.WindowDays != 14 {
		t.Errorf("WindowDays=%d, want 14", cfg.WindowDays)
	}
	if want := []string{"AMZL", "CUSTOM"}; !reflect.DeepEqual(cfg.CarrierPrefixes, want) {
		t.Errorf("CarrierPrefixes=%v, want %v", cfg.CarrierPrefixes, want)
	}
	if !cfg.Object.UseSSL {
		t.Error("OBJECT_USE_SSL=true should enable SSL")
	}
}

func TestLoad_MalformedIntFallsBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://sortwatch:x@localhost:5432/warehouse")
	t.Setenv("WINDOW_DAYS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WindowDays != 7 {
		t.Errorf("Malformed WINDOW_DAYS should fall back to 7, got %d", cfg.WindowDays)
	}
}
