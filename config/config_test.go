package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/DougMackenzie/energy-optimizer/core/model"
)

const sampleYAML = `
site:
  name: west-campus
  location: TX
  land_acres: 2500
limits:
  nox_tons_per_year: 4000
  grid_available_year: 2031
  grid_capacity_mw: 600
trajectory:
  peak_mw_by_year:
    2026: 0
    2031: 600
  workload_mix:
    pre_training: 40
    batch_inference: 30
    realtime_inference: 30
  pue: 1.25
  load_factor: 0.85
optimizer:
  engine: representative-period
  seed: 7
`

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "run.yaml", sampleYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Site.Name != "west-campus" || cfg.Site.LandAcres != 2500 {
		t.Fatalf("site = %+v", cfg.Site)
	}
	if cfg.Limits.GridAvailableYear != 2031 {
		t.Fatalf("limits = %+v", cfg.Limits)
	}
	if cfg.Optimizer.Engine != "representative-period" {
		t.Fatalf("engine = %q", cfg.Optimizer.Engine)
	}
	// Defaults flow in where the file is silent.
	if cfg.Optimizer.DREventHours != 40 {
		t.Fatalf("dr_event_hours default = %v", cfg.Optimizer.DREventHours)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("EO_SITE__NAME", "east-campus")
	cfg, err := Load(writeConfig(t, "run.yaml", sampleYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Site.Name != "east-campus" {
		t.Fatalf("env override ignored: %q", cfg.Site.Name)
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	if _, err := Load(writeConfig(t, "run.toml", "x = 1")); err == nil {
		t.Fatal("toml must be rejected")
	}
}

func TestLoadRejectsUnknownEngine(t *testing.T) {
	body := sampleYAML + "\n"
	cfg, err := Load(writeConfig(t, "run.yaml", body))
	if err != nil {
		t.Fatal(err)
	}
	cfg.Optimizer.Engine = "quantum"
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown engine must fail validation")
	}
}

func TestTrajectoryToModelDefaults(t *testing.T) {
	tc := TrajectoryConfig{
		PeakMWByYear: map[int]float64{2026: 300},
		WorkloadMix:  map[string]float64{"pre_training": 100},
	}
	m := tc.ToModel()

	if m.PUE != 1.25 || m.LoadFactor != 0.85 || m.CoolingFlex != DefaultCoolingFlex {
		t.Fatalf("defaults not applied: %+v", m)
	}
	if m.Flexibility[model.WorkloadBatchInference].Fraction != 0.90 {
		t.Fatal("default flexibility missing")
	}
	if m.WorkloadMix[model.WorkloadPreTraining] != 100 {
		t.Fatal("mix not converted")
	}
}

func TestTrajectoryValidateUnknownCategory(t *testing.T) {
	tc := TrajectoryConfig{
		PeakMWByYear: map[int]float64{2026: 300},
		WorkloadMix:  map[string]float64{"mining": 100},
	}
	if err := tc.Validate(); err == nil {
		t.Fatal("unknown category must fail")
	}
}
