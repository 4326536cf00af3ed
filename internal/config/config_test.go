package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.MaxDepth != DefaultMaxDepth || cfg.OverlapThreshold != DefaultOverlapThreshold {
		t.Errorf("depth/threshold = %d/%d", cfg.MaxDepth, cfg.OverlapThreshold)
	}
	if !cfg.Hoist || cfg.ReportPositionalFallback {
		t.Error("hoisting should be on and positional reports off by default")
	}
	if cfg.SpecializeName != "specialize" || cfg.SpecializeInlineName != "specializeInline" {
		t.Errorf("macro names = %s, %s", cfg.SpecializeName, cfg.SpecializeInlineName)
	}
	if cfg.HoistPrefix != "__specialized_" || cfg.OptOutMarker != "@no-specialize-warn" {
		t.Errorf("prefix/marker = %s, %s", cfg.HoistPrefix, cfg.OptOutMarker)
	}
	for _, k := range []string{"Kind", "$", "HKT"} {
		if !cfg.IsKindConstructor(k) {
			t.Errorf("%s is not a kind constructor", k)
		}
	}
	if cfg.IsKindConstructor("Array") {
		t.Error("Array is a kind constructor")
	}
}

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name string
		path string
		data string
	}{
		{"yaml", "specialize.yaml", `
max_depth: 3
overlap_threshold: 1
hoist: false
report_positional_fallback: true
specialize_name: spec
kind_constructors: [App]
contracts:
  Semigroup: [combine]
`},
		{"toml", "specialize.toml", `
max_depth = 3
overlap_threshold = 1
hoist = false
report_positional_fallback = true
specialize_name = "spec"
kind_constructors = ["App"]

[contracts]
Semigroup = ["combine"]
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.data), tt.path)
			if err != nil {
				t.Fatal(err)
			}
			if cfg.MaxDepth != 3 || cfg.OverlapThreshold != 1 || cfg.Hoist || !cfg.ReportPositionalFallback {
				t.Errorf("scalar fields = %+v", cfg)
			}
			if cfg.SpecializeName != "spec" || cfg.SpecializeInlineName != SpecializeInlineFuncName {
				t.Errorf("macro names = %s, %s", cfg.SpecializeName, cfg.SpecializeInlineName)
			}
			if !cfg.IsKindConstructor("App") || cfg.IsKindConstructor("Kind") {
				t.Errorf("kind constructors = %v", cfg.KindConstructors)
			}
			if want := map[string][]string{"Semigroup": {"combine"}}; !reflect.DeepEqual(cfg.Contracts, want) {
				t.Errorf("contracts = %v", cfg.Contracts)
			}
			if cfg.HoistPrefix != DefaultHoistPrefix {
				t.Errorf("omitted hoist_prefix = %q", cfg.HoistPrefix)
			}
		})
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		data string
		want string
	}{
		{"max_depth: -1", "max_depth"},
		{"overlap_threshold: -2", "overlap_threshold"},
		{"specialize_name: not-a-name", "macro name"},
		{"hoist_prefix: '1x'", "hoist_prefix"},
		{"contracts:\n  Eq: []", "at least one method"},
		{"contracts:\n  bad-name: [x]", "contract name"},
		{"max_depth: [", "parsing"},
	}
	for _, tt := range tests {
		_, err := ParseConfig([]byte(tt.data), "specialize.yaml")
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%q: err = %v, want mention of %q", tt.data, err, tt.want)
		}
	}
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, "a", "specialize.toml")
	if err := os.WriteFile(want, []byte("max_depth = 2\ncapabilities = [\"caps.yaml\", \"/shared/caps.toml\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := FindConfig(nested)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("FindConfig = %q, want %q", got, want)
	}
	cfg, err := LoadConfig(got)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxDepth != 2 {
		t.Errorf("MaxDepth = %d", cfg.MaxDepth)
	}
	wantCaps := []string{filepath.Join(root, "a", "caps.yaml"), "/shared/caps.toml"}
	if len(cfg.Capabilities) != 2 || cfg.Capabilities[0] != wantCaps[0] || cfg.Capabilities[1] != wantCaps[1] {
		t.Errorf("Capabilities = %q, want %q", cfg.Capabilities, wantCaps)
	}

	if _, err := LoadConfig(filepath.Join(root, "missing.yaml")); err == nil {
		t.Error("LoadConfig of a missing file succeeded")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvMaxDepth, "7")
	t.Setenv(EnvOverlap, "0")
	t.Setenv(EnvNoHoist, "true")
	t.Setenv(EnvMarker, "@quiet")

	cfg := Default()
	cfg.ApplyEnv()
	if cfg.MaxDepth != 7 {
		t.Errorf("MaxDepth = %d", cfg.MaxDepth)
	}
	if cfg.OverlapThreshold != DefaultOverlapThreshold {
		t.Errorf("OverlapThreshold = %d, want the default for a non-positive override", cfg.OverlapThreshold)
	}
	if cfg.Hoist {
		t.Error("Hoist still on")
	}
	if cfg.OptOutMarker != "@quiet" {
		t.Errorf("OptOutMarker = %q", cfg.OptOutMarker)
	}
}
