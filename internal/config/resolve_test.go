package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "wmicmd.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestResolve_DefaultPaths_NoConfig(t *testing.T) {
	tmp := t.TempDir()
	got, xe := Resolve(Options{WorkDir: tmp, HomeDir: tmp})
	if xe != nil {
		t.Fatalf("unexpected err: %v", xe)
	}
	if got.ConfigPath != "" {
		t.Fatalf("expected empty config path")
	}
	if got.ProfileName != "" {
		t.Fatalf("expected no profile, got %q", got.ProfileName)
	}
}

func TestResolve_ExplicitConfigMissingIsError(t *testing.T) {
	tmp := t.TempDir()
	_, xe := Resolve(Options{WorkDir: tmp, HomeDir: tmp, ConfigPath: "no_such.yaml"})
	if xe == nil {
		t.Fatalf("expected error")
	}
	if xe.Code != "WMICMD_CFG_NOT_FOUND" {
		t.Fatalf("code=%s", xe.Code)
	}
}

func TestResolve_ProfilePrecedence(t *testing.T) {
	tmp := t.TempDir()
	writeConfig(t, tmp, "profiles:\n  default:\n    format: yaml\n  dev:\n    format: json\n  ops:\n    format: csv\n")

	// No CLI/ENV profile -> profiles.default selected
	got, xe := Resolve(Options{WorkDir: tmp, HomeDir: tmp})
	if xe != nil {
		t.Fatal(xe)
	}
	if got.ProfileName != "default" || got.Profile.Format != "yaml" {
		t.Fatalf("got profile=%q format=%q", got.ProfileName, got.Profile.Format)
	}

	// ENV overrides default
	got, xe = Resolve(Options{WorkDir: tmp, HomeDir: tmp, EnvProfile: "ops"})
	if xe != nil {
		t.Fatal(xe)
	}
	if got.ProfileName != "ops" || got.Profile.Format != "csv" {
		t.Fatalf("got profile=%q format=%q", got.ProfileName, got.Profile.Format)
	}

	// CLI overrides ENV
	got, xe = Resolve(Options{WorkDir: tmp, HomeDir: tmp, EnvProfile: "ops", CLIProfile: "dev", CLIProfileSet: true})
	if xe != nil {
		t.Fatal(xe)
	}
	if got.ProfileName != "dev" || got.Profile.Format != "json" {
		t.Fatalf("got profile=%q format=%q", got.ProfileName, got.Profile.Format)
	}
}

func TestResolve_UnknownProfileIsError(t *testing.T) {
	tmp := t.TempDir()
	writeConfig(t, tmp, "profiles:\n  dev: {}\n")

	for _, opts := range []Options{
		{WorkDir: tmp, HomeDir: tmp, CLIProfile: "nope", CLIProfileSet: true},
		{WorkDir: tmp, HomeDir: tmp, EnvProfile: "nope"},
	} {
		_, xe := Resolve(opts)
		if xe == nil {
			t.Fatalf("expected error for %+v", opts)
		}
		if xe.Code != "WMICMD_CFG_INVALID" {
			t.Fatalf("code=%s", xe.Code)
		}
		if xe.Details["name"] != "nope" {
			t.Errorf("details=%v", xe.Details)
		}
	}
}

func TestResolve_NoDefaultProfile(t *testing.T) {
	tmp := t.TempDir()
	writeConfig(t, tmp, "profiles:\n  dev:\n    hosts: [h1]\n")

	got, xe := Resolve(Options{WorkDir: tmp, HomeDir: tmp})
	if xe != nil {
		t.Fatal(xe)
	}
	if got.ProfileName != "" || len(got.Profile.Hosts) != 0 {
		t.Fatalf("expected empty selection, got %q %+v", got.ProfileName, got.Profile)
	}
	if len(got.File.Profiles) != 1 {
		t.Errorf("expected the whole file to be returned")
	}
}
