package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadProjectConfigDefaultsWhenMissing(t *testing.T) {
	projectDir := t.TempDir()
	briefproDir := filepath.Join(projectDir, ".briefpro")
	if err := os.MkdirAll(briefproDir, 0755); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, BriefproProjectDir: briefproDir, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err != nil {
		t.Fatalf("loadProjectConfig returned error: %v", err)
	}
	if c.Project.Version != 1 {
		t.Fatalf("expected default version == 1, got %d", c.Project.Version)
	}
	if c.ExportBaseName() != defaultBaseName {
		t.Fatalf("expected default base name %q, got %q", defaultBaseName, c.ExportBaseName())
	}
	if c.ExportFormat() != "xlsx" {
		t.Fatalf("expected default format xlsx, got %q", c.ExportFormat())
	}
	if c.LogTail() != defaultLogTail {
		t.Fatalf("expected default log tail %d, got %d", defaultLogTail, c.LogTail())
	}
}

func TestLoadProjectConfigParsesYaml(t *testing.T) {
	projectDir := t.TempDir()
	briefproDir := filepath.Join(projectDir, ".briefpro")
	if err := os.MkdirAll(briefproDir, 0755); err != nil {
		t.Fatal(err)
	}
	configYAML := strings.TrimSpace(`
version: 1
export:
  base_name: Brief_Petrovy
  format: CSV
  dir: out/briefs
ui:
  log_tail: 12
templates:
  default: two-bedroom
`)
	if err := os.WriteFile(filepath.Join(briefproDir, "config.yaml"), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, BriefproProjectDir: briefproDir, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err != nil {
		t.Fatalf("loadProjectConfig returned error: %v", err)
	}
	if c.ExportBaseName() != "Brief_Petrovy" {
		t.Fatalf("wrong base name: %q", c.ExportBaseName())
	}
	if c.ExportFormat() != "csv" {
		t.Fatalf("format not lowercased: %q", c.ExportFormat())
	}
	if !strings.HasPrefix(c.ExportsDir(), projectDir) {
		t.Fatalf("expected export dir to be resolved against project dir, got %s", c.ExportsDir())
	}
	if c.LogTail() != 12 {
		t.Fatalf("wrong log tail: %d", c.LogTail())
	}
	if c.DefaultTemplate() != "two-bedroom" {
		t.Fatalf("wrong default template: %q", c.DefaultTemplate())
	}
}

func TestLoadProjectConfigValidation(t *testing.T) {
	projectDir := t.TempDir()
	briefproDir := filepath.Join(projectDir, ".briefpro")
	if err := os.MkdirAll(briefproDir, 0755); err != nil {
		t.Fatal(err)
	}
	configYAML := strings.TrimSpace(`
version: 1
export:
  format: docx
`)
	if err := os.WriteFile(filepath.Join(briefproDir, "config.yaml"), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}
	c := &Config{ProjectDir: projectDir, BriefproProjectDir: briefproDir, Project: defaultProjectConfig()}
	if err := c.loadProjectConfig(); err == nil {
		t.Fatalf("expected validation error but got none")
	}
}

func TestInitBriefproDirWritesLayoutAndConfig(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitBriefproDir(projectDir); err != nil {
		t.Fatalf("InitBriefproDir: %v", err)
	}
	for _, sub := range []string{"state", "exports", "templates", "logs"} {
		info, err := os.Stat(filepath.Join(projectDir, BriefproDir, sub))
		if err != nil || !info.IsDir() {
			t.Fatalf("missing directory %s: %v", sub, err)
		}
	}
	data, err := os.ReadFile(filepath.Join(projectDir, BriefproDir, "config.yaml"))
	if err != nil {
		t.Fatalf("config.yaml not written: %v", err)
	}
	if !strings.Contains(string(data), "base_name: TZ_vizualizatoru_PRO") {
		t.Fatal("default config is missing the export base name")
	}

	// A second init must not overwrite an edited config.
	edited := []byte("version: 1\nexport:\n  base_name: Custom\n  format: txt\n")
	if err := os.WriteFile(filepath.Join(projectDir, BriefproDir, "config.yaml"), edited, 0644); err != nil {
		t.Fatal(err)
	}
	if err := InitBriefproDir(projectDir); err != nil {
		t.Fatalf("second InitBriefproDir: %v", err)
	}
	data, _ = os.ReadFile(filepath.Join(projectDir, BriefproDir, "config.yaml"))
	if !strings.Contains(string(data), "base_name: Custom") {
		t.Fatal("init overwrote an existing config")
	}
}

func TestSetDefaultTemplatePersists(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitBriefproDir(projectDir); err != nil {
		t.Fatal(err)
	}
	c, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if err := c.SetDefaultTemplate("  studio  "); err != nil {
		t.Fatalf("SetDefaultTemplate: %v", err)
	}

	reloaded, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.DefaultTemplate() != "studio" {
		t.Fatalf("template not persisted, got %q", reloaded.DefaultTemplate())
	}
}
