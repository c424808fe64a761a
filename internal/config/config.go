// internal/config/config.go
//
// This package handles configuration and the .briefpro directory structure.
// Every project that uses briefpro gets a .briefpro/ folder created in its
// working directory.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// BriefproDir is the name of the directory we create in each project.
	BriefproDir = ".briefpro"

	defaultBaseName = "TZ_vizualizatoru_PRO"
	defaultFormat   = "xlsx"
	defaultLogTail  = 8
)

const defaultConfigYAML = `# briefpro project configuration
version: 1

export:
  # Base file name for exports (the extension is appended per format).
  base_name: TZ_vizualizatoru_PRO
  # Default format for the headless exporter: xlsx, csv, txt or xls.
  format: xlsx
  # Directory exports are written into, relative to the project directory.
  # Leave empty to use .briefpro/exports.
  dir: ""

ui:
  # Number of recent log lines shown in the status panel.
  log_tail: 8

templates:
  # Template applied to newly created documents. Empty means the built-in
  # single-room default.
  default: ""
`

// ExportConfig captures export preferences.
type ExportConfig struct {
	BaseName string `yaml:"base_name"`
	Format   string `yaml:"format"`
	Dir      string `yaml:"dir,omitempty"`
}

// UIConfig captures editor display preferences.
type UIConfig struct {
	LogTail int `yaml:"log_tail"`
}

// TemplateConfig captures room template preferences.
type TemplateConfig struct {
	Default string `yaml:"default,omitempty"`
}

// ProjectConfig models .briefpro/config.yaml.
type ProjectConfig struct {
	Version   int            `yaml:"version"`
	Export    ExportConfig   `yaml:"export"`
	UI        UIConfig       `yaml:"ui"`
	Templates TemplateConfig `yaml:"templates"`
}

// Config holds the runtime configuration for briefpro.
type Config struct {
	// ProjectDir is the directory where the user ran `briefpro` from.
	ProjectDir string

	// BriefproProjectDir is ProjectDir/.briefpro.
	BriefproProjectDir string

	Project ProjectConfig
}

// InitBriefproDir creates the .briefpro directory structure in the given
// project directory. This is called when the editor starts up.
//
// Structure created:
// .briefpro/
// ├── state/      <- brief.json, the persisted document
// ├── exports/    <- generated CSV/XLSX/TXT files
// ├── templates/  <- room preset templates (*.yaml)
// └── logs/       <- session logbook
func InitBriefproDir(projectDir string) error {
	root := filepath.Join(projectDir, BriefproDir)

	dirs := []string{
		filepath.Join(root, "state"),
		filepath.Join(root, "exports"),
		filepath.Join(root, "templates"),
		filepath.Join(root, "logs"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	return ensureProjectConfig(filepath.Join(root, "config.yaml"))
}

// NewConfig creates a Config populated from .briefpro/config.yaml, falling
// back to defaults when the file does not exist yet.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:         projectDir,
		BriefproProjectDir: filepath.Join(projectDir, BriefproDir),
		Project:            defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// StateDir returns the directory holding the persisted document.
func (c *Config) StateDir() string {
	return filepath.Join(c.BriefproProjectDir, "state")
}

// ExportsDir returns the directory exports are written into, honoring the
// configured override.
func (c *Config) ExportsDir() string {
	if dir := c.Project.Export.Dir; dir != "" {
		return dir
	}
	return filepath.Join(c.BriefproProjectDir, "exports")
}

// TemplatesDir returns the directory scanned for room templates.
func (c *Config) TemplatesDir() string {
	return filepath.Join(c.BriefproProjectDir, "templates")
}

// LogsDir returns the directory holding session logs.
func (c *Config) LogsDir() string {
	return filepath.Join(c.BriefproProjectDir, "logs")
}

// LogPath returns the session logbook file.
func (c *Config) LogPath() string {
	return filepath.Join(c.LogsDir(), "session.log")
}

// ProjectConfigPath returns the on-disk location for the config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.BriefproProjectDir, "config.yaml")
}

// ExportBaseName returns the configured export file base name.
func (c *Config) ExportBaseName() string {
	return c.Project.Export.BaseName
}

// ExportFormat returns the configured default export format.
func (c *Config) ExportFormat() string {
	return c.Project.Export.Format
}

// LogTail returns how many recent log lines the status panel shows.
func (c *Config) LogTail() int {
	return c.Project.UI.LogTail
}

// DefaultTemplate returns the configured default template name.
func (c *Config) DefaultTemplate() string {
	return c.Project.Templates.Default
}

// SetDefaultTemplate updates the default template name and persists the
// value back to .briefpro/config.yaml.
func (c *Config) SetDefaultTemplate(name string) error {
	c.Project.Templates.Default = strings.TrimSpace(name)
	return c.saveProjectConfig()
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.ProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Export: ExportConfig{
			BaseName: defaultBaseName,
			Format:   defaultFormat,
		},
		UI: UIConfig{LogTail: defaultLogTail},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.UI.LogTail == 0 {
		pc.UI.LogTail = defaultLogTail
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Export.BaseName = strings.TrimSpace(pc.Export.BaseName)
	if pc.Export.BaseName == "" {
		pc.Export.BaseName = defaultBaseName
	}
	pc.Export.Format = strings.ToLower(strings.TrimSpace(pc.Export.Format))
	if pc.Export.Format == "" {
		pc.Export.Format = defaultFormat
	}
	pc.Export.Dir = resolvePath(base, pc.Export.Dir)
	pc.Templates.Default = strings.TrimSpace(pc.Templates.Default)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	switch pc.Export.Format {
	case "xlsx", "csv", "txt", "xls":
	default:
		return fmt.Errorf("export.format must be one of xlsx, csv, txt, xls")
	}
	if pc.UI.LogTail < 0 {
		return fmt.Errorf("ui.log_tail must not be negative")
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize(c.ProjectDir)
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.BriefproProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure briefpro dir: %w", err)
	}
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}
