// cmd/brief-export/main.go
//
// Headless exporter: renders the persisted brief to a file without
// opening the editor. Useful for scripted delivery, e.g. regenerating
// the workbook after pulling a project directory.

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kapitan-marona/briefpro/internal/brief"
	"github.com/kapitan-marona/briefpro/internal/config"
	"github.com/kapitan-marona/briefpro/internal/export"
	"github.com/kapitan-marona/briefpro/internal/store"
)

func main() {
	format := flag.String("format", "", "export format: xlsx, csv, txt or xls (defaults to config)")
	projectDir := flag.String("project", "", "path to the project directory (defaults to cwd)")
	out := flag.String("out", "", "output file or directory (defaults to the configured exports dir)")
	flag.Parse()

	project := *projectDir
	if project == "" {
		var err error
		project, err = os.Getwd()
		if err != nil {
			die("determine working directory: %v", err)
		}
	}

	cfg, err := config.NewConfig(project)
	if err != nil {
		die("load config: %v", err)
	}

	st := store.New(cfg.StateDir())
	if !st.Exists() {
		die("no saved brief in %s; run briefpro first", cfg.StateDir())
	}
	doc := st.Load()

	chosen := strings.ToLower(strings.TrimSpace(*format))
	if chosen == "" {
		chosen = cfg.ExportFormat()
	}

	dir, base := resolveTarget(cfg, *out, chosen)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		die("create output directory: %v", err)
	}

	path, fallback, err := writeExport(doc, dir, base, chosen)
	if err != nil {
		die("export %s: %v", chosen, err)
	}
	if fallback {
		fmt.Fprintf(os.Stderr, "warning: xlsx writer failed, wrote legacy workbook instead\n")
	}
	fmt.Println(path)
}

// resolveTarget splits the -out flag into a directory and base name. A
// value with the expected extension is treated as a full file path,
// anything else as a directory.
func resolveTarget(cfg *config.Config, out, format string) (dir, base string) {
	dir = cfg.ExportsDir()
	base = cfg.ExportBaseName()
	trimmed := strings.TrimSpace(out)
	if trimmed == "" {
		return dir, base
	}
	ext := filepath.Ext(trimmed)
	if strings.EqualFold(strings.TrimPrefix(ext, "."), format) {
		return filepath.Dir(trimmed), strings.TrimSuffix(filepath.Base(trimmed), ext)
	}
	return trimmed, base
}

func writeExport(doc *brief.Document, dir, base, format string) (string, bool, error) {
	switch format {
	case "xlsx":
		return export.WriteWorkbookFile(doc, dir, base)
	case "csv":
		path := filepath.Join(dir, base+".csv")
		return path, false, export.WriteCSV(doc, path)
	case "txt":
		path := filepath.Join(dir, base+".txt")
		return path, false, export.WriteText(doc, path)
	case "xls":
		path := filepath.Join(dir, base+".xls")
		return path, false, export.WriteHTMLXLS(doc, path)
	}
	return "", false, fmt.Errorf("unknown format %q", format)
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "brief-export: "+format+"\n", args...)
	os.Exit(1)
}
