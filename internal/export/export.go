// internal/export/export.go
//
// File-producing entry points over the pure exporters, including the
// workbook fallback chain: real XLSX first, the legacy HTML .xls when the
// workbook writer fails.

package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kapitan-marona/briefpro/internal/brief"
	"github.com/kapitan-marona/briefpro/internal/schema"
)

// DefaultBaseName is the export file base when none is configured.
const DefaultBaseName = "TZ_vizualizatoru_PRO"

// WriteCSV writes the CSV payload to path.
func WriteCSV(doc *brief.Document, path string) error {
	return writeFile(path, []byte(BriefCSV(doc)))
}

// WriteText writes the plain-text brief to path.
func WriteText(doc *brief.Document, path string) error {
	return writeFile(path, []byte(BriefText(doc)))
}

// WriteHTMLXLS writes the legacy HTML .xls payload to path.
func WriteHTMLXLS(doc *brief.Document, path string) error {
	return writeFile(path, []byte(BriefHTMLXLS(doc)))
}

// WriteXLSX builds the two-sheet workbook and writes it to path.
func WriteXLSX(doc *brief.Document, path string) error {
	sheets := []SheetModel{
		BuildBriefSheet(doc, schema.Fields()),
		BuildLinksSheet(doc, schema.Fields()),
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export: ensure export dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: create %s: %w", path, err)
	}
	defer f.Close()
	if err := WriteWorkbook(sheets, f); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: close %s: %w", path, err)
	}
	return nil
}

// WriteWorkbookFile exports the brief as a spreadsheet under dir with the
// given base name. When the XLSX writer fails it falls back to the legacy
// HTML .xls path and reports the path actually written. Only when both
// paths fail does it return an error.
func WriteWorkbookFile(doc *brief.Document, dir, base string) (string, bool, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		base = DefaultBaseName
	}
	xlsxPath := filepath.Join(dir, base+".xlsx")
	xlsxErr := WriteXLSX(doc, xlsxPath)
	if xlsxErr == nil {
		return xlsxPath, false, nil
	}
	// remove the partial file before the fallback
	_ = os.Remove(xlsxPath)

	xlsPath := filepath.Join(dir, base+".xls")
	if err := WriteHTMLXLS(doc, xlsPath); err != nil {
		return "", false, fmt.Errorf("export: workbook failed (%v); legacy export failed too: %w", xlsxErr, err)
	}
	return xlsPath, true, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export: ensure export dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}
