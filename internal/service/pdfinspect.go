package service

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFInspector wraps the pdfcpu operations the services need: upload
// validation and best-effort text extraction for the auto-tagger.
type PDFInspector struct {
	conf *model.Configuration
}

func NewPDFInspector() *PDFInspector {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PDFInspector{conf: conf}
}

// Inspect validates that path is a readable PDF and returns its page
// count.
func (p *PDFInspector) Inspect(path string) (int, error) {
	if err := api.ValidateFile(path, p.conf); err != nil {
		return 0, fmt.Errorf("not a valid PDF: %w", err)
	}
	pages, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("page count: %w", err)
	}
	return pages, nil
}

// literals matches string literals in PDF content-stream show-text
// operators (Tj and TJ arrays).
var literals = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)\s*(?:Tj|TJ|'|")|\[((?:[^\[\]])*)\]\s*TJ`)

var parenLiteral = regexp.MustCompile(`\(((?:[^()\\]|\\.)*)\)`)

// ExtractText pulls text from the first few pages of the PDF at path.
// pdfcpu extracts raw content streams, so this is approximate: it
// collects the string literals fed to the show-text operators. Good
// enough as tagger input; not a faithful text rendering.
func (p *PDFInspector) ExtractText(path string, maxPages int, limit int) (string, error) {
	tmpDir, err := os.MkdirTemp("", "pdftext-")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	var pages []string
	for i := 1; i <= maxPages; i++ {
		pages = append(pages, fmt.Sprintf("%d", i))
	}

	if err := api.ExtractContentFile(path, tmpDir, pages, p.conf); err != nil {
		return "", fmt.Errorf("extract content: %w", err)
	}

	entries, err := filepath.Glob(filepath.Join(tmpDir, "*"))
	if err != nil {
		return "", fmt.Errorf("read extracted content: %w", err)
	}

	var b strings.Builder
	for _, entry := range entries {
		data, err := os.ReadFile(entry)
		if err != nil {
			continue
		}
		for _, m := range literals.FindAllStringSubmatch(string(data), -1) {
			if m[1] != "" {
				b.WriteString(unescapePDFString(m[1]))
				b.WriteByte(' ')
			} else if m[2] != "" {
				// TJ array: pull each parenthesized literal
				for _, inner := range parenLiteral.FindAllStringSubmatch(m[2], -1) {
					b.WriteString(unescapePDFString(inner[1]))
				}
				b.WriteByte(' ')
			}
		}
		if b.Len() >= limit {
			break
		}
	}

	text := strings.Join(strings.Fields(b.String()), " ")
	if len(text) > limit {
		text = text[:limit]
	}
	return text, nil
}

func unescapePDFString(s string) string {
	replacer := strings.NewReplacer(
		`\(`, "(",
		`\)`, ")",
		`\\`, `\`,
		`\n`, "\n",
		`\r`, "",
		`\t`, " ",
	)
	return replacer.Replace(s)
}
