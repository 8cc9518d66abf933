package render

import (
	"fmt"
	"os"
	"path/filepath"

	"briefline/internal/domain/entity"
)

// Canonical deliverable filenames under the run's output directory.
const (
	DeckFile     = "executive_report.pptx"
	DocFile      = "executive_report.docx"
	DigestFile   = "executive_report.md"
	NotReadyDeck = "NOT_READY_report.pptx"
	NotReadyDoc  = "NOT_READY_report.docx"
	NotReadyMD   = "NOT_READY.md"
)

// Bundle is the result of rendering one run's deliverables: the paths
// written plus the flattened text EXEC_TEXT_BAN_SCAN audits.
type Bundle struct {
	DeckPath     string
	DocPath      string
	DigestPath   string
	RenderedText string
	SlideCount   int
}

// WriteBundle renders events into the canonical deck, document, and markdown
// digest under outDir. All three derive from one Markdown build so they can
// never disagree on content.
func WriteBundle(outDir, title string, events []entity.Event) (Bundle, error) {
	source := BuildMarkdown(title, events)
	blocks := ParseBlocks(source)
	slides := SlidesFromBlocks(blocks)

	b := Bundle{
		DeckPath:     filepath.Join(outDir, DeckFile),
		DocPath:      filepath.Join(outDir, DocFile),
		DigestPath:   filepath.Join(outDir, DigestFile),
		RenderedText: RenderedText(blocks),
		SlideCount:   len(slides),
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return b, fmt.Errorf("render: mkdir %s: %w", outDir, err)
	}
	if err := WritePptx(b.DeckPath, slides); err != nil {
		return b, err
	}
	if err := WriteDocx(b.DocPath, blocks); err != nil {
		return b, err
	}
	if err := os.WriteFile(b.DigestPath, []byte(source), 0o644); err != nil {
		return b, fmt.Errorf("render: write digest %s: %w", b.DigestPath, err)
	}
	return b, nil
}

// WriteNotReady renders the NOT_READY placeholder pair plus NOT_READY.md so
// the operator always has something to open after a FAIL.
func WriteNotReady(outDir, runID, reason string) error {
	source := NotReadyMarkdown(runID, reason)
	blocks := ParseBlocks(source)
	if err := WritePptx(filepath.Join(outDir, NotReadyDeck), SlidesFromBlocks(blocks)); err != nil {
		return err
	}
	if err := WriteDocx(filepath.Join(outDir, NotReadyDoc), blocks); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, NotReadyMD), []byte(source), 0o644); err != nil {
		return fmt.Errorf("render: write %s: %w", NotReadyMD, err)
	}
	return nil
}
