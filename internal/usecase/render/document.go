// Package render turns a finished run's selected events into the canonical
// deliverables (outputs/executive_report.pptx|.docx and their
// NOT_READY counterparts). It builds an intermediate Markdown document with
// gomarkdown/markdown's AST so both renderers walk the same parsed block
// structure instead of hand-splitting strings twice, then emits each target
// format as a minimal, valid OOXML package.
package render

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"

	"briefline/internal/domain/entity"
)

// Block is one renderable unit: a section heading or a paragraph of body
// text, in document order.
type Block struct {
	Heading bool
	Level   int
	Text    string
}

// BuildMarkdown renders events into a Markdown document: one H1 with the
// document title, then one H2 per event titled with its headline (its item
// id when the headline is empty), followed by the Q1/Q2/Q3/Proof narrative
// paragraphs in order.
func BuildMarkdown(title string, events []entity.Event) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	for _, e := range events {
		heading := e.Title
		if heading == "" {
			heading = e.ItemID
		}
		fmt.Fprintf(&b, "## %s\n\n", heading)
		for _, p := range []string{e.Q1, e.Q2, e.Q3, e.Proof} {
			if p == "" {
				continue
			}
			fmt.Fprintf(&b, "%s\n\n", p)
		}
	}
	return b.String()
}

// ParseBlocks walks the Markdown AST produced by gomarkdown/markdown and
// flattens it to the ordered Block list both renderers consume.
func ParseBlocks(source string) []Block {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse([]byte(source))

	var blocks []Block
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch n := node.(type) {
		case *ast.Heading:
			blocks = append(blocks, Block{Heading: true, Level: n.Level, Text: textOf(n)})
			return ast.SkipChildren
		case *ast.Paragraph:
			if text := textOf(n); text != "" {
				blocks = append(blocks, Block{Text: text})
			}
			return ast.SkipChildren
		}
		return ast.GoToNext
	})
	return blocks
}

// textOf concatenates the literal text of every leaf under node.
func textOf(node ast.Node) string {
	var b strings.Builder
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		if leaf := n.AsLeaf(); leaf != nil && len(leaf.Literal) > 0 {
			b.Write(leaf.Literal)
		}
		return ast.GoToNext
	})
	return b.String()
}

// RenderedText concatenates every block's text, the form EXEC_TEXT_BAN_SCAN
// scans for banned ellipsis/hollow-CTA phrases.
func RenderedText(blocks []Block) string {
	parts := make([]string, len(blocks))
	for i, b := range blocks {
		parts[i] = b.Text
	}
	return strings.Join(parts, "\n")
}

// NotReadyMarkdown renders the placeholder shown in place of a FAIL run's
// deliverables (outputs/NOT_READY_report.*).
func NotReadyMarkdown(runID, reason string) string {
	return fmt.Sprintf("# NOT READY\n\nRun %s did not pass its quality gates.\n\nReason: %s\n", runID, reason)
}
