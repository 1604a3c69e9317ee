package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/randomtoy/oura/internal/ports"
)

// MarkdownWriter renders a reading as GitHub-flavored Markdown.
type MarkdownWriter struct{}

func (MarkdownWriter) ContentType() string { return "text/markdown; charset=utf-8" }

func (w MarkdownWriter) Write(out io.Writer, doc ports.ReadingDocument) error {
	md := markdown.NewMarkdown(out)

	md.H1(doc.Title)
	md.PlainText("")
	md.PlainText(doc.Spread)
	md.PlainText("")

	w.writeTable(md, doc)
	w.writeCards(md, doc)

	md.H2(doc.Headings.Summary)
	md.PlainText("")
	md.PlainText(doc.Summary)
	md.PlainText("")

	md.H2(doc.Headings.Advice)
	md.PlainText("")
	md.Tip(doc.Advice)

	return md.Build()
}

func (w MarkdownWriter) writeTable(md *markdown.Markdown, doc ports.ReadingDocument) {
	rows := make([][]string, len(doc.Cards))
	for i, c := range doc.Cards {
		rows[i] = []string{strconv.Itoa(c.Index + 1), c.Position, c.Card, c.Category}
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", doc.Headings.Position, doc.Headings.Card, doc.Headings.Category},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w MarkdownWriter) writeCards(md *markdown.Markdown, doc ports.ReadingDocument) {
	md.H2(doc.Headings.Interpretation)
	md.PlainText("")
	for _, c := range doc.Cards {
		md.H3(c.Position + " · " + c.Card)
		md.PlainText("")
		md.PlainText(c.Interpretation)
		md.PlainText("")
	}
}
