package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"soundwatch/internal/analysis"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// WordReport prints the top corpus-wide term counts.
func WordReport(w io.Writer, counts []analysis.TermCount, limit int) {
	if limit > 0 && limit < len(counts) {
		counts = counts[:limit]
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Term", "Count"})
	for _, c := range counts {
		t.AppendRow(table.Row{c.Term, c.Count})
	}
	t.Render()
}

// TFIDFReport prints the top tf-idf weighted (document, term) pairs.
func TFIDFReport(w io.Writer, scores []analysis.TermScore, limit int) {
	scores = analysis.TopTerms(scores, limit)

	t := newTable(w)
	t.AppendHeader(table.Row{"Tweet", "Term", "Count", "TF-IDF"})
	for _, s := range scores {
		t.AppendRow(table.Row{s.Doc, s.Term, s.Count, fmt.Sprintf("%.4f", s.TFIDF)})
	}
	t.Render()
}

// SentimentReport prints the corpus sentiment summary.
func SentimentReport(w io.Writer, total analysis.SentimentSummary) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Tokens", "Matched", "Positive", "Negative", "Negative share"})
	t.AppendRow(table.Row{
		total.Tokens,
		total.Matched,
		total.Positive,
		total.Negative,
		fmt.Sprintf("%.3f", total.NegativeShare()),
	})
	t.Render()
}

// DictionaryReport prints per-category match counts.
func DictionaryReport(w io.Writer, counts []analysis.CategoryCount) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Category", "Matches"})
	for _, c := range counts {
		t.AppendRow(table.Row{c.Category, c.Count})
	}
	t.Render()
}

// RegressionReport prints the fitted model.
func RegressionReport(w io.Writer, fit *analysis.Fit) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Covariate", "Coefficient"})
	for i, name := range fit.Names {
		t.AppendRow(table.Row{name, fmt.Sprintf("%.4f", fit.Coefficients[i])})
	}
	t.AppendFooter(table.Row{"R²", fmt.Sprintf("%.4f", fit.R2)})
	t.AppendFooter(table.Row{"N", fit.N})
	t.Render()
}
