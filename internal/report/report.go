package report

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"goeda/domain/eda"
)

// Markdown renders a compact analysis report: overview, column table, insights and high correlations
func Markdown(result *eda.AnalysisResult) string {
	var b strings.Builder
	ov := result.Overview

	b.WriteString(fmt.Sprintf("# Dataset report: %s\n\n", escape(ov.Filename)))
	b.WriteString("## Overview\n\n")
	b.WriteString(fmt.Sprintf("- Rows: %d\n", ov.TotalRows))
	b.WriteString(fmt.Sprintf("- Columns: %d\n", ov.TotalColumns))
	b.WriteString(fmt.Sprintf("- Memory: %.2f MB\n", ov.MemoryUsageMB))
	b.WriteString(fmt.Sprintf("- Duplicate rows: %d\n\n", ov.DuplicateRows))

	b.WriteString("## Columns\n\n")
	b.WriteString("| Column | Type | Missing | Unique | Summary |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, cs := range result.ColumnStats {
		b.WriteString(fmt.Sprintf("| %s | %s | %d (%.1f%%) | %d | %s |\n",
			escape(cs.ColumnName), cs.Kind, cs.MissingCount, cs.MissingPercentage, cs.UniqueCount, summary(cs)))
	}

	b.WriteString("\n## Insights\n\n")
	if len(result.Insights) == 0 {
		b.WriteString("No notable findings.\n")
	}
	for _, in := range result.Insights {
		b.WriteString(fmt.Sprintf("- **%s**: %s\n", in.Category, escape(in.Message)))
	}

	if cm := result.ChartData.CorrelationMatrix; cm != nil && len(cm.HighCorrelations) > 0 {
		b.WriteString("\n## High correlations\n\n")
		for _, p := range cm.HighCorrelations {
			b.WriteString(fmt.Sprintf("- %s / %s: %.3f\n", escape(p.Column1), escape(p.Column2), p.Correlation))
		}
	}
	return b.String()
}

// HTML renders the Markdown report as a standalone HTML page
func HTML(result *eda.AnalysisResult) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: "Dataset report: " + result.Overview.Filename,
	})
	return markdown.ToHTML([]byte(Markdown(result)), p, renderer)
}

func summary(cs eda.ColumnStats) string {
	if n := cs.Numeric; n != nil {
		if n.Mean == nil {
			return "no values"
		}
		return fmt.Sprintf("mean %s, std %s, min %s, max %s", num(n.Mean), num(n.Std), num(n.Min), num(n.Max))
	}
	if c := cs.Categorical; c != nil && len(c.TopValues) > 0 {
		parts := make([]string, 0, 3)
		for i, vc := range c.TopValues {
			if i == 3 {
				break
			}
			parts = append(parts, fmt.Sprintf("%s (%d)", escape(vc.Value), vc.Count))
		}
		return "top: " + strings.Join(parts, ", ")
	}
	return ""
}

func num(f *float64) string {
	if f == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4g", *f)
}

var markdownEscaper = strings.NewReplacer("|", `\|`, "\n", " ", "\r", " ")

func escape(s string) string {
	return markdownEscaper.Replace(s)
}
