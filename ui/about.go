package ui

import (
	"html/template"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
)

var aboutMarkdown = map[stats.TestFamily]string{
	stats.IndependentGroups: `### Mann-Whitney U test

Also known as the Wilcoxon rank-sum test. A non-parametric test comparing two ***independent*** groups.
It does not assume normally distributed intensities and asks whether the two groups are likely drawn
from the same distribution.

- **U-val**: U statistic of group A
- **RBC**: rank-biserial correlation, from -1 to 1
- **CLES**: probability that a value from A exceeds one from B
- **p-corrected**: p-value after multiple-testing correction; significant when below 0.05`,

	stats.PairedSamples: `### Wilcoxon signed-rank test

A non-parametric test comparing two ***dependent*** samples, such as the same subjects before and after a
treatment. It is the rank-based alternative to the paired t-test. Samples are paired by their order
within each group, so both groups must have the same number of samples.

- **W-val**: smaller of the positive and negative rank sums (two-sided), or the positive rank sum
- **RBC**: matched-pairs rank-biserial correlation
- **p-corrected**: p-value after multiple-testing correction; significant when below 0.05`,
}

// renderAbout turns a family's description into HTML. Unknown families render empty.
func renderAbout(family stats.TestFamily) template.HTML {
	md, ok := aboutMarkdown[family]
	if !ok {
		return ""
	}
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return template.HTML(markdown.ToHTML([]byte(md), p, renderer))
}
